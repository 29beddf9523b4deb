package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata of the tsc binary.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version printed by --version.
	Version = "5.4.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

func init() {
	for _, c := range []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor} {
		c.EnableColor()
	}
}

// Info is the build metadata recorded in build info files and traces.
type Info struct {
	Version   string `json:"version" msgpack:"version"`
	GitCommit string `json:"git_commit,omitempty" msgpack:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty" msgpack:"build_date,omitempty"`
}

// Current returns the metadata of this binary.
func Current() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

// Text is the line printed by --version.
func Text() string {
	return "Version " + Version
}

// Colored renders Text with the major, minor and patch parts colored.
// Versions that are not dotted triples are returned uncolored.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Text()
	}
	out := "Version " + versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}
