// Package tsoptions turns command-line arguments and tsconfig.json files into
// a closed Options value. Every recognised option has one entry in the
// declaration table; parsing, merging, help output and config serialisation
// are all driven from that table.
package tsoptions

import (
	"tsc/internal/core"
	"tsc/internal/diag"
)

// Options holds every recognised compiler and build option. Booleans are
// tristate so an unset value can be told apart from an explicit false.
// Fields tagged json:"-" are command-line only and never serialised.
type Options struct {
	Help       core.Tristate `json:"-"`
	All        core.Tristate `json:"-"`
	Version    core.Tristate `json:"-"`
	Init       core.Tristate `json:"-"`
	Project    string        `json:"-"`
	Build      core.Tristate `json:"-"`
	ShowConfig core.Tristate `json:"-"`
	Locale     string        `json:"-"`
	Watch      core.Tristate `json:"-"`

	Pretty              core.Tristate `json:"pretty,omitempty"`
	Incremental         core.Tristate `json:"incremental,omitempty"`
	Diagnostics         core.Tristate `json:"diagnostics,omitempty"`
	ExtendedDiagnostics core.Tristate `json:"extendedDiagnostics,omitempty"`
	ListFiles           core.Tristate `json:"listFiles,omitempty"`
	ListEmittedFiles    core.Tristate `json:"listEmittedFiles,omitempty"`
	NoEmit              core.Tristate `json:"noEmit,omitempty"`
	NoEmitOnError       core.Tristate `json:"noEmitOnError,omitempty"`
	OutDir              string        `json:"outDir,omitempty"`
	RootDir             string        `json:"rootDir,omitempty"`
	TsBuildInfoFile     string        `json:"tsBuildInfoFile,omitempty"`
	Target              string        `json:"target,omitempty"`
	Module              string        `json:"module,omitempty"`
	Strict              core.Tristate `json:"strict,omitempty"`
	Composite           core.Tristate `json:"composite,omitempty"`
	PreserveWatchOutput core.Tristate `json:"preserveWatchOutput,omitempty"`

	// build mode only
	Verbose core.Tristate `json:"-"`
	Dry     core.Tristate `json:"-"`
	Force   core.Tristate `json:"-"`
	Clean   core.Tristate `json:"-"`

	// ConfigFilePath is set on options that came from a tsconfig.json.
	ConfigFilePath string `json:"-"`
}

// Clone returns a shallow copy; Options holds no reference types.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}
	c := *o
	return &c
}

// ParsedCommandLine is the result of parsing compiler arguments.
type ParsedCommandLine struct {
	Options   *Options
	FileNames []string
	Errors    []*diag.Diagnostic
}

// ParsedBuildCommandLine is the result of parsing arguments after --build.
type ParsedBuildCommandLine struct {
	BuildOptions *Options
	Projects     []string
	Errors       []*diag.Diagnostic
}

// ProjectReference points at another project's config file.
type ProjectReference struct {
	// Path is the absolute config file path.
	Path string
	// OriginalPath is the path as written in "references".
	OriginalPath string
}

// ConfigParseResult is a parsed tsconfig.json overlaid with command-line
// options.
type ConfigParseResult struct {
	ParsedCommandLine
	ConfigFilePath    string
	ProjectReferences []ProjectReference
	// Raw file specs as written; nil when absent.
	Files   []string
	Include []string
	Exclude []string
}
