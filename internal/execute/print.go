package execute

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tsc/internal/core"
	"tsc/internal/diag"
	"tsc/internal/tsoptions"
	"tsc/internal/version"
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))

func (inv *invocation) write(text string) {
	_, _ = io.WriteString(inv.sys.Writer(), text+inv.sys.NewLine())
}

func (inv *invocation) heading(text string) string {
	if !inv.sink.Pretty() {
		return text
	}
	return headingStyle.Render(text)
}

func (inv *invocation) printVersion() {
	if inv.sink.Pretty() {
		inv.write(version.Colored())
		return
	}
	inv.write(version.Text())
}

var (
	compileSyntax   = "tsc [options] [file...]"
	compileExamples = []string{
		"tsc hello.ts",
		"tsc --outDir dist --target es2015 src/main.ts",
		"tsc --project tsconfig.json",
		"tsc --build tsconfig.json",
	}
	buildSyntax   = "tsc --build [options] [project...]"
	buildExamples = []string{
		"tsc -b",
		"tsc -b --verbose app",
		"tsc -b --clean",
	}
)

// printHelp writes the usage block followed by one row per option with the
// names padded to a common width.
func (inv *invocation) printHelp(syntax string, examples []string, decls []*tsoptions.Declaration) {
	inv.write(inv.heading("Syntax:") + "   " + syntax)
	inv.write("")
	for i, ex := range examples {
		label := "          "
		if i == 0 {
			label = inv.heading("Examples:") + " "
		}
		inv.write(label + ex)
	}
	inv.write("")
	inv.write(inv.heading("Options:"))

	width := 0
	for _, d := range decls {
		width = max(width, runewidth.StringWidth(d.Usage()))
	}
	for _, d := range decls {
		usage := d.Usage()
		line := " " + usage + strings.Repeat(" ", width-runewidth.StringWidth(usage)+2) + d.Description
		if d.Kind != tsoptions.KindBoolean {
			line += " [" + d.ValueHint() + "]"
		}
		inv.write(line)
	}
}

// writeConfigFile scaffolds tsconfig.json in the working directory unless one
// exists already.
func (inv *invocation) writeConfigFile(cmdline *tsoptions.Options) core.ExitStatus {
	path := filepath.Join(inv.sys.GetCurrentDirectory(), tsoptions.ConfigFileName)
	if inv.sys.FileExists(path) {
		inv.sink.Report(diag.NewGlobal(diag.TsconfigAlreadyDefined, path))
		return core.ExitSuccess
	}
	text, err := tsoptions.GenerateTSConfig(cmdline, inv.sys.NewLine())
	if err == nil {
		err = inv.sys.WriteFile(path, []byte(text))
	}
	if err != nil {
		inv.sink.Report(diag.NewGlobal(diag.CouldNotWriteFile, path, err.Error()))
		return core.ExitDiagnosticsPresentOutputsSkipped
	}
	inv.sink.Report(diag.NewGlobal(diag.SuccessfullyCreatedTsconfig))
	return core.ExitSuccess
}
