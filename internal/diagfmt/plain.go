package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"tsc/internal/diag"
)

// FormatPlain writes one diagnostic in the compact form
//
//	file(line,col): error TS1234: message
//
// Global diagnostics omit the location prefix.
func FormatPlain(w io.Writer, d *diag.Diagnostic, opts Opts) error {
	var b strings.Builder
	if d.File != nil {
		pos := d.File.Position(d.Start)
		fmt.Fprintf(&b, "%s(%d,%d): ", opts.displayPath(d.File.Path), pos.Line, pos.Col)
	}
	fmt.Fprintf(&b, "%s %s: %s", d.Category.Name(), d.Code.ID(), d.Localized(opts.Translator))
	b.WriteString(opts.newLine())
	_, err := io.WriteString(w, b.String())
	return err
}
