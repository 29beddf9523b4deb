package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"tsc/internal/diag"
	"tsc/internal/source"
)

// maxContextLines caps the source lines shown for a multi-line span.
const maxContextLines = 4

type palette struct {
	path     *color.Color
	pos      *color.Color
	gutter   *color.Color
	code     *color.Color
	squiggle map[diag.Category]*color.Color
}

func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

var colors = palette{
	path:   forced(color.FgCyan),
	pos:    forced(color.FgYellow),
	gutter: forced(color.ReverseVideo),
	code:   forced(color.FgHiBlack),
	squiggle: map[diag.Category]*color.Color{
		diag.CategoryError:      forced(color.FgRed),
		diag.CategoryWarning:    forced(color.FgYellow),
		diag.CategorySuggestion: forced(color.FgHiBlack),
		diag.CategoryMessage:    forced(color.FgBlue),
	},
}

func categoryColor(c diag.Category) *color.Color {
	if col, ok := colors.squiggle[c]; ok {
		return col
	}
	return colors.squiggle[diag.CategoryMessage]
}

// FormatPretty writes one diagnostic with colors and a source excerpt:
//
//	file:line:col - error TS1234: message
//
//	12 let x = 1;
//	       ~
//
// ANSI colors are always emitted; prettiness is decided by the caller.
func FormatPretty(w io.Writer, d *diag.Diagnostic, opts Opts) error {
	nl := opts.newLine()
	var b strings.Builder
	if d.File != nil {
		pos := d.File.Position(d.Start)
		b.WriteString(colors.path.Sprint(opts.displayPath(d.File.Path)))
		b.WriteString(":")
		b.WriteString(colors.pos.Sprint(strconv.FormatUint(uint64(pos.Line), 10)))
		b.WriteString(":")
		b.WriteString(colors.pos.Sprint(strconv.FormatUint(uint64(pos.Col), 10)))
		b.WriteString(" - ")
	}
	b.WriteString(categoryColor(d.Category).Sprint(d.Category.Name()))
	b.WriteString(colors.code.Sprintf(" %s: ", d.Code.ID()))
	b.WriteString(d.Localized(opts.Translator))
	if d.File != nil {
		b.WriteString(nl)
		writeExcerpt(&b, d, nl)
	}
	b.WriteString(nl)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeExcerpt(b *strings.Builder, d *diag.Diagnostic, nl string) {
	f := d.File
	start := f.Position(d.Start)
	end := f.Position(d.Start + d.Length)
	if end.Line < start.Line {
		end = start
	}
	gutterWidth := len(strconv.FormatUint(uint64(end.Line), 10))
	squiggle := categoryColor(d.Category)

	for line := start.Line; line <= end.Line; line++ {
		if line-start.Line == maxContextLines-1 && end.Line-start.Line >= maxContextLines {
			b.WriteString(colors.gutter.Sprint(padNumber("...", gutterWidth)))
			b.WriteString(nl)
			line = end.Line
		}
		text := expandTabs(f.GetLine(line))
		b.WriteString(colors.gutter.Sprint(padNumber(strconv.FormatUint(uint64(line), 10), gutterWidth)))
		b.WriteString(" ")
		b.WriteString(text)
		b.WriteString(nl)

		from, to := 0, len(text)
		if line == start.Line {
			from = columnIn(f, line, start.Col)
		}
		if line == end.Line {
			to = columnIn(f, line, end.Col)
		}
		if to <= from {
			to = from + 1
		}
		b.WriteString(colors.gutter.Sprint(strings.Repeat(" ", gutterWidth)))
		b.WriteString(" ")
		b.WriteString(strings.Repeat(" ", from))
		b.WriteString(squiggle.Sprint(strings.Repeat("~", to-from)))
		b.WriteString(nl)
	}
}

// columnIn maps a 1-based byte column to a 0-based offset in the
// tab-expanded line.
func columnIn(f *source.File, line, col uint32) int {
	raw := f.GetLine(line)
	n := int(col) - 1
	if n > len(raw) {
		n = len(raw)
	}
	return len(expandTabs(raw[:n]))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func padNumber(s string, width int) string {
	return fmt.Sprintf("%*s", width, s)
}
