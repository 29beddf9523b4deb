// Package diagfmt renders diagnostics to the host output stream. A Sink binds
// one plain or pretty reporter for its whole lifetime; a change of prettiness
// produces a new Sink instead of mutating the current one.
package diagfmt

import (
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"

	"tsc/internal/diag"
	"tsc/internal/host"
	"tsc/internal/tsoptions"
)

// Reporter writes one diagnostic.
type Reporter func(*diag.Diagnostic)

// ErrorSummary writes the closing "Found N errors." line of a pass.
type ErrorSummary func(errorCount int)

// Sink is the active diagnostic reporter of an invocation.
type Sink struct {
	w      io.Writer
	pretty bool
	opts   Opts
}

// NewSink binds a reporter writing to sys with the given prettiness.
func NewSink(sys host.System, pretty bool) *Sink {
	return &Sink{
		w:      sys.Writer(),
		pretty: pretty,
		opts: Opts{
			CurrentDir: sys.GetCurrentDirectory(),
			NewLine:    sys.NewLine(),
		},
	}
}

// ShouldBePretty resolves prettiness: an explicit --pretty wins, otherwise
// output is pretty when the host writes to a terminal.
func ShouldBePretty(sys host.System, opts *tsoptions.Options) bool {
	if opts == nil || opts.Pretty.IsUnknown() {
		return sys.IsTerminal()
	}
	return opts.Pretty.IsTrue()
}

// Pretty reports how this sink renders.
func (s *Sink) Pretty() bool { return s.pretty }

// Rebind returns s when opts resolve to the same prettiness and a new sink
// otherwise. Nothing already reported is written again.
func (s *Sink) Rebind(sys host.System, opts *tsoptions.Options) *Sink {
	pretty := ShouldBePretty(sys, opts)
	if pretty == s.pretty {
		return s
	}
	next := NewSink(sys, pretty)
	next.opts.Translator = s.opts.Translator
	return next
}

// WithTranslator returns a sink with the same prettiness rendering messages
// through tr.
func (s *Sink) WithTranslator(tr diag.Translator) *Sink {
	next := *s
	next.opts.Translator = tr
	return &next
}

// Translator returns the message translator, nil for English.
func (s *Sink) Translator() diag.Translator { return s.opts.Translator }

// Report writes d in the bound format.
func (s *Sink) Report(d *diag.Diagnostic) {
	if d == nil {
		return
	}
	if s.pretty {
		_ = FormatPretty(s.w, d, s.opts)
		return
	}
	_ = FormatPlain(s.w, d, s.opts)
}

// ReportAll writes every diagnostic in order.
func (s *Sink) ReportAll(ds []*diag.Diagnostic) {
	for _, d := range ds {
		s.Report(d)
	}
}

// Reporter returns Report as a function value.
func (s *Sink) Reporter() Reporter { return s.Report }

// ErrorSummary returns nil unless the sink is pretty.
func (s *Sink) ErrorSummary() ErrorSummary {
	if !s.pretty {
		return nil
	}
	return func(errorCount int) {
		if text := SummaryText(errorCount); text != "" {
			nl := s.opts.newLine()
			_, _ = io.WriteString(s.w, nl+text+nl+nl)
		}
	}
}

// SummaryText is "Found 1 error." or "Found N errors.", empty for zero.
func SummaryText(errorCount int) string {
	switch errorCount {
	case 0:
		return ""
	case 1:
		return "Found 1 error."
	}
	return "Found " + strconv.Itoa(errorCount) + " errors."
}

const clearScreen = "\x1bc"

var timestampColor = forced(color.FgHiBlack)

// WatchStatus writes a watch-mode status line stamped with now. Pretty sinks
// clear the screen before a new compilation unless preserve is set.
func (s *Sink) WatchStatus(d *diag.Diagnostic, now time.Time, preserve bool) {
	nl := s.opts.newLine()
	stamp := now.Format("3:04:05 PM")
	text := d.Localized(s.opts.Translator)
	if !s.pretty {
		_, _ = io.WriteString(s.w, stamp+" - "+text+nl+nl)
		return
	}
	prefix := ""
	if !preserve && startsCompilation(d.Code) {
		prefix = clearScreen
	}
	_, _ = io.WriteString(s.w, prefix+"["+timestampColor.Sprint(stamp)+"] "+text+nl+nl)
}

func startsCompilation(code diag.Code) bool {
	return code == diag.StartingCompilationInWatchMode.Code || code == diag.FileChangeDetected.Code
}
