// Package stats collects compilation counters and timings and renders them
// as an aligned two-column table when diagnostics are requested.
package stats

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"

	"tsc/internal/host"
	"tsc/internal/performance"
	"tsc/internal/source"
	"tsc/internal/tsoptions"
)

// Statistic is one table row.
type Statistic struct {
	Name  string
	Value string
}

// CacheSizes are the relation cache counters of a checked program.
type CacheSizes struct {
	Assignability int
	Identity      int
	Subtype       int
}

// Program is the view of a compiled program the table is built from.
type Program interface {
	CompilerOptions() *tsoptions.Options
	SourceFiles() []*source.File
	NodeCount() int
	IdentifierCount() int
	SymbolCount() int
	TypeCount() int
	RelationCacheSizes() CacheSizes
}

// Reporter owns the performance tracker of one invocation.
type Reporter struct {
	sys     host.System
	tracker *performance.Tracker
}

// NewReporter creates a disabled reporter writing to sys.
func NewReporter(sys host.System) *Reporter {
	return &Reporter{sys: sys, tracker: performance.NewTrackerWithClock(sys.Now)}
}

// Tracker is handed to the engine so it can record measures.
func (r *Reporter) Tracker() *performance.Tracker {
	if r == nil {
		return nil
	}
	return r.tracker
}

// Enable turns capture on when opts asks for diagnostics. It is idempotent.
func (r *Reporter) Enable(opts *tsoptions.Options) {
	if r == nil || !wantsDiagnostics(opts) {
		return
	}
	r.tracker.Enable()
}

// Disable ends capture and drops all recorded measures.
func (r *Reporter) Disable() {
	if r == nil {
		return
	}
	r.tracker.Disable()
}

func wantsDiagnostics(opts *tsoptions.Options) bool {
	return opts != nil && (opts.Diagnostics.IsTrue() || opts.ExtendedDiagnostics.IsTrue())
}

// Report renders the statistics table for p. It does nothing unless capture
// is on and p's options ask for diagnostics.
func (r *Reporter) Report(p Program) {
	if r == nil || p == nil || !r.tracker.Enabled() {
		return
	}
	opts := p.CompilerOptions()
	if !wantsDiagnostics(opts) {
		return
	}
	rows := r.Collect(p, opts.ExtendedDiagnostics.IsTrue())
	Write(r.sys.Writer(), r.sys.NewLine(), rows)
}

// Collect gathers rows in display order.
func (r *Reporter) Collect(p Program, extended bool) []Statistic {
	var rows []Statistic
	count := func(name string, n int) {
		rows = append(rows, Statistic{Name: name, Value: strconv.Itoa(n)})
	}
	clock := func(name string, d time.Duration) int64 {
		c := centiseconds(d)
		rows = append(rows, Statistic{Name: name, Value: formatCentis(c)})
		return c
	}

	files := p.SourceFiles()
	lines := 0
	for _, f := range files {
		lines += f.LineCount()
	}
	count("Files", len(files))
	count("Lines", lines)
	count("Nodes", p.NodeCount())
	count("Identifiers", p.IdentifierCount())
	count("Symbols", p.SymbolCount())
	count("Types", p.TypeCount())
	if mem := r.sys.GetMemoryUsage(); mem >= 0 {
		rows = append(rows, Statistic{Name: "Memory used", Value: strconv.FormatInt((mem+500)/1000, 10) + "K"})
	}

	t := r.tracker
	parse := t.Duration(performance.Program)
	bind := t.Duration(performance.Bind)
	check := t.Duration(performance.Check)
	emit := t.Duration(performance.Emit)

	if extended {
		caches := p.RelationCacheSizes()
		count("Assignability cache size", caches.Assignability)
		count("Identity cache size", caches.Identity)
		count("Subtype cache size", caches.Subtype)
		t.ForEachMeasure(func(name string, d time.Duration) {
			clock(name+" time", d)
		})
	} else {
		// Parse time includes I/O read and reference resolution; emit time
		// includes I/O write.
		clock("I/O read", t.Duration(performance.IORead))
		clock("I/O write", t.Duration(performance.IOWrite))
		clock("Parse time", parse)
		clock("Bind time", bind)
		clock("Check time", check)
		clock("Emit time", emit)
	}
	total := centiseconds(parse) + centiseconds(bind) + centiseconds(check) + centiseconds(emit)
	rows = append(rows, Statistic{Name: "Total time", Value: formatCentis(total)})
	return rows
}

// Write renders rows as name/value columns. Names are right-padded to the
// widest name plus two, values left-padded to the widest value.
func Write(w io.Writer, newLine string, rows []Statistic) {
	nameWidth, valueWidth := 0, 0
	for _, s := range rows {
		nameWidth = max(nameWidth, runewidth.StringWidth(s.Name))
		valueWidth = max(valueWidth, runewidth.StringWidth(s.Value))
	}
	for _, s := range rows {
		fmt.Fprint(w, padRight(s.Name+":", nameWidth+2)+padLeft(s.Value, valueWidth)+newLine)
	}
}

func padRight(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return s
	}
	return runewidth.FillRight(s, width)
}

func padLeft(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return s
	}
	return runewidth.FillLeft(s, width)
}

func centiseconds(d time.Duration) int64 {
	const unit = 10 * time.Millisecond
	return int64((d + unit/2) / unit)
}

func formatCentis(c int64) string {
	return fmt.Sprintf("%d.%02ds", c/100, c%100)
}
