package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"tsc/internal/core"
	"tsc/internal/host"
	"tsc/internal/performance"
	"tsc/internal/source"
	"tsc/internal/tsoptions"
)

type fakeProgram struct {
	opts  *tsoptions.Options
	files []*source.File
}

func (p *fakeProgram) CompilerOptions() *tsoptions.Options { return p.opts }
func (p *fakeProgram) SourceFiles() []*source.File         { return p.files }
func (p *fakeProgram) NodeCount() int                      { return 42 }
func (p *fakeProgram) IdentifierCount() int                { return 7 }
func (p *fakeProgram) SymbolCount() int                    { return 5 }
func (p *fakeProgram) TypeCount() int                      { return 0 }
func (p *fakeProgram) RelationCacheSizes() CacheSizes      { return CacheSizes{Identity: 2} }

func newProgram(opts *tsoptions.Options) *fakeProgram {
	fs := source.NewFileSet()
	a := fs.Get(fs.AddVirtual("a.ts", []byte("let a;\nlet b;\n")))
	b := fs.Get(fs.AddVirtual("b.ts", []byte("let c;")))
	return &fakeProgram{opts: opts, files: []*source.File{a, b}}
}

func TestWriteAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, "\n", []Statistic{
		{Name: "Files", Value: "3"},
		{Name: "Lines", Value: "120"},
		{Name: "Identifiers", Value: "9"},
	})
	want := "" +
		"Files:         3\n" +
		"Lines:       120\n" +
		"Identifiers:   9\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteNeverTruncates(t *testing.T) {
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Fatalf("padRight = %q", got)
	}
	if got := padLeft("abcdef", 3); got != "abcdef" {
		t.Fatalf("padLeft = %q", got)
	}
}

func TestReportDisabledIsNoop(t *testing.T) {
	sys := host.NewMemSystem("/")
	r := NewReporter(sys)
	r.Report(newProgram(&tsoptions.Options{Diagnostics: core.TSTrue}))
	if sys.Output() != "" {
		t.Fatalf("disabled reporter wrote %q", sys.Output())
	}

	r.Enable(&tsoptions.Options{})
	if r.Tracker().Enabled() {
		t.Fatal("Enable without diagnostics options turned capture on")
	}
}

func TestReportBasic(t *testing.T) {
	sys := host.NewMemSystem("/")
	sys.Memory = 2_048_000
	now := time.Unix(0, 0)
	sys.Clock = func() time.Time { return now }
	opts := &tsoptions.Options{Diagnostics: core.TSTrue}

	r := NewReporter(sys)
	r.Enable(opts)
	r.Enable(opts)
	defer r.Disable()

	tr := r.Tracker()
	tr.Time(performance.Program, func() {
		tr.Time(performance.IORead, func() { now = now.Add(4 * time.Millisecond) })
		now = now.Add(10 * time.Millisecond)
	})
	tr.Time(performance.Bind, func() { now = now.Add(6 * time.Millisecond) })
	tr.Time(performance.Check, func() { now = now.Add(6 * time.Millisecond) })
	tr.Time(performance.Emit, func() { now = now.Add(1 * time.Millisecond) })

	r.Report(newProgram(opts))
	want := "" +
		"Files:           2\n" +
		"Lines:           4\n" +
		"Nodes:          42\n" +
		"Identifiers:     7\n" +
		"Symbols:         5\n" +
		"Types:           0\n" +
		"Memory used: 2048K\n" +
		"I/O read:    0.00s\n" +
		"I/O write:   0.00s\n" +
		"Parse time:  0.01s\n" +
		"Bind time:   0.01s\n" +
		"Check time:  0.01s\n" +
		"Emit time:   0.00s\n" +
		"Total time:  0.03s\n"
	if sys.Output() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", sys.Output(), want)
	}
}

func TestReportExtended(t *testing.T) {
	sys := host.NewMemSystem("/")
	opts := &tsoptions.Options{ExtendedDiagnostics: core.TSTrue}
	r := NewReporter(sys)
	r.Enable(opts)
	defer r.Disable()
	r.Tracker().Time(performance.Check, func() {})
	r.Tracker().Time(performance.Bind, func() {})

	rows := r.Collect(newProgram(opts), true)
	var names []string
	for _, s := range rows {
		names = append(names, s.Name)
	}
	got := strings.Join(names, ",")
	want := "Files,Lines,Nodes,Identifiers,Symbols,Types," +
		"Assignability cache size,Identity cache size,Subtype cache size," +
		"Check time,Bind time,Total time"
	if got != want {
		t.Fatalf("rows = %s", got)
	}
}

func TestTotalIsSumOfRoundedParts(t *testing.T) {
	parts := []time.Duration{14 * time.Millisecond, 14 * time.Millisecond, 14 * time.Millisecond}
	var sum int64
	for _, d := range parts {
		sum += centiseconds(d)
	}
	if formatCentis(sum) != "0.03s" {
		t.Fatalf("total = %s", formatCentis(sum))
	}
	if formatCentis(12345) != "123.45s" {
		t.Fatal("formatCentis")
	}
}
