package diag

import (
	"testing"

	"tsc/internal/source"
)

func TestFormatText(t *testing.T) {
	tests := []struct {
		text string
		args []string
		want string
	}{
		{"plain", nil, "plain"},
		{"File '{0}' not found.", []string{"a.ts"}, "File 'a.ts' not found."},
		{"'{0}' and '{1}'", []string{"x", "y"}, "'x' and 'y'"},
		{"{1} before {0}", []string{"a", "b"}, "b before a"},
		{"missing {2}", []string{"a"}, "missing {2}"},
		{"broken {0", []string{"a"}, "broken {0"},
		{"{x}", []string{"a"}, "{x}"},
	}
	for _, tt := range tests {
		if got := FormatText(tt.text, tt.args); got != tt.want {
			t.Errorf("FormatText(%q, %q) = %q, want %q", tt.text, tt.args, got, tt.want)
		}
	}
}

func TestCodeIDAndLookup(t *testing.T) {
	if got := ProjectCannotBeMixedWithFiles.Code.ID(); got != "TS5042" {
		t.Fatalf("ID = %q", got)
	}
	m, ok := Lookup(6369)
	if !ok || m != OptionBuildMustBeFirstArgument {
		t.Fatalf("Lookup(6369) = %v, %v", m, ok)
	}
	if _, ok := Lookup(1); ok {
		t.Fatal("unexpected message for code 1")
	}
}

type fakeTranslator map[Code]string

func (f fakeTranslator) Translate(code Code) (string, bool) {
	s, ok := f[code]
	return s, ok
}

func TestLocalized(t *testing.T) {
	d := NewGlobal(FileNotFound, "a.ts")
	if got := d.Localized(nil); got != "File 'a.ts' not found." {
		t.Fatalf("Localized(nil) = %q", got)
	}
	tr := fakeTranslator{FileNotFound.Code: "Datei '{0}' nicht gefunden."}
	if got := d.Localized(tr); got != "Datei 'a.ts' nicht gefunden." {
		t.Fatalf("Localized(de) = %q", got)
	}
	other := NewGlobal(CannotReadFile, "b.ts")
	if got := other.Localized(tr); got != "Cannot read file 'b.ts'." {
		t.Fatalf("fallback = %q", got)
	}
}

func TestBagSortAndCount(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.Get(fs.AddVirtual("a.ts", []byte("let x;\nlet x;\n")))
	b := fs.Get(fs.AddVirtual("b.ts", []byte("let y;\n")))

	bag := NewBag()
	bag.Add(
		New(b, 4, 1, DuplicateIdentifier, "y"),
		New(a, 11, 1, DuplicateIdentifier, "x"),
		nil,
		NewGlobal(StartingCompilationInWatchMode),
		New(a, 4, 1, DuplicateIdentifier, "x"),
	)
	bag.Sort()

	if bag.Len() != 4 {
		t.Fatalf("Len = %d", bag.Len())
	}
	items := bag.Items()
	if items[0].File != nil {
		t.Fatalf("global diagnostic should sort first, got %s", items[0].FileName())
	}
	if items[1].File != a || items[1].Start != 4 || items[2].Start != 11 || items[3].File != b {
		t.Fatalf("unexpected order: %v %v %v", items[1].Start, items[2].Start, items[3].FileName())
	}
	if bag.ErrorCount() != 3 || !bag.HasErrors() {
		t.Fatalf("ErrorCount = %d", bag.ErrorCount())
	}
}
