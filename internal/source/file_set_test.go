package source

import (
	"fmt"
	"sync"
	"testing"
)

func TestFileSetKeepsVersions(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("src/../main.ts", []byte("let a;"), 0)
	id2 := fs.Add("main.ts", []byte("let b;"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("ids = %d, %d", id1, id2)
	}
	if fs.Get(id1).Path != "main.ts" {
		t.Errorf("path not cleaned: %q", fs.Get(id1).Path)
	}
	if string(fs.Get(id1).Content) != "let a;" || fs.Get(id1).Hash == fs.Get(id2).Hash {
		t.Error("old version must stay reachable with its own hash")
	}
	if len(fs.Files()) != 2 {
		t.Fatalf("Files() = %d", len(fs.Files()))
	}
}

func TestLineStarts(t *testing.T) {
	tests := []struct {
		content string
		want    []uint32
	}{
		{"", []uint32{0}},
		{"a", []uint32{0}},
		{"a\nb", []uint32{0, 2}},
		{"a\nb\n", []uint32{0, 2, 4}},
		{"\n\n", []uint32{0, 1, 2}},
		{"a\rb\rc", []uint32{0, 2, 4}},
		{"a\r\rb", []uint32{0, 2, 3}},
		{"a\u2028b\u2029c", []uint32{0, 4, 8}},
	}
	for _, tt := range tests {
		fs := NewFileSet()
		f := fs.Get(fs.AddVirtual("a.ts", []byte(tt.content)))
		if len(f.LineStarts) != len(tt.want) {
			t.Fatalf("%q: LineStarts = %v, want %v", tt.content, f.LineStarts, tt.want)
		}
		for i := range tt.want {
			if f.LineStarts[i] != tt.want[i] {
				t.Fatalf("%q: LineStarts = %v, want %v", tt.content, f.LineStarts, tt.want)
			}
		}
		if f.LineCount() != len(tt.want) {
			t.Errorf("%q: LineCount = %d", tt.content, f.LineCount())
		}
		if f.Flags&FileVirtual == 0 {
			t.Error("Expected FileVirtual flag to be set")
		}
	}
}

func TestCRLFAndBOM(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.Add("a.ts", []byte("\xEF\xBB\xBFa\r\nb\rc\r\n"), 0))
	if string(f.Content) != "a\nb\rc\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags not recorded: %b", f.Flags)
	}
	if f.LineCount() != 4 {
		t.Fatalf("LineCount = %d, want 4", f.LineCount())
	}
	if f.GetLine(2) != "b" || f.GetLine(3) != "c" {
		t.Fatalf("lines = %q, %q", f.GetLine(2), f.GetLine(3))
	}
}

func TestPositionAndGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.ts", []byte("let a;\nlet bb;\n")))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{4, LineCol{1, 5}},
		{7, LineCol{2, 1}},
		{11, LineCol{2, 5}},
		{15, LineCol{3, 1}},
	}
	for _, tt := range tests {
		if got := f.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
	if got := f.GetLine(2); got != "let bb;" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Errorf("GetLine(3) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q", got)
	}
}

func TestUnicodeLineSeparators(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.ts", []byte("let a;\u2028let b;\u2029let c;")))
	if f.LineCount() != 3 {
		t.Fatalf("LineCount = %d, want 3", f.LineCount())
	}
	if got := f.Position(9); got != (LineCol{2, 1}) {
		t.Errorf("Position(9) = %+v", got)
	}
	if got := f.GetLine(2); got != "let b;" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "let c;" {
		t.Errorf("GetLine(3) = %q", got)
	}
}

func TestInternerConcurrentIntern(t *testing.T) {
	interner := NewInterner()
	const numGoroutines = 16
	const numStrings = 200

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for range numGoroutines {
		go func() {
			defer wg.Done()
			for i := range numStrings {
				interner.Intern(fmt.Sprintf("string_%d", i))
			}
		}()
	}
	wg.Wait()

	if interner.Len() != numStrings+1 {
		t.Fatalf("expected %d strings, got %d", numStrings+1, interner.Len())
	}
	id := interner.Intern("string_7")
	if s, ok := interner.Lookup(id); !ok || s != "string_7" {
		t.Fatalf("Lookup(%d) = %q, %v", id, s, ok)
	}
	if _, ok := interner.Lookup(StringID(numStrings + 5)); ok {
		t.Fatal("lookup past the end must fail")
	}
}
