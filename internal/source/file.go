// Package source holds loaded source text with the line tables needed to turn
// byte offsets into line and column positions.
package source

import (
	"bytes"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// FileID indexes a FileSet.
type FileID uint32

// FileFlags records how the text of a file was adjusted on load.
type FileFlags uint8

const (
	FileVirtual FileFlags = 1 << iota // not read from a host
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded source text. Content has no BOM and \n line endings.
type File struct {
	ID         FileID
	Path       string
	Content    []byte
	LineStarts []uint32 // LineStarts[0] is always 0
	Hash       [32]byte
	Flags      FileFlags
}

// LineCol is a 1-based position.
type LineCol struct {
	Line uint32
	Col  uint32
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// decode strips a UTF-8 BOM and folds \r\n to \n. A lone \r is kept.
func decode(text []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(text, bom); ok {
		text, flags = rest, FileHadBOM
	}
	if bytes.Contains(text, []byte("\r\n")) {
		text = bytes.ReplaceAll(text, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return text, flags
}

func offset(n int) uint32 {
	off, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("source offset: %w", err))
	}
	return off
}

// Line terminators besides \n and \r.
const (
	lineSeparator      = "\u2028"
	paragraphSeparator = "\u2029"
)

// breakAt returns the length of the line terminator starting at text[i], or
// zero. A \r followed by \n ends the line at the \n.
func breakAt(text []byte, i int) int {
	switch text[i] {
	case '\n':
		return 1
	case '\r':
		if i+1 < len(text) && text[i+1] == '\n' {
			return 0
		}
		return 1
	case 0xE2:
		rest := text[i:]
		if bytes.HasPrefix(rest, []byte(lineSeparator)) || bytes.HasPrefix(rest, []byte(paragraphSeparator)) {
			return len(lineSeparator)
		}
	}
	return 0
}

// lineStarts returns the start of every line. Text ending in a terminator
// has an empty last line.
func lineStarts(text []byte) []uint32 {
	starts := make([]uint32, 1, 1+bytes.Count(text, []byte{'\n'}))
	for i := 0; i < len(text); i++ {
		if n := breakAt(text, i); n > 0 {
			i += n - 1
			starts = append(starts, offset(i+1))
		}
	}
	return starts
}

// Position converts a byte offset to a line and column.
func (f *File) Position(off uint32) LineCol {
	i, found := slices.BinarySearch(f.LineStarts, off)
	if !found {
		i--
	}
	i = max(i, 0)
	return LineCol{Line: offset(i + 1), Col: off - f.LineStarts[i] + 1}
}

func (f *File) LineCount() int { return len(f.LineStarts) }

// GetLine returns line n (1-based) without its terminator, or "" when n is
// out of range.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineStarts) {
		return ""
	}
	line := f.Content[f.LineStarts[n-1]:]
	if int(n) < len(f.LineStarts) {
		line = f.Content[f.LineStarts[n-1]:f.LineStarts[n]]
	}
	for _, term := range []string{"\r\n", "\n", "\r", lineSeparator, paragraphSeparator} {
		if trimmed, ok := bytes.CutSuffix(line, []byte(term)); ok {
			return string(trimmed)
		}
	}
	return string(line)
}
