package diagfmt

import (
	"path/filepath"
	"strings"

	"tsc/internal/diag"
)

// Opts configures diagnostic rendering.
type Opts struct {
	CurrentDir string
	NewLine    string
	Translator diag.Translator
}

func (o Opts) newLine() string {
	if o.NewLine == "" {
		return "\n"
	}
	return o.NewLine
}

// displayPath shows p relative to CurrentDir when p lies inside it and as
// given otherwise.
func (o Opts) displayPath(p string) string {
	if o.CurrentDir == "" || !filepath.IsAbs(p) {
		return filepath.ToSlash(p)
	}
	rel, err := filepath.Rel(o.CurrentDir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
