// Package diag defines the diagnostic model shared by the driver, the
// reference compiler and the build orchestrator.
//
// A Diagnostic pairs a catalog Message with its arguments and an optional
// location. Rendering lives in internal/diagfmt; translations are applied at
// render time through a Translator so a diagnostic is never formatted twice.
package diag

import "tsc/internal/source"

// Translator supplies localized message text by code.
type Translator interface {
	Translate(code Code) (string, bool)
}

type Diagnostic struct {
	File     *source.File // nil for global diagnostics
	Start    uint32
	Length   uint32
	Category Category
	Code     Code
	Message  *Message
	Args     []string
}

// New creates a diagnostic anchored at a file range.
func New(file *source.File, start, length uint32, m *Message, args ...string) *Diagnostic {
	return &Diagnostic{
		File:     file,
		Start:    start,
		Length:   length,
		Category: m.Category,
		Code:     m.Code,
		Message:  m,
		Args:     args,
	}
}

// NewGlobal creates a diagnostic without a location.
func NewGlobal(m *Message, args ...string) *Diagnostic {
	return New(nil, 0, 0, m, args...)
}

// Text renders the English message.
func (d *Diagnostic) Text() string {
	return d.Message.Format(d.Args...)
}

// Localized renders the message through tr, falling back to English.
func (d *Diagnostic) Localized(tr Translator) string {
	if tr != nil {
		if text, ok := tr.Translate(d.Code); ok {
			return FormatText(text, d.Args)
		}
	}
	return d.Text()
}

// IsError reports whether the diagnostic has error category.
func (d *Diagnostic) IsError() bool {
	return d.Category == CategoryError
}

// FileName returns the path of the anchoring file or "".
func (d *Diagnostic) FileName() string {
	if d.File == nil {
		return ""
	}
	return d.File.Path
}
