package compiler

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

type tokenKind uint8

const (
	tokIdent tokenKind = iota
	tokKeyword
	tokNumber
	tokString
	tokTemplate
	tokPunct
)

type token struct {
	kind  tokenKind
	start uint32
	end   uint32
	text  string
}

// value strips quotes from a string literal.
func (t token) value() string {
	if t.kind != tokString || len(t.text) < 2 {
		return t.text
	}
	return t.text[1 : len(t.text)-1]
}

func (t token) is(text string) bool {
	return (t.kind == tokPunct || t.kind == tokKeyword || t.kind == tokIdent) && t.text == text
}

var keywords = map[string]struct{}{
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {}, "continue": {},
	"debugger": {}, "default": {}, "delete": {}, "do": {}, "else": {}, "enum": {},
	"export": {}, "extends": {}, "false": {}, "finally": {}, "for": {}, "function": {},
	"if": {}, "import": {}, "in": {}, "instanceof": {}, "new": {}, "null": {},
	"return": {}, "super": {}, "switch": {}, "this": {}, "throw": {}, "true": {},
	"try": {}, "typeof": {}, "var": {}, "void": {}, "while": {}, "with": {},
	"implements": {}, "interface": {}, "let": {}, "package": {}, "private": {},
	"protected": {}, "public": {}, "static": {}, "yield": {},
}

// scan splits content into tokens, dropping whitespace and comments.
// Unterminated literals and comments run to the end of input.
func scan(content []byte) []token {
	s := scanner{src: content}
	var toks []token
	for {
		tok, ok := s.next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

type scanner struct {
	src []byte
	pos int
}

func (s *scanner) next() (token, bool) {
	s.skipTrivia()
	if s.pos >= len(s.src) {
		return token{}, false
	}
	start := s.pos
	c := s.src[s.pos]
	kind := tokPunct
	switch {
	case c == '"' || c == '\'':
		s.quoted(c)
		kind = tokString
	case c == '`':
		s.quoted('`')
		kind = tokTemplate
	case c >= '0' && c <= '9':
		for s.pos < len(s.src) && isNumberPart(s.src[s.pos]) {
			s.pos++
		}
		kind = tokNumber
	case isIdentStart(s.peekRune()):
		for s.pos < len(s.src) {
			r := s.peekRune()
			if !isIdentPart(r) {
				break
			}
			s.pos += utf8.RuneLen(r)
		}
		kind = tokIdent
	default:
		_, size := utf8.DecodeRune(s.src[s.pos:])
		s.pos += max(size, 1)
	}
	text := string(s.src[start:s.pos])
	if kind == tokIdent {
		if _, ok := keywords[text]; ok {
			kind = tokKeyword
		}
	}
	return token{kind: kind, start: offset(start), end: offset(s.pos), text: text}, true
}

func (s *scanner) peekRune() rune {
	r, size := utf8.DecodeRune(s.src[s.pos:])
	if size == 0 || r == utf8.RuneError {
		return 0
	}
	return r
}

func (s *scanner) skipTrivia() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			s.pos++
		case c == 0xE2 && isSeparator(s.src[s.pos:]):
			s.pos += 3
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' && s.src[s.pos] != '\r' && !isSeparator(s.src[s.pos:]) {
				s.pos++
			}
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '*':
			s.pos += 2
			for s.pos < len(s.src) && (s.src[s.pos] != '*' || s.pos+1 >= len(s.src) || s.src[s.pos+1] != '/') {
				s.pos++
			}
			s.pos = min(s.pos+2, len(s.src))
		default:
			return
		}
	}
}

func (s *scanner) quoted(q byte) {
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\\' {
			s.pos += 2
			continue
		}
		s.pos++
		if c == q {
			break
		}
		if c == '\n' && q != '`' {
			break
		}
	}
	s.pos = min(s.pos, len(s.src))
}

// isSeparator reports whether b starts with U+2028 or U+2029.
func isSeparator(b []byte) bool {
	return len(b) >= 3 && b[0] == 0xE2 && b[1] == 0x80 && (b[2] == 0xA8 || b[2] == 0xA9)
}

func isNumberPart(c byte) bool {
	return c == '.' || c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '\u200c' || r == '\u200d'
}

func offset(i int) uint32 {
	off, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("source offset overflow: %w", err))
	}
	return off
}
