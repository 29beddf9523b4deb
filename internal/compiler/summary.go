package compiler

import (
	"tsc/internal/source"
)

type declKind uint8

const (
	declVar declKind = iota
	declLet
	declConst
	declFunction
	declClass
	declInterface
	declType
	declEnum
	declNamespace
)

var declKeywords = map[string]declKind{
	"var":       declVar,
	"let":       declLet,
	"const":     declConst,
	"function":  declFunction,
	"class":     declClass,
	"interface": declInterface,
	"type":      declType,
	"enum":      declEnum,
	"namespace": declNamespace,
	"module":    declNamespace,
}

// declaresType reports whether a declaration introduces a named type.
func (k declKind) declaresType() bool {
	switch k {
	case declClass, declInterface, declType, declEnum:
		return true
	}
	return false
}

type declaration struct {
	name     source.StringID
	text     string
	kind     declKind
	exported bool
	start    uint32
	end      uint32
}

// binding is one name listed in braces of an import or re-export. local is
// the name it is known by in the importing file.
type binding struct {
	name  string
	local string
	start uint32
	end   uint32
}

type importDecl struct {
	specifier string
	// start and end cover the string literal, quotes included.
	start    uint32
	end      uint32
	bindings []binding
	// locals are default and namespace import names.
	locals []string
	// resolved is the absolute path of the imported file, empty when the
	// specifier is not relative or could not be resolved.
	resolved string
}

type heritageClause struct {
	base  string
	start uint32
	end   uint32
}

// fileSummary is what the program keeps of a scanned file: counts, top-level
// declarations, module references and export names.
type fileSummary struct {
	file        *source.File
	nodes       int
	identifiers int
	decls       []declaration
	imports     []importDecl
	exports     map[string]struct{}
	exportsAll  bool
	heritage    []heritageClause
}

func summarize(file *source.File, names *source.Interner) *fileSummary {
	toks := scan(file.Content)
	sum := &fileSummary{
		file:    file,
		nodes:   len(toks) + 1,
		exports: make(map[string]struct{}),
	}
	p := &summaryParser{toks: toks, sum: sum, names: names}
	p.run()
	return sum
}

type summaryParser struct {
	toks  []token
	pos   int
	depth int
	sum   *fileSummary
	names *source.Interner
}

func (p *summaryParser) at(i int) token {
	if i < 0 || i >= len(p.toks) {
		return token{kind: tokPunct}
	}
	return p.toks[i]
}

func (p *summaryParser) run() {
	for _, t := range p.toks {
		if t.kind == tokIdent {
			p.sum.identifiers++
			p.names.Intern(t.text)
		}
	}
	exported := false
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		if t.is("import") && p.at(p.pos+1).is("(") && p.at(p.pos+2).kind == tokString {
			lit := p.at(p.pos + 2)
			p.sum.imports = append(p.sum.imports, importDecl{specifier: lit.value(), start: lit.start, end: lit.end})
			p.pos += 3
			continue
		}
		switch {
		case t.is("{") || t.is("(") || t.is("["):
			p.depth++
		case t.is("}") || t.is(")") || t.is("]"):
			p.depth = max(p.depth-1, 0)
		}
		if p.depth != 0 || (t.kind != tokIdent && t.kind != tokKeyword) {
			exported = false
			p.pos++
			continue
		}
		switch t.text {
		case "import":
			p.importStatement()
			exported = false
			continue
		case "export":
			if p.exportStatement() {
				exported = true
			}
			continue
		case "declare", "async", "abstract", "default":
			p.pos++
			continue
		}
		if kind, ok := declKeywords[t.text]; ok && p.declaration(kind, exported) {
			exported = false
			continue
		}
		exported = false
		p.pos++
	}
}

// importStatement handles `import "m"` and `import ... from "m"`.
func (p *summaryParser) importStatement() {
	p.pos++
	if lit := p.at(p.pos); lit.kind == tokString {
		p.sum.imports = append(p.sum.imports, importDecl{specifier: lit.value(), start: lit.start, end: lit.end})
		p.pos++
		return
	}
	var (
		bindings []binding
		locals   []string
	)
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		switch {
		case t.is("{"):
			bindings = append(bindings, p.braceList(false)...)
			continue
		case t.is("from") && p.at(p.pos+1).kind == tokString:
			lit := p.at(p.pos + 1)
			p.sum.imports = append(p.sum.imports, importDecl{
				specifier: lit.value(), start: lit.start, end: lit.end, bindings: bindings, locals: locals,
			})
			p.pos += 2
			return
		case t.is(";"):
			p.pos++
			return
		case t.kind == tokIdent && !t.is("type") && !t.is("as"):
			locals = append(locals, t.text)
		}
		p.pos++
	}
}

// exportStatement consumes export lists and re-exports. It returns true when
// `export` modifies the declaration that follows.
func (p *summaryParser) exportStatement() bool {
	p.pos++
	next := p.at(p.pos)
	switch {
	case next.is("default"):
		p.sum.exports["default"] = struct{}{}
		p.pos++
		return false
	case next.is("*"):
		for p.pos < len(p.toks) && !p.at(p.pos).is(";") {
			if p.at(p.pos).is("from") && p.at(p.pos+1).kind == tokString {
				lit := p.at(p.pos + 1)
				p.sum.imports = append(p.sum.imports, importDecl{specifier: lit.value(), start: lit.start, end: lit.end})
				p.sum.exportsAll = true
				p.pos += 2
				return false
			}
			p.pos++
		}
		return false
	case next.is("{"):
		local := p.braceList(true)
		if p.at(p.pos).is("from") && p.at(p.pos+1).kind == tokString {
			lit := p.at(p.pos + 1)
			p.sum.imports = append(p.sum.imports, importDecl{
				specifier: lit.value(), start: lit.start, end: lit.end, bindings: local,
			})
			p.pos += 2
		}
		return false
	}
	return true
}

// braceList reads `{ a, b as c, type T }` starting at the opening brace and
// returns the source-side names. When exporting, the exposed names are
// recorded as exports of the file.
func (p *summaryParser) braceList(exporting bool) []binding {
	p.pos++
	var out []binding
	for p.pos < len(p.toks) && !p.at(p.pos).is("}") {
		t := p.at(p.pos)
		if t.is("type") && p.at(p.pos+1).kind == tokIdent && !p.at(p.pos+1).is("as") {
			p.pos++
			t = p.at(p.pos)
		}
		if t.kind != tokIdent && t.kind != tokKeyword {
			p.pos++
			continue
		}
		exposed := t.text
		p.pos++
		if p.at(p.pos).is("as") {
			exposed = p.at(p.pos + 1).text
			p.pos += 2
		}
		out = append(out, binding{name: t.text, local: exposed, start: t.start, end: t.end})
		if exporting {
			p.sum.exports[exposed] = struct{}{}
		}
	}
	p.pos++
	return out
}

// declaration records `kind name` when a name follows the keyword.
func (p *summaryParser) declaration(kind declKind, exported bool) bool {
	i := p.pos + 1
	if kind == declConst && p.at(i).is("enum") {
		kind = declEnum
		i++
	}
	if kind == declFunction && p.at(i).is("*") {
		i++
	}
	name := p.at(i)
	if name.kind != tokIdent {
		return false
	}
	p.sum.decls = append(p.sum.decls, declaration{
		name:     p.names.Intern(name.text),
		text:     name.text,
		kind:     kind,
		exported: exported,
		start:    name.start,
		end:      name.end,
	})
	if exported {
		p.sum.exports[name.text] = struct{}{}
	}
	p.pos = i + 1
	if kind == declClass {
		p.classHeritage()
	}
	return true
}

// classHeritage looks for `extends Base` before the class body.
func (p *summaryParser) classHeritage() {
	for i := p.pos; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.is("{") {
			return
		}
		if t.is("extends") {
			if base := p.at(i + 1); base.kind == tokIdent {
				p.sum.heritage = append(p.sum.heritage, heritageClause{base: base.text, start: base.start, end: base.end})
			}
			return
		}
	}
}
