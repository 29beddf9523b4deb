package compiler

import (
	"tsc/internal/diag"
	"tsc/internal/source"
)

// globalNames are the ambient declarations a class may extend without
// declaring or importing them.
var globalNames = map[string]struct{}{
	"Object": {}, "Function": {}, "Array": {}, "Error": {}, "Map": {}, "Set": {},
	"Promise": {}, "EventTarget": {}, "HTMLElement": {}, "RegExp": {}, "Date": {},
}

type kindPair [2]declKind

type exportKey struct {
	file string
	name string
}

// symbolTable groups a file's top-level declarations by name.
type symbolTable struct {
	order []source.StringID
	byID  map[source.StringID][]int
}

// checker validates top-level declarations, import bindings and class
// heritage. Its caches are the relation caches reported in statistics.
type checker struct {
	program *Program

	identity      map[kindPair]bool
	assignability map[exportKey]bool
	subtype       map[exportKey]bool

	diagnostics []*diag.Diagnostic
}

func newChecker(p *Program) *checker {
	return &checker{
		program:       p,
		identity:      make(map[kindPair]bool),
		assignability: make(map[exportKey]bool),
		subtype:       make(map[exportKey]bool),
	}
}

func bind(sum *fileSummary) symbolTable {
	st := symbolTable{byID: make(map[source.StringID][]int, len(sum.decls))}
	for i, d := range sum.decls {
		if _, seen := st.byID[d.name]; !seen {
			st.order = append(st.order, d.name)
		}
		st.byID[d.name] = append(st.byID[d.name], i)
	}
	return st
}

func (c *checker) checkFile(sum *fileSummary, st symbolTable) {
	for _, id := range st.order {
		idx := st.byID[id]
		if len(idx) < 2 || c.mergeable(sum, idx) {
			continue
		}
		for _, i := range idx {
			d := sum.decls[i]
			c.report(sum.file, d.start, d.end, diag.DuplicateIdentifier, d.text)
		}
	}

	for _, imp := range sum.imports {
		if imp.resolved == "" {
			continue
		}
		for _, b := range imp.bindings {
			if !c.exports(imp.resolved, b.name) {
				c.report(sum.file, b.start, b.end, diag.NoExportedMember, `"`+imp.specifier+`"`, b.name)
			}
		}
	}

	for _, h := range sum.heritage {
		key := exportKey{file: sum.file.Path, name: h.base}
		known, ok := c.subtype[key]
		if !ok {
			known = c.visible(sum, st, h.base)
			c.subtype[key] = known
		}
		if !known {
			c.report(sum.file, h.start, h.end, diag.CannotFindName, h.base)
		}
	}
}

func (c *checker) mergeable(sum *fileSummary, idx []int) bool {
	for i := 1; i < len(idx); i++ {
		for j := range i {
			if !c.compatible(sum.decls[idx[j]].kind, sum.decls[idx[i]].kind) {
				return false
			}
		}
	}
	return true
}

func (c *checker) compatible(a, b declKind) bool {
	if a > b {
		a, b = b, a
	}
	key := kindPair{a, b}
	if ok, cached := c.identity[key]; cached {
		return ok
	}
	ok := mergeRule(a, b)
	c.identity[key] = ok
	return ok
}

// mergeRule decides whether two declarations of one name may coexist. a <= b.
func mergeRule(a, b declKind) bool {
	switch {
	case a == b:
		return a == declVar || a == declFunction || a == declInterface || a == declNamespace || a == declEnum
	case b == declNamespace:
		return a == declFunction || a == declClass || a == declEnum
	case a == declClass && b == declInterface:
		return true
	}
	return !(valueSpace(a) && valueSpace(b)) && !(a.declaresType() && b.declaresType())
}

func valueSpace(k declKind) bool {
	return k != declInterface && k != declType
}

func (c *checker) exports(file, name string) bool {
	key := exportKey{file: file, name: name}
	if ok, cached := c.assignability[key]; cached {
		return ok
	}
	ok := true
	if target, found := c.program.summaryByPath(file); found && !target.exportsAll {
		_, ok = target.exports[name]
	}
	c.assignability[key] = ok
	return ok
}

func (c *checker) visible(sum *fileSummary, st symbolTable, name string) bool {
	if _, ok := globalNames[name]; ok {
		return true
	}
	for _, id := range st.order {
		if sum.decls[st.byID[id][0]].text == name {
			return true
		}
	}
	for _, imp := range sum.imports {
		for _, b := range imp.bindings {
			if b.local == name {
				return true
			}
		}
		for _, local := range imp.locals {
			if local == name {
				return true
			}
		}
	}
	return false
}

func (c *checker) report(f *source.File, start, end uint32, m *diag.Message, args ...string) {
	c.diagnostics = append(c.diagnostics, diag.New(f, start, end-start, m, args...))
}
