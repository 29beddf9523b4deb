package diag

import (
	"sort"
)

// Bag collects diagnostics for one pass.
type Bag struct {
	items []*Diagnostic
}

func NewBag() *Bag {
	return &Bag{items: make([]*Diagnostic, 0, 8)}
}

// Add appends diagnostics, ignoring nils.
func (b *Bag) Add(ds ...*Diagnostic) {
	for _, d := range ds {
		if d != nil {
			b.items = append(b.items, d)
		}
	}
}

// Len returns the number of collected diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the internal slice. Do not modify it.
func (b *Bag) Items() []*Diagnostic {
	return b.items
}

// ErrorCount counts diagnostics with error category.
func (b *Bag) ErrorCount() int {
	return CountErrors(b.items)
}

// HasErrors reports whether at least one error was collected.
func (b *Bag) HasErrors() bool {
	return b.ErrorCount() > 0
}

// Merge appends every diagnostic of other.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start, code and category so output is
// deterministic. Global diagnostics come first.
func (b *Bag) Sort() {
	SortDiagnostics(b.items)
}

// SortDiagnostics sorts in place with the Bag ordering.
func SortDiagnostics(items []*Diagnostic) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i], items[j]
		if di.FileName() != dj.FileName() {
			return di.FileName() < dj.FileName()
		}
		if di.Start != dj.Start {
			return di.Start < dj.Start
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Category > dj.Category
	})
}

// CountErrors counts error-category diagnostics in ds.
func CountErrors(ds []*Diagnostic) int {
	n := 0
	for _, d := range ds {
		if d.IsError() {
			n++
		}
	}
	return n
}
