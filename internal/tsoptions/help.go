package tsoptions

import (
	"strings"

	"github.com/tidwall/btree"
)

// HelpOptions returns the compile options listed by --help, or every compile
// option sorted case-insensitively by name for --all.
func HelpOptions(all bool) []*Declaration {
	if !all {
		var out []*Declaration
		for _, d := range compileTable.list {
			if d.Simplified {
				out = append(out, d)
			}
		}
		return out
	}
	sorted := btree.NewMap[string, *Declaration](0)
	for _, d := range compileTable.list {
		sorted.Set(strings.ToLower(d.Name), d)
	}
	out := make([]*Declaration, 0, sorted.Len())
	sorted.Scan(func(_ string, d *Declaration) bool {
		out = append(out, d)
		return true
	})
	return out
}

// BuildHelpOptions returns the options listed by tsc --build --help: build
// specific options first, then the shared ones.
func BuildHelpOptions() []*Declaration {
	var specific, shared []*Declaration
	for _, d := range buildTable.list {
		if d.InCompile {
			shared = append(shared, d)
		} else {
			specific = append(specific, d)
		}
	}
	return append(specific, shared...)
}

// Usage renders the name column of a help row, e.g. "--target, -t".
func (d *Declaration) Usage() string {
	var b strings.Builder
	b.WriteString("--")
	b.WriteString(d.Name)
	if d.ShortName != "" {
		b.WriteString(", -")
		b.WriteString(d.ShortName)
	}
	if d.Name == "help" {
		b.WriteString(", -?")
	}
	return b.String()
}

// ValueHint describes the accepted values, e.g. "es5, es2015".
func (d *Declaration) ValueHint() string {
	switch d.Kind {
	case KindBoolean:
		return "boolean"
	case KindEnum:
		return strings.Join(d.Values, ", ")
	}
	return d.Kind.String()
}
