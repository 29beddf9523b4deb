package tsoptions

import (
	"io"
	"strings"

	"github.com/spf13/pflag"

	"tsc/internal/core"
	"tsc/internal/diag"
)

// ParseCommandLine parses compiler arguments. Unknown options and bad values
// become diagnostics; parsing never stops early.
func ParseCommandLine(args []string) *ParsedCommandLine {
	opts := &Options{}
	p := newParser(compileTable, diag.UnknownCompilerOption)
	files := p.parse(args, opts)
	return &ParsedCommandLine{Options: opts, FileNames: files, Errors: p.errs}
}

// ParseBuildCommandLine parses the arguments following --build. With no
// project arguments the current directory is built.
func ParseBuildCommandLine(args []string) *ParsedBuildCommandLine {
	opts := &Options{}
	p := newParser(buildTable, diag.UnknownBuildOption)
	projects := p.parse(args, opts)
	if len(projects) == 0 {
		projects = []string{"."}
	}
	for _, pair := range [][2]string{{"clean", "force"}, {"clean", "verbose"}, {"clean", "watch"}, {"watch", "dry"}} {
		a, _ := LookupBuild(pair[0])
		b, _ := LookupBuild(pair[1])
		if a.Bool(opts).IsTrue() && b.Bool(opts).IsTrue() {
			p.errs = append(p.errs, diag.NewGlobal(diag.OptionsCannotBeCombined, pair[0], pair[1]))
		}
	}
	return &ParsedBuildCommandLine{BuildOptions: opts, Projects: projects, Errors: p.errs}
}

// LookupBuild finds a build option by name.
func LookupBuild(name string) (*Declaration, bool) {
	d := buildTable.lookup(name)
	return d, d != nil
}

type parser struct {
	table   *table
	unknown *diag.Message
	errs    []*diag.Diagnostic
}

func newParser(t *table, unknown *diag.Message) *parser {
	return &parser{table: t, unknown: unknown}
}

func (p *parser) errorf(m *diag.Message, args ...string) {
	p.errs = append(p.errs, diag.NewGlobal(m, args...))
}

func (p *parser) parse(args []string, opts *Options) []string {
	fs := pflag.NewFlagSet("tsc", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ToLower(name))
	})
	for _, d := range p.table.list {
		var v pflag.Value
		switch d.Kind {
		case KindBoolean:
			v = &tristateValue{decl: d, p: d.Bool(opts), parser: p}
		case KindEnum:
			v = &enumValue{decl: d, p: d.Text(opts), parser: p}
		default:
			v = &stringValue{p: d.Text(opts)}
		}
		f := fs.VarPF(v, d.Name, d.ShortName, d.Description)
		if d.Kind == KindBoolean {
			f.NoOptDefVal = "true"
		}
	}

	normalized := p.normalize(args)
	if err := fs.Parse(normalized); err != nil {
		p.errorf(p.unknown, err.Error())
		return nil
	}
	return fs.Args()
}

// normalize rewrites every recognised option to the --name[=value] form.
// Single-dash long names, "-?", separate boolean literals and separate
// values are accepted. Unknown options and missing values are reported and
// dropped.
func (p *parser) normalize(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			out = append(out, arg)
			continue
		}
		name := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
		value, hasValue := "", false
		if k := strings.IndexByte(name, '='); k >= 0 {
			name, value, hasValue = name[:k], name[k+1:], true
		}
		d := p.table.lookup(name)
		if d == nil {
			p.errorf(p.unknown, strings.SplitN(arg, "=", 2)[0])
			continue
		}
		long := "--" + strings.ToLower(d.Name)
		if d.Kind == KindBoolean {
			if !hasValue && i+1 < len(args) {
				if next := strings.ToLower(args[i+1]); next == "true" || next == "false" {
					value, hasValue = next, true
					i++
				}
			}
			if hasValue {
				out = append(out, long+"="+value)
			} else {
				out = append(out, long)
			}
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				p.errorf(diag.CompilerOptionExpectsArgument, d.Name)
				continue
			}
			i++
			value = args[i]
		}
		out = append(out, long+"="+value)
	}
	return out
}

type tristateValue struct {
	decl   *Declaration
	p      *core.Tristate
	parser *parser
}

func (v *tristateValue) String() string { return v.p.String() }
func (v *tristateValue) Type() string   { return "bool" }

func (v *tristateValue) Set(s string) error {
	t, err := core.ParseTristate(s)
	if err != nil {
		v.parser.errorf(diag.CompilerOptionRequiresType, v.decl.Name, "boolean")
		return nil
	}
	*v.p = t
	return nil
}

type enumValue struct {
	decl   *Declaration
	p      *string
	parser *parser
}

func (v *enumValue) String() string { return *v.p }
func (v *enumValue) Type() string   { return "enum" }

func (v *enumValue) Set(s string) error {
	if canonical, ok := matchEnum(v.decl, s); ok {
		*v.p = canonical
		return nil
	}
	v.parser.errorf(diag.ArgumentForOptionMustBe, "--"+v.decl.Name, enumList(v.decl))
	return nil
}

type stringValue struct{ p *string }

func (v *stringValue) String() string     { return *v.p }
func (v *stringValue) Type() string       { return "string" }
func (v *stringValue) Set(s string) error { *v.p = s; return nil }

func matchEnum(d *Declaration, s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, allowed := range d.Values {
		if s == allowed {
			return allowed, true
		}
	}
	return "", false
}

func enumList(d *Declaration) string {
	quoted := make([]string, len(d.Values))
	for i, v := range d.Values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
