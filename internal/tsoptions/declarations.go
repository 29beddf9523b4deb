package tsoptions

import (
	"strings"

	"tsc/internal/core"
)

// Kind is the value type of an option.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindString
	KindPath
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindString, KindPath:
		return "string"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

// Help categories.
const (
	CategoryCommandLine = "Command-line Options"
	CategoryProjects    = "Projects"
	CategoryEmit        = "Emit"
	CategoryLanguage    = "Language and Environment"
	CategoryModules     = "Modules"
	CategoryTypeCheck   = "Type Checking"
	CategoryOutput      = "Output Formatting"
	CategoryDiagnostics = "Compiler Diagnostics"
	CategoryWatch       = "Watch and Build Modes"
	CategoryBuild       = "Build Options"
)

// Declaration describes one option.
type Declaration struct {
	Name        string
	ShortName   string
	Kind        Kind
	Values      []string // allowed enum values, lower case
	Category    string
	Description string
	// Simplified options are listed by plain --help.
	Simplified bool
	// CommandLineOnly options are rejected in tsconfig.json and omitted
	// from --showConfig.
	CommandLineOnly bool
	// InCompile and InBuild select the command lines accepting the option.
	InCompile bool
	InBuild   bool

	flag func(*Options) *core.Tristate
	text func(*Options) *string
}

// Bool returns the boolean field of o this option binds to.
func (d *Declaration) Bool(o *Options) *core.Tristate {
	if d.flag == nil {
		return nil
	}
	return d.flag(o)
}

// Text returns the string field of o this option binds to.
func (d *Declaration) Text(o *Options) *string {
	if d.text == nil {
		return nil
	}
	return d.text(o)
}

// IsSet reports whether o has a value for this option.
func (d *Declaration) IsSet(o *Options) bool {
	if p := d.Bool(o); p != nil {
		return !p.IsUnknown()
	}
	if p := d.Text(o); p != nil {
		return *p != ""
	}
	return false
}

func boolean(name, short, category, description string, f func(*Options) *core.Tristate) *Declaration {
	return &Declaration{Name: name, ShortName: short, Kind: KindBoolean, Category: category, Description: description, InCompile: true, flag: f}
}

func str(kind Kind, name, short, category, description string, f func(*Options) *string) *Declaration {
	return &Declaration{Name: name, ShortName: short, Kind: kind, Category: category, Description: description, InCompile: true, text: f}
}

func enum(name, short, category, description string, values []string, f func(*Options) *string) *Declaration {
	d := str(KindEnum, name, short, category, description, f)
	d.Values = values
	return d
}

func (d *Declaration) simplified() *Declaration { d.Simplified = true; return d }
func (d *Declaration) cliOnly() *Declaration    { d.CommandLineOnly = true; return d }
func (d *Declaration) withBuild() *Declaration  { d.InBuild = true; return d }
func (d *Declaration) buildOnly() *Declaration {
	d.InCompile, d.InBuild = false, true
	return d.cliOnly()
}
func (d *Declaration) withShort(s string) *Declaration { d.ShortName = s; return d }

// TargetValues and ModuleValues are the accepted enum spellings.
var (
	TargetValues = []string{"es5", "es2015", "es2020", "esnext"}
	ModuleValues = []string{"commonjs", "es2015", "esnext", "none"}
)

// Declarations lists every option in help order.
var Declarations = []*Declaration{
	boolean("help", "h", CategoryCommandLine, "Print this message.",
		func(o *Options) *core.Tristate { return &o.Help }).simplified().cliOnly().withBuild(),
	boolean("all", "", CategoryCommandLine, "Show all compiler options.",
		func(o *Options) *core.Tristate { return &o.All }).simplified().cliOnly(),
	boolean("version", "v", CategoryCommandLine, "Print the compiler's version.",
		func(o *Options) *core.Tristate { return &o.Version }).simplified().cliOnly(),
	boolean("init", "", CategoryCommandLine, "Initializes a TypeScript project and creates a tsconfig.json file.",
		func(o *Options) *core.Tristate { return &o.Init }).simplified().cliOnly(),
	str(KindPath, "project", "p", CategoryCommandLine, "Compile the project given the path to its configuration file, or to a folder with a 'tsconfig.json'.",
		func(o *Options) *string { return &o.Project }).simplified().cliOnly(),
	boolean("build", "b", CategoryCommandLine, "Build one or more projects and their dependencies, if out of date.",
		func(o *Options) *core.Tristate { return &o.Build }).simplified().cliOnly(),
	boolean("showConfig", "", CategoryCommandLine, "Print the final configuration instead of building.",
		func(o *Options) *core.Tristate { return &o.ShowConfig }).simplified().cliOnly(),
	str(KindString, "locale", "", CategoryCommandLine, "Set the language of the messaging from TypeScript. This does not affect emit.",
		func(o *Options) *string { return &o.Locale }).cliOnly().withBuild(),
	boolean("watch", "w", CategoryWatch, "Watch input files.",
		func(o *Options) *core.Tristate { return &o.Watch }).simplified().cliOnly().withBuild(),
	boolean("pretty", "", CategoryOutput, "Enable color and formatting in TypeScript's output to make compiler errors easier to read.",
		func(o *Options) *core.Tristate { return &o.Pretty }).simplified().withBuild(),
	boolean("preserveWatchOutput", "", CategoryOutput, "Disable wiping the console in watch mode.",
		func(o *Options) *core.Tristate { return &o.PreserveWatchOutput }).withBuild(),
	boolean("incremental", "i", CategoryProjects, "Save .tsbuildinfo files to allow for incremental compilation of projects.",
		func(o *Options) *core.Tristate { return &o.Incremental }).withBuild(),
	boolean("composite", "", CategoryProjects, "Enable constraints that allow a TypeScript project to be used with project references.",
		func(o *Options) *core.Tristate { return &o.Composite }),
	str(KindPath, "tsBuildInfoFile", "", CategoryProjects, "Specify the path to .tsbuildinfo incremental compilation file.",
		func(o *Options) *string { return &o.TsBuildInfoFile }),
	boolean("diagnostics", "", CategoryDiagnostics, "Output compiler performance information after building.",
		func(o *Options) *core.Tristate { return &o.Diagnostics }).withBuild(),
	boolean("extendedDiagnostics", "", CategoryDiagnostics, "Output more detailed compiler performance information after building.",
		func(o *Options) *core.Tristate { return &o.ExtendedDiagnostics }).withBuild(),
	boolean("listFiles", "", CategoryDiagnostics, "Print all of the files read during the compilation.",
		func(o *Options) *core.Tristate { return &o.ListFiles }).withBuild(),
	boolean("listEmittedFiles", "", CategoryDiagnostics, "Print the names of emitted files after a compilation.",
		func(o *Options) *core.Tristate { return &o.ListEmittedFiles }).withBuild(),
	boolean("noEmit", "", CategoryEmit, "Disable emitting files from a compilation.",
		func(o *Options) *core.Tristate { return &o.NoEmit }),
	boolean("noEmitOnError", "", CategoryEmit, "Disable emitting files if any type checking errors are reported.",
		func(o *Options) *core.Tristate { return &o.NoEmitOnError }),
	str(KindPath, "outDir", "", CategoryEmit, "Specify an output folder for all emitted files.",
		func(o *Options) *string { return &o.OutDir }),
	str(KindPath, "rootDir", "", CategoryModules, "Specify the root folder within your source files.",
		func(o *Options) *string { return &o.RootDir }),
	enum("target", "t", CategoryLanguage, "Set the JavaScript language version for emitted JavaScript.",
		TargetValues, func(o *Options) *string { return &o.Target }).simplified(),
	enum("module", "m", CategoryModules, "Specify what module code is generated.",
		ModuleValues, func(o *Options) *string { return &o.Module }).simplified(),
	boolean("strict", "", CategoryTypeCheck, "Enable all strict type-checking options.",
		func(o *Options) *core.Tristate { return &o.Strict }).simplified(),

	boolean("verbose", "v", CategoryBuild, "Enable verbose logging.",
		func(o *Options) *core.Tristate { return &o.Verbose }).buildOnly(),
	boolean("dry", "d", CategoryBuild, "Show what would be built (or deleted, if specified with '--clean').",
		func(o *Options) *core.Tristate { return &o.Dry }).buildOnly(),
	boolean("force", "f", CategoryBuild, "Build all projects, including those that appear to be up to date.",
		func(o *Options) *core.Tristate { return &o.Force }).buildOnly(),
	boolean("clean", "", CategoryBuild, "Delete the outputs of all projects.",
		func(o *Options) *core.Tristate { return &o.Clean }).buildOnly(),
}

// table indexes declarations of one command line by lower-cased name and
// by short name.
type table struct {
	byName  map[string]*Declaration
	byShort map[string]*Declaration
	list    []*Declaration
}

func newTable(build bool) *table {
	t := &table{byName: make(map[string]*Declaration), byShort: make(map[string]*Declaration)}
	for _, d := range Declarations {
		if (build && !d.InBuild) || (!build && !d.InCompile) {
			continue
		}
		t.list = append(t.list, d)
		t.byName[strings.ToLower(d.Name)] = d
		if d.ShortName != "" {
			t.byShort[d.ShortName] = d
		}
	}
	if h := t.byName["help"]; h != nil {
		t.byShort["?"] = h
	}
	return t
}

var (
	compileTable = newTable(false)
	buildTable   = newTable(true)
)

func (t *table) lookup(name string) *Declaration {
	if d, ok := t.byShort[strings.ToLower(name)]; ok {
		return d
	}
	return t.byName[strings.ToLower(name)]
}

// CompileDeclarations returns the options accepted by a compile command line.
func CompileDeclarations() []*Declaration { return compileTable.list }

// BuildDeclarations returns the options accepted after --build.
func BuildDeclarations() []*Declaration { return buildTable.list }

// LookupCompile finds a compile option by long or short name, ignoring case
// for long names.
func LookupCompile(name string) (*Declaration, bool) {
	d := compileTable.lookup(name)
	return d, d != nil
}
