// Package compiler is a small reference engine behind the driver: it loads a
// program's sources and follows relative imports, counts tokens, checks
// top-level declarations and writes outputs. It models the phases and
// statistics of a real compiler without parsing or typing a language.
package compiler

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"tsc/internal/diag"
	"tsc/internal/host"
	"tsc/internal/performance"
	"tsc/internal/source"
	"tsc/internal/stats"
	"tsc/internal/tsoptions"
)

// ProgramOptions describes what to compile.
type ProgramOptions struct {
	Host host.System
	// Config carries the options, root file names and project references.
	// Its Errors are reported as the program's option diagnostics.
	Config *tsoptions.ConfigParseResult
	// Tracker receives phase measures; nil disables them.
	Tracker *performance.Tracker
	// Jobs bounds concurrent file reads, 0 means GOMAXPROCS.
	Jobs int
}

// Program is a loaded set of source files.
type Program struct {
	sys     host.System
	config  *tsoptions.ConfigParseResult
	tracker *performance.Tracker

	files     *source.FileSet
	names     *source.Interner
	summaries []*fileSummary
	byPath    map[string]*fileSummary
	roots     map[string]struct{}

	programDiagnostics []*diag.Diagnostic
	// reuse holds the outputs of an unchanged incremental program; Emit
	// leaves them in place.
	reuse []string

	checkOnce           sync.Once
	semanticDiagnostics []*diag.Diagnostic
	checker             *checker
	symbolCount         int
	typeCount           int
}

type loadResult struct {
	path string
	data []byte
	err  error
}

// NewProgram reads the root files and every file they import. Missing roots
// and unresolved relative imports become diagnostics; the error is non-nil
// only when ctx is cancelled.
func NewProgram(ctx context.Context, opts ProgramOptions) (*Program, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &tsoptions.ConfigParseResult{}
	}
	if cfg.Options == nil {
		cfg.Options = &tsoptions.Options{}
	}
	p := &Program{
		sys:     opts.Host,
		config:  cfg,
		tracker: opts.Tracker,
		files:   source.NewFileSet(),
		names:   source.NewInterner(),
		byPath:  make(map[string]*fileSummary),
		roots:   make(map[string]struct{}),
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	p.tracker.Mark("beforeProgram")
	queue := make([]string, 0, len(cfg.FileNames))
	seen := make(map[string]struct{})
	for _, name := range cfg.FileNames {
		abs := p.absolute(name)
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		p.roots[abs] = struct{}{}
		queue = append(queue, abs)
	}

	for len(queue) > 0 {
		var (
			results []loadResult
			err     error
		)
		p.tracker.Time(performance.IORead, func() {
			results, err = p.readAll(ctx, queue, jobs)
		})
		if err != nil {
			return nil, fmt.Errorf("load program: %w", err)
		}

		wave := make([]*fileSummary, 0, len(results))
		for _, r := range results {
			if r.err != nil {
				p.programDiagnostics = append(p.programDiagnostics, diag.NewGlobal(diag.FileNotFound, r.path))
				continue
			}
			id := p.files.Add(r.path, r.data, 0)
			sum := summarize(p.files.Get(id), p.names)
			p.summaries = append(p.summaries, sum)
			p.byPath[sum.file.Path] = sum
			wave = append(wave, sum)
		}

		queue = nil
		p.tracker.Time(performance.ResolveReferences, func() {
			for _, sum := range wave {
				for i := range sum.imports {
					next, ok := p.resolveImport(sum, &sum.imports[i])
					if !ok {
						continue
					}
					if _, dup := seen[next]; !dup {
						seen[next] = struct{}{}
						queue = append(queue, next)
					}
				}
			}
		})
	}
	p.tracker.Mark("afterProgram")
	p.tracker.Measure(performance.Program, "beforeProgram", "afterProgram")
	return p, nil
}

func (p *Program) readAll(ctx context.Context, paths []string, jobs int) ([]loadResult, error) {
	results := make([]loadResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := p.sys.ReadFile(path)
			// each goroutine owns results[i]
			results[i] = loadResult{path: path, data: data, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resolveImport resolves a relative specifier against the importing file.
// Non-relative specifiers name external packages and are left alone.
func (p *Program) resolveImport(sum *fileSummary, imp *importDecl) (string, bool) {
	spec := imp.specifier
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") && !strings.HasPrefix(spec, "/") {
		return "", false
	}
	base := spec
	if !filepath.IsAbs(base) {
		base = filepath.Join(filepath.Dir(filepath.FromSlash(sum.file.Path)), filepath.FromSlash(spec))
	}
	for _, candidate := range moduleCandidates(base) {
		if p.sys.FileExists(candidate) {
			imp.resolved = filepath.ToSlash(candidate)
			return imp.resolved, true
		}
	}
	p.programDiagnostics = append(p.programDiagnostics,
		diag.New(sum.file, imp.start, imp.end-imp.start, diag.CannotFindModule, spec))
	return "", false
}

func moduleCandidates(base string) []string {
	switch ext := filepath.Ext(base); ext {
	case ".ts", ".tsx":
		return []string{base}
	case ".js", ".jsx":
		stem := strings.TrimSuffix(base, ext)
		return []string{stem + ".ts", stem + ".tsx"}
	}
	return []string{
		base + ".ts",
		base + ".tsx",
		filepath.Join(base, "index.ts"),
		filepath.Join(base, "index.tsx"),
	}
}

func (p *Program) absolute(name string) string {
	if !filepath.IsAbs(name) {
		name = filepath.Join(p.sys.GetCurrentDirectory(), name)
	}
	return filepath.ToSlash(filepath.Clean(name))
}

func (p *Program) summaryByPath(path string) (*fileSummary, bool) {
	sum, ok := p.byPath[path]
	return sum, ok
}

// Host returns the host the program was loaded from.
func (p *Program) Host() host.System { return p.sys }

// Config returns the parsed configuration the program was built from.
func (p *Program) Config() *tsoptions.ConfigParseResult { return p.config }

// CompilerOptions returns the effective options.
func (p *Program) CompilerOptions() *tsoptions.Options { return p.config.Options }

// SourceFiles returns the loaded files in load order.
func (p *Program) SourceFiles() []*source.File { return p.files.Files() }

// IsRootFile reports whether path was named by the configuration rather than
// reached through an import.
func (p *Program) IsRootFile(path string) bool {
	_, ok := p.roots[path]
	return ok
}

// NodeCount counts scanned tokens plus one source file node per file.
func (p *Program) NodeCount() int {
	n := 0
	for _, sum := range p.summaries {
		n += sum.nodes
	}
	return n
}

func (p *Program) IdentifierCount() int {
	n := 0
	for _, sum := range p.summaries {
		n += sum.identifiers
	}
	return n
}

// SymbolCount counts top-level declarations and import bindings. It runs
// the checker when needed.
func (p *Program) SymbolCount() int {
	p.check()
	return p.symbolCount
}

func (p *Program) TypeCount() int {
	p.check()
	return p.typeCount
}

func (p *Program) RelationCacheSizes() stats.CacheSizes {
	p.check()
	return stats.CacheSizes{
		Assignability: len(p.checker.assignability),
		Identity:      len(p.checker.identity),
		Subtype:       len(p.checker.subtype),
	}
}

// OptionsDiagnostics are the configuration errors the program was created
// with.
func (p *Program) OptionsDiagnostics() []*diag.Diagnostic {
	return p.config.Errors
}

// ProgramDiagnostics are load and module resolution errors.
func (p *Program) ProgramDiagnostics() []*diag.Diagnostic {
	return p.programDiagnostics
}

// SemanticDiagnostics binds and checks every file once.
func (p *Program) SemanticDiagnostics() []*diag.Diagnostic {
	p.check()
	return p.semanticDiagnostics
}

func (p *Program) check() {
	p.checkOnce.Do(func() {
		tables := make([]symbolTable, len(p.summaries))
		p.tracker.Time(performance.Bind, func() {
			for i, sum := range p.summaries {
				tables[i] = bind(sum)
			}
		})
		c := newChecker(p)
		p.tracker.Time(performance.Check, func() {
			for i, sum := range p.summaries {
				c.checkFile(sum, tables[i])
			}
		})
		for _, sum := range p.summaries {
			p.symbolCount += len(sum.decls)
			for _, imp := range sum.imports {
				p.symbolCount += len(imp.bindings) + len(imp.locals)
			}
			for _, d := range sum.decls {
				if d.kind.declaresType() {
					p.typeCount++
				}
			}
		}
		p.checker = c
		p.semanticDiagnostics = c.diagnostics
	})
}

// AllDiagnostics returns every diagnostic of the program in sorted order.
// Semantic diagnostics are computed only when loading produced none, the
// same short-circuit a full compiler applies before checking.
func (p *Program) AllDiagnostics() []*diag.Diagnostic {
	all := slices.Clone(p.OptionsDiagnostics())
	all = append(all, p.ProgramDiagnostics()...)
	if len(all) == 0 {
		all = append(all, p.SemanticDiagnostics()...)
	}
	diag.SortDiagnostics(all)
	return all
}
