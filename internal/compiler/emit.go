package compiler

import (
	"context"
	"path/filepath"
	"strings"

	"tsc/internal/diag"
	"tsc/internal/performance"
	"tsc/internal/tsoptions"
)

// EmitResult lists what an emit pass wrote.
type EmitResult struct {
	// EmitSkipped is set when noEmit or noEmitOnError suppressed output.
	EmitSkipped  bool
	EmittedFiles []string
	// Reused are outputs of an unchanged incremental program that were
	// left in place.
	Reused      []string
	Diagnostics []*diag.Diagnostic
}

// Emit writes one .js file per source file. Outputs are the sources
// verbatim; only their location and extension change.
func (p *Program) Emit(ctx context.Context) *EmitResult {
	opts := p.CompilerOptions()
	res := &EmitResult{}
	if opts.NoEmit.IsTrue() {
		res.EmitSkipped = true
		return res
	}
	if opts.NoEmitOnError.IsTrue() && diag.CountErrors(p.AllDiagnostics()) > 0 {
		res.EmitSkipped = true
		return res
	}
	if p.reuse != nil {
		res.Reused = p.reuse
		return res
	}

	paths := make([]string, 0, len(p.summaries))
	for _, sum := range p.summaries {
		paths = append(paths, sum.file.Path)
	}
	cwd := p.sys.GetCurrentDirectory()
	common := CommonSourceDirectory(opts, paths, cwd)

	p.tracker.Mark("beforeEmit")
	defer func() {
		p.tracker.Mark("afterEmit")
		p.tracker.Measure(performance.Emit, "beforeEmit", "afterEmit")
	}()
	for _, sum := range p.summaries {
		if ctx.Err() != nil {
			res.EmitSkipped = true
			return res
		}
		out := OutputFileName(sum.file.Path, opts, common, cwd)
		if out == "" {
			continue
		}
		var err error
		p.tracker.Time(performance.IOWrite, func() {
			err = p.sys.WriteFile(out, sum.file.Content)
		})
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, diag.NewGlobal(diag.CouldNotWriteFile, out, err.Error()))
			continue
		}
		res.EmittedFiles = append(res.EmittedFiles, out)
	}
	return res
}

// OutputFileName maps a source path to its output path, or "" for
// declaration files.
func OutputFileName(sourcePath string, opts *tsoptions.Options, commonDir, cwd string) string {
	if strings.HasSuffix(sourcePath, ".d.ts") {
		return ""
	}
	name := filepath.FromSlash(sourcePath)
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".js"
	if opts.OutDir == "" {
		return name
	}
	rel, err := filepath.Rel(commonDir, name)
	if err != nil {
		rel = filepath.Base(name)
	}
	return filepath.Join(absoluteIn(opts.OutDir, cwd), rel)
}

// CommonSourceDirectory is rootDir when set, otherwise the deepest directory
// containing every path.
func CommonSourceDirectory(opts *tsoptions.Options, paths []string, cwd string) string {
	if opts.RootDir != "" {
		return absoluteIn(opts.RootDir, cwd)
	}
	if len(paths) == 0 {
		return cwd
	}
	common := filepath.Dir(filepath.FromSlash(paths[0]))
	for _, p := range paths[1:] {
		dir := filepath.Dir(filepath.FromSlash(p))
		for !within(dir, common) {
			parent := filepath.Dir(common)
			if parent == common {
				break
			}
			common = parent
		}
	}
	return common
}

func within(path, dir string) bool {
	if path == dir {
		return true
	}
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// ExpectedOutputs lists the outputs a full emit of cfg would write, without
// loading the program.
func ExpectedOutputs(cfg *tsoptions.ConfigParseResult, cwd string) []string {
	paths := make([]string, 0, len(cfg.FileNames))
	for _, name := range cfg.FileNames {
		paths = append(paths, filepath.ToSlash(absoluteIn(name, cwd)))
	}
	common := CommonSourceDirectory(cfg.Options, paths, cwd)
	var outs []string
	for _, path := range paths {
		if out := OutputFileName(path, cfg.Options, common, cwd); out != "" {
			outs = append(outs, out)
		}
	}
	return outs
}

func absoluteIn(p, dir string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}
