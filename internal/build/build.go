package build

import (
	"context"
	"path/filepath"
	"strconv"
	"time"

	"tsc/internal/compiler"
	"tsc/internal/core"
	"tsc/internal/diag"
	"tsc/internal/trace"
)

// pass is the outcome of building a solution once.
type pass struct {
	status core.ExitStatus
	errors int
	sol    *solution
}

// Build compiles every out-of-date project, references first.
func (h *Host) Build(ctx context.Context) core.ExitStatus {
	res := h.build(ctx, nil)
	if h.opts.ErrorSummary != nil {
		h.opts.ErrorSummary(res.errors)
	}
	return res.status
}

// build runs one pass. Projects in forced are rebuilt even when their
// stamps say they are current.
func (h *Host) build(ctx context.Context, forced map[string]bool) pass {
	ctx, span := trace.Start(ctx, trace.ScopeMode, "build")
	defer span.End()

	sol, status, ok := h.resolve(ctx)
	if !ok {
		return pass{status: status, errors: 1}
	}
	if h.verbose() {
		nl := h.opts.Sys.NewLine()
		list := ""
		for _, p := range sol.order {
			list += nl + "    * " + p.name
		}
		h.status(diag.ProjectsInThisBuild, list)
	}

	var (
		errors  int
		emitted int
		invalid bool
	)
	failed := make(map[string]bool)
	for _, p := range sol.order {
		if ctx.Err() != nil {
			break
		}
		if p.invalid {
			failed[p.path] = true
			invalid = true
			errors += diag.CountErrors(p.config.Errors)
			continue
		}
		if dep, ok := firstFailed(p, failed); ok {
			if h.verbose() {
				h.status(diag.SkippingBuildDependencyHasErrors, p.name, h.display(dep))
			}
			failed[p.path] = true
			continue
		}
		if ref, ok := h.nonComposite(p, sol); ok {
			h.report(diag.ReferencedProjectMustBeComposite, h.display(ref))
			failed[p.path] = true
			errors++
			continue
		}
		if !forced[p.path] && !h.opts.BuildOptions.Force.IsTrue() && h.upToDate(p, sol) {
			continue
		}
		if h.dry() {
			h.status(diag.DryBuildWouldBuildProject, p.name)
			continue
		}
		if h.verbose() {
			h.status(diag.BuildingProject, p.name)
		}
		res := h.buildProject(ctx, p)
		errors += res.ErrorCount
		if res.ErrorCount > 0 {
			failed[p.path] = true
		}
		if res.Emit != nil && !res.Emit.EmitSkipped {
			emitted++
		}
	}
	span.Set("errors", strconv.Itoa(errors))

	switch {
	case invalid:
		status = core.ExitInvalidProjectOutputsSkipped
	case errors == 0:
		status = core.ExitSuccess
	case emitted > 0:
		status = core.ExitDiagnosticsPresentOutputsGenerated
	default:
		status = core.ExitDiagnosticsPresentOutputsSkipped
	}
	return pass{status: status, errors: errors, sol: sol}
}

func firstFailed(p *project, failed map[string]bool) (string, bool) {
	for _, ref := range p.refs {
		if failed[ref] {
			return ref, true
		}
	}
	return "", false
}

// nonComposite returns the first reference of p whose config does not set
// "composite".
func (h *Host) nonComposite(p *project, sol *solution) (string, bool) {
	for _, ref := range p.refs {
		if dep := sol.byPath[ref]; dep != nil && !dep.config.Options.Composite.IsTrue() {
			return ref, true
		}
	}
	return "", false
}

// upToDate compares the newest input of p against the stamp of its build
// info. Inputs are the config file, the root files, the files recorded by the
// last build and the build infos of referenced projects.
func (h *Host) upToDate(p *project, sol *solution) bool {
	sys := h.opts.Sys
	infoPath := compiler.BuildInfoPath(p.config, h.cwd)
	stamp, ok := h.times.GetModifiedTime(infoPath)
	if !ok {
		h.explain(diag.ProjectOutOfDateOutputMissing, p.name, h.display(infoPath))
		return false
	}
	info, ok, err := compiler.ReadBuildInfo(sys, infoPath)
	if err != nil || !ok || info.Errors {
		h.explain(diag.ProjectOutOfDateBuildInfoErrors, p.name, h.display(infoPath))
		return false
	}
	for _, out := range info.OutputPaths(infoPath) {
		if !sys.FileExists(out) {
			h.explain(diag.ProjectOutOfDateOutputMissing, p.name, h.display(out))
			return false
		}
	}

	inputs := []string{p.path}
	inputs = append(inputs, p.config.FileNames...)
	dir := filepath.Dir(infoPath)
	for _, f := range info.Files {
		inputs = append(inputs, filepath.Join(dir, filepath.FromSlash(f.Path)))
	}
	for _, ref := range p.refs {
		if dep := sol.byPath[ref]; dep != nil {
			inputs = append(inputs, compiler.BuildInfoPath(dep.config, h.cwd))
		}
	}

	var (
		newest     string
		newestTime time.Time
	)
	for _, in := range inputs {
		t, ok := h.times.GetModifiedTime(in)
		if !ok {
			h.explain(diag.ProjectOutOfDateNewerInput, p.name, h.display(infoPath), h.display(in))
			return false
		}
		if newest == "" || t.After(newestTime) {
			newest, newestTime = in, t
		}
	}
	if newestTime.After(stamp) {
		h.explain(diag.ProjectOutOfDateNewerInput, p.name, h.display(infoPath), h.display(newest))
		return false
	}
	h.explain(diag.ProjectUpToDate, p.name, h.display(newest), h.display(infoPath))
	return true
}

// explain writes an up-to-date check verdict under --verbose.
func (h *Host) explain(m *diag.Message, args ...string) {
	if h.verbose() {
		h.status(m, args...)
	}
}

func (h *Host) buildProject(ctx context.Context, p *project) compiler.Result {
	ctx, span := trace.Start(ctx, trace.ScopeProject, p.name)
	defer span.End()

	h.opts.Stats.Enable(p.config.Options)
	defer h.opts.Stats.Disable()

	sys := h.opts.Sys
	prog, err := compiler.NewProgram(ctx, compiler.ProgramOptions{
		Host:    sys,
		Config:  p.config,
		Tracker: h.opts.Stats.Tracker(),
	})
	if err != nil {
		span.Set("error", err.Error())
		return compiler.Result{Status: core.ExitDiagnosticsPresentOutputsSkipped}
	}
	infoPath := compiler.BuildInfoPath(p.config, h.cwd)
	res := compiler.EmitWithBuildInfo(ctx, prog, h.reporting(), infoPath, !h.opts.BuildOptions.Force.IsTrue())

	loaded := make([]string, 0, len(prog.SourceFiles()))
	for _, f := range prog.SourceFiles() {
		loaded = append(loaded, filepath.FromSlash(f.Path))
	}
	h.loaded[p.path] = loaded

	if sys.FileExists(infoPath) {
		if err := h.times.SetModifiedTime(infoPath, sys.Now()); err != nil {
			h.report(diag.CouldNotWriteFile, infoPath, err.Error())
		}
	}
	span.Set("errors", strconv.Itoa(res.ErrorCount))
	return res
}
