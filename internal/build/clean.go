package build

import (
	"context"
	"fmt"
	"slices"

	"tsc/internal/compiler"
	"tsc/internal/core"
	"tsc/internal/diag"
	"tsc/internal/host"
	"tsc/internal/trace"
)

// Clean deletes the outputs and build info of every project in the solution.
// Under --dry it lists them instead.
func (h *Host) Clean(ctx context.Context) core.ExitStatus {
	ctx, span := trace.Start(ctx, trace.ScopeMode, "clean")
	defer span.End()

	deleter, ok := host.Deleter(h.opts.Sys)
	if !ok {
		h.report(diag.CurrentHostDoesNotSupport, "--clean")
		return core.ExitDiagnosticsPresentOutputsSkipped
	}
	sol, status, ok := h.resolve(ctx)
	if !ok {
		return status
	}

	var files []string
	for _, p := range sol.order {
		for _, f := range h.outputsOf(p) {
			if !slices.Contains(files, f) && h.opts.Sys.FileExists(f) {
				files = append(files, f)
			}
		}
	}
	span.Set("files", fmt.Sprint(len(files)))

	if h.dry() {
		if len(files) > 0 {
			list := ""
			for _, f := range files {
				list += h.opts.Sys.NewLine() + " * " + h.display(f)
			}
			h.status(diag.DryBuildWouldDeleteFiles, list)
		}
		return core.ExitSuccess
	}

	status = core.ExitSuccess
	for _, f := range files {
		if err := deleter.DeleteFile(f); err != nil {
			h.report(diag.CouldNotWriteFile, h.display(f), err.Error())
			status = core.ExitDiagnosticsPresentOutputsSkipped
		}
	}
	return status
}

// outputsOf lists what a build of p writes: the emit outputs its config
// implies, the outputs its build info recorded and the build info itself.
func (h *Host) outputsOf(p *project) []string {
	infoPath := compiler.BuildInfoPath(p.config, h.cwd)
	outs := compiler.ExpectedOutputs(p.config, h.cwd)
	if info, ok, err := compiler.ReadBuildInfo(h.opts.Sys, infoPath); err == nil && ok {
		outs = append(outs, info.OutputPaths(infoPath)...)
	}
	return append(outs, infoPath)
}
