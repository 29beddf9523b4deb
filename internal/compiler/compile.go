package compiler

import (
	"context"
	"io"

	"tsc/internal/core"
	"tsc/internal/diag"
	"tsc/internal/diagfmt"
	"tsc/internal/host"
	"tsc/internal/performance"
	"tsc/internal/tsoptions"
)

// Reporting is where a compilation pass sends its output.
type Reporting struct {
	Writer  io.Writer
	NewLine string
	Report  diagfmt.Reporter
	// Summary is nil unless the sink is pretty.
	Summary diagfmt.ErrorSummary
	// AfterEmit runs once diagnostics and file lists are written; the driver
	// prints statistics from it.
	AfterEmit func(*Program)
}

// NewReporting writes to sys through sink.
func NewReporting(sys host.System, sink *diagfmt.Sink, afterEmit func(*Program)) Reporting {
	return Reporting{
		Writer:    sys.Writer(),
		NewLine:   sys.NewLine(),
		Report:    sink.Reporter(),
		Summary:   sink.ErrorSummary(),
		AfterEmit: afterEmit,
	}
}

// Result is the outcome of one pass.
type Result struct {
	Status     core.ExitStatus
	ErrorCount int
	Emit       *EmitResult
}

// EmitAndReport emits p, reports every diagnostic, lists files when asked and
// derives the exit status.
func EmitAndReport(ctx context.Context, p *Program, r Reporting) Result {
	diagnostics := p.AllDiagnostics()
	emit := p.Emit(ctx)
	diagnostics = append(diagnostics, emit.Diagnostics...)

	if r.Report != nil {
		for _, d := range diagnostics {
			r.Report(d)
		}
	}
	opts := p.CompilerOptions()
	if r.Writer != nil {
		if opts.ListEmittedFiles.IsTrue() {
			for _, out := range emit.EmittedFiles {
				_, _ = io.WriteString(r.Writer, "TSFILE: "+out+r.NewLine)
			}
		}
		if opts.ListFiles.IsTrue() {
			for _, f := range p.SourceFiles() {
				_, _ = io.WriteString(r.Writer, f.Path+r.NewLine)
			}
		}
	}

	errors := diag.CountErrors(diagnostics)
	if r.Summary != nil {
		r.Summary(errors)
	}
	if r.AfterEmit != nil {
		r.AfterEmit(p)
	}
	return Result{Status: exitStatus(emit, diagnostics), ErrorCount: errors, Emit: emit}
}

func exitStatus(emit *EmitResult, diagnostics []*diag.Diagnostic) core.ExitStatus {
	switch {
	case emit.EmitSkipped && len(diagnostics) > 0:
		return core.ExitDiagnosticsPresentOutputsSkipped
	case len(diagnostics) > 0:
		return core.ExitDiagnosticsPresentOutputsGenerated
	}
	return core.ExitSuccess
}

// Invocation is one compile request from the driver.
type Invocation struct {
	Host      host.System
	Config    *tsoptions.ConfigParseResult
	Tracker   *performance.Tracker
	Reporting Reporting
}

// Compile builds and emits the program once.
func Compile(ctx context.Context, inv Invocation) core.ExitStatus {
	p, err := NewProgram(ctx, ProgramOptions{Host: inv.Host, Config: inv.Config, Tracker: inv.Tracker})
	if err != nil {
		return core.ExitDiagnosticsPresentOutputsSkipped
	}
	return EmitAndReport(ctx, p, inv.Reporting).Status
}

// CompileIncremental is Compile with a build info file: when the program is
// unchanged since the recorded build its outputs are kept instead of being
// written again.
func CompileIncremental(ctx context.Context, inv Invocation) core.ExitStatus {
	p, err := NewProgram(ctx, ProgramOptions{Host: inv.Host, Config: inv.Config, Tracker: inv.Tracker})
	if err != nil {
		return core.ExitDiagnosticsPresentOutputsSkipped
	}
	path := BuildInfoPath(p.Config(), inv.Host.GetCurrentDirectory())
	return EmitWithBuildInfo(ctx, p, inv.Reporting, path, true).Status
}

// EmitWithBuildInfo emits p, then records the new state at path. With reuse
// set, a build info showing p unchanged keeps the existing outputs instead.
// A build info that cannot be read is treated as absent.
func EmitWithBuildInfo(ctx context.Context, p *Program, r Reporting, path string, reuse bool) Result {
	if reuse {
		if old, ok, err := ReadBuildInfo(p.sys, path); err == nil && ok && old.Current(p, path) {
			p.reuse = old.OutputPaths(path)
		}
	}
	res := EmitAndReport(ctx, p, r)
	if ctx.Err() != nil {
		return res
	}
	if err := WriteBuildInfo(p.sys, path, NewBuildInfo(p, res, path)); err != nil {
		if r.Report != nil {
			r.Report(diag.NewGlobal(diag.CouldNotWriteFile, path, err.Error()))
		}
		if res.Status == core.ExitSuccess {
			res.Status = core.ExitDiagnosticsPresentOutputsGenerated
		}
	}
	return res
}
