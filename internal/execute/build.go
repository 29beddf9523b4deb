package execute

import (
	"context"

	"tsc/internal/build"
	"tsc/internal/core"
	"tsc/internal/diag"
	"tsc/internal/host"
	"tsc/internal/trace"
	"tsc/internal/tsoptions"
)

// executeBuild handles tsc --build. Host capabilities are checked before any
// project is loaded.
func (inv *invocation) executeBuild(ctx context.Context, args []string) core.ExitStatus {
	cmd := tsoptions.ParseBuildCommandLine(args)
	opts := cmd.BuildOptions
	inv.sink = inv.sink.Rebind(inv.sys, opts)

	errs := cmd.Errors
	if opts.Locale != "" {
		errs = append(errs, inv.applyLocale(opts.Locale)...)
	}
	if len(errs) > 0 {
		inv.sink.ReportAll(errs)
		return core.ExitDiagnosticsPresentOutputsSkipped
	}
	if opts.Help.IsTrue() || len(cmd.Projects) == 0 {
		mode(ctx, "buildHelp")
		inv.printVersion()
		inv.printHelp(buildSyntax, buildExamples, tsoptions.BuildHelpOptions())
		return core.ExitSuccess
	}

	if !host.Supports(inv.sys, host.CapabilityModifiedTime) {
		return inv.unsupported("--build")
	}
	if opts.Clean.IsTrue() && !host.Supports(inv.sys, host.CapabilityDeleteFile) {
		return inv.unsupported("--clean")
	}

	hostOpts := build.HostOptions{
		Sys:          inv.sys,
		Sink:         inv.sink,
		BuildOptions: opts,
		Projects:     cmd.Projects,
		Stats:        inv.stats,
	}
	if opts.Watch.IsTrue() {
		if !host.Supports(inv.sys, host.CapabilityWatchFile) {
			return inv.unsupported("--watch")
		}
		mode(ctx, "buildWatch")
		w, err := build.NewWatchHost(hostOpts)
		if err != nil {
			return inv.hostError(ctx, err, "--watch")
		}
		w.Build(ctx)
		return w.Watch(ctx)
	}

	hostOpts.ErrorSummary = inv.sink.ErrorSummary()
	h, err := build.NewHost(hostOpts)
	if err != nil {
		return inv.hostError(ctx, err, "--build")
	}
	if opts.Clean.IsTrue() {
		mode(ctx, "clean")
		return h.Clean(ctx)
	}
	mode(ctx, "build")
	return h.Build(ctx)
}

func (inv *invocation) unsupported(option string) core.ExitStatus {
	inv.sink.Report(diag.NewGlobal(diag.CurrentHostDoesNotSupport, option))
	return core.ExitDiagnosticsPresentOutputsSkipped
}

// hostError reports a build host construction failure. Hosts are only
// refused for missing capabilities.
func (inv *invocation) hostError(ctx context.Context, err error, option string) core.ExitStatus {
	trace.Point(ctx, trace.ScopeMode, "hostError", err.Error())
	return inv.unsupported(option)
}
