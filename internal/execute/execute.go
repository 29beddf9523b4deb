// Package execute turns a tsc command line into exactly one action: print
// help, version or a config, scaffold a tsconfig.json, compile once,
// incrementally or in watch mode, or hand over to the solution builder.
//
// Each invocation owns its diagnostic sink and statistics reporter. The sink
// starts out bound to the terminal probe and is rebound once the effective
// options are known; diagnostics reported before that use the provisional
// sink and are never replayed.
package execute

import (
	"context"
	"path/filepath"

	"tsc/internal/compiler"
	"tsc/internal/core"
	"tsc/internal/diag"
	"tsc/internal/diagfmt"
	"tsc/internal/host"
	"tsc/internal/locale"
	"tsc/internal/stats"
	"tsc/internal/trace"
	"tsc/internal/tsoptions"
	"tsc/internal/watch"
)

// CommandLine runs one tsc invocation on sys with the default engine.
func CommandLine(ctx context.Context, sys host.System, args []string) core.ExitStatus {
	return Run(ctx, sys, args, DefaultEngine())
}

// Run is CommandLine with a caller supplied engine.
func Run(ctx context.Context, sys host.System, args []string, engine Engine) core.ExitStatus {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "commandLine")
	inv := &invocation{
		sys:    sys,
		engine: engine,
		sink:   diagfmt.NewSink(sys, diagfmt.ShouldBePretty(sys, nil)),
		stats:  stats.NewReporter(sys),
	}
	status := inv.run(ctx, args)
	span.Set("status", status.String())
	span.End()
	return status
}

type invocation struct {
	sys    host.System
	engine Engine
	sink   *diagfmt.Sink
	stats  *stats.Reporter
}

func (inv *invocation) run(ctx context.Context, args []string) core.ExitStatus {
	if kind, rest := core.ResolveCommandKind(args); kind == core.CommandBuild {
		return inv.executeBuild(ctx, rest)
	}

	cmd := tsoptions.ParseCommandLine(args)
	opts := cmd.Options
	if opts.Build.IsTrue() {
		inv.sink.Report(diag.NewGlobal(diag.OptionBuildMustBeFirstArgument))
		return core.ExitDiagnosticsPresentOutputsSkipped
	}
	errors := cmd.Errors
	if opts.Locale != "" {
		errors = append(errors, inv.applyLocale(opts.Locale)...)
	}
	if len(errors) > 0 {
		inv.sink.ReportAll(errors)
		return core.ExitDiagnosticsPresentOutputsSkipped
	}

	switch {
	case opts.Init.IsTrue():
		mode(ctx, "init")
		return inv.writeConfigFile(opts)
	case opts.Version.IsTrue():
		mode(ctx, "version")
		inv.printVersion()
		return core.ExitSuccess
	case opts.Help.IsTrue() || opts.All.IsTrue():
		mode(ctx, "help")
		inv.printVersion()
		inv.printHelp(compileSyntax, compileExamples, tsoptions.HelpOptions(opts.All.IsTrue()))
		return core.ExitSuccess
	}

	cwd := inv.sys.GetCurrentDirectory()
	var configPath string
	if opts.Project != "" {
		if len(cmd.FileNames) > 0 {
			inv.sink.Report(diag.NewGlobal(diag.ProjectCannotBeMixedWithFiles))
			return core.ExitDiagnosticsPresentOutputsSkipped
		}
		path := opts.Project
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		path = filepath.Clean(path)
		switch {
		case inv.sys.DirectoryExists(path):
			configPath = filepath.Join(path, tsoptions.ConfigFileName)
			if !inv.sys.FileExists(configPath) {
				inv.sink.Report(diag.NewGlobal(diag.CannotFindTsconfigAtDirectory, opts.Project))
				return core.ExitDiagnosticsPresentOutputsSkipped
			}
		case inv.sys.FileExists(path):
			configPath = path
		default:
			inv.sink.Report(diag.NewGlobal(diag.SpecifiedPathDoesNotExist, opts.Project))
			return core.ExitDiagnosticsPresentOutputsSkipped
		}
	} else if len(cmd.FileNames) == 0 {
		if found, ok := tsoptions.FindConfigFile(cwd, inv.sys); ok {
			configPath = found
		}
	}

	if len(cmd.FileNames) == 0 && configPath == "" {
		mode(ctx, "help")
		inv.printVersion()
		inv.printHelp(compileSyntax, compileExamples, tsoptions.HelpOptions(false))
		return core.ExitSuccess
	}

	if configPath != "" {
		config := tsoptions.ParseConfigFile(configPath, opts, inv.sys)
		if opts.ShowConfig.IsTrue() {
			mode(ctx, "showConfig")
			if len(config.Errors) > 0 {
				inv.sink = inv.sink.Rebind(inv.sys, config.Options)
				inv.sink.ReportAll(config.Errors)
				return core.ExitDiagnosticsPresentOutputsSkipped
			}
			return inv.showConfig(config, configPath)
		}
		inv.sink = inv.sink.Rebind(inv.sys, config.Options)
		reload := func() *tsoptions.ConfigParseResult {
			return tsoptions.ParseConfigFile(configPath, opts, inv.sys)
		}
		return inv.compile(ctx, config, configPath, reload)
	}

	config := &tsoptions.ConfigParseResult{ParsedCommandLine: *cmd}
	if opts.ShowConfig.IsTrue() {
		mode(ctx, "showConfig")
		return inv.showConfig(config, filepath.Join(cwd, tsoptions.ConfigFileName))
	}
	inv.sink = inv.sink.Rebind(inv.sys, opts)
	return inv.compile(ctx, config, "", func() *tsoptions.ConfigParseResult { return config })
}

// applyLocale points the sink at the catalog of value.
func (inv *invocation) applyLocale(value string) []*diag.Diagnostic {
	cat, errs := locale.Validate(value)
	if cat != nil {
		inv.sink = inv.sink.WithTranslator(cat)
	}
	return errs
}

func (inv *invocation) showConfig(config *tsoptions.ConfigParseResult, configPath string) core.ExitStatus {
	text, err := tsoptions.ConvertToTSConfig(config, configPath)
	if err != nil {
		inv.sink.Report(diag.NewGlobal(diag.CouldNotWriteFile, configPath, err.Error()))
		return core.ExitDiagnosticsPresentOutputsSkipped
	}
	inv.write(text)
	return core.ExitSuccess
}

// compile picks watch, incremental or single compilation for config. Project
// references travel inside config; without a config file there are none.
func (inv *invocation) compile(ctx context.Context, config *tsoptions.ConfigParseResult, configFile string, reload func() *tsoptions.ConfigParseResult) core.ExitStatus {
	opts := config.Options
	inv.stats.Enable(opts)
	defer inv.stats.Disable()

	if opts.Watch.IsTrue() {
		watcher, ok := host.Watcher(inv.sys)
		if !ok {
			inv.sink.Report(diag.NewGlobal(diag.CurrentHostDoesNotSupport, "--watch"))
			return core.ExitDiagnosticsPresentOutputsSkipped
		}
		mode(ctx, "watch")
		return inv.engine.Watch(ctx, watch.Config{
			Host:       inv.sys,
			Watcher:    watcher,
			Sink:       inv.sink,
			Load:       reload,
			ConfigFile: configFile,
			Stats:      inv.stats,
		})
	}

	compilation := compiler.Invocation{
		Host:    inv.sys,
		Config:  config,
		Tracker: inv.stats.Tracker(),
		Reporting: compiler.NewReporting(inv.sys, inv.sink, func(p *compiler.Program) {
			inv.stats.Report(p)
		}),
	}
	if opts.Incremental.IsTrue() {
		mode(ctx, "incremental")
		return inv.engine.CompileIncremental(ctx, compilation)
	}
	mode(ctx, "compile")
	return inv.engine.Compile(ctx, compilation)
}

// mode records the resolved mode on the trace.
func mode(ctx context.Context, name string) {
	trace.Point(ctx, trace.ScopeMode, "mode", name)
}
