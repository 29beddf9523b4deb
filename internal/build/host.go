// Package build implements --build: it loads a solution of referenced
// projects, orders them so references build first, and compiles each project
// that is out of date with respect to its build info.
package build

import (
	"fmt"
	"path/filepath"

	"tsc/internal/compiler"
	"tsc/internal/diag"
	"tsc/internal/diagfmt"
	"tsc/internal/host"
	"tsc/internal/stats"
	"tsc/internal/tsoptions"
)

// HostOptions configure a solution build.
type HostOptions struct {
	Sys  host.System
	Sink *diagfmt.Sink
	// BuildOptions come from the command line; the compiler options among
	// them override every project's config.
	BuildOptions *tsoptions.Options
	// Projects are config files or directories holding a tsconfig.json.
	Projects []string
	// Stats is enabled for each project with that project's options.
	Stats *stats.Reporter
	// ErrorSummary runs once per build with the total error count.
	ErrorSummary diagfmt.ErrorSummary
}

// Host builds or cleans one solution.
type Host struct {
	opts  HostOptions
	times host.ModifiedTimeHost
	cwd   string
	// loaded maps a project config to the files its last build read.
	loaded map[string][]string
}

// NewHost fails with host.ErrNotSupported when the host cannot report
// modification times.
func NewHost(opts HostOptions) (*Host, error) {
	times, ok := host.ModifiedTimes(opts.Sys)
	if !ok {
		return nil, fmt.Errorf("build: %s: %w", host.CapabilityModifiedTime, host.ErrNotSupported)
	}
	if opts.BuildOptions == nil {
		opts.BuildOptions = &tsoptions.Options{}
	}
	return &Host{
		opts:   opts,
		times:  times,
		cwd:    opts.Sys.GetCurrentDirectory(),
		loaded: make(map[string][]string),
	}, nil
}

func (h *Host) report(m *diag.Message, args ...string) {
	h.opts.Sink.Report(diag.NewGlobal(m, args...))
}

// status writes a progress line the way watch mode does.
func (h *Host) status(m *diag.Message, args ...string) {
	h.opts.Sink.WatchStatus(diag.NewGlobal(m, args...), h.opts.Sys.Now(), true)
}

func (h *Host) verbose() bool { return h.opts.BuildOptions.Verbose.IsTrue() }

func (h *Host) dry() bool { return h.opts.BuildOptions.Dry.IsTrue() }

// display shortens path for messages.
func (h *Host) display(path string) string {
	if rel, err := filepath.Rel(h.cwd, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

func (h *Host) reporting() compiler.Reporting {
	return compiler.Reporting{
		Writer:  h.opts.Sys.Writer(),
		NewLine: h.opts.Sys.NewLine(),
		Report:  h.opts.Sink.Reporter(),
		AfterEmit: func(p *compiler.Program) {
			h.opts.Stats.Report(p)
		},
	}
}
