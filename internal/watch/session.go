// Package watch runs a compilation, then recompiles whenever one of the
// program's files or its config file changes, until the context ends.
package watch

import (
	"context"
	"io"
	"path/filepath"
	"strconv"

	"tsc/internal/compiler"
	"tsc/internal/core"
	"tsc/internal/diag"
	"tsc/internal/diagfmt"
	"tsc/internal/host"
	"tsc/internal/stats"
	"tsc/internal/trace"
	"tsc/internal/tsoptions"
)

// Config wires a Session to the driver.
type Config struct {
	Host    host.System
	Watcher host.FileWatcher
	Sink    *diagfmt.Sink
	// Load returns the configuration of the next compilation. With a config
	// file it re-reads it so edits take effect.
	Load func() *tsoptions.ConfigParseResult
	// ConfigFile is watched besides the sources; empty without one.
	ConfigFile string
	Stats      *stats.Reporter
}

// Session is one watch-mode compiler.
type Session struct {
	cfg     Config
	changes chan string
	watches map[string]io.Closer
	passes  int
}

func NewSession(cfg Config) *Session {
	return &Session{
		cfg:     cfg,
		changes: make(chan string, 1),
		watches: make(map[string]io.Closer),
	}
}

// Run compiles, then waits for changes. It returns when ctx ends.
func (s *Session) Run(ctx context.Context) core.ExitStatus {
	defer s.closeAll()

	config := s.cfg.Load()
	s.status(diag.StartingCompilationInWatchMode, config.Options)
	s.compile(ctx, config)
	for {
		select {
		case <-ctx.Done():
			return core.ExitSuccess
		case path := <-s.changes:
			s.drain()
			trace.Point(ctx, trace.ScopeFile, "change", path)
			config = s.cfg.Load()
			s.status(diag.FileChangeDetected, config.Options)
			s.compile(ctx, config)
		}
	}
}

// Passes returns how many compilations ran.
func (s *Session) Passes() int { return s.passes }

func (s *Session) drain() {
	for {
		select {
		case <-s.changes:
		default:
			return
		}
	}
}

func (s *Session) compile(ctx context.Context, config *tsoptions.ConfigParseResult) {
	ctx, span := trace.Start(ctx, trace.ScopeMode, "watch.compile")
	defer span.End()

	s.passes++
	s.cfg.Stats.Enable(config.Options)
	defer s.cfg.Stats.Disable()

	sys := s.cfg.Host
	p, err := compiler.NewProgram(ctx, compiler.ProgramOptions{
		Host:    sys,
		Config:  config,
		Tracker: s.cfg.Stats.Tracker(),
	})
	if err != nil {
		return
	}
	res := compiler.EmitAndReport(ctx, p, compiler.Reporting{
		Writer:  sys.Writer(),
		NewLine: sys.NewLine(),
		Report:  s.cfg.Sink.Reporter(),
		AfterEmit: func(p *compiler.Program) {
			s.cfg.Stats.Report(p)
		},
	})
	span.Set("errors", strconv.Itoa(res.ErrorCount))

	s.watch(p, config)
	if res.ErrorCount == 1 {
		s.status(diag.FoundOneErrorWatching, config.Options)
	} else {
		s.status(diag.FoundNErrorsWatching, config.Options, strconv.Itoa(res.ErrorCount))
	}
}

func (s *Session) status(m *diag.Message, opts *tsoptions.Options, args ...string) {
	preserve := opts != nil && opts.PreserveWatchOutput.IsTrue()
	s.cfg.Sink.WatchStatus(diag.NewGlobal(m, args...), s.cfg.Host.Now(), preserve)
}

// watch makes the set of watched files match the program: its sources, its
// root names (which may not exist yet) and the config file.
func (s *Session) watch(p *compiler.Program, config *tsoptions.ConfigParseResult) {
	cwd := s.cfg.Host.GetCurrentDirectory()
	want := make(map[string]struct{})
	for _, f := range p.SourceFiles() {
		want[filepath.FromSlash(f.Path)] = struct{}{}
	}
	for _, name := range config.FileNames {
		if !filepath.IsAbs(name) {
			name = filepath.Join(cwd, name)
		}
		want[filepath.Clean(name)] = struct{}{}
	}
	if s.cfg.ConfigFile != "" {
		want[s.cfg.ConfigFile] = struct{}{}
	}

	for path, c := range s.watches {
		if _, keep := want[path]; !keep {
			_ = c.Close()
			delete(s.watches, path)
		}
	}
	for path := range want {
		if _, ok := s.watches[path]; !ok {
			s.watches[path] = s.cfg.Watcher.WatchFile(path, s.notify)
		}
	}
}

// notify may run on any goroutine; Run serialises the changes.
func (s *Session) notify(path string) {
	select {
	case s.changes <- path:
	default:
	}
}

func (s *Session) closeAll() {
	for path, c := range s.watches {
		_ = c.Close()
		delete(s.watches, path)
	}
}
