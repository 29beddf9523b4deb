package build

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"tsc/internal/core"
	"tsc/internal/diag"
	"tsc/internal/host"
	"tsc/internal/trace"
)

// WatchHost is a Host that rebuilds the projects affected by each file
// change until its context ends.
type WatchHost struct {
	*Host
	watcher host.FileWatcher
	changes chan struct{}
	watches map[string]io.Closer
	last    *solution
	passes  int

	mu      sync.Mutex
	pending map[string]bool
}

// NewWatchHost fails with host.ErrNotSupported when the host cannot watch
// files or report modification times.
func NewWatchHost(opts HostOptions) (*WatchHost, error) {
	h, err := NewHost(opts)
	if err != nil {
		return nil, err
	}
	watcher, ok := host.Watcher(opts.Sys)
	if !ok {
		return nil, fmt.Errorf("build: %s: %w", host.CapabilityWatchFile, host.ErrNotSupported)
	}
	return &WatchHost{
		Host:    h,
		watcher: watcher,
		changes: make(chan struct{}, 1),
		watches: make(map[string]io.Closer),
		pending: make(map[string]bool),
	}, nil
}

// Build runs the first pass and starts watching its inputs.
func (w *WatchHost) Build(ctx context.Context) core.ExitStatus {
	w.status(diag.StartingCompilationInWatchMode)
	return w.rebuild(ctx, nil)
}

// Watch blocks until ctx ends, rebuilding on every change.
func (w *WatchHost) Watch(ctx context.Context) core.ExitStatus {
	defer w.closeAll()
	for {
		select {
		case <-ctx.Done():
			return core.ExitSuccess
		case <-w.changes:
			changed := w.takePending()
			for file := range changed {
				trace.Point(ctx, trace.ScopeFile, "change", file)
			}
			w.status(diag.FileChangeDetected)

			var forced map[string]bool
			if w.last != nil {
				owners := make(map[string]bool)
				for file := range changed {
					for p := range w.last.owners(file, w.loaded) {
						owners[p] = true
					}
				}
				forced = w.last.dependents(owners)
			}
			w.rebuild(ctx, forced)
		}
	}
}

// Passes returns how many build passes ran.
func (w *WatchHost) Passes() int { return w.passes }

func (w *WatchHost) rebuild(ctx context.Context, forced map[string]bool) core.ExitStatus {
	w.passes++
	res := w.build(ctx, forced)
	if res.sol != nil {
		w.last = res.sol
	}
	w.watch()
	if res.errors == 1 {
		w.status(diag.FoundOneErrorWatching)
	} else {
		w.status(diag.FoundNErrorsWatching, strconv.Itoa(res.errors))
	}
	return res.status
}

func (w *WatchHost) takePending() map[string]bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	changed := w.pending
	w.pending = make(map[string]bool)
	return changed
}

// watch covers every config, root file and loaded file of the last solution.
// Root configs stay watched even when they failed to load.
func (w *WatchHost) watch() {
	want := make(map[string]struct{})
	for _, arg := range w.opts.Projects {
		want[w.rootConfig(arg)] = struct{}{}
	}
	if w.last != nil {
		for _, p := range w.last.order {
			want[p.path] = struct{}{}
			for _, name := range p.config.FileNames {
				want[name] = struct{}{}
			}
			for _, name := range w.loaded[p.path] {
				want[name] = struct{}{}
			}
		}
	}
	for path, c := range w.watches {
		if _, keep := want[path]; !keep {
			_ = c.Close()
			delete(w.watches, path)
		}
	}
	for path := range want {
		if _, ok := w.watches[path]; !ok {
			w.watches[path] = w.watcher.WatchFile(path, w.notify)
		}
	}
}

// notify may run on any goroutine.
func (w *WatchHost) notify(path string) {
	w.mu.Lock()
	w.pending[path] = true
	w.mu.Unlock()
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func (w *WatchHost) closeAll() {
	for path, c := range w.watches {
		_ = c.Close()
		delete(w.watches, path)
	}
}
