package watch

import (
	"context"
	"strings"
	"testing"
	"time"

	"tsc/internal/core"
	"tsc/internal/diagfmt"
	"tsc/internal/host"
	"tsc/internal/tsoptions"
)

func waitFor(t *testing.T, sys *host.MemSystem, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(sys.Output(), want) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("output never contained %q:\n%s", want, sys.Output())
}

func TestSessionRecompilesOnChange(t *testing.T) {
	sys := host.NewMemSystem("/p")
	_ = sys.WriteFile("a.ts", []byte(`import { b } from "./b";`))
	_ = sys.WriteFile("b.ts", []byte(`export const b = 1;`))

	loads := 0
	s := NewSession(Config{
		Host:    sys,
		Watcher: sys,
		Sink:    diagfmt.NewSink(sys, false),
		Load: func() *tsoptions.ConfigParseResult {
			loads++
			return &tsoptions.ConfigParseResult{ParsedCommandLine: tsoptions.ParsedCommandLine{
				Options:   &tsoptions.Options{NoEmit: core.TSTrue},
				FileNames: []string{"a.ts"},
			}}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan core.ExitStatus, 1)
	go func() { done <- s.Run(ctx) }()

	waitFor(t, sys, "12:00:00 AM - Found 0 errors. Watching for file changes.\n\n")
	if !strings.HasPrefix(sys.Output(), "12:00:00 AM - Starting compilation in watch mode...\n\n") {
		t.Fatalf("unexpected start:\n%s", sys.Output())
	}
	if sys.WatchCount() != 2 {
		t.Fatalf("watching %d files, want 2", sys.WatchCount())
	}

	sys.ResetOutput()
	_ = sys.WriteFile("b.ts", []byte(`export const c = 1;`))
	waitFor(t, sys, "Found 1 error. Watching for file changes.")
	out := sys.Output()
	if !strings.Contains(out, "File change detected. Starting incremental compilation...") {
		t.Fatalf("missing change notice:\n%s", out)
	}
	if !strings.Contains(out, "a.ts(1,10): error TS2305: Module '\"./b\"' has no exported member 'b'.") {
		t.Fatalf("missing diagnostic:\n%s", out)
	}

	cancel()
	select {
	case status := <-done:
		if status != core.ExitSuccess {
			t.Fatalf("status = %v", status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if sys.WatchCount() != 0 {
		t.Fatalf("%d watches left open", sys.WatchCount())
	}
	if s.Passes() != 2 || loads != 2 {
		t.Fatalf("passes = %d, loads = %d", s.Passes(), loads)
	}
}

func TestSessionWatchesMissingRootAndConfig(t *testing.T) {
	sys := host.NewMemSystem("/p")
	_ = sys.WriteFile("tsconfig.json", []byte(`{}`))
	s := NewSession(Config{
		Host:       sys,
		Watcher:    sys,
		Sink:       diagfmt.NewSink(sys, false),
		ConfigFile: "/p/tsconfig.json",
		Load: func() *tsoptions.ConfigParseResult {
			return &tsoptions.ConfigParseResult{ParsedCommandLine: tsoptions.ParsedCommandLine{
				Options:   &tsoptions.Options{NoEmit: core.TSTrue},
				FileNames: []string{"later.ts"},
			}}
		},
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	waitFor(t, sys, "Found 1 error. Watching for file changes.")
	sys.ResetOutput()
	_ = sys.WriteFile("later.ts", []byte(`const ok = 1;`))
	waitFor(t, sys, "Found 0 errors. Watching for file changes.")
	cancel()
	<-done
}
