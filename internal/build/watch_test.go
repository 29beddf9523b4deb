package build

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

func TestWatchHostRebuildsAffectedProjects(t *testing.T) {
	sys := host.NewMemSystem("/w")
	writeSolution(t, sys, twoProjects)
	w, err := NewWatchHost(HostOptions{
		Sys:          sys,
		Sink:         diagfmt.NewSink(sys, false),
		BuildOptions: &tsoptions.Options{Verbose: core.TSTrue},
		Projects:     []string{"app"},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if status := w.Build(ctx); status != core.ExitSuccess {
		t.Fatalf("status = %v\n%s", status, sys.Output())
	}
	out := sys.Output()
	if !strings.HasPrefix(out, "12:00:00 AM - Starting compilation in watch mode...\n\n") {
		t.Fatalf("unexpected start:\n%s", out)
	}
	if !strings.HasSuffix(out, "12:00:00 AM - Found 0 errors. Watching for file changes.\n\n") {
		t.Fatalf("unexpected end:\n%s", out)
	}
	// Two configs and two sources.
	if sys.WatchCount() != 4 {
		t.Fatalf("watching %d files, want 4", sys.WatchCount())
	}

	done := make(chan core.ExitStatus, 1)
	go func() { done <- w.Watch(ctx) }()

	sys.ResetOutput()
	// The clock stays put, so only the change notification can make the
	// projects out of date.
	_ = sys.WriteFile("/w/core/index.ts", []byte(`export const x = 3;`))
	waitFor(t, sys, "Found 0 errors. Watching for file changes.")
	out = sys.Output()
	if !strings.Contains(out, "File change detected. Starting incremental compilation...") {
		t.Fatalf("missing change notice:\n%s", out)
	}
	if strings.Count(out, "Building project") != 2 {
		t.Fatalf("want both projects rebuilt:\n%s", out)
	}

	sys.ResetOutput()
	_ = sys.WriteFile("/w/app/main.ts", []byte(`const y: number = 2;`))
	waitFor(t, sys, "Found 0 errors. Watching for file changes.")
	out = sys.Output()
	if !strings.Contains(out, "Project 'core/tsconfig.json' is up to date") || !strings.Contains(out, "Building project 'app/tsconfig.json'...") {
		t.Fatalf("only app should rebuild:\n%s", out)
	}

	cancel()
	select {
	case status := <-done:
		if status != core.ExitSuccess {
			t.Fatalf("status = %v", status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	if sys.WatchCount() != 0 {
		t.Fatalf("%d watches left open", sys.WatchCount())
	}
	if w.Passes() != 3 {
		t.Fatalf("passes = %d", w.Passes())
	}
}
