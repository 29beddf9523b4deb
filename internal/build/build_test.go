package build

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tsc/internal/core"
	"tsc/internal/diagfmt"
	"tsc/internal/host"
	"tsc/internal/tsoptions"
)

func writeSolution(t *testing.T, sys *host.MemSystem, files map[string]string) {
	t.Helper()
	for path, text := range files {
		if err := sys.WriteFile(path, []byte(text)); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestHost(t *testing.T, sys *host.MemSystem, opts *tsoptions.Options, projects ...string) *Host {
	t.Helper()
	h, err := NewHost(HostOptions{
		Sys:          sys,
		Sink:         diagfmt.NewSink(sys, false),
		BuildOptions: opts,
		Projects:     projects,
	})
	if err != nil {
		t.Fatal(err)
	}
	return h
}

var twoProjects = map[string]string{
	"/w/core/tsconfig.json": `{"compilerOptions": {"composite": true, "outDir": "out"}, "files": ["index.ts"]}`,
	"/w/core/index.ts":      `export const x = 1;`,
	"/w/app/tsconfig.json":  `{"compilerOptions": {"outDir": "out"}, "files": ["main.ts"], "references": [{"path": "../core"}]}`,
	"/w/app/main.ts":        `const y = 2;`,
}

func TestBuildOrdersReferencesFirst(t *testing.T) {
	sys := host.NewMemSystem("/w")
	writeSolution(t, sys, twoProjects)
	h := newTestHost(t, sys, &tsoptions.Options{Verbose: core.TSTrue}, "app")

	if status := h.Build(context.Background()); status != core.ExitSuccess {
		t.Fatalf("status = %v\n%s", status, sys.Output())
	}
	out := sys.Output()
	want := "12:00:00 AM - Projects in this build: \n    * core/tsconfig.json\n    * app/tsconfig.json\n\n"
	if !strings.HasPrefix(out, want) {
		t.Fatalf("unexpected project list:\n%s", out)
	}
	coreAt := strings.Index(out, "Building project 'core/tsconfig.json'...")
	appAt := strings.Index(out, "Building project 'app/tsconfig.json'...")
	if coreAt < 0 || appAt < coreAt {
		t.Fatalf("core must build before app:\n%s", out)
	}
	if !strings.Contains(out, "Project 'core/tsconfig.json' is out of date because output file 'core/out/tsconfig.tsbuildinfo' does not exist") {
		t.Fatalf("missing out-of-date reason:\n%s", out)
	}
	for _, f := range []string{"/w/core/out/index.js", "/w/core/out/tsconfig.tsbuildinfo", "/w/app/out/main.js", "/w/app/out/tsconfig.tsbuildinfo"} {
		if !sys.FileExists(f) {
			t.Errorf("%s was not written", f)
		}
	}
}

func TestBuildSkipsUpToDateProjects(t *testing.T) {
	sys := host.NewMemSystem("/w")
	writeSolution(t, sys, twoProjects)
	ctx := context.Background()
	if status := newTestHost(t, sys, nil, "app").Build(ctx); status != core.ExitSuccess {
		t.Fatalf("first build: %v\n%s", status, sys.Output())
	}

	sys.ResetOutput()
	h := newTestHost(t, sys, &tsoptions.Options{Verbose: core.TSTrue}, "app")
	if status := h.Build(ctx); status != core.ExitSuccess {
		t.Fatalf("second build: %v", status)
	}
	out := sys.Output()
	if strings.Contains(out, "Building project") {
		t.Fatalf("nothing should rebuild:\n%s", out)
	}
	if !strings.Contains(out, "Project 'core/tsconfig.json' is up to date because newest input 'core/tsconfig.json' is older than output 'core/out/tsconfig.tsbuildinfo'") {
		t.Fatalf("missing up-to-date line:\n%s", out)
	}

	// A newer source rebuilds its project and everything referencing it.
	sys.Clock = func() time.Time { return time.Unix(10, 0).UTC() }
	_ = sys.WriteFile("/w/core/index.ts", []byte(`export const x = 2;`))
	sys.ResetOutput()
	if status := h.Build(ctx); status != core.ExitSuccess {
		t.Fatalf("third build: %v", status)
	}
	out = sys.Output()
	if !strings.Contains(out, "Project 'core/tsconfig.json' is out of date because output 'core/out/tsconfig.tsbuildinfo' is older than input 'core/index.ts'") {
		t.Fatalf("missing newer-input line:\n%s", out)
	}
	if !strings.Contains(out, "Building project 'app/tsconfig.json'...") {
		t.Fatalf("dependent project was not rebuilt:\n%s", out)
	}
	js, _ := sys.ReadFile("/w/core/out/index.js")
	if string(js) != `export const x = 2;` {
		t.Fatalf("stale output %q", js)
	}
}

func TestBuildForceRebuildsEverything(t *testing.T) {
	sys := host.NewMemSystem("/w")
	writeSolution(t, sys, twoProjects)
	ctx := context.Background()
	newTestHost(t, sys, nil, "app").Build(ctx)

	sys.ResetOutput()
	newTestHost(t, sys, &tsoptions.Options{Force: core.TSTrue, Verbose: core.TSTrue}, "app").Build(ctx)
	if n := strings.Count(sys.Output(), "Building project"); n != 2 {
		t.Fatalf("built %d projects, want 2:\n%s", n, sys.Output())
	}
}

func TestBuildDryRunWritesNothing(t *testing.T) {
	sys := host.NewMemSystem("/w")
	writeSolution(t, sys, twoProjects)
	status := newTestHost(t, sys, &tsoptions.Options{Dry: core.TSTrue}, "app").Build(context.Background())
	if status != core.ExitSuccess {
		t.Fatalf("status = %v", status)
	}
	out := sys.Output()
	for _, want := range []string{
		"A non-dry build would build project 'core/tsconfig.json'",
		"A non-dry build would build project 'app/tsconfig.json'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
	if sys.FileExists("/w/core/out/index.js") {
		t.Fatal("dry build wrote outputs")
	}
}

func TestBuildFailures(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		projects []string
		status   core.ExitStatus
		want     string
	}{
		{
			name:     "missing config",
			projects: []string{"nope"},
			status:   core.ExitInvalidProjectOutputsSkipped,
			want:     "error TS6053: File 'nope' not found.",
		},
		{
			name: "cycle",
			files: map[string]string{
				"/w/a/tsconfig.json": `{"compilerOptions": {"composite": true}, "files": [], "references": [{"path": "../b"}]}`,
				"/w/b/tsconfig.json": `{"compilerOptions": {"composite": true}, "files": [], "references": [{"path": "../a"}]}`,
			},
			projects: []string{"a"},
			status:   core.ExitProjectReferenceCycleOutputsSkipped,
			want:     "error TS6202: Project references may not form a circular graph. Cycle detected: a/tsconfig.json -> b/tsconfig.json -> a/tsconfig.json",
		},
		{
			name: "reference without composite",
			files: map[string]string{
				"/w/core/tsconfig.json": `{"files": ["index.ts"]}`,
				"/w/core/index.ts":      `export const x = 1;`,
				"/w/app/tsconfig.json":  `{"files": ["main.ts"], "references": [{"path": "../core"}]}`,
				"/w/app/main.ts":        `const y = 2;`,
			},
			projects: []string{"app"},
			status:   core.ExitDiagnosticsPresentOutputsGenerated,
			want:     `error TS6306: Referenced project 'core/tsconfig.json' must have setting "composite": true.`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := host.NewMemSystem("/w")
			writeSolution(t, sys, tt.files)
			status := newTestHost(t, sys, nil, tt.projects...).Build(context.Background())
			if status != tt.status {
				t.Fatalf("status = %v, want %v\n%s", status, tt.status, sys.Output())
			}
			if !strings.Contains(sys.Output(), tt.want) {
				t.Fatalf("missing %q:\n%s", tt.want, sys.Output())
			}
		})
	}
}

func TestBuildSkipsDependentsOfFailedProjects(t *testing.T) {
	sys := host.NewMemSystem("/w")
	writeSolution(t, sys, twoProjects)
	_ = sys.WriteFile("/w/core/index.ts", []byte(`import { z } from "./missing";`))

	var summary []int
	h, err := NewHost(HostOptions{
		Sys:          sys,
		Sink:         diagfmt.NewSink(sys, false),
		BuildOptions: &tsoptions.Options{Verbose: core.TSTrue},
		Projects:     []string{"app"},
		ErrorSummary: func(n int) { summary = append(summary, n) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if status := h.Build(context.Background()); status != core.ExitDiagnosticsPresentOutputsGenerated {
		t.Fatalf("status = %v\n%s", status, sys.Output())
	}
	out := sys.Output()
	if !strings.Contains(out, "Skipping build of project 'app/tsconfig.json' because its dependency 'core/tsconfig.json' has errors") {
		t.Fatalf("missing skip line:\n%s", out)
	}
	if sys.FileExists("/w/app/out/main.js") {
		t.Fatal("dependent project was built")
	}
	if len(summary) != 1 || summary[0] != 1 {
		t.Fatalf("summary calls = %v", summary)
	}
}

func TestCleanDeletesOutputs(t *testing.T) {
	sys := host.NewMemSystem("/w")
	writeSolution(t, sys, twoProjects)
	ctx := context.Background()
	newTestHost(t, sys, nil, "app").Build(ctx)

	sys.ResetOutput()
	if status := newTestHost(t, sys, &tsoptions.Options{Dry: core.TSTrue}, "app").Clean(ctx); status != core.ExitSuccess {
		t.Fatalf("dry clean: %v", status)
	}
	if !strings.Contains(sys.Output(), "A non-dry build would delete the following files: \n * core/out/index.js\n * core/out/tsconfig.tsbuildinfo\n * app/out/main.js") {
		t.Fatalf("unexpected dry clean output:\n%s", sys.Output())
	}
	if !sys.FileExists("/w/core/out/index.js") {
		t.Fatal("dry clean deleted files")
	}

	if status := newTestHost(t, sys, nil, "app").Clean(ctx); status != core.ExitSuccess {
		t.Fatalf("clean: %v", status)
	}
	for _, f := range []string{"/w/core/out/index.js", "/w/core/out/tsconfig.tsbuildinfo", "/w/app/out/main.js", "/w/app/out/tsconfig.tsbuildinfo"} {
		if sys.FileExists(f) {
			t.Errorf("%s survived clean", f)
		}
	}
	if !sys.FileExists("/w/core/index.ts") {
		t.Fatal("clean deleted a source")
	}
}

func TestHostCapabilities(t *testing.T) {
	sys := host.NewMemSystem("/w")
	sys.Caps = host.Capabilities{}
	if _, err := NewHost(HostOptions{Sys: sys}); !errors.Is(err, host.ErrNotSupported) {
		t.Fatalf("NewHost error = %v", err)
	}

	sys.Caps = host.Capabilities{Capabilities: []host.Capability{host.CapabilityModifiedTime}}
	if _, err := NewWatchHost(HostOptions{Sys: sys}); !errors.Is(err, host.ErrNotSupported) {
		t.Fatalf("NewWatchHost error = %v", err)
	}
	status := newTestHost(t, sys, nil, ".").Clean(context.Background())
	if status != core.ExitDiagnosticsPresentOutputsSkipped {
		t.Fatalf("clean status = %v", status)
	}
	if !strings.Contains(sys.Output(), "error TS5001: The current host does not support the '--clean' option.") {
		t.Fatalf("unexpected output:\n%s", sys.Output())
	}
}
