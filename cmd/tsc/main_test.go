package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"tsc/internal/core"
	"tsc/internal/trace"
)

func newTestCommand(t *testing.T, level string, stderr *bytes.Buffer) *cobra.Command {
	t.Helper()
	for _, env := range []string{envTrace, envTraceMode, envTraceFormat, envTraceHeartbeat} {
		t.Setenv(env, "")
	}
	t.Setenv(envTraceLevel, level)
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetErr(stderr)
	return cmd
}

func TestTracedDumpsRingWhenRunPanics(t *testing.T) {
	var stderr bytes.Buffer
	cmd := newTestCommand(t, "error", &stderr)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic was swallowed")
			}
		}()
		_, _ = traced(cmd, func(ctx context.Context) core.ExitStatus {
			_, span := trace.Start(ctx, trace.ScopeMode, "build")
			span.End()
			panic("engine failure")
		})
	}()

	if !strings.Contains(stderr.String(), "> build") {
		t.Fatalf("ring not dumped, stderr = %q", stderr.String())
	}
}

func TestTracedKeepsQuietOnSuccess(t *testing.T) {
	var stderr bytes.Buffer
	cmd := newTestCommand(t, "error", &stderr)

	status, err := traced(cmd, func(ctx context.Context) core.ExitStatus {
		trace.Point(ctx, trace.ScopeMode, "mode", "compile")
		return core.ExitSuccess
	})
	if err != nil || status != core.ExitSuccess {
		t.Fatalf("traced = %v, %v", status, err)
	}
	if stderr.Len() != 0 {
		t.Fatalf("successful run dumped the ring: %q", stderr.String())
	}
}

func TestTracedRejectsBadLevel(t *testing.T) {
	cmd := newTestCommand(t, "loud", &bytes.Buffer{})
	ran := false
	status, err := traced(cmd, func(context.Context) core.ExitStatus {
		ran = true
		return core.ExitSuccess
	})
	if err == nil || ran || status != core.ExitDiagnosticsPresentOutputsSkipped {
		t.Fatalf("traced = %v, %v, ran=%v", status, err, ran)
	}
}
