package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tsc/internal/core"
	"tsc/internal/trace"
)

// Every command-line argument belongs to the compiler, so tracing is
// configured from the environment.
const (
	envTrace          = "TSC_TRACE"
	envTraceLevel     = "TSC_TRACE_LEVEL"
	envTraceMode      = "TSC_TRACE_MODE"
	envTraceFormat    = "TSC_TRACE_FORMAT"
	envTraceHeartbeat = "TSC_TRACE_HEARTBEAT"
)

// setupTracing attaches a tracer to the command context. The returned
// function closes it; when the run failed, buffered events go to stderr.
func setupTracing(cmd *cobra.Command) (func(core.ExitStatus), error) {
	output := os.Getenv(envTrace)
	levelName := os.Getenv(envTraceLevel)
	if levelName == "" && output != "" {
		levelName = "phase"
	}
	level, err := trace.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", envTraceLevel, err)
	}
	if level == trace.LevelOff {
		return func(core.ExitStatus) {}, nil
	}

	mode, err := trace.ParseMode(os.Getenv(envTraceMode))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", envTraceMode, err)
	}
	if level == trace.LevelError && os.Getenv(envTraceMode) == "" {
		mode = trace.ModeRing
	}
	var every time.Duration
	if s := os.Getenv(envTraceHeartbeat); s != "" {
		if every, err = time.ParseDuration(s); err != nil {
			return nil, fmt.Errorf("%s: %w", envTraceHeartbeat, err)
		}
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     trace.ParseFormat(os.Getenv(envTraceFormat)),
		OutputPath: output,
	})
	if err != nil {
		return nil, fmt.Errorf("create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	heartbeat := trace.StartHeartbeat(cmd.Context(), tracer, every)

	return func(status core.ExitStatus) {
		heartbeat.Stop()
		stderr := cmd.ErrOrStderr()
		if rec, ok := tracer.(*trace.Recorder); ok && rec.Buffered() && status != core.ExitSuccess {
			_ = rec.Dump(stderr)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: %v\n", err)
		}
	}, nil
}

// traced runs fn under the tracer configured for cmd. The tracer is closed
// even when fn panics, and a panicking run counts as failed.
func traced(cmd *cobra.Command, fn func(ctx context.Context) core.ExitStatus) (status core.ExitStatus, err error) {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return core.ExitDiagnosticsPresentOutputsSkipped, err
	}
	status = core.ExitDiagnosticsPresentOutputsSkipped
	defer func() { cleanup(status) }()
	status = fn(cmd.Context())
	return status, nil
}
