// Package trace records what the tsc driver does: the resolved command,
// each build project and, at debug level, individual files.
//
// # Usage
//
// Tracing is configured from the environment:
//
//	TSC_TRACE=trace.ndjson TSC_TRACE_LEVEL=detail tsc -b
//
// TSC_TRACE names the output ("-" for stderr); file outputs are rotated.
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only crash dumps from the ring buffer
//   - LevelPhase: Driver and mode boundaries
//   - LevelDetail: Per-project events
//   - LevelDebug: Everything including per-file events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeMode, "compile")
//	defer span.End()
package trace
