package execute

import (
	"context"

	"tsc/internal/compiler"
	"tsc/internal/core"
	"tsc/internal/watch"
)

// Engine performs the terminal actions the resolver selects. The resolver
// forwards the returned status unchanged.
type Engine interface {
	Compile(ctx context.Context, inv compiler.Invocation) core.ExitStatus
	CompileIncremental(ctx context.Context, inv compiler.Invocation) core.ExitStatus
	// Watch returns only when ctx ends.
	Watch(ctx context.Context, cfg watch.Config) core.ExitStatus
}

type engine struct{}

// DefaultEngine compiles with the compiler package and watches with a
// watch.Session.
func DefaultEngine() Engine { return engine{} }

func (engine) Compile(ctx context.Context, inv compiler.Invocation) core.ExitStatus {
	return compiler.Compile(ctx, inv)
}

func (engine) CompileIncremental(ctx context.Context, inv compiler.Invocation) core.ExitStatus {
	return compiler.CompileIncremental(ctx, inv)
}

func (engine) Watch(ctx context.Context, cfg watch.Config) core.ExitStatus {
	return watch.NewSession(cfg).Run(ctx)
}
