package trace

import (
	"context"
	"sync/atomic"
	"time"
)

type tracerKey struct{}

type spanKey struct{}

// WithTracer returns ctx carrying t. A nil t is Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

func parentOf(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(spanKey{}).(uint64); ok {
			return id
		}
	}
	return 0
}

var lastSpan atomic.Uint64

// Span is an open begin/end pair. The zero of *Span (nil) is a valid no-op
// span.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Start opens a span below the one carried by ctx. When the tracer does not
// record scope, the returned span is nil and ctx is returned unchanged.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	t := FromContext(ctx)
	if !t.Level().Records(scope) {
		return ctx, nil
	}
	s := &Span{
		tracer:  t,
		id:      lastSpan.Add(1),
		parent:  parentOf(ctx),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(Event{Time: s.started, Kind: KindBegin, Scope: scope, Span: s.id, Parent: s.parent, Name: name})
	return context.WithValue(ctx, spanKey{}, s.id), s
}

// Point records an instant event below the span carried by ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Level().Records(scope) {
		return
	}
	t.Emit(Event{Kind: KindPoint, Scope: scope, Parent: parentOf(ctx), Name: name, Detail: detail})
}

// Set annotates the end event of s.
func (s *Span) Set(key, value string) {
	if s != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
}

// End closes s and returns its duration.
func (s *Span) End() time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	d := now.Sub(s.started)
	s.tracer.Emit(Event{
		Time:     now,
		Kind:     KindEnd,
		Scope:    s.scope,
		Span:     s.id,
		Parent:   s.parent,
		Name:     s.name,
		Duration: d,
		Attrs:    s.attrs,
	})
	return d
}

// ID is zero for a nil span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
