package trace

import "time"

// Kind tells what an Event marks.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindBegin:     "begin",
	KindEnd:       "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Coarser scopes have lower values.
type Scope uint8

const (
	ScopeDriver  Scope = iota + 1 // the whole command line
	ScopeMode                     // compile, build, watch...
	ScopeProject                  // one project of a build
	ScopeFile                     // one source or output file
)

var scopeNames = [...]string{
	ScopeDriver:  "driver",
	ScopeMode:    "mode",
	ScopeProject: "project",
	ScopeFile:    "file",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is one key/value annotation of an event. Attrs keep insertion order.
type Attr struct {
	Key   string
	Value string
}

// Event is one record of a trace.
type Event struct {
	Seq      uint64 // stamped by the recorder
	Time     time.Time
	Kind     Kind
	Scope    Scope
	Span     uint64 // zero for points and heartbeats
	Parent   uint64
	Name     string
	Detail   string
	Duration time.Duration // set on KindEnd
	Attrs    []Attr
}
