package trace

import (
	"fmt"
	"strings"
)

// Level controls how much of a run is traced.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // record everything in the ring, dump it on failure
	LevelPhase        // driver and mode boundaries
	LevelDetail       // plus projects
	LevelDebug        // plus files
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case. The empty string is off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q, want one of %s", s, strings.Join(levelNames[:], "|"))
}

// deepest is the finest scope a level writes to a stream.
func (l Level) deepest() Scope {
	switch l {
	case LevelPhase:
		return ScopeMode
	case LevelDetail:
		return ScopeProject
	case LevelDebug:
		return ScopeFile
	}
	return 0
}

// Streams reports whether events of scope are written out as they happen.
func (l Level) Streams(scope Scope) bool {
	return scope <= l.deepest()
}

// Records reports whether events of scope are produced at all. LevelError
// produces every event so the ring holds the full history.
func (l Level) Records(scope Scope) bool {
	return l == LevelError || l.Streams(scope)
}
