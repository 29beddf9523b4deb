package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Tracer receives events. Implementations are safe for concurrent use.
type Tracer interface {
	Emit(ev Event)
	Level() Level
	Flush() error
	Close() error
}

type nop struct{}

func (nop) Emit(Event)   {}
func (nop) Level() Level { return LevelOff }
func (nop) Flush() error { return nil }
func (nop) Close() error { return nil }

// Nop discards everything.
var Nop Tracer = nop{}

// StorageMode says where a Recorder keeps events.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write each event out
	ModeRing                          // keep the most recent events in memory
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode maps a name to a StorageMode. The empty string is ModeStream.
func ParseMode(s string) (StorageMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeStream, nil
	}
	for i, name := range modeNames {
		if name != "" && name == s {
			return StorageMode(i), nil
		}
	}
	return ModeStream, fmt.Errorf("invalid trace mode %q, want stream|ring|both", s)
}

// Rotation bounds file outputs.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultRotation keeps three 10 MB files for a week.
var DefaultRotation = Rotation{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 7}

// Config describes a Recorder.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer // overrides OutputPath
	OutputPath string    // "" or "-" is stderr
	Rotation   Rotation
	RingSize   int
}

const defaultRingSize = 4096

// New returns Nop for LevelOff and a Recorder otherwise.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Level > LevelDebug {
		return nil, fmt.Errorf("invalid trace level %d", cfg.Level)
	}
	if cfg.Mode == 0 {
		cfg.Mode = ModeStream
	}
	if cfg.Mode > ModeBoth {
		return nil, fmt.Errorf("invalid trace mode %d", cfg.Mode)
	}
	r := &Recorder{level: cfg.Level, format: formatFor(cfg.OutputPath, cfg.Format)}
	if cfg.Mode != ModeRing {
		r.out = openOutput(cfg)
	}
	if cfg.Mode != ModeStream {
		size := cfg.RingSize
		if size <= 0 {
			size = defaultRingSize
		}
		r.ring = newRing[Event](size)
	}
	return r, nil
}

func openOutput(cfg Config) io.Writer {
	switch {
	case cfg.Output != nil:
		return cfg.Output
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr
	}
	rot := cfg.Rotation
	if rot == (Rotation{}) {
		rot = DefaultRotation
	}
	// lumberjack creates the file on first write.
	return &lumberjack.Logger{
		Filename:   cfg.OutputPath,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		Compress:   rot.Compress,
	}
}

// Recorder streams events to a writer, keeps them in a ring, or both.
type Recorder struct {
	level  Level
	format Format

	mu   sync.Mutex
	seq  uint64
	out  io.Writer
	ring *ring[Event]
}

func (r *Recorder) Level() Level { return r.level }

// Emit stamps ev with the next sequence number. Write errors are dropped so
// tracing cannot fail a compilation.
func (r *Recorder) Emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ev.Seq = r.seq
	if r.ring != nil {
		r.ring.push(ev)
	}
	if r.out != nil && (ev.Kind == KindHeartbeat || r.level.Streams(ev.Scope)) {
		_, _ = r.out.Write(Render(&ev, r.format))
	}
}

// Buffered reports whether the recorder keeps a ring.
func (r *Recorder) Buffered() bool { return r.ring != nil }

// Snapshot returns the buffered events, oldest first.
func (r *Recorder) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ring == nil {
		return nil
	}
	return r.ring.items()
}

// Dump writes the buffered events to w as text.
func (r *Recorder) Dump(w io.Writer) error {
	for _, ev := range r.Snapshot() {
		if _, err := w.Write(Render(&ev, FormatText)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch w := r.out.(type) {
	case interface{ Flush() error }:
		return w.Flush()
	case *os.File:
		if isStdStream(w) {
			return nil
		}
		return w.Sync()
	}
	return nil
}

// Close flushes and closes the output unless it is stdout or stderr.
func (r *Recorder) Close() error {
	err := r.Flush()
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.out.(*os.File); ok && isStdStream(f) {
		return err
	}
	if c, ok := r.out.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

func isStdStream(f *os.File) bool {
	return f == os.Stderr || f == os.Stdout
}
