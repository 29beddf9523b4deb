// Package host abstracts the process environment the driver runs in: output
// stream, file system, terminal and memory probes, and optional capabilities
// that some hosts lack (modification times, deletion, file watching).
package host

import (
	"errors"
	"io"
	"slices"
	"time"
)

// ErrNotSupported is returned when a host lacks a requested capability.
var ErrNotSupported = errors.New("host: operation not supported")

// System is the minimum every host provides.
type System interface {
	Writer() io.Writer
	NewLine() string
	GetCurrentDirectory() string
	FileExists(path string) bool
	DirectoryExists(path string) bool
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	// ReadDirectory lists the file and directory names directly under dir.
	ReadDirectory(dir string) (files []string, dirs []string)
	// IsTerminal reports whether Writer is an interactive terminal. Hosts
	// probe once and cache the answer.
	IsTerminal() bool
	// GetMemoryUsage returns heap bytes in use, or -1 when unknown.
	GetMemoryUsage() int64
	Now() time.Time
}

// ModifiedTimeHost reads and writes file modification times.
type ModifiedTimeHost interface {
	GetModifiedTime(path string) (time.Time, bool)
	SetModifiedTime(path string, t time.Time) error
}

// FileDeleter removes files.
type FileDeleter interface {
	DeleteFile(path string) error
}

// FileWatcher notifies about changes to individual files.
type FileWatcher interface {
	WatchFile(path string, onChange func(path string)) io.Closer
}

// Capability names an optional host feature.
type Capability string

const (
	CapabilityModifiedTime Capability = "ModifiedTime"
	CapabilityDeleteFile   Capability = "DeleteFile"
	CapabilityWatchFile    Capability = "WatchFile"
)

// Capabilities lists the optional features a host chooses to expose.
type Capabilities struct {
	Capabilities []Capability `json:"capabilities"`
}

// CapabilityFilter lets a host narrow the optional interfaces it implements.
type CapabilityFilter interface {
	Capabilities() Capabilities
}

func allowed(sys System, c Capability) bool {
	f, ok := sys.(CapabilityFilter)
	if !ok {
		return true
	}
	return slices.Contains(f.Capabilities().Capabilities, c)
}

// ModifiedTimes returns the modification-time capability when present.
func ModifiedTimes(sys System) (ModifiedTimeHost, bool) {
	m, ok := sys.(ModifiedTimeHost)
	if !ok || !allowed(sys, CapabilityModifiedTime) {
		return nil, false
	}
	return m, true
}

// Deleter returns the file deletion capability when present.
func Deleter(sys System) (FileDeleter, bool) {
	d, ok := sys.(FileDeleter)
	if !ok || !allowed(sys, CapabilityDeleteFile) {
		return nil, false
	}
	return d, true
}

// Watcher returns the file watching capability when present.
func Watcher(sys System) (FileWatcher, bool) {
	w, ok := sys.(FileWatcher)
	if !ok || !allowed(sys, CapabilityWatchFile) {
		return nil, false
	}
	return w, true
}

// Supports reports whether sys exposes capability c.
func Supports(sys System, c Capability) bool {
	switch c {
	case CapabilityModifiedTime:
		_, ok := ModifiedTimes(sys)
		return ok
	case CapabilityDeleteFile:
		_, ok := Deleter(sys)
		return ok
	case CapabilityWatchFile:
		_, ok := Watcher(sys)
		return ok
	}
	return false
}
