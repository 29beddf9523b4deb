package host

import (
	"bytes"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type memFile struct {
	data  []byte
	mtime time.Time
}

type memWatch struct {
	id       uint64
	path     string
	onChange func(string)
}

// MemSystem is an in-memory host. Its optional capabilities are limited to
// those listed in Caps.
type MemSystem struct {
	mu      sync.Mutex
	out     bytes.Buffer
	cwd     string
	files   map[string]*memFile
	dirs    map[string]struct{}
	watches map[uint64]memWatch
	nextID  uint64

	Caps     Capabilities
	Terminal bool
	// Memory is reported by GetMemoryUsage; -1 means unknown.
	Memory int64
	Clock  func() time.Time
}

// AllCapabilities lists every optional capability.
var AllCapabilities = []Capability{CapabilityModifiedTime, CapabilityDeleteFile, CapabilityWatchFile}

// NewMemSystem creates a host rooted at cwd exposing every capability.
func NewMemSystem(cwd string) *MemSystem {
	s := &MemSystem{
		cwd:     filepath.Clean(cwd),
		files:   make(map[string]*memFile),
		dirs:    make(map[string]struct{}),
		watches: make(map[uint64]memWatch),
		Caps:    Capabilities{Capabilities: append([]Capability(nil), AllCapabilities...)},
		Memory:  -1,
	}
	s.Clock = func() time.Time { return time.Unix(0, 0).UTC() }
	s.mkdirAll(s.cwd)
	return s
}

// Output returns everything written to the host writer so far.
func (s *MemSystem) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.String()
}

// ResetOutput clears the captured output.
func (s *MemSystem) ResetOutput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.Reset()
}

func (s *MemSystem) Capabilities() Capabilities { return s.Caps }

func (s *MemSystem) Writer() io.Writer           { return memWriter{s} }
func (s *MemSystem) NewLine() string             { return "\n" }
func (s *MemSystem) GetCurrentDirectory() string { return s.cwd }
func (s *MemSystem) IsTerminal() bool            { return s.Terminal }
func (s *MemSystem) GetMemoryUsage() int64       { return s.Memory }
func (s *MemSystem) Now() time.Time              { return s.Clock() }

type memWriter struct{ s *MemSystem }

func (w memWriter) Write(p []byte) (int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return w.s.out.Write(p)
}

func (s *MemSystem) abs(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cwd, path)
	}
	return filepath.Clean(path)
}

func (s *MemSystem) mkdirAll(dir string) {
	for {
		s.dirs[dir] = struct{}{}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func (s *MemSystem) FileExists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[s.abs(path)]
	return ok
}

func (s *MemSystem) DirectoryExists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dirs[s.abs(path)]
	return ok
}

func (s *MemSystem) ReadFile(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[s.abs(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), f.data...), nil
}

// WriteFile stores data and notifies watchers of path.
func (s *MemSystem) WriteFile(path string, data []byte) error {
	p := s.abs(path)
	s.mu.Lock()
	s.mkdirAll(filepath.Dir(p))
	s.files[p] = &memFile{data: append([]byte(nil), data...), mtime: s.Clock()}
	watchers := s.watchersOf(p)
	s.mu.Unlock()
	for _, fn := range watchers {
		fn(p)
	}
	return nil
}

func (s *MemSystem) watchersOf(p string) []func(string) {
	var out []func(string)
	ids := make([]uint64, 0, len(s.watches))
	for id := range s.watches {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if w := s.watches[id]; w.path == p {
			out = append(out, w.onChange)
		}
	}
	return out
}

func (s *MemSystem) ReadDirectory(dir string) (files, dirs []string) {
	d := s.abs(dir)
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := d + string(filepath.Separator)
	if strings.HasSuffix(d, string(filepath.Separator)) {
		prefix = d
	}
	for p := range s.files {
		if rest, ok := strings.CutPrefix(p, prefix); ok && !strings.ContainsRune(rest, filepath.Separator) {
			files = append(files, rest)
		}
	}
	for p := range s.dirs {
		if rest, ok := strings.CutPrefix(p, prefix); ok && rest != "" && !strings.ContainsRune(rest, filepath.Separator) {
			dirs = append(dirs, rest)
		}
	}
	sort.Strings(files)
	sort.Strings(dirs)
	return files, dirs
}

func (s *MemSystem) GetModifiedTime(path string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[s.abs(path)]
	if !ok {
		return time.Time{}, false
	}
	return f.mtime, true
}

func (s *MemSystem) SetModifiedTime(path string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[s.abs(path)]
	if !ok {
		return &fs.PathError{Op: "chtimes", Path: path, Err: fs.ErrNotExist}
	}
	f.mtime = t
	return nil
}

func (s *MemSystem) DeleteFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, s.abs(path))
	return nil
}

func (s *MemSystem) WatchFile(path string, onChange func(path string)) io.Closer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.watches[id] = memWatch{id: id, path: s.abs(path), onChange: onChange}
	return closerFunc(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watches, id)
		return nil
	})
}

// WatchCount returns the number of active file watches.
func (s *MemSystem) WatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watches)
}
