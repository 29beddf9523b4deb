package host

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"fortio.org/safecast"
	"golang.org/x/term"
)

// OSSystem is the real process host writing to stdout.
type OSSystem struct {
	out      *os.File
	terminal bool
	cwd      string

	pollOnce sync.Once
	poller   *poller
}

// NewOSSystem probes the terminal once and captures the working directory.
func NewOSSystem() *OSSystem {
	return newOSSystem(os.Stdout)
}

func newOSSystem(out *os.File) *OSSystem {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &OSSystem{
		out:      out,
		terminal: term.IsTerminal(int(out.Fd())),
		cwd:      cwd,
	}
}

func (s *OSSystem) Writer() io.Writer           { return s.out }
func (s *OSSystem) NewLine() string             { return "\n" }
func (s *OSSystem) GetCurrentDirectory() string { return s.cwd }
func (s *OSSystem) IsTerminal() bool            { return s.terminal }
func (s *OSSystem) Now() time.Time              { return time.Now() }

func (s *OSSystem) FileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func (s *OSSystem) DirectoryExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func (s *OSSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile creates missing parent directories and replaces the file
// through a temp file rename.
func (s *OSSystem) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tsc-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *OSSystem) ReadDirectory(dir string) (files, dirs []string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		} else if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	return files, dirs
}

func (s *OSSystem) GetMemoryUsage() int64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	n, err := safecast.Conv[int64](ms.HeapAlloc)
	if err != nil {
		return -1
	}
	return n
}

func (s *OSSystem) GetModifiedTime(path string) (time.Time, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return fi.ModTime(), true
}

func (s *OSSystem) SetModifiedTime(path string, t time.Time) error {
	return os.Chtimes(path, t, t)
}

func (s *OSSystem) DeleteFile(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *OSSystem) WatchFile(path string, onChange func(path string)) io.Closer {
	s.pollOnce.Do(func() {
		s.poller = newPoller(DefaultPollInterval, func(p string) (time.Time, bool) {
			return s.GetModifiedTime(p)
		})
	})
	return s.poller.add(path, onChange)
}
