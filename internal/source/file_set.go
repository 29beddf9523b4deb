package source

import (
	"crypto/sha256"
	"path/filepath"
	"sync"
)

// FileSet owns the files of one program. Adding a path twice keeps both
// versions under different IDs.
type FileSet struct {
	mu    sync.RWMutex
	files []*File
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// Add decodes text and registers it under path.
func (s *FileSet) Add(path string, text []byte, flags FileFlags) FileID {
	content, adjusted := decode(text)
	f := &File{
		Path:       filepath.ToSlash(filepath.Clean(path)),
		Content:    content,
		LineStarts: lineStarts(content),
		Hash:       sha256.Sum256(content),
		Flags:      flags | adjusted,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = FileID(offset(len(s.files)))
	s.files = append(s.files, f)
	return f.ID
}

// AddVirtual registers text that did not come from a host.
func (s *FileSet) AddVirtual(name string, text []byte) FileID {
	return s.Add(name, text, FileVirtual)
}

func (s *FileSet) Get(id FileID) *File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[id]
}

// Files returns every file in ID order.
func (s *FileSet) Files() []*File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*File(nil), s.files...)
}
