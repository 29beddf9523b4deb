package source

import "sync"

// StringID names an interned identifier. The zero ID is the empty string.
type StringID uint32

// Interner maps identifier text to small IDs shared by every file of a
// program, so symbol tables compare integers instead of strings.
type Interner struct {
	mu   sync.RWMutex
	text []string
	ids  map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{text: []string{""}, ids: map[string]StringID{"": 0}}
}

// Intern returns the ID of s, allocating one the first time s is seen.
func (in *Interner) Intern(s string) StringID {
	in.mu.RLock()
	id, seen := in.ids[s]
	in.mu.RUnlock()
	if seen {
		return id
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, seen = in.ids[s]; !seen {
		// s may alias a file buffer.
		s = string([]byte(s))
		id = StringID(offset(len(in.text)))
		in.text = append(in.text, s)
		in.ids[s] = id
	}
	return id
}

// Lookup returns the text of id.
func (in *Interner) Lookup(id StringID) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.text) {
		return "", false
	}
	return in.text[id], true
}

// Len counts distinct strings including the empty one.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.text)
}
