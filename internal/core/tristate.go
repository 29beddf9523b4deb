package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Tristate is a boolean option that remembers whether it was set at all.
type Tristate uint8

const (
	TSUnknown Tristate = iota
	TSFalse
	TSTrue
)

// BoolToTristate converts an explicit boolean.
func BoolToTristate(b bool) Tristate {
	if b {
		return TSTrue
	}
	return TSFalse
}

// IsTrue reports whether the value was explicitly set to true.
func (t Tristate) IsTrue() bool { return t == TSTrue }

// IsFalse reports whether the value was explicitly set to false.
func (t Tristate) IsFalse() bool { return t == TSFalse }

// IsUnknown reports whether the value was never set.
func (t Tristate) IsUnknown() bool { return t == TSUnknown }

// DefaultIfUnknown resolves an unset value to def.
func (t Tristate) DefaultIfUnknown(def bool) bool {
	if t == TSUnknown {
		return def
	}
	return t == TSTrue
}

func (t Tristate) String() string {
	switch t {
	case TSTrue:
		return "true"
	case TSFalse:
		return "false"
	}
	return ""
}

// ParseTristate accepts the literal spellings true/false in any case.
func ParseTristate(s string) (Tristate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return TSTrue, nil
	case "false":
		return TSFalse, nil
	}
	return TSUnknown, fmt.Errorf("invalid boolean %q", s)
}

// MarshalJSON writes unset values as null; omitempty drops them from structs.
func (t Tristate) MarshalJSON() ([]byte, error) {
	switch t {
	case TSTrue:
		return []byte("true"), nil
	case TSFalse:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

func (t *Tristate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*t = TSUnknown
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("expected boolean, got %s", s)
	}
	*t = BoolToTristate(b)
	return nil
}
