package diag

// Category defines the importance of a diagnostic.
type Category uint8

const (
	// CategoryWarning is for warning diagnostics.
	CategoryWarning Category = iota
	// CategoryError is for error diagnostics.
	CategoryError
	CategorySuggestion
	CategoryMessage
)

// Name is the lower-case label used in rendered output.
func (c Category) Name() string {
	switch c {
	case CategoryWarning:
		return "warning"
	case CategoryError:
		return "error"
	case CategorySuggestion:
		return "suggestion"
	case CategoryMessage:
		return "message"
	}
	return "unknown"
}

func (c Category) String() string {
	return c.Name()
}
