package trace

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Format selects how events are rendered.
type Format uint8

const (
	FormatAuto   Format = iota // decided by the output path
	FormatText                 // one indented line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat maps a name to a Format. Unknown names yield FormatAuto.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return FormatText
	case "ndjson", "json", "jsonl":
		return FormatNDJSON
	}
	return FormatAuto
}

func formatFor(path string, f Format) Format {
	if f != FormatAuto {
		return f
	}
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

// Render returns ev in format f, newline terminated.
func Render(ev *Event, f Format) []byte {
	if f == FormatNDJSON {
		return renderJSON(ev)
	}
	return renderText(ev)
}

type wireEvent struct {
	Seq      uint64            `json:"seq"`
	Time     string            `json:"ts"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	Span     uint64            `json:"span,omitempty"`
	Parent   uint64            `json:"parent,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Duration float64           `json:"dur_ms,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

func renderJSON(ev *Event) []byte {
	w := wireEvent{
		Seq:      ev.Seq,
		Time:     ev.Time.UTC().Format("2006-01-02T15:04:05.000000Z"),
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		Span:     ev.Span,
		Parent:   ev.Parent,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Duration: float64(ev.Duration.Microseconds()) / 1000,
	}
	if len(ev.Attrs) > 0 {
		w.Attrs = make(map[string]string, len(ev.Attrs))
		for _, a := range ev.Attrs {
			w.Attrs[a.Key] = a.Value
		}
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

var textMarks = [...]string{KindBegin: ">", KindEnd: "<", KindPoint: "*", KindHeartbeat: "~"}

// renderText writes "15:04:05.000 mode    > build 1.2ms (detail) key=value".
// Nested scopes are indented by two spaces each.
func renderText(ev *Event) []byte {
	var b strings.Builder
	b.WriteString(ev.Time.Format("15:04:05.000"))
	b.WriteByte(' ')
	scope := ev.Scope.String()
	b.WriteString(scope)
	b.WriteString(strings.Repeat(" ", max(8-len(scope), 1)))
	if ev.Scope > ScopeDriver {
		b.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeDriver)))
	}
	if int(ev.Kind) < len(textMarks) {
		b.WriteString(textMarks[ev.Kind])
	}
	b.WriteByte(' ')
	b.WriteString(ev.Name)
	if ev.Kind == KindEnd {
		b.WriteByte(' ')
		b.WriteString(ev.Duration.String())
	}
	if ev.Detail != "" {
		b.WriteString(" (" + ev.Detail + ")")
	}
	for _, a := range ev.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		if strings.ContainsAny(a.Value, " \t\"") {
			b.WriteString(strconv.Quote(a.Value))
		} else {
			b.WriteString(a.Value)
		}
	}
	b.WriteByte('\n')
	return []byte(b.String())
}
