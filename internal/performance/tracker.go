// Package performance records named marks and measures for the compiler's
// diagnostics statistics. A disabled or nil Tracker records nothing.
package performance

import (
	"time"
)

// Measure is an accumulated duration between two marks.
type Measure struct {
	Name string
	Dur  time.Duration
}

// Tracker accumulates measures in first-recorded order.
type Tracker struct {
	enabled  bool
	now      func() time.Time
	marks    map[string]time.Time
	measures []Measure
	index    map[string]int
}

// NewTracker creates a disabled tracker using the wall clock.
func NewTracker() *Tracker {
	return NewTrackerWithClock(time.Now)
}

// NewTrackerWithClock creates a disabled tracker with a custom clock, for tests.
func NewTrackerWithClock(now func() time.Time) *Tracker {
	return &Tracker{now: now}
}

// Enable starts capture. Enabling an enabled tracker keeps what was recorded.
func (t *Tracker) Enable() {
	if t == nil || t.enabled {
		return
	}
	t.enabled = true
	t.marks = make(map[string]time.Time)
	t.measures = make([]Measure, 0, 8)
	t.index = make(map[string]int)
}

// Disable stops capture and drops everything recorded.
func (t *Tracker) Disable() {
	if t == nil || !t.enabled {
		return
	}
	t.enabled = false
	t.marks = nil
	t.measures = nil
	t.index = nil
}

// Enabled reports whether capture is on.
func (t *Tracker) Enabled() bool {
	return t != nil && t.enabled
}

// Mark records the current time under name.
func (t *Tracker) Mark(name string) {
	if !t.Enabled() {
		return
	}
	t.marks[name] = t.now()
}

// Measure adds the time between the start and end marks to the named measure.
// A missing end mark means "now"; a missing start mark is a no-op.
func (t *Tracker) Measure(name, startMark, endMark string) {
	if !t.Enabled() {
		return
	}
	start, ok := t.marks[startMark]
	if !ok {
		return
	}
	end, ok := t.marks[endMark]
	if !ok {
		end = t.now()
	}
	t.add(name, end.Sub(start))
}

// Time runs fn and accumulates its duration under name.
func (t *Tracker) Time(name string, fn func()) {
	if !t.Enabled() {
		fn()
		return
	}
	start := t.now()
	fn()
	t.add(name, t.now().Sub(start))
}

func (t *Tracker) add(name string, d time.Duration) {
	if i, ok := t.index[name]; ok {
		t.measures[i].Dur += d
		return
	}
	t.index[name] = len(t.measures)
	t.measures = append(t.measures, Measure{Name: name, Dur: d})
}

// Duration returns the accumulated duration of a measure, zero when absent.
func (t *Tracker) Duration(name string) time.Duration {
	if !t.Enabled() {
		return 0
	}
	if i, ok := t.index[name]; ok {
		return t.measures[i].Dur
	}
	return 0
}

// ForEachMeasure visits measures in first-recorded order.
func (t *Tracker) ForEachMeasure(fn func(name string, d time.Duration)) {
	if !t.Enabled() {
		return
	}
	for _, m := range t.measures {
		fn(m.Name, m.Dur)
	}
}
