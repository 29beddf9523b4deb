package host

import (
	"io"
	"sync"
	"time"
)

// DefaultPollInterval is how often watched files are stat'ed.
const DefaultPollInterval = 250 * time.Millisecond

type watchEntry struct {
	id       uint64
	path     string
	onChange func(string)
	mtime    time.Time
	exists   bool
}

// poller checks modification times of registered files on a ticker. It runs
// while at least one watch is registered.
type poller struct {
	interval time.Duration
	stat     func(string) (time.Time, bool)

	mu      sync.Mutex
	nextID  uint64
	entries map[uint64]*watchEntry
	stop    chan struct{}
}

func newPoller(interval time.Duration, stat func(string) (time.Time, bool)) *poller {
	return &poller{
		interval: interval,
		stat:     stat,
		entries:  make(map[uint64]*watchEntry),
	}
}

func (p *poller) add(path string, onChange func(string)) io.Closer {
	mtime, exists := p.stat(path)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	e := &watchEntry{id: p.nextID, path: path, onChange: onChange, mtime: mtime, exists: exists}
	p.entries[e.id] = e
	if p.stop == nil {
		p.stop = make(chan struct{})
		go p.loop(p.stop)
	}
	return closerFunc(func() error {
		p.remove(e.id)
		return nil
	})
}

func (p *poller) remove(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, id)
	if len(p.entries) == 0 && p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

func (p *poller) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *poller) poll() {
	p.mu.Lock()
	snapshot := make([]*watchEntry, 0, len(p.entries))
	for _, e := range p.entries {
		snapshot = append(snapshot, e)
	}
	p.mu.Unlock()

	var changed []*watchEntry
	for _, e := range snapshot {
		mtime, exists := p.stat(e.path)
		p.mu.Lock()
		if exists != e.exists || !mtime.Equal(e.mtime) {
			e.mtime, e.exists = mtime, exists
			changed = append(changed, e)
		}
		p.mu.Unlock()
	}
	for _, e := range changed {
		e.onChange(e.path)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
