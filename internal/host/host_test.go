package host

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemSystemFiles(t *testing.T) {
	sys := NewMemSystem("/proj")
	if err := sys.WriteFile("src/a.ts", []byte("let a;")); err != nil {
		t.Fatal(err)
	}
	if !sys.FileExists("/proj/src/a.ts") || !sys.DirectoryExists("src") {
		t.Fatal("written file or its parent is missing")
	}
	data, err := sys.ReadFile("/proj/src/a.ts")
	if err != nil || string(data) != "let a;" {
		t.Fatalf("ReadFile = %q, %v", data, err)
	}
	if _, err := sys.ReadFile("missing.ts"); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	files, dirs := sys.ReadDirectory("/proj")
	if len(files) != 0 || len(dirs) != 1 || dirs[0] != "src" {
		t.Fatalf("ReadDirectory = %v %v", files, dirs)
	}
}

func TestMemSystemCapabilities(t *testing.T) {
	sys := NewMemSystem("/")
	for _, c := range AllCapabilities {
		if !Supports(sys, c) {
			t.Fatalf("default MemSystem lacks %s", c)
		}
	}
	sys.Caps = Capabilities{Capabilities: []Capability{CapabilityDeleteFile}}
	if Supports(sys, CapabilityModifiedTime) || Supports(sys, CapabilityWatchFile) {
		t.Fatal("capabilities were not narrowed")
	}
	if _, ok := Deleter(sys); !ok {
		t.Fatal("DeleteFile should remain available")
	}
	if Supports(sys, Capability("Bogus")) {
		t.Fatal("unknown capability reported as supported")
	}
}

func TestMemSystemWatch(t *testing.T) {
	sys := NewMemSystem("/")
	var hits atomic.Int32
	c := sys.WatchFile("/a.ts", func(string) { hits.Add(1) })
	_ = sys.WriteFile("/a.ts", nil)
	_ = sys.WriteFile("/b.ts", nil)
	if hits.Load() != 1 {
		t.Fatalf("hits = %d", hits.Load())
	}
	_ = c.Close()
	_ = sys.WriteFile("/a.ts", nil)
	if hits.Load() != 1 || sys.WatchCount() != 0 {
		t.Fatal("closed watch still fires")
	}
}

func TestOSSystemWriteAndTimes(t *testing.T) {
	dir := t.TempDir()
	sys := NewOSSystem()
	p := filepath.Join(dir, "out", "a.js")
	if err := sys.WriteFile(p, []byte("x")); err != nil {
		t.Fatal(err)
	}
	if !sys.FileExists(p) || sys.FileExists(dir) || !sys.DirectoryExists(dir) {
		t.Fatal("exists checks disagree with the file system")
	}
	when := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := sys.SetModifiedTime(p, when); err != nil {
		t.Fatal(err)
	}
	if got, ok := sys.GetModifiedTime(p); !ok || !got.Equal(when) {
		t.Fatalf("mtime = %v %v", got, ok)
	}
	if err := sys.DeleteFile(p); err != nil || sys.FileExists(p) {
		t.Fatalf("DeleteFile: %v", err)
	}
	if err := sys.DeleteFile(p); err != nil {
		t.Fatalf("deleting a missing file: %v", err)
	}
}

func TestPollerDetectsChange(t *testing.T) {
	var mtime atomic.Int64
	p := newPoller(5*time.Millisecond, func(string) (time.Time, bool) {
		return time.Unix(mtime.Load(), 0), true
	})
	changed := make(chan string, 1)
	c := p.add("a.ts", func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	defer c.Close()
	mtime.Store(10)
	select {
	case got := <-changed:
		if got != "a.ts" {
			t.Fatalf("changed %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not report the change")
	}
}
