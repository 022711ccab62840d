package process

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/1broseidon/wmctrl/internal/platform"
)

func TestSnapshotByNamePreservesOrder(t *testing.T) {
	snap := Snapshot{
		{PID: 30, Name: "app"},
		{PID: 10, Name: "other"},
		{PID: 20, Name: "app"},
		{PID: 40, Name: "App"},
	}

	got := snap.ByName("app")
	if len(got) != 2 {
		t.Fatalf("ByName(app) len = %d, want 2", len(got))
	}
	if got[0].PID != 30 || got[1].PID != 20 {
		t.Fatalf("ByName(app) pids = [%d %d], want [30 20]", got[0].PID, got[1].PID)
	}
	if got := snap.ByName("APP"); len(got) != 0 {
		t.Fatalf("ByName is case-sensitive; got %d matches for APP", len(got))
	}
	if got := snap.ByName("missing"); got != nil {
		t.Fatalf("ByName(missing) = %v, want nil", got)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		goos string
		in   string
		want string
	}{
		{"windows", "notepad.exe", "notepad"},
		{"windows", "Code.EXE", "Code"},
		{"windows", "my.app.exe", "my.app"},
		{"windows", "System", "System"},
		{"windows", ".hidden", ".hidden"},
		{"linux", "python3.11", "python3.11"},
		{"linux", "firefox", "firefox"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.goos, tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q, %q) = %q, want %q", tt.goos, tt.in, got, tt.want)
		}
	}
}

func TestStaticSnapshotFiltersByName(t *testing.T) {
	lookup := Static{
		{PID: 1, Name: "a"},
		{PID: 2, Name: "b"},
		{PID: 3, Name: "a"},
	}

	all, err := lookup.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Snapshot() len = %d, want 3", len(all))
	}

	only, err := lookup.Snapshot(context.Background(), "a")
	if err != nil {
		t.Fatalf("Snapshot(a) error: %v", err)
	}
	if len(only) != 2 || only[0].PID != 1 || only[1].PID != 3 {
		t.Fatalf("Snapshot(a) = %+v, want pids 1 and 3", only)
	}
}

func TestStaticSnapshotHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Static{{PID: 1, Name: "a"}}).Snapshot(ctx); err == nil {
		t.Fatal("Snapshot() with cancelled context returned nil error")
	}
}

// countingSource records how a SystemLookup queries it.
type countingSource struct {
	self      int
	indexed   bool
	indexErr  error
	perThread int
	perWindow int
	threadIdx int
	windowIdx int
}

func (s *countingSource) ProcessThreads(pid int) ([]int, error) {
	s.perThread++
	return []int{pid}, nil
}

func (s *countingSource) MainWindow(pid int) platform.Handle {
	s.perWindow++
	if pid == s.self {
		return 0xbeef
	}
	return platform.NoWindow
}

type indexedSource struct{ *countingSource }

func (s indexedSource) ThreadIndex() (map[int][]int, error) {
	s.threadIdx++
	if s.indexErr != nil {
		return nil, s.indexErr
	}
	return map[int][]int{s.self: {s.self, s.self + 1}}, nil
}

func (s indexedSource) MainWindowIndex() (map[int]platform.Handle, error) {
	s.windowIdx++
	if s.indexErr != nil {
		return nil, s.indexErr
	}
	return map[int]platform.Handle{s.self: 0xbeef}, nil
}

func findPID(snap Snapshot, pid int) (Record, bool) {
	for _, rec := range snap {
		if rec.PID == pid {
			return rec, true
		}
	}
	return Record{}, false
}

func TestSystemLookup_UsesIndexesOncePerSnapshot(t *testing.T) {
	src := &countingSource{self: os.Getpid()}
	lookup := NewSystemLookup(indexedSource{src}, nil)

	snap, err := lookup.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(snap) < 2 {
		t.Fatalf("Snapshot() len = %d, want the live process table", len(snap))
	}
	if src.threadIdx != 1 || src.windowIdx != 1 {
		t.Fatalf("index calls = threads %d, windows %d; want 1 each", src.threadIdx, src.windowIdx)
	}
	if src.perThread != 0 || src.perWindow != 0 {
		t.Fatalf("per-process calls = threads %d, windows %d; want none", src.perThread, src.perWindow)
	}

	self, ok := findPID(snap, src.self)
	if !ok {
		t.Fatalf("own process %d missing from snapshot", src.self)
	}
	if self.MainWindow != 0xbeef || len(self.ThreadIDs) != 2 {
		t.Fatalf("own record = %+v, want indexed window and threads", self)
	}
	for _, rec := range snap {
		if rec.PID != src.self && rec.MainWindow != platform.NoWindow {
			t.Fatalf("process %d got main window %#x from the index", rec.PID, rec.MainWindow)
		}
	}
}

func TestSystemLookup_SkipsIndexesWithoutMatches(t *testing.T) {
	src := &countingSource{self: os.Getpid()}
	lookup := NewSystemLookup(indexedSource{src}, nil)

	snap, err := lookup.Snapshot(context.Background(), "no-such-process-name")
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(snap) != 0 {
		t.Fatalf("Snapshot() = %+v, want empty", snap)
	}
	if src.threadIdx != 0 || src.windowIdx != 0 {
		t.Fatalf("indexes built for an empty match: threads %d, windows %d", src.threadIdx, src.windowIdx)
	}
}

func TestSystemLookup_FallsBackWhenIndexFails(t *testing.T) {
	src := &countingSource{self: os.Getpid(), indexErr: errors.New("snapshot denied")}
	lookup := NewSystemLookup(indexedSource{src}, nil)

	snap, err := lookup.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if src.threadIdx != 1 || src.windowIdx != 1 {
		t.Fatalf("index calls = threads %d, windows %d; want 1 each", src.threadIdx, src.windowIdx)
	}
	if src.perThread != len(snap) || src.perWindow != len(snap) {
		t.Fatalf("per-process calls = threads %d, windows %d; want %d each", src.perThread, src.perWindow, len(snap))
	}
	self, ok := findPID(snap, src.self)
	if !ok || self.MainWindow != 0xbeef {
		t.Fatalf("own record = %+v (found %v), want per-process main window", self, ok)
	}
}

func TestSystemLookup_PerProcessWithoutIndexes(t *testing.T) {
	src := &countingSource{self: os.Getpid()}
	lookup := NewSystemLookup(src, nil)

	snap, err := lookup.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if src.perWindow != len(snap) {
		t.Fatalf("MainWindow calls = %d, want one per process (%d)", src.perWindow, len(snap))
	}
}
