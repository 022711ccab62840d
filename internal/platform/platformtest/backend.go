// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"fmt"

	"github.com/1broseidon/wmctrl/internal/platform"
)

// Window is a fake top-level window.
type Window struct {
	Handle platform.Handle
	Title  string
}

// Backend is a deterministic platform.Backend. Windows are reported per
// thread in insertion order. Every title query and foreground request is
// recorded so tests can assert on what the resolver touched.
type Backend struct {
	Threads map[int][]int
	Windows map[int][]Window
	Main    map[int]platform.Handle

	// ThreadsErr, when set, is returned by ProcessThreads.
	ThreadsErr error
	// ForegroundErr, when set, is returned by RequestForeground.
	ForegroundErr error

	TextQueries  []platform.Handle
	Foregrounded []platform.Handle
	Closed       bool
}

var _ platform.Backend = (*Backend)(nil)

// New returns an empty fake backend.
func New() *Backend {
	return &Backend{
		Threads: make(map[int][]int),
		Windows: make(map[int][]Window),
		Main:    make(map[int]platform.Handle),
	}
}

// AddProcess registers the thread ids of a process.
func (b *Backend) AddProcess(pid int, tids ...int) *Backend {
	b.Threads[pid] = append(b.Threads[pid], tids...)
	return b
}

// AddWindow attaches a window to a thread.
func (b *Backend) AddWindow(tid int, h platform.Handle, title string) *Backend {
	b.Windows[tid] = append(b.Windows[tid], Window{Handle: h, Title: title})
	return b
}

// SetMainWindow records the main window of a process.
func (b *Backend) SetMainWindow(pid int, h platform.Handle) *Backend {
	b.Main[pid] = h
	return b
}

// CloseWindow removes a window, leaving its handle stale.
func (b *Backend) CloseWindow(h platform.Handle) {
	for tid, wins := range b.Windows {
		kept := wins[:0]
		for _, w := range wins {
			if w.Handle != h {
				kept = append(kept, w)
			}
		}
		b.Windows[tid] = kept
	}
}

func (b *Backend) ProcessThreads(pid int) ([]int, error) {
	if b.ThreadsErr != nil {
		return nil, b.ThreadsErr
	}
	tids, ok := b.Threads[pid]
	if !ok {
		return nil, fmt.Errorf("process %d not found", pid)
	}
	return append([]int(nil), tids...), nil
}

func (b *Backend) ThreadWindows(threadID int, yield func(platform.Handle) bool) {
	for _, w := range b.Windows[threadID] {
		if !yield(w.Handle) {
			return
		}
	}
}

func (b *Backend) WindowText(h platform.Handle, capacity int) string {
	b.TextQueries = append(b.TextQueries, h)
	for _, wins := range b.Windows {
		for _, w := range wins {
			if w.Handle == h {
				return platform.TruncateText(w.Title, capacity)
			}
		}
	}
	return ""
}

func (b *Backend) RequestForeground(h platform.Handle) error {
	b.Foregrounded = append(b.Foregrounded, h)
	return b.ForegroundErr
}

func (b *Backend) MainWindow(pid int) platform.Handle {
	return b.Main[pid]
}

func (b *Backend) Close() error {
	b.Closed = true
	return nil
}
