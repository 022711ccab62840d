//go:build linux

package platform

import (
	"fmt"
	"math"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/1broseidon/wmctrl/internal/x11"
)

// LinuxBackend implements Backend on an X11 connection.
//
// X11 records the owning process of a client window (_NET_WM_PID) but not
// its thread, so every window of a process is attributed to the thread
// whose id equals the process id (the thread group leader).
type LinuxBackend struct {
	conn *x11.Connection
}

var (
	_ Backend           = (*LinuxBackend)(nil)
	_ MainWindowIndexer = (*LinuxBackend)(nil)
)

// New opens the platform backend for the running OS.
func New() (Backend, error) {
	return NewLinuxBackendFromDisplay()
}

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}

// ProcessThreads lists /proc/<pid>/task in ascending tid order, so the
// thread group leader comes first.
func (b *LinuxBackend) ProcessThreads(pid int) ([]int, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("process %d: %w", pid, err)
	}
	threads, err := p.Threads()
	if err != nil {
		return nil, fmt.Errorf("process %d threads: %w", pid, err)
	}
	tids := make([]int, 0, len(threads))
	for tid := range threads {
		tids = append(tids, int(tid))
	}
	sort.Ints(tids)
	return tids, nil
}

func (b *LinuxBackend) ThreadWindows(threadID int, yield func(Handle) bool) {
	conn, err := b.connection()
	if err != nil {
		return
	}
	owned, err := conn.WindowsOwnedBy(threadID)
	if err != nil {
		return
	}
	for _, win := range owned {
		if !yield(Handle(win)) {
			return
		}
	}
}

func (b *LinuxBackend) WindowText(h Handle, capacity int) string {
	conn, err := b.connection()
	if err != nil || !fitsXID(h) {
		return ""
	}
	return TruncateText(conn.WindowTitle(xproto.Window(h)), capacity)
}

// RequestForeground sends _NET_ACTIVE_WINDOW for the handle. Only transport
// failures are reported; the window manager silently ignores unknown ids.
func (b *LinuxBackend) RequestForeground(h Handle) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if !fitsXID(h) {
		return nil
	}
	return conn.FocusWindow(uint32(h))
}

// MainWindow returns the first normal client window owned by pid.
func (b *LinuxBackend) MainWindow(pid int) Handle {
	conn, err := b.connection()
	if err != nil {
		return NoWindow
	}
	owned, err := conn.WindowsOwnedBy(pid)
	if err != nil {
		return NoWindow
	}
	for _, win := range owned {
		if conn.IsNormalWindow(win) {
			return Handle(win)
		}
	}
	return NoWindow
}

// MainWindowIndex reads the client list once and keeps the first normal
// window of each owning process.
func (b *LinuxBackend) MainWindowIndex() (map[int]Handle, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	byPID, err := conn.WindowsByPID()
	if err != nil {
		return nil, err
	}
	index := make(map[int]Handle, len(byPID))
	for pid, wins := range byPID {
		for _, win := range wins {
			if conn.IsNormalWindow(win) {
				index[pid] = Handle(win)
				break
			}
		}
	}
	return index, nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func fitsXID(h Handle) bool {
	return h != NoWindow && uint64(h) <= math.MaxUint32
}
