//go:build windows

package platform

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	wmGetText = 0x000D
	gwOwner   = 4
)

var (
	modUser32              = windows.NewLazySystemDLL("user32.dll")
	procEnumThreadWindows  = modUser32.NewProc("EnumThreadWindows")
	procEnumWindows        = modUser32.NewProc("EnumWindows")
	procSendMessageW       = modUser32.NewProc("SendMessageW")
	procSwitchToThisWindow = modUser32.NewProc("SwitchToThisWindow")
	procGetWindow          = modUser32.NewProc("GetWindow")
)

// Callbacks handed to user32 are a limited resource, so a single one is
// created and dispatches on the lParam token to the active enumeration.
var (
	enumMu     sync.Mutex
	enumNext   uintptr
	enumYields = map[uintptr]func(Handle) bool{}

	enumCallback = windows.NewCallback(func(hwnd, lparam uintptr) uintptr {
		enumMu.Lock()
		yield := enumYields[lparam]
		enumMu.Unlock()
		if yield == nil || !yield(Handle(hwnd)) {
			return 0
		}
		return 1
	})
)

func registerEnum(yield func(Handle) bool) (token uintptr, release func()) {
	enumMu.Lock()
	enumNext++
	token = enumNext
	enumYields[token] = yield
	enumMu.Unlock()
	return token, func() {
		enumMu.Lock()
		delete(enumYields, token)
		enumMu.Unlock()
	}
}

// WindowsBackend implements Backend over user32 and the toolhelp snapshot API.
type WindowsBackend struct{}

var (
	_ Backend           = (*WindowsBackend)(nil)
	_ ThreadIndexer     = (*WindowsBackend)(nil)
	_ MainWindowIndexer = (*WindowsBackend)(nil)
)

// New opens the platform backend for the running OS.
func New() (Backend, error) {
	if err := modUser32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load user32.dll: %w", err)
	}
	return &WindowsBackend{}, nil
}

func (b *WindowsBackend) Close() error { return nil }

// ProcessThreads walks a system-wide thread snapshot and keeps the threads
// owned by pid, in snapshot order.
func (b *WindowsBackend) ProcessThreads(pid int) ([]int, error) {
	var tids []int
	err := walkThreads(func(owner, tid int) {
		if owner == pid {
			tids = append(tids, tid)
		}
	})
	if err != nil {
		return tids, fmt.Errorf("thread snapshot for process %d: %w", pid, err)
	}
	return tids, nil
}

// ThreadIndex groups one system-wide thread snapshot by owning process.
func (b *WindowsBackend) ThreadIndex() (map[int][]int, error) {
	index := make(map[int][]int)
	err := walkThreads(func(owner, tid int) {
		index[owner] = append(index[owner], tid)
	})
	if err != nil {
		return nil, fmt.Errorf("thread snapshot: %w", err)
	}
	return index, nil
}

func walkThreads(visit func(owner, tid int)) error {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPTHREAD, 0)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(snap)

	var entry windows.ThreadEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	err = windows.Thread32First(snap, &entry)
	for err == nil {
		visit(int(entry.OwnerProcessID), int(entry.ThreadID))
		err = windows.Thread32Next(snap, &entry)
	}
	if !errors.Is(err, windows.ERROR_NO_MORE_FILES) {
		return err
	}
	return nil
}

func (b *WindowsBackend) ThreadWindows(threadID int, yield func(Handle) bool) {
	token, release := registerEnum(yield)
	defer release()
	// EnumThreadWindows returns FALSE both when the callback stops and when
	// the thread has no windows; neither is an error here.
	procEnumThreadWindows.Call(uintptr(threadID), enumCallback, token)
}

// WindowText sends WM_GETTEXT, which blocks until the owning thread's
// message loop services it.
func (b *WindowsBackend) WindowText(h Handle, capacity int) string {
	if h == NoWindow || capacity <= 1 {
		return ""
	}
	buf := make([]uint16, capacity)
	n, _, _ := procSendMessageW.Call(uintptr(h), wmGetText, uintptr(capacity), uintptr(unsafe.Pointer(&buf[0])))
	if n == 0 || int(n) > capacity {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// RequestForeground calls SwitchToThisWindow, which has no failure signal.
func (b *WindowsBackend) RequestForeground(h Handle) error {
	procSwitchToThisWindow.Call(uintptr(h), 1)
	return nil
}

// MainWindow picks the first visible, unowned top-level window of pid in
// z-order.
func (b *WindowsBackend) MainWindow(pid int) Handle {
	main := NoWindow
	enumMainCandidates(func(owner int, h Handle) bool {
		if owner != pid {
			return true
		}
		main = h
		return false
	})
	return main
}

// MainWindowIndex does a single z-order pass and keeps the first candidate
// of every process.
func (b *WindowsBackend) MainWindowIndex() (map[int]Handle, error) {
	index := make(map[int]Handle)
	enumMainCandidates(func(owner int, h Handle) bool {
		if _, ok := index[owner]; !ok {
			index[owner] = h
		}
		return true
	})
	return index, nil
}

// enumMainCandidates yields every visible, unowned top-level window with
// its owning process id, in z-order.
func enumMainCandidates(yield func(owner int, h Handle) bool) {
	token, release := registerEnum(func(h Handle) bool {
		var owner uint32
		if _, err := windows.GetWindowThreadProcessId(windows.HWND(h), &owner); err != nil {
			return true
		}
		if !windows.IsWindowVisible(windows.HWND(h)) {
			return true
		}
		if ownerWnd, _, _ := procGetWindow.Call(uintptr(h), gwOwner); ownerWnd != 0 {
			return true
		}
		return yield(int(owner), h)
	})
	defer release()
	procEnumWindows.Call(enumCallback, token)
}
