package platform

import "errors"

// Handle is an opaque window identifier. Only equality is meaningful; the
// zero value means "no window".
type Handle uintptr

// NoWindow is the null handle.
const NoWindow Handle = 0

// ErrUnsupported is returned by New on platforms without a window backend.
var ErrUnsupported = errors.New("window backend not supported on this platform")

// Backend abstracts the window-system primitives the resolver needs.
//
// Implementations are not safe for concurrent use.
type Backend interface {
	// ProcessThreads returns the thread ids of a process in OS order.
	ProcessThreads(pid int) ([]int, error)
	// ThreadWindows calls yield for every top-level window associated with
	// the thread until yield returns false.
	ThreadWindows(threadID int, yield func(Handle) bool)
	// WindowText synchronously asks the window for its title, copying at
	// most capacity-1 characters. It returns "" if the handle is stale or
	// the owning thread fails the request.
	WindowText(h Handle, capacity int) string
	// RequestForeground asks the OS to give the window input focus and
	// raise it. A stale handle is not reported as an error.
	RequestForeground(h Handle) error
	// MainWindow returns the OS's primary top-level window for a process,
	// or NoWindow.
	MainWindow(pid int) Handle
	// Close releases any connection held by the backend.
	Close() error
}

// ThreadIndexer is implemented by backends that can list the threads of
// every process in one pass. Thread ids keep OS order within a process.
type ThreadIndexer interface {
	ThreadIndex() (map[int][]int, error)
}

// MainWindowIndexer is implemented by backends that can find the main
// window of every process in one pass. Processes without one are absent.
type MainWindowIndexer interface {
	MainWindowIndex() (map[int]Handle, error)
}

// TruncateText keeps at most capacity-1 runes of s, mirroring the
// NUL-terminated buffer semantics of native title queries.
func TruncateText(s string, capacity int) string {
	if capacity <= 1 {
		return ""
	}
	limit := capacity - 1
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
