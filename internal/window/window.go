// Package window resolves process names and title fragments to top-level
// window handles and activates them.
//
// Every operation works on a process.Snapshot passed in by the caller and
// re-queries window titles each time; nothing is cached. Window enumeration
// order is whatever the OS reports and may change between calls, so "first
// match" selection is best-effort.
package window

import (
	"errors"

	"github.com/1broseidon/wmctrl/internal/platform"
)

var (
	// ErrInvalidArgument reports a malformed handle literal or a missing
	// required argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrProcessNotFound reports a name that matches no running process.
	ErrProcessNotFound = errors.New("process not found")
	// ErrWindowNotFound reports a process with no window matching the
	// criterion.
	ErrWindowNotFound = errors.New("window not found")
)

// Kind returns a stable identifier for the error class of err, or "" for
// errors outside the window taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrProcessNotFound):
		return "process_not_found"
	case errors.Is(err, ErrWindowNotFound):
		return "window_not_found"
	default:
		return ""
	}
}

// OS is the subset of platform.Backend the resolver drives.
type OS interface {
	ThreadWindows(threadID int, yield func(platform.Handle) bool)
	WindowText(h platform.Handle, capacity int) string
	RequestForeground(h platform.Handle) error
}
