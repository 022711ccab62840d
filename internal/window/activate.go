package window

import "github.com/1broseidon/wmctrl/internal/platform"

// Activate asks the OS to bring h to the foreground, exactly once. The
// handle is not validated: a window closed since it was resolved is the
// OS's to ignore, and is reported as success.
func Activate(sys OS, h platform.Handle) error {
	return sys.RequestForeground(h)
}
