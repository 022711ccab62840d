package window

import "github.com/1broseidon/wmctrl/internal/platform"

// DefaultTitleCapacity is the title buffer size in characters, including
// the terminator. Longer titles are truncated to DefaultTitleCapacity-1.
const DefaultTitleCapacity = 1000

// ReadTitle synchronously queries the title of h. It blocks until the
// window's owning thread answers; a hung thread blocks indefinitely. A stale
// handle, a failed query and an untitled window all return "".
func ReadTitle(sys OS, h platform.Handle, capacity int) string {
	if capacity <= 0 {
		capacity = DefaultTitleCapacity
	}
	if h == platform.NoWindow {
		return ""
	}
	return sys.WindowText(h, capacity)
}
