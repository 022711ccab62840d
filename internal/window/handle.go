package window

import (
	"fmt"
	"strconv"

	"github.com/1broseidon/wmctrl/internal/platform"
)

// ParseHandle parses a signed 64-bit decimal literal into a handle without
// checking that it denotes a window.
func ParseHandle(literal string) (platform.Handle, error) {
	v, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return platform.NoWindow, fmt.Errorf("%w: %q is not an integer window handle", ErrInvalidArgument, literal)
	}
	return platform.Handle(uintptr(v)), nil
}

// FormatHandle renders h as the signed decimal ParseHandle accepts.
func FormatHandle(h platform.Handle) string {
	return strconv.FormatInt(int64(h), 10)
}
