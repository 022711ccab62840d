//go:build !linux && !windows

package platform

// New opens the platform backend for the running OS.
func New() (Backend, error) {
	return nil, ErrUnsupported
}
