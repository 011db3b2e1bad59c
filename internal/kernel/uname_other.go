//go:build !linux

package kernel

// Release is unavailable outside Linux.
func Release() (string, error) {
	return "", ErrUnsupported
}
