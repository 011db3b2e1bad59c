//go:build !linux

package ioprio

// Get is unavailable outside Linux.
func Get(who, id int) (Priority, error) {
	return Priority{}, ErrUnsupported
}

// Set is unavailable outside Linux.
func Set(who, id int, p Priority) error {
	return ErrUnsupported
}
