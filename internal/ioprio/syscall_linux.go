//go:build linux

package ioprio

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Get returns the priority of the process, group or user selected by who and id.
// An id of 0 means the caller.
func Get(who, id int) (Priority, error) {
	r, _, errno := unix.Syscall(unix.SYS_IOPRIO_GET, uintptr(who), uintptr(id), 0)
	if errno != 0 {
		return Priority{}, fmt.Errorf("ioprio_get: %w", errno)
	}
	return Decode(int(r)), nil
}

// Set changes the priority of the process, group or user selected by who and id.
func Set(who, id int, p Priority) error {
	_, _, errno := unix.Syscall(unix.SYS_IOPRIO_SET, uintptr(who), uintptr(id), uintptr(p.Encode()))
	if errno != 0 {
		return fmt.Errorf("ioprio_set: %w", errno)
	}
	return nil
}
