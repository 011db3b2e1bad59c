// Package ioprio reads and sets Linux I/O scheduling priorities.
package ioprio

import (
	"errors"
	"fmt"
	"strconv"
)

// Class is an I/O scheduling class.
type Class int

// Scheduling classes (IOPRIO_CLASS_*).
const (
	ClassNone Class = iota
	ClassRealtime
	ClassBestEffort
	ClassIdle
)

// Targets for Get and Set (IOPRIO_WHO_*).
const (
	WhoProcess = 1 + iota
	WhoPgrp
	WhoUser
)

const classShift = 13

// ErrUnsupported is returned where the ioprio syscalls do not exist.
var ErrUnsupported = errors.New("ioprio is only supported on linux")

var classNames = [...]string{"none", "realtime", "best-effort", "idle"}

func (c Class) String() string {
	if c >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return strconv.Itoa(int(c))
}

// ParseClass accepts a class number 0-3 or its name.
func ParseClass(s string) (Class, error) {
	for i, name := range classNames {
		if s == name {
			return Class(i), nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > int(ClassIdle) {
		return 0, fmt.Errorf("bad class %s", s)
	}
	return Class(n), nil
}

// Priority is a decoded ioprio value.
type Priority struct {
	Class Class
	Level int
}

// Encode packs the priority into the kernel's ioprio value.
func (p Priority) Encode() int {
	return p.Level | int(p.Class)<<classShift
}

// Decode unpacks a kernel ioprio value.
func Decode(v int) Priority {
	return Priority{
		Class: Class((v >> classShift) & 0x3),
		Level: v & 0xff,
	}
}

// String renders the priority the way ionice prints it.
func (p Priority) String() string {
	if p.Class == ClassIdle {
		return p.Class.String()
	}
	return fmt.Sprintf("%s: prio %d", p.Class, p.Level)
}
