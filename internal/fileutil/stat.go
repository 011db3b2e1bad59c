// Package fileutil implements the file moving and copying used by mv.
package fileutil

import (
	"errors"
	"io/fs"
	"os"
)

// State describes what exists at a path.
type State int

const (
	Missing State = iota
	NotDir
	Dir
)

// Stat follows symlinks and reports what exists at path. A missing path is
// not an error.
func Stat(path string) (State, error) {
	return stateOf(os.Stat(path))
}

// Lstat is Stat without following a final symlink.
func Lstat(path string) (State, error) {
	return stateOf(os.Lstat(path))
}

func stateOf(info fs.FileInfo, err error) (State, error) {
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Missing, nil
		}
		return Missing, err
	}
	if info.IsDir() {
		return Dir, nil
	}
	return NotDir, nil
}
