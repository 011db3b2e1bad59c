//go:build !linux

package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"time"
)

// AccessTime returns the modification time; access times are not read
// outside Linux.
func AccessTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}

func preserveTimes(dest string, info fs.FileInfo) error {
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil
	}
	return os.Chtimes(dest, AccessTime(info), info.ModTime())
}

func mknod(string, fs.FileInfo) error {
	return errors.ErrUnsupported
}

// copySecurityXattrs is a no-op outside Linux.
func copySecurityXattrs(string, string) error {
	return nil
}
