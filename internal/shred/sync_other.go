//go:build !linux

package shred

import "os"

func datasync(f *os.File) error {
	return f.Sync()
}
