package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// AccessTime returns the last access time recorded in info.
func AccessTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
	}
	return info.ModTime()
}

func preserveTimes(dest string, info fs.FileInfo) error {
	times := []unix.Timespec{
		unix.NsecToTimespec(AccessTime(info).UnixNano()),
		unix.NsecToTimespec(info.ModTime().UnixNano()),
	}
	return unix.UtimesNanoAt(unix.AT_FDCWD, dest, times, unix.AT_SYMLINK_NOFOLLOW)
}

func mknod(dest string, info fs.FileInfo) error {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return errors.ErrUnsupported
	}
	return unix.Mknod(dest, st.Mode, int(st.Rdev))
}

// copySecurityXattrs copies the security.* namespace, which carries SELinux
// and SMACK labels. Filesystems without xattr support are skipped.
func copySecurityXattrs(src, dest string) error {
	size, err := unix.Llistxattr(src, nil)
	if err != nil {
		if errors.Is(err, unix.ENOTSUP) {
			return nil
		}
		return fmt.Errorf("can't list attributes of '%s': %w", src, err)
	}
	if size == 0 {
		return nil
	}
	buf := make([]byte, size)
	n, err := unix.Llistxattr(src, buf)
	if err != nil {
		return fmt.Errorf("can't list attributes of '%s': %w", src, err)
	}

	for _, name := range strings.Split(string(buf[:n]), "\x00") {
		if !strings.HasPrefix(name, "security.") {
			continue
		}
		vsize, err := unix.Lgetxattr(src, name, nil)
		if err != nil {
			return fmt.Errorf("can't get %s of '%s': %w", name, src, err)
		}
		val := make([]byte, vsize)
		vn, err := unix.Lgetxattr(src, name, val)
		if err != nil {
			return fmt.Errorf("can't get %s of '%s': %w", name, src, err)
		}
		if err := unix.Lsetxattr(dest, name, val[:vn], 0); err != nil {
			return fmt.Errorf("can't preserve %s of '%s': %w", name, dest, err)
		}
	}
	return nil
}
