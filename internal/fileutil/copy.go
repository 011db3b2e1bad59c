package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// CopyOptions tunes CopyTree.
type CopyOptions struct {
	// PreserveContext copies security.* extended attributes.
	PreserveContext bool
}

// CopyTree copies src to dest recursively without following symlinks.
// Permissions, timestamps and, when permitted, ownership are preserved.
// dest must not exist.
func CopyTree(src, dest string, opts CopyOptions) error {
	info, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("can't stat '%s': %w", src, unwrapLink(err))
	}

	mode := info.Mode()
	switch {
	case mode.IsDir():
		if err := copyDir(src, dest, opts); err != nil {
			return err
		}
	case mode&fs.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return fmt.Errorf("can't read link '%s': %w", src, unwrapLink(err))
		}
		if err := os.Symlink(target, dest); err != nil {
			return fmt.Errorf("can't create symlink '%s': %w", dest, unwrapLink(err))
		}
	case mode.IsRegular():
		if err := copyFile(src, dest, mode.Perm()); err != nil {
			return err
		}
	default:
		if err := mknod(dest, info); err != nil {
			return fmt.Errorf("can't create '%s': %w", dest, err)
		}
	}

	if opts.PreserveContext {
		if err := copySecurityXattrs(src, dest); err != nil {
			return err
		}
	}
	return preserve(dest, info)
}

func copyDir(src, dest string, opts CopyOptions) error {
	if err := os.Mkdir(dest, 0o700); err != nil {
		return fmt.Errorf("can't create directory '%s': %w", dest, unwrapLink(err))
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("can't open '%s': %w", src, unwrapLink(err))
	}
	for _, entry := range entries {
		if err := CopyTree(filepath.Join(src, entry.Name()), filepath.Join(dest, entry.Name()), opts); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string, perm fs.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("can't open '%s': %w", src, unwrapLink(err))
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("can't create '%s': %w", dest, unwrapLink(err))
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("can't close '%s': %w", dest, unwrapLink(cerr))
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("can't copy '%s': %w", src, unwrapLink(err))
	}
	return nil
}

// preserve applies ownership, permissions and timestamps from info. Failing
// to change ownership is not an error for unprivileged users.
func preserve(dest string, info fs.FileInfo) error {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		err := os.Lchown(dest, int(st.Uid), int(st.Gid))
		if err != nil && !errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("can't preserve ownership of '%s': %w", dest, unwrapLink(err))
		}
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		if err := os.Chmod(dest, info.Mode()&(fs.ModePerm|fs.ModeSetuid|fs.ModeSetgid|fs.ModeSticky)); err != nil {
			return fmt.Errorf("can't preserve permissions of '%s': %w", dest, unwrapLink(err))
		}
	}
	if err := preserveTimes(dest, info); err != nil {
		return fmt.Errorf("can't preserve times of '%s': %w", dest, err)
	}
	return nil
}
