package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// Overwrite selects how Mover treats an existing destination.
type Overwrite int

const (
	// OverwriteDefault prompts only when the destination is not writable
	// and stdin is a terminal.
	OverwriteDefault Overwrite = iota
	// OverwriteForce never prompts.
	OverwriteForce
	// OverwriteInteractive always prompts.
	OverwriteInteractive
	// OverwriteNever skips existing destinations.
	OverwriteNever
)

// ErrDirOverNonDir and ErrNonDirOverDir reject cross-device moves that would
// replace a file with a directory or the other way around.
var (
	ErrDirOverNonDir = errors.New("can't overwrite non-directory with directory")
	ErrNonDirOverDir = errors.New("can't overwrite directory with non-directory")
)

// rename is swapped in tests to simulate EXDEV.
var rename = os.Rename

// Mover moves one source at a time, prompting and falling back to
// copy-and-delete across filesystems the way mv does.
type Mover struct {
	Overwrite Overwrite
	// Confirm asks whether dest may be replaced. Nil means yes.
	Confirm func(dest string) (bool, error)
	// Interactive reports whether stdin is a terminal.
	Interactive bool
	// PreserveContext copies security.* extended attributes on fallback copies.
	PreserveContext bool
	Logger          *log.Logger
}

func (m *Mover) logger() *log.Logger {
	if m.Logger == nil {
		return log.New(io.Discard)
	}
	return m.Logger
}

// Move moves src to dest. It returns nil without moving anything when the
// destination is kept, either by OverwriteNever or by a declined prompt.
func (m *Mover) Move(src, dest string) error {
	destState, err := Stat(dest)
	if err != nil {
		return err
	}

	if destState != Missing {
		if m.Overwrite == OverwriteNever {
			m.logger().Debug("keeping existing destination", "dest", dest)
			return nil
		}
		if m.shouldPrompt(dest) {
			ok, err := m.confirm(dest)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
	}

	err = rename(src, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return fmt.Errorf("can't rename '%s': %w", src, unwrapLink(err))
	}

	srcState, err := Lstat(src)
	if err != nil || srcState == Missing {
		return fmt.Errorf("can't rename '%s': %w", src, unix.EXDEV)
	}
	m.logger().Debug("rename crossed filesystems, copying", "src", src, "dest", dest)

	if destState != Missing {
		if destState == Dir && srcState != Dir {
			return ErrNonDirOverDir
		}
		if destState != Dir && srcState == Dir {
			return ErrDirOverNonDir
		}
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("can't remove '%s': %w", dest, unwrapLink(err))
		}
	}

	if err := CopyTree(src, dest, CopyOptions{PreserveContext: m.PreserveContext}); err != nil {
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("can't remove '%s': %w", src, unwrapLink(err))
	}
	return nil
}

func (m *Mover) shouldPrompt(dest string) bool {
	switch m.Overwrite {
	case OverwriteForce:
		return false
	case OverwriteInteractive:
		return true
	}
	return m.Interactive && unix.Access(dest, unix.W_OK) != nil
}

func (m *Mover) confirm(dest string) (bool, error) {
	if m.Confirm == nil {
		return true, nil
	}
	return m.Confirm(dest)
}

// unwrapLink strips the *os.LinkError / *fs.PathError wrapper so messages
// do not repeat the paths.
func unwrapLink(err error) error {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
