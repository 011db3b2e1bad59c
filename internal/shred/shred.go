// Package shred overwrites files in place so their former contents are hard
// to recover.
package shred

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// DefaultIterations is the number of random passes when none is configured.
const DefaultIterations = 3

// ErrInvalidSize is returned by ParseSize.
var ErrInvalidSize = errors.New("invalid size")

// Options controls a shred run. The zero value performs no passes; callers
// usually start from DefaultIterations.
type Options struct {
	Iterations int
	// Size limits how many bytes each pass writes. Negative means the file
	// size.
	Size int64
	// Zero adds a final pass of zeros to hide the shredding.
	Zero bool
	// Remove truncates and unlinks the file afterwards.
	Remove bool
	// Force makes the file writable when it cannot be opened for writing.
	Force bool

	// Random supplies pass data. Nil means crypto/rand.
	Random io.Reader
	// Zeros supplies the zero pass. Nil means an in-memory source.
	Zeros io.Reader

	Logger *log.Logger
	// Progress is called after each completed pass.
	Progress func(Pass)
}

// Pass describes a completed overwrite pass.
type Pass struct {
	Path   string
	Number int
	Total  int
	Zero   bool
	Bytes  int64
}

func (o *Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// File shreds the file at path. Empty files are left as they are apart from
// the optional removal.
func File(path string, opts Options) (err error) {
	f, err := open(path, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("can't close '%s': %w", path, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("can't stat '%s': %w", path, err)
	}

	if size := info.Size(); size > 0 {
		if opts.Size >= 0 {
			size = opts.Size
		}
		if err := overwrite(f, path, size, opts); err != nil {
			return err
		}
	}

	if opts.Remove {
		if err := f.Truncate(0); err != nil {
			return fmt.Errorf("can't truncate '%s': %w", path, err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("can't remove '%s': %w", path, err)
		}
		opts.logger().Debug("removed", "path", path)
	}
	return nil
}

func open(path string, opts Options) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err == nil || !opts.Force {
		if err != nil {
			return nil, fmt.Errorf("can't open '%s': %w", path, unwrapPath(err))
		}
		return f, nil
	}
	if cerr := os.Chmod(path, 0o666); cerr != nil {
		return nil, fmt.Errorf("can't open '%s': %w", path, unwrapPath(err))
	}
	opts.logger().Debug("made writable", "path", path)
	f, err = os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("can't open '%s': %w", path, unwrapPath(err))
	}
	return f, nil
}

func overwrite(f *os.File, path string, size int64, opts Options) error {
	random := opts.Random
	if random == nil {
		random = rand.Reader
	}
	zeros := opts.Zeros
	if zeros == nil {
		zeros = zeroReader{}
	}

	total := opts.Iterations
	if opts.Zero {
		total++
	}
	for i := range opts.Iterations {
		if err := pass(f, path, random, size); err != nil {
			return err
		}
		report(path, i+1, total, false, size, opts)
	}
	if opts.Zero {
		if err := pass(f, path, zeros, size); err != nil {
			return err
		}
		report(path, total, total, true, size, opts)
	}
	return nil
}

// pass writes size bytes from src at the start of f and flushes them.
func pass(f *os.File, path string, src io.Reader, size int64) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("can't seek '%s': %w", path, err)
	}
	if _, err := io.CopyN(f, src, size); err != nil {
		return fmt.Errorf("can't write '%s': %w", path, err)
	}
	if err := datasync(f); err != nil {
		return fmt.Errorf("can't sync '%s': %w", path, err)
	}
	return nil
}

func report(path string, n, total int, zero bool, size int64, opts Options) {
	opts.logger().Debug("pass", "path", path, "n", n, "total", total, "zero", zero)
	if opts.Progress != nil {
		opts.Progress(Pass{Path: path, Number: n, Total: total, Zero: zero, Bytes: size})
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// ParseSize reads a byte count. Plain integers follow C conventions (0x and
// leading-zero octal). Suffixed values go through humanize, with a bare
// K, M, G, T, P or E meaning the binary unit.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidSize, s)
		}
		return v, nil
	}
	value := s
	if n := len(value); n >= 2 && strings.ContainsRune("KMGTPEkmgtpe", rune(value[n-1])) && isDigit(value[n-2]) {
		value += "i"
	}
	v, err := humanize.ParseBytes(value)
	if err != nil || v > 1<<63-1 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidSize, s)
	}
	return int64(v), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func unwrapPath(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
