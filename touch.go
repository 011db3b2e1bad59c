package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lvrach/nanobox/internal/config"
	"github.com/lvrach/nanobox/internal/datetime"
	"github.com/lvrach/nanobox/internal/fileutil"
)

// TouchCmd sets file access and modification times.
type TouchCmd struct {
	NoCreate  bool   `short:"c" name:"no-create" help:"Don't create missing files."`
	Access    bool   `short:"a" help:"Change only the access time."`
	Modify    bool   `short:"m" help:"Change only the modification time."`
	Date      string `short:"d" name:"date" placeholder:"DATE" xor:"source" help:"Use DATE instead of now."`
	Stamp     string `short:"t" placeholder:"STAMP" xor:"source" help:"Use [[CC]YY]MMDDhhmm[.ss] instead of now."`
	Reference string `short:"r" name:"reference" placeholder:"FILE" xor:"source" help:"Use FILE's times instead of now."`

	Files []string `arg:"" name:"file" help:"Files to touch."`
}

func (cmd *TouchCmd) Run(globals *Globals, logger *log.Logger, cfg *config.Config) error {
	atime, mtime, err := cmd.times(cfg)
	if err != nil {
		return err
	}
	// Neither -a nor -m means both.
	if cmd.Access && !cmd.Modify {
		mtime = time.Time{}
	}
	if cmd.Modify && !cmd.Access {
		atime = time.Time{}
	}
	logger.Debug("touch", "atime", atime, "mtime", mtime)

	failed := false
	for _, file := range cmd.Files {
		if err := cmd.touch(file, atime, mtime); err != nil {
			reportOperand(globals, "touch", err)
			failed = true
		}
	}
	if failed {
		return errOperandsFailed
	}
	return nil
}

func (cmd *TouchCmd) times(cfg *config.Config) (atime, mtime time.Time, err error) {
	now := timeNow()
	parser := datetime.Parser{Minimal: cfg.Datetime.Minimal}

	switch {
	case cmd.Reference != "":
		info, err := os.Stat(cmd.Reference)
		if err != nil {
			return atime, mtime, fmt.Errorf("can't stat '%s': %w", cmd.Reference, err)
		}
		return fileutil.AccessTime(info), info.ModTime(), nil
	case cmd.Stamp != "":
		if !isStamp(cmd.Stamp) {
			return atime, mtime, newCLIError(ExitInvalidInput, "invalid_date", fmt.Sprintf("invalid date '%s'", cmd.Stamp))
		}
		now, _, err = parser.ParseTime(cmd.Stamp, now)
	case cmd.Date != "":
		now, _, err = parser.ParseTime(cmd.Date, now)
	}
	if err != nil {
		return atime, mtime, newCLIError(ExitInvalidInput, "invalid_date", err.Error())
	}
	return now, now, nil
}

func (cmd *TouchCmd) touch(file string, atime, mtime time.Time) error {
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		if cmd.NoCreate {
			return nil
		}
		f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE, 0o666)
		if err != nil {
			return fmt.Errorf("can't create '%s': %w", file, unwrapPathError(err))
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("can't create '%s': %w", file, unwrapPathError(err))
		}
	}
	if err := os.Chtimes(file, atime, mtime); err != nil {
		return fmt.Errorf("can't touch '%s': %w", file, unwrapPathError(err))
	}
	return nil
}

// isStamp reports whether s is an all-digit touch -t stamp with an optional
// .ss suffix.
func isStamp(s string) bool {
	digits := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && i > 0:
		default:
			return false
		}
	}
	return digits > 0
}

func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
