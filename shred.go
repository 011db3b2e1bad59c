package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/lvrach/nanobox/internal/config"
	"github.com/lvrach/nanobox/internal/shred"
)

// ShredCmd overwrites files so their contents are hard to recover.
type ShredCmd struct {
	Force      bool   `short:"f" help:"Change permissions to allow writing if necessary."`
	Iterations *int   `short:"n" placeholder:"N" help:"Overwrite N times instead of the configured count (3 by default)."`
	Size       string `short:"s" placeholder:"SIZE" help:"Shred this many bytes (suffixes such as K, M, KiB allowed)."`
	Remove     bool   `short:"u" help:"Truncate and remove the file after overwriting."`
	Zero       bool   `short:"z" help:"Add a final overwrite with zeros."`
	Verbose    bool   `short:"v" help:"Show progress."`
	Exact      bool   `short:"x" help:"Accepted for compatibility; sizes are never rounded up."`

	Files []string `arg:"" name:"file" help:"Files to shred."`
}

func (cmd *ShredCmd) Run(globals *Globals, logger *log.Logger, cfg *config.Config) error {
	opts, err := cmd.options(cfg)
	if err != nil {
		return err
	}
	opts.Logger = logger.With("applet", "shred")

	random, closeRandom := openSource("/dev/urandom", opts.Logger)
	defer closeRandom()
	zeros, closeZeros := openSource("/dev/zero", opts.Logger)
	defer closeZeros()
	opts.Random, opts.Zeros = random, zeros

	if cmd.Verbose {
		bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(24))
		opts.Progress = func(p shred.Pass) {
			kind := "random"
			if p.Zero {
				kind = "000000"
			}
			fmt.Fprintf(os.Stderr, "shred: %s: pass %d/%d (%s) %s %s\n",
				p.Path, p.Number, p.Total, kind, humanize.IBytes(uint64(p.Bytes)),
				bar.ViewAs(float64(p.Number)/float64(p.Total)))
		}
	}

	failed := false
	for _, file := range cmd.Files {
		if err := shred.File(file, opts); err != nil {
			reportOperand(globals, "shred", err)
			failed = true
		}
	}
	if failed {
		return errOperandsFailed
	}
	return nil
}

func (cmd *ShredCmd) options(cfg *config.Config) (shred.Options, error) {
	opts := shred.Options{
		Iterations: cfg.Shred.Iterations,
		Size:       -1,
		Zero:       cmd.Zero || cfg.Shred.Zero,
		Remove:     cmd.Remove,
		Force:      cmd.Force,
	}
	if cmd.Iterations != nil {
		if *cmd.Iterations < 0 {
			return opts, newCLIError(ExitInvalidInput, "invalid_iterations",
				fmt.Sprintf("invalid number of passes: %d", *cmd.Iterations))
		}
		opts.Iterations = *cmd.Iterations
	}
	if cmd.Size != "" {
		size, err := shred.ParseSize(cmd.Size)
		if err != nil {
			return opts, newCLIError(ExitInvalidInput, "invalid_size", err.Error())
		}
		opts.Size = size
	}
	return opts, nil
}

// openSource opens a device used as pass data. When it is unavailable the
// shred package falls back to its own sources.
func openSource(path string, logger *log.Logger) (io.Reader, func()) {
	f, err := os.Open(path)
	if err != nil {
		logger.Debug("data source unavailable", "path", path, "err", err)
		return nil, func() {}
	}
	return f, func() { _ = f.Close() }
}
