package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lvrach/nanobox/internal/fileutil"
)

// flagSeq numbers ordered flags as kong decodes them, left to right.
var flagSeq int

// orderedFlag is a boolean flag that remembers its position on the command
// line so that mutually overriding flags resolve to the last one given.
type orderedFlag struct {
	set   bool
	order int
}

func (f *orderedFlag) IsBool() bool { return true }

func (f *orderedFlag) Decode(ctx *kong.DecodeContext) error {
	value := true
	if ctx.Scan.Peek().Type == kong.FlagValueToken {
		token := ctx.Scan.Pop()
		switch v := token.Value.(type) {
		case bool:
			value = v
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("bool value must be true or false but got %q", v)
			}
			value = b
		default:
			return fmt.Errorf("expected bool but got %q (%T)", token.Value, token.Value)
		}
	}
	flagSeq++
	f.set, f.order = value, flagSeq
	return nil
}

// MvCmd moves or renames files.
type MvCmd struct {
	Force           orderedFlag `short:"f" help:"Don't prompt before overwriting."`
	Interactive     orderedFlag `short:"i" help:"Prompt before overwriting."`
	NoClobber       orderedFlag `short:"n" name:"no-clobber" help:"Don't overwrite existing files."`
	Verbose         bool        `short:"v" help:"Print each move as 'SOURCE' -> 'DEST'."`
	TargetDir       string      `short:"t" name:"target-directory" placeholder:"DIR" xor:"target" help:"Move every SOURCE into DIR."`
	NoTargetDir     bool        `short:"T" name:"no-target-directory" xor:"target" help:"Treat DEST as a plain file even if it is a directory."`
	PreserveContext bool        `name:"preserve-context" help:"Keep security labels when copying across filesystems."`

	Paths []string `arg:"" name:"path" help:"SOURCE... DEST, or SOURCE... with -t."`
}

type move struct {
	src, dest string
}

func (cmd *MvCmd) Run(globals *Globals, logger *log.Logger) error {
	moves, err := cmd.plan()
	if err != nil {
		return err
	}

	mover := &fileutil.Mover{
		Overwrite:       cmd.overwrite(),
		Confirm:         confirmOverwrite("mv"),
		Interactive:     stdinIsTerminal(),
		PreserveContext: cmd.PreserveContext,
		Logger:          logger.With("applet", "mv"),
	}

	failed := false
	for _, m := range moves {
		if err := mover.Move(m.src, m.dest); err != nil {
			if isUserAbort(err) {
				return err
			}
			reportOperand(globals, "mv", err)
			failed = true
		}
		if cmd.Verbose {
			fmt.Printf("'%s' -> '%s'\n", m.src, m.dest)
		}
	}
	if failed {
		return errOperandsFailed
	}
	return nil
}

// overwrite resolves -f, -i and -n; the last one given wins.
func (cmd *MvCmd) overwrite() fileutil.Overwrite {
	mode, last := fileutil.OverwriteDefault, 0
	for _, f := range []struct {
		flag orderedFlag
		mode fileutil.Overwrite
	}{
		{cmd.Force, fileutil.OverwriteForce},
		{cmd.Interactive, fileutil.OverwriteInteractive},
		{cmd.NoClobber, fileutil.OverwriteNever},
	} {
		if f.flag.set && f.flag.order > last {
			mode, last = f.mode, f.flag.order
		}
	}
	return mode
}

// plan works out the destination of every source operand.
func (cmd *MvCmd) plan() ([]move, error) {
	paths := cmd.Paths
	if cmd.TargetDir != "" {
		return into(paths, cmd.TargetDir), nil
	}
	if len(paths) < 2 {
		return nil, newCLIError(ExitUsage, "usage", fmt.Sprintf("missing destination file operand after '%s'", paths[0]))
	}

	last := paths[len(paths)-1]
	sources := paths[:len(paths)-1]
	if len(sources) > 1 {
		if cmd.NoTargetDir {
			return nil, newCLIError(ExitUsage, "usage", fmt.Sprintf("extra operand '%s'", paths[2]))
		}
		return into(sources, last), nil
	}

	state, err := fileutil.Stat(last)
	if err != nil {
		return nil, newCLIError(ExitFailure, "stat_failed", fmt.Sprintf("can't stat '%s': %v", last, err))
	}
	if state != fileutil.Dir {
		return []move{{sources[0], last}}, nil
	}
	if cmd.NoTargetDir {
		if srcState, err := fileutil.Stat(sources[0]); err == nil && srcState == fileutil.NotDir {
			return nil, newCLIError(ExitFailure, "is_directory", fmt.Sprintf("'%s' is a directory", last))
		}
		return []move{{sources[0], last}}, nil
	}
	return into(sources, last), nil
}

func into(sources []string, dir string) []move {
	moves := make([]move, 0, len(sources))
	for _, src := range sources {
		moves = append(moves, move{src: src, dest: concatPath(dir, filepath.Base(src))})
	}
	return moves
}

// concatPath joins dir and name without cleaning, so messages show the
// paths the way they were typed.
func concatPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
