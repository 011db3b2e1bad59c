package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/lvrach/nanobox/internal/ioprio"
)

// Exit codes of a failed exec, as shells report them.
const (
	exitCannotExecute = 126
	exitNotFound      = 127
)

// IoniceCmd gets or sets the I/O scheduling class of a process, or runs a
// program with a new class.
type IoniceCmd struct {
	Class        *string `short:"c" placeholder:"CLASS" help:"Class: 1 realtime, 2 best-effort, 3 idle."`
	Level        *int    `short:"n" placeholder:"PRIO" help:"Priority within the class (0-7)."`
	PID          int     `short:"p" name:"pid" placeholder:"PID" help:"Process to query or change (default: self)."`
	IgnoreErrors bool    `short:"t" help:"Run PROG even if the class cannot be set."`

	Command []string `arg:"" optional:"" passthrough:"" name:"prog" help:"PROG [ARGS], or a PID to query."`
}

type ioniceResult struct {
	PID   int    `json:"pid"`
	Class string `json:"class"`
	Level int    `json:"level"`
}

func (cmd *IoniceCmd) Run(globals *Globals, logger *log.Logger) error {
	if cmd.PID < 0 {
		return newCLIError(ExitInvalidInput, "invalid_pid", fmt.Sprintf("invalid number '%d'", cmd.PID))
	}
	if cmd.Class == nil && cmd.Level == nil {
		return cmd.query(globals)
	}
	return cmd.set(logger)
}

func (cmd *IoniceCmd) query(globals *Globals) error {
	pid := cmd.PID
	if pid == 0 && len(cmd.Command) > 0 {
		n, err := strconv.Atoi(cmd.Command[0])
		if err != nil || n < 0 {
			return newCLIError(ExitInvalidInput, "invalid_pid", fmt.Sprintf("invalid number '%s'", cmd.Command[0]))
		}
		pid = n
	}

	prio, err := ioprio.Get(ioprio.WhoProcess, pid)
	if err != nil {
		return err
	}
	if globals.JSON {
		printResultJSON(ioniceResult{PID: pid, Class: prio.Class.String(), Level: prio.Level})
		return nil
	}
	printSuccessHuman(prio.String())
	return nil
}

func (cmd *IoniceCmd) set(logger *log.Logger) error {
	var prio ioprio.Priority
	if cmd.Class != nil {
		class, err := ioprio.ParseClass(*cmd.Class)
		if err != nil {
			return newCLIError(ExitInvalidInput, "bad_class", err.Error())
		}
		prio.Class = class
	}
	if cmd.Level != nil {
		if *cmd.Level < 0 {
			return newCLIError(ExitInvalidInput, "invalid_priority", fmt.Sprintf("invalid number '%d'", *cmd.Level))
		}
		prio.Level = *cmd.Level
	}

	if err := ioprio.Set(ioprio.WhoProcess, cmd.PID, prio); err != nil {
		if !cmd.IgnoreErrors {
			return err
		}
		logger.Debug("ignoring ioprio_set failure", "err", err)
	}

	if len(cmd.Command) == 0 {
		return nil
	}
	return runProgram(cmd.Command)
}

// runProgram replaces the process with argv, looked up in PATH.
func runProgram(argv []string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			err = execErr.Err
		}
		return newCLIError(exitNotFound, "exec_failed", fmt.Sprintf("can't execute '%s': %v", argv[0], err))
	}
	if err := unix.Exec(path, argv, os.Environ()); err != nil {
		code := exitCannotExecute
		if errors.Is(err, unix.ENOENT) {
			code = exitNotFound
		}
		return newCLIError(code, "exec_failed", fmt.Sprintf("can't execute '%s': %v", argv[0], err))
	}
	return nil
}
