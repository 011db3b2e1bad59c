package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitUsage        = 2
	ExitInvalidInput = 3
)

// CLIError is a structured error with an exit code and machine-readable code.
// An empty Message means the details were already reported.
type CLIError struct {
	ExitCode int
	Code     string
	Message  string
}

func (e *CLIError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

// asCLIError unwraps err into a *CLIError.
func asCLIError(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// newCLIError creates a new CLIError.
func newCLIError(exitCode int, code, message string) *CLIError {
	return &CLIError{ExitCode: exitCode, Code: code, Message: message}
}

// errOperandsFailed ends a batch applet whose per-operand errors were
// already printed.
var errOperandsFailed = &CLIError{ExitCode: ExitFailure, Code: "operand_failed"}

var appletStyle = lipgloss.NewRenderer(os.Stderr).NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

// JSON response types.
type jsonResponse struct {
	Status  string `json:"status"`
	Applet  string `json:"applet,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func printResultJSON(v any) {
	b, _ := json.Marshal(v)
	fmt.Fprintln(os.Stdout, string(b))
}

func printSuccessJSON(message string) {
	printResultJSON(jsonResponse{Status: "ok", Message: message})
}

func printErrorJSON(applet, message, code string) {
	resp := jsonResponse{Status: "error", Applet: applet, Error: code, Message: message}
	b, _ := json.Marshal(resp)
	fmt.Fprintln(os.Stderr, string(b))
}

func printSuccessHuman(message string) {
	fmt.Fprintln(os.Stdout, message)
}

func printErrorHuman(applet, message string) {
	fmt.Fprintln(os.Stderr, appletStyle.Render(applet+":")+" "+message)
}

func printError(globals *Globals, applet, message, code string) {
	if globals.JSON {
		printErrorJSON(applet, message, code)
	} else {
		printErrorHuman(applet, message)
	}
}

// reportOperand prints a per-operand failure without stopping the batch.
func reportOperand(globals *Globals, applet string, err error) {
	code := "operand_failed"
	var cliErr *CLIError
	if asCLIError(err, &cliErr) {
		code = cliErr.Code
	}
	printError(globals, applet, err.Error(), code)
}
