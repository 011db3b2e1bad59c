package main

import (
	"errors"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/lvrach/nanobox/internal/config"
)

// Globals holds flags shared across all commands.
type Globals struct {
	JSON  bool `help:"Output JSON for script consumption." short:"j"`
	Debug bool `help:"Log debug details to stderr."`
}

// CLI is the root command structure for nanobox.
type CLI struct {
	Globals

	Date          DateCmd          `cmd:"" help:"Print the current date or a date given with -d."`
	Touch         TouchCmd         `cmd:"" help:"Update file timestamps, creating missing files."`
	Mv            MvCmd            `cmd:"" help:"Move or rename files."`
	Shred         ShredCmd         `cmd:"" help:"Overwrite files to hide their contents."`
	Ionice        IoniceCmd        `cmd:"" help:"Get or set a process I/O scheduling class."`
	KernelVersion KernelVersionCmd `cmd:"" name:"kernel-version" help:"Print the running kernel version code."`
	Rtmap         RtmapCmd         `cmd:"" help:"Map route types and realms between names and numbers."`
	List          ListCmd          `cmd:"" help:"List the available applets."`
	Config        ConfigCmd        `cmd:"" help:"Show or initialize the configuration file."`
}

func main() {
	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("nanobox"),
		kong.Description("Small system utilities in one binary. Symlink it as an applet name to run that applet."),
		kong.UsageOnError(),
	)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(appletArgs(os.Args))
	parser.FatalIfErrorf(err)

	logger := newLogger(cli.Debug)
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using default config", "path", config.Path(), "err", err)
		cfg = config.Default()
	}

	applet := strings.Fields(ctx.Command())[0]
	err = ctx.Run(&cli.Globals, logger, &cfg)
	if err != nil {
		// Ctrl+C / Ctrl+D: exit silently.
		if isUserAbort(err) {
			os.Exit(0)
		}

		var cliErr *CLIError
		if ok := asCLIError(err, &cliErr); ok {
			if cliErr.Message != "" {
				printError(&cli.Globals, applet, cliErr.Message, cliErr.Code)
			}
			os.Exit(cliErr.ExitCode)
		}
		printError(&cli.Globals, applet, err.Error(), "runtime_error")
		os.Exit(ExitFailure)
	}
}

func newLogger(debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:  level,
		Prefix: "nanobox",
	})
}

// isUserAbort returns true for errors caused by the user
// quitting an interactive prompt (Ctrl+C, Ctrl+D).
func isUserAbort(err error) bool {
	if errors.Is(err, huh.ErrUserAborted) {
		return true
	}
	// huh wraps bubbletea errors as "huh: <err>"
	if strings.Contains(err.Error(), "user aborted") {
		return true
	}
	return false
}
