package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lvrach/nanobox/internal/config"
	"github.com/lvrach/nanobox/internal/datetime"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// DateCmd prints the current time, or the time described by -d, in a
// strftime format.
type DateCmd struct {
	UTC     bool   `short:"u" name:"utc" help:"Work in UTC instead of local time."`
	Date    string `short:"d" name:"date" placeholder:"STRING" help:"Show the time described by STRING instead of now."`
	Minimal bool   `help:"Only accept HH:MM[:SS], mm.dd-HH:MM, yyyy.mm.dd-HH:MM, yyyy-mm-dd [HH[:MM[:SS]]], @EPOCH and compact digits."`

	Format string `arg:"" optional:"" name:"format" help:"Output format, e.g. +%Y-%m-%d."`
}

type dateResult struct {
	Formatted string `json:"formatted"`
	Unix      int64  `json:"unix"`
	RFC3339   string `json:"rfc3339"`
	Kind      string `json:"kind"`
}

func (cmd *DateCmd) Run(globals *Globals, cfg *config.Config) error {
	layout := cfg.Date.Format
	if cmd.Format != "" {
		if !strings.HasPrefix(cmd.Format, "+") {
			return newCLIError(ExitUsage, "usage", fmt.Sprintf("invalid date '%s'", cmd.Format))
		}
		layout = cmd.Format[1:]
	}

	loc := time.Local
	if cmd.UTC {
		loc = time.UTC
	}
	parser := datetime.Parser{Location: loc, Minimal: cmd.Minimal || cfg.Datetime.Minimal}

	t, kind := timeNow().In(loc), datetime.KindResolved
	if cmd.Date != "" {
		var err error
		t, kind, err = parser.ParseTime(cmd.Date, t)
		if err != nil {
			return newCLIError(ExitInvalidInput, "invalid_date", err.Error())
		}
	}

	out, err := datetime.Format(t, layout)
	if err != nil {
		return newCLIError(ExitInvalidInput, "invalid_format", fmt.Sprintf("invalid format '%s': %v", layout, err))
	}
	if globals.JSON {
		printResultJSON(dateResult{Formatted: out, Unix: t.Unix(), RFC3339: t.Format(time.RFC3339), Kind: kind.String()})
		return nil
	}
	printSuccessHuman(out)
	return nil
}
