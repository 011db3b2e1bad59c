package main

import (
	"encoding/json"
	"fmt"

	"github.com/lvrach/nanobox/internal/config"
)

// ConfigCmd shows or initializes the configuration file.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Print the effective configuration."`
	Init ConfigInitCmd `cmd:"" help:"Write the default configuration file."`
}

type ConfigShowCmd struct{}

func (cmd *ConfigShowCmd) Run(globals *Globals, cfg *config.Config) error {
	if globals.JSON {
		printResultJSON(cfg)
		return nil
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n%s\n", config.Path(), data)
	return nil
}

type ConfigInitCmd struct {
	Force bool `short:"f" help:"Overwrite an existing configuration file."`
}

func (cmd *ConfigInitCmd) Run(globals *Globals) error {
	if config.Exists() && !cmd.Force {
		return newCLIError(ExitFailure, "config_exists",
			fmt.Sprintf("%s already exists; use --force to overwrite", config.Path()))
	}
	if err := config.Save(config.Default()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	msg := "Wrote " + config.Path()
	if globals.JSON {
		printSuccessJSON(msg)
	} else {
		printSuccessHuman(msg)
	}
	return nil
}
