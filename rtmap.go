package main

import (
	"fmt"

	"github.com/lvrach/nanobox/internal/config"
	"github.com/lvrach/nanobox/internal/rtnl"
)

// RtmapCmd groups the route attribute mappers.
type RtmapCmd struct {
	Type   RtmapTypeCmd   `cmd:"" help:"Map route type names to numbers and back."`
	Realms RtmapRealmsCmd `cmd:"" help:"Encode FROM/TO realm specs."`
}

// RtmapTypeCmd resolves route types such as "unicast", "brd" or "0x10".
type RtmapTypeCmd struct {
	Types []string `arg:"" name:"type" help:"Route type names or numbers."`
}

type routeTypeResult struct {
	Input string `json:"input"`
	ID    uint8  `json:"id"`
	Name  string `json:"name"`
}

func (cmd *RtmapTypeCmd) Run(globals *Globals) error {
	failed := false
	for _, in := range cmd.Types {
		t, err := rtnl.ParseRouteType(in)
		if err != nil {
			reportOperand(globals, "rtmap", newCLIError(ExitInvalidInput, "invalid_route_type", err.Error()))
			failed = true
			continue
		}
		if globals.JSON {
			printResultJSON(routeTypeResult{Input: in, ID: uint8(t), Name: t.String()})
			continue
		}
		printSuccessHuman(fmt.Sprintf("%d\t%s", uint8(t), t))
	}
	if failed {
		return errOperandsFailed
	}
	return nil
}

// RtmapRealmsCmd encodes realm specs using the names in an rt_realms file.
type RtmapRealmsCmd struct {
	File  string   `placeholder:"PATH" help:"rt_realms file (default: config rtmap.realms_file)."`
	Specs []string `arg:"" name:"spec" help:"REALM or FROM/TO."`
}

type realmsResult struct {
	Input  string `json:"input"`
	Realms uint32 `json:"realms"`
	Name   string `json:"name"`
}

func (cmd *RtmapRealmsCmd) Run(globals *Globals, cfg *config.Config) error {
	path := cmd.File
	if path == "" {
		path = cfg.Rtmap.RealmsFile
	}
	tab, err := rtnl.LoadRealms(path)
	if err != nil {
		return fmt.Errorf("can't read '%s': %w", path, err)
	}

	failed := false
	for _, in := range cmd.Specs {
		realms, err := rtnl.ParseRealms(in, tab)
		if err != nil {
			reportOperand(globals, "rtmap", newCLIError(ExitInvalidInput, "invalid_realm", err.Error()))
			failed = true
			continue
		}
		name := rtnl.FormatRealms(realms, tab)
		if globals.JSON {
			printResultJSON(realmsResult{Input: in, Realms: realms, Name: name})
			continue
		}
		printSuccessHuman(fmt.Sprintf("0x%08x\t%s", realms, name))
	}
	if failed {
		return errOperandsFailed
	}
	return nil
}
