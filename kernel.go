package main

import (
	"fmt"

	"github.com/lvrach/nanobox/internal/kernel"
)

// KernelVersionCmd prints the kernel version code.
type KernelVersionCmd struct {
	Release string `placeholder:"STRING" help:"Encode this release string instead of the running kernel's."`
}

type kernelResult struct {
	Release string `json:"release,omitempty"`
	Code    int    `json:"code"`
	Version string `json:"version"`
}

func (cmd *KernelVersionCmd) Run(globals *Globals) error {
	var code int
	if cmd.Release != "" {
		code = kernel.ParseRelease(cmd.Release)
	} else {
		var err error
		if code, err = kernel.Current(); err != nil {
			return err
		}
	}

	if globals.JSON {
		printResultJSON(kernelResult{Release: cmd.Release, Code: code, Version: kernel.String(code)})
		return nil
	}
	printSuccessHuman(fmt.Sprintf("%d %s", code, kernel.String(code)))
	return nil
}
