package main

import "path/filepath"

// applet describes one multi-call entry point.
type applet struct {
	Name    string `json:"name"`
	Usage   string `json:"usage"`
	Summary string `json:"summary"`
}

var applets = []applet{
	{"date", "date [-u] [-d STRING] [--minimal] [+FORMAT]", "Print the current date or a parsed one"},
	{"touch", "touch [-c] [-a] [-m] [-d DATE] [-t STAMP] [-r REF] FILE...", "Update file timestamps"},
	{"mv", "mv [-finTv] SOURCE... {DEST | -t DIR}", "Move or rename files"},
	{"shred", "shred [-fuzvx] [-n N] [-s SIZE] FILE...", "Overwrite files to hide their contents"},
	{"ionice", "ionice [-c 1-3] [-n 0-7] [-t] {-p PID | PROG ARGS}", "Get or set I/O scheduling class"},
	{"kernel-version", "kernel-version [--release STRING]", "Print the kernel version code"},
	{"rtmap", "rtmap {type NAME... | realms SPEC...}", "Map route types and realms"},
}

// appletArgs turns argv into kong arguments. When the binary is invoked
// through a link named after an applet, that name becomes the command.
func appletArgs(argv []string) []string {
	if len(argv) == 0 {
		return nil
	}
	name := filepath.Base(argv[0])
	for _, a := range applets {
		if a.Name == name {
			return append([]string{name}, argv[1:]...)
		}
	}
	return argv[1:]
}
