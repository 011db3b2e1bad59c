package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirmOverwrite asks "overwrite 'DEST'?". On a terminal it shows a huh
// confirm; otherwise it reads an answer line from stdin.
func confirmOverwrite(applet string) func(dest string) (bool, error) {
	return func(dest string) (bool, error) {
		question := fmt.Sprintf("%s: overwrite '%s'?", applet, dest)
		if stdinIsTerminal() {
			var ok bool
			err := runField(huh.NewConfirm().Title(question).Value(&ok))
			return ok, err
		}
		fmt.Fprint(os.Stderr, question+" ")
		return askYes(os.Stdin)
	}
}

// askYes reads one line and reports whether it starts with y or Y after
// leading blanks. EOF counts as no.
func askYes(r io.Reader) (bool, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	line = strings.TrimLeft(line, " \t")
	return strings.HasPrefix(line, "y") || strings.HasPrefix(line, "Y"), nil
}

func runField(field huh.Field) error {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"))

	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.MarginBottom(1)
	t.Blurred.Base = t.Blurred.Base.MarginBottom(1)

	return huh.NewForm(huh.NewGroup(field)).
		WithShowHelp(false).
		WithKeyMap(km).
		WithTheme(t).
		Run()
}
