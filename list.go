package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// ListCmd prints the applets this binary can run.
type ListCmd struct{}

func (cmd *ListCmd) Run(globals *Globals) error {
	if globals.JSON {
		printResultJSON(applets)
		return nil
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		for _, a := range applets {
			fmt.Println(a.Name)
		}
		return nil
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = 80
	}
	fmt.Print(renderMarkdown(appletTable(), width))
	return nil
}

func appletTable() string {
	var b strings.Builder
	b.WriteString("# nanobox applets\n\n")
	b.WriteString("| Applet | Usage | Description |\n|---|---|---|\n")
	for _, a := range applets {
		fmt.Fprintf(&b, "| **%s** | `%s` | %s |\n", a.Name, a.Usage, a.Summary)
	}
	b.WriteString("\nLink the binary under an applet's name to run it directly, e.g. `ln -s nanobox mv`.\n")
	return b.String()
}

// renderMarkdown renders md for the terminal using glamour. If rendering
// fails, the raw markdown is returned as a fallback.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	rendered, err := r.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
