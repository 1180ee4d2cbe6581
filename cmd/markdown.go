package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// printMarkdown writes a report to stdout. On a terminal it is styled and
// word-wrapped to the terminal width; everywhere else (pipes, redirects) the
// raw markdown goes through untouched so the output stays grep- and
// diff-friendly.
func printMarkdown(md string) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Print(md)
		return
	}
	styled, err := renderMarkdown(md, terminalWidth(fd))
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(styled)
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// terminalWidth falls back to 80 columns when the size cannot be queried.
func terminalWidth(fd int) int {
	if width, _, err := term.GetSize(fd); err == nil && width > 0 {
		return width
	}
	return 80
}
