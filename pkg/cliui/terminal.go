package cliui

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	markupterm "github.com/executehq/concierge/pkg/markup/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the column count of f when it is a terminal,
// otherwise $COLUMNS, otherwise the markup renderer's default width.
func TerminalWidth(f *os.File) int {
	if IsTerminal(f) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}

	if cols, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && cols > 0 {
		return cols
	}

	return markupterm.DefaultWidth
}
