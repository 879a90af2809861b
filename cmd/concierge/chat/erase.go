package chatcmder

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/ansi"
)

// eraseSequence returns the escape sequence that moves the cursor back to
// the start of text, as printed after a prompt prefixWidth columns wide on
// a terminal width columns wide, and clears everything below it.
func eraseSequence(prefixWidth int, text string, width int) string {
	rows := 0
	for i, line := range strings.Split(text, "\n") {
		w := ansi.PrintableRuneWidth(line)
		if i == 0 {
			w += prefixWidth
		}
		rows += screenRows(w, width)
	}

	var b strings.Builder
	b.WriteString("\r")
	if rows > 1 {
		fmt.Fprintf(&b, "\x1b[%dA", rows-1)
	}
	b.WriteString("\x1b[J")
	return b.String()
}

// screenRows is the number of terminal rows a line w columns wide occupies.
func screenRows(w, width int) int {
	if width <= 0 || w <= width {
		return 1
	}
	return (w + width - 1) / width
}
