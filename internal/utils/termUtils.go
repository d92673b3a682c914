package utils

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// DetectTerminalWidth tries to get the terminal width, falling back to a default if necessary.
func DetectTerminalWidth(fallback int) int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		w, _, err := term.GetSize(int(fd))
		if err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

// ColumnsFor returns how many cells of cellWidth fit side by side in
// termWidth, separated by gap. At least one column is always returned.
func ColumnsFor(termWidth, cellWidth, gap int) int {
	if cellWidth <= 0 {
		return 1
	}
	cols := (termWidth + gap) / (cellWidth + gap)
	if cols < 1 {
		cols = 1
	}
	return cols
}
