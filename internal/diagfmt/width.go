package diagfmt

import (
	"os"

	"golang.org/x/term"
)

// DetectWidth returns the current terminal width of fd, falling back to
// fallback when fd isn't a terminal or the size can't be determined. Callers
// typically pass os.Stdout.Fd() and use the result for PrettyOpts.Width.
func DetectWidth(fd uintptr, fallback int) int {
	if !term.IsTerminal(int(fd)) {
		return fallback
	}
	w, _, err := term.GetSize(int(fd))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// StdoutWidth is a convenience wrapper around DetectWidth for os.Stdout.
func StdoutWidth(fallback int) int {
	return DetectWidth(os.Stdout.Fd(), fallback)
}
