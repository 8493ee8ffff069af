package platform

import (
	"os"
	"strings"

	"golang.org/x/term"
)

func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// ColorEnabled reports whether coloured output should be written to f.
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	t := strings.TrimSpace(os.Getenv("TERM"))
	if t == "dumb" {
		return false
	}
	if !IsTerminal(f) {
		return false
	}
	return EnableVirtualTerminal(f) == nil
}
