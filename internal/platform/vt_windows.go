//go:build windows

package platform

import (
	"os"

	"golang.org/x/sys/windows"
)

// EnableVirtualTerminal switches the console behind f to ANSI escape
// processing so colour codes render instead of printing raw.
func EnableVirtualTerminal(f *os.File) error {
	h := windows.Handle(f.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return err
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return nil
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}
