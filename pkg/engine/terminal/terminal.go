package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24

	// MinWidth keeps meters readable on very narrow terminals.
	MinWidth = 40
)

// GetSize returns the width and height of the terminal behind f.
// Falls back to defaults if f is not a terminal.
func GetSize(f *os.File) (width, height int) {
	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// GetWidth returns the usable width of stdout, never below MinWidth.
func GetWidth() int {
	width, _ := GetSize(os.Stdout)
	return max(width, MinWidth)
}

// IsInteractive reports whether f is a terminal a player can type into.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Clear moves the cursor home and clears the screen.
func Clear(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}
