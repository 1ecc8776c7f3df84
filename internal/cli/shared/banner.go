package shared

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Logo is the ASCII art logo for pystrap - minimal block style.
// Both lines are exactly 26 display characters wide.
var Logo = []string{
	"█▀█ █▄█ █▀ ▀█▀ █▀█ ▄▀█ █▀█",
	"█▀▀  █  ▄█  █  █▀▄ █▀█ █▀▀",
}

// Tagline is the project tagline.
const Tagline = "Python project scaffolding"

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintBanner prints the colored ASCII logo and tagline.
func PrintBanner(out io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintln(out)
	for _, line := range Logo {
		fmt.Fprintln(out, cyan(line))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, dim(Tagline))
	fmt.Fprintln(out)
}

// Colors provides reusable color functions for CLI output.
type Colors struct {
	Cyan   func(a ...interface{}) string
	Green  func(a ...interface{}) string
	Yellow func(a ...interface{}) string
	Red    func(a ...interface{}) string
	Dim    func(a ...interface{}) string
}

// NewColors creates a new Colors instance with standard terminal colors.
func NewColors() *Colors {
	return &Colors{
		Cyan:   color.New(color.FgCyan, color.Bold).SprintFunc(),
		Green:  color.New(color.FgGreen).SprintFunc(),
		Yellow: color.New(color.FgYellow).SprintFunc(),
		Red:    color.New(color.FgRed).SprintFunc(),
		Dim:    color.New(color.Faint).SprintFunc(),
	}
}
