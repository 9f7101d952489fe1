package util

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	IsDebug bool

	// Error styling
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	debugErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF4757")).
			Padding(1, 2)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA726")).
			Bold(true)
)

// SetDebugMode sets the debug mode. Timing collection follows it.
func SetDebugMode(debug bool) {
	IsDebug = debug
	PerfEnabled = debug
}

// IsInteractive reports whether f is attached to a terminal
func IsInteractive(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ErrorHandler returns a stylized error message. Debug mode shows the full
// %+v rendering, which includes pkg/errors stack traces.
func ErrorHandler(err error) string {
	if IsDebug {
		header := errorStyle.Render("DEBUG ERROR")
		body := debugErrorStyle.Render(fmt.Sprintf("%+v", err))
		return fmt.Sprintf("%s\n%s", header, body)
	}

	styledError := errorStyle.Render(fmt.Sprintf("Error: %v", err))
	styledHint := warningStyle.Render("run the command with --debug to see details")
	return fmt.Sprintf("%s\n%s", styledError, styledHint)
}
