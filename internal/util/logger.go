package util

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Logger is the process-wide diagnostic logger. Commands point it at stderr
// so listings and summaries on stdout stay clean.
var Logger = log.NewWithOptions(io.Discard, log.Options{})

// InitLoggerTo points Logger at w. Debug mode lowers the level to debug and
// adds caller and timestamp fields.
func InitLoggerTo(w io.Writer) {
	r := lipgloss.NewRenderer(w)
	prefix := r.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#1E5AA8")).
		Bold(true).
		Padding(0, 1).
		Render("tqc")

	level := log.InfoLevel
	if IsDebug {
		level = log.DebugLevel
	}
	Logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportCaller:    IsDebug,
		ReportTimestamp: IsDebug,
		TimeFormat:      "15:04:05",
	})
	if r.ColorProfile() == termenv.Ascii {
		Logger.SetColorProfile(termenv.Ascii)
	}
	Logger.Debug("debug logging enabled")
}

// Debug logs msg with key/value pairs when debug mode is on
func Debug(msg string, keyvals ...any) {
	Logger.Helper()
	Logger.Debug(msg, keyvals...)
}

// Debugf is Debug with a format string
func Debugf(format string, args ...any) {
	Logger.Helper()
	Logger.Debug(fmt.Sprintf(format, args...))
}

func Info(msg string, keyvals ...any) {
	Logger.Helper()
	Logger.Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...any) {
	Logger.Helper()
	Logger.Warn(msg, keyvals...)
}
