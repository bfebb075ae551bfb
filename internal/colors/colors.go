// Package colors provides terminal color support for the abstractions CLI.
//
// This package provides:
// - ANSI color codes for terminal output
// - Functions to colorize text by change kind
// - Automatic color detection and fallback for non-color terminals
package colors

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorGreen = "\033[32m"
	ColorGray  = "\033[90m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightBlue   = "\033[94m"
	BrightCyan   = "\033[96m"
)

// colorEnabled determines if color output should be used
var colorEnabled = shouldUseColor()

// shouldUseColor determines if the terminal supports colors
func shouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// On Windows, check if we're in a modern terminal
	if runtime.GOOS == "windows" {
		term := strings.ToLower(os.Getenv("TERM"))
		wt := os.Getenv("WT_SESSION")
		vscode := os.Getenv("VSCODE_PID")

		if wt != "" || vscode != "" || strings.Contains(term, "color") || strings.Contains(term, "xterm") {
			return true
		}
		return false
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if term == "dumb" || term == "" {
		return false
	}

	// Check if stdout is a terminal
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}

	return true
}

// SetColorEnabled allows manual control of color output
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// IsColorEnabled returns whether colors are currently enabled
func IsColorEnabled() bool {
	return colorEnabled
}

// colorize applies color to text if colors are enabled
func colorize(text, color string) string {
	if !colorEnabled {
		return text
	}
	return color + text + ColorReset
}

// Change-kind coloring functions
func Added(text string) string {
	return colorize(text, BrightGreen)
}

func Modified(text string) string {
	return colorize(text, BrightBlue)
}

func Removed(text string) string {
	return colorize(text, BrightRed)
}

// Generic color functions
func Green(text string) string {
	return colorize(text, BrightGreen)
}

func Yellow(text string) string {
	return colorize(text, BrightYellow)
}

func Cyan(text string) string {
	return colorize(text, BrightCyan)
}

func Gray(text string) string {
	return colorize(text, ColorGray)
}

func Bold(text string) string {
	if !colorEnabled {
		return text
	}
	return ColorBold + text + ColorReset
}

func Dim(text string) string {
	if !colorEnabled {
		return text
	}
	return ColorDim + text + ColorReset
}

// ColorizeChange renders a change line with the +/~/- prefix and color
// matching its kind. Kinds end in _added, _removed or _modified; anything
// else is printed without decoration.
func ColorizeChange(kind, text string) string {
	switch {
	case strings.HasSuffix(kind, "_added"):
		return fmt.Sprintf("  %s  %s", Added("+"), Green(text))
	case strings.HasSuffix(kind, "_modified"):
		return fmt.Sprintf("  %s  %s", Modified("~"), colorize(text, BrightBlue))
	case strings.HasSuffix(kind, "_removed"):
		return fmt.Sprintf("  %s  %s", Removed("-"), colorize(text, BrightRed))
	default:
		return fmt.Sprintf("     %s", text)
	}
}

// Section headers with colors
func SectionHeader(text string) string {
	return Bold(text)
}

func ErrorText(text string) string {
	return colorize(text, BrightRed)
}

func SuccessText(text string) string {
	return Green(text)
}

func InfoText(text string) string {
	return Cyan(text)
}
