package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// IsCI reports whether we run inside a CI job.
func IsCI() bool {
	return os.Getenv("CI") == "true"
}

// UseColor returns true if colored output should be written to w.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(w) || IsCI()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// LevelTag returns the fixed-width label for a lint level, optionally colored.
func LevelTag(level string, color bool) string {
	switch level {
	case "deny":
		return colorize("DENY ", colorRed, color)
	case "warn":
		return colorize("WARN ", colorYellow, color)
	case "allow":
		return colorize("ALLOW", colorGray, color)
	default:
		return level
	}
}

// Bold returns bold text if color is enabled.
func Bold(text string, color bool) string {
	return colorize(text, colorBold, color)
}

// Dimmed returns dimmed text if color is enabled.
func Dimmed(text string, color bool) string {
	return colorize(text, colorGray, color)
}

func colorize(text, code string, color bool) string {
	if !color {
		return text
	}
	return code + text + colorReset
}
