package playground

import (
	"cmp"

	"github.com/charmbracelet/lipgloss"
)

// Layout.
const (
	// HeaderHeight is the number of rows of the header line.
	HeaderHeight = 1

	// StatusBarHeight is the number of rows of the key-hint bar.
	StatusBarHeight = 1

	dividerGlyph = "│"
)

// Colors.
var (
	colorLayout    = lipgloss.AdaptiveColor{Light: "#949494", Dark: "#444444"}
	colorText      = lipgloss.AdaptiveColor{Light: "#111111", Dark: "#eeeeee"}
	colorSubtle    = lipgloss.AdaptiveColor{Light: "#8a8a8a", Dark: "#6c6c6c"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "#7e57c2", Dark: "#b39ddb"}
	colorSelected  = lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#303030"}
	colorGood      = lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#81c784"}
	colorWarning   = lipgloss.AdaptiveColor{Light: "#ef6c00", Dark: "#ffb74d"}
	colorError     = lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#e57373"}
	colorInfo      = lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#64b5f6"}
	colorDebugText = lipgloss.AdaptiveColor{Light: "#616161", Dark: "#9e9e9e"}
)

// Header.
var (
	headerStyle = lipgloss.NewStyle()

	fileNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorSubtle).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(colorText).
			Background(colorSelected).
			Padding(0, 1)

	resetButtonStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Padding(0, 1)

	runStatusStyles = map[string]lipgloss.Style{
		"idle":    lipgloss.NewStyle().Foreground(colorSubtle).Padding(0, 1),
		"running": lipgloss.NewStyle().Foreground(colorWarning).Padding(0, 1),
		"ok":      lipgloss.NewStyle().Foreground(colorGood).Padding(0, 1),
		"error":   lipgloss.NewStyle().Foreground(colorError).Padding(0, 1),
	}
)

// Panes.
var (
	dividerStyle         = lipgloss.NewStyle().Foreground(colorLayout)
	dividerDraggingStyle = lipgloss.NewStyle().Foreground(colorAccent)

	previewErrorStyle = lipgloss.NewStyle().Foreground(colorError)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtle).
			Padding(0, 1)
)

// Console pane.
var (
	consolePaneHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorText)

	consoleClearButtonStyle = lipgloss.NewStyle().Foreground(colorAccent)

	consoleHintStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	consoleHighlightStyle = lipgloss.NewStyle().Background(colorSelected)

	navInfoStyle = lipgloss.NewStyle().Foreground(colorSubtle)
)

// consoleLevelStyle returns the style of the level column.
func consoleLevelStyle(level LogLevel) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch level {
	case LevelWarn:
		return s.Foreground(colorWarning)
	case LevelError:
		return s.Foreground(colorError)
	case LevelInfo:
		return s.Foreground(colorInfo)
	case LevelDebug:
		return s.Foreground(colorDebugText)
	default:
		return s.Foreground(colorSubtle)
	}
}

// consoleValueStyle returns the style of an entry's text.
func consoleValueStyle(level LogLevel) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch level {
	case LevelWarn:
		return s.Foreground(colorWarning)
	case LevelError:
		return s.Foreground(colorError)
	case LevelDebug:
		return s.Foreground(colorDebugText)
	default:
		return s.Foreground(colorText)
	}
}

func clamp[T cmp.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
