package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the terminal styles used by the viewer
type Styles struct {
	Header    lipgloss.Style
	Level     lipgloss.Style
	Job       lipgloss.Style
	Muted     lipgloss.Style
	Condition lipgloss.Style
	Warning   lipgloss.Style
}

// DefaultStyles returns the colored styles. lipgloss drops the colors when
// output is not a terminal.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true),
		Level:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		Job:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Condition: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

// PlainStyles returns styles that render text unchanged
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:    plain,
		Level:     plain,
		Job:       plain,
		Muted:     plain,
		Condition: plain,
		Warning:   plain,
	}
}

const rule = "═══════════════════════════════════════════════════════════"

// padRight pads s to width terminal cells
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// maxWidth returns the widest of values in terminal cells
func maxWidth(values []string) int {
	widest := 0
	for _, v := range values {
		if w := lipgloss.Width(v); w > widest {
			widest = w
		}
	}
	return widest
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// firstLine returns the first line of a possibly multi-line script
func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
