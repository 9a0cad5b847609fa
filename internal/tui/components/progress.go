// Package components provides shared UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressFullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4"))
	progressEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3d5a80"))
	progressLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// ProgressBar renders "████░░░░ done/total" fitted into width cells.
func ProgressBar(done, total, width int) string {
	label := fmt.Sprintf(" %d/%d", done, total)
	barWidth := width - len(label)
	if barWidth < 1 || total <= 0 {
		return progressLabelStyle.Render(strings.TrimSpace(label))
	}

	filled := done * barWidth / total
	if filled > barWidth {
		filled = barWidth
	}

	return progressFullStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", barWidth-filled)) +
		progressLabelStyle.Render(label)
}

// Percent returns part as a whole-number percentage of total.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return part * 100 / total
}
