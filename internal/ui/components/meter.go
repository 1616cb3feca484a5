// Package components renders small reusable report widgets.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptiq/internal/ui/theme"
)

// Meter is a horizontal bar for a ratio in [0, 1].
type Meter struct {
	Label       string
	Ratio       float64
	ShowPercent bool
	Width       int
}

func NewMeter(label string, ratio float64, showPercent bool, width int) Meter {
	return Meter{Label: label, Ratio: ratio, ShowPercent: showPercent, Width: width}
}

// Filled returns how many of barWidth cells the ratio covers.
func (m Meter) Filled(barWidth int) int {
	filled := int(float64(barWidth) * m.Ratio)
	return max(0, min(filled, barWidth))
}

// View renders the meter. Width bounds the whole line, label included.
func (m Meter) View() string {
	var out string
	if m.Label != "" {
		out = theme.Label.Render(m.Label)
	}

	percentWidth := 0
	if m.ShowPercent {
		percentWidth = 6
	}
	barWidth := max(m.Width-lipgloss.Width(out)-percentWidth, 4)
	filled := m.Filled(barWidth)

	out += lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled))
	out += lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled))

	if m.ShowPercent {
		out += theme.Hint.Render(fmt.Sprintf("  %3d%%", int(m.Ratio*100)))
	}
	return out
}
