// ABOUTME: Level progress bar for the stats row
// ABOUTME: Fills toward a target level; unlimited and unknown targets draw an empty track

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/autoclick-dashboard/internal/tui/styles"
)

// Target values with no fill. Positive targets are real limits.
const (
	TargetUnknown   = -1
	TargetUnlimited = 0
)

// LevelBar renders progress of current toward target in width cells.
// An unlimited target ends the empty track with ∞; an unknown one leaves it bare.
func LevelBar(current, target, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}
	track := lipgloss.NewStyle().Foreground(styles.Surface)

	switch {
	case target < 0:
		return track.Render(strings.Repeat("░", width))
	case target == 0:
		if width < 3 {
			return track.Render(strings.Repeat("░", width))
		}
		return track.Render(strings.Repeat("░", width-2)) + " " +
			lipgloss.NewStyle().Foreground(color).Render("∞")
	}

	filled := max(0, min(width, current*width/target))
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		track.Render(strings.Repeat("░", width-filled))
}
