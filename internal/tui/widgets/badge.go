// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Maps bot run states onto colored inline badges

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/tui/icons"
	"github.com/markalston/autoclick-dashboard/internal/tui/styles"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// badgeInk is the text color drawn on a badge background
var (
	badgeInk     = lipgloss.Color("#FFFFFF")
	badgeInkDark = lipgloss.Color("#111827")
)

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := levelColors(level)

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// BotStatusLevel maps a run state to a color: RUNNING green, STOPPED amber,
// IDLE gray, anything else blue
func BotStatusLevel(status string) StatusLevel {
	switch status {
	case client.StateRunning:
		return StatusOK
	case client.StateStopped:
		return StatusWarning
	case client.StateIdle:
		return StatusNeutral
	default:
		return StatusInfo
	}
}

// LevelColor returns the foreground color for a status level
func LevelColor(level StatusLevel) lipgloss.Color {
	bg, _ := levelColors(level)
	return bg
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	style := lipgloss.NewStyle().Foreground(LevelColor(level))
	switch level {
	case StatusOK:
		return style.Render(icons.CheckOK.String())
	case StatusWarning:
		return style.Render(icons.Warning.String())
	case StatusCritical:
		return style.Render(icons.Critical.String())
	case StatusInfo:
		return style.Render(icons.Info.String())
	default:
		return style.Render("•")
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	textStyle := lipgloss.NewStyle().Foreground(LevelColor(level))
	return fmt.Sprintf("%s %s", StatusIcon(level), textStyle.Render(text))
}

// ResultBadge renders WIN green and LOSS red
func ResultBadge(result string) string {
	switch result {
	case client.ResultWin:
		return Badge(result, StatusOK)
	case client.ResultLoss:
		return Badge(result, StatusCritical)
	default:
		return Badge(result, StatusNeutral)
	}
}

func levelColors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return styles.Running, badgeInkDark
	case StatusWarning:
		return styles.Stopped, badgeInkDark
	case StatusCritical:
		return styles.Danger, badgeInk
	case StatusInfo:
		return styles.Info, badgeInk
	default:
		return styles.Idle, badgeInkDark
	}
}
