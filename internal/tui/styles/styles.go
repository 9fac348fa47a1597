// ABOUTME: Shared lipgloss palette and text styles for the dashboard
// ABOUTME: Run-state colors follow the web dashboard: emerald running, amber stopped, gray idle

package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.Color("#646CFF") // brand indigo, screenshot actions and titles
	Accent    = lipgloss.Color("#8B93FF")
	Secondary = lipgloss.Color("#10B981")
	Danger    = lipgloss.Color("#EF4444")
	Info      = lipgloss.Color("#3B82F6")
	Muted     = lipgloss.Color("#6B7280")
	Surface   = lipgloss.Color("#374151")
	Text      = lipgloss.Color("#F9FAFB")
)

// Run states
var (
	Running = lipgloss.Color("#34D399") // emerald-400
	Stopped = lipgloss.Color("#FBBF24") // amber-400
	Idle    = lipgloss.Color("#9CA3AF") // gray-400
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Subtitle = lipgloss.NewStyle().Foreground(Muted)
	Help     = lipgloss.NewStyle().Foreground(Muted)

	StatusOK       = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	StatusCritical = lipgloss.NewStyle().Foreground(Danger).Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted)

	// ActivePanel marks the pane that receives keys
	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)

	KeyStyle   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	ValueStyle = lipgloss.NewStyle().Foreground(Text).Bold(true)

	// Disabled dims controls the current run state does not allow
	Disabled = lipgloss.NewStyle().Foreground(Surface)
)
