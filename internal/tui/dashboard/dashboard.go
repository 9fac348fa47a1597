// ABOUTME: Stats row displaying the live bot status
// ABOUTME: Shows run state, current level, levels completed and the target level

package dashboard

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/autoclick-dashboard/internal/botstate"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/tui/icons"
	"github.com/markalston/autoclick-dashboard/internal/tui/styles"
	"github.com/markalston/autoclick-dashboard/internal/tui/widgets"
)

// Height is the number of rows the stats row occupies
const Height = 5

const minBlockWidth = 16

// Dashboard displays the bot status as a row of metric blocks
type Dashboard struct {
	status    *client.BotStatus
	target    botstate.TargetLevel
	updatedAt time.Time
	width     int
}

// New creates an empty dashboard; View shows a placeholder until Update is called
func New(width int) *Dashboard {
	return &Dashboard{width: width}
}

// Update refreshes the dashboard with the latest status and target
func (d *Dashboard) Update(status *client.BotStatus, target botstate.TargetLevel, updatedAt time.Time) {
	d.status = status
	d.target = target
	d.updatedAt = updatedAt
}

// SetSize updates the dashboard width
func (d *Dashboard) SetSize(width int) {
	d.width = width
}

// View renders the stats row, always Height rows tall
func (d *Dashboard) View() string {
	if d.status == nil {
		return lipgloss.NewStyle().
			Width(max(d.width, 1)).
			Height(Height).
			AlignVertical(lipgloss.Center).
			PaddingLeft(2).
			Render(styles.Subtitle.Render("Waiting for status..."))
	}

	blockWidth := max(minBlockWidth, d.width/4)
	cfg := widgets.DefaultMetricBlockConfig()
	cfg.Width = blockWidth
	cfg.Height = Height

	st := d.status
	level := widgets.BotStatusLevel(st.Status)

	statusBlock := widgets.MetricBlock(
		icons.Status, "Status",
		widgets.Badge(st.Status, level),
		d.updatedLabel(),
		cfg,
	)

	levelBlock := widgets.MetricBlockWithBar(
		icons.Level, "Current Level",
		strconv.Itoa(st.CurrentLevel),
		st.CurrentLevel, d.barTarget(),
		d.progressLabel(),
		widgets.LevelColor(level),
		cfg,
	)

	completedBlock := widgets.MetricBlock(
		icons.Completed, "Completed",
		strconv.Itoa(st.TotalLevelsCompleted),
		"levels won",
		cfg,
	)

	targetBlock := widgets.MetricBlock(
		icons.Target, "Target Level",
		TargetLabel(d.target),
		"t to edit, 0 = unlimited",
		cfg,
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, statusBlock, levelBlock, completedBlock, targetBlock)
}

// barTarget maps the target level onto the level bar's target encoding
func (d *Dashboard) barTarget() int {
	v, ok := d.target.Value()
	if !ok {
		return widgets.TargetUnknown
	}
	return v
}

func (d *Dashboard) progressLabel() string {
	v, ok := d.target.Value()
	switch {
	case !ok:
		return "target loading"
	case v == 0:
		return "no target"
	default:
		return fmt.Sprintf("of %d", v)
	}
}

func (d *Dashboard) updatedLabel() string {
	if d.updatedAt.IsZero() {
		return ""
	}
	return "at " + d.updatedAt.Local().Format("15:04:05")
}

// TargetLabel renders a target level for display: "…" before it is known,
// "Unlimited" for 0
func TargetLabel(t botstate.TargetLevel) string {
	v, ok := t.Value()
	if !ok {
		return "…"
	}
	if v == 0 {
		return "Unlimited"
	}
	return strconv.Itoa(v)
}
