// ABOUTME: Compact metric block widget for dashboard displays
// ABOUTME: Combines icon, value, progress bar or sparkline in a bordered panel

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/autoclick-dashboard/internal/tui/icons"
	"github.com/markalston/autoclick-dashboard/internal/tui/styles"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	Height      int // total rows including borders; 0 fits the content
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       22,
		BorderColor: styles.Muted,
		TitleColor:  styles.Primary,
		ValueColor:  styles.Text,
	}
}

// MetricBlock renders a compact metric display block. value may already be
// styled (for example a badge); padding is computed on display width.
func MetricBlock(icon icons.Icon, title string, value string, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 22
	}
	innerWidth := config.Width - 4

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	return box(icon, title, config, []string{
		valueStyle.Render(value),
		subtitleStyle.Render(truncate(subtitle, innerWidth)),
	})
}

// MetricBlockWithBar renders a metric block with a level bar under the value;
// target follows LevelBar
func MetricBlockWithBar(icon icons.Icon, title string, value string, current, target int, details string, barColor lipgloss.Color, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 22
	}
	innerWidth := config.Width - 4

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	detailStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	return box(icon, title, config, []string{
		valueStyle.Render(value),
		LevelBar(current, target, innerWidth, barColor),
		detailStyle.Render(truncate(details, innerWidth)),
	})
}

// MetricBlockWithSparkline renders a metric block with a sparkline next to the value
func MetricBlockWithSparkline(icon icons.Icon, title string, value string, sparkData []float64, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 22
	}
	innerWidth := config.Width - 4
	sparkWidth := min(8, max(0, innerWidth-lipgloss.Width(value)-2))

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	spark := Sparkline(sparkData, sparkWidth, config.TitleColor)

	return box(icon, title, config, []string{
		valueStyle.Render(value) + "  " + spark,
		subtitleStyle.Render(truncate(subtitle, innerWidth)),
	})
}

// box draws the title-in-border frame around lines
func box(icon icons.Icon, title string, config MetricBlockConfig, lines []string) string {
	innerWidth := config.Width - 4

	titleStr := truncate(fmt.Sprintf("%s %s", icon.String(), title), config.Width-5)
	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)

	// ┌─ title ───┐ spans Width columns: 3 + title + 1 + fill + 1
	fill := max(0, config.Width-5-lipgloss.Width(titleStr))
	out := []string{
		borderStyle.Render("┌─ ") + titleStyle.Render(titleStr) + borderStyle.Render(" "+strings.Repeat("─", fill)+"┐"),
	}
	for len(lines) < config.Height-2 {
		lines = append(lines, "")
	}
	for _, line := range lines {
		pad := max(0, innerWidth-lipgloss.Width(line))
		out = append(out, borderStyle.Render("│  ")+line+strings.Repeat(" ", pad)+borderStyle.Render("│"))
	}
	out = append(out, borderStyle.Render("└"+strings.Repeat("─", config.Width-2)+"┘"))

	return strings.Join(out, "\n")
}

// truncate shortens a string to maxLen display columns with ellipsis if needed
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:min(len(runes), maxLen)])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > maxLen {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
