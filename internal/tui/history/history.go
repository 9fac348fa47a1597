// ABOUTME: Logs panel listing past run attempts
// ABOUTME: Renders the pager's entries as a table with a duration trend and load-more state

package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/logpager"
	"github.com/markalston/autoclick-dashboard/internal/tui/icons"
	"github.com/markalston/autoclick-dashboard/internal/tui/styles"
	"github.com/markalston/autoclick-dashboard/internal/tui/widgets"
)

// Column widths
const (
	colResult   = 8
	colLevel    = 7
	colDuration = 9
)

// Panel displays the log pager
type Panel struct {
	pager  *logpager.Pager
	width  int
	height int
	scroll int
}

// New creates a panel over pager
func New(pager *logpager.Pager) *Panel {
	return &Panel{pager: pager}
}

// SetSize sets the outer panel size including borders
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.clampScroll()
}

// ScrollDown moves the list toward older entries
func (p *Panel) ScrollDown() {
	p.scroll++
	p.clampScroll()
}

// ScrollUp moves the list toward newer entries
func (p *Panel) ScrollUp() {
	p.scroll--
	p.clampScroll()
}

// ResetScroll returns to the newest entry
func (p *Panel) ResetScroll() {
	p.scroll = 0
}

func (p *Panel) listHeight() int {
	// border 2, title, header and load-more rows
	return max(0, p.height-5)
}

func (p *Panel) clampScroll() {
	maxScroll := max(0, len(p.pager.Entries())-p.listHeight())
	p.scroll = min(max(p.scroll, 0), maxScroll)
}

// View renders the panel
func (p *Panel) View() string {
	inner := p.width - 2
	if inner <= 0 || p.height <= 2 {
		return ""
	}

	lines := []string{p.title(inner), p.header()}
	lines = append(lines, p.rows(inner)...)
	lines = append(lines, lipgloss.NewStyle().MaxWidth(inner).Render(p.footer()))

	return styles.Panel.Width(inner).Height(p.height - 2).MaxWidth(p.width).Render(strings.Join(lines, "\n"))
}

func (p *Panel) title(width int) string {
	entries := p.pager.Entries()
	left := styles.Title.Render(icons.Chart.String() + " Recent Attempts")
	count := ""
	if p.pager.HasFetched() && p.pager.Total() > 0 {
		count = styles.Subtitle.Render(fmt.Sprintf(" (%d of %d)", len(entries), p.pager.Total()))
	}

	sparkWidth := width - lipgloss.Width(left) - lipgloss.Width(count) - 1
	spark := ""
	if sparkWidth > 4 {
		spark = widgets.Sparkline(Durations(entries), min(sparkWidth, 16), styles.Accent)
	}
	fill := max(1, width-lipgloss.Width(left)-lipgloss.Width(count)-lipgloss.Width(spark))
	return lipgloss.NewStyle().MaxWidth(width).Render(left + count + strings.Repeat(" ", fill) + spark)
}

func (p *Panel) header() string {
	return styles.Subtitle.Render(
		pad("Result", colResult) + pad("Level", colLevel) + pad("Duration", colDuration) + "Time",
	)
}

func (p *Panel) rows(width int) []string {
	n := p.listHeight()
	entries := p.pager.Entries()

	if len(entries) == 0 {
		msg := "No logs found"
		if !p.pager.HasFetched() || (p.pager.Loading() && p.pager.Total() == 0) {
			msg = "Loading logs…"
		}
		out := []string{styles.Subtitle.Render(msg)}
		for len(out) < n {
			out = append(out, "")
		}
		return out[:min(len(out), max(n, 1))]
	}

	out := make([]string, 0, n)
	for i := p.scroll; i < len(entries) && len(out) < n; i++ {
		out = append(out, lipgloss.NewStyle().MaxWidth(width).Render(FormatRow(entries[i])))
	}
	for len(out) < n {
		out = append(out, "")
	}
	return out
}

func (p *Panel) footer() string {
	if notice := p.pager.Notice(); notice != "" {
		return styles.StatusCritical.Render(notice)
	}
	switch {
	case p.pager.Loading() && len(p.pager.Entries()) > 0:
		return styles.Subtitle.Render("Loading...")
	case p.pager.CanLoadMore():
		return styles.KeyStyle.Render("m") + styles.Help.Render(" Load more")
	case p.pager.HasFetched() && p.pager.Total() > 0:
		return styles.Help.Render("All attempts loaded")
	}
	return ""
}

// FormatRow renders one attempt as a table row
func FormatRow(e client.LogEntry) string {
	result := styles.StatusOK.Render(pad(e.Result, colResult))
	if e.Result != client.ResultWin {
		result = styles.StatusCritical.Render(pad(e.Result, colResult))
	}
	return result +
		pad(fmt.Sprintf("%d", e.LevelNumber), colLevel) +
		pad(logpager.FormatDuration(e.DurationSeconds), colDuration) +
		client.FormatLocal(e.CreatedAt, "Jan 02 15:04:05")
}

// Durations returns attempt durations oldest first for the trend line.
// Entries without a duration are skipped.
func Durations(entries []client.LogEntry) []float64 {
	out := make([]float64, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if d := entries[i].DurationSeconds; d != nil {
			out = append(out, *d)
		}
	}
	return out
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s + " "
}
