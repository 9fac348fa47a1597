// ABOUTME: Screenshot pane with zoom, pan and capture progress
// ABOUTME: Decodes the latest capture once and re-renders only when the view changes

package screenshot

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/autoclick-dashboard/internal/capture"
	"github.com/markalston/autoclick-dashboard/internal/tui/icons"
	"github.com/markalston/autoclick-dashboard/internal/tui/styles"
	"github.com/markalston/autoclick-dashboard/internal/viewer"
)

// Chrome is the number of rows and columns around the image: the panel
// border on every side plus the title row.
const (
	ChromeWidth  = 2
	ChromeHeight = 3
)

type renderKey struct {
	data          string
	width, height int
	scale         float64
	offset        viewer.Point
}

// Pane displays the latest screenshot
type Pane struct {
	viewer  *viewer.Viewer
	spinner spinner.Model
	width   int
	height  int

	data    string
	at      *time.Time
	pending bool

	img       image.Image
	decodeErr error

	key    renderKey
	frame  string
	cached bool
}

// New creates an empty pane at 100%
func New() *Pane {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	return &Pane{
		viewer:  viewer.New(),
		spinner: s,
	}
}

// Viewer returns the zoom and pan state
func (p *Pane) Viewer() *viewer.Viewer {
	return p.viewer
}

// SetSize sets the outer panel size including borders
func (p *Pane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// ImageSize returns the cell area available to the image
func (p *Pane) ImageSize() (int, int) {
	return max(0, p.width-ChromeWidth), max(0, p.height-ChromeHeight)
}

// SetScreenshot replaces the displayed capture; the payload is decoded
// only when it differs from the current one
func (p *Pane) SetScreenshot(data *string, at *time.Time) {
	p.at = at
	if data == nil {
		p.data, p.img, p.decodeErr = "", nil, nil
		return
	}
	if *data == p.data {
		return
	}
	p.data = *data
	p.img, p.decodeErr = capture.Decode(p.data)
	if p.decodeErr != nil {
		slog.Debug("Screenshot decode failed", "error", p.decodeErr)
	}
}

// HasImage reports whether a decoded capture is available
func (p *Pane) HasImage() bool {
	return p.img != nil
}

// SetPending toggles the capture spinner and returns the command that
// starts it
func (p *Pane) SetPending(pending bool) tea.Cmd {
	started := pending && !p.pending
	p.pending = pending
	if started {
		return p.spinner.Tick
	}
	return nil
}

// Update advances the spinner while a capture is pending
func (p *Pane) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(spinner.TickMsg); ok && p.pending {
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	}
	return nil
}

// Reset clears the capture and the view; used on logout
func (p *Pane) Reset() {
	p.viewer.Reset()
	p.data, p.at, p.img, p.decodeErr = "", nil, nil, nil
	p.pending = false
	p.cached = false
	p.frame = ""
}

// View renders the pane; active highlights the border while zoomed
func (p *Pane) View(active bool) string {
	if p.width <= ChromeWidth || p.height <= ChromeHeight {
		return ""
	}
	w, h := p.ImageSize()

	body := p.body(w, h)
	content := p.title(w) + "\n" + body

	panel := styles.Panel
	if active {
		panel = styles.ActivePanel
	}
	return panel.Width(w).Height(h + 1).Render(content)
}

func (p *Pane) title(width int) string {
	left := styles.Title.Render(icons.Screenshot.String() + " Screenshot")
	zoom := styles.Subtitle.Render(fmt.Sprintf(" %d%%", p.viewer.Percent()))

	right := ""
	switch {
	case p.pending:
		right = p.spinner.View() + " " + styles.Subtitle.Render("capturing")
	case p.at != nil:
		right = styles.Subtitle.Render(p.at.Local().Format("15:04:05"))
	}

	fill := width - lipgloss.Width(left) - lipgloss.Width(zoom) - lipgloss.Width(right)
	if fill < 1 {
		return lipgloss.NewStyle().MaxWidth(width).Render(left + zoom)
	}
	return left + zoom + strings.Repeat(" ", fill) + right
}

func (p *Pane) body(w, h int) string {
	if p.img == nil {
		msg := "No screenshot yet. Press p to capture."
		if p.decodeErr != nil {
			msg = "Screenshot could not be decoded"
		}
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, styles.Subtitle.Render(msg))
	}

	key := renderKey{
		data:   p.data,
		width:  w,
		height: h,
		scale:  p.viewer.Scale(),
		offset: p.viewer.Offset(),
	}
	if !p.cached || key != p.key {
		p.frame = capture.Render(p.img, w, h, p.viewer)
		p.key = key
		p.cached = true
	}
	return p.frame
}
