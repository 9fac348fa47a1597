// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Owns the session and routes poller, dispatcher, pager and input messages

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/autoclick-dashboard/internal/botstate"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/config"
	"github.com/markalston/autoclick-dashboard/internal/dispatcher"
	"github.com/markalston/autoclick-dashboard/internal/logpager"
	"github.com/markalston/autoclick-dashboard/internal/poller"
	"github.com/markalston/autoclick-dashboard/internal/session"
	"github.com/markalston/autoclick-dashboard/internal/tui/dashboard"
	"github.com/markalston/autoclick-dashboard/internal/tui/history"
	"github.com/markalston/autoclick-dashboard/internal/tui/icons"
	"github.com/markalston/autoclick-dashboard/internal/tui/login"
	"github.com/markalston/autoclick-dashboard/internal/tui/menu"
	"github.com/markalston/autoclick-dashboard/internal/tui/screenshot"
	"github.com/markalston/autoclick-dashboard/internal/tui/styles"
	"github.com/markalston/autoclick-dashboard/internal/tui/targetform"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenTarget
	ScreenActions
)

// Layout constants
const (
	minTerminalWidth = 80 // Below this the body splits evenly
	minBodyHeight    = 6
	panStep          = 2

	// rows above the body: header, stats row, controls line
	bodyTop = 1 + dashboard.Height + 1
	// rows not available to the body: the rows above plus notice and footer
	chromeHeight = bodyTop + 2
)

// API is the backend surface the dashboard needs
type API interface {
	poller.StatusFetcher
	dispatcher.Controller
	logpager.LogFetcher
}

// Options configures the application
type Options struct {
	Client       API
	Environment  config.Environment
	BaseURL      string
	PollInterval time.Duration
	Password     string // optional; logs in immediately when set
}

// App is the root model for the TUI
type App struct {
	opts   Options
	screen Screen
	width  int
	height int

	sess       *session.Session
	store      *botstate.Store
	poller     *poller.Poller
	dispatcher *dispatcher.Dispatcher
	pager      *logpager.Pager

	notice    string
	noticeErr bool

	// Child models
	login      *login.Login
	dashboard  *dashboard.Dashboard
	shot       *screenshot.Pane
	logs       *history.Panel
	targetForm *targetform.Form
	actions    *menu.Menu
}

// New creates a new TUI application on the login screen
func New(opts Options) *App {
	sess := session.New()
	store := botstate.New()
	pager := logpager.New(opts.Client, sess)

	return &App{
		opts:       opts,
		screen:     ScreenLogin,
		sess:       sess,
		store:      store,
		poller:     poller.New(opts.Client, sess, store, opts.PollInterval),
		dispatcher: dispatcher.New(opts.Client, sess, store),
		pager:      pager,
		login:      login.New(),
		dashboard:  dashboard.New(minTerminalWidth),
		shot:       screenshot.New(),
		logs:       history.New(pager),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.opts.Password != "" {
		password := a.opts.Password
		return func() tea.Msg { return login.SubmittedMsg{Password: password} }
	}
	return a.login.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	return a, tea.Batch(cmd, a.sync())
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.login.Update(a.contentSize())
		if a.targetForm != nil {
			a.targetForm.Update(a.contentSize())
		}
		return nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}

		// Route to current screen
		switch a.screen {
		case ScreenLogin:
			_, cmd := a.login.Update(msg)
			return cmd
		case ScreenDashboard:
			return a.handleKey(msg.String())
		case ScreenTarget:
			return a.updateTargetForm(msg)
		case ScreenActions:
			return a.updateActions(msg)
		}

	case tea.MouseMsg:
		if a.screen == ScreenDashboard {
			a.handleMouse(msg)
		}
		return nil

	case login.SubmittedMsg:
		return a.handleLogin(msg.Password)

	case login.CancelledMsg:
		return tea.Quit

	case session.LoggedOutMsg:
		return a.endSession("Invalid password")

	case poller.TickMsg, poller.ResultMsg:
		return a.poller.Update(msg)

	case dispatcher.ResultMsg:
		return a.dispatcher.Update(msg)

	case dispatcher.NoticeMsg:
		a.setNotice(msg.Text, msg.Error)
		return nil

	case logpager.PageMsg:
		cmd := a.pager.Update(msg)
		if msg.Offset == 0 {
			a.logs.ResetScroll()
		}
		return cmd

	case spinner.TickMsg:
		return a.shot.Update(msg)

	case targetform.SubmittedMsg:
		a.closeTargetForm()
		if err := a.store.SetTarget(msg.Level); err != nil {
			a.setNotice(err.Error(), true)
			return nil
		}
		a.setNotice("Target level set to "+dashboard.TargetLabel(a.store.Target()), false)
		return nil

	case targetform.CancelledMsg:
		a.closeTargetForm()
		return nil

	case menu.ActionSelectedMsg:
		a.closeActions()
		return a.handleKey(msg.Key)

	case menu.CancelledMsg:
		a.closeActions()
		return nil

	default:
		// Forward unknown messages to the active form (needed for huh form internals)
		switch a.screen {
		case ScreenTarget:
			return a.updateTargetForm(msg)
		case ScreenActions:
			return a.updateActions(msg)
		case ScreenLogin:
			_, cmd := a.login.Update(msg)
			return cmd
		}
	}

	return nil
}

// sync pushes shared state into the display components
func (a *App) sync() tea.Cmd {
	st := a.store.Status()
	a.dashboard.Update(st, a.store.Target(), a.store.UpdatedAt())
	if st != nil {
		a.shot.SetScreenshot(st.LatestScreenshotData, st.LatestScreenshotAt)
	} else {
		a.shot.SetScreenshot(nil, nil)
	}
	return a.shot.SetPending(a.store.ScreenshotPending())
}

func (a *App) handleLogin(password string) tea.Cmd {
	if err := a.sess.Login(password); err != nil {
		a.login.SetError("Password is required")
		return nil
	}
	a.screen = ScreenDashboard
	a.notice = ""
	return tea.Batch(a.poller.Start(), a.pager.Load())
}

// endSession tears down every session-scoped component and returns to the
// login screen
func (a *App) endSession(message string) tea.Cmd {
	a.sess.Logout()
	a.poller.Stop()
	a.store.Reset()
	a.pager.Reset()
	a.dispatcher.Reset()
	a.shot.Reset()
	a.logs.ResetScroll()
	a.targetForm = nil
	a.actions = nil
	a.notice = ""

	a.screen = ScreenLogin
	a.login = login.New()
	a.login.Update(a.contentSize())
	if message != "" {
		a.login.SetError(message)
	}
	return a.login.Init()
}

// handleKey runs a dashboard shortcut; the actions menu replays its choices here
func (a *App) handleKey(key string) tea.Cmd {
	v := a.shot.Viewer()

	switch key {
	case "q":
		return tea.Quit
	case "s":
		return a.dispatch(client.ActionStart)
	case "x":
		return a.dispatch(client.ActionStop)
	case "c":
		return a.dispatch(client.ActionContinue)
	case "p":
		return a.dispatch(client.ActionScreenshot)
	case "+", "=":
		v.ZoomIn()
	case "-":
		v.ZoomOut()
	case "0":
		v.Reset()
	case "left":
		v.Pan(panStep, 0)
	case "right":
		v.Pan(-panStep, 0)
	case "up":
		v.Pan(0, panStep)
	case "down":
		v.Pan(0, -panStep)
	case "t":
		return a.openTargetForm()
	case "r":
		return a.pager.Refresh()
	case "m":
		return a.pager.LoadMore()
	case "pgdown", "j":
		a.logs.ScrollDown()
	case "pgup", "k":
		a.logs.ScrollUp()
	case "a", "enter":
		return a.openActions()
	case "L":
		return a.endSession("")
	case "esc":
		a.notice = ""
		a.dispatcher.ClearNotice()
	}
	return nil
}

func (a *App) dispatch(action client.Action) tea.Cmd {
	cmd := a.dispatcher.Dispatch(action)
	if cmd != nil {
		a.notice = ""
	}
	return cmd
}

func (a *App) setNotice(text string, isErr bool) {
	a.notice = text
	a.noticeErr = isErr
}

// handleMouse drives the viewer from pointer events inside the image area
func (a *App) handleMouse(msg tea.MouseMsg) {
	x0, y0, w, h := a.imageRect()
	inside := msg.X >= x0 && msg.X < x0+w && msg.Y >= y0 && msg.Y < y0+h
	v := a.shot.Viewer()

	// one cell is one pixel wide and two pixels tall
	px := float64(msg.X - x0)
	py := float64(msg.Y-y0) * 2

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		if inside {
			v.ZoomIn()
		}
	case msg.Button == tea.MouseButtonWheelDown:
		if inside {
			v.ZoomOut()
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if inside {
			v.DragStart(px, py)
		}
	case msg.Action == tea.MouseActionMotion:
		if !v.Dragging() {
			return
		}
		if !inside {
			v.DragEnd()
			return
		}
		v.DragMove(px, py)
	case msg.Action == tea.MouseActionRelease:
		v.DragEnd()
	}
}

func (a *App) openTargetForm() tea.Cmd {
	a.targetForm = targetform.New(a.store.Target())
	a.targetForm.Update(a.contentSize())
	a.screen = ScreenTarget
	return a.targetForm.Init()
}

func (a *App) closeTargetForm() {
	a.targetForm = nil
	if a.screen == ScreenTarget {
		a.screen = ScreenDashboard
	}
}

func (a *App) updateTargetForm(msg tea.Msg) tea.Cmd {
	if a.targetForm == nil {
		return nil
	}
	_, cmd := a.targetForm.Update(msg)
	return cmd
}

func (a *App) openActions() tea.Cmd {
	a.actions = menu.New(a.actionOptions())
	a.screen = ScreenActions
	return a.actions.Init()
}

func (a *App) closeActions() {
	a.actions = nil
	if a.screen == ScreenActions {
		a.screen = ScreenDashboard
	}
}

func (a *App) updateActions(msg tea.Msg) tea.Cmd {
	if a.actions == nil {
		return nil
	}
	_, cmd := a.actions.Update(msg)
	return cmd
}

// actionOptions lists every dashboard command with its current availability
func (a *App) actionOptions() []menu.Option {
	v := a.shot.Viewer()
	return []menu.Option{
		{Label: "Start from level 1", Key: "s", Enabled: a.dispatcher.Enabled(client.ActionStart)},
		{Label: "Stop", Key: "x", Enabled: a.dispatcher.Enabled(client.ActionStop)},
		{Label: "Continue", Key: "c", Enabled: a.dispatcher.Enabled(client.ActionContinue)},
		{Label: "Take screenshot", Key: "p", Enabled: a.dispatcher.Enabled(client.ActionScreenshot)},
		{Label: "Zoom in", Key: "+", Enabled: v.CanZoomIn()},
		{Label: "Zoom out", Key: "-", Enabled: v.CanZoomOut()},
		{Label: "Reset zoom", Key: "0", Enabled: v.CanReset()},
		{Label: "Set target level", Key: "t", Enabled: true},
		{Label: "Refresh logs", Key: "r", Enabled: !a.pager.Loading()},
		{Label: "Load more logs", Key: "m", Enabled: !a.pager.Loading() && a.pager.CanLoadMore()},
		{Label: "Log out", Key: "L", Enabled: true},
		{Label: "Quit", Key: "q", Enabled: true},
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.login.View()
	case ScreenDashboard:
		content = a.viewDashboard()
	case ScreenTarget:
		if a.targetForm != nil {
			content = a.targetForm.View()
		}
	case ScreenActions:
		if a.actions != nil {
			content = a.actions.View()
		}
	}

	return a.wrapWithFrame(content)
}

// viewDashboard renders stats, controls, the screenshot and logs panels and
// the notice line. Row counts are fixed so mouse positions map onto the image.
func (a *App) viewDashboard() string {
	shotView := a.shot.View(a.shot.Viewer().Dragging())
	logsView := a.logs.View()
	body := lipgloss.JoinHorizontal(lipgloss.Top, shotView, logsView)

	return strings.Join([]string{
		a.dashboard.View(),
		a.renderControls(),
		body,
		a.renderNotice(),
	}, "\n")
}

// renderControls draws the control bar with disabled states
func (a *App) renderControls() string {
	v := a.shot.Viewer()
	button := func(key string, icon icons.Icon, label string, enabled bool) string {
		text := fmt.Sprintf("%s %s", icon.String(), label)
		if !enabled {
			return styles.Disabled.Render("[" + key + "] " + text)
		}
		return styles.KeyStyle.Render("["+key+"]") + " " + styles.ValueStyle.Render(text)
	}

	parts := []string{
		button("s", icons.Start, "Start", a.dispatcher.Enabled(client.ActionStart)),
		button("x", icons.Stop, "Stop", a.dispatcher.Enabled(client.ActionStop)),
		button("c", icons.Continue, "Continue", a.dispatcher.Enabled(client.ActionContinue)),
		button("p", icons.Screenshot, "Screenshot", a.dispatcher.Enabled(client.ActionScreenshot)),
		button("-", icons.ZoomOut, "", v.CanZoomOut()),
		button("+", icons.ZoomIn, "", v.CanZoomIn()),
		button("0", icons.Refresh, "Reset", v.CanReset()),
	}
	line := " " + strings.Join(parts, "  ")
	if a.dispatcher.Loading() {
		line += "  " + styles.Subtitle.Render("sending…")
	}
	return lipgloss.NewStyle().MaxWidth(max(a.width, 1)).Render(line)
}

func (a *App) renderNotice() string {
	if a.notice == "" {
		return ""
	}
	style := styles.StatusOK
	icon := icons.Info
	if a.noticeErr {
		style = styles.StatusCritical
		icon = icons.Critical
	}
	return lipgloss.NewStyle().MaxWidth(max(a.width, 1)).Render(" " + style.Render(icon.String()+" "+a.notice))
}

// layout sizes the child components from the terminal size
func (a *App) layout() {
	width := max(a.width, 1)
	a.dashboard.SetSize(width)

	shotW := a.screenshotWidth()
	bodyH := a.bodyHeight()
	a.shot.SetSize(shotW, bodyH)
	a.logs.SetSize(width-shotW, bodyH)
}

// screenshotWidth calculates the width for the screenshot pane
func (a *App) screenshotWidth() int {
	if a.width < minTerminalWidth {
		return a.width / 2
	}
	return a.width * 3 / 5
}

// bodyHeight calculates the rows available to the screenshot and logs panels
func (a *App) bodyHeight() int {
	return max(minBodyHeight, a.height-chromeHeight)
}

// imageRect returns the screen cells the screenshot occupies
func (a *App) imageRect() (x, y, w, h int) {
	w, h = a.shot.ImageSize()
	// left border; top border and title row
	return 1, bodyTop + 2, w, h
}

// contentSize is the area between header and footer
func (a *App) contentSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: max(0, a.height-2)}
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Autoclick Dashboard"))

	rightText := ""
	if a.opts.Environment != "" {
		rightText = " " + contextStyle.Render(string(a.opts.Environment))
		if a.opts.BaseURL != "" {
			rightText += " " + styles.Subtitle.Render(a.opts.BaseURL)
		}
		rightText += " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		rightText = ""
		fillWidth = max(0, width-4-lipgloss.Width(leftText))
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	// Build keyboard shortcuts based on current screen
	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Enter Log-in", "Esc Quit"}
	case ScreenDashboard:
		shortcuts = []string{"a Actions", "t Target", "r Refresh", "m More", "←↑↓→ Pan", "L Logout", "q Quit"}
	case ScreenTarget:
		shortcuts = []string{"Enter Save", "Esc Cancel"}
	case ScreenActions:
		shortcuts = []string{"↑↓ Select", "Enter Run", "Esc Close"}
	}

	// Right side status (last successful poll)
	rightText := ""
	if last := a.poller.LastPoll(); !last.IsZero() && a.screen == ScreenDashboard {
		rightText = statusStyle.Render("Updated "+formatTimeSince(last)) + " "
	}

	// Drop shortcuts from the end until everything fits on one line
	for {
		var styled []string
		for _, s := range shortcuts {
			parts := strings.SplitN(s, " ", 2)
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		}
		leftText := " " + strings.Join(styled, "  ") + " "
		fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╰─ and ─╯
		if fillWidth >= 0 || len(shortcuts) == 0 {
			return borderStyle.Render("╰─" + leftText + strings.Repeat("─", max(0, fillWidth)) + rightText + "─╯")
		}
		shortcuts = shortcuts[:len(shortcuts)-1]
	}
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(opts Options) error {
	app := New(opts)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
