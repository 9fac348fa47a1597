// ABOUTME: Command dispatcher for start/stop/continue/screenshot actions
// ABOUTME: Tracks in-flight state and reconciles responses into the shared status cell

package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/autoclick-dashboard/internal/botstate"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/session"
)

// DefaultTimeout bounds a single dispatch
const DefaultTimeout = 30 * time.Second

// Controller issues commands against the bot API
type Controller interface {
	Control(ctx context.Context, password string, action client.Action, targetLevel *int) (*client.BotStatus, error)
	RequestScreenshot(ctx context.Context, password string) error
}

// ResultMsg carries a dispatch result back to the event loop
type ResultMsg struct {
	gen    uint64
	Action client.Action
	Status *client.BotStatus
	Err    error
}

// NoticeMsg asks the UI to surface a message to the user
type NoticeMsg struct {
	Text  string
	Error bool
}

// Dispatcher sends control commands and applies their results
type Dispatcher struct {
	ctrl    Controller
	sess    *session.Session
	store   *botstate.Store
	timeout time.Duration

	loading bool
	notice  string
}

// New creates a dispatcher writing into store
func New(ctrl Controller, sess *session.Session, store *botstate.Store) *Dispatcher {
	return &Dispatcher{
		ctrl:    ctrl,
		sess:    sess,
		store:   store,
		timeout: DefaultTimeout,
	}
}

// Loading reports whether a start/stop/continue request is outstanding
func (d *Dispatcher) Loading() bool {
	return d.loading
}

// ScreenshotLoading reports whether a requested capture is still pending
func (d *Dispatcher) ScreenshotLoading() bool {
	return d.store.ScreenshotPending()
}

// Notice returns the last surfaced error message
func (d *Dispatcher) Notice() string {
	return d.notice
}

// ClearNotice dismisses the surfaced message
func (d *Dispatcher) ClearNotice() {
	d.notice = ""
}

// Reset drops in-flight flags; used on logout
func (d *Dispatcher) Reset() {
	d.loading = false
	d.notice = ""
}

// Enabled reports whether the action may be triggered now
func (d *Dispatcher) Enabled(a client.Action) bool {
	if !d.sess.Authenticated() {
		return false
	}
	if a == client.ActionScreenshot {
		return !d.store.ScreenshotPending()
	}
	if d.loading {
		return false
	}
	st := d.store.Status()
	if st == nil {
		return false
	}
	switch a {
	case client.ActionStart, client.ActionContinue:
		return st.Status != client.StateRunning
	case client.ActionStop:
		return st.Status != client.StateStopped
	}
	return false
}

// Dispatch starts an action and returns the command that performs it, or
// nil when the action is unavailable
func (d *Dispatcher) Dispatch(a client.Action) tea.Cmd {
	if !d.Enabled(a) {
		return nil
	}
	d.notice = ""

	gen := d.sess.Generation()
	password := d.sess.Token()
	ctrl := d.ctrl
	timeout := d.timeout

	if a == client.ActionScreenshot {
		d.store.BeginScreenshot()
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			err := ctrl.RequestScreenshot(ctx, password)
			return ResultMsg{gen: gen, Action: a, Err: err}
		}
	}

	d.loading = true
	var target *int
	if a.CarriesTarget() {
		target = d.store.Target().Ptr()
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		status, err := ctrl.Control(ctx, password, a, target)
		return ResultMsg{gen: gen, Action: a, Status: status, Err: err}
	}
}

// Update handles ResultMsg; other messages are ignored
func (d *Dispatcher) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ResultMsg); ok {
		return d.Apply(msg)
	}
	return nil
}

// Apply reconciles a dispatch result into the status cell
func (d *Dispatcher) Apply(msg ResultMsg) tea.Cmd {
	if msg.Action != client.ActionScreenshot {
		defer func() { d.loading = false }()
	}

	if !d.sess.Valid(msg.gen) {
		return nil
	}

	if msg.Err != nil {
		if msg.Action == client.ActionScreenshot {
			d.store.ScreenshotFailed()
		}
		if client.IsUnauthorized(msg.Err) {
			if d.sess.Logout() {
				slog.Warn("Control request rejected credentials, logging out", "action", msg.Action)
				return func() tea.Msg { return session.LoggedOutMsg{Source: "control"} }
			}
			return nil
		}
		d.notice = describe(msg.Err)
		slog.Info("Control request failed", "action", msg.Action, "error", msg.Err)
		return notice(d.notice)
	}

	if msg.Action == client.ActionScreenshot {
		slog.Debug("Screenshot requested, waiting for new capture")
		return nil
	}

	d.store.ApplyCommand(msg.Status)
	slog.Info("Control request applied", "action", msg.Action, "status", statusName(msg.Status))
	return nil
}

// Run performs an action synchronously for headless callers
func (d *Dispatcher) Run(ctx context.Context, a client.Action) error {
	if !d.sess.Authenticated() {
		return client.ErrUnauthorized
	}

	gen := d.sess.Generation()
	var msg ResultMsg
	if a == client.ActionScreenshot {
		d.store.BeginScreenshot()
		msg = ResultMsg{gen: gen, Action: a, Err: d.ctrl.RequestScreenshot(ctx, d.sess.Token())}
	} else {
		if !a.IsControl() {
			return fmt.Errorf("unsupported action %q", a)
		}
		d.loading = true
		var target *int
		if a.CarriesTarget() {
			target = d.store.Target().Ptr()
		}
		status, err := d.ctrl.Control(ctx, d.sess.Token(), a, target)
		msg = ResultMsg{gen: gen, Action: a, Status: status, Err: err}
	}

	d.Apply(msg)
	return msg.Err
}

// describe maps an error to the message shown to the user
func describe(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok {
		return apiErr.Message
	}
	return "Network error: " + err.Error()
}

func notice(text string) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text, Error: true} }
}

func statusName(s *client.BotStatus) string {
	if s == nil {
		return ""
	}
	return s.Status
}
