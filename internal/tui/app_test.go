// ABOUTME: Integration tests for TUI app
// ABOUTME: Drives the root model with a fake backend and checks state transitions

package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/config"
	"github.com/markalston/autoclick-dashboard/internal/dispatcher"
	"github.com/markalston/autoclick-dashboard/internal/logpager"
	"github.com/markalston/autoclick-dashboard/internal/poller"
	"github.com/markalston/autoclick-dashboard/internal/session"
	"github.com/markalston/autoclick-dashboard/internal/tui/login"
	"github.com/markalston/autoclick-dashboard/internal/tui/menu"
	"github.com/markalston/autoclick-dashboard/internal/tui/targetform"
)

type controlCall struct {
	action client.Action
	target *int
}

// fakeAPI is an in-memory backend
type fakeAPI struct {
	status    client.BotStatus
	statusErr error

	controlErr   error
	controlCalls []controlCall

	screenshotErr   error
	screenshotCalls int

	logs    []client.LogEntry
	logsErr error
}

func (f *fakeAPI) Status(_ context.Context, _ string) (*client.BotStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	st := f.status
	return &st, nil
}

func (f *fakeAPI) Control(_ context.Context, _ string, action client.Action, target *int) (*client.BotStatus, error) {
	f.controlCalls = append(f.controlCalls, controlCall{action: action, target: target})
	if f.controlErr != nil {
		return nil, f.controlErr
	}
	switch action {
	case client.ActionStart, client.ActionContinue:
		f.status.Status = client.StateRunning
	case client.ActionStop:
		f.status.Status = client.StateStopped
	}
	if target != nil {
		v := *target
		f.status.TargetLevel = &v
	}
	st := f.status
	return &st, nil
}

func (f *fakeAPI) RequestScreenshot(_ context.Context, _ string) error {
	f.screenshotCalls++
	return f.screenshotErr
}

func (f *fakeAPI) Logs(_ context.Context, _ string, limit, offset int) (*client.LogPage, error) {
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	end := min(offset+limit, len(f.logs))
	page := &client.LogPage{Total: len(f.logs), Logs: []client.LogEntry{}}
	if offset < end {
		page.Logs = f.logs[offset:end]
	}
	return page, nil
}

func intPtr(v int) *int { return &v }

func newTestApp(api *fakeAPI) *App {
	app := New(Options{
		Client:       api,
		Environment:  config.Development,
		BaseURL:      "http://localhost:3001",
		PollInterval: time.Millisecond,
	})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

// drain runs cmd and feeds the backend-facing messages it produces back
// into the app. Timer-driven messages (poll ticks, spinner, cursor blink)
// are dropped so the loop terminates.
func drain(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("drain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case login.SubmittedMsg, poller.ResultMsg, dispatcher.ResultMsg, dispatcher.NoticeMsg,
			logpager.PageMsg, session.LoggedOutMsg, targetform.SubmittedMsg, menu.ActionSelectedMsg:
			_, next := app.Update(msg)
			queue = append(queue, next)
		}
	}
}

func loggedIn(t *testing.T, api *fakeAPI) *App {
	t.Helper()
	app := newTestApp(api)
	drain(t, app, func() tea.Msg { return login.SubmittedMsg{Password: "secret"} })
	if app.screen != ScreenDashboard {
		t.Fatalf("expected dashboard after login, got screen %d", app.screen)
	}
	return app
}

func press(t *testing.T, app *App, key string) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := app.Update(msg)
	drain(t, app, cmd)
}

func idleStatus() client.BotStatus {
	return client.BotStatus{
		Status:               client.StateIdle,
		CurrentLevel:         1,
		TotalLevelsCompleted: 0,
		TargetLevel:          intPtr(10),
	}
}

func TestAppInitialState(t *testing.T) {
	app := New(Options{Client: &fakeAPI{}})

	if app.screen != ScreenLogin {
		t.Errorf("expected initial screen to be ScreenLogin, got %d", app.screen)
	}
	if app.sess.Authenticated() {
		t.Error("session should start logged out")
	}
}

func TestInitWithPasswordLogsIn(t *testing.T) {
	app := New(Options{Client: &fakeAPI{}, Password: "from-env"})

	msg, ok := app.Init()().(login.SubmittedMsg)
	if !ok {
		t.Fatal("expected Init to submit the configured password")
	}
	if msg.Password != "from-env" {
		t.Errorf("password = %q", msg.Password)
	}
}

func TestLoginLoadsStatusAndLogs(t *testing.T) {
	d := 42.0
	api := &fakeAPI{
		status: idleStatus(),
		logs: []client.LogEntry{
			{ID: "1", Result: client.ResultWin, LevelNumber: 3, DurationSeconds: &d, CreatedAt: time.Now()},
		},
	}
	app := loggedIn(t, api)

	if app.store.Status() == nil {
		t.Fatal("expected status after first poll")
	}
	if v, ok := app.store.Target().Value(); !ok || v != 10 {
		t.Errorf("target = %v, want seeded 10", app.store.Target())
	}
	if len(app.pager.Entries()) != 1 {
		t.Errorf("expected 1 log entry, got %d", len(app.pager.Entries()))
	}
	if !app.poller.Running() {
		t.Error("poller should be running")
	}

	view := app.View()
	for _, want := range []string{"IDLE", "Current Level", "Recent Attempts", "0m 42s", "development"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestUnauthorizedPollReturnsToLogin(t *testing.T) {
	api := &fakeAPI{status: idleStatus()}
	app := loggedIn(t, api)

	api.statusErr = client.ErrUnauthorized
	drain(t, app, app.poller.Start())

	if app.screen != ScreenLogin {
		t.Fatalf("expected login screen after 401, got %d", app.screen)
	}
	if app.login.Error() != "Invalid password" {
		t.Errorf("login error = %q, want Invalid password", app.login.Error())
	}
	if app.sess.Authenticated() {
		t.Error("session should be logged out")
	}
	if app.store.Status() != nil {
		t.Error("status should be cleared on logout")
	}
	if app.poller.Running() {
		t.Error("poller should stop on logout")
	}
	if len(app.pager.Entries()) != 0 {
		t.Error("logs should be cleared on logout")
	}
}

func TestTransientPollErrorKeepsStatus(t *testing.T) {
	api := &fakeAPI{status: idleStatus()}
	app := loggedIn(t, api)

	api.statusErr = context.DeadlineExceeded
	drain(t, app, app.poller.Start())

	if app.screen != ScreenDashboard {
		t.Error("transient failure must not log out")
	}
	if app.store.Status() == nil || app.store.Status().Status != client.StateIdle {
		t.Error("transient failure must leave status untouched")
	}
	if app.notice != "" {
		t.Errorf("poll failures are silent, got notice %q", app.notice)
	}
}

func TestStartCarriesTargetLevel(t *testing.T) {
	api := &fakeAPI{status: idleStatus()}
	app := loggedIn(t, api)

	press(t, app, "s")

	if len(api.controlCalls) != 1 {
		t.Fatalf("expected one control call, got %d", len(api.controlCalls))
	}
	call := api.controlCalls[0]
	if call.action != client.ActionStart {
		t.Errorf("action = %s, want START", call.action)
	}
	if call.target == nil || *call.target != 10 {
		t.Errorf("target = %v, want 10", call.target)
	}
	if app.store.Status().Status != client.StateRunning {
		t.Errorf("status = %s, want RUNNING from the control response", app.store.Status().Status)
	}
	if app.dispatcher.Loading() {
		t.Error("loading flag should clear after the response")
	}
}

func TestStopCarriesNoTarget(t *testing.T) {
	st := idleStatus()
	st.Status = client.StateRunning
	api := &fakeAPI{status: st}
	app := loggedIn(t, api)

	press(t, app, "x")

	if len(api.controlCalls) != 1 || api.controlCalls[0].target != nil {
		t.Errorf("STOP should be sent without a target, got %+v", api.controlCalls)
	}
}

func TestDisabledControlIsIgnored(t *testing.T) {
	st := idleStatus()
	st.Status = client.StateRunning
	api := &fakeAPI{status: st}
	app := loggedIn(t, api)

	press(t, app, "s")
	press(t, app, "c")

	if len(api.controlCalls) != 0 {
		t.Errorf("start/continue are disabled while running, got %d calls", len(api.controlCalls))
	}
}

func TestControlErrorShowsNotice(t *testing.T) {
	api := &fakeAPI{
		status:     idleStatus(),
		controlErr: &client.APIError{StatusCode: 409, Message: "Bot is already running"},
	}
	app := loggedIn(t, api)

	press(t, app, "s")

	if app.notice != "Bot is already running" || !app.noticeErr {
		t.Errorf("notice = %q (err=%v)", app.notice, app.noticeErr)
	}
	if app.store.Status().Status != client.StateIdle {
		t.Error("failed command must leave status unchanged")
	}
	if !strings.Contains(app.View(), "Bot is already running") {
		t.Error("expected notice in view")
	}

	press(t, app, "esc")
	if app.notice != "" {
		t.Error("esc should dismiss the notice")
	}
}

func TestControlUnauthorizedLogsOut(t *testing.T) {
	api := &fakeAPI{status: idleStatus(), controlErr: client.ErrUnauthorized}
	app := loggedIn(t, api)

	press(t, app, "s")

	if app.screen != ScreenLogin || app.login.Error() != "Invalid password" {
		t.Errorf("expected forced logout, screen=%d error=%q", app.screen, app.login.Error())
	}
}

// pollResult runs the fetch half of a fresh poll loop without applying it
func pollResult(t *testing.T, app *App) poller.ResultMsg {
	t.Helper()
	batch, ok := app.poller.Start()().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected poll start to batch a fetch and a tick")
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(poller.ResultMsg); ok {
			return msg
		}
	}
	t.Fatal("poll start issued no fetch")
	return poller.ResultMsg{}
}

func TestConcurrentPollAndControlLastWriterWins(t *testing.T) {
	tests := []struct {
		name        string
		controlLast bool
		want        string
	}{
		{"control completes after stale poll", true, client.StateRunning},
		{"stale poll completes after control", false, client.StateStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{status: idleStatus()}
			app := loggedIn(t, api)

			// the poll reads the backend before the start lands
			api.status.Status = client.StateStopped
			polled := pollResult(t, app)

			start := app.dispatcher.Dispatch(client.ActionStart)
			if start == nil {
				t.Fatal("expected start to be dispatched")
			}
			if !app.dispatcher.Loading() {
				t.Fatal("expected a control request in flight")
			}
			controlled, ok := start().(dispatcher.ResultMsg)
			if !ok {
				t.Fatal("expected a dispatcher result")
			}

			if polled.Status == nil || polled.Status.Status != client.StateStopped {
				t.Fatalf("expected a stale STOPPED poll, got %+v", polled.Status)
			}
			if controlled.Status == nil || controlled.Status.Status != client.StateRunning {
				t.Fatalf("expected a RUNNING control response, got %+v", controlled.Status)
			}

			first, second := tea.Msg(controlled), tea.Msg(polled)
			if tt.controlLast {
				first, second = polled, controlled
			}
			app.Update(first)
			app.Update(second)

			if got := app.store.Status().Status; got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
			if app.dispatcher.Loading() {
				t.Error("expected loading to clear once the control result is applied")
			}
			if app.screen != ScreenDashboard {
				t.Error("expected to stay on the dashboard")
			}
		})
	}
}

func TestScreenshotPendingUntilTimestampChanges(t *testing.T) {
	old := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	st := idleStatus()
	st.LatestScreenshotAt = &old
	api := &fakeAPI{status: st}
	app := loggedIn(t, api)

	press(t, app, "p")

	if api.screenshotCalls != 1 {
		t.Fatalf("expected one screenshot request, got %d", api.screenshotCalls)
	}
	if !app.store.ScreenshotPending() {
		t.Fatal("pending flag should stay set after the request returns")
	}
	if app.dispatcher.Enabled(client.ActionScreenshot) {
		t.Error("screenshot control should be disabled while pending")
	}
	if !app.dispatcher.Enabled(client.ActionStart) {
		t.Error("a pending screenshot must not block start")
	}

	// a poll with the same timestamp keeps the flag
	drain(t, app, app.poller.Start())
	if !app.store.ScreenshotPending() {
		t.Fatal("unchanged timestamp should keep the flag")
	}

	next := old.Add(5 * time.Second)
	api.status.LatestScreenshotAt = &next
	drain(t, app, app.poller.Start())
	if app.store.ScreenshotPending() {
		t.Error("new timestamp should clear the flag")
	}
}

func TestScreenshotFailureClearsPending(t *testing.T) {
	api := &fakeAPI{
		status:        idleStatus(),
		screenshotErr: &client.APIError{StatusCode: 403, Message: "Invalid master password"},
	}
	app := loggedIn(t, api)

	press(t, app, "p")

	if app.store.ScreenshotPending() {
		t.Error("failed request should clear the pending flag")
	}
	if app.notice != "Invalid master password" {
		t.Errorf("notice = %q", app.notice)
	}
	if app.screen != ScreenDashboard {
		t.Error("screenshot application error is not an auth failure")
	}
}

func TestZoomKeys(t *testing.T) {
	app := loggedIn(t, &fakeAPI{status: idleStatus()})
	v := app.shot.Viewer()

	press(t, app, "+")
	press(t, app, "=")
	if v.Scale() != 2 {
		t.Errorf("scale = %v, want 2", v.Scale())
	}

	press(t, app, "left")
	press(t, app, "up")
	if off := v.Offset(); off.X != panStep || off.Y != panStep {
		t.Errorf("offset = %+v, want (%d,%d)", off, panStep, panStep)
	}

	press(t, app, "-")
	press(t, app, "-")
	if v.Scale() != 1 || v.Offset().X != 0 || v.Offset().Y != 0 {
		t.Errorf("zooming out to 100%% should reset the pan, got scale %v offset %+v", v.Scale(), v.Offset())
	}

	press(t, app, "+")
	press(t, app, "0")
	if v.Scale() != 1 {
		t.Error("0 should reset the zoom")
	}
}

func TestMouseDragPansInsideImage(t *testing.T) {
	app := loggedIn(t, &fakeAPI{status: idleStatus()})
	v := app.shot.Viewer()
	x0, y0, w, h := app.imageRect()
	if w <= 0 || h <= 0 {
		t.Fatalf("image rect %dx%d", w, h)
	}

	// drags are ignored at 100%
	app.Update(tea.MouseMsg{X: x0 + 2, Y: y0 + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if v.Dragging() {
		t.Fatal("drag should not start at 100%")
	}

	app.Update(tea.MouseMsg{X: x0 + 2, Y: y0 + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if v.Scale() != 1.5 {
		t.Fatalf("wheel up should zoom in, scale %v", v.Scale())
	}

	app.Update(tea.MouseMsg{X: x0 + 2, Y: y0 + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	app.Update(tea.MouseMsg{X: x0 + 5, Y: y0 + 3, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if off := v.Offset(); off.X != 3 || off.Y != 2 {
		t.Errorf("offset = %+v, want (3,2): one row is two pixels", off)
	}

	app.Update(tea.MouseMsg{X: x0 + 5, Y: y0 + 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if v.Dragging() {
		t.Error("release should end the drag")
	}
}

func TestMouseLeavingImageEndsDrag(t *testing.T) {
	app := loggedIn(t, &fakeAPI{status: idleStatus()})
	v := app.shot.Viewer()
	x0, y0, w, _ := app.imageRect()
	v.ZoomIn()

	app.Update(tea.MouseMsg{X: x0 + 1, Y: y0 + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	app.Update(tea.MouseMsg{X: x0 + w + 3, Y: y0 + 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})

	if v.Dragging() {
		t.Error("leaving the image should end the drag")
	}
	if off := v.Offset(); off.X != 0 || off.Y != 0 {
		t.Errorf("offset = %+v, leaving should not pan", off)
	}
}

func TestTargetFormSubmit(t *testing.T) {
	api := &fakeAPI{status: idleStatus()}
	app := loggedIn(t, api)

	press(t, app, "t")
	if app.screen != ScreenTarget || app.targetForm == nil {
		t.Fatalf("expected target form, screen=%d", app.screen)
	}

	app.Update(targetform.SubmittedMsg{Level: 0})
	if app.screen != ScreenDashboard {
		t.Error("submit should return to the dashboard")
	}
	if !app.store.Target().Unlimited() {
		t.Errorf("target = %v, want unlimited", app.store.Target())
	}

	// a later poll must not overwrite the local edit
	drain(t, app, app.poller.Start())
	if !app.store.Target().Unlimited() {
		t.Error("poll should not override a loaded target")
	}

	press(t, app, "s")
	if call := api.controlCalls[0]; call.target == nil || *call.target != 0 {
		t.Errorf("start should carry the edited target 0, got %v", call.target)
	}
}

func TestTargetFormCancel(t *testing.T) {
	app := loggedIn(t, &fakeAPI{status: idleStatus()})
	press(t, app, "t")
	app.Update(targetform.CancelledMsg{})

	if app.screen != ScreenDashboard || app.targetForm != nil {
		t.Error("cancel should close the form")
	}
	if v, _ := app.store.Target().Value(); v != 10 {
		t.Errorf("target changed to %d on cancel", v)
	}
}

func TestLogsLoadMore(t *testing.T) {
	var entries []client.LogEntry
	for i := 0; i < 12; i++ {
		entries = append(entries, client.LogEntry{ID: client.LogID(strings.Repeat("x", i+1)), Result: client.ResultWin, LevelNumber: i + 1})
	}
	app := loggedIn(t, &fakeAPI{status: idleStatus(), logs: entries})

	if n := len(app.pager.Entries()); n != 5 {
		t.Fatalf("initial page = %d entries, want 5", n)
	}
	press(t, app, "m")
	press(t, app, "m")
	if n := len(app.pager.Entries()); n != 12 {
		t.Errorf("after two load-mores = %d entries, want 12", n)
	}

	press(t, app, "r")
	if n := len(app.pager.Entries()); n != 5 {
		t.Errorf("refresh should reset to the first page, got %d", n)
	}
}

func TestUserLogout(t *testing.T) {
	app := loggedIn(t, &fakeAPI{status: idleStatus()})

	press(t, app, "L")

	if app.screen != ScreenLogin {
		t.Fatal("expected login screen")
	}
	if app.login.Error() != "" {
		t.Errorf("voluntary logout should not show an error, got %q", app.login.Error())
	}
	if app.sess.Authenticated() || app.store.Status() != nil {
		t.Error("session state should be cleared")
	}
}

func TestStaleResultAfterLogoutIgnored(t *testing.T) {
	api := &fakeAPI{status: idleStatus()}
	app := loggedIn(t, api)

	// capture a fetch issued under the first login
	fetch := app.poller.Start()
	press(t, app, "L")

	drain(t, app, fetch)

	if app.store.Status() != nil {
		t.Error("a response from an ended session must not repopulate state")
	}
	if app.screen != ScreenLogin {
		t.Error("stale response must not change screens")
	}
}

func TestActionsMenuReplaysShortcut(t *testing.T) {
	api := &fakeAPI{status: idleStatus()}
	app := loggedIn(t, api)

	press(t, app, "a")
	if app.screen != ScreenActions || app.actions == nil {
		t.Fatalf("expected actions menu, screen=%d", app.screen)
	}

	var startEnabled bool
	for _, opt := range app.actionOptions() {
		if opt.Key == "s" {
			startEnabled = opt.Enabled
		}
	}
	if !startEnabled {
		t.Error("start should be offered while idle")
	}

	_, cmd := app.Update(menu.ActionSelectedMsg{Key: "s"})
	drain(t, app, cmd)
	if app.screen != ScreenDashboard {
		t.Error("menu should close after a choice")
	}
	if len(api.controlCalls) != 1 {
		t.Errorf("expected the menu choice to dispatch START, got %d calls", len(api.controlCalls))
	}
}

func TestFooterShowsShortcuts(t *testing.T) {
	app := loggedIn(t, &fakeAPI{status: idleStatus()})
	footer := app.renderFooter()
	for _, want := range []string{"Actions", "Logout", "Quit"} {
		if !strings.Contains(footer, want) {
			t.Errorf("footer missing %q: %s", want, footer)
		}
	}
}

func TestFormatTimeSince(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{time.Second, "just now"},
		{30 * time.Second, "30s ago"},
		{3 * time.Minute, "3m ago"},
		{2 * time.Hour, "2h ago"},
	}
	for _, tt := range tests {
		if got := formatTimeSince(time.Now().Add(-tt.ago)); got != tt.want {
			t.Errorf("formatTimeSince(-%s) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
