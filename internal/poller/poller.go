// ABOUTME: Fixed-interval status poller driven by bubbletea ticks
// ABOUTME: Detects auth failure, tolerates transient errors and never outlives its session

package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/autoclick-dashboard/internal/botstate"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/session"
)

// DefaultInterval is the time between poll ticks
const DefaultInterval = time.Second

// ErrEmptyStatus is recorded when the backend answers a poll without a status
var ErrEmptyStatus = errors.New("backend returned an empty status")

// StatusFetcher reads the current bot state
type StatusFetcher interface {
	Status(ctx context.Context, password string) (*client.BotStatus, error)
}

// Outcome describes what a poll result did to shared state
type Outcome int

const (
	// OutcomeApplied means the status cell was replaced
	OutcomeApplied Outcome = iota
	// OutcomeTransient means the fetch failed and state was left untouched
	OutcomeTransient
	// OutcomeLoggedOut means the credential was rejected and the session ended
	OutcomeLoggedOut
	// OutcomeStale means the result belonged to an ended session and was ignored
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeTransient:
		return "transient"
	case OutcomeLoggedOut:
		return "logged_out"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// TickMsg fires once per interval while the poller runs
type TickMsg struct {
	loop uint64
	gen  uint64
	At   time.Time
}

// ResultMsg carries one status fetch back to the event loop
type ResultMsg struct {
	gen    uint64
	Status *client.BotStatus
	Err    error
}

// Poller repeatedly fetches bot status into a Store
type Poller struct {
	fetcher  StatusFetcher
	sess     *session.Session
	store    *botstate.Store
	interval time.Duration

	running bool
	loop    uint64
	gen     uint64

	failures int
	lastErr  error
	lastPoll time.Time
}

// New creates a stopped poller
func New(fetcher StatusFetcher, sess *session.Session, store *botstate.Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fetcher:  fetcher,
		sess:     sess,
		store:    store,
		interval: interval,
	}
}

// Interval returns the configured tick interval
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Running reports whether ticks are being scheduled
func (p *Poller) Running() bool {
	return p.running
}

// Failures returns the number of consecutive failed ticks
func (p *Poller) Failures() int {
	return p.failures
}

// LastError returns the most recent transient failure, nil after a success
func (p *Poller) LastError() error {
	return p.lastErr
}

// LastPoll returns the time of the last applied result
func (p *Poller) LastPoll() time.Time {
	return p.lastPoll
}

// Start begins a fresh polling loop bound to the current login. Ticks
// from any earlier loop are discarded.
func (p *Poller) Start() tea.Cmd {
	if !p.sess.Authenticated() {
		return nil
	}
	p.loop++
	p.running = true
	p.gen = p.sess.Generation()
	p.failures = 0
	p.lastErr = nil
	return tea.Batch(p.fetch(p.gen), p.tick())
}

// Stop tears the loop down; pending ticks become no-ops
func (p *Poller) Stop() {
	p.running = false
}

// Update handles TickMsg and ResultMsg; other messages are ignored
func (p *Poller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TickMsg:
		if !p.running || msg.loop != p.loop || !p.sess.Valid(msg.gen) {
			return nil
		}
		return tea.Batch(p.fetch(msg.gen), p.tick())

	case ResultMsg:
		if p.Apply(msg.gen, msg.Status, msg.Err) == OutcomeLoggedOut {
			return func() tea.Msg { return session.LoggedOutMsg{Source: "status"} }
		}
	}
	return nil
}

// Apply reconciles one fetch result issued under session generation gen
func (p *Poller) Apply(gen uint64, status *client.BotStatus, err error) Outcome {
	if !p.sess.Valid(gen) {
		return OutcomeStale
	}

	if err != nil {
		if client.IsUnauthorized(err) {
			p.Stop()
			if p.sess.Logout() {
				slog.Warn("Status poll rejected credentials, logging out")
				return OutcomeLoggedOut
			}
			return OutcomeStale
		}
		p.failures++
		p.lastErr = err
		slog.Debug("Status poll failed", "error", err, "consecutive_failures", p.failures)
		return OutcomeTransient
	}

	if status == nil {
		p.failures++
		p.lastErr = ErrEmptyStatus
		slog.Debug("Status poll returned no status", "consecutive_failures", p.failures)
		return OutcomeTransient
	}

	p.failures = 0
	p.lastErr = nil
	p.lastPoll = time.Now()
	p.store.ApplyPoll(status)
	return OutcomeApplied
}

// PollOnce fetches and applies a single status synchronously
func (p *Poller) PollOnce(ctx context.Context) (Outcome, error) {
	gen := p.sess.Generation()
	status, err := p.fetcher.Status(ctx, p.sess.Token())
	outcome := p.Apply(gen, status, err)
	if err == nil && status == nil {
		err = ErrEmptyStatus
	}
	return outcome, err
}

// Run polls on the interval until ctx ends, the session is rejected, or fn
// returns false. It returns client.ErrUnauthorized after a forced logout.
func (p *Poller) Run(ctx context.Context, fn func(Outcome) bool) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.running = true
	defer p.Stop()

	for {
		outcome, _ := p.PollOnce(ctx)
		switch outcome {
		case OutcomeLoggedOut, OutcomeStale:
			return client.ErrUnauthorized
		}
		if fn != nil && !fn(outcome) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) tick() tea.Cmd {
	loop, gen := p.loop, p.gen
	return tea.Tick(p.interval, func(t time.Time) tea.Msg {
		return TickMsg{loop: loop, gen: gen, At: t}
	})
}

func (p *Poller) fetch(gen uint64) tea.Cmd {
	password := p.sess.Token()
	fetcher := p.fetcher
	timeout := p.interval * 5
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		status, err := fetcher.Status(ctx, password)
		return ResultMsg{gen: gen, Status: status, Err: err}
	}
}
