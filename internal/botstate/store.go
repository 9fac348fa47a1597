// ABOUTME: Shared "current status" cell written by the poller and the dispatcher
// ABOUTME: Owns the one-shot target level latch and the screenshot pending flag

package botstate

import (
	"fmt"
	"time"

	"github.com/markalston/autoclick-dashboard/internal/client"
)

// TargetLevel is the user's progression bound: Unloaded until the server
// seeds it, then Loaded with a value (0 = unlimited).
type TargetLevel struct {
	loaded bool
	value  int
}

// Unloaded returns a target level that has not been fetched yet
func Unloaded() TargetLevel {
	return TargetLevel{}
}

// Loaded returns a target level holding v
func Loaded(v int) TargetLevel {
	return TargetLevel{loaded: true, value: v}
}

// IsLoaded reports whether a value is held
func (t TargetLevel) IsLoaded() bool {
	return t.loaded
}

// Value returns the held value and whether one is held
func (t TargetLevel) Value() (int, bool) {
	return t.value, t.loaded
}

// Unlimited reports a loaded target of 0
func (t TargetLevel) Unlimited() bool {
	return t.loaded && t.value == 0
}

// Ptr returns the value for a request payload, nil while unloaded
func (t TargetLevel) Ptr() *int {
	if !t.loaded {
		return nil
	}
	v := t.value
	return &v
}

func (t TargetLevel) String() string {
	switch {
	case !t.loaded:
		return "-"
	case t.value == 0:
		return "unlimited"
	default:
		return fmt.Sprintf("%d", t.value)
	}
}

// Store is the single status cell. Writes are applied in the order their
// results arrive; the last completed write wins.
type Store struct {
	status  *client.BotStatus
	target  TargetLevel
	updated time.Time

	screenshotPending  bool
	screenshotBaseline string // ScreenshotStamp when the capture was requested
}

// New creates an empty store
func New() *Store {
	return &Store{}
}

// Status returns the cached status, nil before the first successful fetch
func (s *Store) Status() *client.BotStatus {
	return s.status
}

// Target returns the client-authoritative target level
func (s *Store) Target() TargetLevel {
	return s.target
}

// UpdatedAt returns when the cell was last written
func (s *Store) UpdatedAt() time.Time {
	return s.updated
}

// ScreenshotPending reports whether a requested capture is not visible yet
func (s *Store) ScreenshotPending() bool {
	return s.screenshotPending
}

// ApplyPoll replaces the cell with a poll result. The target level is
// seeded from the server only while it is still unloaded.
func (s *Store) ApplyPoll(st *client.BotStatus) {
	if st == nil {
		return
	}
	if !s.target.loaded && st.TargetLevel != nil {
		s.target = Loaded(*st.TargetLevel)
	}
	s.replace(st)
}

// ApplyCommand replaces the cell with a control response. A target level in
// the response reflects the command just issued and is taken as is.
func (s *Store) ApplyCommand(st *client.BotStatus) {
	if st == nil {
		return
	}
	if st.TargetLevel != nil {
		s.target = Loaded(*st.TargetLevel)
	}
	s.replace(st)
}

func (s *Store) replace(st *client.BotStatus) {
	cp := *st
	s.status = &cp
	s.updated = time.Now()

	if s.screenshotPending && cp.ScreenshotStamp() != s.screenshotBaseline {
		s.screenshotPending = false
		s.screenshotBaseline = ""
	}
}

// SetTarget records a user edit of the target level
func (s *Store) SetTarget(v int) error {
	if v < 0 {
		return fmt.Errorf("target level must be 0 (unlimited) or positive, got %d", v)
	}
	s.target = Loaded(v)
	return nil
}

// BeginScreenshot marks a capture as pending against the currently visible
// screenshot timestamp
func (s *Store) BeginScreenshot() {
	s.screenshotPending = true
	s.screenshotBaseline = s.status.ScreenshotStamp()
}

// ScreenshotFailed clears the pending flag after the request itself failed
func (s *Store) ScreenshotFailed() {
	s.screenshotPending = false
	s.screenshotBaseline = ""
}

// Reset destroys all cached state; used on logout
func (s *Store) Reset() {
	*s = Store{}
}
