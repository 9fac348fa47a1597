// ABOUTME: Credential store holding the master password for the lifetime of the process
// ABOUTME: Tracks authentication and a generation counter used to discard stale responses

package session

import (
	"errors"
	"strings"
)

// ErrEmptyPassword is returned when Login is given a blank password
var ErrEmptyPassword = errors.New("master password is required")

// LoggedOutMsg is emitted once when an authorization failure ends the session
type LoggedOutMsg struct {
	Source string
}

// Session holds the shared secret sent with every request.
// It is kept in memory only and never persisted.
//
// Session is owned by a single event loop and is not safe for concurrent use.
type Session struct {
	token         string
	authenticated bool
	generation    uint64
}

// New creates a logged-out session
func New() *Session {
	return &Session{}
}

// Login stores the trimmed password and starts a new generation
func (s *Session) Login(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	s.token = password
	s.authenticated = true
	s.generation++
	return nil
}

// Logout clears the credential. It returns true only when the session
// was authenticated, so repeated failures log out exactly once.
func (s *Session) Logout() bool {
	if !s.authenticated {
		return false
	}
	s.token = ""
	s.authenticated = false
	s.generation++
	return true
}

// Token returns the current master password
func (s *Session) Token() string {
	return s.token
}

// Authenticated reports whether a credential is held
func (s *Session) Authenticated() bool {
	return s.authenticated
}

// Generation identifies the current login; it changes on every Login and Logout
func (s *Session) Generation() uint64 {
	return s.generation
}

// Valid reports whether a response to a request issued under gen may still
// mutate state
func (s *Session) Valid(gen uint64) bool {
	return s.authenticated && gen == s.generation
}
