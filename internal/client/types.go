// ABOUTME: Wire types for the bot control API
// ABOUTME: BotStatus, LogEntry and the control action vocabulary

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Bot run states reported by the backend
const (
	StateRunning = "RUNNING"
	StateStopped = "STOPPED"
	StateIdle    = "IDLE"
)

// Log results
const (
	ResultWin  = "WIN"
	ResultLoss = "LOSS"
)

// Action is a command understood by the dispatcher
type Action string

const (
	ActionStart      Action = "START"
	ActionStop       Action = "STOP"
	ActionContinue   Action = "CONTINUE"
	ActionScreenshot Action = "SCREENSHOT"
)

// IsControl reports whether the action is sent to /api/control
func (a Action) IsControl() bool {
	switch a {
	case ActionStart, ActionStop, ActionContinue:
		return true
	}
	return false
}

// CarriesTarget reports whether the action attaches the target level
func (a Action) CarriesTarget() bool {
	return a == ActionStart || a == ActionContinue
}

// ParseAction converts a case-insensitive name into an Action
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	switch a {
	case ActionStart, ActionStop, ActionContinue, ActionScreenshot:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// BotStatus represents the data of a /api/status or /api/control response
type BotStatus struct {
	Status               string     `json:"status"`
	CurrentLevel         int        `json:"current_level"`
	TotalLevelsCompleted int        `json:"total_levels_completed"`
	TargetLevel          *int       `json:"target_level"`
	LatestScreenshotData *string    `json:"latest_screenshot_data"`
	LatestScreenshotAt   *time.Time `json:"latest_screenshot_at"`

	screenshotAtRaw string // latest_screenshot_at text that did not parse
}

// HasScreenshot reports whether an image payload is present
func (s *BotStatus) HasScreenshot() bool {
	return s != nil && s.LatestScreenshotData != nil && *s.LatestScreenshotData != ""
}

// LogID is an opaque log identifier; the backend may send a string or a number
type LogID string

// UnmarshalJSON accepts both JSON strings and numbers
func (id *LogID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LogID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("log id: %w", err)
	}
	*id = LogID(n.String())
	return nil
}

// LogEntry is one past run attempt
type LogEntry struct {
	ID              LogID     `json:"id"`
	Result          string    `json:"result"`
	LevelNumber     int       `json:"level_number"`
	DurationSeconds *float64  `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// LogPage is the data of a /api/logs response
type LogPage struct {
	Logs  []LogEntry `json:"logs"`
	Total int        `json:"total"`
}
