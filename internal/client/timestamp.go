// ABOUTME: Lenient decoding of backend timestamps
// ABOUTME: Accepts RFC 3339, zone-less ISO and Postgres-style text without failing the payload

package client

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// timestampLayouts are tried in order; values without a zone are read as UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses any timestamp form the backend is known to send
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// decodeTimestamp reads a JSON timestamp value. A null yields (nil, "");
// text that does not parse yields (nil, raw) so callers can still compare it.
func decodeTimestamp(data json.RawMessage) (*time.Time, string) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ""
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, string(data)
	}
	if s == "" {
		return nil, ""
	}
	if t, ok := ParseTimestamp(s); ok {
		return &t, ""
	}
	return nil, s
}

// UnmarshalJSON decodes a status, tolerating unusual screenshot timestamps
func (s *BotStatus) UnmarshalJSON(data []byte) error {
	type wire BotStatus
	var aux struct {
		wire
		LatestScreenshotAt json.RawMessage `json:"latest_screenshot_at"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = BotStatus(aux.wire)
	s.LatestScreenshotAt, s.screenshotAtRaw = decodeTimestamp(aux.LatestScreenshotAt)
	return nil
}

// ScreenshotStamp identifies the latest screenshot for change detection.
// It is empty when no screenshot exists; equal instants in different zones
// give the same stamp.
func (s *BotStatus) ScreenshotStamp() string {
	if s == nil {
		return ""
	}
	if s.LatestScreenshotAt != nil {
		return s.LatestScreenshotAt.UTC().Format(time.RFC3339Nano)
	}
	return s.screenshotAtRaw
}

// UnmarshalJSON decodes a log entry; an unreadable created_at leaves the
// zero time rather than rejecting the page
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	type wire LogEntry
	var aux struct {
		wire
		CreatedAt json.RawMessage `json:"created_at"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = LogEntry(aux.wire)
	if t, _ := decodeTimestamp(aux.CreatedAt); t != nil {
		e.CreatedAt = *t
	}
	return nil
}

// FormatLocal renders t in local time, or "-" for the zero time
func FormatLocal(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(layout)
}
