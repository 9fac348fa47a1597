// ABOUTME: Tests for the logs command
// ABOUTME: Verifies pagination flags, output formatting and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/config"
)

func setLogsFlags(t *testing.T, limit, offset int, all bool) {
	t.Helper()
	logsLimit, logsOffset, logsAll = limit, offset, all
	t.Cleanup(func() {
		logsLimit, logsOffset, logsAll = 5, 0, false
	})
}

func TestFormatLogLines(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	logs := []client.LogEntry{
		{ID: "1", Result: client.ResultWin, LevelNumber: 12, DurationSeconds: floatPtr(61.4), CreatedAt: at},
		{ID: "2", Result: client.ResultLoss, LevelNumber: 11, CreatedAt: at},
	}

	output := formatLogLines(logs)
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "WIN") || !strings.Contains(lines[0], "level 12") || !strings.Contains(lines[0], "1m 01s") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "LOSS") || !strings.Contains(lines[1], " - ") {
		t.Errorf("expected unknown duration as '-', got %q", lines[1])
	}
}

func TestLogsCommand_FirstPage(t *testing.T) {
	bot := newTestBot()
	bot.Seed(12)
	newTestBackend(t, bot)
	setLogsFlags(t, 5, 0, false)

	var buf bytes.Buffer
	exitCode := runLogs(context.Background(), &buf)

	if exitCode != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Showing 5 of 12") {
		t.Errorf("expected page summary, got:\n%s", buf.String())
	}
}

func TestLogsCommand_LastPartialPage(t *testing.T) {
	bot := newTestBot()
	bot.Seed(12)
	newTestBackend(t, bot)
	setLogsFlags(t, 5, 10, false)

	var buf bytes.Buffer
	exitCode := runLogs(context.Background(), &buf)

	if exitCode != exitOK {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Showing 2 of 12") {
		t.Errorf("expected partial page, got:\n%s", buf.String())
	}
}

func TestLogsCommand_All(t *testing.T) {
	bot := newTestBot()
	bot.Seed(12)
	newTestBackend(t, bot)
	setLogsFlags(t, 5, 0, true)
	jsonOutput = true

	var buf bytes.Buffer
	exitCode := runLogs(context.Background(), &buf)

	if exitCode != exitOK {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	var page client.LogPage
	if err := json.Unmarshal(buf.Bytes(), &page); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(page.Logs) != 12 || page.Total != 12 {
		t.Errorf("expected all 12 entries, got %d of %d", len(page.Logs), page.Total)
	}
	for i := 1; i < len(page.Logs); i++ {
		if page.Logs[i].CreatedAt.After(page.Logs[i-1].CreatedAt) {
			t.Fatalf("expected newest first, entry %d is newer than %d", i, i-1)
		}
	}
}

func TestLogsCommand_Empty(t *testing.T) {
	newTestBackend(t, newTestBot())
	setLogsFlags(t, 5, 0, false)

	var buf bytes.Buffer
	exitCode := runLogs(context.Background(), &buf)

	if exitCode != exitOK {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "No logs found") {
		t.Errorf("expected empty message, got %s", buf.String())
	}
}

func TestLogsCommand_InvalidFlags(t *testing.T) {
	newTestBackend(t, newTestBot())

	tests := []struct {
		name   string
		limit  int
		offset int
	}{
		{"zero limit", 0, 0},
		{"negative offset", 5, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setLogsFlags(t, tt.limit, tt.offset, false)

			var buf bytes.Buffer
			if exitCode := runLogs(context.Background(), &buf); exitCode != exitError {
				t.Errorf("expected exit code 2, got %d", exitCode)
			}
		})
	}
}

func TestLogsCommand_WrongPassword(t *testing.T) {
	newTestBackend(t, newTestBot())
	t.Setenv(config.EnvMasterPassword, "wrong")
	setLogsFlags(t, 5, 0, false)

	var buf bytes.Buffer
	exitCode := runLogs(context.Background(), &buf)

	if exitCode != exitUnauthorized {
		t.Errorf("expected exit code 3, got %d", exitCode)
	}
}
