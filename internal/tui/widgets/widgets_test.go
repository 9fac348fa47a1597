// ABOUTME: Tests for the dashboard widgets
// ABOUTME: Checks block geometry, sparkline scaling and status color mapping

package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/tui/icons"
	"github.com/markalston/autoclick-dashboard/internal/tui/styles"
)

func assertBlockSize(t *testing.T, block string, width, height int) {
	t.Helper()
	lines := strings.Split(block, "\n")
	if height > 0 && len(lines) != height {
		t.Errorf("expected %d rows, got %d:\n%s", height, len(lines), block)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != width {
			t.Errorf("row %d: expected width %d, got %d: %q", i, width, w, line)
		}
	}
}

func TestMetricBlock_Geometry(t *testing.T) {
	cfg := DefaultMetricBlockConfig()
	cfg.Width = 24
	cfg.Height = 5

	assertBlockSize(t, MetricBlock(icons.Completed, "Completed", "42", "levels", cfg), 24, 5)
	assertBlockSize(t, MetricBlockWithBar(icons.Level, "Current Level", "7", 7, 10, "of 10", styles.Running, cfg), 24, 5)
	assertBlockSize(t, MetricBlockWithSparkline(icons.Chart, "Durations", "1m 02s", []float64{1, 4, 2, 8}, "last 4", cfg), 24, 5)
}

func TestMetricBlock_LongTitleTruncated(t *testing.T) {
	cfg := DefaultMetricBlockConfig()
	cfg.Width = 16

	block := MetricBlock(icons.Target, "A very long metric title", "1", "", cfg)

	assertBlockSize(t, block, 16, 0)
	if !strings.Contains(block, "...") {
		t.Error("expected title to be truncated with ellipsis")
	}
}

func TestMetricBlock_DefaultWidth(t *testing.T) {
	block := MetricBlock(icons.Status, "Status", "IDLE", "", MetricBlockConfig{})
	assertBlockSize(t, block, 22, 0)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much too long", 8, "much ..."},
		{"abc", 2, "ab"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestLevelBar(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		target   int
		filled   int
		infinity bool
	}{
		{"start of limited run", 0, 10, 0, false},
		{"halfway", 5, 10, 5, false},
		{"at target", 10, 10, 10, false},
		{"past target", 30, 10, 10, false},
		{"uneven target", 1, 3, 3, false},
		{"unlimited", 42, TargetUnlimited, 0, true},
		{"unknown", 42, TargetUnknown, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := LevelBar(tt.current, tt.target, 10, styles.Running)
			if lipgloss.Width(bar) != 10 {
				t.Errorf("expected width 10, got %d", lipgloss.Width(bar))
			}
			if got := strings.Count(bar, "▓"); got != tt.filled {
				t.Errorf("expected %d filled cells, got %d", tt.filled, got)
			}
			if got := strings.Contains(bar, "∞"); got != tt.infinity {
				t.Errorf("infinity marker = %v, want %v", got, tt.infinity)
			}
		})
	}
}

func TestLevelBar_DefaultWidth(t *testing.T) {
	if got := lipgloss.Width(LevelBar(1, 2, 0, styles.Running)); got != 10 {
		t.Errorf("expected default width 10, got %d", got)
	}
}

func TestSparkline(t *testing.T) {
	if Sparkline(nil, 5, "") != "" {
		t.Error("expected empty sparkline for no values")
	}
	if Sparkline([]float64{1}, 0, "") != "" {
		t.Error("expected empty sparkline for zero width")
	}

	line := Sparkline([]float64{0, 7}, 2, "")
	if line != "▁█" {
		t.Errorf("expected lowest and highest blocks, got %q", line)
	}

	flat := Sparkline([]float64{3, 3, 3}, 3, "")
	if flat != "▅▅▅" {
		t.Errorf("expected middle blocks for flat data, got %q", flat)
	}
}

func TestSparklinePadsShortSeries(t *testing.T) {
	line := Sparkline([]float64{5, 6}, 4, "")
	if !strings.HasPrefix(line, "  ") || lipgloss.Width(line) != 4 {
		t.Errorf("expected two blank columns then two blocks, got %q", line)
	}
}

func TestBucketMax(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   []float64
	}{
		{"fits", []float64{5, 6}, 4, []float64{5, 6}},
		{"exact", []float64{1, 2, 3}, 3, []float64{1, 2, 3}},
		{"halved", []float64{1, 2, 3, 4, 5, 6}, 3, []float64{2, 4, 6}},
		{"uneven", []float64{9, 1, 1, 1, 1}, 2, []float64{9, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bucketMax(tt.values, tt.width)
			if len(got) != len(tt.want) {
				t.Fatalf("bucketMax() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("bucketMax() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestBotStatusLevel(t *testing.T) {
	tests := map[string]StatusLevel{
		client.StateRunning: StatusOK,
		client.StateStopped: StatusWarning,
		client.StateIdle:    StatusNeutral,
		"REBOOTING":         StatusInfo,
	}
	for status, want := range tests {
		if got := BotStatusLevel(status); got != want {
			t.Errorf("BotStatusLevel(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestBadges(t *testing.T) {
	if !strings.Contains(Badge("RUNNING", StatusOK), "RUNNING") {
		t.Error("expected badge to contain its text")
	}
	if !strings.Contains(ResultBadge(client.ResultWin), "WIN") {
		t.Error("expected WIN badge")
	}
	if LevelColor(StatusCritical) != styles.Danger {
		t.Error("expected critical color")
	}
	if !strings.Contains(StatusText("ok", StatusOK), "ok") {
		t.Error("expected status text")
	}
}
