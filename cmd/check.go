// ABOUTME: Check command for the autoclick CLI
// ABOUTME: Validates bot state against expectations for cron jobs and CI monitors

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/spf13/cobra"
)

var (
	expectStatus     string
	minCompleted     int
	maxScreenshotAge time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check bot state against expectations",
	Long: `Check the bot's state and exit non-zero if any expectation fails.

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Error (connectivity, invalid input)
  3 - Master password rejected`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCheck(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&expectStatus, "expect", "", "Required run state (RUNNING, STOPPED, IDLE)")
	checkCmd.Flags().IntVar(&minCompleted, "min-completed", 0, "Minimum total levels completed")
	checkCmd.Flags().DurationVar(&maxScreenshotAge, "max-screenshot-age", 0, "Fail when the latest screenshot is older than this")
}

// checkResult represents the result of a single expectation
type checkResult struct {
	name   string
	actual string
	want   string
	passed bool
}

// runCheck executes the checks and returns exit code
func runCheck(ctx context.Context, w io.Writer) int {
	if err := validateCheckFlags(expectStatus, minCompleted, maxScreenshotAge); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	_, c, password, err := connect()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	st, err := c.Status(ctx, password)
	if err != nil {
		return reportError(w, err)
	}

	results := performChecks(st, time.Now())

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	_, failed := countResults(results)
	if failed > 0 {
		return exitFailed
	}
	return exitOK
}

// validateCheckFlags ensures expectations are well formed
func validateCheckFlags(expect string, min int, age time.Duration) error {
	switch strings.ToUpper(expect) {
	case "", client.StateRunning, client.StateStopped, client.StateIdle:
	default:
		return fmt.Errorf("--expect must be RUNNING, STOPPED or IDLE")
	}
	if min < 0 {
		return fmt.Errorf("--min-completed must not be negative")
	}
	if age < 0 {
		return fmt.Errorf("--max-screenshot-age must not be negative")
	}
	return nil
}

// performChecks evaluates every configured expectation against st
func performChecks(st *client.BotStatus, now time.Time) []checkResult {
	var results []checkResult

	if expectStatus != "" {
		want := strings.ToUpper(expectStatus)
		results = append(results, checkResult{
			name:   "Run state",
			actual: st.Status,
			want:   want,
			passed: st.Status == want,
		})
	}

	if minCompleted > 0 {
		results = append(results, checkResult{
			name:   "Levels completed",
			actual: fmt.Sprintf("%d", st.TotalLevelsCompleted),
			want:   fmt.Sprintf(">= %d", minCompleted),
			passed: st.TotalLevelsCompleted >= minCompleted,
		})
	}

	if maxScreenshotAge > 0 {
		r := checkResult{
			name:   "Screenshot age",
			actual: "none",
			want:   fmt.Sprintf("<= %s", maxScreenshotAge),
		}
		if st.LatestScreenshotAt != nil {
			age := now.Sub(*st.LatestScreenshotAt).Truncate(time.Second)
			r.actual = age.String()
			r.passed = age <= maxScreenshotAge
		}
		results = append(results, r)
	}

	// With no expectations the check only proves the API is reachable
	if len(results) == 0 {
		results = append(results, checkResult{
			name:   "API reachable",
			actual: st.Status,
			want:   "any",
			passed: true,
		})
	}

	return results
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

// formatCheckHuman formats check results for human readability
func formatCheckHuman(results []checkResult) string {
	var output string

	for _, r := range results {
		symbol := "✓"
		if !r.passed {
			symbol = "✗"
		}
		output += fmt.Sprintf("%s %s: %s (want: %s)\n", symbol, r.name, r.actual, r.want)
	}

	passed, failed := countResults(results)
	if failed > 0 {
		output += fmt.Sprintf("\nFAILED: %d check(s) not met", failed)
	} else {
		output += fmt.Sprintf("\nPASSED: All %d check(s) met", passed)
	}

	return output
}

// formatCheckJSON formats check results as JSON
func formatCheckJSON(results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]interface{}, len(results))
	for i, r := range results {
		checks[i] = map[string]interface{}{
			"name":   r.name,
			"actual": r.actual,
			"want":   r.want,
			"passed": r.passed,
		}
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	output := map[string]interface{}{
		"status": status,
		"checks": checks,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
