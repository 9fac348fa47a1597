// ABOUTME: Logs command for the autoclick CLI
// ABOUTME: Prints paginated attempt history, newest first

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

	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/logpager"
	"github.com/spf13/cobra"
)

var (
	logsLimit  int
	logsOffset int
	logsAll    bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show run attempt history",
	Long: `List past attempts, newest first.

Exit codes:
  0 - Success
  2 - Error (connectivity, invalid input)
  3 - Master password rejected`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogs(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().IntVar(&logsLimit, "limit", logpager.PageSize, "Entries per page")
	logsCmd.Flags().IntVar(&logsOffset, "offset", 0, "Number of newest entries to skip")
	logsCmd.Flags().BoolVar(&logsAll, "all", false, "Fetch every page")
}

// runLogs fetches one page, or every page with --all
func runLogs(ctx context.Context, w io.Writer) int {
	if logsLimit <= 0 {
		fmt.Fprintln(w, "Error: --limit must be positive")
		return exitError
	}
	if logsOffset < 0 {
		fmt.Fprintln(w, "Error: --offset must not be negative")
		return exitError
	}

	_, c, password, err := connect()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	var page client.LogPage
	if logsAll {
		entries, total, err := logpager.FetchAll(ctx, c, password, logsLimit)
		if err != nil {
			return reportError(w, err)
		}
		page = client.LogPage{Logs: entries, Total: total}
	} else {
		p, err := c.Logs(ctx, password, logsLimit, logsOffset)
		if err != nil {
			return reportError(w, err)
		}
		page = *p
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(page, "", "  ")
		fmt.Fprintln(w, string(data))
		return exitOK
	}

	if len(page.Logs) == 0 {
		fmt.Fprintln(w, "No logs found")
		return exitOK
	}
	fmt.Fprint(w, formatLogLines(page.Logs))
	fmt.Fprintf(w, "\nShowing %d of %d\n", len(page.Logs), page.Total)
	return exitOK
}

// formatLogLines renders one line per attempt
func formatLogLines(logs []client.LogEntry) string {
	var b strings.Builder
	for _, e := range logs {
		fmt.Fprintf(&b, "  %-4s  level %-4d  %8s  %s\n",
			e.Result,
			e.LevelNumber,
			logpager.FormatDuration(e.DurationSeconds),
			client.FormatLocal(e.CreatedAt, "2006-01-02 15:04:05"))
	}
	return b.String()
}
