// ABOUTME: Status command for the autoclick CLI
// ABOUTME: Shows the bot's current state and recent attempts, optionally following changes

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/markalston/autoclick-dashboard/internal/botstate"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/logpager"
	"github.com/markalston/autoclick-dashboard/internal/poller"
	"github.com/markalston/autoclick-dashboard/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Exit codes shared by headless commands
const (
	exitOK           = 0
	exitFailed       = 1
	exitError        = 2
	exitUnauthorized = 3
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current bot status",
	Long: `Display the bot's run state, level progress and most recent attempts.

With --watch the status is polled on the configured interval and every change
is printed until interrupted.

Exit codes:
  0 - Success
  2 - Error (connectivity, invalid response)
  3 - Master password rejected`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		var exitCode int
		if statusWatch {
			exitCode = runStatusWatch(ctx, os.Stdout)
		} else {
			exitCode = runStatus(ctx, os.Stdout)
		}
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Poll and print status changes until interrupted")
}

// statusSummary is the printable form of a status; the image payload is omitted
type statusSummary struct {
	Status               string     `json:"status"`
	CurrentLevel         int        `json:"current_level"`
	TotalLevelsCompleted int        `json:"total_levels_completed"`
	TargetLevel          *int       `json:"target_level"`
	HasScreenshot        bool       `json:"has_screenshot"`
	LatestScreenshotAt   *time.Time `json:"latest_screenshot_at"`
}

func summarize(st *client.BotStatus) statusSummary {
	return statusSummary{
		Status:               st.Status,
		CurrentLevel:         st.CurrentLevel,
		TotalLevelsCompleted: st.TotalLevelsCompleted,
		TargetLevel:          st.TargetLevel,
		HasScreenshot:        st.HasScreenshot(),
		LatestScreenshotAt:   st.LatestScreenshotAt,
	}
}

// runStatus fetches status and the first log page concurrently
func runStatus(ctx context.Context, w io.Writer) int {
	_, c, password, err := connect()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	var (
		status *client.BotStatus
		page   *client.LogPage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		status, err = c.Status(gctx, password)
		return err
	})
	g.Go(func() error {
		var err error
		page, err = c.Logs(gctx, password, logpager.PageSize, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatStatusJSON(status, page))
	} else {
		fmt.Fprintln(w, formatStatusHuman(status, page))
	}
	return exitOK
}

// runStatusWatch polls until interrupted, printing each change
func runStatusWatch(ctx context.Context, w io.Writer) int {
	cfg, c, password, err := connect()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	sess := session.New()
	if err := sess.Login(password); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	store := botstate.New()
	p := poller.New(c, sess, store, cfg.PollInterval)

	var last string
	err = p.Run(ctx, func(outcome poller.Outcome) bool {
		if outcome != poller.OutcomeApplied {
			return true
		}
		line := formatStatusLine(store.Status(), store.Target())
		if line != last {
			if IsJSONOutput() {
				data, _ := json.Marshal(summarize(store.Status()))
				fmt.Fprintln(w, string(data))
			} else {
				fmt.Fprintf(w, "%s  %s\n", time.Now().Format("15:04:05"), line)
			}
			last = line
		}
		return true
	})

	if err == nil || errors.Is(err, context.Canceled) {
		return exitOK
	}
	return reportError(w, err)
}

// reportError prints err and maps it to an exit code
func reportError(w io.Writer, err error) int {
	if client.IsUnauthorized(err) {
		fmt.Fprintln(w, "Error: invalid master password")
		return exitUnauthorized
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitError
}

// formatStatusLine renders a one-line status for watch output
func formatStatusLine(st *client.BotStatus, target botstate.TargetLevel) string {
	return fmt.Sprintf("%-8s level %d  completed %d  target %s",
		st.Status, st.CurrentLevel, st.TotalLevelsCompleted, target)
}

// formatStatusHuman formats status and recent logs for human readability
func formatStatusHuman(st *client.BotStatus, page *client.LogPage) string {
	var b strings.Builder

	target := "-"
	if st.TargetLevel != nil {
		target = botstate.Loaded(*st.TargetLevel).String()
	}
	screenshot := "none"
	if st.LatestScreenshotAt != nil {
		screenshot = st.LatestScreenshotAt.Local().Format("2006-01-02 15:04:05")
	}

	fmt.Fprintf(&b, `Status:           %s
Current level:    %d
Levels completed: %d
Target level:     %s
Screenshot:       %s`,
		st.Status,
		st.CurrentLevel,
		st.TotalLevelsCompleted,
		target,
		screenshot)

	if page == nil {
		return b.String()
	}
	if len(page.Logs) == 0 {
		b.WriteString("\n\nNo logs found")
		return b.String()
	}
	fmt.Fprintf(&b, "\n\nRecent attempts (%d of %d):\n", len(page.Logs), page.Total)
	b.WriteString(formatLogLines(page.Logs))
	return strings.TrimRight(b.String(), "\n")
}

// formatStatusJSON formats status and recent logs as JSON
func formatStatusJSON(st *client.BotStatus, page *client.LogPage) string {
	output := map[string]interface{}{
		"status": summarize(st),
	}
	if page != nil {
		output["logs"] = page
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
