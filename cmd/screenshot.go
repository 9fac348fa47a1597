// ABOUTME: Screenshot command for the autoclick CLI
// ABOUTME: Requests a capture and optionally waits for the new image and saves it

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markalston/autoclick-dashboard/internal/botstate"
	"github.com/markalston/autoclick-dashboard/internal/capture"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/dispatcher"
	"github.com/markalston/autoclick-dashboard/internal/poller"
	"github.com/markalston/autoclick-dashboard/internal/session"
	"github.com/spf13/cobra"
)

var (
	screenshotWait    bool
	screenshotOut     string
	screenshotTimeout time.Duration
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Request a new screenshot from the bot",
	Long: `Ask the bot to capture its screen. The capture completes asynchronously;
with --wait the command polls until a screenshot with a new timestamp appears.
--out writes the image to a file and implies --wait.

Exit codes:
  0 - Screenshot requested (or received, with --wait)
  2 - Error (rejected, connectivity, timeout)
  3 - Master password rejected`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runScreenshot(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().BoolVar(&screenshotWait, "wait", false, "Wait until the new screenshot is available")
	screenshotCmd.Flags().StringVarP(&screenshotOut, "out", "o", "", "Write the new screenshot to this file")
	screenshotCmd.Flags().DurationVar(&screenshotTimeout, "timeout", time.Minute, "How long to wait for the new screenshot")
}

// runScreenshot requests a capture and returns exit code
func runScreenshot(ctx context.Context, w io.Writer) int {
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
	d := dispatcher.New(c, sess, store)

	// The current timestamp is the baseline a new capture must differ from
	if _, err := p.PollOnce(ctx); err != nil {
		return reportError(w, err)
	}

	if err := d.Run(ctx, client.ActionScreenshot); err != nil {
		if client.IsUnauthorized(err) {
			return reportError(w, err)
		}
		fmt.Fprintf(w, "Error: %s\n", d.Notice())
		return exitError
	}

	if !screenshotWait && screenshotOut == "" {
		fmt.Fprintln(w, "Screenshot requested")
		return exitOK
	}

	waitCtx, cancel := context.WithTimeout(ctx, screenshotTimeout)
	defer cancel()
	err = p.Run(waitCtx, func(poller.Outcome) bool {
		return store.ScreenshotPending()
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintf(w, "Error: no new screenshot after %s\n", screenshotTimeout)
			return exitError
		}
		return reportError(w, err)
	}

	st := store.Status()
	if st.LatestScreenshotAt != nil {
		fmt.Fprintf(w, "Screenshot captured at %s\n", st.LatestScreenshotAt.Local().Format("2006-01-02 15:04:05"))
	}

	if screenshotOut == "" {
		return exitOK
	}
	if !st.HasScreenshot() {
		fmt.Fprintln(w, "Error: backend returned no image data")
		return exitError
	}
	payload, err := capture.Parse(*st.LatestScreenshotData)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	if err := os.WriteFile(screenshotOut, payload.Data, 0o644); err != nil {
		fmt.Fprintf(w, "Error: failed to write %s: %v\n", screenshotOut, err)
		return exitError
	}
	fmt.Fprintf(w, "Saved %s (%d bytes)\n", screenshotOut, len(payload.Data))
	return exitOK
}
