// ABOUTME: start, stop and continue commands for the autoclick CLI
// ABOUTME: Sends a control action and prints the status the backend returns

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/autoclick-dashboard/internal/botstate"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/dispatcher"
	"github.com/markalston/autoclick-dashboard/internal/session"
	"github.com/spf13/cobra"
)

var controlTarget int

func init() {
	for _, def := range []struct {
		action client.Action
		use    string
		short  string
		target bool
	}{
		{client.ActionStart, "start", "Start the bot from level 1", true},
		{client.ActionStop, "stop", "Stop the bot", false},
		{client.ActionContinue, "continue", "Resume the bot at its current level", true},
	} {
		rootCmd.AddCommand(newControlCmd(def.action, def.use, def.short, def.target))
	}
}

func newControlCmd(action client.Action, use, short string, withTarget bool) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

Exit codes:
  0 - Command accepted
  2 - Error (rejected by the backend, connectivity, invalid input)
  3 - Master password rejected`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			target := -1
			if cmd.Flags().Changed("target-level") {
				if controlTarget < 0 {
					fmt.Fprintln(os.Stdout, "Error: --target-level must be 0 (unlimited) or positive")
					os.Exit(exitError)
				}
				target = controlTarget
			}
			exitCode := runControl(ctx, os.Stdout, action, target)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}
	if withTarget {
		c.Flags().IntVar(&controlTarget, "target-level", 0, "Level to stop at (0 = unlimited); omitted keeps the bot's current target")
	}
	return c
}

// runControl dispatches action; target < 0 means no target is attached
func runControl(ctx context.Context, w io.Writer, action client.Action, target int) int {
	_, c, password, err := connect()
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
	if target >= 0 {
		if err := store.SetTarget(target); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
	}

	d := dispatcher.New(c, sess, store)
	if err := d.Run(ctx, action); err != nil {
		if client.IsUnauthorized(err) {
			return reportError(w, err)
		}
		fmt.Fprintf(w, "Error: %s\n", d.Notice())
		return exitError
	}

	st := store.Status()
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(summarize(st), "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "%s accepted\n%s\n", action, formatStatusLine(st, store.Target()))
	}
	return exitOK
}
