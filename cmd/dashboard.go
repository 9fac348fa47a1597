// ABOUTME: Dashboard command opening the interactive terminal UI
// ABOUTME: Redirects logging to a file while the TUI owns the terminal

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/markalston/autoclick-dashboard/internal/logger"
	"github.com/markalston/autoclick-dashboard/internal/tui"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the live dashboard",
	Long: `Opens the interactive dashboard: live bot status, start/stop/continue
controls, the latest screenshot with zoom and pan, and the attempt history.

The master password is taken from AUTOCLICK_MASTER_PASSWORD when set,
otherwise the dashboard asks for it. Logs are written to debug.log in
the config directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// runDashboard starts the TUI until the user quits
func runDashboard() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	closeLog, err := logger.InitFile(cfg.ConfigDir)
	if err != nil {
		// The dashboard still works without a log file
		slog.Debug("Debug log unavailable", "error", err)
	}
	defer closeLog()

	slog.Info("Dashboard starting", "environment", cfg.Environment, "api_url", cfg.BaseURL(), "poll_interval", cfg.PollInterval)

	err = tui.Run(tui.Options{
		Client:       newClient(cfg),
		Environment:  cfg.Environment,
		BaseURL:      cfg.BaseURL(),
		PollInterval: cfg.PollInterval,
		Password:     cfg.MasterPassword,
	})
	if err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
