// ABOUTME: Root command for the autoclick CLI
// ABOUTME: Handles global flags, configuration and the shared client/session wiring

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/config"
	"github.com/markalston/autoclick-dashboard/internal/logger"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	envName    string
	jsonOutput bool
)

// rootCmd is the base command; with no subcommand it opens the dashboard
var rootCmd = &cobra.Command{
	Use:   "autoclick",
	Short: "Monitor and control the autoclick bot",
	Long: `autoclick is a terminal dashboard and command-line tool for the autoclick bot.

Run without arguments to open the live dashboard, or use a subcommand for
scripting and monitoring.

Environment Variables:
  AUTOCLICK_ENV              development or production (default: production)
  AUTOCLICK_API_URL          Backend API URL (overrides the environment's URL)
  AUTOCLICK_MASTER_PASSWORD  Master password (prompted for when unset)
  AUTOCLICK_POLL_INTERVAL    Status poll interval (default: 1s)
  AUTOCLICK_HTTP_TIMEOUT     Per-request timeout (default: 30s)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(os.Stderr)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides AUTOCLICK_API_URL)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "Backend environment: development or production (overrides AUTOCLICK_ENV)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// loadConfig reads the environment and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if envName != "" {
		cfg.Environment = config.Environment(strings.ToLower(envName))
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetAPIURL returns the API URL from flag, env, or the environment default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return strings.TrimRight(apiURL, "/")
	}
	cfg, err := loadConfig()
	if err != nil {
		return config.ProductionAPIURL
	}
	return cfg.BaseURL()
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newClient builds an API client for cfg
func newClient(cfg *config.Config) *client.Client {
	return client.New(cfg.BaseURL(), client.WithTimeout(cfg.HTTPTimeout))
}

// connect loads configuration and resolves the master password for headless commands
func connect() (*config.Config, *client.Client, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, "", err
	}
	password, err := resolvePassword(cfg)
	if err != nil {
		return nil, nil, "", err
	}
	return cfg, newClient(cfg), password, nil
}

// resolvePassword prefers AUTOCLICK_MASTER_PASSWORD and prompts otherwise
func resolvePassword(cfg *config.Config) (string, error) {
	if cfg.MasterPassword != "" {
		return cfg.MasterPassword, nil
	}
	if !canPrompt() {
		return "", fmt.Errorf("master password required: set %s", config.EnvMasterPassword)
	}
	return promptPassword()
}
