// ABOUTME: Simulate command for the autoclick CLI
// ABOUTME: Runs an in-memory bot behind the same HTTP API as the real backend

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markalston/autoclick-dashboard/internal/botsim"
	"github.com/markalston/autoclick-dashboard/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	simAddr     string
	simPassword string
	simSeedLogs int
	simAttempt  time.Duration
	simCapture  time.Duration
	simWinRate  float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a local bot simulator",
	Long: `Serve a simulated bot on the development API address so the dashboard
and commands can be exercised without the real backend:

  autoclick simulate --password secret &
  AUTOCLICK_ENV=development AUTOCLICK_MASTER_PASSWORD=secret autoclick`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if err := runSimulate(ctx); err != nil {
			slog.Error("Simulator failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	defaults := botsim.DefaultBotConfig()
	simulateCmd.Flags().StringVar(&simAddr, "addr", ":3001", "Listen address")
	simulateCmd.Flags().StringVar(&simPassword, "password", "", "Master password (default: AUTOCLICK_MASTER_PASSWORD)")
	simulateCmd.Flags().IntVar(&simSeedLogs, "seed-logs", 12, "Historical attempts to pre-populate")
	simulateCmd.Flags().DurationVar(&simAttempt, "attempt", defaults.AttemptDuration, "Time to play one level")
	simulateCmd.Flags().DurationVar(&simCapture, "capture-delay", defaults.CaptureDelay, "Delay before a requested screenshot appears")
	simulateCmd.Flags().Float64Var(&simWinRate, "win-rate", defaults.WinRate, "Probability an attempt is won (0-1)")
}

// runSimulate serves the simulator until ctx is cancelled
func runSimulate(ctx context.Context) error {
	password := simPassword
	if password == "" {
		password = os.Getenv(config.EnvMasterPassword)
	}
	if password == "" {
		return fmt.Errorf("a master password is required: use --password or set %s", config.EnvMasterPassword)
	}
	if simWinRate < 0 || simWinRate > 1 {
		return fmt.Errorf("--win-rate must be between 0 and 1")
	}

	bot := botsim.NewBot(botsim.BotConfig{
		AttemptDuration: simAttempt,
		CaptureDelay:    simCapture,
		WinRate:         simWinRate,
		Seed:            uint64(time.Now().UnixNano()),
	})
	bot.Seed(simSeedLogs)

	srv := &http.Server{
		Addr:              simAddr,
		Handler:           botsim.NewServer(bot, password).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Simulator listening", "addr", simAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return bot.Run(ctx, 250*time.Millisecond)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("Simulator shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
