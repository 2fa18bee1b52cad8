// Package serve contains the command that runs the bot, the dashboard API,
// and the recurring-expense sweeper.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hornerito/internal/bot"
	"hornerito/internal/config"
	"hornerito/internal/container"

	"github.com/spf13/cobra"
)

// Cmd is the serve command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the dashboard API.",
	Long: `Starts long polling against the Telegram API, serves the read-only
dashboard endpoints, and sweeps due recurring expenses in the background.
Stops cleanly on SIGINT/SIGTERM.`,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Initialize()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			c.GetLogger().WithError(err).Error("Failed to close container")
		}
	}()
	logger := c.GetLogger()

	telegram, err := bot.NewTelegram(
		cfg.Telegram.Token,
		time.Duration(cfg.Telegram.PollTimeoutSec)*time.Second,
		c.GetController(),
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	sweeper := c.NewSweeper(telegram)
	go sweeper.Run(ctx)

	if web := c.GetWebServer(); web != nil {
		go func() {
			if err := web.Start(); err != nil {
				logger.WithError(err).Error("Dashboard API stopped")
			}
		}()
	}

	go telegram.Start()
	logger.Info("Hornerito is running")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down")
	cancel()
	telegram.Stop()
	if web := c.GetWebServer(); web != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := web.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Dashboard API shutdown failed")
		}
	}
	return nil
}
