package main

import (
	"fmt"
	"os"

	"github.com/gdg-garage/activity-board/internal/config"
	"github.com/gdg-garage/activity-board/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds what every command needs.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
}

var app *App

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "activityboard",
		Short: "Mergington High School extracurricular activities",
		Long:  `Serves the activities API and the board page that lists activities and manages signups.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(apiCmd())
	rootCmd.AddCommand(boardCmd())
	rootCmd.AddCommand(listCmd())
	return rootCmd
}

// initApp loads the configuration and builds the logger
func initApp() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogEnv, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app = &App{cfg: cfg, logger: logger}
	return nil
}
