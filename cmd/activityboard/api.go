package main

import (
	"context"
	"fmt"

	"github.com/gdg-garage/activity-board/internal/database"
	"github.com/gdg-garage/activity-board/internal/handlers"
	"github.com/gdg-garage/activity-board/internal/models"
	"github.com/gdg-garage/activity-board/internal/notifier"
	"github.com/gdg-garage/activity-board/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func apiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Serve the activities API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, closeRepo, err := openRepository(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			if app.cfg.SeedData {
				if err := repo.Seed(ctx, models.DefaultActivities()); err != nil {
					return fmt.Errorf("failed to seed activities: %w", err)
				}
			}

			var activityNotifier notifier.Notifier
			if app.cfg.NotificationsEnabled() {
				discordNotifier, err := notifier.NewDiscordNotifier(app.cfg.DiscordBotToken, app.cfg.DiscordNotificationsChannelID)
				if err != nil {
					app.logger.Warn("Discord notifier not initialized", zap.Error(err))
				} else {
					activityNotifier = discordNotifier
				}
			}

			activityHandler := handlers.NewActivityHandler(repo, activityNotifier, app.logger)

			r := chi.NewRouter()
			handlers.RegisterRoutes(r, activityHandler)

			return serve(ctx, newServer(app.cfg.Port, r), app.logger)
		},
	}
}

// openRepository picks postgres when DATABASE_URL is set and sqlite otherwise.
func openRepository(ctx context.Context) (repository.ActivityRepository, func(), error) {
	if app.cfg.DatabaseURL != "" {
		pool, err := database.NewPool(ctx, app.cfg.DatabaseURL, app.logger)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPostgresActivityRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		app.logger.Info("Connected to PostgreSQL")
		return repo, pool.Close, nil
	}

	db, err := database.Connect(app.cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	app.logger.Info("Opened sqlite database", zap.String("path", app.cfg.DatabasePath))
	return repository.NewGormActivityRepository(db), closeDB, nil
}
