package main

import (
	"fmt"
	"net/http"

	"github.com/gdg-garage/activity-board/internal/activities"
	"github.com/gdg-garage/activity-board/internal/board"
	"github.com/gdg-garage/activity-board/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Serve the activities board page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := activities.NewClient(app.cfg.APIBaseURL, activities.WithTimeout(app.cfg.RequestTimeout))
			if err != nil {
				return fmt.Errorf("failed to create activities client: %w", err)
			}

			page := web.NewPage()
			newController := func(view *web.Visitor) *board.Controller {
				return board.NewController(client, view, app.logger,
					board.WithHideDelay(app.cfg.MessageTimeout),
				)
			}

			// A failed first load leaves the failure notice on the page.
			if err := newController(web.NewVisitor(page)).LoadAndRender(ctx); err != nil {
				app.logger.Warn("Initial load failed", zap.Error(err))
			}

			if app.cfg.SessionKey == "" {
				app.logger.Warn("SESSION_KEY is not set, board sessions end on restart")
			}
			sessions := web.NewSessions(page, func(view *web.Visitor) web.Dispatcher {
				return newController(view)
			}, []byte(app.cfg.SessionKey), app.cfg.CSRFSecure)

			var middlewares []func(http.Handler) http.Handler
			if app.cfg.CSRFKey != "" {
				middlewares = append(middlewares, web.CSRF([]byte(app.cfg.CSRFKey), app.cfg.CSRFSecure))
			} else {
				app.logger.Warn("CSRF_KEY is not set, board forms are unprotected")
			}

			r := web.NewRouter(web.NewBoardHandler(sessions, app.logger), middlewares...)
			return serve(ctx, newServer(app.cfg.BoardPort, r), app.logger)
		},
	}
}
