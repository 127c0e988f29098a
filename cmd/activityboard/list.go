package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gdg-garage/activity-board/internal/activities"
	"github.com/gdg-garage/activity-board/internal/board"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the activities served by the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := activities.NewClient(app.cfg.APIBaseURL, activities.WithTimeout(app.cfg.RequestTimeout))
			if err != nil {
				return fmt.Errorf("failed to create activities client: %w", err)
			}

			list, err := client.ListActivities(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list activities: %w", err)
			}

			printActivities(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func printActivities(w io.Writer, list []activities.Activity) {
	fmt.Fprintf(w, "\nFound %d activities:\n\n", len(list))
	for _, a := range list {
		fmt.Fprintf(w, "%s (%d spots left)\n", a.Name, a.SpotsLeft())
		fmt.Fprintf(w, "  Schedule: %s\n", a.Schedule)
		if len(a.Participants) == 0 {
			fmt.Fprintln(w, "  No participants yet")
		}
		for _, email := range a.Participants {
			fmt.Fprintf(w, "  [%s] %s\n", board.Initial(email), email)
		}
		fmt.Fprintln(w, strings.Repeat("-", 40))
	}
}
