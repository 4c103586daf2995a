package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/tidyhouse/internal/agenda"
)

func newAgendaCmd(configPath *string) *cobra.Command {
	var owner, date string

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print an owner's dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			loc := a.tracker.Location()
			now := a.tracker.Now()
			if date != "" {
				day, err := time.ParseInLocation(time.DateOnly, date, loc)
				if err != nil {
					return fmt.Errorf("--date %q: want YYYY-MM-DD", date)
				}
				now = day
			}

			d, err := a.tracker.Dashboard(ctx, owner, now)
			if err != nil {
				return err
			}
			return agenda.Render(cmd.OutOrStdout(), d)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Owner whose tasks to show")
	cmd.Flags().StringVar(&date, "date", "", "Evaluate as of this date (YYYY-MM-DD) instead of now")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
