package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvidal/tripline/internal/trip"
)

func (a *App) newCmd() *cobra.Command {
	var (
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new trip",
		Long: `Create a new trip covering the given date range.

Example:
  tripline new barcelona --start=2026-06-01 --end=2026-06-07`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			startDate, err := time.Parse(trip.DateFormat, start)
			if err != nil {
				return fmt.Errorf("%w: %s", trip.ErrInvalidDateFormat, start)
			}
			endDate, err := time.Parse(trip.DateFormat, end)
			if err != nil {
				return fmt.Errorf("%w: %s", trip.ErrInvalidDateFormat, end)
			}

			st, err := trip.NewStore(startDate, endDate)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if err := a.saveTrip(ctx, args[0], st); err != nil {
				return err
			}

			fmt.Printf("Created trip %q: %s to %s (%d days)\n",
				args[0], start, end, len(st.Days()))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&end, "end", "", "Last day (YYYY-MM-DD, required)")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) datesCmd() *cobra.Command {
	var (
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Change the trip's date range",
		Long: `Change the trip's date range. Days keep their stops and
accommodation by date; stops whose day falls outside the new range
become unassigned.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			st, name, err := a.loadTrip(ctx)
			if err != nil {
				return err
			}

			startDate, err := time.Parse(trip.DateFormat, start)
			if err != nil {
				return fmt.Errorf("%w: %s", trip.ErrInvalidDateFormat, start)
			}
			endDate, err := time.Parse(trip.DateFormat, end)
			if err != nil {
				return fmt.Errorf("%w: %s", trip.ErrInvalidDateFormat, end)
			}

			if err := st.UpdateDateRange(startDate, endDate); err != nil {
				return err
			}
			if err := a.saveTrip(ctx, name, st); err != nil {
				return err
			}

			fmt.Printf("Trip %q now runs %s to %s (%d days)\n",
				name, start, end, len(st.Days()))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&end, "end", "", "Last day (YYYY-MM-DD, required)")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
