package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvidal/tripline/internal/trip"
)

func (a *App) stayCmd() *cobra.Command {
	var (
		cost   float64
		notes  string
		link   string
		lat    float64
		lng    float64
		remove bool
	)

	cmd := &cobra.Command{
		Use:   "stay [day] [name]",
		Short: "Set the accommodation for a night",
		Long: `Set where you sleep on the given night. Each day carries at most
one accommodation.

Examples:
  tripline stay 2 "Hotel Colon" --cost=120
  tripline stay 2 --remove`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			st, name, err := a.loadTrip(ctx)
			if err != nil {
				return err
			}

			var dayNum int
			if _, err := fmt.Sscanf(args[0], "%d", &dayNum); err != nil {
				return fmt.Errorf("day must be a number, got %q", args[0])
			}
			d, err := dayByNumber(st, dayNum)
			if err != nil {
				return err
			}

			if remove {
				st.SetAccommodation(d.ID, nil)
				if err := a.saveTrip(ctx, name, st); err != nil {
					return err
				}
				fmt.Printf("Removed accommodation for day %d\n", dayNum)
				return nil
			}

			if len(args) < 2 {
				return errors.New("an accommodation name is required")
			}

			acc := &trip.Accommodation{
				Name:  args[1],
				Notes: notes,
				Link:  link,
			}
			if cmd.Flags().Changed("cost") {
				acc.Cost = &cost
			}
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
				acc.Lat = &lat
				acc.Lng = &lng
			}

			st.SetAccommodation(d.ID, acc)
			if err := a.saveTrip(ctx, name, st); err != nil {
				return err
			}

			fmt.Printf("Day %d: staying at %s\n", dayNum, formatScheduled(args[1]))
			return nil
		},
	}

	cmd.Flags().Float64Var(&cost, "cost", 0, "Cost per night")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().StringVar(&link, "link", "", "Booking link")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the accommodation")

	return cmd
}
