package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvidal/tripline/internal/timeline"
)

func (a *App) nestCmd() *cobra.Command {
	var (
		pop    bool
		offset int
		slot   string
	)

	cmd := &cobra.Command{
		Use:   "nest [stop] [area]",
		Short: "Nest a stop inside an area",
		Long: `Nest a stop inside another stop, turning the target into an
area. Areas cannot be nested inside each other. With --pop the stop
is pulled back out to the top level.

Examples:
  tripline nest "Cathedral" "Old Town"
  tripline nest "Cathedral" --pop`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			st, name, err := a.loadTrip(ctx)
			if err != nil {
				return err
			}

			loc, err := findLocation(st, args[0])
			if err != nil {
				return err
			}

			if pop {
				if !st.RemoveSubLocation(loc.ID) {
					return fmt.Errorf("%s is not nested", loc.Name)
				}
				loc.DayOffset = nil
				loc.StartDayID = nil
				st.AddLocation(loc)
				if err := a.saveTrip(ctx, name, st); err != nil {
					return err
				}
				fmt.Printf("Moved %s back to the top level\n", loc.Name)
				return nil
			}

			if len(args) < 2 {
				return fmt.Errorf("an area to nest into is required")
			}
			parent, err := findLocation(st, args[1])
			if err != nil {
				return err
			}

			if !st.Nest(loc.ID, parent.ID) {
				return fmt.Errorf("cannot nest %s into %s", loc.Name, parent.Name)
			}

			if cmd.Flags().Changed("offset") || slot != "" {
				s := timeline.SlotMorning
				if slot != "" {
					if s, err = parseSlot(slot); err != nil {
						return err
					}
				}
				if !st.AssignNested(parent.ID, loc.ID, offset, s) {
					return fmt.Errorf("cannot place %s at offset %d", loc.Name, offset)
				}
			}

			if err := a.saveTrip(ctx, name, st); err != nil {
				return err
			}

			fmt.Printf("Nested %s inside %s\n", loc.Name, formatParent(parent.Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pop, "pop", false, "Pull the stop back out to the top level")
	cmd.Flags().IntVar(&offset, "offset", 0, "Day offset within the area (0-based)")
	cmd.Flags().StringVar(&slot, "slot", "", "Slot within the offset day")

	return cmd
}
