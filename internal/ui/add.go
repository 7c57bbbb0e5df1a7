package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvidal/tripline/internal/geo"
	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
)

func (a *App) addCmd() *cobra.Command {
	var (
		day      int
		slot     string
		duration int
		category string
		cost     float64
		notes    string
		lat      float64
		lng      float64
		locate   bool
		coords   bool
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a stop to the trip",
		Long: `Add a stop to the trip, optionally placing it on the board.

Without --day the stop goes to the unassigned pool. With --lat and
--lng and no name, the name is resolved by reverse geocoding.

Example:
  tripline add "Sagrada Familia" --day=2 --slot=morning --duration=2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			st, tripName, err := a.loadTrip(ctx)
			if err != nil {
				return err
			}

			coords = cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng")

			var name string
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				if !coords {
					return trip.ErrEmptyName
				}
				geocoder := geo.NewNominatim(a.config.Geocoder.BaseURL, a.config.GeocoderTimeout())
				name = geo.Label(ctx, geocoder, geo.Point{Lat: lat, Lng: lng})
			}
			if locate && !coords {
				geocoder := geo.NewNominatim(a.config.Geocoder.BaseURL, a.config.GeocoderTimeout())
				places, err := geocoder.Search(ctx, name)
				if err != nil {
					return fmt.Errorf("looking up %q: %w", name, err)
				}
				if len(places) == 0 {
					return fmt.Errorf("no results for %q", name)
				}
				lat, lng = places[0].Point.Lat, places[0].Point.Lng
				coords = true
			}

			if duration < 1 {
				duration = a.config.Trip.DefaultDuration
			}

			loc := trip.Location{
				Name:     name,
				Duration: duration,
				Category: category,
				Cost:     cost,
				Notes:    notes,
			}
			if coords {
				loc.Lat = lat
				loc.Lng = lng
			}
			id := st.AddLocation(loc)

			placed := "unassigned"
			if cmd.Flags().Changed("day") {
				d, err := dayByNumber(st, day)
				if err != nil {
					return err
				}
				s := a.defaultSlot()
				if slot != "" {
					if s, err = parseSlot(slot); err != nil {
						return err
					}
				}
				if !st.Assign(id, d.ID, s) {
					return errors.New("placing stop failed")
				}
				placed = fmt.Sprintf("day %d, %s", day, s)
			}

			if err := a.saveTrip(ctx, tripName, st); err != nil {
				return err
			}

			fmt.Printf("Added %s (%s, %d slot(s))\n", formatScheduled(name), placed, duration)
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "Day number to place the stop on (1-based)")
	cmd.Flags().StringVar(&slot, "slot", "", "Slot: morning, afternoon or evening")
	cmd.Flags().IntVar(&duration, "duration", 0, "Number of slots the stop covers")
	cmd.Flags().StringVar(&category, "category", "", "Free-form category, e.g. museum or food")
	cmd.Flags().Float64Var(&cost, "cost", 0, "Estimated cost")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	cmd.Flags().BoolVar(&locate, "locate", false, "Resolve coordinates from the name via the geocoder")

	return cmd
}

func (a *App) defaultSlot() timeline.Slot {
	s, err := parseSlot(a.config.Trip.DefaultSlot)
	if err != nil {
		return timeline.SlotMorning
	}
	return s
}
