package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvidal/tripline/internal/trip"
)

var transportTypes = []trip.TransportType{
	trip.TransportWalk,
	trip.TransportDrive,
	trip.TransportTransit,
	trip.TransportTrain,
	trip.TransportFlight,
	trip.TransportFerry,
	trip.TransportBike,
}

func parseTransport(s string) (trip.TransportType, error) {
	for _, t := range transportTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	names := make([]string, len(transportTypes))
	for i, t := range transportTypes {
		names[i] = string(t)
	}
	return "", fmt.Errorf("unknown transport %q (one of: %s)", s, strings.Join(names, ", "))
}

func (a *App) routeCmd() *cobra.Command {
	var (
		transport string
		minutes   int
		cost      float64
		notes     string
		remove    bool
	)

	cmd := &cobra.Command{
		Use:   "route [from] [to]",
		Short: "Connect two stops with a route",
		Long: `Connect two stops with a route. A pair of stops carries at most
one route; setting it again replaces the previous one.

Example:
  tripline route "Sagrada" "Park Guell" --transport=transit --minutes=25 --cost=2.40`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			st, name, err := a.loadTrip(ctx)
			if err != nil {
				return err
			}

			from, err := findLocation(st, args[0])
			if err != nil {
				return err
			}
			to, err := findLocation(st, args[1])
			if err != nil {
				return err
			}

			if remove {
				r, ok := st.RouteBetween(from.ID, to.ID)
				if !ok {
					return fmt.Errorf("%w: %s to %s", trip.ErrRouteNotFound, from.Name, to.Name)
				}
				st.RemoveRoute(r.ID)
				if err := a.saveTrip(ctx, name, st); err != nil {
					return err
				}
				fmt.Printf("Removed route %s ↔ %s\n", from.Name, to.Name)
				return nil
			}

			tt, err := parseTransport(transport)
			if err != nil {
				return err
			}

			r := trip.Route{
				FromLocationID: from.ID,
				ToLocationID:   to.ID,
				TransportType:  tt,
				Notes:          notes,
			}
			if existing, ok := st.RouteBetween(from.ID, to.ID); ok {
				r.ID = existing.ID
			}
			if cmd.Flags().Changed("minutes") {
				r.Duration = &minutes
			}
			if cmd.Flags().Changed("cost") {
				r.Cost = &cost
			}

			if _, err := st.UpsertRoute(r); err != nil {
				return err
			}
			if err := a.saveTrip(ctx, name, st); err != nil {
				return err
			}

			fmt.Printf("Route %s ↔ %s: %s\n", from.Name, to.Name, formatRoute(string(tt)))
			return nil
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "walk", "Transport type")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Travel time in minutes")
	cmd.Flags().Float64Var(&cost, "cost", 0, "Travel cost")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the route between the stops")

	return cmd
}
