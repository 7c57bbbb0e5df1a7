package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvidal/tripline/internal/schedule"
	"github.com/mvidal/tripline/internal/trip"
)

func (a *App) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the trip's stops in chronological order",
		RunE: func(_ *cobra.Command, _ []string) error {
			st, name, err := a.loadTrip(context.Background())
			if err != nil {
				return err
			}

			ix := schedule.FromStore(st)
			fmt.Println(formatHeader(fmt.Sprintf("Trip %q — %d stops", name, st.CountLocations())))

			for _, l := range schedule.SortChronological(st.Locations(), ix) {
				printLocation(st, l, 0)
				for _, sub := range l.SubLocations {
					printLocation(st, sub, 1)
				}
			}
			return nil
		},
	}
	return cmd
}

func printLocation(st *trip.Store, l trip.Location, depth int) {
	indent := ""
	if depth > 0 {
		indent = "    "
	}

	name := l.Name
	switch {
	case l.IsParent():
		name = formatParent(fmt.Sprintf("%s (%d nested)", name, len(l.SubLocations)))
	case l.IsScheduled() || l.DayOffset != nil:
		name = formatScheduled(name)
	default:
		name = formatMuted(name)
	}

	extra := ""
	if l.Cost > 0 {
		extra = fmt.Sprintf("  %.2f", l.Cost)
	}
	if l.Category != "" {
		extra += "  [" + l.Category + "]"
	}

	fmt.Printf("%s%s  %s%s\n", indent, name, formatMuted(slotSummary(st, l)), extra)
}
