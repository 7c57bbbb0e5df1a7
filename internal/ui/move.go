package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mvidal/tripline/internal/dragdrop"
)

func (a *App) moveCmd() *cobra.Command {
	var (
		day      int
		slot     string
		after    string
		unassign bool
	)

	cmd := &cobra.Command{
		Use:   "move [stop]",
		Short: "Move a stop on the board",
		Long: `Move a stop to a day and slot, schedule it right after another
stop, or send it back to the unassigned pool.

Examples:
  tripline move "Sagrada" --day=2 --slot=afternoon
  tripline move "Cafe" --after="Sagrada"
  tripline move "Cafe" --unassign`,
		Args: cobra.ExactArgs(1),
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

			var target dragdrop.DropTarget
			switch {
			case unassign:
				target = dragdrop.UnassignedPool{}
			case after != "":
				other, err := findLocation(st, after)
				if err != nil {
					return err
				}
				target = dragdrop.Item{ID: other.ID}
			case cmd.Flags().Changed("day"):
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
				target = dragdrop.SlotCell{DayID: d.ID, Slot: s}
			default:
				return errors.New("one of --day, --after or --unassign is required")
			}

			// Nested stops move within their parent's window; the
			// session needs the parent to translate days to offsets.
			var parentID *uuid.UUID
			if parent, ok := st.ParentOf(loc.ID); ok {
				id := parent.ID
				parentID = &id
			}

			session := dragdrop.NewSession(st, parentID)
			session.PickUp(loc.ID)
			if !session.Drop(target) {
				return fmt.Errorf("cannot move %s there", loc.Name)
			}

			if err := a.saveTrip(ctx, name, st); err != nil {
				return err
			}

			moved, _ := st.Location(loc.ID)
			fmt.Printf("Moved %s to %s\n", formatScheduled(moved.Name), slotSummary(st, moved))
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "Target day number (1-based)")
	cmd.Flags().StringVar(&slot, "slot", "", "Target slot: morning, afternoon or evening")
	cmd.Flags().StringVar(&after, "after", "", "Schedule right after this stop")
	cmd.Flags().BoolVar(&unassign, "unassign", false, "Send the stop back to the unassigned pool")

	return cmd
}
