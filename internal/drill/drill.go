// Package drill derives the active view from a selection: which
// parent destination (if any) is drilled into, which slice of the
// trip's days is in effect, and the nested items projected into that
// window's coordinates so the same board rendering works unmodified.
// Everything here is a pure projection; nothing mutates the store.
package drill

import (
	"github.com/google/uuid"

	"github.com/mvidal/tripline/internal/schedule"
	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
)

// View is the derived rendering state for the current selection.
type View struct {
	// Parent is the drilled-into destination, nil at top level.
	Parent *trip.Location
	// Days is the active day window: the parent's covered days when
	// drilled in, the full trip otherwise.
	Days []trip.Day
	// Locations are the items to render: sub-locations projected onto
	// the window when drilled in, the top-level list otherwise.
	Locations []trip.Location
}

// Drilled returns true when the view is inside a parent destination.
func (v *View) Drilled() bool {
	return v.Parent != nil
}

// Resolve computes the view for the given selection. A selected parent
// (or a selection inside one) activates that parent's window;
// focusDay, when non-nil and not drilled in, narrows the location list
// to stops on that day.
func Resolve(st *trip.Store, ix *schedule.Index, selectedID, focusDay *uuid.UUID) View {
	parent := activeParent(st, selectedID)
	if parent == nil {
		return topLevelView(st, ix, focusDay)
	}

	days := windowDays(parent, ix)
	view := View{Parent: parent, Days: days}
	for _, sub := range parent.SubLocations {
		view.Locations = append(view.Locations, projectNested(sub, days))
	}
	return view
}

// activeParent returns the top-level location that is (or contains)
// the selection, provided it has a sub-itinerary.
func activeParent(st *trip.Store, selectedID *uuid.UUID) *trip.Location {
	if selectedID == nil {
		return nil
	}
	if loc, ok := st.Location(*selectedID); ok && loc.IsParent() {
		return &loc
	}
	if parent, ok := st.ParentOf(*selectedID); ok {
		return &parent
	}
	return nil
}

// windowDays slices the global day list down to exactly the days the
// parent's own duration covers. An unresolvable parent yields the full
// list (fail-open).
func windowDays(parent *trip.Location, ix *schedule.Index) []trip.Day {
	days := ix.Days()
	start := ix.StartSlotOf(parent)
	if start < 0 {
		return days
	}
	first := timeline.DayOf(start)
	last := timeline.DayOf(timeline.RangeEnd(start, parent.Span()))
	if last >= len(days) {
		last = len(days) - 1
	}
	if first > last {
		return days
	}
	return days[first : last+1]
}

// projectNested rewrites a nested location's offset anchor into a
// synthetic start-day reference within the active window. Offsets
// falling outside the window leave the item unassigned (fail-open).
func projectNested(sub trip.Location, days []trip.Day) trip.Location {
	sub.StartDayID = nil
	if sub.DayOffset != nil && *sub.DayOffset < len(days) {
		dayID := days[*sub.DayOffset].ID
		sub.StartDayID = &dayID
	}
	return sub
}

func topLevelView(st *trip.Store, ix *schedule.Index, focusDay *uuid.UUID) View {
	view := View{Days: ix.Days()}
	locs := st.Locations()
	if focusDay == nil {
		view.Locations = locs
		return view
	}
	focus := ix.DayIndexOf(*focusDay)
	if focus < 0 {
		view.Locations = locs
		return view
	}
	for i := range locs {
		start := ix.StartSlotOf(&locs[i])
		if start < 0 {
			continue
		}
		end := timeline.RangeEnd(start, locs[i].Span())
		if focus >= timeline.DayOf(start) && focus <= timeline.DayOf(end) {
			view.Locations = append(view.Locations, locs[i])
		}
	}
	return view
}
