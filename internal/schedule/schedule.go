// Package schedule answers placement queries over the day/slot grid:
// occupancy, nested slot blocking, and per-day activity checks. It
// never mutates the store; callers derive an Index per store version
// and pass it in.
package schedule

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
)

// pairKey is an order-independent key for a pair of location ids.
type pairKey struct {
	lo, hi uuid.UUID
}

func newPairKey(a, b uuid.UUID) pairKey {
	if b.String() < a.String() {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Index holds the read-only lookup tables derived once per store
// version and shared by the scheduling, layout, and drag components.
type Index struct {
	days         []trip.Day
	dayIndexByID map[uuid.UUID]int
	routesByPair map[pairKey]trip.Route
}

// NewIndex builds the lookup tables for the given day and route lists.
func NewIndex(days []trip.Day, routes []trip.Route) *Index {
	ix := &Index{
		days:         days,
		dayIndexByID: make(map[uuid.UUID]int, len(days)),
		routesByPair: make(map[pairKey]trip.Route, len(routes)),
	}
	for i, d := range days {
		ix.dayIndexByID[d.ID] = i
	}
	for _, r := range routes {
		ix.routesByPair[newPairKey(r.FromLocationID, r.ToLocationID)] = r
	}
	return ix
}

// FromStore builds an Index for the store's current state.
func FromStore(s *trip.Store) *Index {
	return NewIndex(s.Days(), s.Routes())
}

// DayIndexOf returns a day's index within the trip, or -1 when the id
// does not resolve. Callers treat -1 as unscheduled/out of range.
func (ix *Index) DayIndexOf(id uuid.UUID) int {
	if i, ok := ix.dayIndexByID[id]; ok {
		return i
	}
	return -1
}

// Days returns the indexed day list.
func (ix *Index) Days() []trip.Day {
	return ix.days
}

// RouteBetween returns the route joining two locations, in either
// direction.
func (ix *Index) RouteBetween(a, b uuid.UUID) (trip.Route, bool) {
	r, ok := ix.routesByPair[newPairKey(a, b)]
	return r, ok
}

// StartSlotOf resolves a location's absolute start slot against the
// indexed day list, or -1 when the location is unscheduled or its day
// is gone.
func (ix *Index) StartSlotOf(l *trip.Location) int {
	if l.StartDayID == nil {
		return -1
	}
	day := ix.DayIndexOf(*l.StartDayID)
	if day < 0 {
		return -1
	}
	return timeline.AbsoluteSlot(day, l.Slot())
}

// OccupancyAt returns true if any location's occupied range contains
// the given absolute slot. Used for overnight-span checks such as
// deciding whether a day's evening is already covered.
func OccupancyAt(abs int, locs []trip.Location, ix *Index) bool {
	for i := range locs {
		start := ix.StartSlotOf(&locs[i])
		if start < 0 {
			continue
		}
		if timeline.Covers(start, locs[i].Span(), abs) {
			return true
		}
	}
	return false
}

// HasActivityOnDay returns true if any location resolves to the given
// global day index.
func HasActivityOnDay(dayIndex int, locs []trip.Location, ix *Index) bool {
	for i := range locs {
		start := ix.StartSlotOf(&locs[i])
		if start < 0 {
			continue
		}
		end := timeline.RangeEnd(start, locs[i].Span())
		if dayIndex >= timeline.DayOf(start) && dayIndex <= timeline.DayOf(end) {
			return true
		}
	}
	return false
}

// IsSlotBlocked reports, for the nested context under parent, whether
// the target day falls outside the days the parent touches.
// Sub-itinerary activities cannot be placed on dates the destination
// does not cover, but any slot on a touched day is fair game even
// when the parent's own range starts later or ends earlier that day.
// Unresolvable parents or days block nothing (fail-open).
func IsSlotBlocked(parent *trip.Location, dayID uuid.UUID, slot timeline.Slot, ix *Index) bool {
	if parent == nil {
		return false
	}
	parentStart := ix.StartSlotOf(parent)
	if parentStart < 0 {
		return false
	}
	day := ix.DayIndexOf(dayID)
	if day < 0 {
		return false
	}
	firstDay := timeline.DayOf(parentStart)
	lastDay := timeline.DayOf(timeline.RangeEnd(parentStart, parent.Span()))
	return day < firstDay || day > lastDay
}

// SortChronological returns the locations sorted by global day index,
// then slot index, then order. Unscheduled locations sort last,
// keeping their relative order. This is the sort both rendering and
// the keyboard reorder path share.
func SortChronological(locs []trip.Location, ix *Index) []trip.Location {
	out := append([]trip.Location(nil), locs...)
	sort.SliceStable(out, func(i, j int) bool {
		si := ix.StartSlotOf(&out[i])
		sj := ix.StartSlotOf(&out[j])
		switch {
		case si < 0 && sj < 0:
			return false
		case si < 0:
			return false
		case sj < 0:
			return true
		case si != sj:
			return si < sj
		default:
			return out[i].Order < out[j].Order
		}
	})
	return out
}

// Neighbor returns the chronological neighbor of the location with the
// given id within locs: direction -1 for the previous item, +1 for the
// next. The second return is false at list edges or when the id is
// missing or unscheduled.
func Neighbor(id uuid.UUID, direction int, locs []trip.Location, ix *Index) (trip.Location, bool) {
	sorted := SortChronological(locs, ix)
	for i := range sorted {
		if sorted[i].ID != id {
			continue
		}
		j := i + direction
		if j < 0 || j >= len(sorted) {
			return trip.Location{}, false
		}
		if ix.StartSlotOf(&sorted[j]) < 0 {
			return trip.Location{}, false
		}
		return sorted[j], true
	}
	return trip.Location{}, false
}
