package ui

import (
	"fmt"
	"strings"

	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
)

// findLocation resolves a stop by case-insensitive name prefix,
// searching top-level stops and one level of nesting.
func findLocation(st *trip.Store, query string) (trip.Location, error) {
	q := strings.ToLower(query)
	var matches []trip.Location

	for _, l := range st.Locations() {
		if strings.HasPrefix(strings.ToLower(l.Name), q) {
			matches = append(matches, l)
		}
		for _, sub := range l.SubLocations {
			if strings.HasPrefix(strings.ToLower(sub.Name), q) {
				matches = append(matches, sub)
			}
		}
	}

	switch len(matches) {
	case 0:
		return trip.Location{}, fmt.Errorf("%w: %s", trip.ErrLocationNotFound, query)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return trip.Location{}, fmt.Errorf("ambiguous stop %q: matches %s", query, strings.Join(names, ", "))
	}
}

// dayByNumber resolves a 1-based day number to the day itself.
func dayByNumber(st *trip.Store, n int) (trip.Day, error) {
	days := st.Days()
	if n < 1 || n > len(days) {
		return trip.Day{}, fmt.Errorf("%w: day %d of %d", trip.ErrDayNotFound, n, len(days))
	}
	return days[n-1], nil
}

// parseSlot parses a slot name, accepting short prefixes like "m",
// "a", "e".
func parseSlot(s string) (timeline.Slot, error) {
	switch strings.ToLower(s) {
	case "m", "morning":
		return timeline.SlotMorning, nil
	case "a", "afternoon":
		return timeline.SlotAfternoon, nil
	case "e", "evening":
		return timeline.SlotEvening, nil
	}
	return timeline.Parse(s)
}

// slotSummary describes where a stop sits on the board.
func slotSummary(st *trip.Store, l trip.Location) string {
	if l.StartDayID != nil {
		if idx := st.DayIndexOf(*l.StartDayID); idx >= 0 {
			return fmt.Sprintf("day %d, %s", idx+1, l.Slot())
		}
	}
	if l.DayOffset != nil {
		return fmt.Sprintf("nested, day offset %d, %s", *l.DayOffset, l.Slot())
	}
	return "unassigned"
}
