// Package timeline provides the slot arithmetic every other component
// builds on: three named slots per day, mapped onto a flat absolute
// slot index so range and overlap queries reduce to integer math.
package timeline

import "errors"

// ErrInvalidSlot is returned when parsing an unknown slot name.
var ErrInvalidSlot = errors.New("slot must be 'morning', 'afternoon' or 'evening'")

// Slot is one of the three fixed daily periods.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
)

// SlotsPerDay is the number of slots in a single day.
const SlotsPerDay = 3

// Slots returns the slots of a day in chronological order.
func Slots() [SlotsPerDay]Slot {
	return [SlotsPerDay]Slot{SlotMorning, SlotAfternoon, SlotEvening}
}

// Index returns the position of the slot within a day.
// Unknown or empty slots count as morning.
func (s Slot) Index() int {
	switch s {
	case SlotAfternoon:
		return 1
	case SlotEvening:
		return 2
	default:
		return 0
	}
}

// Valid returns true if the slot is one of the three known values.
func (s Slot) Valid() bool {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return true
	default:
		return false
	}
}

// Parse converts a slot name to a Slot.
func Parse(s string) (Slot, error) {
	slot := Slot(s)
	if !slot.Valid() {
		return "", ErrInvalidSlot
	}
	return slot, nil
}

// At returns the slot at the given within-day index.
// Indexes outside [0, 2] wrap via modulo so callers can feed absolute
// slot values directly.
func At(i int) Slot {
	switch ((i % SlotsPerDay) + SlotsPerDay) % SlotsPerDay {
	case 1:
		return SlotAfternoon
	case 2:
		return SlotEvening
	default:
		return SlotMorning
	}
}

// AbsoluteSlot flattens a (dayIndex, slot) pair into the global slot
// coordinate: dayIndex*3 + slot index.
func AbsoluteSlot(dayIndex int, s Slot) int {
	return dayIndex*SlotsPerDay + s.Index()
}

// RangeEnd returns the last absolute slot covered by an item starting
// at start and spanning duration slots. Durations below one slot are
// treated as one.
func RangeEnd(start, duration int) int {
	if duration < 1 {
		duration = 1
	}
	return start + duration - 1
}

// DayOf returns the day index an absolute slot falls on.
func DayOf(abs int) int {
	if abs < 0 {
		return -1
	}
	return abs / SlotsPerDay
}

// Covers reports whether the closed range [start, RangeEnd(start,
// duration)] contains the absolute slot abs.
func Covers(start, duration, abs int) bool {
	return abs >= start && abs <= RangeEnd(start, duration)
}
