package trip

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvidal/tripline/internal/timeline"
)

// Store holds the canonical state of a single trip. All mutations go
// through its methods so the two referential invariants hold at every
// step: routes never reference a missing location, and scheduled
// anchors always resolve against the current day list.
//
// The store is single-writer; callers apply one mutation at a time.
type Store struct {
	startDate time.Time
	endDate   time.Time
	days      []Day
	locations []Location
	routes    []Route

	selectedID *uuid.UUID
	hoveredID  *uuid.UUID
}

// NewStore creates a store with one day per date in the inclusive
// [start, end] range.
func NewStore(start, end time.Time) (*Store, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}
	s := &Store{startDate: start, endDate: end}
	s.days = generateDays(start, end, nil)
	return s, nil
}

// DateRange returns the trip's inclusive date span.
func (s *Store) DateRange() (start, end time.Time) {
	return s.startDate, s.endDate
}

// Days returns a copy of the day list in chronological order.
func (s *Store) Days() []Day {
	out := make([]Day, len(s.days))
	for i, d := range s.days {
		out[i] = d
		out[i].Accommodation = cloneAccommodation(d.Accommodation)
	}
	return out
}

// Locations returns a deep copy of the top-level location list.
func (s *Store) Locations() []Location {
	out := make([]Location, len(s.locations))
	for i := range s.locations {
		out[i] = s.locations[i].Clone()
	}
	return out
}

// Routes returns a copy of the route list.
func (s *Store) Routes() []Route {
	return append([]Route(nil), s.routes...)
}

// Day returns the day with the given id.
func (s *Store) Day(id uuid.UUID) (Day, bool) {
	for _, d := range s.days {
		if d.ID == id {
			d.Accommodation = cloneAccommodation(d.Accommodation)
			return d, true
		}
	}
	return Day{}, false
}

// DayIndexOf returns the index of the day with the given id within the
// trip's day list, or -1 when absent. Callers must treat -1 as
// "unscheduled or out of range".
func (s *Store) DayIndexOf(id uuid.UUID) int {
	for i, d := range s.days {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// SetAccommodation attaches (or, with nil, detaches) lodging on a day.
func (s *Store) SetAccommodation(dayID uuid.UUID, a *Accommodation) bool {
	for i := range s.days {
		if s.days[i].ID == dayID {
			s.days[i].Accommodation = cloneAccommodation(a)
			return true
		}
	}
	return false
}

// UpdateDateRange regenerates the day list for the new inclusive span.
// Days whose date survives keep their id and accommodation so attached
// locations are not orphaned. Top-level locations whose start day was
// dropped are demoted to unassigned, never deleted.
func (s *Store) UpdateDateRange(newStart, newEnd time.Time) error {
	newStart = truncateToDay(newStart)
	newEnd = truncateToDay(newEnd)
	if newEnd.Before(newStart) {
		return ErrEndDateBeforeStart
	}

	s.days = generateDays(newStart, newEnd, s.days)
	s.startDate = newStart
	s.endDate = newEnd

	valid := make(map[uuid.UUID]bool, len(s.days))
	for _, d := range s.days {
		valid[d.ID] = true
	}
	for i := range s.locations {
		loc := &s.locations[i]
		if loc.StartDayID != nil && !valid[*loc.StartDayID] {
			loc.StartDayID = nil
			loc.StartSlot = ""
		}
	}
	return nil
}

// AddLocation appends a top-level location, minting an id when absent,
// and returns the id. Duration is clamped to at least one slot.
func (s *Store) AddLocation(loc Location) uuid.UUID {
	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}
	if loc.Duration < 1 {
		loc.Duration = 1
	}
	if loc.StartDayID != nil && !loc.StartSlot.Valid() {
		loc.StartSlot = timeline.SlotMorning
	}
	loc.Order = len(s.locations)
	s.locations = append(s.locations, loc)
	return loc.ID
}

// AddSubLocation appends a stop to a parent's sub-itinerary, minting
// an id when absent. The new entry starts nested-unassigned. Returns
// the id and false when the parent does not exist.
func (s *Store) AddSubLocation(parentID uuid.UUID, loc Location) (uuid.UUID, bool) {
	parent := s.findTop(parentID)
	if parent == nil {
		return uuid.Nil, false
	}
	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}
	if loc.Duration < 1 {
		loc.Duration = 1
	}
	loc.StartDayID = nil
	loc.SubLocations = nil
	loc.Order = len(parent.SubLocations)
	parent.SubLocations = append(parent.SubLocations, loc)
	return loc.ID, true
}

// Location returns a copy of the location with the given id, searching
// the top-level list and one level down.
func (s *Store) Location(id uuid.UUID) (Location, bool) {
	if loc := s.find(id); loc != nil {
		return loc.Clone(), true
	}
	return Location{}, false
}

// ParentOf returns a copy of the parent containing the given nested
// location id, or false if the id is not nested.
func (s *Store) ParentOf(id uuid.UUID) (Location, bool) {
	if parent, _ := s.findNested(id); parent != nil {
		return parent.Clone(), true
	}
	return Location{}, false
}

// UpdateLocation applies a mutation to the location with the given id,
// wherever it sits in the two-tier tree. Returns whether a match was
// found; a miss is a no-op. The callback must not touch identity or
// nesting structure; those move through the dedicated operations.
func (s *Store) UpdateLocation(id uuid.UUID, apply func(*Location)) bool {
	loc := s.find(id)
	if loc == nil {
		return false
	}
	apply(loc)
	if loc.Duration < 1 {
		loc.Duration = 1
	}
	return true
}

// RemoveLocation deletes the top-level location with the given id,
// cascade-deleting every route touching it or any of its descendants.
// Selection and hover are cleared when they pointed into the removed
// subtree. Returns false (no-op) when the id is not a top-level entry.
func (s *Store) RemoveLocation(id uuid.UUID) bool {
	idx := -1
	for i := range s.locations {
		if s.locations[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	removed := map[uuid.UUID]bool{id: true}
	collectDescendants(&s.locations[idx], removed)

	s.locations = append(s.locations[:idx], s.locations[idx+1:]...)
	s.dropRoutesTouching(removed)
	s.clearPointersIn(removed)
	return true
}

// RemoveSubLocation deletes a nested location from whichever parent
// holds it, with the same route cascade and selection clearing as
// RemoveLocation.
func (s *Store) RemoveSubLocation(id uuid.UUID) bool {
	parent, idx := s.findNested(id)
	if parent == nil {
		return false
	}
	parent.SubLocations = append(parent.SubLocations[:idx], parent.SubLocations[idx+1:]...)
	removed := map[uuid.UUID]bool{id: true}
	s.dropRoutesTouching(removed)
	s.clearPointersIn(removed)
	return true
}

// UpsertRoute inserts or replaces a route by id, minting an id when
// absent. Routes referencing unknown locations are rejected so the
// no-dangling-endpoint invariant holds by construction.
func (s *Store) UpsertRoute(r Route) (uuid.UUID, error) {
	if s.find(r.FromLocationID) == nil || s.find(r.ToLocationID) == nil {
		return uuid.Nil, ErrLocationNotFound
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	for i := range s.routes {
		if s.routes[i].ID == r.ID {
			s.routes[i] = r
			return r.ID, nil
		}
	}
	s.routes = append(s.routes, r)
	return r.ID, nil
}

// RemoveRoute deletes a route by id.
func (s *Store) RemoveRoute(id uuid.UUID) bool {
	for i := range s.routes {
		if s.routes[i].ID == id {
			s.routes = append(s.routes[:i], s.routes[i+1:]...)
			return true
		}
	}
	return false
}

// RouteBetween returns the route joining two locations in either
// direction.
func (s *Store) RouteBetween(a, b uuid.UUID) (Route, bool) {
	for _, r := range s.routes {
		if r.Connects(a, b) {
			return r, true
		}
	}
	return Route{}, false
}

// Select sets the selected entity id; nil clears the selection.
func (s *Store) Select(id *uuid.UUID) {
	s.selectedID = copyID(id)
}

// Selected returns the selected entity id, or nil.
func (s *Store) Selected() *uuid.UUID {
	return copyID(s.selectedID)
}

// Hover sets the hovered entity id; nil clears it.
func (s *Store) Hover(id *uuid.UUID) {
	s.hoveredID = copyID(id)
}

// Hovered returns the hovered entity id, or nil.
func (s *Store) Hovered() *uuid.UUID {
	return copyID(s.hoveredID)
}

// Assign anchors a top-level location to a day and slot. No-op when
// the location is not top-level or the day does not exist.
func (s *Store) Assign(id, dayID uuid.UUID, slot timeline.Slot) bool {
	loc := s.findTop(id)
	if loc == nil || s.DayIndexOf(dayID) < 0 {
		return false
	}
	day := dayID
	loc.StartDayID = &day
	if !slot.Valid() {
		slot = timeline.SlotMorning
	}
	loc.StartSlot = slot
	return true
}

// AssignNested anchors a nested location to a 0-based day offset from
// its parent's start. No-op when the pair does not resolve or the
// offset is negative.
func (s *Store) AssignNested(parentID, id uuid.UUID, offset int, slot timeline.Slot) bool {
	parent := s.findTop(parentID)
	if parent == nil || offset < 0 {
		return false
	}
	for i := range parent.SubLocations {
		if parent.SubLocations[i].ID == id {
			off := offset
			parent.SubLocations[i].DayOffset = &off
			if !slot.Valid() {
				slot = timeline.SlotMorning
			}
			parent.SubLocations[i].StartSlot = slot
			return true
		}
	}
	return false
}

// Unassign moves a location back to the pending pool. A top-level
// location loses both its day and slot; a nested one keeps its slot
// and sub-itinerary membership but loses its offset.
func (s *Store) Unassign(id uuid.UUID) bool {
	if loc := s.findTop(id); loc != nil {
		loc.StartDayID = nil
		loc.StartSlot = ""
		return true
	}
	if parent, idx := s.findNested(id); parent != nil {
		parent.SubLocations[idx].DayOffset = nil
		return true
	}
	return false
}

// PlaceAdjacent reassigns the active location to the target's
// coordinates and splices it immediately after the target in their
// shared list, renumbering every sibling's order by final position.
// The two locations must share a list: both top-level, or both inside
// the same parent. Self-targets and unresolved ids are no-ops.
func (s *Store) PlaceAdjacent(activeID, targetID uuid.UUID) bool {
	if activeID == targetID {
		return false
	}
	if list := s.topList(); spliceAdjacent(list, activeID, targetID) {
		return true
	}
	for i := range s.locations {
		if spliceAdjacent(&s.locations[i].SubLocations, activeID, targetID) {
			return true
		}
	}
	return false
}

// Nest removes a top-level location from the trip timeline and appends
// it to the target's sub-itinerary, resetting its temporal anchor to
// offset zero in the parent's coordinate space. Locations that are
// themselves parents stay put, keeping the hierarchy two-tier.
func (s *Store) Nest(activeID, targetID uuid.UUID) bool {
	if activeID == targetID {
		return false
	}
	var activeIdx = -1
	for i := range s.locations {
		if s.locations[i].ID == activeID {
			activeIdx = i
			break
		}
	}
	target := s.findTop(targetID)
	if activeIdx < 0 || target == nil || s.locations[activeIdx].IsParent() {
		return false
	}

	moved := s.locations[activeIdx].Clone()
	s.locations = append(s.locations[:activeIdx], s.locations[activeIdx+1:]...)
	renumber(s.locations)

	// findTop again: removing from the slice may have shifted the target.
	target = s.findTop(targetID)
	offset := 0
	moved.StartDayID = nil
	moved.DayOffset = &offset
	moved.StartSlot = timeline.SlotMorning
	moved.Order = len(target.SubLocations)
	target.SubLocations = append(target.SubLocations, moved)
	return true
}

// CountLocations returns the total number of locations, nested ones
// included.
func (s *Store) CountLocations() int {
	n := 0
	for i := range s.locations {
		n += 1 + len(s.locations[i].SubLocations)
	}
	return n
}

// --- internal helpers ---

// topList exposes the top-level slice for splice operations.
func (s *Store) topList() *[]Location {
	return &s.locations
}

// find searches the two-tier tree for a location by id.
func (s *Store) find(id uuid.UUID) *Location {
	if loc := s.findTop(id); loc != nil {
		return loc
	}
	if parent, idx := s.findNested(id); parent != nil {
		return &parent.SubLocations[idx]
	}
	return nil
}

func (s *Store) findTop(id uuid.UUID) *Location {
	for i := range s.locations {
		if s.locations[i].ID == id {
			return &s.locations[i]
		}
	}
	return nil
}

func (s *Store) findNested(id uuid.UUID) (parent *Location, idx int) {
	for i := range s.locations {
		for j := range s.locations[i].SubLocations {
			if s.locations[i].SubLocations[j].ID == id {
				return &s.locations[i], j
			}
		}
	}
	return nil, -1
}

func (s *Store) dropRoutesTouching(ids map[uuid.UUID]bool) {
	kept := s.routes[:0]
	for _, r := range s.routes {
		if ids[r.FromLocationID] || ids[r.ToLocationID] {
			continue
		}
		kept = append(kept, r)
	}
	s.routes = kept
}

func (s *Store) clearPointersIn(ids map[uuid.UUID]bool) {
	if s.selectedID != nil && ids[*s.selectedID] {
		s.selectedID = nil
	}
	if s.hoveredID != nil && ids[*s.hoveredID] {
		s.hoveredID = nil
	}
}

// spliceAdjacent performs the shared-list reorder of a drop onto
// another item: the active entry inherits the target's coordinates and
// moves to sit right after it. Returns false when either id is missing
// from the list.
func spliceAdjacent(list *[]Location, activeID, targetID uuid.UUID) bool {
	items := *list
	activeIdx, targetIdx := -1, -1
	for i := range items {
		switch items[i].ID {
		case activeID:
			activeIdx = i
		case targetID:
			targetIdx = i
		}
	}
	if activeIdx < 0 || targetIdx < 0 {
		return false
	}

	target := items[targetIdx]
	active := items[activeIdx]
	if target.StartDayID != nil {
		day := *target.StartDayID
		active.StartDayID = &day
	} else {
		active.StartDayID = nil
	}
	if target.DayOffset != nil {
		off := *target.DayOffset
		active.DayOffset = &off
	} else {
		active.DayOffset = nil
	}
	active.StartSlot = target.Slot()

	items = append(items[:activeIdx], items[activeIdx+1:]...)
	// Re-find the target: removal may have shifted it left.
	for i := range items {
		if items[i].ID == targetID {
			targetIdx = i
			break
		}
	}
	items = append(items[:targetIdx+1], append([]Location{active}, items[targetIdx+1:]...)...)
	renumber(items)
	*list = items
	return true
}

// renumber rewrites order fields to match list position, 0..n-1.
func renumber(list []Location) {
	for i := range list {
		list[i].Order = i
	}
}

func collectDescendants(loc *Location, into map[uuid.UUID]bool) {
	for i := range loc.SubLocations {
		into[loc.SubLocations[i].ID] = true
		collectDescendants(&loc.SubLocations[i], into)
	}
}

// generateDays builds one day per date in [start, end], carrying over
// id and accommodation from a previous day list when the date matches.
func generateDays(start, end time.Time, prev []Day) []Day {
	byDate := make(map[string]Day, len(prev))
	for _, d := range prev {
		byDate[d.Date.Format(DateFormat)] = d
	}

	var days []Day
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if existing, ok := byDate[date.Format(DateFormat)]; ok {
			days = append(days, existing)
			continue
		}
		days = append(days, Day{ID: uuid.New(), Date: date})
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
