// Package dragdrop resolves pick-up/drop interactions into store
// mutations. A Session runs one interaction at a time:
// idle -> dragging(activeID) -> idle. The resolver classifies the drop
// target and invokes the matching store primitive; it holds no state
// of its own beyond the active id and the drilled-in parent context.
package dragdrop

import (
	"github.com/google/uuid"

	"github.com/mvidal/tripline/internal/schedule"
	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
)

// DropTarget is the tagged classification of where a drop landed.
// Callers decide the variant before reaching the resolver; no string
// parsing happens here.
type DropTarget interface {
	isDropTarget()
}

// SlotCell targets a day/slot grid cell. DayID is always a global day
// id; in nested context the resolver converts it to a parent-relative
// offset.
type SlotCell struct {
	DayID uuid.UUID
	Slot  timeline.Slot
}

// UnassignedPool targets the pending pool marker.
type UnassignedPool struct{}

// Item targets another location: the active item inherits its
// coordinates and splices in next to it.
type Item struct {
	ID uuid.UUID
}

// NestTarget targets a top-level location as a nesting destination.
// Only offered outside nested context.
type NestTarget struct {
	ID uuid.UUID
}

func (SlotCell) isDropTarget()       {}
func (UnassignedPool) isDropTarget() {}
func (Item) isDropTarget()           {}
func (NestTarget) isDropTarget()     {}

// Session is the drag interaction state machine over a store. A nil
// parent id means top-level context; otherwise all slot-cell drops are
// interpreted in the parent's offset coordinate space and nesting is
// not offered.
type Session struct {
	store    *trip.Store
	parentID *uuid.UUID
	activeID *uuid.UUID
}

// NewSession creates a session for the given context.
func NewSession(store *trip.Store, parentID *uuid.UUID) *Session {
	return &Session{store: store, parentID: parentID}
}

// PickUp starts a drag for the given location id.
func (s *Session) PickUp(id uuid.UUID) {
	s.activeID = &id
}

// Cancel drops the interaction without any mutation.
func (s *Session) Cancel() {
	s.activeID = nil
}

// Dragging returns the active location id while a drag is in flight.
func (s *Session) Dragging() (uuid.UUID, bool) {
	if s.activeID == nil {
		return uuid.Nil, false
	}
	return *s.activeID, true
}

// Drop resolves the target and applies the resulting mutation. The
// session returns to idle regardless of outcome; unresolvable targets
// (stale ids, missing context) are silent no-ops. Returns whether a
// mutation was applied.
func (s *Session) Drop(target DropTarget) bool {
	if s.activeID == nil {
		return false
	}
	active := *s.activeID
	s.activeID = nil

	switch t := target.(type) {
	case SlotCell:
		return s.dropOnSlot(active, t)
	case UnassignedPool:
		return s.store.Unassign(active)
	case Item:
		if t.ID == active {
			return false
		}
		return s.store.PlaceAdjacent(active, t.ID)
	case NestTarget:
		// Nesting is only reachable from the top-level context; the
		// two-tier invariant is enforced by the interaction surface.
		if s.parentID != nil {
			return false
		}
		return s.store.Nest(active, t.ID)
	default:
		return false
	}
}

func (s *Session) dropOnSlot(active uuid.UUID, cell SlotCell) bool {
	if s.parentID == nil {
		return s.store.Assign(active, cell.DayID, cell.Slot)
	}

	parent, ok := s.store.Location(*s.parentID)
	if !ok || parent.StartDayID == nil {
		return false
	}
	ix := schedule.FromStore(s.store)
	parentStart := ix.DayIndexOf(*parent.StartDayID)
	day := ix.DayIndexOf(cell.DayID)
	if parentStart < 0 || day < 0 {
		return false
	}
	offset := day - parentStart
	if offset < 0 {
		return false
	}
	return s.store.AssignNested(*s.parentID, active, offset, cell.Slot)
}

// SwapWithNeighbor is the keyboard-accessible reorder path: it drops
// the given location onto its immediate chronological neighbor
// (direction -1 or +1), reusing the same inherit-and-splice mutation
// as a drop on an item. Returns false at list edges or for unknown
// ids.
func (s *Session) SwapWithNeighbor(id uuid.UUID, direction int) bool {
	locs, ok := s.contextList()
	if !ok {
		return false
	}
	ix := schedule.FromStore(s.store)
	neighbor, ok := schedule.Neighbor(id, direction, locs, ix)
	if !ok {
		return false
	}
	return s.store.PlaceAdjacent(id, neighbor.ID)
}

// contextList returns the list the session operates on: the top-level
// locations, or the drilled-in parent's sub-itinerary projected onto
// global days.
func (s *Session) contextList() ([]trip.Location, bool) {
	if s.parentID == nil {
		return s.store.Locations(), true
	}
	parent, ok := s.store.Location(*s.parentID)
	if !ok || parent.StartDayID == nil {
		return nil, false
	}
	ix := schedule.FromStore(s.store)
	parentStart := ix.DayIndexOf(*parent.StartDayID)
	if parentStart < 0 {
		return nil, false
	}
	days := ix.Days()
	projected := make([]trip.Location, 0, len(parent.SubLocations))
	for _, sub := range parent.SubLocations {
		if sub.DayOffset != nil {
			idx := parentStart + *sub.DayOffset
			if idx >= 0 && idx < len(days) {
				dayID := days[idx].ID
				sub.StartDayID = &dayID
			}
		}
		projected = append(projected, sub)
	}
	return projected, true
}
