// Package layout computes the lane-packed board layout: temporally
// overlapping items are assigned side-by-side lanes, and
// chronologically adjacent items are paired for connector rendering.
package layout

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mvidal/tripline/internal/schedule"
	"github.com/mvidal/tripline/internal/trip"
)

// Item is a placed location reduced to its board coordinates: Row is
// the absolute slot of its start, Span the number of slots it covers.
type Item struct {
	ID   uuid.UUID
	Row  int
	Span int
}

// Placement is an item with its assigned lane.
type Placement struct {
	ID   uuid.UUID
	Row  int
	Lane int
	Span int
}

// Items reduces the scheduled locations among locs to board items,
// sorted chronologically. Unscheduled locations are skipped.
func Items(locs []trip.Location, ix *schedule.Index) []Item {
	var items []Item
	for _, l := range schedule.SortChronological(locs, ix) {
		row := ix.StartSlotOf(&l)
		if row < 0 {
			continue
		}
		items = append(items, Item{ID: l.ID, Row: row, Span: l.Span()})
	}
	return items
}

// Pack assigns each item the first lane free at its start row,
// opening a new lane when none is. Greedy first-fit over row-sorted
// intervals uses exactly as many lanes as the largest set of mutually
// overlapping items. Returns the placements in input order and the
// total lane count.
func Pack(items []Item) ([]Placement, int) {
	sorted := append([]Item(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Row < sorted[j].Row })

	var freeAt []int // per lane, the first row at which it is free again
	placements := make([]Placement, 0, len(sorted))
	for _, it := range sorted {
		span := it.Span
		if span < 1 {
			span = 1
		}
		lane := -1
		for i, free := range freeAt {
			if free <= it.Row {
				lane = i
				break
			}
		}
		if lane < 0 {
			lane = len(freeAt)
			freeAt = append(freeAt, 0)
		}
		freeAt[lane] = it.Row + span
		placements = append(placements, Placement{ID: it.ID, Row: it.Row, Lane: lane, Span: span})
	}
	return placements, len(freeAt)
}

// ConnectorKind distinguishes how a connector between two adjacent
// items renders.
type ConnectorKind int

const (
	// ConnectorVertical joins two items at different rows, the usual
	// chronological step (possibly jumping across lanes).
	ConnectorVertical ConnectorKind = iota
	// ConnectorInline joins two truly simultaneous items (same row and
	// span) side by side.
	ConnectorInline
)

// Connector pairs two chronologically consecutive items. Adjacency is
// list adjacency in the sorted order, independent of lane assignment.
type Connector struct {
	FromID uuid.UUID
	ToID   uuid.UUID
	Kind   ConnectorKind
}

// Connectors returns one connector per chronologically consecutive
// pair of items.
func Connectors(items []Item) []Connector {
	if len(items) < 2 {
		return nil
	}
	out := make([]Connector, 0, len(items)-1)
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		kind := ConnectorVertical
		if prev.Row == cur.Row && prev.Span == cur.Span {
			kind = ConnectorInline
		}
		out = append(out, Connector{FromID: prev.ID, ToID: cur.ID, Kind: kind})
	}
	return out
}
