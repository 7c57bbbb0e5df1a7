package dragdrop

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
)

func newTestTrip(t *testing.T, days int) *trip.Store {
	t.Helper()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s, err := trip.NewStore(start, start.AddDate(0, 0, days-1))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func addStop(t *testing.T, s *trip.Store, name string, dayIdx int, slot timeline.Slot) uuid.UUID {
	t.Helper()
	days := s.Days()
	dayID := days[dayIdx].ID
	return s.AddLocation(trip.Location{
		Name:       name,
		Lat:        40.4,
		Lng:        -3.7,
		StartDayID: &dayID,
		StartSlot:  slot,
		Duration:   1,
	})
}

func TestSession_StateMachine(t *testing.T) {
	s := newTestTrip(t, 2)
	id := addStop(t, s, "Prado", 0, timeline.SlotMorning)
	sess := NewSession(s, nil)

	if _, dragging := sess.Dragging(); dragging {
		t.Error("expected idle session")
	}
	sess.PickUp(id)
	if got, dragging := sess.Dragging(); !dragging || got != id {
		t.Error("expected active drag")
	}
	sess.Cancel()
	if _, dragging := sess.Dragging(); dragging {
		t.Error("expected idle after cancel")
	}
	if sess.Drop(UnassignedPool{}) {
		t.Error("expected drop without pick-up to be a no-op")
	}
}

func TestSession_DropOnSlotCell(t *testing.T) {
	s := newTestTrip(t, 3)
	id := addStop(t, s, "Prado", 0, timeline.SlotMorning)
	days := s.Days()

	sess := NewSession(s, nil)
	sess.PickUp(id)
	if !sess.Drop(SlotCell{DayID: days[2].ID, Slot: timeline.SlotEvening}) {
		t.Fatal("expected slot drop to apply")
	}

	loc, _ := s.Location(id)
	if loc.StartDayID == nil || *loc.StartDayID != days[2].ID {
		t.Error("expected day reassigned")
	}
	if loc.StartSlot != timeline.SlotEvening {
		t.Errorf("expected slot evening, got %q", loc.StartSlot)
	}
	if _, dragging := sess.Dragging(); dragging {
		t.Error("expected idle after drop")
	}

	t.Run("stale day id no-ops", func(t *testing.T) {
		sess.PickUp(id)
		if sess.Drop(SlotCell{DayID: uuid.New(), Slot: timeline.SlotMorning}) {
			t.Error("expected stale day target to be a no-op")
		}
		loc, _ := s.Location(id)
		if *loc.StartDayID != days[2].ID {
			t.Error("expected placement unchanged after failed drop")
		}
	})
}

func TestSession_DropOnUnassignedPool(t *testing.T) {
	s := newTestTrip(t, 2)
	id := addStop(t, s, "Retiro", 1, timeline.SlotAfternoon)

	sess := NewSession(s, nil)
	sess.PickUp(id)
	if !sess.Drop(UnassignedPool{}) {
		t.Fatal("expected pool drop to apply")
	}

	loc, _ := s.Location(id)
	if loc.StartDayID != nil || loc.StartSlot != "" {
		t.Error("expected location reverted to unscheduled")
	}
}

func TestSession_DropOnItem(t *testing.T) {
	// P2: reorder renumbers the whole list 0..n-1.
	s := newTestTrip(t, 3)
	a := addStop(t, s, "A", 0, timeline.SlotMorning)
	b := addStop(t, s, "B", 1, timeline.SlotMorning)
	c := addStop(t, s, "C", 2, timeline.SlotMorning)

	sess := NewSession(s, nil)
	sess.PickUp(a)
	if !sess.Drop(Item{ID: c}) {
		t.Fatal("expected item drop to apply")
	}

	locs := s.Locations()
	want := []uuid.UUID{b, c, a}
	for i, id := range want {
		if locs[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, locs[i].ID)
		}
		if locs[i].Order != i {
			t.Errorf("position %d: order = %d, want %d", i, locs[i].Order, i)
		}
	}
	moved, _ := s.Location(a)
	target, _ := s.Location(c)
	if *moved.StartDayID != *target.StartDayID || moved.StartSlot != target.StartSlot {
		t.Error("expected active to inherit target coordinates")
	}

	t.Run("self drop no-ops", func(t *testing.T) {
		sess.PickUp(a)
		if sess.Drop(Item{ID: a}) {
			t.Error("expected self drop to be a no-op")
		}
	})

	t.Run("stale target no-ops", func(t *testing.T) {
		sess.PickUp(a)
		if sess.Drop(Item{ID: uuid.New()}) {
			t.Error("expected stale item target to be a no-op")
		}
	})
}

func TestSession_DropOnNestTarget(t *testing.T) {
	s := newTestTrip(t, 3)
	a := addStop(t, s, "Toledo", 1, timeline.SlotMorning)
	b := addStop(t, s, "Madrid", 0, timeline.SlotMorning)

	sess := NewSession(s, nil)
	sess.PickUp(a)
	if !sess.Drop(NestTarget{ID: b}) {
		t.Fatal("expected nest drop to apply")
	}

	if len(s.Locations()) != 1 {
		t.Fatalf("expected 1 top-level location, got %d", len(s.Locations()))
	}
	parent, _ := s.Location(b)
	if !parent.IsParent() {
		t.Fatal("expected target to become a parent")
	}
	nested := parent.SubLocations[0]
	if nested.DayOffset == nil || *nested.DayOffset != 0 || nested.StartSlot != timeline.SlotMorning {
		t.Error("expected nested anchor reset")
	}

	t.Run("nesting unavailable in nested context", func(t *testing.T) {
		sub, _ := s.AddSubLocation(b, trip.Location{Name: "Sol", Lat: 1, Lng: 1})
		other := addStop(t, s, "Segovia", 2, timeline.SlotMorning)
		nestedSess := NewSession(s, &b)
		nestedSess.PickUp(sub)
		if nestedSess.Drop(NestTarget{ID: other}) {
			t.Error("expected nesting to be refused in nested context")
		}
	})
}

func TestSession_NestedSlotCell(t *testing.T) {
	s := newTestTrip(t, 4)
	parent := addStop(t, s, "Barcelona", 1, timeline.SlotMorning)
	s.UpdateLocation(parent, func(l *trip.Location) { l.Duration = 6 }) // covers days 1..2
	sub, _ := s.AddSubLocation(parent, trip.Location{Name: "Gothic Quarter", Lat: 1, Lng: 1})
	days := s.Days()

	sess := NewSession(s, &parent)
	sess.PickUp(sub)
	if !sess.Drop(SlotCell{DayID: days[2].ID, Slot: timeline.SlotAfternoon}) {
		t.Fatal("expected nested slot drop to apply")
	}

	loc, _ := s.Location(sub)
	if loc.DayOffset == nil || *loc.DayOffset != 1 {
		t.Errorf("expected offset 1, got %v", loc.DayOffset)
	}
	if loc.StartSlot != timeline.SlotAfternoon {
		t.Errorf("expected afternoon, got %q", loc.StartSlot)
	}
	if loc.StartDayID != nil {
		t.Error("expected nested item to stay offset-anchored")
	}

	t.Run("day before parent start no-ops", func(t *testing.T) {
		sess.PickUp(sub)
		if sess.Drop(SlotCell{DayID: days[0].ID, Slot: timeline.SlotMorning}) {
			t.Error("expected drop before the parent's window to be a no-op")
		}
	})

	t.Run("nested pool drop keeps membership", func(t *testing.T) {
		sess.PickUp(sub)
		if !sess.Drop(UnassignedPool{}) {
			t.Fatal("expected pool drop to apply")
		}
		loc, _ := s.Location(sub)
		if loc.DayOffset != nil {
			t.Error("expected offset cleared")
		}
		p, _ := s.Location(parent)
		if !p.IsParent() {
			t.Error("expected sub-itinerary membership kept")
		}
	})
}

func TestSession_SwapWithNeighbor(t *testing.T) {
	s := newTestTrip(t, 3)
	a := addStop(t, s, "A", 0, timeline.SlotMorning)
	b := addStop(t, s, "B", 0, timeline.SlotEvening)
	c := addStop(t, s, "C", 1, timeline.SlotAfternoon)

	sess := NewSession(s, nil)

	if !sess.SwapWithNeighbor(b, +1) {
		t.Fatal("expected swap with next neighbor to apply")
	}
	// B inherited C's coordinates and sits after it.
	moved, _ := s.Location(b)
	target, _ := s.Location(c)
	if *moved.StartDayID != *target.StartDayID || moved.StartSlot != target.StartSlot {
		t.Error("expected b to inherit c's coordinates")
	}

	if sess.SwapWithNeighbor(a, -1) {
		t.Error("expected no swap at the list head")
	}
	if sess.SwapWithNeighbor(uuid.New(), +1) {
		t.Error("expected no swap for unknown id")
	}
}
