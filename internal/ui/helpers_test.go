package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
)

func newTestTrip(t *testing.T) *trip.Store {
	t.Helper()

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	st, err := trip.NewStore(start, start.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return st
}

func TestFindLocation(t *testing.T) {
	st := newTestTrip(t)
	museum := st.AddLocation(trip.Location{Name: "Museum of Art"})
	area := st.AddLocation(trip.Location{Name: "Old Town"})
	if _, ok := st.AddSubLocation(area, trip.Location{Name: "Cathedral"}); !ok {
		t.Fatal("AddSubLocation failed")
	}

	t.Run("prefix match", func(t *testing.T) {
		loc, err := findLocation(st, "mus")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loc.ID != museum {
			t.Error("expected the museum")
		}
	})

	t.Run("nested match", func(t *testing.T) {
		loc, err := findLocation(st, "cath")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loc.Name != "Cathedral" {
			t.Errorf("expected Cathedral, got %s", loc.Name)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := findLocation(st, "beach")
		if !errors.Is(err, trip.ErrLocationNotFound) {
			t.Errorf("expected ErrLocationNotFound, got %v", err)
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		st.AddLocation(trip.Location{Name: "Museum of History"})
		if _, err := findLocation(st, "museum"); err == nil {
			t.Error("expected error for ambiguous prefix")
		}
	})
}

func TestDayByNumber(t *testing.T) {
	st := newTestTrip(t)

	d, err := dayByNumber(st, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID != st.Days()[1].ID {
		t.Error("expected the second day")
	}

	for _, n := range []int{0, 4, -1} {
		if _, err := dayByNumber(st, n); !errors.Is(err, trip.ErrDayNotFound) {
			t.Errorf("day %d: expected ErrDayNotFound, got %v", n, err)
		}
	}
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    timeline.Slot
		wantErr bool
	}{
		{"morning", timeline.SlotMorning, false},
		{"m", timeline.SlotMorning, false},
		{"A", timeline.SlotAfternoon, false},
		{"evening", timeline.SlotEvening, false},
		{"noon", "", true},
	}
	for _, tt := range tests {
		got, err := parseSlot(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSlot(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseSlot(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseTransport(t *testing.T) {
	got, err := parseTransport("Train")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != trip.TransportTrain {
		t.Errorf("expected train, got %s", got)
	}

	if _, err := parseTransport("teleport"); err == nil {
		t.Error("expected error for unknown transport")
	}
}

func TestSlotSummary(t *testing.T) {
	st := newTestTrip(t)
	days := st.Days()

	id := st.AddLocation(trip.Location{Name: "Museum"})
	loc, _ := st.Location(id)
	if got := slotSummary(st, loc); got != "unassigned" {
		t.Errorf("expected unassigned, got %q", got)
	}

	st.Assign(id, days[1].ID, timeline.SlotEvening)
	loc, _ = st.Location(id)
	if got := slotSummary(st, loc); got != "day 2, evening" {
		t.Errorf("expected day 2 evening, got %q", got)
	}

	// A scheduled stop whose slot was never set reports the morning
	// default, not an empty slot name.
	bare := trip.Location{Name: "Harbor", StartDayID: &days[0].ID}
	if got := slotSummary(st, bare); got != "day 1, morning" {
		t.Errorf("expected day 1 morning, got %q", got)
	}
}
