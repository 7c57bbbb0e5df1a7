package layout

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mvidal/tripline/internal/schedule"
	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
)

func item(row, span int) Item {
	return Item{ID: uuid.New(), Row: row, Span: span}
}

// hasOverlap reports whether two placements in the same lane overlap
// in [Row, Row+Span).
func lanesCollide(placements []Placement) bool {
	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			a, b := placements[i], placements[j]
			if a.Lane != b.Lane {
				continue
			}
			if a.Row < b.Row+b.Span && b.Row < a.Row+a.Span {
				return true
			}
		}
	}
	return false
}

func TestPack(t *testing.T) {
	t.Run("overlapping pair uses exactly two lanes", func(t *testing.T) {
		// P4: intervals [0,2), [1,3), [4,5) pack into 2 lanes with the
		// third interval reusing a lane.
		items := []Item{item(0, 2), item(1, 2), item(4, 1)}
		placements, lanes := Pack(items)

		if lanes != 2 {
			t.Fatalf("expected 2 lanes, got %d", lanes)
		}
		if lanesCollide(placements) {
			t.Fatal("expected no collisions within a lane")
		}
		if placements[2].Lane != 0 {
			t.Errorf("expected third interval to reuse lane 0, got %d", placements[2].Lane)
		}
	})

	t.Run("simultaneous items take parallel lanes", func(t *testing.T) {
		// Scenario: two stops at day 0 morning, duration 1.
		items := []Item{item(0, 1), item(0, 1)}
		placements, lanes := Pack(items)
		if lanes != 2 {
			t.Fatalf("expected 2 lanes, got %d", lanes)
		}
		if placements[0].Lane != 0 || placements[1].Lane != 1 {
			t.Errorf("expected lanes 0 and 1, got %d and %d", placements[0].Lane, placements[1].Lane)
		}
	})

	t.Run("disjoint items share one lane", func(t *testing.T) {
		items := []Item{item(0, 1), item(1, 2), item(3, 1)}
		_, lanes := Pack(items)
		if lanes != 1 {
			t.Errorf("expected 1 lane, got %d", lanes)
		}
	})

	t.Run("lane count equals maximum mutual overlap", func(t *testing.T) {
		tests := []struct {
			name  string
			items []Item
			want  int
		}{
			{name: "empty", items: nil, want: 0},
			{name: "single", items: []Item{item(0, 3)}, want: 1},
			{name: "triple stack", items: []Item{item(0, 4), item(1, 2), item(2, 1)}, want: 3},
			{name: "staircase", items: []Item{item(0, 2), item(1, 2), item(2, 2), item(3, 2)}, want: 2},
			{name: "tower plus tail", items: []Item{item(0, 6), item(0, 1), item(1, 1), item(2, 1), item(6, 1)}, want: 2},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				placements, lanes := Pack(tt.items)
				if lanes != tt.want {
					t.Errorf("expected %d lanes, got %d", tt.want, lanes)
				}
				if lanesCollide(placements) {
					t.Error("expected no collisions within a lane")
				}
			})
		}
	})

	t.Run("zero span clamps to one", func(t *testing.T) {
		placements, _ := Pack([]Item{{ID: uuid.New(), Row: 2, Span: 0}})
		if placements[0].Span != 1 {
			t.Errorf("expected span 1, got %d", placements[0].Span)
		}
	})
}

func TestConnectors(t *testing.T) {
	a, b, c := item(0, 1), item(0, 1), item(2, 1)

	t.Run("list adjacency, not lane adjacency", func(t *testing.T) {
		conns := Connectors([]Item{a, b, c})
		if len(conns) != 2 {
			t.Fatalf("expected 2 connectors, got %d", len(conns))
		}
		if conns[0].Kind != ConnectorInline {
			t.Error("expected inline connector for simultaneous pair")
		}
		if conns[1].Kind != ConnectorVertical {
			t.Error("expected vertical connector for chronological step")
		}
		if conns[1].FromID != b.ID || conns[1].ToID != c.ID {
			t.Error("expected connector between consecutive list entries")
		}
	})

	t.Run("fewer than two items", func(t *testing.T) {
		if Connectors([]Item{a}) != nil {
			t.Error("expected no connectors for a single item")
		}
		if Connectors(nil) != nil {
			t.Error("expected no connectors for empty input")
		}
	})
}

func TestItems(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	st, err := trip.NewStore(start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	days := st.Days()

	d1 := days[0].ID
	late := trip.Location{ID: uuid.New(), Name: "late", StartDayID: &d1, StartSlot: timeline.SlotEvening, Duration: 2}
	early := trip.Location{ID: uuid.New(), Name: "early", StartDayID: &d1, StartSlot: timeline.SlotMorning, Duration: 1}
	pending := trip.Location{ID: uuid.New(), Name: "pending"}

	ix := schedule.NewIndex(days, nil)
	items := Items([]trip.Location{late, pending, early}, ix)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != early.ID || items[0].Row != 0 {
		t.Errorf("expected early first at row 0, got row %d", items[0].Row)
	}
	if items[1].ID != late.ID || items[1].Row != 2 || items[1].Span != 2 {
		t.Errorf("expected late at row 2 span 2, got row %d span %d", items[1].Row, items[1].Span)
	}
}
