package view

import (
	"strings"
	"testing"
	"time"

	"github.com/mvidal/tripline/internal/drill"
	"github.com/mvidal/tripline/internal/schedule"
	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
)

func newTestStore(t *testing.T) *trip.Store {
	t.Helper()

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	st, err := trip.NewStore(start, start.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return st
}

func TestBoard_Render(t *testing.T) {
	st := newTestStore(t)
	days := st.Days()

	museum := st.AddLocation(trip.Location{Name: "Museum", Duration: 2})
	cafe := st.AddLocation(trip.Location{Name: "Cafe", Duration: 1})
	st.Assign(museum, days[0].ID, timeline.SlotMorning)
	st.Assign(cafe, days[0].ID, timeline.SlotAfternoon)

	board := Board{
		Title:     "Barcelona",
		Days:      days,
		Locations: st.Locations(),
		Index:     schedule.FromStore(st),
		Width:     80,
	}
	out := board.Render()

	for _, want := range []string{"Barcelona", "Day 1", "Day 3", "morning", "evening", "Museum", "Cafe"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Unassigned") {
		t.Errorf("did not expect unassigned section\n%s", out)
	}
}

func TestBoard_Render_UnassignedPool(t *testing.T) {
	st := newTestStore(t)
	st.AddLocation(trip.Location{Name: "Someday Spot", Duration: 1})

	board := Board{
		Days:      st.Days(),
		Locations: st.Locations(),
		Index:     schedule.FromStore(st),
	}
	out := board.Render()

	if !strings.Contains(out, "Unassigned") {
		t.Errorf("expected unassigned section\n%s", out)
	}
	if !strings.Contains(out, "Someday Spot") {
		t.Errorf("expected unassigned stop listed\n%s", out)
	}
}

func TestBoard_Render_ParentShowsCount(t *testing.T) {
	st := newTestStore(t)
	days := st.Days()

	area := st.AddLocation(trip.Location{Name: "Old Town", Duration: 3})
	st.Assign(area, days[0].ID, timeline.SlotMorning)
	if _, ok := st.AddSubLocation(area, trip.Location{Name: "Cathedral", Duration: 1}); !ok {
		t.Fatal("AddSubLocation failed")
	}

	board := Board{
		Days:      days,
		Locations: st.Locations(),
		Index:     schedule.FromStore(st),
	}
	out := board.Render()

	if !strings.Contains(out, "Old Town (1)") {
		t.Errorf("expected parent label with nested count\n%s", out)
	}
	if strings.Contains(out, "Cathedral") {
		t.Errorf("nested stop should not appear on the top-level board\n%s", out)
	}
}

func TestBoard_Render_DrilledWindow(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	st, err := trip.NewStore(start, start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	days := st.Days()

	area := st.AddLocation(trip.Location{Name: "Barcelona", Duration: 4})
	st.Assign(area, days[2].ID, timeline.SlotMorning)
	sub, ok := st.AddSubLocation(area, trip.Location{Name: "Sagrada", Duration: 1})
	if !ok {
		t.Fatal("AddSubLocation failed")
	}
	if !st.AssignNested(area, sub, 1, timeline.SlotMorning) {
		t.Fatal("AssignNested failed")
	}

	id := area
	v := drill.Resolve(st, schedule.FromStore(st), &id, nil)
	if len(v.Days) != 2 {
		t.Fatalf("expected a 2-day window, got %d days", len(v.Days))
	}

	// The board's index covers only the window, so the projected
	// nested stop lands on the window's second day.
	board := Board{
		Days:      v.Days,
		Locations: v.Locations,
		Index:     schedule.NewIndex(v.Days, st.Routes()),
	}
	out := board.Render()

	if !strings.Contains(out, "Sagrada") {
		t.Errorf("expected nested stop on the drilled board\n%s", out)
	}
	if !strings.Contains(out, "Day 2  Thu Jun 4") {
		t.Errorf("expected window-relative day header\n%s", out)
	}
}

func TestBoard_RenderRoutes(t *testing.T) {
	st := newTestStore(t)
	days := st.Days()

	museum := st.AddLocation(trip.Location{Name: "Museum", Duration: 1})
	cafe := st.AddLocation(trip.Location{Name: "Cafe", Duration: 1})
	st.Assign(museum, days[0].ID, timeline.SlotMorning)
	st.Assign(cafe, days[0].ID, timeline.SlotAfternoon)

	mins := 15
	if _, err := st.UpsertRoute(trip.Route{FromLocationID: museum, ToLocationID: cafe, TransportType: trip.TransportWalk, Duration: &mins}); err != nil {
		t.Fatalf("UpsertRoute failed: %v", err)
	}

	board := Board{
		Days:      days,
		Locations: st.Locations(),
		Index:     schedule.FromStore(st),
	}
	out := board.RenderRoutes()

	if !strings.Contains(out, "Museum → Cafe") {
		t.Errorf("expected route line\n%s", out)
	}
	if !strings.Contains(out, "walk 15m") {
		t.Errorf("expected transport summary\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Museum", 10, "Museum"},
		{"A very long location name", 10, "A very lo…"},
		{"ab", 1, "…"},
		{"ab", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
