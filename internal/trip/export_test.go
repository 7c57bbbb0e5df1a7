package trip

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mvidal/tripline/internal/timeline"
)

func TestExport_RoundTrip(t *testing.T) {
	// P6: export then import reproduces the collection.
	s := newTestStore(t, 3)
	days := s.Days()
	cost := 85.0
	s.SetAccommodation(days[0].ID, &Accommodation{Name: "Casa Mila", Cost: &cost, Link: "https://example.com"})

	a := addStop(t, s, "Sagrada Familia", 0, timeline.SlotMorning)
	s.UpdateLocation(a, func(l *Location) {
		l.Duration = 2
		l.Cost = 26.5
		l.Checklist = []ChecklistItem{{Text: "tickets", Done: true}}
		l.Links = []string{"https://sagradafamilia.org"}
	})
	b := addStop(t, s, "Girona", 1, timeline.SlotAfternoon)
	sub, _ := s.AddSubLocation(b, Location{Name: "Cathedral", Lat: 41.98, Lng: 2.82})
	s.AssignNested(b, sub, 0, timeline.SlotEvening)
	dur := 45
	if _, err := s.UpsertRoute(Route{FromLocationID: a, ToLocationID: b, TransportType: TransportTrain, Duration: &dur}); err != nil {
		t.Fatalf("UpsertRoute failed: %v", err)
	}

	data, err := json.Marshal(s.Export())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	restored, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}

	again, err := json.Marshal(restored.Export())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != string(again) {
		t.Errorf("round trip not idempotent:\n first: %s\nsecond: %s", data, again)
	}

	// Spot-check structural fidelity.
	loc, ok := restored.Location(sub)
	if !ok {
		t.Fatal("expected nested location preserved")
	}
	if loc.DayOffset == nil || *loc.DayOffset != 0 || loc.StartSlot != timeline.SlotEvening {
		t.Error("expected nested scheduling fields preserved")
	}
	if _, ok := restored.RouteBetween(a, b); !ok {
		t.Error("expected route preserved")
	}
	gotDays := restored.Days()
	if gotDays[0].Accommodation == nil || gotDays[0].Accommodation.Cost == nil || *gotDays[0].Accommodation.Cost != 85.0 {
		t.Error("expected accommodation preserved")
	}
}

func TestAmount_CurrencyCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{name: "plain number", in: `12.5`, want: 12.5},
		{name: "dollar string", in: `"$15.50"`, want: 15.5},
		{name: "thousands separators", in: `"1,200"`, want: 1200},
		{name: "euro suffix", in: `"14.90 EUR"`, want: 14.9},
		{name: "garbage defaults to zero", in: `"free!"`, want: 0},
		{name: "null defaults to zero", in: `null`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			if err := json.Unmarshal([]byte(tt.in), &a); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if float64(a) != tt.want {
				t.Errorf("got %v, want %v", float64(a), tt.want)
			}
		})
	}
}

func TestNullableAmount(t *testing.T) {
	t.Run("unparseable stays unset", func(t *testing.T) {
		var n NullableAmount
		if err := json.Unmarshal([]byte(`"???"`), &n); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.Valid {
			t.Error("expected unset amount for garbage input")
		}
	})

	t.Run("currency string parses", func(t *testing.T) {
		var n NullableAmount
		if err := json.Unmarshal([]byte(`"$99"`), &n); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !n.Valid || n.Value != 99 {
			t.Errorf("expected 99, got %+v", n)
		}
	})
}

func TestFromDocument_Validation(t *testing.T) {
	valid := func() Document {
		s := newTestStore(t, 2)
		addStop(t, s, "Stop", 0, timeline.SlotMorning)
		return s.Export()
	}

	t.Run("unsupported version", func(t *testing.T) {
		doc := valid()
		doc.Version = "2.0"
		if _, err := FromDocument(doc); !errors.Is(err, ErrUnsupportedVersion) {
			t.Errorf("expected ErrUnsupportedVersion, got %v", err)
		}
	})

	t.Run("legacy version accepted", func(t *testing.T) {
		doc := valid()
		doc.Version = ""
		if _, err := FromDocument(doc); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("legacy document without days regenerates them", func(t *testing.T) {
		doc := Document{StartDate: "2026-03-01", EndDate: "2026-03-03"}
		s, err := FromDocument(doc)
		if err != nil {
			t.Fatalf("FromDocument failed: %v", err)
		}
		if len(s.Days()) != 3 {
			t.Errorf("expected 3 regenerated days, got %d", len(s.Days()))
		}
	})

	t.Run("bad date rejected", func(t *testing.T) {
		doc := valid()
		doc.StartDate = "01/03/2026"
		if _, err := FromDocument(doc); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("expected ErrInvalidDateFormat, got %v", err)
		}
	})

	t.Run("end before start rejected", func(t *testing.T) {
		doc := valid()
		doc.StartDate, doc.EndDate = doc.EndDate, doc.StartDate
		if _, err := FromDocument(doc); !errors.Is(err, ErrEndDateBeforeStart) {
			t.Errorf("expected ErrEndDateBeforeStart, got %v", err)
		}
	})

	t.Run("empty location name rejected", func(t *testing.T) {
		doc := valid()
		doc.Locations[0].Name = "  "
		if _, err := FromDocument(doc); !errors.Is(err, ErrEmptyName) {
			t.Errorf("expected ErrEmptyName, got %v", err)
		}
	})

	t.Run("duplicate ids rejected", func(t *testing.T) {
		doc := valid()
		doc.Locations = append(doc.Locations, doc.Locations[0])
		if _, err := FromDocument(doc); !errors.Is(err, ErrDuplicateID) {
			t.Errorf("expected ErrDuplicateID, got %v", err)
		}
	})

	t.Run("dangling route rejected", func(t *testing.T) {
		doc := valid()
		doc.Routes = append(doc.Routes, RouteDocument{
			ID:             "7f2a1df8-52a5-4a13-bf8e-1d37b65b16a1",
			FromLocationID: doc.Locations[0].ID,
			ToLocationID:   "3e1d6f3a-9d5b-4e55-a9f2-6d9af6a3a111",
			TransportType:  "walk",
		})
		if _, err := FromDocument(doc); !errors.Is(err, ErrDanglingRoute) {
			t.Errorf("expected ErrDanglingRoute, got %v", err)
		}
	})

	t.Run("nesting beyond two tiers rejected", func(t *testing.T) {
		doc := valid()
		sub := LocationDocument{ID: "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed", Name: "Sub", Lat: 1, Lng: 1}
		subsub := LocationDocument{ID: "6ec0bd7f-11c0-43da-975e-2a8ad9ebae0b", Name: "SubSub", Lat: 1, Lng: 1}
		sub.SubLocations = []LocationDocument{subsub}
		doc.Locations[0].SubLocations = []LocationDocument{sub}
		if _, err := FromDocument(doc); !errors.Is(err, ErrNestingTooDeep) {
			t.Errorf("expected ErrNestingTooDeep, got %v", err)
		}
	})

	t.Run("stale start day demotes instead of failing", func(t *testing.T) {
		doc := valid()
		doc.Locations[0].StartDayID = "95b2cfc9-8a34-4c9d-84a4-6c1b5bbf3d0d"
		s, err := FromDocument(doc)
		if err != nil {
			t.Fatalf("FromDocument failed: %v", err)
		}
		locs := s.Locations()
		if locs[0].StartDayID != nil {
			t.Error("expected stale day reference demoted to unassigned")
		}
	})

	t.Run("missing duration defaults to one", func(t *testing.T) {
		doc := valid()
		doc.Locations[0].Duration = 0
		s, err := FromDocument(doc)
		if err != nil {
			t.Fatalf("FromDocument failed: %v", err)
		}
		if s.Locations()[0].Duration != 1 {
			t.Errorf("expected duration 1, got %d", s.Locations()[0].Duration)
		}
	})
}

func TestStore_Restore_NeverPartiallyApplies(t *testing.T) {
	s := newTestStore(t, 2)
	addStop(t, s, "Keep me", 0, timeline.SlotMorning)

	bad := Document{StartDate: "2026-04-01", EndDate: "bogus"}
	if err := s.Restore(bad); err == nil {
		t.Fatal("expected error for malformed document")
	}

	if len(s.Locations()) != 1 || s.Locations()[0].Name != "Keep me" {
		t.Error("expected state untouched after failed restore")
	}
	start, _ := s.DateRange()
	if !start.Equal(date(2026, 3, 1)) {
		t.Error("expected date range untouched after failed restore")
	}
}
