package trip

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvidal/tripline/internal/timeline"
)

// DocumentVersion is the current persisted-state version.
const DocumentVersion = "1.0"

// Import validation errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported document version")
	ErrDuplicateID        = errors.New("duplicate entity id")
	ErrNestingTooDeep     = errors.New("sub-locations cannot be nested further")
	ErrDanglingRoute      = errors.New("route references unknown location")
)

// Amount is a cost value that tolerates currency-formatted input.
// Strings like "$15.50" or "1,200" decode by stripping non-numeric
// characters; anything unparseable decodes to zero.
type Amount float64

// UnmarshalJSON accepts numbers and currency-formatted strings.
func (a *Amount) UnmarshalJSON(b []byte) error {
	v, _ := parseAmount(b)
	*a = Amount(v)
	return nil
}

// NullableAmount is an optional cost: absent, null, or unparseable
// input all decode to the unset state rather than zero.
type NullableAmount struct {
	Value float64
	Valid bool
}

// IsZero reports the unset state, letting omitzero drop the field.
func (n NullableAmount) IsZero() bool { return !n.Valid }

// MarshalJSON encodes the value, or null when unset.
func (n NullableAmount) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts numbers and currency-formatted strings;
// null or garbage leaves the amount unset.
func (n *NullableAmount) UnmarshalJSON(b []byte) error {
	v, ok := parseAmount(b)
	n.Value, n.Valid = v, ok
	return nil
}

// parseAmount decodes a JSON number or a currency-formatted string.
// The second return is false when no number could be extracted.
func parseAmount(b []byte) (float64, bool) {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return 0, false
	}
	var sb strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			sb.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Document is the persisted state shape used for file export, the
// cloud payload, and history snapshots.
type Document struct {
	StartDate string             `json:"startDate"`
	EndDate   string             `json:"endDate"`
	Days      []DayDocument      `json:"days"`
	Locations []LocationDocument `json:"locations"`
	Routes    []RouteDocument    `json:"routes"`
	Version   string             `json:"version"`
}

// DayDocument is the wire form of a Day.
type DayDocument struct {
	ID            string                 `json:"id"`
	Date          string                 `json:"date"`
	Accommodation *AccommodationDocument `json:"accommodation,omitempty"`
}

// AccommodationDocument is the wire form of an Accommodation.
type AccommodationDocument struct {
	Name  string         `json:"name"`
	Lat   *float64       `json:"lat,omitempty"`
	Lng   *float64       `json:"lng,omitempty"`
	Cost  NullableAmount `json:"cost,omitzero"`
	Notes string         `json:"notes,omitempty"`
	Link  string         `json:"link,omitempty"`
}

// ChecklistItemDocument is the wire form of a checklist entry.
type ChecklistItemDocument struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// LocationDocument is the wire form of a Location, recursive via
// subLocations.
type LocationDocument struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Lat          float64                 `json:"lat"`
	Lng          float64                 `json:"lng"`
	StartDayID   string                  `json:"startDayId,omitempty"`
	StartSlot    string                  `json:"startSlot,omitempty"`
	Duration     int                     `json:"duration"`
	Order        int                     `json:"order"`
	DayOffset    *int                    `json:"dayOffset,omitempty"`
	Category     string                  `json:"category,omitempty"`
	Cost         Amount                  `json:"cost,omitempty"`
	Notes        string                  `json:"notes,omitempty"`
	Checklist    []ChecklistItemDocument `json:"checklist,omitempty"`
	Links        []string                `json:"links,omitempty"`
	ImageURL     string                  `json:"imageUrl,omitempty"`
	TargetTime   string                  `json:"targetTime,omitempty"`
	SubLocations []LocationDocument      `json:"subLocations,omitempty"`
}

// RouteDocument is the wire form of a Route.
type RouteDocument struct {
	ID             string         `json:"id"`
	FromLocationID string         `json:"fromLocationId"`
	ToLocationID   string         `json:"toLocationId"`
	TransportType  string         `json:"transportType"`
	Duration       *int           `json:"duration,omitempty"`
	Cost           NullableAmount `json:"cost,omitzero"`
	Notes          string         `json:"notes,omitempty"`
}

// Export produces the persisted document for the store's full state.
func (s *Store) Export() Document {
	doc := Document{
		StartDate: s.startDate.Format(DateFormat),
		EndDate:   s.endDate.Format(DateFormat),
		Version:   DocumentVersion,
	}
	for _, d := range s.days {
		dd := DayDocument{ID: d.ID.String(), Date: d.Date.Format(DateFormat)}
		if d.Accommodation != nil {
			a := AccommodationDocument{
				Name:  d.Accommodation.Name,
				Lat:   d.Accommodation.Lat,
				Lng:   d.Accommodation.Lng,
				Notes: d.Accommodation.Notes,
				Link:  d.Accommodation.Link,
			}
			if d.Accommodation.Cost != nil {
				a.Cost = NullableAmount{Value: *d.Accommodation.Cost, Valid: true}
			}
			dd.Accommodation = &a
		}
		doc.Days = append(doc.Days, dd)
	}
	for i := range s.locations {
		doc.Locations = append(doc.Locations, locationToDocument(&s.locations[i]))
	}
	for _, r := range s.routes {
		rd := RouteDocument{
			ID:             r.ID.String(),
			FromLocationID: r.FromLocationID.String(),
			ToLocationID:   r.ToLocationID.String(),
			TransportType:  string(r.TransportType),
			Duration:       r.Duration,
			Notes:          r.Notes,
		}
		if r.Cost != nil {
			rd.Cost = NullableAmount{Value: *r.Cost, Valid: true}
		}
		doc.Routes = append(doc.Routes, rd)
	}
	return doc
}

func locationToDocument(l *Location) LocationDocument {
	d := LocationDocument{
		ID:         l.ID.String(),
		Name:       l.Name,
		Lat:        l.Lat,
		Lng:        l.Lng,
		Duration:   l.Span(),
		Order:      l.Order,
		DayOffset:  l.DayOffset,
		Category:   l.Category,
		Cost:       Amount(l.Cost),
		Notes:      l.Notes,
		Links:      l.Links,
		ImageURL:   l.ImageURL,
		TargetTime: l.TargetTime,
	}
	if l.StartDayID != nil {
		d.StartDayID = l.StartDayID.String()
	}
	// Nested-unassigned items keep their slot; top-level-unassigned
	// items have none.
	if l.IsScheduled() || l.StartSlot.Valid() {
		d.StartSlot = string(l.Slot())
	}
	for _, c := range l.Checklist {
		d.Checklist = append(d.Checklist, ChecklistItemDocument{Text: c.Text, Done: c.Done})
	}
	for i := range l.SubLocations {
		d.SubLocations = append(d.SubLocations, locationToDocument(&l.SubLocations[i]))
	}
	return d
}

// Decode parses raw bytes into a Document without applying it.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parsing document: %w", err)
	}
	return doc, nil
}

// FromDocument validates a document and builds a fresh store from it.
// Validation failure leaves no partial state behind: the store is
// only returned on full success.
func FromDocument(doc Document) (*Store, error) {
	if doc.Version != "" && doc.Version != DocumentVersion {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}

	start, err := time.Parse(DateFormat, doc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", ErrInvalidDateFormat)
	}
	end, err := time.Parse(DateFormat, doc.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", ErrInvalidDateFormat)
	}
	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}

	s := &Store{startDate: start, endDate: end}

	seen := make(map[uuid.UUID]bool)
	dayIDs := make(map[uuid.UUID]bool)
	for i, dd := range doc.Days {
		id, err := uuid.Parse(dd.ID)
		if err != nil {
			return nil, fmt.Errorf("days[%d].id: %w", i, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("days[%d]: %w: %s", i, ErrDuplicateID, id)
		}
		seen[id] = true
		dayIDs[id] = true
		date, err := time.Parse(DateFormat, dd.Date)
		if err != nil {
			return nil, fmt.Errorf("days[%d].date: %w", i, ErrInvalidDateFormat)
		}
		day := Day{ID: id, Date: date}
		if dd.Accommodation != nil {
			a := Accommodation{
				Name:  dd.Accommodation.Name,
				Lat:   dd.Accommodation.Lat,
				Lng:   dd.Accommodation.Lng,
				Notes: dd.Accommodation.Notes,
				Link:  dd.Accommodation.Link,
			}
			if dd.Accommodation.Cost.Valid {
				v := dd.Accommodation.Cost.Value
				a.Cost = &v
			}
			day.Accommodation = &a
		}
		s.days = append(s.days, day)
	}
	// Legacy documents carry only the range; regenerate days from it.
	if len(s.days) == 0 {
		s.days = generateDays(start, end, nil)
		for _, d := range s.days {
			seen[d.ID] = true
			dayIDs[d.ID] = true
		}
	}

	locIDs := make(map[uuid.UUID]bool)
	for i, ld := range doc.Locations {
		loc, err := locationFromDocument(ld, 0, seen, locIDs)
		if err != nil {
			return nil, fmt.Errorf("locations[%d]: %w", i, err)
		}
		// A start day dropped by a later range edit demotes, not fails.
		if loc.StartDayID != nil && !dayIDs[*loc.StartDayID] {
			loc.StartDayID = nil
			loc.StartSlot = ""
		}
		s.locations = append(s.locations, loc)
	}

	for i, rd := range doc.Routes {
		id, err := uuid.Parse(rd.ID)
		if err != nil {
			return nil, fmt.Errorf("routes[%d].id: %w", i, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("routes[%d]: %w: %s", i, ErrDuplicateID, id)
		}
		seen[id] = true
		from, err := uuid.Parse(rd.FromLocationID)
		if err != nil {
			return nil, fmt.Errorf("routes[%d].fromLocationId: %w", i, err)
		}
		to, err := uuid.Parse(rd.ToLocationID)
		if err != nil {
			return nil, fmt.Errorf("routes[%d].toLocationId: %w", i, err)
		}
		if !locIDs[from] || !locIDs[to] {
			return nil, fmt.Errorf("routes[%d]: %w", i, ErrDanglingRoute)
		}
		r := Route{
			ID:             id,
			FromLocationID: from,
			ToLocationID:   to,
			TransportType:  TransportType(rd.TransportType),
			Duration:       rd.Duration,
			Notes:          rd.Notes,
		}
		if rd.Cost.Valid {
			v := rd.Cost.Value
			r.Cost = &v
		}
		s.routes = append(s.routes, r)
	}

	return s, nil
}

func locationFromDocument(d LocationDocument, depth int, seen, locIDs map[uuid.UUID]bool) (Location, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return Location{}, fmt.Errorf("id: %w", err)
	}
	if seen[id] {
		return Location{}, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	seen[id] = true
	locIDs[id] = true

	if strings.TrimSpace(d.Name) == "" {
		return Location{}, ErrEmptyName
	}

	loc := Location{
		ID:         id,
		Name:       d.Name,
		Lat:        d.Lat,
		Lng:        d.Lng,
		Duration:   d.Duration,
		Order:      d.Order,
		Category:   d.Category,
		Cost:       float64(d.Cost),
		Notes:      d.Notes,
		Links:      d.Links,
		ImageURL:   d.ImageURL,
		TargetTime: d.TargetTime,
	}
	if loc.Duration < 1 {
		loc.Duration = 1
	}
	for _, c := range d.Checklist {
		loc.Checklist = append(loc.Checklist, ChecklistItem{Text: c.Text, Done: c.Done})
	}

	if depth == 0 {
		if d.StartDayID != "" {
			dayID, err := uuid.Parse(d.StartDayID)
			if err != nil {
				return Location{}, fmt.Errorf("startDayId: %w", err)
			}
			loc.StartDayID = &dayID
			loc.StartSlot = slotOrDefault(d.StartSlot)
		}
	} else {
		if d.DayOffset != nil && *d.DayOffset >= 0 {
			off := *d.DayOffset
			loc.DayOffset = &off
		}
		if d.StartSlot != "" {
			loc.StartSlot = slotOrDefault(d.StartSlot)
		}
	}

	for i, sub := range d.SubLocations {
		if depth >= 1 {
			return Location{}, ErrNestingTooDeep
		}
		child, err := locationFromDocument(sub, depth+1, seen, locIDs)
		if err != nil {
			return Location{}, fmt.Errorf("subLocations[%d]: %w", i, err)
		}
		loc.SubLocations = append(loc.SubLocations, child)
	}
	return loc, nil
}

func slotOrDefault(s string) timeline.Slot {
	slot := timeline.Slot(s)
	if !slot.Valid() {
		return timeline.SlotMorning
	}
	return slot
}

// Restore replaces the store's state wholesale with the document's.
// On validation failure the existing state is left untouched.
func (s *Store) Restore(doc Document) error {
	fresh, err := FromDocument(doc)
	if err != nil {
		return err
	}
	s.startDate = fresh.startDate
	s.endDate = fresh.endDate
	s.days = fresh.days
	s.locations = fresh.locations
	s.routes = fresh.routes
	s.selectedID = nil
	s.hoveredID = nil
	return nil
}
