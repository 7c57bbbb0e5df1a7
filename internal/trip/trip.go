// Package trip defines the core domain types for tripline and the
// store that holds a trip's canonical Day/Location/Route collections.
package trip

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mvidal/tripline/internal/timeline"
)

// Validation errors.
var (
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
	ErrInvalidDuration    = errors.New("duration must be at least one slot")
)

// Domain errors.
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrRouteNotFound    = errors.New("route not found")
	ErrDayNotFound      = errors.New("day not found")
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// TransportType describes how a route between two stops is travelled.
type TransportType string

const (
	TransportWalk    TransportType = "walk"
	TransportDrive   TransportType = "drive"
	TransportTransit TransportType = "transit"
	TransportTrain   TransportType = "train"
	TransportFlight  TransportType = "flight"
	TransportFerry   TransportType = "ferry"
	TransportBike    TransportType = "bike"
)

// Valid returns true if the transport type is a known value.
func (t TransportType) Valid() bool {
	switch t {
	case TransportWalk, TransportDrive, TransportTransit, TransportTrain,
		TransportFlight, TransportFerry, TransportBike:
		return true
	default:
		return false
	}
}

// Accommodation is the lodging attached to a single day.
type Accommodation struct {
	Name  string
	Lat   *float64
	Lng   *float64
	Cost  *float64
	Notes string
	Link  string
}

// Day is a single calendar date in the trip's range.
type Day struct {
	ID            uuid.UUID
	Date          time.Time
	Accommodation *Accommodation
}

// ChecklistItem is a single entry on a location's checklist.
type ChecklistItem struct {
	Text string
	Done bool
}

// Location is the central schedulable entity: a geographic stop placed
// on the day/slot grid. A top-level location anchors to a Day via
// StartDayID; a nested location (inside a parent's SubLocations)
// anchors via DayOffset relative to the parent's start day instead.
// Nil anchor means the location sits in the unassigned pool.
type Location struct {
	ID         uuid.UUID
	Name       string
	Lat        float64
	Lng        float64
	StartDayID *uuid.UUID
	StartSlot  timeline.Slot
	Duration   int
	Order      int
	DayOffset  *int

	// Descriptive payload, not scheduling-relevant.
	Category   string
	Cost       float64
	Notes      string
	Checklist  []ChecklistItem
	Links      []string
	ImageURL   string
	TargetTime string

	// SubLocations turns this location into a destination with its own
	// sub-itinerary. The hierarchy is two-tier: entries here never
	// carry sub-locations of their own.
	SubLocations []Location
}

// IsParent returns true if the location is a destination with a
// sub-itinerary.
func (l *Location) IsParent() bool {
	return len(l.SubLocations) > 0
}

// IsScheduled returns true if the location has a temporal anchor in
// its coordinate mode.
func (l *Location) IsScheduled() bool {
	return l.StartDayID != nil || l.DayOffset != nil
}

// Slot returns the location's start slot, defaulting to morning.
func (l *Location) Slot() timeline.Slot {
	if !l.StartSlot.Valid() {
		return timeline.SlotMorning
	}
	return l.StartSlot
}

// Span returns the number of consecutive slots the location occupies,
// never less than one.
func (l *Location) Span() int {
	if l.Duration < 1 {
		return 1
	}
	return l.Duration
}

// Clone returns a deep copy of the location.
func (l *Location) Clone() Location {
	c := *l
	if l.StartDayID != nil {
		id := *l.StartDayID
		c.StartDayID = &id
	}
	if l.DayOffset != nil {
		off := *l.DayOffset
		c.DayOffset = &off
	}
	c.Checklist = append([]ChecklistItem(nil), l.Checklist...)
	c.Links = append([]string(nil), l.Links...)
	if l.SubLocations != nil {
		c.SubLocations = make([]Location, len(l.SubLocations))
		for i := range l.SubLocations {
			c.SubLocations[i] = l.SubLocations[i].Clone()
		}
	}
	return c
}

// Route is a transport connection between two stops. Lookups treat it
// as undirected.
type Route struct {
	ID             uuid.UUID
	FromLocationID uuid.UUID
	ToLocationID   uuid.UUID
	TransportType  TransportType
	Duration       *int
	Cost           *float64
	Notes          string
}

// Connects returns true if the route joins the two given locations in
// either direction.
func (r *Route) Connects(a, b uuid.UUID) bool {
	return (r.FromLocationID == a && r.ToLocationID == b) ||
		(r.FromLocationID == b && r.ToLocationID == a)
}

// Touches returns true if either endpoint matches the given id.
func (r *Route) Touches(id uuid.UUID) bool {
	return r.FromLocationID == id || r.ToLocationID == id
}

// cloneAccommodation deep-copies an accommodation.
func cloneAccommodation(a *Accommodation) *Accommodation {
	if a == nil {
		return nil
	}
	c := *a
	if a.Lat != nil {
		v := *a.Lat
		c.Lat = &v
	}
	if a.Lng != nil {
		v := *a.Lng
		c.Lng = &v
	}
	if a.Cost != nil {
		v := *a.Cost
		c.Cost = &v
	}
	return &c
}
