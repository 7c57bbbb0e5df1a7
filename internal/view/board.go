// Package view renders the trip board: a vertical timeline of days
// split into slots, with overlapping stops packed into side-by-side
// lanes. It is shared by the CLI show command and the TUI.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/mvidal/tripline/internal/layout"
	"github.com/mvidal/tripline/internal/schedule"
	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
	"github.com/mvidal/tripline/internal/tui/theme"
)

const (
	gutterWidth  = 11 // slot label column
	minLaneWidth = 14
	maxLaneWidth = 28
)

// Styles holds the lipgloss styles used to render a board.
type Styles struct {
	Title       lipgloss.Style
	DayHeader   lipgloss.Style
	SlotLabel   lipgloss.Style
	Block       lipgloss.Style
	ParentBlock lipgloss.Style
	Selected    lipgloss.Style
	Grabbed     lipgloss.Style
	Cursor      lipgloss.Style
	Empty       lipgloss.Style
	Muted       lipgloss.Style
	Route       lipgloss.Style
}

// NewStyles derives board styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	return &Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(theme.Color(t.Accent)),
		DayHeader:   lipgloss.NewStyle().Bold(true).Foreground(theme.Color(t.Fg)),
		SlotLabel:   lipgloss.NewStyle().Foreground(theme.Color(t.FgMuted)),
		Block:       lipgloss.NewStyle().Foreground(theme.Color(t.Activity)),
		ParentBlock: lipgloss.NewStyle().Foreground(theme.Color(t.Parent)),
		Selected:    lipgloss.NewStyle().Bold(true).Background(theme.Color(t.BgSelection)).Foreground(theme.Color(t.Fg)),
		Grabbed:     lipgloss.NewStyle().Bold(true).Foreground(theme.Color(t.Warning)),
		Cursor:      lipgloss.NewStyle().Background(theme.Color(t.BgSelection)),
		Empty:       lipgloss.NewStyle().Foreground(theme.Color(t.FgMuted)),
		Muted:       lipgloss.NewStyle().Foreground(theme.Color(t.FgMuted)),
		Route:       lipgloss.NewStyle().Foreground(theme.Color(t.Route)),
	}
}

// Cell addresses one day/slot position on the board.
type Cell struct {
	Day  int
	Slot int
}

// Board describes one render of the trip grid. Locations is the
// visible list: top-level stops, or a drill-down projection of a
// parent's nested stops.
type Board struct {
	Title      string
	Days       []trip.Day
	Locations  []trip.Location
	Index      *schedule.Index
	SelectedID *uuid.UUID
	GrabbedID  *uuid.UUID
	Cursor     *Cell
	Width      int
	Styles     *Styles
}

// Render draws the board as a string.
func (b Board) Render() string {
	if b.Styles == nil {
		t, _ := theme.Load("")
		b.Styles = NewStyles(t)
	}
	if b.Width <= 0 {
		b.Width = 80
	}

	items := layout.Items(b.Locations, b.Index)
	placements, lanes := layout.Pack(items)
	if lanes < 1 {
		lanes = 1
	}

	laneWidth := (b.Width - gutterWidth) / lanes
	if laneWidth < minLaneWidth {
		laneWidth = minLaneWidth
	}
	if laneWidth > maxLaneWidth {
		laneWidth = maxLaneWidth
	}

	byID := make(map[uuid.UUID]trip.Location, len(b.Locations))
	for _, l := range b.Locations {
		byID[l.ID] = l
	}

	// cells[row][lane] holds the text drawn at that position.
	totalRows := len(b.Days) * timeline.SlotsPerDay
	type cellRef struct {
		id    uuid.UUID
		start bool
	}
	cells := make(map[int]map[int]cellRef)
	for _, p := range placements {
		for r := p.Row; r < p.Row+p.Span && r < totalRows; r++ {
			if cells[r] == nil {
				cells[r] = make(map[int]cellRef)
			}
			cells[r][p.Lane] = cellRef{id: p.ID, start: r == p.Row}
		}
	}

	var sb strings.Builder
	if b.Title != "" {
		sb.WriteString(b.Styles.Title.Render(b.Title))
		sb.WriteString("\n\n")
	}

	for dayIdx, day := range b.Days {
		header := fmt.Sprintf("Day %d  %s", dayIdx+1, day.Date.Format("Mon Jan 2"))
		if day.Accommodation != nil && day.Accommodation.Name != "" {
			header += b.Styles.Muted.Render("  ⌂ " + day.Accommodation.Name)
		}
		sb.WriteString(b.Styles.DayHeader.Render(header))
		sb.WriteString("\n")

		for slotIdx := 0; slotIdx < timeline.SlotsPerDay; slotIdx++ {
			row := dayIdx*timeline.SlotsPerDay + slotIdx
			label := string(timeline.At(slotIdx))
			sb.WriteString(b.Styles.SlotLabel.Render(padRight(label, gutterWidth)))

			underCursor := b.Cursor != nil && b.Cursor.Day == dayIdx && b.Cursor.Slot == slotIdx
			for lane := 0; lane < lanes; lane++ {
				ref, ok := cells[row][lane]
				var text string
				var style lipgloss.Style
				switch {
				case ok && ref.start:
					loc := byID[ref.id]
					text = blockLabel(loc, laneWidth)
					style = b.blockStyle(loc)
				case ok:
					text = padRight("│", laneWidth)
					style = b.blockStyle(byID[ref.id])
				default:
					text = padRight("·", laneWidth)
					style = b.Styles.Empty
				}
				if underCursor && lane == 0 {
					style = b.Styles.Cursor.Inherit(style)
				}
				sb.WriteString(style.Render(text))
			}
			sb.WriteString("\n")
		}
	}

	if pool := b.unassigned(); len(pool) > 0 {
		sb.WriteString("\n")
		sb.WriteString(b.Styles.DayHeader.Render("Unassigned"))
		sb.WriteString("\n")
		for _, l := range pool {
			marker := "  - "
			style := b.Styles.Muted
			if b.SelectedID != nil && *b.SelectedID == l.ID {
				style = b.Styles.Selected
			}
			if b.GrabbedID != nil && *b.GrabbedID == l.ID {
				style = b.Styles.Grabbed
				marker = "  > "
			}
			sb.WriteString(style.Render(marker + l.Name))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// RenderRoutes draws the routes between chronologically adjacent
// stops, one line each.
func (b Board) RenderRoutes() string {
	if b.Styles == nil {
		t, _ := theme.Load("")
		b.Styles = NewStyles(t)
	}

	byID := make(map[uuid.UUID]trip.Location, len(b.Locations))
	for _, l := range b.Locations {
		byID[l.ID] = l
	}

	items := layout.Items(b.Locations, b.Index)
	var sb strings.Builder
	for _, c := range layout.Connectors(items) {
		r, ok := b.Index.RouteBetween(c.FromID, c.ToID)
		if !ok {
			continue
		}
		line := fmt.Sprintf("%s → %s: %s", byID[c.FromID].Name, byID[c.ToID].Name, routeSummary(r))
		sb.WriteString(b.Styles.Route.Render(line))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b Board) blockStyle(l trip.Location) lipgloss.Style {
	switch {
	case b.GrabbedID != nil && *b.GrabbedID == l.ID:
		return b.Styles.Grabbed
	case b.SelectedID != nil && *b.SelectedID == l.ID:
		return b.Styles.Selected
	case l.IsParent():
		return b.Styles.ParentBlock
	default:
		return b.Styles.Block
	}
}

func (b Board) unassigned() []trip.Location {
	var pool []trip.Location
	for _, l := range b.Locations {
		if b.Index.StartSlotOf(&l) < 0 {
			pool = append(pool, l)
		}
	}
	return pool
}

func blockLabel(l trip.Location, width int) string {
	name := l.Name
	if l.IsParent() {
		name = fmt.Sprintf("%s (%d)", name, len(l.SubLocations))
	}
	return padRight("["+truncate(name, width-3)+"]", width)
}

func routeSummary(r trip.Route) string {
	parts := []string{string(r.TransportType)}
	if r.Duration != nil {
		parts = append(parts, fmt.Sprintf("%dm", *r.Duration))
	}
	if r.Cost != nil {
		parts = append(parts, fmt.Sprintf("%.2f", *r.Cost))
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

func padRight(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
