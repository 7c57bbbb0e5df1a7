package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvidal/tripline/internal/dragdrop"
	"github.com/mvidal/tripline/internal/drill"
	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
	"github.com/mvidal/tripline/internal/view"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		_ = m.save()
		return m, tea.Quit
	}

	switch m.mode {
	case ModeMove:
		return m.handleMoveKeys(msg)
	case ModeAdd:
		return m.handleAddKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.currentView()

	switch msg.String() {
	case "q":
		if err := m.save(); err != nil {
			m.err = err
		}
		return m, tea.Quit

	// Navigation
	case "j", "down":
		m.moveCursor(1, len(v.Days))
	case "k", "up":
		m.moveCursor(-1, len(v.Days))
	case "g":
		m.cursor = viewCellAt(0)
	case "G":
		m.cursor.Day = len(v.Days) - 1
		m.cursor.Slot = timeline.SlotsPerDay - 1

	// Selection
	case "enter":
		if loc, ok := m.locationAt(v); ok {
			id := loc.ID
			m.store.Select(&id)
		} else {
			m.store.Select(nil)
		}

	// Grab the stop under the cursor
	case " ":
		if loc, ok := m.locationAt(v); ok {
			m.session = dragdrop.NewSession(m.store, m.drillID)
			m.session.PickUp(loc.ID)
			m.mode = ModeMove
			m.setStatus(fmt.Sprintf("Moving %s", loc.Name))
		}

	// Grab an unassigned stop by list position (1-9)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(msg.String())
		if loc, ok := m.unassignedAt(v, n-1); ok {
			m.session = dragdrop.NewSession(m.store, m.drillID)
			m.session.PickUp(loc.ID)
			m.mode = ModeMove
			m.setStatus(fmt.Sprintf("Moving %s", loc.Name))
		}

	// Reorder against chronological neighbors
	case "[", "]":
		if loc, ok := m.locationAt(v); ok {
			dir := 1
			if msg.String() == "[" {
				dir = -1
			}
			s := dragdrop.NewSession(m.store, m.drillID)
			if s.SwapWithNeighbor(loc.ID, dir) {
				m.recordHistory()
			}
		}

	// Drill into a parent stop
	case "d":
		if loc, ok := m.locationAt(v); ok && loc.IsParent() {
			id := loc.ID
			m.drillID = &id
			m.cursor = viewCellAt(0)
		}
	case "esc":
		if m.drillID != nil {
			m.drillID = nil
			m.clampCursor()
		}

	// Unassign the stop under the cursor
	case "x":
		if loc, ok := m.locationAt(v); ok {
			s := dragdrop.NewSession(m.store, m.drillID)
			s.PickUp(loc.ID)
			if s.Drop(dragdrop.UnassignedPool{}) {
				m.recordHistory()
				m.setStatus(fmt.Sprintf("%s unassigned", loc.Name))
			}
		}

	// Undo / redo
	case "u":
		if doc, ok := m.hist.Undo(); ok {
			m.restore(doc)
			m.recordHistory()
			m.setStatus("Undid change")
		}
	case "ctrl+r":
		if doc, ok := m.hist.Redo(); ok {
			m.restore(doc)
			m.recordHistory()
			m.setStatus("Redid change")
		}

	case "a":
		m.mode = ModeAdd
		m.formName.SetValue("")
		m.formDuration.SetValue("")
		m.formFocus = 0
		m.formName.Focus()
		m.formDuration.Blur()

	case "s":
		if err := m.save(); err != nil {
			m.err = err
			m.setStatus(fmt.Sprintf("Save failed: %v", err))
		} else {
			m.setStatus("Saved")
		}
	}

	return m, nil
}

// handleMoveKeys handles keys while a stop is grabbed.
func (m Model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.currentView()

	switch msg.String() {
	case "j", "down":
		m.moveCursor(1, len(v.Days))
	case "k", "up":
		m.moveCursor(-1, len(v.Days))

	case "esc":
		m.session.Cancel()
		m.session = nil
		m.mode = ModeNormal
		m.setStatus("Move cancelled")

	// Drop on the slot under the cursor
	case " ":
		if day, ok := m.cursorDay(v); ok {
			m.dropOn(dragdrop.SlotCell{DayID: day.ID, Slot: timeline.At(m.cursor.Slot)})
		}

	// Drop onto the stop under the cursor: schedule adjacent to it
	case "enter":
		if loc, ok := m.targetAt(v); ok {
			m.dropOn(dragdrop.Item{ID: loc.ID})
		}

	// Nest into the stop under the cursor
	case "n":
		if loc, ok := m.targetAt(v); ok {
			m.dropOn(dragdrop.NestTarget{ID: loc.ID})
		}

	// Drop into the unassigned pool
	case "x":
		m.dropOn(dragdrop.UnassignedPool{})
	}

	return m, nil
}

// dropOn resolves the grabbed stop against the target and leaves move
// mode. Invalid targets keep the grab active.
func (m *Model) dropOn(target dragdrop.DropTarget) {
	if m.session == nil {
		m.mode = ModeNormal
		return
	}
	if m.session.Drop(target) {
		m.session = nil
		m.mode = ModeNormal
		m.recordHistory()
		m.setStatus("Dropped")
	} else {
		m.setStatus("Cannot drop there")
	}
}

// targetAt returns the location under the cursor, excluding the
// grabbed one.
func (m *Model) targetAt(v drill.View) (trip.Location, bool) {
	loc, ok := m.locationAt(v)
	if !ok {
		return trip.Location{}, false
	}
	if active, dragging := m.session.Dragging(); dragging && active == loc.ID {
		return trip.Location{}, false
	}
	return loc, true
}

// handleAddKeys handles the add-stop form.
func (m Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		return m, nil

	case "tab", "shift+tab":
		m.formFocus = 1 - m.formFocus
		if m.formFocus == 0 {
			m.formName.Focus()
			m.formDuration.Blur()
		} else {
			m.formName.Blur()
			m.formDuration.Focus()
		}
		return m, nil

	case "enter":
		name := strings.TrimSpace(m.formName.Value())
		if name == "" {
			m.setStatus("Name is required")
			return m, nil
		}
		duration := m.config.Trip.DefaultDuration
		if n, err := strconv.Atoi(strings.TrimSpace(m.formDuration.Value())); err == nil && n >= 1 {
			duration = n
		}
		m.addLocation(name, duration)
		m.mode = ModeNormal
		m.recordHistory()
		m.setStatus(fmt.Sprintf("Added %s", name))
		return m, nil
	}

	var cmd tea.Cmd
	if m.formFocus == 0 {
		m.formName, cmd = m.formName.Update(msg)
	} else {
		m.formDuration, cmd = m.formDuration.Update(msg)
	}
	return m, cmd
}

// addLocation creates a stop in the current context: a nested stop
// when drilled, a top-level one otherwise.
func (m *Model) addLocation(name string, duration int) {
	loc := trip.Location{Name: name, Duration: duration}
	if m.drillID != nil {
		m.store.AddSubLocation(*m.drillID, loc)
		return
	}
	m.store.AddLocation(loc)
}

// moveCursor advances the cursor by one slot, crossing day boundaries.
func (m *Model) moveCursor(delta, dayCount int) {
	abs := m.cursor.Day*timeline.SlotsPerDay + m.cursor.Slot + delta
	max := dayCount*timeline.SlotsPerDay - 1
	if abs < 0 {
		abs = 0
	}
	if abs > max {
		abs = max
	}
	m.cursor = viewCellAt(abs)
}

// unassignedAt returns the i-th unassigned stop of the visible list.
func (m *Model) unassignedAt(v drill.View, i int) (trip.Location, bool) {
	ix := m.viewIndex(v)
	n := 0
	for _, l := range v.Locations {
		if ix.StartSlotOf(&l) >= 0 {
			continue
		}
		if n == i {
			return l, true
		}
		n++
	}
	return trip.Location{}, false
}

// viewCellAt converts an absolute slot index to a board cell.
func viewCellAt(abs int) view.Cell {
	if abs < 0 {
		abs = 0
	}
	return view.Cell{Day: abs / timeline.SlotsPerDay, Slot: abs % timeline.SlotsPerDay}
}
