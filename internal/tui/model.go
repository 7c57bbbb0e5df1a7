// Package tui provides the interactive trip board.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/mvidal/tripline/internal/config"
	"github.com/mvidal/tripline/internal/dragdrop"
	"github.com/mvidal/tripline/internal/drill"
	"github.com/mvidal/tripline/internal/history"
	"github.com/mvidal/tripline/internal/schedule"
	"github.com/mvidal/tripline/internal/timeline"
	"github.com/mvidal/tripline/internal/trip"
	"github.com/mvidal/tripline/internal/tui/theme"
	"github.com/mvidal/tripline/internal/view"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMove        // A stop is grabbed and follows the cursor
	ModeAdd         // Add-stop form is open
)

// Saver persists the trip document on save and quit.
type Saver interface {
	Save(ctx context.Context, name string, doc trip.Document) error
}

// tickMsg drives the history debounce clock.
type tickMsg time.Time

// Model is the main TUI model.
type Model struct {
	store    *trip.Store
	saver    Saver
	tripName string
	config   *config.Config

	theme  *theme.Theme
	styles *view.Styles

	hist    *history.History
	session *dragdrop.Session

	cursor  view.Cell
	mode    Mode
	drillID *uuid.UUID // parent being drilled into, nil at top level

	// Add form
	formName     textinput.Model
	formDuration textinput.Model
	formFocus    int

	width  int
	height int

	statusMsg  string
	statusTime time.Time

	err error
}

// New creates the TUI model for the given trip.
func New(store *trip.Store, tripName string, saver Saver, cfg *config.Config) (Model, error) {
	th, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		return Model{}, err
	}

	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 80
	name.Focus()

	duration := textinput.New()
	duration.Placeholder = "Slots (1-3)"
	duration.CharLimit = 2

	return Model{
		store:        store,
		saver:        saver,
		tripName:     tripName,
		config:       cfg,
		theme:        th,
		styles:       view.NewStyles(th),
		hist:         history.New(store.Export(), cfg.Debounce(), history.SystemClock{}),
		formName:     name,
		formDuration: duration,
		width:        80,
		height:       24,
	}, nil
}

// Init starts the history debounce ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// currentView resolves the visible board: top level, or the drilled
// parent's projected window.
func (m *Model) currentView() drill.View {
	ix := schedule.FromStore(m.store)
	return drill.Resolve(m.store, ix, m.drillID, nil)
}

// viewIndex builds the slot index over the visible day window. In a
// drilled view the window is a slice of the trip, so projected nested
// stops resolve to window-relative rows, matching the cursor.
func (m *Model) viewIndex(v drill.View) *schedule.Index {
	return schedule.NewIndex(v.Days, m.store.Routes())
}

// cursorDay returns the day under the cursor in the visible window.
func (m *Model) cursorDay(v drill.View) (trip.Day, bool) {
	if m.cursor.Day < 0 || m.cursor.Day >= len(v.Days) {
		return trip.Day{}, false
	}
	return v.Days[m.cursor.Day], true
}

// locationAt returns the visible location covering the cursor cell.
func (m *Model) locationAt(v drill.View) (trip.Location, bool) {
	ix := m.viewIndex(v)
	abs := timeline.AbsoluteSlot(m.cursor.Day, timeline.At(m.cursor.Slot))
	for _, l := range v.Locations {
		start := ix.StartSlotOf(&l)
		if start < 0 {
			continue
		}
		if timeline.Covers(start, l.Span(), abs) {
			return l, true
		}
	}
	return trip.Location{}, false
}

// recordHistory stages the current state for a debounced snapshot.
func (m *Model) recordHistory() {
	m.hist.Record(m.store.Export())
}

// restore replaces the trip state from a history snapshot.
func (m *Model) restore(doc trip.Document) {
	if err := m.store.Restore(doc); err != nil {
		m.err = err
		return
	}
	m.drillID = nil
	m.session = nil
	m.mode = ModeNormal
	m.clampCursor()
}

func (m *Model) clampCursor() {
	v := m.currentView()
	if m.cursor.Day >= len(v.Days) {
		m.cursor.Day = len(v.Days) - 1
	}
	if m.cursor.Day < 0 {
		m.cursor.Day = 0
	}
	if m.cursor.Slot < 0 {
		m.cursor.Slot = 0
	}
	if m.cursor.Slot >= timeline.SlotsPerDay {
		m.cursor.Slot = timeline.SlotsPerDay - 1
	}
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTime = time.Now().Add(3 * time.Second)
}

// save flushes pending history and persists the document.
func (m *Model) save() error {
	m.hist.Flush()
	if m.saver == nil {
		return nil
	}
	return m.saver.Save(context.Background(), m.tripName, m.store.Export())
}

// Run starts the TUI for the given trip.
func Run(store *trip.Store, tripName string, saver Saver, cfg *config.Config) error {
	m, err := New(store, tripName, saver, cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
