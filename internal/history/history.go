// Package history keeps a linear list of point-in-time trip snapshots
// for undo/redo. Capture is debounced: a changed state is staged and
// only committed after a quiescence window, so one logical edit of
// several rapid mutations lands as a single snapshot. The clock is
// injected so tests never sleep.
package history

import (
	"encoding/json"
	"time"

	"github.com/mvidal/tripline/internal/trip"
)

// Clock supplies the current time. The real implementation is
// SystemClock; tests inject a fake.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current wall time.
func (SystemClock) Now() time.Time { return time.Now() }

// DefaultDebounce is the quiescence window before a staged change
// becomes a snapshot.
const DefaultDebounce = time.Second

type snapshot struct {
	doc  trip.Document
	data []byte // canonical form used for change detection
}

// History is the linear undo/redo snapshot list. Navigating backward
// and then committing a new change truncates the discarded future.
type History struct {
	clock    Clock
	debounce time.Duration

	snapshots []snapshot
	cursor    int // index of the snapshot matching live state

	pending   *snapshot
	pendingAt time.Time
}

// New creates a history seeded with the initial state. A nil clock
// uses the system clock; a non-positive debounce uses the default.
func New(initial trip.Document, debounce time.Duration, clock Clock) *History {
	if clock == nil {
		clock = SystemClock{}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &History{
		clock:     clock,
		debounce:  debounce,
		snapshots: []snapshot{encode(initial)},
	}
}

func encode(doc trip.Document) snapshot {
	data, _ := json.Marshal(doc)
	return snapshot{doc: doc, data: data}
}

// Record stages the given state for capture. Recording a state equal
// to the current snapshot clears any staged change instead — this is
// what keeps undo/redo navigation from capturing itself, since the
// navigated-to state is by definition the current snapshot.
func (h *History) Record(doc trip.Document) {
	snap := encode(doc)
	if string(snap.data) == string(h.snapshots[h.cursor].data) {
		h.pending = nil
		return
	}
	h.pending = &snap
	h.pendingAt = h.clock.Now()
}

// Tick commits the staged change once the quiescence window has
// elapsed. Call it periodically; it returns true when a snapshot was
// appended. Committing after an undo discards the redo tail.
func (h *History) Tick() bool {
	if h.pending == nil {
		return false
	}
	if h.clock.Now().Sub(h.pendingAt) < h.debounce {
		return false
	}
	h.snapshots = append(h.snapshots[:h.cursor+1], *h.pending)
	h.cursor++
	h.pending = nil
	return true
}

// Flush commits any staged change immediately, bypassing the window.
// Used on shutdown so the last edit is never lost.
func (h *History) Flush() bool {
	if h.pending == nil {
		return false
	}
	h.pendingAt = h.pendingAt.Add(-h.debounce)
	return h.Tick()
}

// CanUndo returns true when an earlier snapshot exists.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo returns true when a later snapshot exists.
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Undo steps to the previous snapshot and returns it. Any staged
// change is committed first so it is not silently dropped.
func (h *History) Undo() (trip.Document, bool) {
	h.Flush()
	if !h.CanUndo() {
		return trip.Document{}, false
	}
	h.cursor--
	return h.snapshots[h.cursor].doc, true
}

// Redo steps to the next snapshot and returns it.
func (h *History) Redo() (trip.Document, bool) {
	if h.pending != nil {
		// A staged change after undo would truncate the redo tail on
		// commit; navigating forward instead drops the staged change.
		h.pending = nil
	}
	if !h.CanRedo() {
		return trip.Document{}, false
	}
	h.cursor++
	return h.snapshots[h.cursor].doc, true
}

// Len returns the number of committed snapshots.
func (h *History) Len() int { return len(h.snapshots) }
