package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Commit staged edits once the debounce window has passed.
		m.hist.Tick()
		if m.statusMsg != "" && time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, tickCmd()
	}

	return m, nil
}
