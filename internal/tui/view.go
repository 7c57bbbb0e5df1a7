package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mvidal/tripline/internal/view"
)

// View renders the full TUI frame.
func (m Model) View() string {
	v := m.currentView()

	title := m.tripName
	if title == "" {
		title = "Trip"
	}
	if v.Drilled() {
		title = fmt.Sprintf("%s › %s", title, v.Parent.Name)
	}

	board := view.Board{
		Title:      title,
		Days:       v.Days,
		Locations:  v.Locations,
		Index:      m.viewIndex(v),
		SelectedID: m.store.Selected(),
		Cursor:     &m.cursor,
		Width:      m.width,
		Styles:     m.styles,
	}
	if m.session != nil {
		if id, ok := m.session.Dragging(); ok {
			grabbedID := id
			board.GrabbedID = &grabbedID
		}
	}

	var sb strings.Builder
	sb.WriteString(board.Render())

	if routes := board.RenderRoutes(); routes != "" {
		sb.WriteString("\n")
		sb.WriteString(routes)
	}

	if m.mode == ModeAdd {
		sb.WriteString("\n")
		sb.WriteString(m.renderAddForm())
	}

	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())

	return sb.String()
}

func (m Model) renderAddForm() string {
	label := "Add stop"
	if m.drillID != nil {
		label = "Add nested stop"
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Title.GetForeground()).
		Padding(0, 1)

	body := fmt.Sprintf("%s\n\nName:     %s\nDuration: %s\n\nenter save · tab next field · esc cancel",
		m.styles.Title.Render(label),
		m.formName.View(),
		m.formDuration.View(),
	)
	return box.Render(body)
}

func (m Model) renderFooter() string {
	var help string
	switch m.mode {
	case ModeMove:
		help = "space drop on slot · enter drop on stop · n nest · x unassign · esc cancel"
	case ModeAdd:
		help = "enter save · esc cancel"
	default:
		help = "j/k move · space grab · enter select · d drill · a add · u undo · ctrl+r redo · s save · q quit"
	}

	footer := m.styles.Muted.Render(help)
	if m.statusMsg != "" {
		footer = m.styles.Title.Render(m.statusMsg) + "  " + footer
	}
	if m.err != nil {
		footer = m.styles.Grabbed.Render(fmt.Sprintf("error: %v", m.err)) + "\n" + footer
	}
	return footer
}
