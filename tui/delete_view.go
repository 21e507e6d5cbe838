// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Deletes the selected event with its cost tracker after confirmation
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/eventdesk/db"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	ef, ok := m.selectedEvent()
	if !ok {
		return "No event selected"
	}

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := "Are you sure you want to delete this event?"
	entityInfo := fmt.Sprintf("\nEVENT: %s\n%d line item(s), %d task(s)\n", ef.Name, len(ef.CostTracker), len(ef.Tasks))
	warning := "\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	box := confirmBoxStyle.Render(content)

	// Center the box on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		ef, ok := m.selectedEvent()
		m.viewMode = ViewList
		if !ok {
			return m, nil
		}
		if err := db.DeleteEvent(m.db, ef.ID); err != nil {
			m.message = "Error: " + err.Error()
			return m, nil
		}
		m.message = "Deleted " + ef.Name
		m.refresh()
	case "n", "N", "esc":
		m.viewMode = ViewDetail
	}

	return m, nil
}
