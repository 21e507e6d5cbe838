package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/models"
	"github.com/harperreed/eventdesk/viz"
)

func (m Model) renderGraphView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("EVENT GRAPH"))
	s.WriteString("\n\n")

	if m.graphDOT == "" {
		s.WriteString("Generating graph...\n")
	} else {
		s.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Render(m.graphDOT))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(strings.Join([]string{"Esc: Back", "q: Quit"}, " • ")))

	return s.String()
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
		m.graphDOT = ""
	}
	return m, nil
}

// generateGraph graphs the selected event with its salesperson and client.
func (m *Model) generateGraph() error {
	ef, ok := m.selectedEvent()
	if !ok {
		return fmt.Errorf("no event selected")
	}

	snap, err := db.LoadSnapshot(m.db)
	if err != nil {
		return err
	}

	var users []models.User
	if ef.SalespersonID != nil {
		for _, u := range snap.Users {
			if u.ID == *ef.SalespersonID {
				users = append(users, u)
			}
		}
	}

	dot, err := viz.GenerateEventGraph(context.Background(), users, snap.Clients, []models.Event{ef.Event})
	if err != nil {
		return fmt.Errorf("failed to generate graph: %w", err)
	}

	m.graphDOT = dot
	return nil
}
