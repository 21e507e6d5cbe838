// ABOUTME: Client picker for linking an unresolved event
// ABOUTME: Ranks known clients against a typed query and links the chosen one
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/eventdesk/reconcile"
)

const pickerLimit = 8

// pickerMatches ranks clients against the query. An empty query lists
// clients in order.
func (m Model) pickerMatches() []reconcile.ScoredClient {
	query := strings.TrimSpace(m.picker.Value())
	if query == "" {
		var all []reconcile.ScoredClient
		for i, c := range m.clients {
			if i == pickerLimit {
				break
			}
			all = append(all, reconcile.ScoredClient{Client: c})
		}
		return all
	}
	return reconcile.Suggestions(query, m.clients, pickerLimit)
}

func (m Model) renderPickerView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LINK TO CLIENT"))
	s.WriteString("\n\n")

	if m.selectedRow < len(m.candidates) {
		event := m.candidates[m.selectedRow].Event
		s.WriteString(m.renderField("Event", event.Name))
		s.WriteString(m.renderField("Client name", event.ClientName))
		s.WriteString("\n")
	}

	s.WriteString(m.picker.View())
	s.WriteString("\n\n")

	matches := m.pickerMatches()
	if len(matches) == 0 {
		s.WriteString("  No matching clients\n")
	}
	for i, match := range matches {
		cursor := "  "
		if i == m.pickRow {
			cursor = "> "
		}
		score := ""
		if match.Score > 0 {
			score = fmt.Sprintf(" (%.2f)", match.Score)
		}
		s.WriteString(cursor + match.Client.CompanyName + score + "\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(strings.Join([]string{"↑/↓: Choose", "Enter: Link", "Esc: Cancel"}, " • ")))

	return s.String()
}

func (m Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.picker.Blur()
		m.viewMode = ViewList
		return m, nil
	case "up":
		if m.pickRow > 0 {
			m.pickRow--
		}
		return m, nil
	case "down":
		if m.pickRow < len(m.pickerMatches())-1 {
			m.pickRow++
		}
		return m, nil
	case "enter":
		matches := m.pickerMatches()
		m.picker.Blur()
		m.viewMode = ViewList
		if m.pickRow >= len(matches) {
			m.message = actionError(reconcile.ErrNoSelection)
			return m, nil
		}
		m.linkSelected(matches[m.pickRow].Client.ID.String())
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	m.pickRow = 0
	return m, cmd
}
