package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/eventdesk/export"
	"github.com/harperreed/eventdesk/finance"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func (m Model) selectedEvent() (finance.EventFinancials, bool) {
	if m.selectedRow < len(m.events) {
		return m.events[m.selectedRow], true
	}
	return finance.EventFinancials{}, false
}

func (m Model) renderDetailView() string {
	ef, ok := m.selectedEvent()
	if !ok {
		return "No event selected"
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render(strings.ToUpper(ef.Name)))
	s.WriteString("\n\n")

	s.WriteString(m.renderField("Client", ef.ClientName))
	s.WriteString(m.renderField("Contact", ef.ClientContact))
	if !ef.Date.IsZero() {
		s.WriteString(m.renderField("Date", ef.Date.Format("2006-01-02")))
	}
	s.WriteString(m.renderField("Location", ef.Location))
	s.WriteString(m.renderField("Guests", fmt.Sprintf("%d", ef.GuestCount)))
	s.WriteString(m.renderField("Status", ef.Status+" / "+ef.PaymentStatus))

	s.WriteString("\n")
	s.WriteString(fieldLabelStyle.Render("Cost tracker"))
	s.WriteString("\n")
	if len(ef.CostTracker) == 0 {
		s.WriteString("  (no line items)\n")
	}
	for _, item := range ef.CostTracker {
		fmt.Fprintf(&s, "  %-28s %8g × %14s  cost %14s\n", item.Name, item.Quantity,
			export.FormatSAR(item.ClientPriceSAR), export.FormatSAR(item.UnitCostSAR))
	}

	s.WriteString("\n")
	s.WriteString(m.renderField("Revenue", export.FormatSAR(ef.Revenue)))
	s.WriteString(m.renderField("Cost", export.FormatSAR(ef.Cost)))
	profit := export.FormatSAR(ef.Profit)
	if ef.Profit < 0 {
		profit = lossStyle.Render(profit)
	}
	s.WriteString(m.renderField("Profit", profit))
	s.WriteString(m.renderField("Margin", export.FormatPercent(ef.Margin)))

	if len(ef.Tasks) > 0 {
		s.WriteString("\n")
		s.WriteString(fieldLabelStyle.Render("Tasks"))
		s.WriteString("\n")
		for _, task := range ef.Tasks {
			mark := " "
			if task.Done {
				mark = "x"
			}
			fmt.Fprintf(&s, "  [%s] %s\n", mark, task.Title)
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(strings.Join([]string{"Esc: Back", "e: Edit", "g: Graph", "x: Delete", "q: Quit"}, " • ")))

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		return ""
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
	case "x":
		m.viewMode = ViewConfirmDelete
	case "e":
		m.initEditForm()
		if len(m.formInputs) > 0 {
			m.err = nil
			m.viewMode = ViewEdit
		}
	case "g":
		if err := m.generateGraph(); err != nil {
			m.message = "Error: " + err.Error()
			return m, nil
		}
		m.viewMode = ViewGraph
	}
	return m, nil
}
