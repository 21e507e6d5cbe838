package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/export"
	"github.com/harperreed/eventdesk/listing"
	"github.com/harperreed/eventdesk/reconcile"
)

// eventColumns pairs each events table column with its sort key. Number
// keys 1-9 and 0 select the columns in order.
var eventColumns = []struct {
	title string
	key   string
	width int
}{
	{"Name", listing.KeyName, 22},
	{"Client", listing.KeyClient, 20},
	{"Date", listing.KeyDate, 10},
	{"Guests", listing.KeyGuests, 6},
	{"Status", listing.KeyStatus, 10},
	{"Payment", listing.KeyPayment, 8},
	{"Revenue", listing.KeyRevenue, 14},
	{"Cost", listing.KeyCost, 14},
	{"Profit", listing.KeyProfit, 14},
	{"Margin", listing.KeyMargin, 7},
}

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("EVENTDESK"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n\n")
	}

	s.WriteString(m.renderTable())
	s.WriteString("\n")

	if m.tab == TabCommissions {
		s.WriteString(m.renderLedger())
	}

	if m.message != "" {
		s.WriteString("\n")
		s.WriteString(messageStyle.Render(m.message))
	}
	s.WriteString("\n")

	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, tab := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	switch m.tab {
	case TabEvents:
		return m.renderEventsTable()
	case TabReconcile:
		return m.renderReconcileTable()
	case TabCommissions:
		return m.renderCommissionsTable()
	}
	return ""
}

func (m Model) newTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 5)),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}
	return t.View()
}

func (m Model) renderEventsTable() string {
	var columns []table.Column
	for _, col := range eventColumns {
		title := col.title
		if col.key == m.sort.Key {
			if m.sort.Direction == listing.Asc {
				title += " ▲"
			} else {
				title += " ▼"
			}
		}
		columns = append(columns, table.Column{Title: title, Width: col.width})
	}

	var rows []table.Row
	for _, ef := range m.events {
		date := ""
		if !ef.Date.IsZero() {
			date = ef.Date.Format("2006-01-02")
		}
		rows = append(rows, table.Row{
			ef.Name,
			ef.ClientName,
			date,
			fmt.Sprintf("%d", ef.GuestCount),
			ef.Status,
			ef.PaymentStatus,
			export.FormatSAR(ef.Revenue),
			export.FormatSAR(ef.Cost),
			export.FormatSAR(ef.Profit),
			export.FormatPercent(ef.Margin),
		})
	}

	return m.newTable(columns, rows)
}

func (m Model) renderReconcileTable() string {
	if len(m.candidates) == 0 {
		return "All events are linked to known clients."
	}

	columns := []table.Column{
		{Title: "Event", Width: 24},
		{Title: "Client name", Width: 24},
		{Title: "Suggestion", Width: 24},
		{Title: "Score", Width: 6},
	}

	var rows []table.Row
	for _, c := range m.candidates {
		suggestion, score := "", ""
		if reconcile.Confident(c) {
			suggestion = c.SuggestedClient.CompanyName
			score = fmt.Sprintf("%.2f", c.Score)
		}
		rows = append(rows, table.Row{c.Event.Name, c.Event.ClientName, suggestion, score})
	}

	return m.newTable(columns, rows)
}

func (m Model) renderCommissionsTable() string {
	if len(m.commissions) == 0 {
		return "No sales users yet."
	}

	columns := []table.Column{
		{Title: "Salesperson", Width: 24},
		{Title: "Events", Width: 6},
		{Title: "Total", Width: 14},
		{Title: "Paid", Width: 14},
		{Title: "Pending", Width: 14},
	}

	var rows []table.Row
	for _, s := range m.commissions {
		rows = append(rows, table.Row{
			s.User.Name,
			fmt.Sprintf("%d", s.EventCount),
			export.FormatSAR(s.TotalCommission),
			export.FormatSAR(s.PaidCommission),
			export.FormatSAR(s.PendingCommission),
		})
	}

	return m.newTable(columns, rows)
}

// renderLedger lists the selected salesperson's ledger entries.
func (m Model) renderLedger() string {
	if m.selectedRow >= len(m.commissions) {
		return ""
	}
	user := m.commissions[m.selectedRow].User

	var s strings.Builder
	s.WriteString(fieldLabelStyle.Render("Ledger: " + user.Name))
	s.WriteString("\n")
	for _, e := range m.ledger {
		if e.User.ID != user.ID {
			continue
		}
		paid := "pending"
		if e.IsPaid {
			paid = "paid"
		}
		fmt.Fprintf(&s, "  %-24s %14s × %-6s = %14s  %s\n", e.Event.Name,
			export.FormatSAR(e.Profit), export.FormatPercent(e.CommissionRate), export.FormatSAR(e.CommissionAmount), paid)
	}
	return s.String()
}

func (m Model) renderListHelp() string {
	help := []string{"↑/↓: Navigate", "Tab: Switch tabs"}
	switch m.tab {
	case TabEvents:
		help = append(help, "1-0: Sort by column", "Enter: Details", "x: Delete")
	case TabReconcile:
		help = append(help, "l: Link suggestion", "/: Pick client", "c: Create client", "i: Ignore")
	}
	help = append(help, "r: Reload", "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
		return m, nil
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.selectedRow = 0
		m.message = ""
		return m, nil
	case "r":
		m.refresh()
		m.message = "Reloaded"
		return m, nil
	}

	switch m.tab {
	case TabEvents:
		return m.handleEventKeys(key)
	case TabReconcile:
		return m.handleReconcileKeys(key)
	}
	return m, nil
}

func (m Model) handleEventKeys(key string) (tea.Model, tea.Cmd) {
	if idx := sortColumnIndex(key); idx >= 0 {
		m.sort = m.sort.Toggle(eventColumns[idx].key)
		m.refresh()
		return m, nil
	}

	if m.selectedRow >= len(m.events) {
		return m, nil
	}
	switch key {
	case "enter":
		m.viewMode = ViewDetail
	case "x":
		m.viewMode = ViewConfirmDelete
	}
	return m, nil
}

// sortColumnIndex maps "1".."9" to columns 0-8 and "0" to column 9.
func sortColumnIndex(key string) int {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return -1
	}
	if key == "0" {
		return 9
	}
	return int(key[0] - '1')
}

func (m Model) handleReconcileKeys(key string) (tea.Model, tea.Cmd) {
	if m.selectedRow >= len(m.candidates) {
		return m, nil
	}
	candidate := m.candidates[m.selectedRow]

	switch key {
	case "l":
		if !reconcile.Confident(candidate) {
			m.message = "No confident suggestion; press / to pick a client"
			return m, nil
		}
		m.linkSelected(candidate.SuggestedClient.ID.String())
	case "/":
		m.viewMode = ViewPickClient
		m.pickRow = 0
		m.picker.SetValue(candidate.Event.ClientName)
		m.picker.Focus()
	case "c":
		client, _, err := db.CreateClientForEvent(m.db, candidate.Event.ID)
		if err != nil {
			m.message = actionError(err)
			return m, nil
		}
		m.message = "Created client " + client.CompanyName
		m.refresh()
	case "i":
		if err := db.IgnoreEvent(m.db, candidate.Event.ID); err != nil {
			m.message = actionError(err)
			return m, nil
		}
		m.message = "Ignored " + candidate.Event.Name
		m.refresh()
	}
	return m, nil
}

// linkSelected links the selected unresolved event to clientID.
func (m *Model) linkSelected(clientID string) {
	if m.selectedRow >= len(m.candidates) {
		return
	}
	event := m.candidates[m.selectedRow].Event

	for _, client := range m.clients {
		if client.ID.String() != clientID {
			continue
		}
		if _, err := db.LinkEventToClient(m.db, event.ID, client.ID); err != nil {
			m.message = actionError(err)
			return
		}
		m.message = fmt.Sprintf("Linked %s to %s", event.Name, client.CompanyName)
		m.refresh()
		return
	}
	m.message = actionError(reconcile.ErrNoSelection)
}

func actionError(err error) string {
	switch {
	case errors.Is(err, reconcile.ErrEmptyClientName):
		return "This event has no client name to create a client from"
	case errors.Is(err, reconcile.ErrNoSelection):
		return "Select a client first"
	}
	return "Error: " + err.Error()
}
