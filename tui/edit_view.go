package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/models"
	"github.com/harperreed/eventdesk/reconcile"
)

// Edit form fields, in display order
const (
	fieldName = iota
	fieldClient
	fieldContact
	fieldDate
	fieldLocation
	fieldGuests
	fieldStatus
	fieldPayment
	fieldCommission
	fieldNotes
	fieldCount
)

var editLabelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("170"))

var editLabels = [fieldCount]string{
	"Name", "Client", "Contact", "Date (YYYY-MM-DD)", "Location", "Guests",
	"Status (Planning/Confirmed/Completed/Cancelled)", "Payment (Unpaid/Partial/Paid)",
	"Commission % (blank: salesperson default)", "Notes",
}

func (m Model) renderEditView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("EDIT EVENT"))
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(editLabelStyle.Render(editLabels[i]))
		s.WriteString("\n    ")
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(m.err.Error()))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(strings.Join([]string{"Tab/↓: Next field", "↑: Previous field", "Enter: Save", "Esc: Cancel"}, " • ")))

	return s.String()
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		m.viewMode = ViewDetail
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		if err := m.saveEvent(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.viewMode = ViewDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

// initEditForm fills the form from the selected event.
func (m *Model) initEditForm() {
	ef, ok := m.selectedEvent()
	if !ok {
		return
	}

	values := [fieldCount]string{
		fieldName:     ef.Name,
		fieldClient:   ef.ClientName,
		fieldContact:  ef.ClientContact,
		fieldLocation: ef.Location,
		fieldGuests:   strconv.Itoa(ef.GuestCount),
		fieldStatus:   ef.Status,
		fieldPayment:  ef.PaymentStatus,
		fieldNotes:    ef.Notes,
	}
	if !ef.Date.IsZero() {
		values[fieldDate] = ef.Date.Format("2006-01-02")
	}
	if ef.CommissionRate != nil {
		values[fieldCommission] = strconv.FormatFloat(*ef.CommissionRate, 'f', -1, 64)
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 200
		inputs[i].SetValue(values[i])
	}
	inputs[fieldNotes].CharLimit = 1000

	m.formInputs = inputs
	m.focusIndex = 0
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

// editPatch builds a patch holding only the fields the form changed.
func (m Model) editPatch(current models.Event) (models.EventPatch, error) {
	var patch models.EventPatch
	value := func(i int) string { return strings.TrimSpace(m.formInputs[i].Value()) }

	changed := func(i int, old string) *string {
		v := value(i)
		if v == old {
			return nil
		}
		return &v
	}

	if patch.Name = changed(fieldName, current.Name); patch.Name != nil && *patch.Name == "" {
		return patch, fmt.Errorf("name can't be empty")
	}
	patch.ClientName = changed(fieldClient, current.ClientName)
	patch.ClientContact = changed(fieldContact, current.ClientContact)
	patch.Location = changed(fieldLocation, current.Location)
	patch.Notes = changed(fieldNotes, current.Notes)

	oldDate := ""
	if !current.Date.IsZero() {
		oldDate = current.Date.Format("2006-01-02")
	}
	if v := value(fieldDate); v != "" && v != oldDate {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			return patch, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", v)
		}
		patch.Date = &date
	}

	if v := value(fieldGuests); v != strconv.Itoa(current.GuestCount) {
		guests, err := strconv.Atoi(v)
		if err != nil || guests < 0 {
			return patch, fmt.Errorf("guests must be a whole number")
		}
		patch.GuestCount = &guests
	}

	if v := changed(fieldStatus, current.Status); v != nil {
		if !models.IsValidEventStatus(*v) {
			return patch, fmt.Errorf("invalid status: %s", *v)
		}
		patch.Status = v
	}
	if v := changed(fieldPayment, current.PaymentStatus); v != nil {
		if !models.IsValidPaymentStatus(*v) {
			return patch, fmt.Errorf("invalid payment status: %s", *v)
		}
		patch.PaymentStatus = v
	}

	switch v := value(fieldCommission); {
	case v == "" && current.CommissionRate != nil:
		patch.ClearCommissionRate = true
	case v != "":
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 {
			return patch, fmt.Errorf("commission must be a positive number")
		}
		if current.CommissionRate == nil || *current.CommissionRate != rate {
			patch.CommissionRate = &rate
		}
	}

	return patch, nil
}

func (m *Model) saveEvent() error {
	ef, ok := m.selectedEvent()
	if !ok {
		return fmt.Errorf("no event selected")
	}

	patch, err := m.editPatch(ef.Event)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		m.message = "Nothing changed"
		return nil
	}
	if patch.ClientName != nil {
		renamed := ef.Event
		renamed.ClientName = *patch.ClientName
		if client := reconcile.FindLinkedClient(renamed, m.clients); client != nil {
			patch.ClientID = &client.ID
		} else {
			patch.ClearClientID = true
		}
	}

	if _, err := db.UpdateEvent(m.db, ef.ID, patch); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	m.refresh()
	m.selectEvent(ef.ID)
	m.message = fmt.Sprintf("Saved %s", ef.Name)
	return nil
}
