// ABOUTME: Multi-criteria filtering for event list views
// ABOUTME: Applies text, status, owner and date criteria while keeping input order
package listing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
)

// EventFilter selects events. Zero-valued fields match everything.
type EventFilter struct {
	Query         string     `json:"query,omitempty"`
	Status        string     `json:"status,omitempty"`
	PaymentStatus string     `json:"payment_status,omitempty"`
	EventType     string     `json:"event_type,omitempty"`
	SalespersonID *uuid.UUID `json:"salesperson_id,omitempty"`
	From          *time.Time `json:"from,omitempty"`
	To            *time.Time `json:"to,omitempty"`
}

// Matches reports whether event passes every criterion.
func (f EventFilter) Matches(event models.Event) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(event.Name + "\n" + event.ClientName + "\n" + event.Location)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	if f.Status != "" && !strings.EqualFold(event.Status, f.Status) {
		return false
	}
	if f.PaymentStatus != "" && !strings.EqualFold(event.PaymentStatus, f.PaymentStatus) {
		return false
	}
	if f.EventType != "" && !strings.EqualFold(event.EventType, f.EventType) {
		return false
	}
	if f.SalespersonID != nil {
		if event.SalespersonID == nil || *event.SalespersonID != *f.SalespersonID {
			return false
		}
	}
	if f.From != nil && event.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && event.Date.After(*f.To) {
		return false
	}
	return true
}

// Apply returns the events that match, in input order.
func (f EventFilter) Apply(events []models.Event) []models.Event {
	var out []models.Event
	for _, event := range events {
		if f.Matches(event) {
			out = append(out, event)
		}
	}
	return out
}
