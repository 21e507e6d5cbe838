// ABOUTME: Data models for event management entities
// ABOUTME: Defines Client, Event, LineItem, Task, User, MatchCandidate and EventPatch
package models

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID                 uuid.UUID `json:"id"`
	CompanyName        string    `json:"company_name"`
	PrimaryContactName string    `json:"primary_contact_name,omitempty"`
	Email              string    `json:"email,omitempty"`
	ClientStatus       string    `json:"client_status"`
	InternalNotes      string    `json:"internal_notes,omitempty"`
	Address            string    `json:"address,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	LastModifiedAt     time.Time `json:"last_modified_at"`
}

// Event is a booked or prospective event. ClientName is authoritative for
// display and reconciliation; ClientID is a weak back-reference that may be
// missing or stale.
type Event struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	ClientName     string     `json:"client_name"`
	ClientID       *uuid.UUID `json:"client_id,omitempty"`
	ClientContact  string     `json:"client_contact,omitempty"`
	Date           time.Time  `json:"date"`
	Location       string     `json:"location,omitempty"`
	GuestCount     int        `json:"guest_count,omitempty"`
	Status         string     `json:"status"`
	PaymentStatus  string     `json:"payment_status"`
	EventType      string     `json:"event_type,omitempty"`
	SalespersonID  *uuid.UUID `json:"salesperson_id,omitempty"`
	CommissionRate *float64   `json:"commission_rate,omitempty"` // percent
	CommissionPaid bool       `json:"commission_paid"`
	Notes          string     `json:"notes,omitempty"`
	CostTracker    []LineItem `json:"cost_tracker"`
	Tasks          []Task     `json:"tasks,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LineItem is one row of an event's cost tracker. Amounts are SAR per unit.
type LineItem struct {
	ID             uuid.UUID `json:"id"`
	EventID        uuid.UUID `json:"event_id"`
	Name           string    `json:"name"`
	Quantity       float64   `json:"quantity"`
	UnitCostSAR    float64   `json:"unit_cost_sar"`
	ClientPriceSAR float64   `json:"client_price_sar"`
	CostType       string    `json:"cost_type,omitempty"`
	Description    string    `json:"description,omitempty"`
}

type Task struct {
	ID      uuid.UUID  `json:"id"`
	EventID uuid.UUID  `json:"event_id"`
	Title   string     `json:"title"`
	Done    bool       `json:"done"`
	DueAt   *time.Time `json:"due_at,omitempty"`
}

type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Role           string    `json:"role"`
	CommissionRate *float64  `json:"commission_rate,omitempty"` // percent
	CreatedAt      time.Time `json:"created_at"`
}

// Client status constants.
const (
	ClientStatusLead     = "Lead"
	ClientStatusActive   = "Active"
	ClientStatusInactive = "Inactive"
)

// Event status constants.
const (
	EventStatusPlanning  = "Planning"
	EventStatusConfirmed = "Confirmed"
	EventStatusCompleted = "Completed"
	EventStatusCancelled = "Cancelled"
)

// Payment status constants.
const (
	PaymentUnpaid  = "Unpaid"
	PaymentPartial = "Partial"
	PaymentPaid    = "Paid"
)

// User role constants.
const (
	RoleAdmin      = "Admin"
	RoleSales      = "Sales"
	RoleOperations = "Operations"
)

// Cost type constants.
const (
	CostTypeFixed    = "fixed"
	CostTypePerGuest = "per_guest"
	CostTypeRental   = "rental"
	CostTypeLabor    = "labor"
)

// ContactTBD is the placeholder used when an event's client contact is not known yet.
const ContactTBD = "TBD"

// MatchCandidate is an unresolved event paired with the best-scoring client, if any.
// It is recomputed on every reconciliation pass and never stored.
type MatchCandidate struct {
	Event           Event   `json:"event"`
	SuggestedClient *Client `json:"suggested_client,omitempty"`
	Score           float64 `json:"score"`
}

// EventPatch is a partial update for an event. Nil fields are left untouched.
// The Clear flags remove an optional value; a non-nil field of the same name
// takes precedence over its Clear flag.
type EventPatch struct {
	Name           *string    `json:"name,omitempty"`
	ClientName     *string    `json:"client_name,omitempty"`
	ClientID       *uuid.UUID `json:"client_id,omitempty"`
	ClientContact  *string    `json:"client_contact,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
	Location       *string    `json:"location,omitempty"`
	GuestCount     *int       `json:"guest_count,omitempty"`
	Status         *string    `json:"status,omitempty"`
	PaymentStatus  *string    `json:"payment_status,omitempty"`
	EventType      *string    `json:"event_type,omitempty"`
	SalespersonID  *uuid.UUID `json:"salesperson_id,omitempty"`
	CommissionRate *float64   `json:"commission_rate,omitempty"`
	CommissionPaid *bool      `json:"commission_paid,omitempty"`
	Notes          *string    `json:"notes,omitempty"`

	ClearClientID       bool `json:"clear_client_id,omitempty"`
	ClearSalesperson    bool `json:"clear_salesperson,omitempty"`
	ClearCommissionRate bool `json:"clear_commission_rate,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p == EventPatch{}
}

// Apply returns a copy of e with the patch fields applied.
func (p EventPatch) Apply(e Event) Event {
	if p.ClearClientID {
		e.ClientID = nil
	}
	if p.ClearSalesperson {
		e.SalespersonID = nil
	}
	if p.ClearCommissionRate {
		e.CommissionRate = nil
	}

	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.ClientName != nil {
		e.ClientName = *p.ClientName
	}
	if p.ClientID != nil {
		id := *p.ClientID
		e.ClientID = &id
	}
	if p.ClientContact != nil {
		e.ClientContact = *p.ClientContact
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.GuestCount != nil {
		e.GuestCount = *p.GuestCount
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		e.PaymentStatus = *p.PaymentStatus
	}
	if p.EventType != nil {
		e.EventType = *p.EventType
	}
	if p.SalespersonID != nil {
		id := *p.SalespersonID
		e.SalespersonID = &id
	}
	if p.CommissionRate != nil {
		rate := *p.CommissionRate
		e.CommissionRate = &rate
	}
	if p.CommissionPaid != nil {
		e.CommissionPaid = *p.CommissionPaid
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	return e
}

// IsValidEventStatus reports whether status is a known event status.
func IsValidEventStatus(status string) bool {
	switch status {
	case EventStatusPlanning, EventStatusConfirmed, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// IsValidPaymentStatus reports whether status is a known payment status.
func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

// IsValidRole reports whether role is a known user role.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSales, RoleOperations:
		return true
	}
	return false
}

// IsValidClientStatus reports whether status is a known client status.
func IsValidClientStatus(status string) bool {
	switch status {
	case ClientStatusLead, ClientStatusActive, ClientStatusInactive:
		return true
	}
	return false
}
