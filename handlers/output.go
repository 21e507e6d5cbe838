// ABOUTME: Shared MCP tool output shapes and conversions
// ABOUTME: Maps domain models and financial figures to JSON-friendly structs
package handlers

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/models"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type ClientOutput struct {
	ID                 string `json:"id"`
	CompanyName        string `json:"company_name"`
	PrimaryContactName string `json:"primary_contact_name,omitempty"`
	Email              string `json:"email,omitempty"`
	ClientStatus       string `json:"client_status"`
	Address            string `json:"address,omitempty"`
	InternalNotes      string `json:"internal_notes,omitempty"`
	CreatedAt          string `json:"created_at"`
}

type UserOutput struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Role           string   `json:"role"`
	CommissionRate *float64 `json:"commission_rate,omitempty"`
}

type LineItemOutput struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	UnitCostSAR    float64 `json:"unit_cost_sar"`
	ClientPriceSAR float64 `json:"client_price_sar"`
	CostType       string  `json:"cost_type,omitempty"`
	Description    string  `json:"description,omitempty"`
}

type FinancialsOutput struct {
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
	Margin  float64 `json:"margin"`
}

type EventOutput struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	ClientName     string           `json:"client_name"`
	ClientID       string           `json:"client_id,omitempty"`
	ClientContact  string           `json:"client_contact,omitempty"`
	Date           string           `json:"date,omitempty"`
	Location       string           `json:"location,omitempty"`
	GuestCount     int              `json:"guest_count"`
	Status         string           `json:"status"`
	PaymentStatus  string           `json:"payment_status"`
	EventType      string           `json:"event_type,omitempty"`
	SalespersonID  string           `json:"salesperson_id,omitempty"`
	CommissionRate *float64         `json:"commission_rate,omitempty"`
	CommissionPaid bool             `json:"commission_paid"`
	CostTracker    []LineItemOutput `json:"cost_tracker"`
	Financials     FinancialsOutput `json:"financials"`
}

func clientToOutput(c *models.Client) ClientOutput {
	return ClientOutput{
		ID:                 c.ID.String(),
		CompanyName:        c.CompanyName,
		PrimaryContactName: c.PrimaryContactName,
		Email:              c.Email,
		ClientStatus:       c.ClientStatus,
		Address:            c.Address,
		InternalNotes:      c.InternalNotes,
		CreatedAt:          c.CreatedAt.Format(timeLayout),
	}
}

func userToOutput(u *models.User) UserOutput {
	return UserOutput{
		ID:             u.ID.String(),
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		CommissionRate: u.CommissionRate,
	}
}

func lineItemToOutput(item models.LineItem) LineItemOutput {
	return LineItemOutput{
		ID:             item.ID.String(),
		Name:           item.Name,
		Quantity:       item.Quantity,
		UnitCostSAR:    item.UnitCostSAR,
		ClientPriceSAR: item.ClientPriceSAR,
		CostType:       item.CostType,
		Description:    item.Description,
	}
}

func financialsToOutput(f finance.Financials) FinancialsOutput {
	return FinancialsOutput{Revenue: f.Revenue, Cost: f.Cost, Profit: f.Profit, Margin: f.Margin}
}

func eventToOutput(e models.Event) EventOutput {
	out := EventOutput{
		ID:             e.ID.String(),
		Name:           e.Name,
		ClientName:     e.ClientName,
		ClientContact:  e.ClientContact,
		Location:       e.Location,
		GuestCount:     e.GuestCount,
		Status:         e.Status,
		PaymentStatus:  e.PaymentStatus,
		EventType:      e.EventType,
		CommissionRate: e.CommissionRate,
		CommissionPaid: e.CommissionPaid,
		CostTracker:    make([]LineItemOutput, len(e.CostTracker)),
		Financials:     financialsToOutput(finance.Compute(e.CostTracker)),
	}
	if e.ClientID != nil {
		out.ClientID = e.ClientID.String()
	}
	if e.SalespersonID != nil {
		out.SalespersonID = e.SalespersonID.String()
	}
	if !e.Date.IsZero() {
		out.Date = e.Date.Format(timeLayout)
	}
	for i, item := range e.CostTracker {
		out.CostTracker[i] = lineItemToOutput(item)
	}
	return out
}

func parseID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("%s is required", field)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return id, nil
}

// parseDate accepts RFC3339 or a bare YYYY-MM-DD date.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", value)
	}
	return t, nil
}
