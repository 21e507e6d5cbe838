// ABOUTME: Event and cost tracker MCP tool handlers
// ABOUTME: Implements add_event, list_events, update_event and add_line_item tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/listing"
	"github.com/harperreed/eventdesk/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type EventHandlers struct {
	db *sql.DB
}

func NewEventHandlers(database *sql.DB) *EventHandlers {
	return &EventHandlers{db: database}
}

type AddEventInput struct {
	Name            string   `json:"name" jsonschema:"Event name (required)"`
	ClientName      string   `json:"client_name,omitempty" jsonschema:"Client as written on the booking; need not match a known client"`
	ClientContact   string   `json:"client_contact,omitempty" jsonschema:"Contact person, or TBD"`
	Date            string   `json:"date,omitempty" jsonschema:"Event date (YYYY-MM-DD or RFC3339)"`
	Location        string   `json:"location,omitempty" jsonschema:"Venue or city"`
	GuestCount      int      `json:"guest_count,omitempty" jsonschema:"Expected guests"`
	Status          string   `json:"status,omitempty" jsonschema:"Planning, Confirmed, Completed or Cancelled"`
	EventType       string   `json:"event_type,omitempty" jsonschema:"Wedding, conference, gala..."`
	SalespersonName string   `json:"salesperson_name,omitempty" jsonschema:"Name of the owning salesperson"`
	CommissionRate  *float64 `json:"commission_rate,omitempty" jsonschema:"Commission percent overriding the salesperson default"`
	Notes           string   `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

func (h *EventHandlers) AddEvent(_ context.Context, request *mcp.CallToolRequest, input AddEventInput) (*mcp.CallToolResult, EventOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, EventOutput{}, fmt.Errorf("name is required")
	}
	if input.Status != "" && !models.IsValidEventStatus(input.Status) {
		return nil, EventOutput{}, fmt.Errorf("invalid status: %s", input.Status)
	}

	event := &models.Event{
		Name:           strings.TrimSpace(input.Name),
		ClientName:     input.ClientName,
		ClientContact:  input.ClientContact,
		Location:       input.Location,
		GuestCount:     input.GuestCount,
		Status:         input.Status,
		EventType:      input.EventType,
		CommissionRate: input.CommissionRate,
		Notes:          input.Notes,
	}
	if event.ClientContact == "" {
		event.ClientContact = models.ContactTBD
	}

	if input.Date != "" {
		date, err := parseDate(input.Date)
		if err != nil {
			return nil, EventOutput{}, err
		}
		event.Date = date
	}

	if input.SalespersonName != "" {
		user, err := db.FindUserByName(h.db, input.SalespersonName)
		if err != nil {
			return nil, EventOutput{}, fmt.Errorf("failed to look up salesperson: %w", err)
		}
		if user == nil {
			return nil, EventOutput{}, fmt.Errorf("salesperson not found: %s", input.SalespersonName)
		}
		event.SalespersonID = &user.ID
	}

	// Exact name matches are linked straight away; anything else waits for reconciliation
	if strings.TrimSpace(event.ClientName) != "" {
		client, err := db.FindClientByName(h.db, event.ClientName)
		if err != nil {
			return nil, EventOutput{}, fmt.Errorf("failed to look up client: %w", err)
		}
		if client != nil {
			event.ClientID = &client.ID
		}
	}

	if err := db.CreateEvent(h.db, event); err != nil {
		return nil, EventOutput{}, fmt.Errorf("failed to create event: %w", err)
	}

	return nil, eventToOutput(*event), nil
}

type ListEventsInput struct {
	Query         string `json:"query,omitempty" jsonschema:"Matches event name, client or location"`
	Status        string `json:"status,omitempty" jsonschema:"Filter by event status"`
	PaymentStatus string `json:"payment_status,omitempty" jsonschema:"Filter by payment status"`
	SortBy        string `json:"sort_by,omitempty" jsonschema:"name, client, date, guests, status, payment, revenue, cost, profit or margin"`
	Descending    bool   `json:"descending,omitempty" jsonschema:"Sort descending"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type ListEventsOutput struct {
	Events []EventOutput `json:"events"`
}

func (h *EventHandlers) ListEvents(_ context.Context, request *mcp.CallToolRequest, input ListEventsInput) (*mcp.CallToolResult, ListEventsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 50
	}

	events, err := db.ListEvents(h.db)
	if err != nil {
		return nil, ListEventsOutput{}, fmt.Errorf("failed to list events: %w", err)
	}

	filter := listing.EventFilter{Query: input.Query, Status: input.Status, PaymentStatus: input.PaymentStatus}
	state := listing.SortState{Key: input.SortBy, Direction: listing.Asc}
	if input.Descending {
		state.Direction = listing.Desc
	}

	sorted, err := listing.SortEvents(finance.WithFinancialsAll(filter.Apply(events)), state)
	if err != nil {
		return nil, ListEventsOutput{}, err
	}

	result := []EventOutput{}
	for _, ef := range sorted {
		if len(result) == limit {
			break
		}
		result = append(result, eventToOutput(ef.Event))
	}

	return nil, ListEventsOutput{Events: result}, nil
}

type UpdateEventInput struct {
	ID             string   `json:"id" jsonschema:"Event ID (required)"`
	Name           *string  `json:"name,omitempty"`
	ClientContact  *string  `json:"client_contact,omitempty"`
	Date           *string  `json:"date,omitempty" jsonschema:"YYYY-MM-DD or RFC3339"`
	Location       *string  `json:"location,omitempty"`
	GuestCount     *int     `json:"guest_count,omitempty"`
	Status         *string  `json:"status,omitempty"`
	PaymentStatus  *string  `json:"payment_status,omitempty"`
	EventType      *string  `json:"event_type,omitempty"`
	CommissionRate *float64 `json:"commission_rate,omitempty"`
	CommissionPaid *bool    `json:"commission_paid,omitempty"`
	Notes          *string  `json:"notes,omitempty"`

	ClearCommissionRate bool `json:"clear_commission_rate,omitempty" jsonschema:"Remove the event's commission override so the salesperson default applies"`
}

func (h *EventHandlers) UpdateEvent(_ context.Context, request *mcp.CallToolRequest, input UpdateEventInput) (*mcp.CallToolResult, EventOutput, error) {
	id, err := parseID("id", input.ID)
	if err != nil {
		return nil, EventOutput{}, err
	}
	if input.Status != nil && !models.IsValidEventStatus(*input.Status) {
		return nil, EventOutput{}, fmt.Errorf("invalid status: %s", *input.Status)
	}
	if input.PaymentStatus != nil && !models.IsValidPaymentStatus(*input.PaymentStatus) {
		return nil, EventOutput{}, fmt.Errorf("invalid payment_status: %s", *input.PaymentStatus)
	}

	patch := models.EventPatch{
		Name:           input.Name,
		ClientContact:  input.ClientContact,
		Location:       input.Location,
		GuestCount:     input.GuestCount,
		Status:         input.Status,
		PaymentStatus:  input.PaymentStatus,
		EventType:      input.EventType,
		CommissionRate: input.CommissionRate,
		CommissionPaid: input.CommissionPaid,
		Notes:          input.Notes,

		ClearCommissionRate: input.ClearCommissionRate,
	}
	if input.Date != nil {
		date, err := parseDate(*input.Date)
		if err != nil {
			return nil, EventOutput{}, err
		}
		patch.Date = &date
	}

	updated, err := db.UpdateEvent(h.db, id, patch)
	if err != nil {
		return nil, EventOutput{}, fmt.Errorf("failed to update event: %w", err)
	}
	if updated == nil {
		return nil, EventOutput{}, fmt.Errorf("event not found: %s", id)
	}

	return nil, eventToOutput(*updated), nil
}

type AddLineItemInput struct {
	EventID        string  `json:"event_id" jsonschema:"Event ID (required)"`
	Name           string  `json:"name" jsonschema:"Line item name (required)"`
	Quantity       float64 `json:"quantity" jsonschema:"Units"`
	UnitCostSAR    float64 `json:"unit_cost_sar" jsonschema:"What one unit costs us, SAR"`
	ClientPriceSAR float64 `json:"client_price_sar" jsonschema:"What the client pays per unit, SAR"`
	CostType       string  `json:"cost_type,omitempty" jsonschema:"fixed, per_guest, rental or labor"`
	Description    string  `json:"description,omitempty"`
}

func (h *EventHandlers) AddLineItem(_ context.Context, request *mcp.CallToolRequest, input AddLineItemInput) (*mcp.CallToolResult, EventOutput, error) {
	eventID, err := parseID("event_id", input.EventID)
	if err != nil {
		return nil, EventOutput{}, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, EventOutput{}, fmt.Errorf("name is required")
	}

	item := &models.LineItem{
		Name:           strings.TrimSpace(input.Name),
		Quantity:       input.Quantity,
		UnitCostSAR:    input.UnitCostSAR,
		ClientPriceSAR: input.ClientPriceSAR,
		CostType:       input.CostType,
		Description:    input.Description,
	}
	if err := db.AddLineItem(h.db, eventID, item); err != nil {
		return nil, EventOutput{}, fmt.Errorf("failed to add line item: %w", err)
	}

	event, err := db.GetEvent(h.db, eventID)
	if err != nil {
		return nil, EventOutput{}, fmt.Errorf("failed to reload event: %w", err)
	}

	return nil, eventToOutput(*event), nil
}
