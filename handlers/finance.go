// ABOUTME: Financial reporting MCP tool handlers
// ABOUTME: Exposes event financials, portfolio totals and salesperson commissions
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

type FinanceHandlers struct {
	db *sql.DB
}

func NewFinanceHandlers(database *sql.DB) *FinanceHandlers {
	return &FinanceHandlers{db: database}
}

type EventFinancialsOutput struct {
	EventID    string           `json:"event_id"`
	EventName  string           `json:"event_name"`
	Financials FinancialsOutput `json:"financials"`
	LineItems  int              `json:"line_items"`
}

func (h *FinanceHandlers) EventFinancials(_ context.Context, request *mcp.CallToolRequest, input EventIDInput) (*mcp.CallToolResult, EventFinancialsOutput, error) {
	eventID, err := parseID("event_id", input.EventID)
	if err != nil {
		return nil, EventFinancialsOutput{}, err
	}

	event, err := db.GetEvent(h.db, eventID)
	if err != nil {
		return nil, EventFinancialsOutput{}, fmt.Errorf("failed to fetch event: %w", err)
	}
	if event == nil {
		return nil, EventFinancialsOutput{}, fmt.Errorf("event not found: %s", eventID)
	}

	ef := finance.WithFinancials(*event)
	return nil, EventFinancialsOutput{
		EventID:    ef.ID.String(),
		EventName:  ef.Name,
		Financials: financialsToOutput(ef.Financials),
		LineItems:  len(ef.CostTracker),
	}, nil
}

type PortfolioInput struct {
	Status        string `json:"status,omitempty" jsonschema:"Only events with this status"`
	PaymentStatus string `json:"payment_status,omitempty" jsonschema:"Only events with this payment status"`
}

type PortfolioOutput struct {
	Totals   finance.Totals            `json:"totals"`
	ByStatus map[string]finance.Totals `json:"by_status"`
}

func (h *FinanceHandlers) PortfolioTotals(_ context.Context, request *mcp.CallToolRequest, input PortfolioInput) (*mcp.CallToolResult, PortfolioOutput, error) {
	events, err := db.ListEvents(h.db)
	if err != nil {
		return nil, PortfolioOutput{}, fmt.Errorf("failed to list events: %w", err)
	}

	events = listing.EventFilter{Status: input.Status, PaymentStatus: input.PaymentStatus}.Apply(events)

	return nil, PortfolioOutput{
		Totals:   finance.PortfolioTotals(events),
		ByStatus: finance.ByStatus(events),
	}, nil
}

type CommissionSummaryOutput struct {
	Salespeople []CommissionOutput `json:"salespeople"`
}

type CommissionOutput struct {
	UserID            string  `json:"user_id"`
	Name              string  `json:"name"`
	TotalCommission   float64 `json:"total_commission"`
	PaidCommission    float64 `json:"paid_commission"`
	PendingCommission float64 `json:"pending_commission"`
	EventCount        int     `json:"event_count"`
}

type CommissionSummaryInput struct{}

func (h *FinanceHandlers) CommissionSummary(_ context.Context, request *mcp.CallToolRequest, input CommissionSummaryInput) (*mcp.CallToolResult, CommissionSummaryOutput, error) {
	users, events, err := h.load()
	if err != nil {
		return nil, CommissionSummaryOutput{}, err
	}

	out := CommissionSummaryOutput{Salespeople: []CommissionOutput{}}
	for _, s := range finance.CommissionSummary(users, events) {
		out.Salespeople = append(out.Salespeople, CommissionOutput{
			UserID:            s.User.ID.String(),
			Name:              s.User.Name,
			TotalCommission:   s.TotalCommission,
			PaidCommission:    s.PaidCommission,
			PendingCommission: s.PendingCommission,
			EventCount:        s.EventCount,
		})
	}
	return nil, out, nil
}

type CommissionLedgerInput struct {
	Salesperson string `json:"salesperson,omitempty" jsonschema:"Only entries for this salesperson name"`
	UnpaidOnly  bool   `json:"unpaid_only,omitempty" jsonschema:"Only commission not yet paid out"`
}

type LedgerEntryOutput struct {
	Salesperson      string  `json:"salesperson"`
	EventID          string  `json:"event_id"`
	EventName        string  `json:"event_name"`
	Profit           float64 `json:"profit"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionAmount float64 `json:"commission_amount"`
	IsPaid           bool    `json:"is_paid"`
}

type CommissionLedgerOutput struct {
	Entries []LedgerEntryOutput `json:"entries"`
}

func (h *FinanceHandlers) CommissionLedger(_ context.Context, request *mcp.CallToolRequest, input CommissionLedgerInput) (*mcp.CallToolResult, CommissionLedgerOutput, error) {
	users, events, err := h.load()
	if err != nil {
		return nil, CommissionLedgerOutput{}, err
	}

	out := CommissionLedgerOutput{Entries: []LedgerEntryOutput{}}
	for _, e := range finance.CommissionLedger(users, events) {
		if input.Salesperson != "" && !strings.EqualFold(e.User.Name, input.Salesperson) {
			continue
		}
		if input.UnpaidOnly && e.IsPaid {
			continue
		}
		out.Entries = append(out.Entries, LedgerEntryOutput{
			Salesperson:      e.User.Name,
			EventID:          e.Event.ID.String(),
			EventName:        e.Event.Name,
			Profit:           e.Profit,
			CommissionRate:   e.CommissionRate,
			CommissionAmount: e.CommissionAmount,
			IsPaid:           e.IsPaid,
		})
	}
	return nil, out, nil
}

type MarkCommissionPaidInput struct {
	EventID string `json:"event_id" jsonschema:"Event whose commission was paid out (required)"`
	Paid    *bool  `json:"paid,omitempty" jsonschema:"Set false to reopen (default true)"`
}

func (h *FinanceHandlers) MarkCommissionPaid(_ context.Context, request *mcp.CallToolRequest, input MarkCommissionPaidInput) (*mcp.CallToolResult, EventOutput, error) {
	eventID, err := parseID("event_id", input.EventID)
	if err != nil {
		return nil, EventOutput{}, err
	}

	paid := true
	if input.Paid != nil {
		paid = *input.Paid
	}

	updated, err := db.UpdateEvent(h.db, eventID, models.EventPatch{CommissionPaid: &paid})
	if err != nil {
		return nil, EventOutput{}, fmt.Errorf("failed to update event: %w", err)
	}
	if updated == nil {
		return nil, EventOutput{}, fmt.Errorf("event not found: %s", eventID)
	}
	return nil, eventToOutput(*updated), nil
}

func (h *FinanceHandlers) load() ([]models.User, []models.Event, error) {
	users, err := db.ListUsers(h.db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}
	events, err := db.ListEvents(h.db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list events: %w", err)
	}
	return users, events, nil
}
