// ABOUTME: MCP prompt handlers for recurring event desk workflows
// ABOUTME: Builds review prompts for an event budget and for the reconciliation queue
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/export"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/reconcile"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	db *sql.DB
}

func NewPromptHandlers(database *sql.DB) *PromptHandlers {
	return &PromptHandlers{db: database}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "event-review":
		return h.getEventReviewPrompt(request.Params.Arguments)
	case "reconcile-clients":
		return h.getReconcilePrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getEventReviewPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	idStr, ok := args["event_id"]
	if !ok {
		return nil, fmt.Errorf("event_id is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid event_id: %w", err)
	}

	event, err := db.GetEvent(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event not found: %s", id)
	}
	ef := finance.WithFinancials(*event)

	var promptText strings.Builder
	promptText.WriteString("Please review the budget for this event:\n\n")
	promptText.WriteString(fmt.Sprintf("Event: %s\n", ef.Name))
	promptText.WriteString(fmt.Sprintf("Client: %s\n", ef.ClientName))
	if !ef.Date.IsZero() {
		promptText.WriteString(fmt.Sprintf("Date: %s\n", ef.Date.Format("2006-01-02")))
	}
	if ef.GuestCount > 0 {
		promptText.WriteString(fmt.Sprintf("Guests: %d\n", ef.GuestCount))
	}
	promptText.WriteString(fmt.Sprintf("Status: %s / %s\n\n", ef.Status, ef.PaymentStatus))

	promptText.WriteString("Cost tracker:\n")
	for _, item := range ef.CostTracker {
		promptText.WriteString(fmt.Sprintf("- %s: %g x cost %s, price %s\n",
			item.Name, item.Quantity, export.FormatSAR(item.UnitCostSAR), export.FormatSAR(item.ClientPriceSAR)))
	}
	promptText.WriteString(fmt.Sprintf("\nRevenue %s, cost %s, profit %s, margin %s\n",
		export.FormatSAR(ef.Revenue), export.FormatSAR(ef.Cost), export.FormatSAR(ef.Profit), export.FormatPercent(ef.Margin)))

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Line items priced below cost or with unusually thin markup")
	promptText.WriteString("\n2. Costs that look missing for an event of this size")
	promptText.WriteString("\n3. A recommended client price adjustment, if any")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Budget review for event: %s", ef.Name),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getReconcilePrompt() (*mcp.GetPromptResult, error) {
	candidates, err := db.FindUnresolvedCandidates(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to find unresolved clients: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("%d events have a client name that matches no known client.\n\n", len(candidates)))
	for _, c := range candidates {
		promptText.WriteString(fmt.Sprintf("- %s (event %s): client %q", c.Event.Name, c.Event.ID, c.Event.ClientName))
		if reconcile.Confident(c) {
			promptText.WriteString(fmt.Sprintf(", suggested %q (client %s, score %.2f)",
				c.SuggestedClient.CompanyName, c.SuggestedClient.ID, c.Score))
		}
		promptText.WriteString("\n")
	}
	promptText.WriteString("\nFor each event decide whether to link it to the suggested client (link_event_client), ")
	promptText.WriteString("create a new client from it (create_client_from_event) or ignore it (ignore_event).")

	return &mcp.GetPromptResult{
		Description: "Resolve events with unknown clients",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}
