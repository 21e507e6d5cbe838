// ABOUTME: AI assistant MCP tool handlers
// ABOUTME: Price suggestions, risk review and line item extraction for events
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/eventdesk/assist"
	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type AssistHandlers struct {
	db        *sql.DB
	assistant *assist.Assistant
}

func NewAssistHandlers(database *sql.DB, assistant *assist.Assistant) *AssistHandlers {
	return &AssistHandlers{db: database, assistant: assistant}
}

type SuggestPriceInput struct {
	EventID    string `json:"event_id" jsonschema:"Event ID (required)"`
	LineItemID string `json:"line_item_id" jsonschema:"Line item to price (required)"`
	Apply      bool   `json:"apply,omitempty" jsonschema:"Save the suggested amounts onto the line item"`
}

type SuggestPriceOutput struct {
	Suggestion assist.PriceSuggestion `json:"suggestion"`
	Applied    bool                   `json:"applied"`
	LineItem   LineItemOutput         `json:"line_item"`
}

func (h *AssistHandlers) SuggestLineItemPrice(ctx context.Context, request *mcp.CallToolRequest, input SuggestPriceInput) (*mcp.CallToolResult, SuggestPriceOutput, error) {
	event, err := h.event(input.EventID)
	if err != nil {
		return nil, SuggestPriceOutput{}, err
	}
	itemID, err := parseID("line_item_id", input.LineItemID)
	if err != nil {
		return nil, SuggestPriceOutput{}, err
	}

	var item *models.LineItem
	for i := range event.CostTracker {
		if event.CostTracker[i].ID == itemID {
			item = &event.CostTracker[i]
			break
		}
	}
	if item == nil {
		return nil, SuggestPriceOutput{}, fmt.Errorf("line item %s not found on event %s", itemID, event.ID)
	}

	suggestion, err := h.assistant.SuggestPrice(ctx, *event, *item)
	if err != nil {
		return nil, SuggestPriceOutput{}, err
	}

	out := SuggestPriceOutput{Suggestion: *suggestion, LineItem: lineItemToOutput(*item)}
	if input.Apply {
		priced := assist.ApplyPrice(*item, *suggestion)
		if err := db.UpdateLineItem(h.db, &priced); err != nil {
			return nil, SuggestPriceOutput{}, fmt.Errorf("failed to save price: %w", err)
		}
		out.Applied = true
		out.LineItem = lineItemToOutput(priced)
	}

	return nil, out, nil
}

func (h *AssistHandlers) AnalyzeEventRisk(ctx context.Context, request *mcp.CallToolRequest, input EventIDInput) (*mcp.CallToolResult, assist.RiskReport, error) {
	event, err := h.event(input.EventID)
	if err != nil {
		return nil, assist.RiskReport{}, err
	}

	report, err := h.assistant.AnalyzeRisk(ctx, finance.WithFinancials(*event))
	if err != nil {
		return nil, assist.RiskReport{}, err
	}
	return nil, *report, nil
}

type ExtractLineItemsInput struct {
	EventID string `json:"event_id" jsonschema:"Event ID (required)"`
	Brief   string `json:"brief" jsonschema:"Free-text event brief or client request"`
	Save    bool   `json:"save,omitempty" jsonschema:"Append the extracted items to the cost tracker"`
}

type ExtractLineItemsOutput struct {
	Items []LineItemOutput `json:"items"`
	Saved bool             `json:"saved"`
}

func (h *AssistHandlers) ExtractLineItems(ctx context.Context, request *mcp.CallToolRequest, input ExtractLineItemsInput) (*mcp.CallToolResult, ExtractLineItemsOutput, error) {
	event, err := h.event(input.EventID)
	if err != nil {
		return nil, ExtractLineItemsOutput{}, err
	}

	items, err := h.assistant.ExtractLineItems(ctx, input.Brief)
	if err != nil {
		return nil, ExtractLineItemsOutput{}, err
	}

	out := ExtractLineItemsOutput{Items: []LineItemOutput{}}
	for i := range items {
		if input.Save {
			if err := db.AddLineItem(h.db, event.ID, &items[i]); err != nil {
				return nil, ExtractLineItemsOutput{}, fmt.Errorf("failed to save line item: %w", err)
			}
		}
		out.Items = append(out.Items, lineItemToOutput(items[i]))
	}
	out.Saved = input.Save && len(items) > 0

	return nil, out, nil
}

func (h *AssistHandlers) event(idStr string) (*models.Event, error) {
	id, err := parseID("event_id", idStr)
	if err != nil {
		return nil, err
	}
	event, err := db.GetEvent(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event not found: %s", id)
	}
	return event, nil
}
