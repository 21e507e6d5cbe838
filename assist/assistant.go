// ABOUTME: AI assistant for pricing, risk review and line item extraction
// ABOUTME: Parses JSON replies from a Provider into domain values
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/models"
)

var ErrNoProvider = errors.New("no AI provider configured")

// Assistant wraps a Provider. A nil provider makes every call return ErrNoProvider.
type Assistant struct {
	provider Provider
}

func New(provider Provider) *Assistant {
	return &Assistant{provider: provider}
}

func (a *Assistant) Enabled() bool {
	return a != nil && a.provider != nil
}

// PriceSuggestion is a proposed per-unit cost and price in SAR.
type PriceSuggestion struct {
	UnitCostSAR    float64 `json:"unit_cost_sar"`
	ClientPriceSAR float64 `json:"client_price_sar"`
	Rationale      string  `json:"rationale"`
}

type RiskReport struct {
	Level string   `json:"level"` // low, medium, high
	Risks []string `json:"risks"`
}

const pricingPrompt = `You price line items for an events company in Saudi Arabia.
Reply with JSON only: {"unit_cost_sar": number, "client_price_sar": number, "rationale": string}.
Amounts are per unit in SAR. The client price must not be below the unit cost.`

const riskPrompt = `You review event budgets for an events company.
Reply with JSON only: {"level": "low"|"medium"|"high", "risks": [string]}.
Flag thin margins, missing costs and items priced below cost.`

const extractPrompt = `You extract cost line items from free-text event briefs.
Reply with a JSON array only: [{"name": string, "quantity": number, "unit_cost_sar": number,
"client_price_sar": number, "cost_type": "fixed"|"per_guest"|"rental"|"labor", "description": string}].
Use 0 for unknown amounts.`

func (a *Assistant) SuggestPrice(ctx context.Context, event models.Event, item models.LineItem) (*PriceSuggestion, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Event: %s (%s)\n", event.Name, event.EventType)
	fmt.Fprintf(&b, "Guests: %d\nLocation: %s\n", event.GuestCount, event.Location)
	fmt.Fprintf(&b, "Line item: %s\nQuantity: %g\nCost type: %s\n", item.Name, item.Quantity, item.CostType)
	if item.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", item.Description)
	}

	var suggestion PriceSuggestion
	if err := a.ask(ctx, pricingPrompt, b.String(), &suggestion); err != nil {
		return nil, err
	}
	if suggestion.UnitCostSAR < 0 || suggestion.ClientPriceSAR < 0 {
		return nil, fmt.Errorf("provider returned negative amounts")
	}
	return &suggestion, nil
}

// AnalyzeRisk asks for a review of an event's cost tracker and totals.
func (a *Assistant) AnalyzeRisk(ctx context.Context, event finance.EventFinancials) (*RiskReport, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Event: %s, guests %d, status %s\n", event.Name, event.GuestCount, event.Status)
	fmt.Fprintf(&b, "Revenue %.2f SAR, cost %.2f SAR, profit %.2f SAR, margin %.1f%%\n",
		event.Revenue, event.Cost, event.Profit, event.Margin)
	for _, item := range event.CostTracker {
		fmt.Fprintf(&b, "- %s: qty %g, cost %.2f, price %.2f\n", item.Name, item.Quantity, item.UnitCostSAR, item.ClientPriceSAR)
	}

	var report RiskReport
	if err := a.ask(ctx, riskPrompt, b.String(), &report); err != nil {
		return nil, err
	}
	report.Level = strings.ToLower(strings.TrimSpace(report.Level))
	return &report, nil
}

// ExtractLineItems turns a free-text brief into line items. IDs are not set.
func (a *Assistant) ExtractLineItems(ctx context.Context, brief string) ([]models.LineItem, error) {
	if strings.TrimSpace(brief) == "" {
		return nil, nil
	}

	var items []models.LineItem
	if err := a.ask(ctx, extractPrompt, brief, &items); err != nil {
		return nil, err
	}

	kept := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		kept = append(kept, item)
	}
	return kept, nil
}

// ApplyPrice merges a suggestion into item. Zero amounts leave the field unchanged.
func ApplyPrice(item models.LineItem, s PriceSuggestion) models.LineItem {
	if s.UnitCostSAR > 0 {
		item.UnitCostSAR = s.UnitCostSAR
	}
	if s.ClientPriceSAR > 0 {
		item.ClientPriceSAR = s.ClientPriceSAR
	}
	return item
}

func (a *Assistant) ask(ctx context.Context, system, user string, out any) error {
	if !a.Enabled() {
		return ErrNoProvider
	}

	response, err := a.provider.GenerateResponse(ctx, system, user)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", a.provider.Name(), err)
	}

	if err := json.Unmarshal([]byte(cleanJSON(response)), out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", a.provider.Name(), err)
	}
	return nil
}

// cleanJSON strips markdown code fences models like to wrap JSON in.
func cleanJSON(response string) string {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
