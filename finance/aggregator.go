// ABOUTME: Derived financial metrics for events and the event portfolio
// ABOUTME: Computes revenue, cost, profit and margin from cost tracker line items
package finance

import (
	"math"

	"github.com/harperreed/eventdesk/models"
)

// Financials are the derived figures for a set of line items. Amounts are SAR
// and unrounded; Margin is a percentage of revenue.
type Financials struct {
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
	Margin  float64 `json:"margin"`
}

// EventFinancials is an event together with its derived figures.
type EventFinancials struct {
	models.Event
	Financials
}

type Totals struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalCost     float64 `json:"total_cost"`
	TotalProfit   float64 `json:"total_profit"`
	OverallMargin float64 `json:"overall_margin"`
	EventCount    int     `json:"event_count"`
}

// Compute sums revenue and cost over items. A line or sum that overflows
// to infinity counts as zero, so every figure stays finite.
func Compute(items []models.LineItem) Financials {
	var f Financials
	for _, item := range items {
		qty := quantity(item.Quantity)
		f.Revenue = amount(f.Revenue + amount(amount(item.ClientPriceSAR)*qty))
		f.Cost = amount(f.Cost + amount(amount(item.UnitCostSAR)*qty))
	}
	f.Profit = amount(f.Revenue - f.Cost)
	f.Margin = margin(f.Profit, f.Revenue)
	return f
}

func WithFinancials(event models.Event) EventFinancials {
	return EventFinancials{Event: event, Financials: Compute(event.CostTracker)}
}

// WithFinancialsAll maps WithFinancials over events, keeping order.
func WithFinancialsAll(events []models.Event) []EventFinancials {
	out := make([]EventFinancials, len(events))
	for i, event := range events {
		out[i] = WithFinancials(event)
	}
	return out
}

func PortfolioTotals(events []models.Event) Totals {
	var t Totals
	for _, event := range events {
		f := Compute(event.CostTracker)
		t.TotalRevenue = amount(t.TotalRevenue + f.Revenue)
		t.TotalCost = amount(t.TotalCost + f.Cost)
		t.TotalProfit = amount(t.TotalProfit + f.Profit)
	}
	t.EventCount = len(events)
	t.OverallMargin = margin(t.TotalProfit, t.TotalRevenue)
	return t
}

// ByStatus groups portfolio totals by event status.
func ByStatus(events []models.Event) map[string]Totals {
	grouped := make(map[string][]models.Event)
	for _, event := range events {
		status := event.Status
		if status == "" {
			status = "unknown"
		}
		grouped[status] = append(grouped[status], event)
	}

	out := make(map[string]Totals, len(grouped))
	for status, group := range grouped {
		out[status] = PortfolioTotals(group)
	}
	return out
}

func margin(profit, revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return amount(profit / revenue * 100)
}

// amount coerces values that would poison a sum to zero.
func amount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func quantity(v float64) float64 {
	v = amount(v)
	if v < 0 {
		return 0
	}
	return v
}
