// ABOUTME: Salesperson commission summaries and audit ledger
// ABOUTME: Accrues commission on profitable events using event or user rates
package finance

import (
	"github.com/harperreed/eventdesk/models"
)

type SalesCommission struct {
	User              models.User `json:"user"`
	TotalCommission   float64     `json:"total_commission"`
	PaidCommission    float64     `json:"paid_commission"`
	PendingCommission float64     `json:"pending_commission"`
	EventCount        int         `json:"event_count"`
}

type LedgerEntry struct {
	User             models.User  `json:"user"`
	Event            models.Event `json:"event"`
	Profit           float64      `json:"profit"`
	CommissionAmount float64      `json:"commission_amount"`
	CommissionRate   float64      `json:"commission_rate"` // percent
	IsPaid           bool         `json:"is_paid"`
}

// ResolveCommissionRate returns the percentage owed on event: the event's
// own rate, else the user's default, else zero.
func ResolveCommissionRate(event models.Event, user models.User) float64 {
	if event.CommissionRate != nil {
		return amount(*event.CommissionRate)
	}
	if user.CommissionRate != nil {
		return amount(*user.CommissionRate)
	}
	return 0
}

// CommissionSummary totals commission for each Sales user, in user order.
// EventCount counts every event the user owns, profitable or not.
func CommissionSummary(users []models.User, events []models.Event) []SalesCommission {
	var summaries []SalesCommission

	for _, user := range users {
		if user.Role != models.RoleSales {
			continue
		}

		summary := SalesCommission{User: user}
		for _, event := range ownedBy(events, user) {
			summary.EventCount++

			profit := Compute(event.CostTracker).Profit
			if profit <= 0 {
				continue
			}

			commission := profit * ResolveCommissionRate(event, user) / 100
			summary.TotalCommission += commission
			if event.CommissionPaid {
				summary.PaidCommission += commission
			}
		}
		summary.PendingCommission = summary.TotalCommission - summary.PaidCommission

		summaries = append(summaries, summary)
	}

	return summaries
}

// CommissionLedger lists every (salesperson, event) pair that earns a
// positive commission, ordered by user then event.
func CommissionLedger(users []models.User, events []models.Event) []LedgerEntry {
	var entries []LedgerEntry

	for _, user := range users {
		if user.Role != models.RoleSales {
			continue
		}

		for _, event := range ownedBy(events, user) {
			profit := Compute(event.CostTracker).Profit
			if profit <= 0 {
				continue
			}

			rate := ResolveCommissionRate(event, user)
			commission := profit * rate / 100
			if commission <= 0 {
				continue
			}

			entries = append(entries, LedgerEntry{
				User:             user,
				Event:            event,
				Profit:           profit,
				CommissionAmount: commission,
				CommissionRate:   rate,
				IsPaid:           event.CommissionPaid,
			})
		}
	}

	return entries
}

func ownedBy(events []models.Event, user models.User) []models.Event {
	var owned []models.Event
	for _, event := range events {
		if event.SalespersonID != nil && *event.SalespersonID == user.ID {
			owned = append(owned, event)
		}
	}
	return owned
}
