// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Summarises portfolio financials, reconciliation backlog and commissions
package viz

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/harperreed/eventdesk/export"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/models"
	"github.com/harperreed/eventdesk/reconcile"
)

const upcomingWindow = 14 * 24 * time.Hour

type DashboardStats struct {
	Portfolio finance.Totals
	ByStatus  map[string]finance.Totals

	TotalClients int
	TotalEvents  int

	// Needs attention
	UnresolvedClients   int
	ConfidentMatches    int
	UnpaidCompleted     int
	NegativeMarginNames []string

	Upcoming    []UpcomingEvent
	Commissions []finance.SalesCommission
}

type UpcomingEvent struct {
	Name     string
	Date     time.Time
	DaysLeft int
}

// GenerateDashboardStats derives dashboard figures from the current data set.
func GenerateDashboardStats(users []models.User, clients []models.Client, events []models.Event, ignored reconcile.IgnoreSet, now time.Time) *DashboardStats {
	stats := &DashboardStats{
		Portfolio:    finance.PortfolioTotals(events),
		ByStatus:     finance.ByStatus(events),
		TotalClients: len(clients),
		TotalEvents:  len(events),
		Commissions:  finance.CommissionSummary(users, events),
	}

	for _, c := range reconcile.FindUnresolved(events, clients, ignored) {
		stats.UnresolvedClients++
		if reconcile.Confident(c) {
			stats.ConfidentMatches++
		}
	}

	for _, ef := range finance.WithFinancialsAll(events) {
		if ef.Status == models.EventStatusCompleted && ef.PaymentStatus != models.PaymentPaid {
			stats.UnpaidCompleted++
		}
		if ef.Revenue > 0 && ef.Profit < 0 {
			stats.NegativeMarginNames = append(stats.NegativeMarginNames, ef.Name)
		}

		if ef.Date.IsZero() || ef.Status == models.EventStatusCancelled {
			continue
		}
		until := ef.Date.Sub(now)
		if until >= 0 && until <= upcomingWindow {
			stats.Upcoming = append(stats.Upcoming, UpcomingEvent{
				Name:     ef.Name,
				Date:     ef.Date,
				DaysLeft: int(until.Hours() / 24),
			})
		}
	}

	slices.SortStableFunc(stats.Upcoming, func(a, b UpcomingEvent) int {
		return a.Date.Compare(b.Date)
	})

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  EVENTDESK DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PORTFOLIO\n")
	out.WriteString(fmt.Sprintf("  Revenue %s  Cost %s\n",
		export.FormatSAR(stats.Portfolio.TotalRevenue), export.FormatSAR(stats.Portfolio.TotalCost)))
	out.WriteString(fmt.Sprintf("  Profit  %s  Margin %s\n\n",
		export.FormatSAR(stats.Portfolio.TotalProfit), export.FormatPercent(stats.Portfolio.OverallMargin)))

	out.WriteString("EVENTS BY STATUS\n")
	renderStatuses(&out, stats.ByStatus)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  🏢 %d clients  🎪 %d events\n\n", stats.TotalClients, stats.TotalEvents))

	if len(stats.Upcoming) > 0 {
		out.WriteString("UPCOMING (14 days)\n")
		for _, u := range stats.Upcoming {
			out.WriteString(fmt.Sprintf("  %s  %-30s in %d days\n", u.Date.Format("2006-01-02"), u.Name, u.DaysLeft))
		}
		out.WriteString("\n")
	}

	if len(stats.Commissions) > 0 {
		out.WriteString("COMMISSIONS\n")
		for _, c := range stats.Commissions {
			out.WriteString(fmt.Sprintf("  %-20s pending %s  paid %s\n",
				c.User.Name, export.FormatSAR(c.PendingCommission), export.FormatSAR(c.PaidCommission)))
		}
		out.WriteString("\n")
	}

	if stats.UnresolvedClients > 0 || stats.UnpaidCompleted > 0 || len(stats.NegativeMarginNames) > 0 {
		out.WriteString("NEEDS ATTENTION\n")

		if stats.UnresolvedClients > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d events with unknown clients (%d with a suggestion)\n",
				stats.UnresolvedClients, stats.ConfidentMatches))
		}
		if stats.UnpaidCompleted > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d completed events not fully paid\n", stats.UnpaidCompleted))
		}
		if len(stats.NegativeMarginNames) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d events losing money: %s\n",
				len(stats.NegativeMarginNames), strings.Join(stats.NegativeMarginNames, ", ")))
		}
	}

	return out.String()
}

func renderStatuses(out *strings.Builder, byStatus map[string]finance.Totals) {
	statuses := []string{
		models.EventStatusPlanning,
		models.EventStatusConfirmed,
		models.EventStatusCompleted,
		models.EventStatusCancelled,
	}
	// Statuses outside the known set still get a row, after the known ones
	var extra []string
	for s := range byStatus {
		if !slices.Contains(statuses, s) {
			extra = append(extra, s)
		}
	}
	slices.Sort(extra)
	statuses = append(statuses, extra...)

	maxCount := 0
	for _, t := range byStatus {
		if t.EventCount > maxCount {
			maxCount = t.EventCount
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, status := range statuses {
		t, exists := byStatus[status]
		if !exists {
			continue
		}

		barLength := (t.EventCount * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-10s %s  %2d  %s\n",
			status, bar, t.EventCount, export.FormatSAR(t.TotalRevenue)))
	}
}
