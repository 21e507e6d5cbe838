package viz

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
	"github.com/harperreed/eventdesk/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() ([]models.User, []models.Client, []models.Event) {
	rate := 10.0
	omar := models.User{ID: uuid.New(), Name: "Omar", Role: models.RoleSales, CommissionRate: &rate}
	acme := models.Client{ID: uuid.New(), CompanyName: "Acme Corp"}

	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	events := []models.Event{
		{
			ID: uuid.New(), Name: "Launch", ClientName: "acme corp", Status: models.EventStatusConfirmed,
			SalespersonID: &omar.ID, Date: now.Add(3 * 24 * time.Hour),
			CostTracker: []models.LineItem{{Name: "Stage", Quantity: 1, UnitCostSAR: 600, ClientPriceSAR: 1000}},
		},
		{
			ID: uuid.New(), Name: "Gala", ClientName: "Acme", Status: models.EventStatusCompleted,
			PaymentStatus: models.PaymentPartial,
			CostTracker:   []models.LineItem{{Name: "Food", Quantity: 10, UnitCostSAR: 120, ClientPriceSAR: 100}},
		},
		{
			ID: uuid.New(), Name: "Far Future", ClientName: "Nobody Ltd", Status: models.EventStatusPlanning,
			Date: now.Add(60 * 24 * time.Hour),
		},
	}
	return []models.User{omar}, []models.Client{acme}, events
}

func TestGenerateDashboardStats(t *testing.T) {
	users, clients, events := fixture()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	stats := GenerateDashboardStats(users, clients, events, reconcile.NewIgnoreSet(), now)

	assert.Equal(t, 3, stats.TotalEvents)
	assert.Equal(t, 1, stats.TotalClients)
	assert.Equal(t, 2000.0, stats.Portfolio.TotalRevenue)
	assert.Equal(t, 2, stats.UnresolvedClients)
	assert.Equal(t, 1, stats.ConfidentMatches, "Acme scores 0.8 against Acme Corp")
	assert.Equal(t, 1, stats.UnpaidCompleted)
	assert.Equal(t, []string{"Gala"}, stats.NegativeMarginNames)
	require.Len(t, stats.Upcoming, 1)
	assert.Equal(t, "Launch", stats.Upcoming[0].Name)
	assert.Equal(t, 3, stats.Upcoming[0].DaysLeft)
	require.Len(t, stats.Commissions, 1)
	assert.InDelta(t, 40.0, stats.Commissions[0].PendingCommission, 1e-9)
}

func TestGenerateDashboardStatsRespectsIgnored(t *testing.T) {
	users, clients, events := fixture()
	ignored := reconcile.NewIgnoreSet(events[1].ID, events[2].ID)

	stats := GenerateDashboardStats(users, clients, events, ignored, time.Now())
	assert.Zero(t, stats.UnresolvedClients)
}

func TestRenderDashboard(t *testing.T) {
	users, clients, events := fixture()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	out := RenderDashboard(GenerateDashboardStats(users, clients, events, nil, now))

	assert.Contains(t, out, "EVENTDESK DASHBOARD")
	assert.Contains(t, out, "Revenue 2,000.00 SAR")
	assert.Contains(t, out, "Confirmed")
	assert.Contains(t, out, "UPCOMING")
	assert.Contains(t, out, "2 events with unknown clients (1 with a suggestion)")
	assert.Contains(t, out, "losing money: Gala")

	// Known statuses render in lifecycle order
	assert.Less(t, strings.Index(out, "Planning"), strings.Index(out, "Completed"))
}

func TestRenderDashboardEmpty(t *testing.T) {
	out := RenderDashboard(GenerateDashboardStats(nil, nil, nil, nil, time.Now()))
	assert.Contains(t, out, "0 clients")
	assert.NotContains(t, out, "NEEDS ATTENTION")
}

func TestGenerateEventGraph(t *testing.T) {
	users, clients, events := fixture()

	dot, err := GenerateEventGraph(context.Background(), users, clients, events)
	require.NoError(t, err)

	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, "Omar")
	assert.Contains(t, dot, "Acme Corp")
	assert.Contains(t, dot, "Nobody Ltd")
}
