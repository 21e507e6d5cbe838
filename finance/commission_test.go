package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate(v float64) *float64 {
	return &v
}

func profitableEvent(owner uuid.UUID, profit float64) models.Event {
	id := owner
	// price - cost = profit on a single unit
	return models.Event{
		ID:            uuid.New(),
		SalespersonID: &id,
		CostTracker: []models.LineItem{
			{ClientPriceSAR: 1000 + profit, UnitCostSAR: 1000, Quantity: 1},
		},
	}
}

func TestCommissionSummaryIgnoresLosses(t *testing.T) {
	seller := models.User{ID: uuid.New(), Name: "Lina", Role: models.RoleSales, CommissionRate: rate(10)}
	events := []models.Event{
		profitableEvent(seller.ID, 500),
		profitableEvent(seller.ID, -100),
	}

	summaries := CommissionSummary([]models.User{seller}, events)
	require.Len(t, summaries, 1)

	assert.Equal(t, 50.0, summaries[0].TotalCommission)
	assert.Zero(t, summaries[0].PaidCommission)
	assert.Equal(t, 50.0, summaries[0].PendingCommission)
	assert.Equal(t, 2, summaries[0].EventCount)
}

func TestCommissionSummaryPaidAndPending(t *testing.T) {
	seller := models.User{ID: uuid.New(), Role: models.RoleSales, CommissionRate: rate(5)}

	paid := profitableEvent(seller.ID, 1000)
	paid.CommissionPaid = true
	override := profitableEvent(seller.ID, 400)
	override.CommissionRate = rate(20)

	summaries := CommissionSummary([]models.User{seller}, []models.Event{paid, override})
	require.Len(t, summaries, 1)

	assert.Equal(t, 130.0, summaries[0].TotalCommission)
	assert.Equal(t, 50.0, summaries[0].PaidCommission)
	assert.Equal(t, 80.0, summaries[0].PendingCommission)
}

func TestCommissionSummaryOnlySalesUsers(t *testing.T) {
	admin := models.User{ID: uuid.New(), Role: models.RoleAdmin, CommissionRate: rate(10)}
	ops := models.User{ID: uuid.New(), Role: models.RoleOperations}
	seller := models.User{ID: uuid.New(), Role: models.RoleSales}

	events := []models.Event{profitableEvent(admin.ID, 100), profitableEvent(seller.ID, 100)}

	summaries := CommissionSummary([]models.User{admin, ops, seller}, events)
	require.Len(t, summaries, 1)
	assert.Equal(t, seller.ID, summaries[0].User.ID)

	// No rate anywhere resolves to zero commission
	assert.Zero(t, summaries[0].TotalCommission)
	assert.Equal(t, 1, summaries[0].EventCount)
}

func TestCommissionSummaryUnassignedEvents(t *testing.T) {
	seller := models.User{ID: uuid.New(), Role: models.RoleSales, CommissionRate: rate(10)}
	unassigned := models.Event{CostTracker: []models.LineItem{{ClientPriceSAR: 100, Quantity: 1}}}

	summaries := CommissionSummary([]models.User{seller}, []models.Event{unassigned})
	require.Len(t, summaries, 1)
	assert.Zero(t, summaries[0].EventCount)
	assert.Zero(t, summaries[0].TotalCommission)
}

func TestResolveCommissionRate(t *testing.T) {
	user := models.User{CommissionRate: rate(7)}

	assert.Equal(t, 12.0, ResolveCommissionRate(models.Event{CommissionRate: rate(12)}, user))
	assert.Equal(t, 7.0, ResolveCommissionRate(models.Event{}, user))
	assert.Equal(t, 0.0, ResolveCommissionRate(models.Event{}, models.User{}))

	// An explicit zero on the event overrides the user default
	assert.Equal(t, 0.0, ResolveCommissionRate(models.Event{CommissionRate: rate(0)}, user))
}

func TestCommissionLedger(t *testing.T) {
	first := models.User{ID: uuid.New(), Name: "Lina", Role: models.RoleSales, CommissionRate: rate(10)}
	second := models.User{ID: uuid.New(), Name: "Omar", Role: models.RoleSales}

	a := profitableEvent(first.ID, 500)
	b := profitableEvent(first.ID, -100)
	c := profitableEvent(second.ID, 300)
	c.CommissionRate = rate(15)
	c.CommissionPaid = true
	d := profitableEvent(second.ID, 300) // no rate, zero commission
	e := profitableEvent(first.ID, 200)

	ledger := CommissionLedger([]models.User{first, second}, []models.Event{c, a, b, d, e})
	require.Len(t, ledger, 3)

	assert.Equal(t, a.ID, ledger[0].Event.ID)
	assert.Equal(t, 50.0, ledger[0].CommissionAmount)
	assert.Equal(t, 10.0, ledger[0].CommissionRate)
	assert.False(t, ledger[0].IsPaid)

	assert.Equal(t, e.ID, ledger[1].Event.ID)
	assert.Equal(t, 20.0, ledger[1].CommissionAmount)

	assert.Equal(t, c.ID, ledger[2].Event.ID)
	assert.Equal(t, second.ID, ledger[2].User.ID)
	assert.Equal(t, 45.0, ledger[2].CommissionAmount)
	assert.Equal(t, 15.0, ledger[2].CommissionRate)
	assert.Equal(t, 300.0, ledger[2].Profit)
	assert.True(t, ledger[2].IsPaid)
}

func TestCommissionLedgerMatchesSummary(t *testing.T) {
	seller := models.User{ID: uuid.New(), Role: models.RoleSales, CommissionRate: rate(8)}
	events := []models.Event{
		profitableEvent(seller.ID, 250),
		profitableEvent(seller.ID, 750),
		profitableEvent(seller.ID, 0),
	}

	var ledgerTotal float64
	for _, entry := range CommissionLedger([]models.User{seller}, events) {
		ledgerTotal += entry.CommissionAmount
	}

	summaries := CommissionSummary([]models.User{seller}, events)
	require.Len(t, summaries, 1)
	assert.InDelta(t, summaries[0].TotalCommission, ledgerTotal, 1e-9)
}
