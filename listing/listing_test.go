package listing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortStateToggle(t *testing.T) {
	var state SortState

	state = state.Toggle(KeyName)
	assert.Equal(t, SortState{Key: KeyName, Direction: Asc}, state)

	state = state.Toggle(KeyName)
	assert.Equal(t, Desc, state.Direction)

	state = state.Toggle(KeyName)
	assert.Equal(t, Asc, state.Direction)

	state = state.Toggle(KeyName).Toggle(KeyProfit)
	assert.Equal(t, SortState{Key: KeyProfit, Direction: Asc}, state)
}

func TestCompare(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 0, Compare("Acme", "acme"))
	assert.Equal(t, -1, Compare("alpha", "Beta"))
	assert.Equal(t, 1, Compare(10.5, 2.0))
	assert.Equal(t, -1, Compare(3, 30))
	assert.Equal(t, -1, Compare(now, now.Add(time.Hour)))
	assert.Equal(t, 0, Compare("text", 5.0))
}

func rows() []finance.EventFinancials {
	mk := func(name string, revenue float64) finance.EventFinancials {
		return finance.WithFinancials(models.Event{
			ID:   uuid.New(),
			Name: name,
			CostTracker: []models.LineItem{
				{ClientPriceSAR: revenue, Quantity: 1},
			},
		})
	}
	return []finance.EventFinancials{mk("beta", 300), mk("Alpha", 100), mk("gamma", 300), mk("alpha", 50)}
}

func names(events []finance.EventFinancials) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Name
	}
	return out
}

func TestSortEventsByName(t *testing.T) {
	sorted, err := SortEvents(rows(), SortState{Key: KeyName, Direction: Asc})
	require.NoError(t, err)

	// Case-insensitive, equal keys keep input order
	assert.Equal(t, []string{"Alpha", "alpha", "beta", "gamma"}, names(sorted))
}

func TestSortEventsByRevenueDesc(t *testing.T) {
	input := rows()
	sorted, err := SortEvents(input, SortState{Key: KeyRevenue, Direction: Desc})
	require.NoError(t, err)

	assert.Equal(t, []string{"beta", "gamma", "Alpha", "alpha"}, names(sorted))

	// Input is untouched
	assert.Equal(t, "beta", input[0].Name)
	assert.Equal(t, "Alpha", input[1].Name)
}

func TestSortEventsNoKey(t *testing.T) {
	sorted, err := SortEvents(rows(), SortState{})
	require.NoError(t, err)
	assert.Equal(t, names(rows()), names(sorted))
}

func TestSortEventsInvalidKey(t *testing.T) {
	_, err := SortEvents(rows(), SortState{Key: "colour"})
	assert.Error(t, err)
}

func TestEventFilter(t *testing.T) {
	seller := uuid.New()
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	events := []models.Event{
		{Name: "Winter Gala", ClientName: "Acme", Location: "Riyadh", Status: models.EventStatusConfirmed, PaymentStatus: models.PaymentPaid, Date: jan, SalespersonID: &seller, EventType: "gala"},
		{Name: "Spring Expo", ClientName: "Blue Wave", Location: "Jeddah", Status: models.EventStatusPlanning, PaymentStatus: models.PaymentUnpaid, Date: mar},
		{Name: "Roadshow", ClientName: "Acme Trading", Location: "Dammam", Status: models.EventStatusConfirmed, PaymentStatus: models.PaymentUnpaid, Date: mar, SalespersonID: &seller},
	}

	tests := []struct {
		name     string
		filter   EventFilter
		expected []string
	}{
		{"empty filter", EventFilter{}, []string{"Winter Gala", "Spring Expo", "Roadshow"}},
		{"query matches client", EventFilter{Query: "ACME"}, []string{"Winter Gala", "Roadshow"}},
		{"query matches location", EventFilter{Query: "jeddah"}, []string{"Spring Expo"}},
		{"status", EventFilter{Status: "confirmed"}, []string{"Winter Gala", "Roadshow"}},
		{"status and payment", EventFilter{Status: models.EventStatusConfirmed, PaymentStatus: models.PaymentUnpaid}, []string{"Roadshow"}},
		{"salesperson", EventFilter{SalespersonID: &seller}, []string{"Winter Gala", "Roadshow"}},
		{"from date", EventFilter{From: &mar}, []string{"Spring Expo", "Roadshow"}},
		{"to date", EventFilter{To: &jan}, []string{"Winter Gala"}},
		{"event type", EventFilter{EventType: "Gala"}, []string{"Winter Gala"}},
		{"nothing matches", EventFilter{Query: "nowhere"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range tt.filter.Apply(events) {
				got = append(got, e.Name)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}
