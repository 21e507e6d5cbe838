package export

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/eventdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSAR(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00 SAR"},
		{80, "80.00 SAR"},
		{1234.5, "1,234.50 SAR"},
		{1234567.891, "1,234,567.89 SAR"},
		{-100, "-100.00 SAR"},
		{0.005, "0.01 SAR"},
		{999.999, "1,000.00 SAR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSAR(tt.in), "FormatSAR(%v)", tt.in)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "40.0%", FormatPercent(40))
	assert.Equal(t, "33.3%", FormatPercent(100.0/3))
	assert.Equal(t, "-20.0%", FormatPercent(-20))
}

func testEntropy() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestNewQuote(t *testing.T) {
	issued := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	event := models.Event{
		Name:          "Product Launch",
		ClientName:    "Acme Corp",
		ClientContact: models.ContactTBD,
		Location:      "Riyadh",
		GuestCount:    100,
		CostTracker: []models.LineItem{
			{Name: "Catering", Quantity: 100, UnitCostSAR: 80, ClientPriceSAR: 120.335},
			{Name: "Stage", Quantity: 1, UnitCostSAR: 5000, ClientPriceSAR: 8000},
		},
	}
	client := &models.Client{CompanyName: "Acme Corp", PrimaryContactName: "Jane"}

	q, err := NewQuote(event, client, issued, testEntropy())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(q.Number, "Q-"))
	assert.Len(t, q.Number, 2+26)
	assert.Equal(t, "Acme Corp", q.ClientName)
	assert.Equal(t, "Jane", q.ContactName)
	require.Len(t, q.Lines, 2)
	assert.Equal(t, "12033.5", q.Lines[0].Total.String())
	assert.Equal(t, "20033.50", q.Total.StringFixed(2))
}

func TestNewQuoteKeepsEventClientName(t *testing.T) {
	event := models.Event{Name: "Gala", ClientName: "Gulf Events", ClientContact: "Omar"}
	renamed := &models.Client{CompanyName: "Red Sea Productions", PrimaryContactName: "Jane"}

	q, err := NewQuote(event, renamed, time.Now(), testEntropy())
	require.NoError(t, err)
	assert.Equal(t, "Gulf Events", q.ClientName)
	assert.Equal(t, "Omar", q.ContactName)
}

func TestNewQuoteWithoutClient(t *testing.T) {
	event := models.Event{Name: "Walk-in", ClientName: "Unknown Co", ClientContact: models.ContactTBD}

	q, err := NewQuote(event, nil, time.Now(), testEntropy())
	require.NoError(t, err)
	assert.Equal(t, "Unknown Co", q.ClientName)
	assert.Empty(t, q.ContactName)
	assert.Empty(t, q.Lines)
	assert.True(t, q.Total.IsZero())
}

func TestQuoteNumbersAreOrderedByIssueTime(t *testing.T) {
	entropy := testEntropy()
	first, err := NewQuote(models.Event{}, nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), entropy)
	require.NoError(t, err)
	second, err := NewQuote(models.Event{}, nil, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), entropy)
	require.NoError(t, err)

	assert.Less(t, first.Number, second.Number)
}

func TestWritePDF(t *testing.T) {
	event := models.Event{
		Name:       "Gala Dinner",
		ClientName: "Al Noor Catering",
		Date:       time.Date(2026, 12, 5, 19, 0, 0, 0, time.UTC),
		CostTracker: []models.LineItem{
			{Name: "Dinner", Quantity: 50, ClientPriceSAR: 150},
		},
	}
	q, err := NewQuote(event, nil, time.Now(), testEntropy())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, q.WritePDF(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}
