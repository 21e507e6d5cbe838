package reconcile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkToExisting(t *testing.T) {
	target := models.Client{ID: uuid.New(), CompanyName: "Al-Noor Catering Est.", PrimaryContactName: "Huda"}

	tests := []struct {
		name            string
		contact         string
		expectedContact *string
	}{
		{"empty contact adopts primary", "", strPtr("Huda")},
		{"TBD contact adopts primary", "TBD", strPtr("Huda")},
		{"padded TBD adopts primary", " TBD ", strPtr("Huda")},
		{"known contact kept", "Omar", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := models.Event{ID: uuid.New(), ClientName: "Al Noor Catering", ClientContact: tt.contact}

			patch, err := LinkToExisting(ev, &target)
			require.NoError(t, err)
			require.NotNil(t, patch.ClientName)
			assert.Equal(t, target.CompanyName, *patch.ClientName)
			assert.Equal(t, tt.expectedContact, patch.ClientContact)
			assert.Nil(t, patch.ClientID, "link must not touch the weak client reference")

			updated := patch.Apply(ev)
			assert.True(t, IsLinked(updated, []models.Client{target}))
		})
	}
}

func TestLinkToExistingRequiresSelection(t *testing.T) {
	_, err := LinkToExisting(models.Event{ClientName: "Acme"}, nil)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestCreateFromEvent(t *testing.T) {
	ev := models.Event{
		ID:            uuid.New(),
		Name:          "Product Launch",
		ClientName:    "  Nujoom Media ",
		ClientContact: "Faisal",
		Location:      "Riyadh Front",
	}

	created, err := CreateFromEvent(ev)
	require.NoError(t, err)

	assert.Equal(t, "Nujoom Media", created.CompanyName)
	assert.Equal(t, "Faisal", created.PrimaryContactName)
	assert.Equal(t, "Riyadh Front", created.Address)
	assert.Equal(t, models.ClientStatusActive, created.ClientStatus)
	assert.Contains(t, created.InternalNotes, "Product Launch")
	assert.Equal(t, uuid.Nil, created.ID)

	// The event resolves against the new client without any patch
	assert.True(t, IsLinked(ev, []models.Client{created}))
}

func TestCreateFromEventDropsTBDContact(t *testing.T) {
	created, err := CreateFromEvent(models.Event{ClientName: "Acme", ClientContact: models.ContactTBD})
	require.NoError(t, err)
	assert.Empty(t, created.PrimaryContactName)
}

func TestCreateFromEventRequiresName(t *testing.T) {
	for _, name := range []string{"", "   "} {
		_, err := CreateFromEvent(models.Event{ClientName: name})
		assert.ErrorIs(t, err, ErrEmptyClientName)
	}
}

func TestIgnoreSet(t *testing.T) {
	var empty IgnoreSet
	assert.False(t, empty.Has(uuid.New()))
	assert.Zero(t, empty.Len())

	a, b := uuid.New(), uuid.New()
	set := NewIgnoreSet(a)
	set.Add(b)
	set.Add(b)

	assert.True(t, set.Has(a))
	assert.True(t, set.Has(b))
	assert.Equal(t, 2, set.Len())
	assert.ElementsMatch(t, []uuid.UUID{a, b}, set.IDs())
}

func TestIgnoreReturnsCopy(t *testing.T) {
	ev := models.Event{ID: uuid.New(), ClientName: "Ghost Co"}
	original := NewIgnoreSet()

	next := Ignore(original, ev)

	assert.True(t, next.Has(ev.ID))
	assert.False(t, original.Has(ev.ID))

	// Ignored events disappear from the unresolved list
	assert.Len(t, FindUnresolved([]models.Event{ev}, nil, original), 1)
	assert.Empty(t, FindUnresolved([]models.Event{ev}, nil, next))
}

func TestSuggestions(t *testing.T) {
	clients := []models.Client{
		{CompanyName: "Wave Media Partners"},
		{CompanyName: "Blue Wave Media Group"},
		{CompanyName: "Riyadh Expo"},
		{CompanyName: "Blue Wave"},
	}

	result := Suggestions("Blue Wave Media", clients, 0)
	require.Len(t, result, 3)

	// Containment (0.8) outranks token overlap; ties keep client order
	assert.Equal(t, "Blue Wave Media Group", result[0].Client.CompanyName)
	assert.Equal(t, "Blue Wave", result[1].Client.CompanyName)
	assert.Equal(t, "Wave Media Partners", result[2].Client.CompanyName)

	limited := Suggestions("Blue Wave Media", clients, 1)
	assert.Len(t, limited, 1)

	assert.Empty(t, Suggestions("", clients, 5))
}

func strPtr(s string) *string {
	return &s
}
