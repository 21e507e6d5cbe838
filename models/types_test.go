// ABOUTME: Tests for event management data models
// ABOUTME: Validates EventPatch application and status validation helpers
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEventPatchApply(t *testing.T) {
	original := Event{
		ID:            uuid.New(),
		Name:          "Launch Night",
		ClientName:    "Acme",
		ClientContact: ContactTBD,
		Status:        EventStatusPlanning,
	}

	name := "Acme Trading Co"
	contact := "Sara"
	paid := true
	patch := EventPatch{ClientName: &name, ClientContact: &contact, CommissionPaid: &paid}

	updated := patch.Apply(original)

	if updated.ClientName != name {
		t.Errorf("expected client name %q, got %q", name, updated.ClientName)
	}
	if updated.ClientContact != contact {
		t.Errorf("expected contact %q, got %q", contact, updated.ClientContact)
	}
	if !updated.CommissionPaid {
		t.Error("expected commission to be marked paid")
	}
	if updated.Status != EventStatusPlanning {
		t.Errorf("untouched field changed: %s", updated.Status)
	}

	// Original is a value and must not change
	if original.ClientName != "Acme" {
		t.Errorf("original event mutated: %q", original.ClientName)
	}
}

func TestEventPatchCopiesPointers(t *testing.T) {
	rate := 7.5
	patch := EventPatch{CommissionRate: &rate}

	updated := patch.Apply(Event{})
	rate = 99

	if updated.CommissionRate == nil || *updated.CommissionRate != 7.5 {
		t.Errorf("expected commission rate 7.5, got %v", updated.CommissionRate)
	}
}

func TestEventPatchClearsOptionalFields(t *testing.T) {
	rate := 12.0
	client := uuid.New()
	seller := uuid.New()
	event := Event{ClientID: &client, SalespersonID: &seller, CommissionRate: &rate}

	cleared := EventPatch{ClearClientID: true, ClearSalesperson: true, ClearCommissionRate: true}.Apply(event)
	if cleared.ClientID != nil || cleared.SalespersonID != nil || cleared.CommissionRate != nil {
		t.Errorf("expected optional fields cleared, got %+v", cleared)
	}
	if event.CommissionRate == nil {
		t.Error("original event mutated")
	}

	// A value in the same patch wins over the clear flag
	other := 3.0
	replaced := EventPatch{ClearCommissionRate: true, CommissionRate: &other}.Apply(event)
	if replaced.CommissionRate == nil || *replaced.CommissionRate != 3.0 {
		t.Errorf("expected commission rate 3, got %v", replaced.CommissionRate)
	}

	if (EventPatch{ClearCommissionRate: true}).IsEmpty() {
		t.Error("patch with a clear flag should not be empty")
	}
}

func TestEventPatchIsEmpty(t *testing.T) {
	if !(EventPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}

	when := time.Now()
	if (EventPatch{Date: &when}).IsEmpty() {
		t.Error("patch with date should not be empty")
	}
}

func TestStatusValidation(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
		check func(string) bool
		input string
	}{
		{"confirmed event", true, IsValidEventStatus, EventStatusConfirmed},
		{"unknown event", false, IsValidEventStatus, "postponed"},
		{"partial payment", true, IsValidPaymentStatus, PaymentPartial},
		{"lowercase payment", false, IsValidPaymentStatus, "paid"},
		{"sales role", true, IsValidRole, RoleSales},
		{"empty role", false, IsValidRole, ""},
		{"inactive client", true, IsValidClientStatus, ClientStatusInactive},
		{"prospect client", false, IsValidClientStatus, "Prospect"},
	}

	for _, tt := range tests {
		if got := tt.check(tt.input); got != tt.valid {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.valid)
		}
	}
}
