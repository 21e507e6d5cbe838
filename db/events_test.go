// ABOUTME: Tests for event, line item, task and ignore set persistence
// ABOUTME: Verifies hydration order, patch updates and cascading deletes
package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
)

func TestCreateEventWithCostTracker(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	rate := 10.0
	event := &models.Event{
		Name:           "Annual Gala",
		ClientName:     "Acme Corp",
		ClientContact:  models.ContactTBD,
		Date:           time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		Location:       "Riyadh",
		GuestCount:     150,
		CommissionRate: &rate,
		CostTracker: []models.LineItem{
			{Name: "Catering", Quantity: 150, UnitCostSAR: 80, ClientPriceSAR: 120, CostType: models.CostTypePerGuest},
			{Name: "Stage", Quantity: 1, UnitCostSAR: 5000, ClientPriceSAR: 8000, CostType: models.CostTypeRental},
		},
		Tasks: []models.Task{{Title: "Confirm venue"}},
	}

	if err := CreateEvent(db, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if event.ID == uuid.Nil {
		t.Fatal("Event ID was not set")
	}
	if event.Status != models.EventStatusPlanning || event.PaymentStatus != models.PaymentUnpaid {
		t.Errorf("Expected default statuses, got %s/%s", event.Status, event.PaymentStatus)
	}

	got, err := GetEvent(db, event.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got == nil {
		t.Fatal("Event not found")
	}
	if len(got.CostTracker) != 2 || got.CostTracker[0].Name != "Catering" || got.CostTracker[1].Name != "Stage" {
		t.Errorf("Cost tracker not hydrated in order: %+v", got.CostTracker)
	}
	if got.CostTracker[0].EventID != event.ID {
		t.Error("Line item event ID mismatch")
	}
	if len(got.Tasks) != 1 || got.Tasks[0].Title != "Confirm venue" {
		t.Errorf("Tasks not hydrated: %+v", got.Tasks)
	}
	if got.CommissionRate == nil || *got.CommissionRate != 10 {
		t.Error("Commission rate not persisted")
	}
	if got.ClientID != nil {
		t.Error("Expected no client reference")
	}
	if !got.Date.Equal(event.Date) {
		t.Errorf("Date mismatch: %v vs %v", got.Date, event.Date)
	}
}

func TestGetEventNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := GetEvent(db, uuid.New())
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil, got %+v", got)
	}
}

func TestListEventsHydratesEachEvent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	later := &models.Event{
		Name:        "Later",
		Date:        time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		CostTracker: []models.LineItem{{Name: "Lights", Quantity: 2, UnitCostSAR: 100, ClientPriceSAR: 150}},
	}
	sooner := &models.Event{
		Name:        "Sooner",
		Date:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CostTracker: []models.LineItem{{Name: "Tent", Quantity: 1, UnitCostSAR: 900, ClientPriceSAR: 1200}},
	}
	for _, e := range []*models.Event{later, sooner} {
		if err := CreateEvent(db, e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	events, err := ListEvents(db)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].Name != "Sooner" {
		t.Errorf("Expected events ordered by date, got %s first", events[0].Name)
	}
	if len(events[0].CostTracker) != 1 || events[0].CostTracker[0].Name != "Tent" {
		t.Errorf("Wrong cost tracker for Sooner: %+v", events[0].CostTracker)
	}
	if len(events[1].CostTracker) != 1 || events[1].CostTracker[0].Name != "Lights" {
		t.Errorf("Wrong cost tracker for Later: %+v", events[1].CostTracker)
	}
}

func TestUpdateEventPatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	event := &models.Event{Name: "Conference", ClientName: "acme", ClientContact: "TBD", Location: "Jeddah"}
	if err := CreateEvent(db, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	clientID := uuid.New()
	name := "Acme Corp"
	contact := "Jane"
	updated, err := UpdateEvent(db, event.ID, models.EventPatch{
		ClientName:    &name,
		ClientID:      &clientID,
		ClientContact: &contact,
	})
	if err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}
	if updated.ClientName != "Acme Corp" || updated.ClientContact != "Jane" {
		t.Errorf("Patch not applied: %+v", updated)
	}

	stored, _ := GetEvent(db, event.ID)
	if stored.ClientID == nil || *stored.ClientID != clientID {
		t.Error("Client ID not persisted")
	}
	if stored.Location != "Jeddah" || stored.Name != "Conference" {
		t.Error("Unpatched fields should be unchanged")
	}

	missing, err := UpdateEvent(db, uuid.New(), models.EventPatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateEvent on missing event failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for missing event")
	}
}

func TestUpdateEventClearsCommissionOverride(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	rate := 15.0
	event := &models.Event{Name: "Gala", CommissionRate: &rate}
	if err := CreateEvent(db, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if _, err := UpdateEvent(db, event.ID, models.EventPatch{ClearCommissionRate: true}); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}

	stored, err := GetEvent(db, event.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if stored.CommissionRate != nil {
		t.Errorf("Expected commission override removed, got %v", *stored.CommissionRate)
	}
}

func TestLineItemOperations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	event := &models.Event{Name: "Wedding", CostTracker: []models.LineItem{{Name: "Flowers", Quantity: 10, UnitCostSAR: 20}}}
	if err := CreateEvent(db, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	item := &models.LineItem{Name: "DJ", Quantity: 1, UnitCostSAR: 1500, ClientPriceSAR: 2500, CostType: models.CostTypeLabor}
	if err := AddLineItem(db, event.ID, item); err != nil {
		t.Fatalf("AddLineItem failed: %v", err)
	}

	items, _ := ListLineItems(db, event.ID)
	if len(items) != 2 || items[1].Name != "DJ" {
		t.Fatalf("Expected DJ appended last, got %+v", items)
	}

	item.ClientPriceSAR = 3000
	if err := UpdateLineItem(db, item); err != nil {
		t.Fatalf("UpdateLineItem failed: %v", err)
	}
	items, _ = ListLineItems(db, event.ID)
	if items[1].ClientPriceSAR != 3000 {
		t.Errorf("Expected updated price 3000, got %v", items[1].ClientPriceSAR)
	}

	if err := DeleteLineItem(db, item.ID); err != nil {
		t.Fatalf("DeleteLineItem failed: %v", err)
	}
	items, _ = ListLineItems(db, event.ID)
	if len(items) != 1 {
		t.Errorf("Expected 1 item after delete, got %d", len(items))
	}

	if err := AddLineItem(db, uuid.New(), &models.LineItem{Name: "Orphan"}); err == nil {
		t.Error("Expected error adding item to missing event")
	}
}

func TestTasks(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	event := &models.Event{Name: "Expo"}
	if err := CreateEvent(db, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	due := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	task := &models.Task{Title: "Book trucks", DueAt: &due}
	if err := AddTask(db, event.ID, task); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if err := SetTaskDone(db, task.ID, true); err != nil {
		t.Fatalf("SetTaskDone failed: %v", err)
	}

	tasks, err := ListTasks(db, event.ID)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 || !tasks[0].Done {
		t.Errorf("Expected one completed task, got %+v", tasks)
	}
	if tasks[0].DueAt == nil || !tasks[0].DueAt.Equal(due) {
		t.Error("Due date not persisted")
	}
}

func TestDeleteEventRemovesChildren(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	event := &models.Event{
		Name:        "Cancelled Party",
		CostTracker: []models.LineItem{{Name: "Cake"}},
		Tasks:       []models.Task{{Title: "Call baker"}},
	}
	if err := CreateEvent(db, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if err := IgnoreEvent(db, event.ID); err != nil {
		t.Fatalf("IgnoreEvent failed: %v", err)
	}

	if err := DeleteEvent(db, event.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}

	for _, table := range []string{"line_items", "event_tasks", "ignored_events"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("Expected %s to be empty, got %d rows", table, count)
		}
	}

	if err := DeleteEvent(db, event.ID); err == nil {
		t.Error("Expected error deleting missing event")
	}
}

func TestIgnoreSetPersistence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	a := &models.Event{Name: "A"}
	b := &models.Event{Name: "B"}
	for _, e := range []*models.Event{a, b} {
		if err := CreateEvent(db, e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	if err := IgnoreEvent(db, a.ID); err != nil {
		t.Fatalf("IgnoreEvent failed: %v", err)
	}
	// Ignoring twice is a no-op
	if err := IgnoreEvent(db, a.ID); err != nil {
		t.Fatalf("IgnoreEvent twice failed: %v", err)
	}

	set, err := LoadIgnoreSet(db)
	if err != nil {
		t.Fatalf("LoadIgnoreSet failed: %v", err)
	}
	if set.Len() != 1 || !set.Has(a.ID) || set.Has(b.ID) {
		t.Errorf("Unexpected ignore set: %v", set.IDs())
	}

	if err := UnignoreEvent(db, a.ID); err != nil {
		t.Fatalf("UnignoreEvent failed: %v", err)
	}
	_ = IgnoreEvent(db, b.ID)
	if err := ClearIgnoredEvents(db); err != nil {
		t.Fatalf("ClearIgnoredEvents failed: %v", err)
	}
	set, _ = LoadIgnoreSet(db)
	if set.Len() != 0 {
		t.Errorf("Expected empty ignore set, got %d", set.Len())
	}
}
