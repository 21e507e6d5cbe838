// ABOUTME: Tests for CLI commands
// ABOUTME: Runs commands against a temporary database and checks stored state
package cli

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/eventdesk/assist"
	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/models"
)

func setupTestCLI(t *testing.T) *sql.DB {
	tmpDB, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	_ = tmpDB.Close()
	t.Cleanup(func() { _ = os.Remove(tmpDB.Name()) })

	database, err := db.OpenDatabase(tmpDB.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func onlyEvent(t *testing.T, database *sql.DB) models.Event {
	t.Helper()
	events, err := db.ListEvents(database)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	return events[0]
}

func TestAddClientCommandRejectsDuplicate(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddClientCommand(database, []string{"--name", "Acme Events"}); err != nil {
		t.Fatalf("AddClientCommand failed: %v", err)
	}
	if err := AddClientCommand(database, []string{"--name", "  acme events "}); err == nil {
		t.Error("expected duplicate client to be rejected")
	}
	if err := ListClientsCommand(database, []string{}); err != nil {
		t.Errorf("ListClientsCommand failed: %v", err)
	}
}

func TestUpdateAndDeleteClientCommands(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddClientCommand(database, []string{"--name", "Gulf Events", "--contact", "Omar"}); err != nil {
		t.Fatal(err)
	}
	if err := AddClientCommand(database, []string{"--name", "Desert Rose"}); err != nil {
		t.Fatal(err)
	}
	if err := AddEventCommand(database, []string{"--name", "Gala", "--client", "Gulf Events"}); err != nil {
		t.Fatal(err)
	}
	clients, err := db.ListClients(database)
	if err != nil {
		t.Fatal(err)
	}
	id := clients[0].ID.String()[:8]

	if err := UpdateClientCommand(database, []string{id}); err == nil {
		t.Error("expected update without flags to fail")
	}
	if err := UpdateClientCommand(database, []string{id, "--name", "desert rose"}); err == nil {
		t.Error("expected rename onto an existing client to fail")
	}
	if err := UpdateClientCommand(database, []string{id, "--status", "Prospect"}); err == nil {
		t.Error("expected invalid status to fail")
	}
	if err := UpdateClientCommand(database, []string{id, "--name", "Red Sea Productions", "--status", models.ClientStatusActive}); err != nil {
		t.Fatalf("UpdateClientCommand failed: %v", err)
	}

	updated, err := db.GetClient(database, clients[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.CompanyName != "Red Sea Productions" || updated.ClientStatus != models.ClientStatusActive {
		t.Errorf("unexpected client after update: %+v", updated)
	}
	if updated.PrimaryContactName != "Omar" {
		t.Errorf("expected untouched contact to survive, got %q", updated.PrimaryContactName)
	}

	// The event keeps its name, so it now needs reconciling
	candidates, err := db.FindUnresolvedCandidates(database)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 || candidates[0].Event.ClientName != "Gulf Events" {
		t.Errorf("expected the renamed client's event to be unresolved, got %+v", candidates)
	}

	if err := DeleteClientCommand(database, []string{id}); err != nil {
		t.Fatalf("DeleteClientCommand failed: %v", err)
	}
	if c, _ := db.GetClient(database, clients[0].ID); c != nil {
		t.Error("expected client to be deleted")
	}
	if event := onlyEvent(t, database); event.ClientID != nil || event.ClientName != "Gulf Events" {
		t.Errorf("expected event to keep its name and drop the reference, got %+v", event)
	}
	if err := DeleteClientCommand(database, []string{}); err == nil {
		t.Error("expected delete without ID to fail")
	}
}

func TestFlagsAfterPositionalArgs(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{"--name", "Gala", "--client", "Acme"}); err != nil {
		t.Fatal(err)
	}
	id := onlyEvent(t, database).ID.String()[:8]

	if err := AddLineItemCommand(database, []string{id, "--name", "Stage", "--qty", "2", "--price", "500"}); err != nil {
		t.Fatalf("AddLineItemCommand failed: %v", err)
	}
	items := onlyEvent(t, database).CostTracker
	if len(items) != 1 || items[0].Name != "Stage" || items[0].Quantity != 2 {
		t.Errorf("expected flags after the event ID to be parsed, got %+v", items)
	}
}

func TestAddEventCommandLinksExactClient(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddClientCommand(database, []string{"--name", "Acme Events"}); err != nil {
		t.Fatal(err)
	}
	if err := AddEventCommand(database, []string{"--name", "Gala", "--client", "ACME EVENTS", "--date", "2026-11-01"}); err != nil {
		t.Fatalf("AddEventCommand failed: %v", err)
	}

	event := onlyEvent(t, database)
	if event.ClientID == nil {
		t.Error("expected event to be linked to the existing client")
	}
	if event.ClientContact != models.ContactTBD {
		t.Errorf("expected contact %q, got %q", models.ContactTBD, event.ClientContact)
	}
}

func TestAddEventCommandValidation(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{}); err == nil {
		t.Error("expected error without --name")
	}
	if err := AddEventCommand(database, []string{"--name", "Gala", "--date", "01/11/2026"}); err == nil {
		t.Error("expected error for bad date")
	}
	if err := AddEventCommand(database, []string{"--name", "Gala", "--salesperson", "Nobody"}); err == nil {
		t.Error("expected error for unknown salesperson")
	}
}

func TestLineItemsAndListing(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{"--name", "Launch"}); err != nil {
		t.Fatal(err)
	}
	prefix := onlyEvent(t, database).ID.String()[:8]

	if err := AddLineItemCommand(database, []string{prefix, "--name", "Stage", "--qty", "2", "--cost", "100", "--price", "150"}); err != nil {
		t.Fatalf("AddLineItemCommand failed: %v", err)
	}

	event := onlyEvent(t, database)
	if len(event.CostTracker) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(event.CostTracker))
	}

	if err := ListEventsCommand(database, []string{"--sort", "profit", "--desc"}); err != nil {
		t.Errorf("ListEventsCommand failed: %v", err)
	}
	if err := ListEventsCommand(database, []string{"--sort", "bogus"}); err == nil {
		t.Error("expected error for unknown sort key")
	}
	if err := ShowEventCommand(database, []string{prefix}); err != nil {
		t.Errorf("ShowEventCommand failed: %v", err)
	}

	if err := RemoveLineItemCommand(database, []string{event.CostTracker[0].ID.String()}); err != nil {
		t.Fatalf("RemoveLineItemCommand failed: %v", err)
	}
	if got := onlyEvent(t, database); len(got.CostTracker) != 0 {
		t.Errorf("expected empty cost tracker, got %d items", len(got.CostTracker))
	}
}

func TestUpdateEventCommand(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{"--name", "Launch", "--location", "Riyadh"}); err != nil {
		t.Fatal(err)
	}
	id := onlyEvent(t, database).ID.String()

	if err := UpdateEventCommand(database, []string{"--status", "Confirmed", "--guests", "0", id}); err != nil {
		t.Fatalf("UpdateEventCommand failed: %v", err)
	}
	event := onlyEvent(t, database)
	if event.Status != models.EventStatusConfirmed {
		t.Errorf("expected status Confirmed, got %s", event.Status)
	}
	if event.Location != "Riyadh" {
		t.Errorf("unset flags must not change fields, location is %q", event.Location)
	}

	if err := UpdateEventCommand(database, []string{"--status", "Done", id}); err == nil {
		t.Error("expected error for invalid status")
	}
	if err := UpdateEventCommand(database, []string{id}); err == nil {
		t.Error("expected error when nothing to update")
	}

	if err := UpdateEventCommand(database, []string{id, "--commission", "12.5"}); err != nil {
		t.Fatalf("UpdateEventCommand failed: %v", err)
	}
	if rate := onlyEvent(t, database).CommissionRate; rate == nil || *rate != 12.5 {
		t.Errorf("expected commission override 12.5, got %v", rate)
	}
	if err := UpdateEventCommand(database, []string{id, "--clear-commission"}); err != nil {
		t.Fatalf("UpdateEventCommand failed: %v", err)
	}
	if rate := onlyEvent(t, database).CommissionRate; rate != nil {
		t.Errorf("expected commission override cleared, got %v", *rate)
	}
}

func TestTaskCommands(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{"--name", "Launch"}); err != nil {
		t.Fatal(err)
	}
	id := onlyEvent(t, database).ID.String()

	if err := AddTaskCommand(database, []string{id, "--title", "Book venue", "--due", "2026-10-20"}); err != nil {
		t.Fatalf("AddTaskCommand failed: %v", err)
	}
	task := onlyEvent(t, database).Tasks[0]
	if err := CompleteTaskCommand(database, []string{task.ID.String()}); err != nil {
		t.Fatalf("CompleteTaskCommand failed: %v", err)
	}
	if !onlyEvent(t, database).Tasks[0].Done {
		t.Error("expected task to be done")
	}
}

func TestReconcileFlow(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddClientCommand(database, []string{"--name", "Acme Events"}); err != nil {
		t.Fatal(err)
	}
	if err := AddEventCommand(database, []string{"--name", "Gala", "--client", "Acme Events Co"}); err != nil {
		t.Fatal(err)
	}
	event := onlyEvent(t, database)
	if event.ClientID != nil {
		t.Fatal("event should not be linked before reconciliation")
	}

	if err := ReconcileCommand(database, []string{}); err != nil {
		t.Fatalf("ReconcileCommand failed: %v", err)
	}

	// No --client: falls back to the confident suggestion
	if err := LinkCommand(database, []string{event.ID.String()[:8]}); err != nil {
		t.Fatalf("LinkCommand failed: %v", err)
	}

	linked := onlyEvent(t, database)
	if linked.ClientName != "Acme Events" {
		t.Errorf("expected client name rewritten to Acme Events, got %q", linked.ClientName)
	}

	candidates, err := db.FindUnresolvedCandidates(database)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no unresolved events, got %d", len(candidates))
	}
}

func TestLinkCommandWithoutSuggestion(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{"--name", "Gala", "--client", "Zenith Holdings"}); err != nil {
		t.Fatal(err)
	}
	id := onlyEvent(t, database).ID.String()

	if err := LinkCommand(database, []string{id}); err == nil {
		t.Error("expected error when there is no confident suggestion")
	}
}

func TestCreateClientAndIgnoreCommands(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{"--name", "Gala", "--client", "Zenith Holdings", "--contact", "Sara"}); err != nil {
		t.Fatal(err)
	}
	if err := AddEventCommand(database, []string{"--name", "Expo", "--client", "Walk-in"}); err != nil {
		t.Fatal(err)
	}
	events, err := db.ListEvents(database)
	if err != nil {
		t.Fatal(err)
	}

	if err := CreateClientCommand(database, []string{events[0].ID.String()}); err != nil {
		t.Fatalf("CreateClientCommand failed: %v", err)
	}
	client, err := db.FindClientByName(database, "Zenith Holdings")
	if err != nil || client == nil {
		t.Fatalf("expected client to be created, err=%v", err)
	}
	if client.PrimaryContactName != "Sara" {
		t.Errorf("expected contact Sara, got %q", client.PrimaryContactName)
	}

	if err := IgnoreCommand(database, []string{events[1].ID.String()}); err != nil {
		t.Fatalf("IgnoreCommand failed: %v", err)
	}
	candidates, err := db.FindUnresolvedCandidates(database)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no unresolved events, got %d", len(candidates))
	}

	if err := UnignoreCommand(database, []string{"--all"}); err != nil {
		t.Fatalf("UnignoreCommand failed: %v", err)
	}
	candidates, err = db.FindUnresolvedCandidates(database)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 {
		t.Errorf("expected 1 unresolved event after unignore, got %d", len(candidates))
	}
}

func TestFinanceCommands(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddUserCommand(database, []string{"--name", "Omar", "--commission", "10"}); err != nil {
		t.Fatal(err)
	}
	if err := AddEventCommand(database, []string{"--name", "Gala", "--salesperson", "omar"}); err != nil {
		t.Fatal(err)
	}
	id := onlyEvent(t, database).ID.String()
	if err := AddLineItemCommand(database, []string{id, "--name", "Catering", "--qty", "100", "--cost", "50", "--price", "80"}); err != nil {
		t.Fatal(err)
	}

	for name, run := range map[string]func() error{
		"portfolio":   func() error { return PortfolioCommand(database, []string{"--by-status"}) },
		"commissions": func() error { return CommissionsCommand(database, []string{}) },
		"ledger":      func() error { return LedgerCommand(database, []string{"--unpaid"}) },
		"dashboard":   func() error { return DashboardCommand(database, []string{}) },
	} {
		if err := run(); err != nil {
			t.Errorf("%s failed: %v", name, err)
		}
	}

	if err := PayCommissionCommand(database, []string{id}); err != nil {
		t.Fatalf("PayCommissionCommand failed: %v", err)
	}
	if !onlyEvent(t, database).CommissionPaid {
		t.Error("expected commission to be marked paid")
	}
	if err := PayCommissionCommand(database, []string{"--undo", id}); err != nil {
		t.Fatal(err)
	}
	if onlyEvent(t, database).CommissionPaid {
		t.Error("expected commission to be unpaid again")
	}
}

func TestExportQuoteCommand(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{"--name", "Gala", "--client", "Acme"}); err != nil {
		t.Fatal(err)
	}
	id := onlyEvent(t, database).ID.String()
	if err := AddLineItemCommand(database, []string{id, "--name", "Stage", "--price", "1000"}); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "quote.pdf")
	if err := ExportQuoteCommand(database, []string{"--output", out, id}); err != nil {
		t.Fatalf("ExportQuoteCommand failed: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("quote not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("quote PDF is empty")
	}
}

func TestGraphCommand(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{"--name", "Gala", "--client", "Acme"}); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "events.dot")
	if err := GraphCommand(context.Background(), database, []string{"--output", out}); err != nil {
		t.Fatalf("GraphCommand failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("graph not written: %v", err)
	}
}

type fakeProvider struct {
	reply string
}

func (f *fakeProvider) GenerateResponse(_ context.Context, _, _ string) (string, error) {
	return f.reply, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func TestExtractCommandSavesItems(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{"--name", "Gala"}); err != nil {
		t.Fatal(err)
	}
	id := onlyEvent(t, database).ID.String()

	assistant := assist.New(&fakeProvider{reply: `[{"name": "Chairs", "quantity": 200, "unit_cost_sar": 5, "client_price_sar": 9, "cost_type": "rental"}]`})
	err := ExtractCommand(context.Background(), database, assistant, []string{"--brief", "200 guests, need chairs", "--save", id})
	if err != nil {
		t.Fatalf("ExtractCommand failed: %v", err)
	}

	event := onlyEvent(t, database)
	if len(event.CostTracker) != 1 || event.CostTracker[0].Name != "Chairs" {
		t.Errorf("expected Chairs line item, got %+v", event.CostTracker)
	}
}

func TestSuggestPriceCommandApply(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{"--name", "Gala"}); err != nil {
		t.Fatal(err)
	}
	id := onlyEvent(t, database).ID.String()
	if err := AddLineItemCommand(database, []string{id, "--name", "Lighting"}); err != nil {
		t.Fatal(err)
	}
	itemID := onlyEvent(t, database).CostTracker[0].ID.String()

	assistant := assist.New(&fakeProvider{reply: `{"unit_cost_sar": 400, "client_price_sar": 650, "rationale": "market rate"}`})
	if err := SuggestPriceCommand(context.Background(), database, assistant, []string{"--apply", id, itemID}); err != nil {
		t.Fatalf("SuggestPriceCommand failed: %v", err)
	}

	item := onlyEvent(t, database).CostTracker[0]
	if item.UnitCostSAR != 400 || item.ClientPriceSAR != 650 {
		t.Errorf("expected suggestion applied, got cost %v price %v", item.UnitCostSAR, item.ClientPriceSAR)
	}
}

func TestAssistCommandsWithoutProvider(t *testing.T) {
	database := setupTestCLI(t)

	if err := AddEventCommand(database, []string{"--name", "Gala"}); err != nil {
		t.Fatal(err)
	}
	id := onlyEvent(t, database).ID.String()

	if err := RiskCommand(context.Background(), database, assist.New(nil), []string{id}); err == nil {
		t.Error("expected error without a provider")
	}
}

func TestNewMCPServer(t *testing.T) {
	database := setupTestCLI(t)

	if NewMCPServer(database, assist.New(nil)) == nil {
		t.Fatal("expected server")
	}
}

func TestFinancialsCommand(t *testing.T) {
	database := setupTestCLI(t)

	if err := FinancialsCommand(database, []string{}); err == nil {
		t.Error("expected error without event ID")
	}
	if err := AddEventCommand(database, []string{"--name", "Gala"}); err != nil {
		t.Fatal(err)
	}
	if err := FinancialsCommand(database, []string{onlyEvent(t, database).ID.String()[:8]}); err != nil {
		t.Errorf("FinancialsCommand failed: %v", err)
	}
}
