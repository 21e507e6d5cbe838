// ABOUTME: Tests for database schema creation
// ABOUTME: Uses in-memory SQLite for fast isolated tests
package db

import (
	"testing"
)

func TestInitSchema(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	tables := []string{"clients", "users", "events", "line_items", "event_tasks", "ignored_events"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	indexes := []string{
		"idx_clients_company_name",
		"idx_events_status",
		"idx_events_salesperson",
		"idx_events_date",
		"idx_line_items_event",
		"idx_event_tasks_event",
	}
	for _, idx := range indexes {
		var indexName string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&indexName)
		if err != nil {
			t.Errorf("Index %s not found: %v", idx, err)
		}
	}
}

func TestClientStatusConstraint(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.Exec(`INSERT INTO clients (id, company_name, client_status, created_at, last_modified_at)
		VALUES ('x', 'Bad', 'Prospect', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Error("Expected CHECK constraint to reject unknown client status")
	}
}
