// ABOUTME: Persistence for events dismissed from client reconciliation
// ABOUTME: Stores the ignore set so dismissals survive restarts
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/reconcile"
)

// IgnoreEvent records the event as dismissed. Ignoring twice is a no-op.
func IgnoreEvent(db *sql.DB, eventID uuid.UUID) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO ignored_events (event_id, ignored_at) VALUES (?, ?)`,
		eventID.String(), time.Now())
	return err
}

// UnignoreEvent puts the event back in the reconciliation queue.
func UnignoreEvent(db *sql.DB, eventID uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM ignored_events WHERE event_id = ?`, eventID.String())
	return err
}

func LoadIgnoreSet(db *sql.DB) (reconcile.IgnoreSet, error) {
	rows, err := db.Query(`SELECT event_id FROM ignored_events`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := reconcile.NewIgnoreSet()
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set.Add(id)
	}
	return set, rows.Err()
}

func ClearIgnoredEvents(db *sql.DB) error {
	_, err := db.Exec(`DELETE FROM ignored_events`)
	return err
}
