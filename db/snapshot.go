// ABOUTME: Whole-dataset loader for views that summarise everything
// ABOUTME: Reads users, clients, events and the ignore set in one call
package db

import (
	"database/sql"
	"fmt"

	"github.com/harperreed/eventdesk/models"
	"github.com/harperreed/eventdesk/reconcile"
)

type Snapshot struct {
	Users   []models.User
	Clients []models.Client
	Events  []models.Event
	Ignored reconcile.IgnoreSet
}

func LoadSnapshot(db *sql.DB) (*Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Events, err = ListEvents(db); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if snap.Clients, err = ListClients(db); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if snap.Users, err = ListUsers(db); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if snap.Ignored, err = LoadIgnoreSet(db); err != nil {
		return nil, fmt.Errorf("failed to load ignored events: %w", err)
	}

	return &snap, nil
}
