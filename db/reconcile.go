// ABOUTME: Stored-data entry points for client reconciliation
// ABOUTME: Loads events, clients and the ignore set, and persists resolution actions
package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
	"github.com/harperreed/eventdesk/reconcile"
)

// FindUnresolvedCandidates runs a reconciliation pass over everything stored.
func FindUnresolvedCandidates(db *sql.DB) ([]models.MatchCandidate, error) {
	events, err := ListEvents(db)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	clients, err := ListClients(db)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	ignored, err := LoadIgnoreSet(db)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignored events: %w", err)
	}

	return reconcile.FindUnresolved(events, clients, ignored), nil
}

// LinkedClient returns the client whose company name matches the event's
// client name. The stored client reference is not consulted since it may be
// stale after a rename.
func LinkedClient(db *sql.DB, event models.Event) (*models.Client, error) {
	clients, err := ListClients(db)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return reconcile.FindLinkedClient(event, clients), nil
}

// LinkEventToClient rewrites the event's client name to the client's and
// records the client reference.
func LinkEventToClient(db *sql.DB, eventID, clientID uuid.UUID) (*models.Event, error) {
	event, err := GetEvent(db, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event not found: %s", eventID)
	}

	client, err := GetClient(db, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("client not found: %s", clientID)
	}

	patch, err := reconcile.LinkToExisting(*event, client)
	if err != nil {
		return nil, err
	}
	patch.ClientID = &client.ID

	return UpdateEvent(db, eventID, patch)
}

// CreateClientForEvent creates a client from the event's client fields and
// links the event to it.
func CreateClientForEvent(db *sql.DB, eventID uuid.UUID) (*models.Client, *models.Event, error) {
	event, err := GetEvent(db, eventID)
	if err != nil {
		return nil, nil, err
	}
	if event == nil {
		return nil, nil, fmt.Errorf("event not found: %s", eventID)
	}

	client, err := reconcile.CreateFromEvent(*event)
	if err != nil {
		return nil, nil, err
	}
	if err := CreateClient(db, &client); err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	updated, err := UpdateEvent(db, eventID, models.EventPatch{
		ClientName: &client.CompanyName,
		ClientID:   &client.ID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to link event: %w", err)
	}

	return &client, updated, nil
}
