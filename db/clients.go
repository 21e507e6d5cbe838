// ABOUTME: Client database operations
// ABOUTME: Handles CRUD operations and client lookups
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
)

const clientColumns = `id, company_name, primary_contact_name, email, client_status, internal_notes, address, created_at, last_modified_at`

func CreateClient(db *sql.DB, client *models.Client) error {
	client.ID = uuid.New()
	now := time.Now()
	client.CreatedAt = now
	client.LastModifiedAt = now

	if client.ClientStatus == "" {
		client.ClientStatus = models.ClientStatusLead
	}

	_, err := db.Exec(`
		INSERT INTO clients (`+clientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, client.ID.String(), client.CompanyName, client.PrimaryContactName, client.Email, client.ClientStatus,
		client.InternalNotes, client.Address, client.CreatedAt, client.LastModifiedAt)

	return err
}

func GetClient(db *sql.DB, id uuid.UUID) (*models.Client, error) {
	row := db.QueryRow(`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id.String())

	client, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return client, err
}

// FindClientByName returns the client whose company name equals name,
// ignoring case and surrounding whitespace.
func FindClientByName(db *sql.DB, name string) (*models.Client, error) {
	row := db.QueryRow(`
		SELECT `+clientColumns+`
		FROM clients WHERE LOWER(TRIM(company_name)) = LOWER(TRIM(?))
		ORDER BY created_at ASC
		LIMIT 1
	`, name)

	client, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return client, err
}

func FindClients(db *sql.DB, query string, limit int) ([]models.Client, error) {
	if limit <= 0 {
		limit = 10
	}

	searchPattern := "%" + strings.ToLower(query) + "%"
	rows, err := db.Query(`
		SELECT `+clientColumns+`
		FROM clients
		WHERE LOWER(company_name) LIKE ? OR LOWER(primary_contact_name) LIKE ? OR LOWER(email) LIKE ?
		ORDER BY created_at ASC
		LIMIT ?
	`, searchPattern, searchPattern, searchPattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectClients(rows)
}

// ListClients returns every client in creation order, which is the order
// the matcher uses to break score ties.
func ListClients(db *sql.DB) ([]models.Client, error) {
	rows, err := db.Query(`SELECT ` + clientColumns + ` FROM clients ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectClients(rows)
}

func UpdateClient(db *sql.DB, id uuid.UUID, updates *models.Client) error {
	updates.LastModifiedAt = time.Now()

	result, err := db.Exec(`
		UPDATE clients
		SET company_name = ?, primary_contact_name = ?, email = ?, client_status = ?, internal_notes = ?, address = ?, last_modified_at = ?
		WHERE id = ?
	`, updates.CompanyName, updates.PrimaryContactName, updates.Email, updates.ClientStatus,
		updates.InternalNotes, updates.Address, updates.LastModifiedAt, id.String())
	if err != nil {
		return err
	}

	return expectOneRow(result, "client", id)
}

func DeleteClient(db *sql.DB, id uuid.UUID) error {
	// Events keep their free-text client name; only the weak reference is cleared
	_, err := db.Exec(`UPDATE events SET client_id = NULL WHERE client_id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to update events: %w", err)
	}

	result, err := db.Exec(`DELETE FROM clients WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return expectOneRow(result, "client", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(row scanner) (*models.Client, error) {
	c := &models.Client{}
	err := row.Scan(
		&c.ID,
		&c.CompanyName,
		&c.PrimaryContactName,
		&c.Email,
		&c.ClientStatus,
		&c.InternalNotes,
		&c.Address,
		&c.CreatedAt,
		&c.LastModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func collectClients(rows *sql.Rows) ([]models.Client, error) {
	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

func expectOneRow(result sql.Result, entity string, id uuid.UUID) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
