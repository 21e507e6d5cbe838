// ABOUTME: Event database operations
// ABOUTME: Handles event lifecycle, patch updates and cost tracker hydration
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
)

const eventColumns = `id, name, client_name, client_id, client_contact, event_date, location, guest_count, status, payment_status, event_type, salesperson_id, commission_rate, commission_paid, notes, created_at, updated_at`

// CreateEvent inserts the event together with its cost tracker and tasks.
func CreateEvent(db *sql.DB, event *models.Event) error {
	event.ID = uuid.New()
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if event.Status == "" {
		event.Status = models.EventStatusPlanning
	}
	if event.PaymentStatus == "" {
		event.PaymentStatus = models.PaymentUnpaid
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, event.ID.String(), event.Name, event.ClientName, uuidPtr(event.ClientID), event.ClientContact,
		nullTime(event.Date), event.Location, event.GuestCount, event.Status, event.PaymentStatus,
		event.EventType, uuidPtr(event.SalespersonID), event.CommissionRate, event.CommissionPaid,
		event.Notes, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range event.CostTracker {
		event.CostTracker[i].EventID = event.ID
		if err := insertLineItem(tx, &event.CostTracker[i], i); err != nil {
			return err
		}
	}

	for i := range event.Tasks {
		event.Tasks[i].EventID = event.ID
		if err := insertTask(tx, &event.Tasks[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func GetEvent(db *sql.DB, id uuid.UUID) (*models.Event, error) {
	row := db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = ?`, id.String())

	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if event.CostTracker, err = ListLineItems(db, event.ID); err != nil {
		return nil, err
	}
	if event.Tasks, err = ListTasks(db, event.ID); err != nil {
		return nil, err
	}

	return event, nil
}

// ListEvents returns all events by date, with cost trackers and tasks loaded.
func ListEvents(db *sql.DB) ([]models.Event, error) {
	rows, err := db.Query(`SELECT ` + eventColumns + ` FROM events ORDER BY event_date ASC, created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Single connection pool: hydrate after the event cursor is closed
	items, err := lineItemsByEvent(db)
	if err != nil {
		return nil, err
	}
	tasks, err := tasksByEvent(db)
	if err != nil {
		return nil, err
	}

	for i := range events {
		events[i].CostTracker = items[events[i].ID]
		events[i].Tasks = tasks[events[i].ID]
	}

	return events, nil
}

// UpdateEvent applies patch to the stored event and returns the result.
func UpdateEvent(db *sql.DB, id uuid.UUID, patch models.EventPatch) (*models.Event, error) {
	current, err := GetEvent(db, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated := patch.Apply(*current)
	updated.UpdatedAt = time.Now()

	_, err = db.Exec(`
		UPDATE events
		SET name = ?, client_name = ?, client_id = ?, client_contact = ?, event_date = ?, location = ?,
			guest_count = ?, status = ?, payment_status = ?, event_type = ?, salesperson_id = ?,
			commission_rate = ?, commission_paid = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, updated.Name, updated.ClientName, uuidPtr(updated.ClientID), updated.ClientContact, nullTime(updated.Date),
		updated.Location, updated.GuestCount, updated.Status, updated.PaymentStatus, updated.EventType,
		uuidPtr(updated.SalespersonID), updated.CommissionRate, updated.CommissionPaid, updated.Notes,
		updated.UpdatedAt, id.String())
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func DeleteEvent(db *sql.DB, id uuid.UUID) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM line_items WHERE event_id = ?`,
		`DELETE FROM event_tasks WHERE event_id = ?`,
		`DELETE FROM ignored_events WHERE event_id = ?`,
	} {
		if _, err := tx.Exec(stmt, id.String()); err != nil {
			return err
		}
	}

	result, err := tx.Exec(`DELETE FROM events WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	if err := expectOneRow(result, "event", id); err != nil {
		return err
	}

	return tx.Commit()
}

func scanEvent(row scanner) (*models.Event, error) {
	e := &models.Event{}
	var clientID, salespersonID sql.NullString
	var date sql.NullTime
	var rate sql.NullFloat64

	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.ClientName,
		&clientID,
		&e.ClientContact,
		&date,
		&e.Location,
		&e.GuestCount,
		&e.Status,
		&e.PaymentStatus,
		&e.EventType,
		&salespersonID,
		&rate,
		&e.CommissionPaid,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.ClientID = parseNullUUID(clientID)
	e.SalespersonID = parseNullUUID(salespersonID)
	if date.Valid {
		e.Date = date.Time
	}
	if rate.Valid {
		r := rate.Float64
		e.CommissionRate = &r
	}

	return e, nil
}

func uuidPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func parseNullUUID(s sql.NullString) *uuid.UUID {
	if !s.Valid {
		return nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil
	}
	return &id
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
