// ABOUTME: Event task checklist operations
// ABOUTME: Adds, completes and lists the operations tasks attached to an event
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
)

func insertTask(x execer, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	_, err := x.Exec(`
		INSERT INTO event_tasks (id, event_id, title, done, due_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, task.ID.String(), task.EventID.String(), task.Title, task.Done, task.DueAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func AddTask(db *sql.DB, eventID uuid.UUID, task *models.Task) error {
	var exists int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events WHERE id = ?`, eventID.String()).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}

	task.ID = uuid.New()
	task.EventID = eventID
	return insertTask(db, task)
}

// SetTaskDone marks a task done or reopens it.
func SetTaskDone(db *sql.DB, id uuid.UUID, done bool) error {
	result, err := db.Exec(`UPDATE event_tasks SET done = ? WHERE id = ?`, done, id.String())
	if err != nil {
		return err
	}
	return expectOneRow(result, "task", id)
}

func ListTasks(db *sql.DB, eventID uuid.UUID) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT id, event_id, title, done, due_at
		FROM event_tasks WHERE event_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, eventID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func tasksByEvent(db *sql.DB) (map[uuid.UUID][]models.Task, error) {
	rows, err := db.Query(`SELECT id, event_id, title, done, due_at FROM event_tasks ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byEvent := make(map[uuid.UUID][]models.Task)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		byEvent[t.EventID] = append(byEvent[t.EventID], *t)
	}
	return byEvent, rows.Err()
}

func scanTask(row scanner) (*models.Task, error) {
	t := &models.Task{}
	var due sql.NullTime
	if err := row.Scan(&t.ID, &t.EventID, &t.Title, &t.Done, &due); err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time
		t.DueAt = &d
	}
	return t, nil
}
