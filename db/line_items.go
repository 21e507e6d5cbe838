// ABOUTME: Cost tracker line item operations
// ABOUTME: Line items are stored in display order via a position column
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
)

const lineItemColumns = `id, event_id, name, quantity, unit_cost_sar, client_price_sar, cost_type, description`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertLineItem(x execer, item *models.LineItem, position int) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	_, err := x.Exec(`
		INSERT INTO line_items (id, event_id, position, name, quantity, unit_cost_sar, client_price_sar, cost_type, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID.String(), item.EventID.String(), position, item.Name, item.Quantity, item.UnitCostSAR,
		item.ClientPriceSAR, item.CostType, item.Description)
	if err != nil {
		return fmt.Errorf("failed to insert line item: %w", err)
	}
	return nil
}

// AddLineItem appends item to the end of the event's cost tracker.
func AddLineItem(db *sql.DB, eventID uuid.UUID, item *models.LineItem) error {
	var exists int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events WHERE id = ?`, eventID.String()).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}

	var next int
	err := db.QueryRow(`SELECT COALESCE(MAX(position) + 1, 0) FROM line_items WHERE event_id = ?`, eventID.String()).Scan(&next)
	if err != nil {
		return err
	}

	item.ID = uuid.New()
	item.EventID = eventID
	if err := insertLineItem(db, item, next); err != nil {
		return err
	}

	return touchEvent(db, eventID)
}

func UpdateLineItem(db *sql.DB, item *models.LineItem) error {
	result, err := db.Exec(`
		UPDATE line_items
		SET name = ?, quantity = ?, unit_cost_sar = ?, client_price_sar = ?, cost_type = ?, description = ?
		WHERE id = ?
	`, item.Name, item.Quantity, item.UnitCostSAR, item.ClientPriceSAR, item.CostType, item.Description, item.ID.String())
	if err != nil {
		return err
	}
	if err := expectOneRow(result, "line item", item.ID); err != nil {
		return err
	}

	return touchEvent(db, item.EventID)
}

func DeleteLineItem(db *sql.DB, id uuid.UUID) error {
	result, err := db.Exec(`DELETE FROM line_items WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return expectOneRow(result, "line item", id)
}

func ListLineItems(db *sql.DB, eventID uuid.UUID) ([]models.LineItem, error) {
	rows, err := db.Query(`
		SELECT `+lineItemColumns+`
		FROM line_items WHERE event_id = ?
		ORDER BY position ASC, rowid ASC
	`, eventID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func lineItemsByEvent(db *sql.DB) (map[uuid.UUID][]models.LineItem, error) {
	rows, err := db.Query(`SELECT ` + lineItemColumns + ` FROM line_items ORDER BY event_id, position ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byEvent := make(map[uuid.UUID][]models.LineItem)
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		byEvent[item.EventID] = append(byEvent[item.EventID], *item)
	}
	return byEvent, rows.Err()
}

func scanLineItem(row scanner) (*models.LineItem, error) {
	item := &models.LineItem{}
	err := row.Scan(
		&item.ID,
		&item.EventID,
		&item.Name,
		&item.Quantity,
		&item.UnitCostSAR,
		&item.ClientPriceSAR,
		&item.CostType,
		&item.Description,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func touchEvent(x execer, eventID uuid.UUID) error {
	_, err := x.Exec(`UPDATE events SET updated_at = ? WHERE id = ?`, time.Now(), eventID.String())
	return err
}
