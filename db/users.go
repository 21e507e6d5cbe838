// ABOUTME: User database operations
// ABOUTME: Stores staff members, their roles and default commission rates
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
)

func CreateUser(db *sql.DB, user *models.User) error {
	if !models.IsValidRole(user.Role) {
		return fmt.Errorf("invalid role: %s (valid: Admin, Sales, Operations)", user.Role)
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()

	_, err := db.Exec(`
		INSERT INTO users (id, name, email, role, commission_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID.String(), user.Name, user.Email, user.Role, user.CommissionRate, user.CreatedAt)

	return err
}

func GetUser(db *sql.DB, id uuid.UUID) (*models.User, error) {
	row := db.QueryRow(`
		SELECT id, name, email, role, commission_rate, created_at
		FROM users WHERE id = ?
	`, id.String())

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func FindUserByName(db *sql.DB, name string) (*models.User, error) {
	row := db.QueryRow(`
		SELECT id, name, email, role, commission_rate, created_at
		FROM users WHERE LOWER(name) = LOWER(?)
		LIMIT 1
	`, name)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

// ListUsers returns users in creation order.
func ListUsers(db *sql.DB) ([]models.User, error) {
	rows, err := db.Query(`
		SELECT id, name, email, role, commission_rate, created_at
		FROM users
		ORDER BY created_at ASC, rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	var rate sql.NullFloat64

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &rate, &u.CreatedAt); err != nil {
		return nil, err
	}
	if rate.Valid {
		r := rate.Float64
		u.CommissionRate = &r
	}
	return u, nil
}
