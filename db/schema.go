// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	primary_contact_name TEXT,
	email TEXT,
	client_status TEXT NOT NULL DEFAULT 'Lead' CHECK(client_status IN ('Lead', 'Active', 'Inactive')),
	internal_notes TEXT,
	address TEXT,
	created_at DATETIME NOT NULL,
	last_modified_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clients_company_name ON clients(company_name);

CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT,
	role TEXT NOT NULL CHECK(role IN ('Admin', 'Sales', 'Operations')),
	commission_rate REAL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	client_name TEXT NOT NULL DEFAULT '',
	client_id TEXT,
	client_contact TEXT,
	event_date DATETIME,
	location TEXT,
	guest_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'Planning',
	payment_status TEXT NOT NULL DEFAULT 'Unpaid',
	event_type TEXT,
	salesperson_id TEXT,
	commission_rate REAL,
	commission_paid INTEGER NOT NULL DEFAULT 0,
	notes TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (salesperson_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);
CREATE INDEX IF NOT EXISTS idx_events_salesperson ON events(salesperson_id);
CREATE INDEX IF NOT EXISTS idx_events_date ON events(event_date);

CREATE TABLE IF NOT EXISTS line_items (
	id TEXT PRIMARY KEY,
	event_id TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	name TEXT NOT NULL,
	quantity REAL NOT NULL DEFAULT 0,
	unit_cost_sar REAL NOT NULL DEFAULT 0,
	client_price_sar REAL NOT NULL DEFAULT 0,
	cost_type TEXT,
	description TEXT,
	FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_line_items_event ON line_items(event_id, position);

CREATE TABLE IF NOT EXISTS event_tasks (
	id TEXT PRIMARY KEY,
	event_id TEXT NOT NULL,
	title TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0,
	due_at DATETIME,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_event_tasks_event ON event_tasks(event_id);

CREATE TABLE IF NOT EXISTS ignored_events (
	event_id TEXT PRIMARY KEY,
	ignored_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
