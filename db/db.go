// ABOUTME: Opens the event desk SQLite database and applies the schema
// ABOUTME: Connections use WAL, enforced foreign keys and a busy timeout
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMS is how long a writer waits on a lock held by another
// eventdesk process, for example the web server while the CLI runs.
const busyTimeoutMS = 5000

// dsn adds the connection options every event desk database needs. Line
// items, tasks and ignore marks cascade from their event, so foreign keys
// must be on for every connection.
func dsn(path string) string {
	return fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d", path, busyTimeoutMS)
}

// OpenDatabase opens the database at path, creating parent directories
// and the schema as needed.
func OpenDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	database, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer keeps SQLite from returning "database is locked"
	database.SetMaxOpenConns(1)

	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := InitSchema(database); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}
