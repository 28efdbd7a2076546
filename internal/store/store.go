// Package store persists uploaded datasets and render runs in sqlite.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite handle shared by the dataset and run stores.
type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the sqlite database at path. Schema setup is
// handled separately by MigrateUp.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// modernc sqlite serialises writes; a single connection avoids
	// SQLITE_BUSY on concurrent handlers.
	db.SetMaxOpenConns(1)
	return &DB{db}, nil
}
