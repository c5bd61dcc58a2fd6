package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. It is idempotent so the server can run
// it unconditionally at startup.
func (db *DB) RunMigrations() error {
	migration := `
-- Fields table (column definitions)
CREATE TABLE IF NOT EXISTS fields (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    field_type INTEGER NOT NULL,
    type_option TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Rows table
CREATE TABLE IF NOT EXISTS rows (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_row_position ON rows(position);

-- Cells: one value per (row, field). The field_type records the type the
-- cell was written under, which can lag the field's current type.
CREATE TABLE IF NOT EXISTS cells (
    row_id TEXT NOT NULL,
    field_id TEXT NOT NULL,
    field_type INTEGER NOT NULL,
    data TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (row_id, field_id),
    FOREIGN KEY (row_id) REFERENCES rows(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_cell_field ON cells(field_id);

-- Per-view filter configurations
CREATE TABLE IF NOT EXISTS filters (
    id TEXT PRIMARY KEY,
    view_id TEXT NOT NULL,
    field_id TEXT NOT NULL,
    field_type INTEGER NOT NULL,
    condition INTEGER NOT NULL,
    content TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_view_filters ON filters(view_id);

-- Per-view settings
CREATE TABLE IF NOT EXISTS view_settings (
    view_id TEXT PRIMARY KEY,
    group_field_id TEXT NOT NULL DEFAULT ''
);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
