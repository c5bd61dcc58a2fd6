package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/tabula/internal/domain/cell"
	"github.com/rpggio/tabula/internal/domain/row"
	"github.com/rpggio/tabula/internal/repository"
)

// RowRepository implements repository.RowRepository for SQLite
type RowRepository struct {
	db *DB
}

// NewRowRepository creates a new RowRepository
func NewRowRepository(db *DB) *RowRepository {
	return &RowRepository{db: db}
}

// List returns all rows in position order, with cells populated
func (r *RowRepository) List(ctx context.Context) ([]*row.Row, error) {
	query := `
		SELECT id, position, created_at
		FROM rows
		ORDER BY position ASC, created_at ASC, id ASC
	`

	rs, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}
	defer rs.Close()

	var rows []*row.Row
	byID := make(map[string]*row.Row)
	for rs.Next() {
		var rw row.Row
		if err := rs.Scan(&rw.ID, &rw.Position, &rw.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rw.Cells = make(map[string]cell.Cell)
		rows = append(rows, &rw)
		byID[rw.ID] = &rw
	}
	if err = rs.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	cellQuery := `SELECT row_id, field_id, field_type, data FROM cells`
	cs, err := r.db.QueryContext(ctx, cellQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list cells: %w", err)
	}
	defer cs.Close()

	for cs.Next() {
		var rowID, fieldID string
		var c cell.Cell
		if err := cs.Scan(&rowID, &fieldID, &c.FieldType, &c.Raw); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		if rw, ok := byID[rowID]; ok {
			rw.Cells[fieldID] = c
		}
	}
	if err = cs.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cells: %w", err)
	}

	return rows, nil
}

// Get retrieves a row by ID, with cells populated
func (r *RowRepository) Get(ctx context.Context, rowID string) (*row.Row, error) {
	query := `
		SELECT id, position, created_at
		FROM rows
		WHERE id = ?
	`

	var rw row.Row
	err := r.db.QueryRowContext(ctx, query, rowID).Scan(&rw.ID, &rw.Position, &rw.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get row: %w", err)
	}
	rw.Cells = make(map[string]cell.Cell)

	cs, err := r.db.QueryContext(ctx, `SELECT field_id, field_type, data FROM cells WHERE row_id = ?`, rowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cells: %w", err)
	}
	defer cs.Close()

	for cs.Next() {
		var fieldID string
		var c cell.Cell
		if err := cs.Scan(&fieldID, &c.FieldType, &c.Raw); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		rw.Cells[fieldID] = c
	}
	if err = cs.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cells: %w", err)
	}

	return &rw, nil
}

// Create creates a new row and its cells, appended after the current rows
func (r *RowRepository) Create(ctx context.Context, rw *row.Row) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO rows (id, position, created_at)
		VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM rows), ?)
	`
	if _, err := tx.ExecContext(ctx, query, rw.ID, rw.CreatedAt); err != nil {
		return fmt.Errorf("failed to create row: %w", err)
	}

	for fieldID, c := range rw.Cells {
		if err := upsertCell(ctx, tx, rw.ID, fieldID, c); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateCell writes one cell of an existing row
func (r *RowRepository) UpdateCell(ctx context.Context, rowID, fieldID string, c cell.Cell) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rows WHERE id = ?)`, rowID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check row: %w", err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return upsertCell(ctx, r.db, rowID, fieldID, c)
}

// Delete removes a row; its cells go with it
func (r *RowRepository) Delete(ctx context.Context, rowID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rows WHERE id = ?`, rowID)
	if err != nil {
		return fmt.Errorf("failed to delete row: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertCell(ctx context.Context, db execer, rowID, fieldID string, c cell.Cell) error {
	query := `
		INSERT INTO cells (row_id, field_id, field_type, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (row_id, field_id) DO UPDATE SET field_type = excluded.field_type, data = excluded.data
	`
	if _, err := db.ExecContext(ctx, query, rowID, fieldID, c.FieldType, c.Raw); err != nil {
		return fmt.Errorf("failed to write cell: %w", err)
	}
	return nil
}
