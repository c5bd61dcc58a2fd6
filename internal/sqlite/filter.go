package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/tabula/internal/domain/filter"
	"github.com/rpggio/tabula/internal/repository"
)

// FilterRepository implements repository.FilterRepository for SQLite
type FilterRepository struct {
	db *DB
}

// NewFilterRepository creates a new FilterRepository
func NewFilterRepository(db *DB) *FilterRepository {
	return &FilterRepository{db: db}
}

// ListByView returns a view's filters
func (r *FilterRepository) ListByView(ctx context.Context, viewID string) ([]*filter.Filter, error) {
	query := `
		SELECT id, field_id, field_type, condition, content
		FROM filters
		WHERE view_id = ?
		ORDER BY rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query, viewID)
	if err != nil {
		return nil, fmt.Errorf("failed to list filters: %w", err)
	}
	defer rows.Close()

	var filters []*filter.Filter
	for rows.Next() {
		var f filter.Filter
		if err := rows.Scan(&f.ID, &f.FieldID, &f.FieldType, &f.Condition, &f.Content); err != nil {
			return nil, fmt.Errorf("failed to scan filter: %w", err)
		}
		filters = append(filters, &f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating filter rows: %w", err)
	}

	return filters, nil
}

// Get retrieves a filter by ID
func (r *FilterRepository) Get(ctx context.Context, viewID, filterID string) (*filter.Filter, error) {
	query := `
		SELECT id, field_id, field_type, condition, content
		FROM filters
		WHERE view_id = ? AND id = ?
	`

	var f filter.Filter
	err := r.db.QueryRowContext(ctx, query, viewID, filterID).Scan(
		&f.ID,
		&f.FieldID,
		&f.FieldType,
		&f.Condition,
		&f.Content,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filter: %w", err)
	}

	return &f, nil
}

// Create creates a new filter
func (r *FilterRepository) Create(ctx context.Context, viewID string, f *filter.Filter) error {
	query := `
		INSERT INTO filters (id, view_id, field_id, field_type, condition, content)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		viewID,
		f.FieldID,
		f.FieldType,
		f.Condition,
		f.Content,
	)

	if err != nil {
		return fmt.Errorf("failed to create filter: %w", err)
	}

	return nil
}

// Update replaces a filter's configuration
func (r *FilterRepository) Update(ctx context.Context, viewID string, f *filter.Filter) error {
	query := `
		UPDATE filters
		SET field_id = ?, field_type = ?, condition = ?, content = ?
		WHERE view_id = ? AND id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		f.FieldID,
		f.FieldType,
		f.Condition,
		f.Content,
		viewID,
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update filter: %w", err)
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

// Delete removes a filter
func (r *FilterRepository) Delete(ctx context.Context, viewID, filterID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM filters WHERE view_id = ? AND id = ?`, viewID, filterID)
	if err != nil {
		return fmt.Errorf("failed to delete filter: %w", err)
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
