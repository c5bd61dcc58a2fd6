package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/repository"
)

// FieldRepository implements repository.FieldRepository for SQLite
type FieldRepository struct {
	db *DB
}

// NewFieldRepository creates a new FieldRepository
func NewFieldRepository(db *DB) *FieldRepository {
	return &FieldRepository{db: db}
}

// List returns all fields in position order
func (r *FieldRepository) List(ctx context.Context) ([]*field.Field, error) {
	query := `
		SELECT id, name, field_type, type_option, position, created_at
		FROM fields
		ORDER BY position ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	var fields []*field.Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating field rows: %w", err)
	}

	return fields, nil
}

// Get retrieves a field by ID
func (r *FieldRepository) Get(ctx context.Context, fieldID string) (*field.Field, error) {
	query := `
		SELECT id, name, field_type, type_option, position, created_at
		FROM fields
		WHERE id = ?
	`

	var f field.Field
	var typeOption string
	err := r.db.QueryRowContext(ctx, query, fieldID).Scan(
		&f.ID,
		&f.Name,
		&f.FieldType,
		&typeOption,
		&f.Position,
		&f.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get field: %w", err)
	}

	if typeOption != "" {
		f.TypeOptionData = json.RawMessage(typeOption)
	}
	return &f, nil
}

// Create creates a new field
func (r *FieldRepository) Create(ctx context.Context, f *field.Field) error {
	query := `
		INSERT INTO fields (id, name, field_type, type_option, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.Name,
		f.FieldType,
		string(f.TypeOptionData),
		f.Position,
		f.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}

	return nil
}

// Update replaces a field's definition
func (r *FieldRepository) Update(ctx context.Context, f *field.Field) error {
	query := `
		UPDATE fields
		SET name = ?, field_type = ?, type_option = ?, position = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		f.Name,
		f.FieldType,
		string(f.TypeOptionData),
		f.Position,
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update field: %w", err)
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

// Delete removes a field. Its cells stay behind as orphans and decode to
// empty values.
func (r *FieldRepository) Delete(ctx context.Context, fieldID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fields WHERE id = ?`, fieldID)
	if err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
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

func scanField(rows *sql.Rows) (*field.Field, error) {
	var f field.Field
	var typeOption string
	err := rows.Scan(
		&f.ID,
		&f.Name,
		&f.FieldType,
		&typeOption,
		&f.Position,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan field: %w", err)
	}
	if typeOption != "" {
		f.TypeOptionData = json.RawMessage(typeOption)
	}
	return &f, nil
}
