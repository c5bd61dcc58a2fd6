package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// SettingsRepository implements repository.SettingsRepository for SQLite
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetGroupField returns the view's grouping field id, or "" when unset
func (r *SettingsRepository) GetGroupField(ctx context.Context, viewID string) (string, error) {
	var fieldID string
	err := r.db.QueryRowContext(ctx,
		`SELECT group_field_id FROM view_settings WHERE view_id = ?`, viewID).Scan(&fieldID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get group field: %w", err)
	}
	return fieldID, nil
}

// SetGroupField stores the view's grouping field id; "" clears grouping
func (r *SettingsRepository) SetGroupField(ctx context.Context, viewID, fieldID string) error {
	query := `
		INSERT INTO view_settings (view_id, group_field_id)
		VALUES (?, ?)
		ON CONFLICT (view_id) DO UPDATE SET group_field_id = excluded.group_field_id
	`
	if _, err := r.db.ExecContext(ctx, query, viewID, fieldID); err != nil {
		return fmt.Errorf("failed to set group field: %w", err)
	}
	return nil
}
