// Package repository defines the persistence interfaces the view engine
// depends on. Implementations live in internal/sqlite; tests use the mocks
// package.
package repository

import (
	"context"

	"github.com/rpggio/tabula/internal/domain/cell"
	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/filter"
	"github.com/rpggio/tabula/internal/domain/row"
)

// FieldRepository manages the database's column definitions.
type FieldRepository interface {
	List(ctx context.Context) ([]*field.Field, error)
	Get(ctx context.Context, fieldID string) (*field.Field, error)
	Create(ctx context.Context, f *field.Field) error
	Update(ctx context.Context, f *field.Field) error
	Delete(ctx context.Context, fieldID string) error
}

// RowRepository manages rows and their cells. List returns rows in position
// order with cells populated.
type RowRepository interface {
	List(ctx context.Context) ([]*row.Row, error)
	Get(ctx context.Context, rowID string) (*row.Row, error)
	Create(ctx context.Context, r *row.Row) error
	UpdateCell(ctx context.Context, rowID, fieldID string, c cell.Cell) error
	Delete(ctx context.Context, rowID string) error
}

// FilterRepository manages per-view filter configurations.
type FilterRepository interface {
	ListByView(ctx context.Context, viewID string) ([]*filter.Filter, error)
	Get(ctx context.Context, viewID, filterID string) (*filter.Filter, error)
	Create(ctx context.Context, viewID string, f *filter.Filter) error
	Update(ctx context.Context, viewID string, f *filter.Filter) error
	Delete(ctx context.Context, viewID, filterID string) error
}

// SettingsRepository manages per-view settings. GetGroupField returns an
// empty id when the view has no grouping configured.
type SettingsRepository interface {
	GetGroupField(ctx context.Context, viewID string) (string, error)
	SetGroupField(ctx context.Context, viewID, fieldID string) error
}
