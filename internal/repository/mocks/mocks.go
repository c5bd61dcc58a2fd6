package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rpggio/tabula/internal/domain/cell"
	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/filter"
	"github.com/rpggio/tabula/internal/domain/row"
)

// FieldRepository is a mock for repository.FieldRepository.
type FieldRepository struct {
	mock.Mock
}

func (m *FieldRepository) List(ctx context.Context) ([]*field.Field, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]*field.Field); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FieldRepository) Get(ctx context.Context, fieldID string) (*field.Field, error) {
	args := m.Called(ctx, fieldID)
	if f, ok := args.Get(0).(*field.Field); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FieldRepository) Create(ctx context.Context, f *field.Field) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *FieldRepository) Update(ctx context.Context, f *field.Field) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *FieldRepository) Delete(ctx context.Context, fieldID string) error {
	args := m.Called(ctx, fieldID)
	return args.Error(0)
}

// RowRepository is a mock for repository.RowRepository.
type RowRepository struct {
	mock.Mock
}

func (m *RowRepository) List(ctx context.Context) ([]*row.Row, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]*row.Row); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RowRepository) Get(ctx context.Context, rowID string) (*row.Row, error) {
	args := m.Called(ctx, rowID)
	if r, ok := args.Get(0).(*row.Row); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RowRepository) Create(ctx context.Context, r *row.Row) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *RowRepository) UpdateCell(ctx context.Context, rowID, fieldID string, c cell.Cell) error {
	args := m.Called(ctx, rowID, fieldID, c)
	return args.Error(0)
}

func (m *RowRepository) Delete(ctx context.Context, rowID string) error {
	args := m.Called(ctx, rowID)
	return args.Error(0)
}

// FilterRepository is a mock for repository.FilterRepository.
type FilterRepository struct {
	mock.Mock
}

func (m *FilterRepository) ListByView(ctx context.Context, viewID string) ([]*filter.Filter, error) {
	args := m.Called(ctx, viewID)
	if list, ok := args.Get(0).([]*filter.Filter); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FilterRepository) Get(ctx context.Context, viewID, filterID string) (*filter.Filter, error) {
	args := m.Called(ctx, viewID, filterID)
	if f, ok := args.Get(0).(*filter.Filter); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FilterRepository) Create(ctx context.Context, viewID string, f *filter.Filter) error {
	args := m.Called(ctx, viewID, f)
	return args.Error(0)
}

func (m *FilterRepository) Update(ctx context.Context, viewID string, f *filter.Filter) error {
	args := m.Called(ctx, viewID, f)
	return args.Error(0)
}

func (m *FilterRepository) Delete(ctx context.Context, viewID, filterID string) error {
	args := m.Called(ctx, viewID, filterID)
	return args.Error(0)
}

// SettingsRepository is a mock for repository.SettingsRepository.
type SettingsRepository struct {
	mock.Mock
}

func (m *SettingsRepository) GetGroupField(ctx context.Context, viewID string) (string, error) {
	args := m.Called(ctx, viewID)
	return args.String(0), args.Error(1)
}

func (m *SettingsRepository) SetGroupField(ctx context.Context, viewID, fieldID string) error {
	args := m.Called(ctx, viewID, fieldID)
	return args.Error(0)
}
