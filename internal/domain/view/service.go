// Package view ties the storage layer to the filter and group controllers and
// exposes the operations the outer surfaces call: read the visible rows, edit
// cells, manage filters, and work the board.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/tabula/internal/domain/cell"
	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/filter"
	"github.com/rpggio/tabula/internal/domain/group"
	"github.com/rpggio/tabula/internal/domain/row"
	"github.com/rpggio/tabula/internal/notify"
	"github.com/rpggio/tabula/internal/repository"
	"github.com/rpggio/tabula/internal/scheduler"
)

// Deps bundles the shared collaborators a view is built from.
type Deps struct {
	Fields    repository.FieldRepository
	Rows      repository.RowRepository
	Filters   repository.FilterRepository
	Settings  repository.SettingsRepository
	Registry  *cell.Registry
	CellCache *cell.DataCache
	Notifier  notify.Notifier
	Scheduler *scheduler.Scheduler
	Logger    *slog.Logger
}

// View is one open projection of the database. It implements the controllers'
// delegates, so all their reads flow through the same repositories.
type View struct {
	id   string
	deps Deps

	filterController *filter.Controller
	groupController  *group.Controller
}

// Open builds a view's controllers from persisted state. The group controller
// only exists while the view has a grouping field.
func Open(ctx context.Context, viewID string, deps Deps) (*View, error) {
	v := &View{id: viewID, deps: deps}

	fc, err := filter.NewController(ctx, viewID, v, deps.Scheduler, deps.Notifier,
		deps.Registry, deps.CellCache, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("open view %s: %w", viewID, err)
	}
	v.filterController = fc

	gc, err := group.NewController(ctx, viewID, v, deps.Scheduler, deps.Notifier,
		deps.Registry, deps.CellCache, deps.Logger)
	switch {
	case err == nil:
		v.groupController = gc
	case errors.Is(err, group.ErrNoGroupingField):
		// Grid-only view.
	default:
		fc.Close()
		return nil, fmt.Errorf("open view %s: %w", viewID, err)
	}
	return v, nil
}

// ID returns the view id.
func (v *View) ID() string { return v.id }

// Close unregisters the view's controllers.
func (v *View) Close() {
	v.filterController.Close()
	if v.groupController != nil {
		v.groupController.Close()
	}
}

// GetFilters implements filter.Delegate.
func (v *View) GetFilters(ctx context.Context, viewID string) ([]*filter.Filter, error) {
	return v.deps.Filters.ListByView(ctx, viewID)
}

// GetField implements the controllers' delegates: a missing field is nil, not
// an error, so stale filter and group references degrade instead of failing.
func (v *View) GetField(ctx context.Context, fieldID string) (*field.Field, error) {
	f, err := v.deps.Fields.Get(ctx, fieldID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return f, err
}

// GetRows implements the controllers' delegates.
func (v *View) GetRows(ctx context.Context, viewID string) ([]*row.Row, error) {
	return v.deps.Rows.List(ctx)
}

// GetRow implements the controllers' delegates.
func (v *View) GetRow(ctx context.Context, viewID, rowID string) (int, *row.Row, error) {
	rows, err := v.deps.Rows.List(ctx)
	if err != nil {
		return 0, nil, err
	}
	for i, r := range rows {
		if r.ID == rowID {
			return i, r, nil
		}
	}
	return 0, nil, nil
}

// GetGroupField implements group.Delegate.
func (v *View) GetGroupField(ctx context.Context, viewID string) (*field.Field, error) {
	fieldID, err := v.deps.Settings.GetGroupField(ctx, viewID)
	if err != nil || fieldID == "" {
		return nil, err
	}
	return v.GetField(ctx, fieldID)
}

// VisibleRows returns the rows that pass the view's filters, in position
// order.
func (v *View) VisibleRows(ctx context.Context) ([]*row.Row, error) {
	rows, err := v.deps.Rows.List(ctx)
	if err != nil {
		return nil, err
	}
	return v.filterController.FilterRows(ctx, rows)
}

// Groups returns the board projection, or ErrNotGrouped.
func (v *View) Groups() ([]*group.GroupData, error) {
	if v.groupController == nil {
		return nil, ErrNotGrouped
	}
	return v.groupController.Groups(), nil
}

// UpdateCell runs an edit payload through the field's cell strategy, persists
// the result, and feeds both controllers.
func (v *View) UpdateCell(ctx context.Context, rowID, fieldID, changeset string) (*row.Row, error) {
	f, err := v.GetField(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("update cell: %w", ErrFieldNotFound)
	}
	r, err := v.deps.Rows.Get(ctx, rowID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("update cell: %w", ErrRowNotFound)
	}
	if err != nil {
		return nil, err
	}

	newCell, _, err := cell.ApplyChangeset(v.deps.Registry, changeset, r.Cell(fieldID), f)
	if err != nil {
		return nil, fmt.Errorf("update cell %s/%s: %w", rowID, fieldID, err)
	}
	if err := v.deps.Rows.UpdateCell(ctx, rowID, fieldID, newCell); err != nil {
		return nil, err
	}
	r.SetCell(fieldID, newCell)

	v.filterController.OnRowChanged(rowID)
	if v.groupController != nil {
		v.groupController.OnCellChanged(r)
	}
	return r, nil
}

// CreateRow creates an empty row, stamped with the target group's cell value
// when groupID names a board group.
func (v *View) CreateRow(ctx context.Context, groupID string) (*row.Row, error) {
	r := row.New()
	if groupID != "" && v.groupController != nil {
		v.groupController.WillCreateRow(r, groupID)
	}
	if err := v.deps.Rows.Create(ctx, r); err != nil {
		return nil, err
	}
	if v.groupController != nil {
		v.groupController.DidCreateRow(r)
	}
	v.filterController.OnRowChanged(r.ID)
	return r, nil
}

// DeleteRow removes a row and retires it from both projections.
func (v *View) DeleteRow(ctx context.Context, rowID string) error {
	if err := v.deps.Rows.Delete(ctx, rowID); err != nil {
		return err
	}
	v.filterController.OnRowDeleted(rowID)
	if v.groupController != nil {
		v.groupController.OnRowDeleted(rowID)
	}
	return nil
}

// MoveGroupRow moves a row between board groups and persists the cell value
// the move implies, if any.
func (v *View) MoveGroupRow(ctx context.Context, fromGroupID, toGroupID, rowID string, toIndex int) error {
	if v.groupController == nil {
		return ErrNotGrouped
	}
	newCell, changed, err := v.groupController.MoveGroupRow(ctx, fromGroupID, toGroupID, rowID, toIndex)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	fieldID, err := v.deps.Settings.GetGroupField(ctx, v.id)
	if err != nil {
		return err
	}
	if err := v.deps.Rows.UpdateCell(ctx, rowID, fieldID, newCell); err != nil {
		return err
	}
	v.filterController.OnRowChanged(rowID)
	return nil
}

// CreateFilter persists a new filter and applies it to the projection.
func (v *View) CreateFilter(ctx context.Context, f *filter.Filter) error {
	if err := v.deps.Filters.Create(ctx, v.id, f); err != nil {
		return err
	}
	return v.filterController.ApplyChangeset(ctx, filter.NewInsertChangeset(f))
}

// UpdateFilter persists a filter change and applies it.
func (v *View) UpdateFilter(ctx context.Context, f *filter.Filter) error {
	if err := v.deps.Filters.Update(ctx, v.id, f); err != nil {
		return err
	}
	return v.filterController.ApplyChangeset(ctx, filter.NewUpdateChangeset(f))
}

// DeleteFilter removes a filter and restores the rows it was hiding.
func (v *View) DeleteFilter(ctx context.Context, filterID string) error {
	if err := v.deps.Filters.Delete(ctx, v.id, filterID); err != nil {
		return err
	}
	return v.filterController.ApplyChangeset(ctx, filter.NewDeleteChangeset(filterID))
}

// SetGroupField regroups the view around a new field, or clears grouping when
// fieldID is empty.
func (v *View) SetGroupField(ctx context.Context, fieldID string) error {
	if fieldID != "" {
		f, err := v.GetField(ctx, fieldID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("set group field: %w", ErrFieldNotFound)
		}
		if !f.FieldType.Groupable() {
			return fmt.Errorf("set group field %s (%s): %w", fieldID, f.FieldType, group.ErrNotGroupable)
		}
	}
	if err := v.deps.Settings.SetGroupField(ctx, v.id, fieldID); err != nil {
		return err
	}

	if v.groupController != nil {
		v.groupController.Close()
		v.groupController = nil
	}
	if fieldID == "" {
		return nil
	}
	gc, err := group.NewController(ctx, v.id, v, v.deps.Scheduler, v.deps.Notifier,
		v.deps.Registry, v.deps.CellCache, v.deps.Logger)
	if err != nil {
		return fmt.Errorf("set group field: %w", err)
	}
	v.groupController = gc
	return nil
}

// UpdateField persists a field change and invalidates everything derived from
// it. Retyping a field can flip filter verdicts and dissolve the board.
func (v *View) UpdateField(ctx context.Context, f *field.Field) error {
	if err := v.deps.Fields.Update(ctx, f); err != nil {
		return err
	}
	v.filterController.OnFieldChanged(f.ID)
	if v.groupController != nil {
		v.groupController.OnFieldChanged(f.ID)
	}
	return nil
}
