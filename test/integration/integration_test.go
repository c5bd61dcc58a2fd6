package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/tabula/internal/domain/cell"
	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/filter"
	"github.com/rpggio/tabula/internal/domain/view"
	"github.com/rpggio/tabula/internal/notify"
	"github.com/rpggio/tabula/internal/scheduler"
	"github.com/rpggio/tabula/internal/sqlite"
)

type testEnv struct {
	db           *sqlite.DB
	fieldRepo    *sqlite.FieldRepository
	rowRepo      *sqlite.RowRepository
	filterRepo   *sqlite.FilterRepository
	settingsRepo *sqlite.SettingsRepository

	manager *view.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	fieldRepo := sqlite.NewFieldRepository(db)
	rowRepo := sqlite.NewRowRepository(db)
	filterRepo := sqlite.NewFilterRepository(db)
	settingsRepo := sqlite.NewSettingsRepository(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// The scheduler stays unstarted: everything these workflows assert on is
	// computed synchronously, and queued recompute tasks are never drained.
	manager := view.NewManager(view.Deps{
		Fields:    fieldRepo,
		Rows:      rowRepo,
		Filters:   filterRepo,
		Settings:  settingsRepo,
		Registry:  cell.NewRegistry(),
		CellCache: cell.NewDataCache(),
		Notifier:  notify.NewLogSink(logger),
		Scheduler: scheduler.New(logger),
		Logger:    logger,
	})
	t.Cleanup(manager.Close)

	return &testEnv{
		db:           db,
		fieldRepo:    fieldRepo,
		rowRepo:      rowRepo,
		filterRepo:   filterRepo,
		settingsRepo: settingsRepo,
		manager:      manager,
	}
}

func TestIntegration_FilterWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	title := field.New("Title", field.RichText)
	require.NoError(t, env.fieldRepo.Create(ctx, title))
	price := field.New("Price", field.Number)
	require.NoError(t, env.fieldRepo.Create(ctx, price))

	v, err := env.manager.View(ctx, "grid")
	require.NoError(t, err)

	cheap, err := v.CreateRow(ctx, "")
	require.NoError(t, err)
	_, err = v.UpdateCell(ctx, cheap.ID, title.ID, "pencil")
	require.NoError(t, err)
	_, err = v.UpdateCell(ctx, cheap.ID, price.ID, "2")
	require.NoError(t, err)

	dear, err := v.CreateRow(ctx, "")
	require.NoError(t, err)
	_, err = v.UpdateCell(ctx, dear.ID, title.ID, "laptop")
	require.NoError(t, err)
	_, err = v.UpdateCell(ctx, dear.ID, price.ID, "1200")
	require.NoError(t, err)

	visible, err := v.VisibleRows(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 2)

	expensive := filter.New(price, int64(field.NumberGreaterThan), "100")
	require.NoError(t, v.CreateFilter(ctx, expensive))

	visible, err = v.VisibleRows(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, dear.ID, visible[0].ID)

	// Edits that change the verdict take effect on the next read.
	_, err = v.UpdateCell(ctx, cheap.ID, price.ID, "250")
	require.NoError(t, err)
	visible, err = v.VisibleRows(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 2)

	// Deleting the filter restores everything it was hiding.
	_, err = v.UpdateCell(ctx, cheap.ID, price.ID, "2")
	require.NoError(t, err)
	require.NoError(t, v.DeleteFilter(ctx, expensive.ID))
	visible, err = v.VisibleRows(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 2)
}

func TestIntegration_BoardWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	status := field.New("Status", field.SingleSelect)
	todo := field.NewSelectOption("Todo")
	done := field.NewSelectOption("Done")
	require.NoError(t, field.EncodeTypeOption(status, field.SelectTypeOption{
		Options: []field.SelectOption{todo, done},
	}))
	require.NoError(t, env.fieldRepo.Create(ctx, status))
	require.NoError(t, env.settingsRepo.SetGroupField(ctx, "board", status.ID))

	v, err := env.manager.View(ctx, "board")
	require.NoError(t, err)

	groups, err := v.Groups()
	require.NoError(t, err)
	require.Len(t, groups, 3)
	require.Equal(t, todo.ID, groups[0].ID)
	require.Equal(t, done.ID, groups[1].ID)
	require.True(t, groups[2].IsDefault)

	// Rows created into a group arrive with the group's cell value persisted.
	r, err := v.CreateRow(ctx, todo.ID)
	require.NoError(t, err)
	stored, err := env.rowRepo.Get(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, todo.ID, stored.Cell(status.ID).Raw)

	groups, err = v.Groups()
	require.NoError(t, err)
	require.True(t, groups[0].ContainsRow(r.ID))

	// A board move rewrites and persists the cell.
	require.NoError(t, v.MoveGroupRow(ctx, todo.ID, done.ID, r.ID, 0))
	stored, err = env.rowRepo.Get(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, done.ID, stored.Cell(status.ID).Raw)

	groups, err = v.Groups()
	require.NoError(t, err)
	require.False(t, groups[0].ContainsRow(r.ID))
	require.True(t, groups[1].ContainsRow(r.ID))

	// Clearing the grouping field dissolves the board.
	require.NoError(t, v.SetGroupField(ctx, ""))
	_, err = v.Groups()
	require.ErrorIs(t, err, view.ErrNotGrouped)
}

func TestIntegration_ReopenedViewSeesPersistedState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	done := field.New("Done", field.Checkbox)
	require.NoError(t, env.fieldRepo.Create(ctx, done))

	v, err := env.manager.View(ctx, "grid")
	require.NoError(t, err)

	r, err := v.CreateRow(ctx, "")
	require.NoError(t, err)
	_, err = v.UpdateCell(ctx, r.ID, done.ID, "Yes")
	require.NoError(t, err)

	checked := filter.New(done, int64(field.CheckboxIsChecked), "")
	require.NoError(t, v.CreateFilter(ctx, checked))

	// A second manager over the same database reloads the filter config.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	other := view.NewManager(view.Deps{
		Fields:    env.fieldRepo,
		Rows:      env.rowRepo,
		Filters:   env.filterRepo,
		Settings:  env.settingsRepo,
		Registry:  cell.NewRegistry(),
		CellCache: cell.NewDataCache(),
		Notifier:  notify.NewLogSink(logger),
		Scheduler: scheduler.New(logger),
		Logger:    logger,
	})
	defer other.Close()

	reopened, err := other.View(ctx, "grid")
	require.NoError(t, err)
	visible, err := reopened.VisibleRows(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, r.ID, visible[0].ID)
}
