package filter

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/tabula/internal/domain/cell"
	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/row"
	"github.com/rpggio/tabula/internal/notify"
	"github.com/rpggio/tabula/internal/scheduler"
)

const testViewID = "view-1"

type testDelegate struct {
	filters []*Filter
	fields  map[string]*field.Field
	rows    []*row.Row
}

func (d *testDelegate) GetFilters(ctx context.Context, viewID string) ([]*Filter, error) {
	return d.filters, nil
}

func (d *testDelegate) GetField(ctx context.Context, fieldID string) (*field.Field, error) {
	return d.fields[fieldID], nil
}

func (d *testDelegate) GetRows(ctx context.Context, viewID string) ([]*row.Row, error) {
	return d.rows, nil
}

func (d *testDelegate) GetRow(ctx context.Context, viewID, rowID string) (int, *row.Row, error) {
	for i, r := range d.rows {
		if r.ID == rowID {
			return i, r, nil
		}
	}
	return 0, nil, nil
}

type captureNotifier struct {
	mu            sync.Mutex
	filterResults []*notify.FilterResultNotification
	filterChanges []*notify.FilterChangesetNotification
}

func (c *captureNotifier) NotifyFilterResult(n *notify.FilterResultNotification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filterResults = append(c.filterResults, n)
}

func (c *captureNotifier) NotifyFilterChanged(n *notify.FilterChangesetNotification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filterChanges = append(c.filterChanges, n)
}

func (c *captureNotifier) NotifyGroupRows(n *notify.GroupRowsNotification) {}

func (c *captureNotifier) NotifyGroupChanged(n *notify.GroupChangesetNotification) {}

type fixture struct {
	controller *Controller
	delegate   *testDelegate
	notifier   *captureNotifier
	registry   *cell.Registry
}

func newFixture(t *testing.T, delegate *testDelegate) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := &captureNotifier{}
	registry := cell.NewRegistry()
	controller, err := NewController(
		context.Background(),
		testViewID,
		delegate,
		scheduler.New(logger),
		notifier,
		registry,
		cell.NewDataCache(),
		logger,
	)
	require.NoError(t, err)
	t.Cleanup(controller.Close)
	return &fixture{controller: controller, delegate: delegate, notifier: notifier, registry: registry}
}

func textRow(t *testing.T, reg *cell.Registry, f *field.Field, content string) *row.Row {
	t.Helper()
	r := row.New()
	r.SetCell(f.ID, cell.InsertTextCell(reg, content, f))
	return r
}

// recompute runs the full-table task the way the scheduler worker would.
func (fx *fixture) recompute(t *testing.T) {
	t.Helper()
	err := fx.controller.ProcessTask(context.Background(), scheduler.Task{HandlerID: fx.controller.HandlerID()})
	require.NoError(t, err)
}

func (fx *fixture) recomputeRow(t *testing.T, rowID string) {
	t.Helper()
	err := fx.controller.ProcessTask(context.Background(), scheduler.Task{
		HandlerID: fx.controller.HandlerID(),
		Payload:   rowID,
	})
	require.NoError(t, err)
}

func TestFilterRowsReturnsMatchingSubset(t *testing.T) {
	titleField := field.New("Title", field.RichText)
	registry := cell.NewRegistry()
	delegate := &testDelegate{fields: map[string]*field.Field{titleField.ID: titleField}}
	keep := textRow(t, registry, titleField, "grocery list")
	drop := textRow(t, registry, titleField, "meeting notes")
	delegate.rows = []*row.Row{keep, drop}
	delegate.filters = []*Filter{New(titleField, int64(field.TextContains), "grocery")}

	fx := newFixture(t, delegate)
	visible, err := fx.controller.FilterRows(context.Background(), delegate.rows)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, keep.ID, visible[0].ID)
}

func TestApplyChangesetNotifiesConfigBeforeRecompute(t *testing.T) {
	titleField := field.New("Title", field.RichText)
	registry := cell.NewRegistry()
	delegate := &testDelegate{fields: map[string]*field.Field{titleField.ID: titleField}}
	delegate.rows = []*row.Row{
		textRow(t, registry, titleField, "alpha"),
		textRow(t, registry, titleField, "beta"),
	}

	fx := newFixture(t, delegate)
	flt := New(titleField, int64(field.TextIs), "alpha")
	require.NoError(t, fx.controller.ApplyChangeset(context.Background(), NewInsertChangeset(flt)))

	// Config change is acknowledged synchronously, before any row work.
	require.Len(t, fx.notifier.filterChanges, 1)
	require.Len(t, fx.notifier.filterChanges[0].InsertedFilters, 1)
	require.Equal(t, flt.ID, fx.notifier.filterChanges[0].InsertedFilters[0].ID)
	require.Empty(t, fx.notifier.filterResults)

	fx.recompute(t)
	require.Len(t, fx.notifier.filterResults, 1)
	result := fx.notifier.filterResults[0]
	require.Empty(t, result.VisibleRows)
	require.Equal(t, []string{delegate.rows[1].ID}, result.InvisibleRows)
}

func TestRowEditReportsOnlyVisibilityFlips(t *testing.T) {
	titleField := field.New("Title", field.RichText)
	registry := cell.NewRegistry()
	delegate := &testDelegate{fields: map[string]*field.Field{titleField.ID: titleField}}
	r := textRow(t, registry, titleField, "draft")
	delegate.rows = []*row.Row{r}
	delegate.filters = []*Filter{New(titleField, int64(field.TextContains), "final")}

	fx := newFixture(t, delegate)
	fx.recompute(t)
	require.Len(t, fx.notifier.filterResults, 1)

	// Edit that doesn't change the verdict: no notification.
	r.SetCell(titleField.ID, cell.InsertTextCell(registry, "still a draft", titleField))
	fx.recomputeRow(t, r.ID)
	require.Len(t, fx.notifier.filterResults, 1)

	// Edit that flips the row visible: one notification with the row and
	// its index.
	r.SetCell(titleField.ID, cell.InsertTextCell(registry, "final version", titleField))
	fx.recomputeRow(t, r.ID)
	require.Len(t, fx.notifier.filterResults, 2)
	flip := fx.notifier.filterResults[1]
	require.Len(t, flip.VisibleRows, 1)
	require.Equal(t, r.ID, flip.VisibleRows[0].Row.ID)
	require.Equal(t, 0, flip.VisibleRows[0].Index)
	require.Empty(t, flip.InvisibleRows)
}

func TestFullRecomputeIsIdempotent(t *testing.T) {
	titleField := field.New("Title", field.RichText)
	registry := cell.NewRegistry()
	delegate := &testDelegate{fields: map[string]*field.Field{titleField.ID: titleField}}
	delegate.rows = []*row.Row{
		textRow(t, registry, titleField, "alpha"),
		textRow(t, registry, titleField, "beta"),
	}

	fx := newFixture(t, delegate)
	require.NoError(t, fx.controller.ApplyChangeset(context.Background(),
		NewInsertChangeset(New(titleField, int64(field.TextIs), "alpha"))))

	fx.recompute(t)
	require.Len(t, fx.notifier.filterResults, 1)

	// Recomputing again with nothing changed produces no delta.
	fx.recompute(t)
	require.Len(t, fx.notifier.filterResults, 1)
}

func TestUpdateUnknownFilterActsAsInsert(t *testing.T) {
	titleField := field.New("Title", field.RichText)
	registry := cell.NewRegistry()
	delegate := &testDelegate{fields: map[string]*field.Field{titleField.ID: titleField}}
	delegate.rows = []*row.Row{
		textRow(t, registry, titleField, "alpha"),
		textRow(t, registry, titleField, "beta"),
	}

	fx := newFixture(t, delegate)
	flt := New(titleField, int64(field.TextIs), "alpha")
	require.NoError(t, fx.controller.ApplyChangeset(context.Background(), NewUpdateChangeset(flt)))

	require.Len(t, fx.notifier.filterChanges, 1)
	require.Len(t, fx.notifier.filterChanges[0].UpdatedFilters, 1)
	require.Equal(t, flt.ID, fx.notifier.filterChanges[0].UpdatedFilters[0].ID)

	// The filter is active from here on, exactly as if it had been inserted.
	fx.recompute(t)
	require.Len(t, fx.notifier.filterResults, 1)
	require.Equal(t, []string{delegate.rows[1].ID}, fx.notifier.filterResults[0].InvisibleRows)
}

func TestConcurrentReadsDuringRecompute(t *testing.T) {
	titleField := field.New("Title", field.RichText)
	registry := cell.NewRegistry()
	delegate := &testDelegate{fields: map[string]*field.Field{titleField.ID: titleField}}
	for i := 0; i < 20; i++ {
		delegate.rows = append(delegate.rows, textRow(t, registry, titleField, "note"))
	}
	delegate.filters = []*Filter{New(titleField, int64(field.TextContains), "note")}

	fx := newFixture(t, delegate)

	errCh := make(chan error, 8)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				if _, err := fx.controller.FilterRows(context.Background(), delegate.rows); err != nil {
					errCh <- err
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				task := scheduler.Task{HandlerID: fx.controller.HandlerID()}
				if err := fx.controller.ProcessTask(context.Background(), task); err != nil {
					errCh <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}
}

func TestNumberFilterHidesEmptyAndUnparseable(t *testing.T) {
	amountField := field.New("Amount", field.Number)
	registry := cell.NewRegistry()
	delegate := &testDelegate{fields: map[string]*field.Field{amountField.ID: amountField}}

	match := row.New()
	match.SetCell(amountField.ID, cell.InsertNumberCell(registry, 42, amountField))
	empty := row.New()
	delegate.rows = []*row.Row{match, empty}
	delegate.filters = []*Filter{New(amountField, int64(field.NumberGreaterThan), "10")}

	fx := newFixture(t, delegate)
	visible, err := fx.controller.FilterRows(context.Background(), delegate.rows)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, match.ID, visible[0].ID)
}

func TestFilterOnRetypedFieldBecomesInactive(t *testing.T) {
	amountField := field.New("Amount", field.Number)
	registry := cell.NewRegistry()
	delegate := &testDelegate{fields: map[string]*field.Field{amountField.ID: amountField}}
	r := row.New()
	r.SetCell(amountField.ID, cell.InsertNumberCell(registry, 3, amountField))
	delegate.rows = []*row.Row{r}
	delegate.filters = []*Filter{New(amountField, int64(field.NumberGreaterThan), "10")}

	fx := newFixture(t, delegate)
	fx.recompute(t)
	require.Len(t, fx.notifier.filterResults, 1)
	require.Equal(t, []string{r.ID}, fx.notifier.filterResults[0].InvisibleRows)

	// Retyping the field deactivates the filter; the row comes back.
	amountField.FieldType = field.RichText
	fx.recompute(t)
	require.Len(t, fx.notifier.filterResults, 2)
	require.Len(t, fx.notifier.filterResults[1].VisibleRows, 1)
	require.Equal(t, r.ID, fx.notifier.filterResults[1].VisibleRows[0].Row.ID)
}

func TestDeleteUnknownFilterFails(t *testing.T) {
	delegate := &testDelegate{fields: map[string]*field.Field{}}
	fx := newFixture(t, delegate)
	err := fx.controller.ApplyChangeset(context.Background(), NewDeleteChangeset("missing"))
	require.ErrorIs(t, err, ErrFilterNotFound)
}

func TestDeleteFilterRestoresRows(t *testing.T) {
	doneField := field.New("Done", field.Checkbox)
	registry := cell.NewRegistry()
	delegate := &testDelegate{fields: map[string]*field.Field{doneField.ID: doneField}}
	unchecked := row.New()
	unchecked.SetCell(doneField.ID, cell.InsertCheckboxCell(registry, false, doneField))
	delegate.rows = []*row.Row{unchecked}
	flt := New(doneField, int64(field.CheckboxIsChecked), "")
	delegate.filters = []*Filter{flt}

	fx := newFixture(t, delegate)
	fx.recompute(t)
	require.Equal(t, []string{unchecked.ID}, fx.notifier.filterResults[0].InvisibleRows)

	require.NoError(t, fx.controller.ApplyChangeset(context.Background(), NewDeleteChangeset(flt.ID)))
	require.Len(t, fx.notifier.filterChanges, 1)
	require.Len(t, fx.notifier.filterChanges[0].DeletedFilters, 1)

	fx.recompute(t)
	require.Len(t, fx.notifier.filterResults, 2)
	require.Len(t, fx.notifier.filterResults[1].VisibleRows, 1)
}
