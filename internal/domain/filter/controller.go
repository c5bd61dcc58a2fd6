package filter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/tabula/internal/domain/cell"
	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/row"
	"github.com/rpggio/tabula/internal/notify"
	"github.com/rpggio/tabula/internal/scheduler"
)

// Controller owns one view's filter state. Configuration changes are
// acknowledged synchronously; row re-evaluation runs on the scheduler, with
// single-row work ahead of full recomputes.
type Controller struct {
	viewID    string
	delegate  Delegate
	scheduler *scheduler.Scheduler
	notifier  notify.Notifier
	registry  *cell.Registry
	cellCache *cell.DataCache
	logger    *slog.Logger

	mu      sync.Mutex
	filters map[FilterType]*Filter
	preds   map[FilterType]field.CellFilter
	results *resultCache
}

// NewController loads the view's persisted filters and registers with the
// scheduler. Call Close when the view goes away.
func NewController(
	ctx context.Context,
	viewID string,
	delegate Delegate,
	sched *scheduler.Scheduler,
	notifier notify.Notifier,
	registry *cell.Registry,
	cellCache *cell.DataCache,
	logger *slog.Logger,
) (*Controller, error) {
	filters, err := delegate.GetFilters(ctx, viewID)
	if err != nil {
		return nil, fmt.Errorf("load filters: %w", err)
	}

	c := &Controller{
		viewID:    viewID,
		delegate:  delegate,
		scheduler: sched,
		notifier:  notifier,
		registry:  registry,
		cellCache: cellCache,
		logger:    logger,
		filters:   make(map[FilterType]*Filter),
		preds:     make(map[FilterType]field.CellFilter),
		results:   newResultCache(),
	}
	for _, f := range filters {
		ft := typeOf(f)
		c.filters[ft] = f
		c.preds[ft] = hydrate(f)
	}

	sched.RegisterHandler(c)
	return c, nil
}

// HandlerID implements scheduler.Handler.
func (c *Controller) HandlerID() string {
	return "filter/" + c.viewID
}

// Close unregisters the controller; queued tasks for it are discarded.
func (c *Controller) Close() {
	c.scheduler.UnregisterHandler(c.HandlerID())
}

// FilterRows evaluates rows synchronously and returns the visible subset.
// Used when a view loads; it establishes the baseline later deltas patch, so
// no notification is emitted.
func (c *Controller) FilterRows(ctx context.Context, rows []*row.Row) ([]*row.Row, error) {
	visible := make([]*row.Row, 0, len(rows))
	for _, r := range rows {
		pass, _, err := c.evaluate(ctx, r)
		if err != nil {
			return nil, err
		}
		if pass {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// ApplyChangeset applies a filter-configuration change. The configuration
// notification is emitted before returning; the row recompute runs later as a
// background task.
func (c *Controller) ApplyChangeset(ctx context.Context, cs Changeset) error {
	n := &notify.FilterChangesetNotification{ViewID: c.viewID}

	c.mu.Lock()
	switch {
	case cs.Insert != nil:
		ft := typeOf(cs.Insert)
		c.filters[ft] = cs.Insert
		c.preds[ft] = hydrate(cs.Insert)
		n.InsertedFilters = append(n.InsertedFilters, filterInfo(cs.Insert))
	case cs.Update != nil:
		// An update whose id has no active filter degrades to an insert;
		// either way the caller's id is the one reported.
		if old, ok := c.findLocked(cs.Update.ID); ok {
			delete(c.filters, typeOf(old))
			delete(c.preds, typeOf(old))
		}
		ft := typeOf(cs.Update)
		c.filters[ft] = cs.Update
		c.preds[ft] = hydrate(cs.Update)
		n.UpdatedFilters = append(n.UpdatedFilters, filterInfo(cs.Update))
	case cs.DeleteFilterID != "":
		old, ok := c.findLocked(cs.DeleteFilterID)
		if !ok {
			c.mu.Unlock()
			return fmt.Errorf("delete filter %s: %w", cs.DeleteFilterID, ErrFilterNotFound)
		}
		delete(c.filters, typeOf(old))
		delete(c.preds, typeOf(old))
		n.DeletedFilters = append(n.DeletedFilters, filterInfo(old))
	}
	c.mu.Unlock()

	c.notifier.NotifyFilterChanged(n)
	c.scheduler.AddTask(scheduler.Task{
		ID:        c.scheduler.NextTaskID(),
		HandlerID: c.HandlerID(),
		QoS:       scheduler.Background,
	})
	return nil
}

// OnRowChanged schedules a re-evaluation of one row after a cell edit.
func (c *Controller) OnRowChanged(rowID string) {
	c.scheduler.AddTask(scheduler.Task{
		ID:        c.scheduler.NextTaskID(),
		HandlerID: c.HandlerID(),
		QoS:       scheduler.UserInteractive,
		Payload:   rowID,
	})
}

// OnRowDeleted drops the row's cached verdict.
func (c *Controller) OnRowDeleted(rowID string) {
	c.results.remove(rowID)
}

// OnFieldChanged invalidates the field's decoded cells and schedules a full
// recompute. Retyping a field can flip any row.
func (c *Controller) OnFieldChanged(fieldID string) {
	c.cellCache.Invalidate(fieldID)
	c.scheduler.AddTask(scheduler.Task{
		ID:        c.scheduler.NextTaskID(),
		HandlerID: c.HandlerID(),
		QoS:       scheduler.Background,
	})
}

// ProcessTask implements scheduler.Handler. A string payload re-evaluates
// that row; no payload re-evaluates the table.
func (c *Controller) ProcessTask(ctx context.Context, task scheduler.Task) error {
	switch rowID := task.Payload.(type) {
	case string:
		return c.filterSingleRow(ctx, rowID)
	default:
		return c.filterAllRows(ctx)
	}
}

func (c *Controller) filterSingleRow(ctx context.Context, rowID string) error {
	index, r, err := c.delegate.GetRow(ctx, c.viewID, rowID)
	if err != nil {
		return fmt.Errorf("get row %s: %w", rowID, err)
	}
	if r == nil {
		c.results.remove(rowID)
		return nil
	}

	visible, changed, err := c.evaluate(ctx, r)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	n := notify.NewFilterResultNotification(c.viewID)
	if visible {
		n.VisibleRows = append(n.VisibleRows, notify.InsertedRow{Row: r.Clone(), Index: index})
	} else {
		n.InvisibleRows = append(n.InvisibleRows, r.ID)
	}
	c.notifier.NotifyFilterResult(n)
	return nil
}

func (c *Controller) filterAllRows(ctx context.Context) error {
	rows, err := c.delegate.GetRows(ctx, c.viewID)
	if err != nil {
		return fmt.Errorf("get rows: %w", err)
	}

	n := notify.NewFilterResultNotification(c.viewID)
	for index, r := range rows {
		visible, changed, err := c.evaluate(ctx, r)
		if err != nil {
			return err
		}
		if !changed {
			continue
		}
		if visible {
			n.VisibleRows = append(n.VisibleRows, notify.InsertedRow{Row: r.Clone(), Index: index})
		} else {
			n.InvisibleRows = append(n.InvisibleRows, r.ID)
		}
	}
	if !n.IsEmpty() {
		c.logger.Debug("filter recompute changed visibility",
			"view_id", c.viewID,
			"became_visible", len(n.VisibleRows),
			"became_invisible", len(n.InvisibleRows))
		c.notifier.NotifyFilterResult(n)
	}
	return nil
}

// evaluate re-runs every active filter against one row and reports the new
// verdict plus whether it flipped. Filters whose field was deleted or retyped
// are treated as inactive and their stale verdicts dropped. The config lock is
// held only long enough to snapshot the predicates; field lookups and cell
// decodes run outside it so concurrent reads never queue behind I/O.
func (c *Controller) evaluate(ctx context.Context, r *row.Row) (visible, changed bool, err error) {
	c.mu.Lock()
	preds := make(map[FilterType]field.CellFilter, len(c.preds))
	for ft, pred := range c.preds {
		preds[ft] = pred
	}
	c.mu.Unlock()

	verdicts := make(map[FilterType]bool, len(preds))
	for ft, pred := range preds {
		f, err := c.delegate.GetField(ctx, ft.FieldID)
		if err != nil {
			return false, false, fmt.Errorf("get field %s: %w", ft.FieldID, err)
		}
		if f == nil || f.FieldType != ft.FieldType {
			continue
		}
		strat, ok := c.registry.Lookup(f.FieldType)
		if !ok {
			continue
		}
		data := cell.DecodeCellData(c.registry, r.Cell(ft.FieldID), f, c.cellCache)
		verdicts[ft] = strat.FilterMatch(pred, data)
	}

	visible, changed = c.results.apply(r.ID, verdicts)
	return visible, changed, nil
}

func (c *Controller) findLocked(filterID string) (*Filter, bool) {
	for _, f := range c.filters {
		if f.ID == filterID {
			return f, true
		}
	}
	return nil, false
}

func filterInfo(f *Filter) notify.FilterInfo {
	return notify.FilterInfo{
		ID:        f.ID,
		FieldID:   f.FieldID,
		FieldType: f.FieldType,
		Condition: f.Condition,
		Content:   f.Content,
	}
}
