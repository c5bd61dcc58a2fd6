package group

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

// Controller owns one view's board projection. Cell edits update membership
// synchronously under one lock, so a multi-select edit that moves a row
// between groups is observed as a single pass. Grouping-field changes trigger
// a full regroup on the scheduler.
type Controller struct {
	viewID    string
	delegate  Delegate
	scheduler *scheduler.Scheduler
	notifier  notify.Notifier
	registry  *cell.Registry
	cellCache *cell.DataCache
	logger    *slog.Logger

	mu         sync.Mutex
	groupField *field.Field
	grouper    grouper
	groups     []*GroupData
	byID       map[string]*GroupData
}

// NewController builds the initial projection from the view's grouping field
// and rows. Returns ErrNoGroupingField when the view isn't grouped and
// ErrNotGroupable when the configured field's type can't group.
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
	groupField, err := delegate.GetGroupField(ctx, viewID)
	if err != nil {
		return nil, fmt.Errorf("load group field: %w", err)
	}
	if groupField == nil {
		return nil, ErrNoGroupingField
	}
	g, err := newGrouper(groupField.FieldType, registry)
	if err != nil {
		return nil, fmt.Errorf("field %s (%s): %w", groupField.ID, groupField.FieldType, err)
	}
	rows, err := delegate.GetRows(ctx, viewID)
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}

	c := &Controller{
		viewID:     viewID,
		delegate:   delegate,
		scheduler:  sched,
		notifier:   notifier,
		registry:   registry,
		cellCache:  cellCache,
		logger:     logger,
		groupField: groupField,
		grouper:    g,
	}
	c.setGroupsLocked(g.generateGroups(groupField, rows))
	for _, r := range rows {
		c.placeRowLocked(r)
	}

	sched.RegisterHandler(c)
	return c, nil
}

// HandlerID implements scheduler.Handler.
func (c *Controller) HandlerID() string {
	return "group/" + c.viewID
}

// Close unregisters the controller; queued tasks for it are discarded.
func (c *Controller) Close() {
	c.scheduler.UnregisterHandler(c.HandlerID())
}

// Groups returns the current projection, value-backed groups first and the
// default group last.
func (c *Controller) Groups() []*GroupData {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*GroupData, len(c.groups))
	for i, g := range c.groups {
		out[i] = g.Clone()
	}
	return out
}

// OnCellChanged reconciles a row's membership after an edit to the grouping
// field. One delta notification is emitted per group the row entered or left.
func (c *Controller) OnCellChanged(r *row.Row) {
	c.mu.Lock()
	if c.grouper == nil {
		c.mu.Unlock()
		return
	}
	deltas := c.reconcileRowLocked(r)
	c.mu.Unlock()
	c.emit(deltas)
}

// DidCreateRow places a freshly created row into its groups.
func (c *Controller) DidCreateRow(r *row.Row) {
	c.OnCellChanged(r)
}

// WillCreateRow stamps a new row with the cell value the target group stands
// for, before the row is persisted. An unknown group id is logged and
// skipped, as is a group that implies no cell value.
func (c *Controller) WillCreateRow(r *row.Row, groupID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[groupID]; !ok {
		c.logger.Warn("row created against unknown group",
			"view_id", c.viewID, "group_id", groupID)
		return
	}
	if newCell, ok := c.grouper.makeCell("", groupID, r.Cell(c.groupField.ID), c.groupField); ok {
		r.SetCell(c.groupField.ID, newCell)
	}
}

// OnRowDeleted removes the row from every group it was in.
func (c *Controller) OnRowDeleted(rowID string) {
	c.mu.Lock()
	var deltas []*notify.GroupRowsNotification
	for _, g := range c.groups {
		if g.RemoveRow(rowID) {
			n := notify.NewGroupRowsNotification(g.ID)
			n.DeletedRows = append(n.DeletedRows, rowID)
			deltas = append(deltas, n)
		}
	}
	c.mu.Unlock()
	c.emit(deltas)
}

// OnFieldChanged schedules a full regroup when the grouping field's
// configuration changes.
func (c *Controller) OnFieldChanged(fieldID string) {
	c.mu.Lock()
	grouping := c.groupField != nil && c.groupField.ID == fieldID
	c.mu.Unlock()
	if !grouping {
		return
	}
	c.cellCache.Invalidate(fieldID)
	c.scheduler.AddTask(scheduler.Task{
		ID:        c.scheduler.NextTaskID(),
		HandlerID: c.HandlerID(),
		QoS:       scheduler.Background,
	})
}

// MoveGroupRow moves a row into toGroupID at toIndex, clamping the index to
// the group's bounds, and returns the cell value the caller should persist
// for the row. ok is false when the move implies no cell change.
func (c *Controller) MoveGroupRow(ctx context.Context, fromGroupID, toGroupID, rowID string, toIndex int) (cell.Cell, bool, error) {
	_, r, err := c.delegate.GetRow(ctx, c.viewID, rowID)
	if err != nil {
		return cell.Cell{}, false, fmt.Errorf("get row %s: %w", rowID, err)
	}
	if r == nil {
		return cell.Cell{}, false, fmt.Errorf("move row %s: %w", rowID, ErrRowNotFound)
	}

	c.mu.Lock()
	to, ok := c.byID[toGroupID]
	if !ok {
		c.mu.Unlock()
		return cell.Cell{}, false, fmt.Errorf("move to group %s: %w", toGroupID, ErrGroupNotFound)
	}
	from, ok := c.byID[fromGroupID]
	if !ok {
		c.mu.Unlock()
		return cell.Cell{}, false, fmt.Errorf("move from group %s: %w", fromGroupID, ErrGroupNotFound)
	}

	if !from.RemoveRow(rowID) {
		// Stale client state; the move still lands in the target group.
		c.logger.Warn("moved row was not in source group",
			"view_id", c.viewID, "group_id", fromGroupID, "row_id", rowID)
	}
	index := to.InsertRowAt(row.MetaOf(r), toIndex)

	var deltas []*notify.GroupRowsNotification
	if from.ID != to.ID {
		n := notify.NewGroupRowsNotification(from.ID)
		n.DeletedRows = append(n.DeletedRows, rowID)
		deltas = append(deltas, n)
		insert := notify.NewGroupRowsNotification(to.ID)
		insert.InsertedRows = append(insert.InsertedRows, notify.InsertedRow{Row: r.Clone(), Index: index})
		deltas = append(deltas, insert)
	} else {
		n := notify.NewGroupRowsNotification(to.ID)
		n.DeletedRows = append(n.DeletedRows, rowID)
		n.InsertedRows = append(n.InsertedRows, notify.InsertedRow{Row: r.Clone(), Index: index})
		deltas = append(deltas, n)
	}

	newCell, changed := c.grouper.makeCell(fromGroupID, toGroupID, r.Cell(c.groupField.ID), c.groupField)
	c.mu.Unlock()

	c.emit(deltas)
	return newCell, changed, nil
}

// ProcessTask implements scheduler.Handler: a full regroup against the
// current grouping field and rows, reporting group and membership diffs.
func (c *Controller) ProcessTask(ctx context.Context, task scheduler.Task) error {
	groupField, err := c.delegate.GetGroupField(ctx, c.viewID)
	if err != nil {
		return fmt.Errorf("load group field: %w", err)
	}
	rows, err := c.delegate.GetRows(ctx, c.viewID)
	if err != nil {
		return fmt.Errorf("load rows: %w", err)
	}

	c.mu.Lock()
	old := c.groups
	changeset := &notify.GroupChangesetNotification{ViewID: c.viewID}
	var deltas []*notify.GroupRowsNotification

	var g grouper
	if groupField != nil {
		// A field retyped to a non-groupable type dissolves the board.
		g, _ = newGrouper(groupField.FieldType, c.registry)
	}
	if g == nil {
		for _, og := range old {
			changeset.DeletedGroupIDs = append(changeset.DeletedGroupIDs, og.ID)
		}
		c.groupField = nil
		c.grouper = nil
		c.setGroupsLocked(nil)
	} else {
		c.groupField = groupField
		c.grouper = g
		c.setGroupsLocked(g.generateGroups(groupField, rows))
		for _, r := range rows {
			c.placeRowLocked(r)
		}

		oldByID := make(map[string]*GroupData, len(old))
		for _, og := range old {
			oldByID[og.ID] = og
		}
		for _, ng := range c.groups {
			og, existed := oldByID[ng.ID]
			if !existed {
				changeset.InsertedGroups = append(changeset.InsertedGroups, notify.GroupInfo{
					GroupID: ng.ID, Name: ng.Name, FieldID: ng.FieldID,
				})
				continue
			}
			if delta := membershipDelta(og, ng, rows); !delta.IsEmpty() {
				deltas = append(deltas, delta)
			}
		}
		newIDs := make(map[string]struct{}, len(c.groups))
		for _, ng := range c.groups {
			newIDs[ng.ID] = struct{}{}
		}
		for _, og := range old {
			if _, ok := newIDs[og.ID]; !ok {
				changeset.DeletedGroupIDs = append(changeset.DeletedGroupIDs, og.ID)
			}
		}
	}
	c.mu.Unlock()

	if !changeset.IsEmpty() {
		c.notifier.NotifyGroupChanged(changeset)
	}
	c.emit(deltas)
	return nil
}

// reconcileRowLocked brings one row's membership in line with its current
// cell value, creating value-derived groups on demand.
func (c *Controller) reconcileRowLocked(r *row.Row) []*notify.GroupRowsNotification {
	var deltas []*notify.GroupRowsNotification
	targets := c.targetGroupsLocked(r)

	for _, g := range c.groups {
		_, should := targets[g.ID]
		has := g.ContainsRow(r.ID)
		switch {
		case should && !has:
			g.AddRow(row.MetaOf(r))
			n := notify.NewGroupRowsNotification(g.ID)
			n.InsertedRows = append(n.InsertedRows, notify.InsertedRow{Row: r.Clone(), Index: len(g.Rows) - 1})
			deltas = append(deltas, n)
		case !should && has:
			g.RemoveRow(r.ID)
			n := notify.NewGroupRowsNotification(g.ID)
			n.DeletedRows = append(n.DeletedRows, r.ID)
			deltas = append(deltas, n)
		}
	}
	return deltas
}

// targetGroupsLocked resolves the row's cell value to the set of group ids it
// belongs in. Ids no group carries either materialize a new group (URL) or
// fall back to the default group.
func (c *Controller) targetGroupsLocked(r *row.Row) map[string]struct{} {
	data := cell.DecodeCellData(c.registry, r.Cell(c.groupField.ID), c.groupField, c.cellCache)
	targets := make(map[string]struct{})
	matched := false
	for _, id := range c.grouper.groupIDs(data, c.groupField) {
		if _, ok := c.byID[id]; ok {
			targets[id] = struct{}{}
			matched = true
			continue
		}
		if ng, ok := c.grouper.newGroup(id, c.groupField); ok {
			c.insertGroupLocked(ng)
			c.notifier.NotifyGroupChanged(&notify.GroupChangesetNotification{
				ViewID:         c.viewID,
				InsertedGroups: []notify.GroupInfo{{GroupID: ng.ID, Name: ng.Name, FieldID: ng.FieldID}},
			})
			targets[id] = struct{}{}
			matched = true
		}
	}
	if !matched {
		for _, g := range c.groups {
			if g.IsDefault {
				targets[g.ID] = struct{}{}
				break
			}
		}
	}
	return targets
}

func (c *Controller) placeRowLocked(r *row.Row) {
	targets := c.targetGroupsLocked(r)
	for _, g := range c.groups {
		if _, ok := targets[g.ID]; ok && !g.ContainsRow(r.ID) {
			g.AddRow(row.MetaOf(r))
		}
	}
}

func (c *Controller) setGroupsLocked(groups []*GroupData) {
	c.groups = groups
	c.byID = make(map[string]*GroupData, len(groups))
	for _, g := range groups {
		c.byID[g.ID] = g
	}
}

// insertGroupLocked places a dynamic group before the trailing default group.
func (c *Controller) insertGroupLocked(g *GroupData) {
	index := len(c.groups)
	if index > 0 && c.groups[index-1].IsDefault {
		index--
	}
	c.groups = append(c.groups, nil)
	copy(c.groups[index+1:], c.groups[index:])
	c.groups[index] = g
	c.byID[g.ID] = g
}

func (c *Controller) emit(deltas []*notify.GroupRowsNotification) {
	for _, n := range deltas {
		if !n.IsEmpty() {
			c.notifier.NotifyGroupRows(n)
		}
	}
}

// membershipDelta diffs a group's membership before and after a regroup.
func membershipDelta(before, after *GroupData, rows []*row.Row) *notify.GroupRowsNotification {
	n := notify.NewGroupRowsNotification(after.ID)
	byID := make(map[string]*row.Row, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	for i, meta := range after.Rows {
		if !before.ContainsRow(meta.ID) {
			if r, ok := byID[meta.ID]; ok {
				n.InsertedRows = append(n.InsertedRows, notify.InsertedRow{Row: r.Clone(), Index: i})
			}
		}
	}
	for _, meta := range before.Rows {
		if !after.ContainsRow(meta.ID) {
			n.DeletedRows = append(n.DeletedRows, meta.ID)
		}
	}
	return n
}
