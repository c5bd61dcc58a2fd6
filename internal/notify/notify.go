// Package notify defines the delta notifications the view engine emits and
// the sink interface the UI/sync bridge implements. Every payload describes a
// patch to a previously delivered projection; consumers apply them in arrival
// order.
package notify

import (
	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/row"
)

// InsertedRow is a row becoming visible, with the index it should appear at.
// A negative index means append.
type InsertedRow struct {
	Row   *row.Row `json:"row"`
	Index int      `json:"index"`
}

// FilterResultNotification reports rows whose visibility flipped after a
// filter recompute.
type FilterResultNotification struct {
	ViewID        string        `json:"view_id"`
	VisibleRows   []InsertedRow `json:"visible_rows"`
	InvisibleRows []string      `json:"invisible_rows"`
}

func NewFilterResultNotification(viewID string) *FilterResultNotification {
	return &FilterResultNotification{ViewID: viewID}
}

func (n *FilterResultNotification) IsEmpty() bool {
	return len(n.VisibleRows) == 0 && len(n.InvisibleRows) == 0
}

// FilterInfo describes one filter configuration in a changeset notification.
type FilterInfo struct {
	ID        string          `json:"id"`
	FieldID   string          `json:"field_id"`
	FieldType field.FieldType `json:"field_type"`
	Condition int64           `json:"condition"`
	Content   string          `json:"content"`
}

// FilterChangesetNotification reports a filter-configuration change. Row
// visibility changes arrive separately, after the scheduled recompute.
type FilterChangesetNotification struct {
	ViewID          string       `json:"view_id"`
	InsertedFilters []FilterInfo `json:"inserted_filters,omitempty"`
	UpdatedFilters  []FilterInfo `json:"updated_filters,omitempty"`
	DeletedFilters  []FilterInfo `json:"deleted_filters,omitempty"`
}

// GroupRowsNotification reports membership deltas of one group.
type GroupRowsNotification struct {
	GroupID      string        `json:"group_id"`
	InsertedRows []InsertedRow `json:"inserted_rows"`
	DeletedRows  []string      `json:"deleted_rows"`
}

func NewGroupRowsNotification(groupID string) *GroupRowsNotification {
	return &GroupRowsNotification{GroupID: groupID}
}

func (n *GroupRowsNotification) IsEmpty() bool {
	return len(n.InsertedRows) == 0 && len(n.DeletedRows) == 0
}

// GroupInfo describes one group in a group-configuration notification.
type GroupInfo struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	FieldID string `json:"field_id"`
}

// GroupChangesetNotification reports groups appearing or disappearing, such
// as after a select option is added or a grouping field is retyped.
type GroupChangesetNotification struct {
	ViewID          string      `json:"view_id"`
	InsertedGroups  []GroupInfo `json:"inserted_groups,omitempty"`
	DeletedGroupIDs []string    `json:"deleted_group_ids,omitempty"`
}

func (n *GroupChangesetNotification) IsEmpty() bool {
	return len(n.InsertedGroups) == 0 && len(n.DeletedGroupIDs) == 0
}

// Notifier is the sink consuming view deltas. Implemented by the UI/sync
// bridge; the engine only emits.
type Notifier interface {
	NotifyFilterResult(n *FilterResultNotification)
	NotifyFilterChanged(n *FilterChangesetNotification)
	NotifyGroupRows(n *GroupRowsNotification)
	NotifyGroupChanged(n *GroupChangesetNotification)
}
