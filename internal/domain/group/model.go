// Package group maintains a view's board projection: rows bucketed by the
// value of one grouping field. Membership follows cell edits; moving a row
// between groups writes the cell value the target group stands for.
package group

import "github.com/rpggio/tabula/internal/domain/row"

// GroupData is one bucket of the projection and its ordered member rows. The
// default group collects rows with no value for the grouping field; it always
// sorts after the value-backed groups.
type GroupData struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	FieldID   string     `json:"field_id"`
	IsDefault bool       `json:"is_default"`
	Rows      []row.Meta `json:"rows"`
}

func newGroupData(id, name, fieldID string) *GroupData {
	return &GroupData{ID: id, Name: name, FieldID: fieldID}
}

// ContainsRow reports whether the row is a member of the group.
func (g *GroupData) ContainsRow(rowID string) bool {
	return g.IndexOfRow(rowID) >= 0
}

// IndexOfRow returns the row's position in the group, or -1.
func (g *GroupData) IndexOfRow(rowID string) int {
	for i, meta := range g.Rows {
		if meta.ID == rowID {
			return i
		}
	}
	return -1
}

// AddRow appends a row to the group.
func (g *GroupData) AddRow(meta row.Meta) {
	g.Rows = append(g.Rows, meta)
}

// InsertRowAt inserts a row at the given position and returns the position
// actually used. Out-of-range positions clamp to the nearest end.
func (g *GroupData) InsertRowAt(meta row.Meta, index int) int {
	if index < 0 {
		index = 0
	}
	if index > len(g.Rows) {
		index = len(g.Rows)
	}
	g.Rows = append(g.Rows, row.Meta{})
	copy(g.Rows[index+1:], g.Rows[index:])
	g.Rows[index] = meta
	return index
}

// RemoveRow removes a row from the group, reporting whether it was a member.
func (g *GroupData) RemoveRow(rowID string) bool {
	index := g.IndexOfRow(rowID)
	if index < 0 {
		return false
	}
	g.Rows = append(g.Rows[:index], g.Rows[index+1:]...)
	return true
}

// Clone returns a copy safe to hand to callers while the controller keeps
// mutating its own state.
func (g *GroupData) Clone() *GroupData {
	clone := *g
	clone.Rows = append([]row.Meta(nil), g.Rows...)
	return &clone
}
