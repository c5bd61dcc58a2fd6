// Package row defines the row model shared by the view controllers. Rows are
// owned by the database, not by any single view.
package row

import (
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/tabula/internal/domain/cell"
)

// Row is one record of a grid database: a stable id plus a cell per field.
type Row struct {
	ID        string               `json:"id"`
	Position  int                  `json:"position"`
	CreatedAt time.Time            `json:"created_at"`
	Cells     map[string]cell.Cell `json:"cells"`
}

// New creates an empty row.
func New() *Row {
	return &Row{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Cells:     make(map[string]cell.Cell),
	}
}

// Cell returns the row's cell for a field; missing cells are empty, not
// errors.
func (r *Row) Cell(fieldID string) cell.Cell {
	if r.Cells == nil {
		return cell.Cell{}
	}
	return r.Cells[fieldID]
}

// SetCell replaces the row's cell for a field.
func (r *Row) SetCell(fieldID string, c cell.Cell) {
	if r.Cells == nil {
		r.Cells = make(map[string]cell.Cell)
	}
	r.Cells[fieldID] = c
}

// Clone returns a deep copy of the row. Controllers hand clones to
// notifications so later edits don't leak into emitted deltas.
func (r *Row) Clone() *Row {
	cells := make(map[string]cell.Cell, len(r.Cells))
	for id, c := range r.Cells {
		cells[id] = c
	}
	clone := *r
	clone.Cells = cells
	return &clone
}

// Meta is a lightweight row summary used in group membership lists.
type Meta struct {
	ID string `json:"id"`
}

// MetaOf returns the summary of a row.
func MetaOf(r *Row) Meta {
	return Meta{ID: r.ID}
}
