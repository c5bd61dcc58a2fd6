package cell

import "github.com/rpggio/tabula/internal/domain/field"

// Cell is an opaque stored value of one (row, field) pair. FieldType records
// the type the cell was written under, which can differ from the owning
// field's current type after a "switch field type" edit; decoding reconciles
// the two. Cells are immutable values: changesets build replacements.
type Cell struct {
	FieldType field.FieldType `json:"field_type"`
	Raw       string          `json:"data"`
}

// Empty reports whether the cell carries no data.
func (c Cell) Empty() bool {
	return c.Raw == ""
}

// Checkbox cell payloads. These literals are persisted and double as the
// group ids of a checkbox-grouped board.
const (
	Check   = "Yes"
	Uncheck = "No"
)
