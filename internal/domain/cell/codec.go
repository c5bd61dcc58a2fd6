package cell

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rpggio/tabula/internal/domain/field"
)

// DecodeCellData decodes a cell through the owning field's current type
// strategy, using the cell's stored type tag as the transformation hint. A
// field type with no strategy yields the target type's empty value; "no data"
// is a valid outcome, never an error.
func DecodeCellData(reg *Registry, c Cell, f *field.Field, cache *DataCache) Data {
	strat, ok := reg.Lookup(f.FieldType)
	if !ok {
		return TextData("")
	}
	fromType := c.FieldType
	if c.Empty() {
		fromType = f.FieldType
	}
	if cache != nil {
		if data, ok := cache.Get(f.ID, f.FieldType, c); ok {
			return data
		}
	}
	data := strat.DecodeCell(c, fromType, f)
	if cache != nil {
		cache.Put(f.ID, f.FieldType, c, data)
	}
	return data
}

// Stringify renders a cell the way the field's current type displays it.
func Stringify(reg *Registry, c Cell, f *field.Field) string {
	return DecodeCellData(reg, c, f, nil).String()
}

// ApplyChangeset runs an edit payload through the field's current strategy,
// returning the replacement cell and its decoded value. The input cell is
// left untouched; callers commit the replacement themselves.
func ApplyChangeset(reg *Registry, changeset string, old Cell, f *field.Field) (Cell, Data, error) {
	strat, ok := reg.Lookup(f.FieldType)
	if !ok {
		return Cell{}, TextData(""), nil
	}
	return strat.ApplyChangeset(changeset, old, f)
}

// Typed cell builders. They run through ApplyChangeset so every write obeys
// the same strategy rules; a payload the strategy rejects yields an empty
// cell.

func InsertTextCell(reg *Registry, text string, f *field.Field) Cell {
	c, _, err := ApplyChangeset(reg, text, Cell{}, f)
	if err != nil {
		return Cell{}
	}
	return c
}

func InsertNumberCell(reg *Registry, num int64, f *field.Field) Cell {
	c, _, err := ApplyChangeset(reg, strconv.FormatInt(num, 10), Cell{}, f)
	if err != nil {
		return Cell{}
	}
	return c
}

func InsertCheckboxCell(reg *Registry, checked bool, f *field.Field) Cell {
	raw := Uncheck
	if checked {
		raw = Check
	}
	c, _, err := ApplyChangeset(reg, raw, Cell{}, f)
	if err != nil {
		return Cell{}
	}
	return c
}

func InsertURLCell(reg *Registry, url string, f *field.Field) Cell {
	c, _, err := ApplyChangeset(reg, url, Cell{}, f)
	if err != nil {
		return Cell{}
	}
	return c
}

func InsertDateCell(reg *Registry, timestamp int64, f *field.Field) Cell {
	payload, err := json.Marshal(DateChangeset{Timestamp: &timestamp})
	if err != nil {
		return Cell{}
	}
	c, _, err := ApplyChangeset(reg, string(payload), Cell{}, f)
	if err != nil {
		return Cell{}
	}
	return c
}

func InsertSelectOptionCell(reg *Registry, optionIDs []string, f *field.Field) Cell {
	payload, err := json.Marshal(SelectOptionChangeset{InsertOptionIDs: optionIDs})
	if err != nil {
		return Cell{}
	}
	c, _, err := ApplyChangeset(reg, string(payload), Cell{}, f)
	if err != nil {
		return Cell{}
	}
	return c
}

func cacheKey(fieldID string, fieldType field.FieldType, c Cell) string {
	var b strings.Builder
	b.WriteString(fieldID)
	b.WriteByte(0)
	b.WriteString(strconv.FormatInt(int64(fieldType), 10))
	b.WriteByte(0)
	b.WriteString(strconv.FormatInt(int64(c.FieldType), 10))
	b.WriteByte(0)
	b.WriteString(c.Raw)
	return b.String()
}
