package cell

import (
	"fmt"
	"strings"

	"github.com/rpggio/tabula/internal/domain/field"
)

type checkboxTypeOption struct{}

func (c *checkboxTypeOption) FieldType() field.FieldType { return field.Checkbox }

func (c *checkboxTypeOption) DecodeCell(cl Cell, fromType field.FieldType, f *field.Field) Data {
	// Checkboxes accept their own cells and boolean-like text; anything else
	// decodes unchecked.
	if fromType != field.Checkbox && fromType != field.RichText {
		return CheckboxData(false)
	}
	checked, _ := parseBoolLike(cl.Raw)
	return CheckboxData(checked)
}

func (c *checkboxTypeOption) ApplyChangeset(changeset string, old Cell, f *field.Field) (Cell, Data, error) {
	checked, ok := parseBoolLike(changeset)
	if !ok {
		return Cell{}, nil, fmt.Errorf("checkbox %q: %w", changeset, ErrInvalidData)
	}
	raw := Uncheck
	if checked {
		raw = Check
	}
	return Cell{FieldType: field.Checkbox, Raw: raw}, CheckboxData(checked), nil
}

func (c *checkboxTypeOption) FilterMatch(flt field.CellFilter, data Data) bool {
	checkboxFilter, ok := flt.(field.CheckboxFilter)
	if !ok {
		return true
	}
	checked, ok := data.(CheckboxData)
	if !ok {
		return true
	}
	return checkboxFilter.IsVisible(bool(checked))
}

// Compare orders checked ahead of unchecked; equal checked state is a tie
// resolved by the caller's stable ordering.
func (c *checkboxTypeOption) Compare(a, b Data) int {
	left, _ := a.(CheckboxData)
	right, _ := b.(CheckboxData)
	switch {
	case bool(left) == bool(right):
		return 0
	case bool(left):
		return 1
	default:
		return -1
	}
}

func parseBoolLike(raw string) (checked, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case strings.ToLower(Check), "true", "1":
		return true, true
	case strings.ToLower(Uncheck), "false", "0", "":
		return false, true
	default:
		return false, false
	}
}
