package cell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/tabula/internal/domain/field"
)

type numberTypeOption struct{}

func (n *numberTypeOption) FieldType() field.FieldType { return field.Number }

func (n *numberTypeOption) DecodeCell(c Cell, fromType field.FieldType, f *field.Field) Data {
	// Numbers re-parse their own cells and stringified text; everything else
	// is refused and decodes empty.
	if fromType != field.Number && fromType != field.RichText {
		return NumberData{}
	}
	return parseNumber(c.Raw)
}

func (n *numberTypeOption) ApplyChangeset(changeset string, old Cell, f *field.Field) (Cell, Data, error) {
	trimmed := strings.TrimSpace(changeset)
	if trimmed == "" {
		return Cell{FieldType: field.Number}, NumberData{}, nil
	}
	data := parseNumber(trimmed)
	if !data.Valid {
		return Cell{}, nil, fmt.Errorf("number %q: %w", changeset, ErrInvalidData)
	}
	return Cell{FieldType: field.Number, Raw: data.Raw}, data, nil
}

func (n *numberTypeOption) FilterMatch(flt field.CellFilter, data Data) bool {
	numberFilter, ok := flt.(field.NumberFilter)
	if !ok {
		return true
	}
	num, ok := data.(NumberData)
	if !ok {
		return true
	}
	return numberFilter.IsVisible(num.Value, num.Valid)
}

func (n *numberTypeOption) Compare(a, b Data) int {
	left, _ := a.(NumberData)
	right, _ := b.(NumberData)
	switch {
	case !left.Valid && !right.Valid:
		return 0
	case !left.Valid:
		return -1
	case !right.Valid:
		return 1
	case left.Value < right.Value:
		return -1
	case left.Value > right.Value:
		return 1
	default:
		return 0
	}
}

func parseNumber(raw string) NumberData {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NumberData{}
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return NumberData{}
	}
	return NumberData{Raw: trimmed, Value: value, Valid: true}
}
