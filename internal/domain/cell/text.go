package cell

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rpggio/tabula/internal/domain/field"
)

// MaxTextLength caps rich-text cell content, counted in runes.
const MaxTextLength = 10000

type textTypeOption struct {
	reg *Registry
}

func (t *textTypeOption) FieldType() field.FieldType { return field.RichText }

func (t *textTypeOption) DecodeCell(c Cell, fromType field.FieldType, f *field.Field) Data {
	if c.Empty() || fromType == field.RichText {
		return TextData(c.Raw)
	}
	// Text accepts any other type's stringified form: decode the cell under
	// the type it was written with and render that.
	if strat, ok := t.reg.Lookup(fromType); ok {
		return TextData(strat.DecodeCell(c, fromType, f).String())
	}
	return TextData(c.Raw)
}

func (t *textTypeOption) ApplyChangeset(changeset string, old Cell, f *field.Field) (Cell, Data, error) {
	if utf8.RuneCountInString(changeset) > MaxTextLength {
		return Cell{}, nil, fmt.Errorf("text of %d runes: %w", utf8.RuneCountInString(changeset), ErrTextTooLong)
	}
	next := Cell{FieldType: field.RichText, Raw: changeset}
	return next, TextData(changeset), nil
}

func (t *textTypeOption) FilterMatch(flt field.CellFilter, data Data) bool {
	textFilter, ok := flt.(field.TextFilter)
	if !ok {
		return true
	}
	return textFilter.IsVisible(data.String())
}

func (t *textTypeOption) Compare(a, b Data) int {
	return strings.Compare(a.String(), b.String())
}
