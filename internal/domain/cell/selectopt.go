package cell

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpggio/tabula/internal/domain/field"
)

// SelectOptionChangeset is the edit payload of a select cell. Option ids not
// configured on the field are dropped silently.
type SelectOptionChangeset struct {
	InsertOptionIDs []string `json:"insert_option_ids,omitempty"`
	DeleteOptionIDs []string `json:"delete_option_ids,omitempty"`
}

type selectTypeOption struct {
	fieldType field.FieldType
}

func (s *selectTypeOption) FieldType() field.FieldType { return s.fieldType }

func (s *selectTypeOption) DecodeCell(c Cell, fromType field.FieldType, f *field.Field) Data {
	// Single- and multi-select share the option-id payload and decode each
	// other's cells; all other types are refused.
	if !fromType.IsSelect() || c.Empty() {
		return SelectData{Type: s.fieldType}
	}
	var opt field.SelectTypeOption
	field.DecodeTypeOption(f, &opt)

	var selected []field.SelectOption
	for _, id := range strings.Split(c.Raw, ",") {
		if option, ok := opt.Option(id); ok {
			selected = append(selected, option)
		}
	}
	return SelectData{Type: s.fieldType, Options: selected}
}

func (s *selectTypeOption) ApplyChangeset(changeset string, old Cell, f *field.Field) (Cell, Data, error) {
	var cs SelectOptionChangeset
	if err := json.Unmarshal([]byte(changeset), &cs); err != nil {
		return Cell{}, nil, fmt.Errorf("select changeset: %w", ErrInvalidData)
	}
	var opt field.SelectTypeOption
	field.DecodeTypeOption(f, &opt)

	ids := s.currentIDs(old)
	for _, id := range cs.InsertOptionIDs {
		if _, ok := opt.Option(id); !ok {
			continue
		}
		if s.fieldType == field.SingleSelect {
			ids = []string{id}
			continue
		}
		if !containsString(ids, id) {
			ids = append(ids, id)
		}
	}
	for _, id := range cs.DeleteOptionIDs {
		ids = removeString(ids, id)
	}

	next := Cell{FieldType: s.fieldType, Raw: strings.Join(ids, ",")}
	return next, s.DecodeCell(next, s.fieldType, f), nil
}

func (s *selectTypeOption) FilterMatch(flt field.CellFilter, data Data) bool {
	optionFilter, ok := flt.(field.SelectOptionFilter)
	if !ok {
		return true
	}
	sel, ok := data.(SelectData)
	if !ok {
		return true
	}
	return optionFilter.IsVisible(sel.OptionIDs())
}

func (s *selectTypeOption) Compare(a, b Data) int {
	return strings.Compare(a.String(), b.String())
}

func (s *selectTypeOption) currentIDs(c Cell) []string {
	if c.Empty() || !c.FieldType.IsSelect() {
		return nil
	}
	return strings.Split(c.Raw, ",")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
