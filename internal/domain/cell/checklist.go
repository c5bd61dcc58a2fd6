package cell

import (
	"encoding/json"
	"fmt"

	"github.com/rpggio/tabula/internal/domain/field"
)

// checklistPayload is the persisted shape of a checklist cell: the items live
// in the cell itself, not in the field's type option.
type checklistPayload struct {
	Options     []field.SelectOption `json:"options"`
	SelectedIDs []string             `json:"selected_option_ids"`
}

// ChecklistChangeset is the edit payload of a checklist cell.
type ChecklistChangeset struct {
	InsertOptions     []string `json:"insert_options,omitempty"`
	DeleteOptionIDs   []string `json:"delete_option_ids,omitempty"`
	SelectOptionIDs   []string `json:"select_option_ids,omitempty"`
	UnselectOptionIDs []string `json:"unselect_option_ids,omitempty"`
}

type checklistTypeOption struct{}

func (c *checklistTypeOption) FieldType() field.FieldType { return field.Checklist }

func (c *checklistTypeOption) DecodeCell(cl Cell, fromType field.FieldType, f *field.Field) Data {
	if fromType != field.Checklist || cl.Empty() {
		return ChecklistData{}
	}
	var payload checklistPayload
	if err := json.Unmarshal([]byte(cl.Raw), &payload); err != nil {
		return ChecklistData{}
	}
	return ChecklistData{Options: payload.Options, SelectedIDs: payload.SelectedIDs}
}

func (c *checklistTypeOption) ApplyChangeset(changeset string, old Cell, f *field.Field) (Cell, Data, error) {
	var cs ChecklistChangeset
	if err := json.Unmarshal([]byte(changeset), &cs); err != nil {
		return Cell{}, nil, fmt.Errorf("checklist changeset: %w", ErrInvalidData)
	}

	data, _ := c.DecodeCell(old, field.Checklist, f).(ChecklistData)
	for _, name := range cs.InsertOptions {
		data.Options = append(data.Options, field.NewSelectOption(name))
	}
	for _, id := range cs.DeleteOptionIDs {
		data.Options = removeOption(data.Options, id)
		data.SelectedIDs = removeString(data.SelectedIDs, id)
	}
	for _, id := range cs.SelectOptionIDs {
		if hasOption(data.Options, id) && !data.selected(id) {
			data.SelectedIDs = append(data.SelectedIDs, id)
		}
	}
	for _, id := range cs.UnselectOptionIDs {
		data.SelectedIDs = removeString(data.SelectedIDs, id)
	}

	raw, err := json.Marshal(checklistPayload{Options: data.Options, SelectedIDs: data.SelectedIDs})
	if err != nil {
		return Cell{}, nil, fmt.Errorf("checklist payload: %w", err)
	}
	return Cell{FieldType: field.Checklist, Raw: string(raw)}, data, nil
}

func (c *checklistTypeOption) FilterMatch(flt field.CellFilter, data Data) bool {
	checklistFilter, ok := flt.(field.ChecklistFilter)
	if !ok {
		return true
	}
	list, ok := data.(ChecklistData)
	if !ok {
		return true
	}
	return checklistFilter.IsVisible(list.Percentage(), len(list.Options) > 0)
}

func (c *checklistTypeOption) Compare(a, b Data) int {
	left, _ := a.(ChecklistData)
	right, _ := b.(ChecklistData)
	switch {
	case left.Percentage() < right.Percentage():
		return -1
	case left.Percentage() > right.Percentage():
		return 1
	default:
		return 0
	}
}

func hasOption(options []field.SelectOption, id string) bool {
	for _, opt := range options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

func removeOption(options []field.SelectOption, id string) []field.SelectOption {
	out := options[:0]
	for _, opt := range options {
		if opt.ID != id {
			out = append(out, opt)
		}
	}
	return out
}
