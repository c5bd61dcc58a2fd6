// Package filter maintains the visible subset of a view's rows. Filters are
// recomputed incrementally: edits re-evaluate one row, configuration changes
// re-evaluate the table, and only visibility flips are reported.
package filter

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rpggio/tabula/internal/domain/field"
)

// Filter is one persisted filter of a view. Content is a type-specific
// payload: raw text for text and URL filters, a decimal number for number
// filters, a JSON range for date filters, and comma-joined option ids for
// select filters. Checkbox and checklist filters carry no content.
type Filter struct {
	ID        string          `json:"id"`
	FieldID   string          `json:"field_id"`
	FieldType field.FieldType `json:"field_type"`
	Condition int64           `json:"condition"`
	Content   string          `json:"content"`
}

// New creates a filter against a field.
func New(f *field.Field, condition int64, content string) *Filter {
	return &Filter{
		ID:        uuid.NewString(),
		FieldID:   f.ID,
		FieldType: f.FieldType,
		Condition: condition,
		Content:   content,
	}
}

// FilterType identifies the slot a filter occupies: one filter per field, and
// a filter only applies while the field still has the type it was created
// against.
type FilterType struct {
	FieldID   string
	FieldType field.FieldType
}

func typeOf(f *Filter) FilterType {
	return FilterType{FieldID: f.FieldID, FieldType: f.FieldType}
}

// dateFilterContent is the JSON payload of a date filter's content.
type dateFilterContent struct {
	Timestamp int64 `json:"timestamp,omitempty"`
	Start     int64 `json:"start,omitempty"`
	End       int64 `json:"end,omitempty"`
}

// hydrate turns a persisted filter into its typed predicate. Malformed
// content degrades to a zero-valued predicate rather than failing; the
// predicate then matches on condition alone.
func hydrate(f *Filter) field.CellFilter {
	switch {
	case f.FieldType.IsText() || f.FieldType.IsURL():
		return field.TextFilter{
			Condition: field.TextFilterCondition(f.Condition),
			Content:   f.Content,
		}
	case f.FieldType.IsNumber():
		value, _ := strconv.ParseFloat(strings.TrimSpace(f.Content), 64)
		return field.NumberFilter{
			Condition: field.NumberFilterCondition(f.Condition),
			Content:   value,
		}
	case f.FieldType.IsDate():
		var content dateFilterContent
		_ = json.Unmarshal([]byte(f.Content), &content)
		return field.DateFilter{
			Condition: field.DateFilterCondition(f.Condition),
			Timestamp: content.Timestamp,
			Start:     content.Start,
			End:       content.End,
		}
	case f.FieldType.IsSelect():
		var ids []string
		for _, id := range strings.Split(f.Content, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		return field.SelectOptionFilter{
			Condition: field.SelectOptionFilterCondition(f.Condition),
			OptionIDs: ids,
		}
	case f.FieldType == field.Checkbox:
		return field.CheckboxFilter{Condition: field.CheckboxFilterCondition(f.Condition)}
	case f.FieldType == field.Checklist:
		return field.ChecklistFilter{Condition: field.ChecklistFilterCondition(f.Condition)}
	default:
		return nil
	}
}

// Changeset describes one filter-configuration change. Exactly one of the
// fields is set.
type Changeset struct {
	Insert         *Filter
	Update         *Filter
	DeleteFilterID string
}

func NewInsertChangeset(f *Filter) Changeset  { return Changeset{Insert: f} }
func NewUpdateChangeset(f *Filter) Changeset  { return Changeset{Update: f} }
func NewDeleteChangeset(filterID string) Changeset {
	return Changeset{DeleteFilterID: filterID}
}
