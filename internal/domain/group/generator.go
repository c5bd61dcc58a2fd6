package group

import (
	"encoding/json"
	"sort"

	"github.com/rpggio/tabula/internal/domain/cell"
	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/row"
)

// grouper is the per-field-type strategy behind the controller: which groups
// a field induces, which groups a cell value lands in, and what cell value a
// group stands for when a row is dropped into it.
type grouper interface {
	// generateGroups derives the group list from the field's configuration
	// and, for value-derived groupers, the current rows.
	generateGroups(f *field.Field, rows []*row.Row) []*GroupData

	// groupIDs returns the ids of the groups a decoded cell belongs to.
	// A row can be in several groups only under multi-select.
	groupIDs(data cell.Data, f *field.Field) []string

	// makeCell synthesizes the cell a row acquires when moved into
	// toGroupID. ok is false when the target group implies no cell value,
	// such as any checklist group.
	makeCell(fromGroupID, toGroupID string, old cell.Cell, f *field.Field) (c cell.Cell, ok bool)

	// newGroup materializes a group for an id groupIDs produced but no
	// current group carries. Only value-derived groupers (URL) can; the
	// rest return false and such rows fall into the default group.
	newGroup(id string, f *field.Field) (*GroupData, bool)
}

// newGrouper returns the strategy for a field type, or ErrNotGroupable.
func newGrouper(t field.FieldType, reg *cell.Registry) (grouper, error) {
	switch t {
	case field.SingleSelect, field.MultiSelect:
		return &selectGrouper{reg: reg, multi: t == field.MultiSelect}, nil
	case field.Checkbox:
		return &checkboxGrouper{reg: reg}, nil
	case field.URL:
		return &urlGrouper{reg: reg}, nil
	case field.Checklist:
		return &checklistGrouper{}, nil
	default:
		return nil, ErrNotGroupable
	}
}

// selectGrouper buckets rows by selected option: one group per option plus a
// trailing default group, id'd by the field id, for rows with no selection.
type selectGrouper struct {
	reg   *cell.Registry
	multi bool
}

func (g *selectGrouper) generateGroups(f *field.Field, rows []*row.Row) []*GroupData {
	var typeOption field.SelectTypeOption
	field.DecodeTypeOption(f, &typeOption)

	groups := make([]*GroupData, 0, len(typeOption.Options)+1)
	for _, opt := range typeOption.Options {
		groups = append(groups, newGroupData(opt.ID, opt.Name, f.ID))
	}
	groups = append(groups, defaultGroup(f))
	return groups
}

func (g *selectGrouper) groupIDs(data cell.Data, f *field.Field) []string {
	selectData, _ := data.(cell.SelectData)
	ids := selectData.OptionIDs()
	if len(ids) == 0 {
		return []string{f.ID}
	}
	return ids
}

func (g *selectGrouper) makeCell(fromGroupID, toGroupID string, old cell.Cell, f *field.Field) (cell.Cell, bool) {
	if toGroupID == f.ID {
		// Into the default group: clear the selection.
		return cell.Cell{FieldType: f.FieldType}, true
	}
	var typeOption field.SelectTypeOption
	field.DecodeTypeOption(f, &typeOption)
	if _, ok := typeOption.Option(toGroupID); !ok {
		return cell.Cell{}, false
	}

	cs := cell.SelectOptionChangeset{InsertOptionIDs: []string{toGroupID}}
	if g.multi && fromGroupID != "" && fromGroupID != f.ID {
		cs.DeleteOptionIDs = []string{fromGroupID}
	}
	payload, err := json.Marshal(cs)
	if err != nil {
		return cell.Cell{}, false
	}
	c, _, err := cell.ApplyChangeset(g.reg, string(payload), old, f)
	if err != nil {
		return cell.Cell{}, false
	}
	return c, true
}

func (g *selectGrouper) newGroup(id string, f *field.Field) (*GroupData, bool) {
	return nil, false
}

// checkboxGrouper buckets rows into exactly two groups, id'd by the stored
// checkbox encodings.
type checkboxGrouper struct {
	reg *cell.Registry
}

func (g *checkboxGrouper) generateGroups(f *field.Field, rows []*row.Row) []*GroupData {
	return []*GroupData{
		newGroupData(cell.Check, "Checked", f.ID),
		newGroupData(cell.Uncheck, "Unchecked", f.ID),
	}
}

func (g *checkboxGrouper) groupIDs(data cell.Data, f *field.Field) []string {
	if checked, _ := data.(cell.CheckboxData); bool(checked) {
		return []string{cell.Check}
	}
	return []string{cell.Uncheck}
}

func (g *checkboxGrouper) makeCell(fromGroupID, toGroupID string, old cell.Cell, f *field.Field) (cell.Cell, bool) {
	switch toGroupID {
	case cell.Check:
		return cell.InsertCheckboxCell(g.reg, true, f), true
	case cell.Uncheck:
		return cell.InsertCheckboxCell(g.reg, false, f), true
	default:
		return cell.Cell{}, false
	}
}

func (g *checkboxGrouper) newGroup(id string, f *field.Field) (*GroupData, bool) {
	return nil, false
}

// urlGrouper buckets rows by distinct URL content. Groups are derived from
// the rows themselves, so a full regroup can add and drop groups.
type urlGrouper struct {
	reg *cell.Registry
}

func (g *urlGrouper) generateGroups(f *field.Field, rows []*row.Row) []*GroupData {
	seen := make(map[string]struct{})
	var contents []string
	for _, r := range rows {
		data, _ := cell.DecodeCellData(g.reg, r.Cell(f.ID), f, nil).(cell.URLData)
		if data.Content == "" {
			continue
		}
		if _, ok := seen[data.Content]; ok {
			continue
		}
		seen[data.Content] = struct{}{}
		contents = append(contents, data.Content)
	}
	sort.Strings(contents)

	groups := make([]*GroupData, 0, len(contents)+1)
	for _, content := range contents {
		groups = append(groups, newGroupData(content, content, f.ID))
	}
	groups = append(groups, defaultGroup(f))
	return groups
}

func (g *urlGrouper) groupIDs(data cell.Data, f *field.Field) []string {
	urlData, _ := data.(cell.URLData)
	if urlData.Content == "" {
		return []string{f.ID}
	}
	return []string{urlData.Content}
}

func (g *urlGrouper) makeCell(fromGroupID, toGroupID string, old cell.Cell, f *field.Field) (cell.Cell, bool) {
	if toGroupID == f.ID {
		return cell.Cell{FieldType: f.FieldType}, true
	}
	return cell.InsertURLCell(g.reg, toGroupID, f), true
}

func (g *urlGrouper) newGroup(id string, f *field.Field) (*GroupData, bool) {
	return newGroupData(id, id, f.ID), true
}

// Checklist group ids. Scoped by the one-group-field-per-view rule, like the
// checkbox ids.
const (
	checklistCompleteGroupID   = "complete"
	checklistIncompleteGroupID = "incomplete"
)

// checklistGrouper buckets rows by completion. Membership is derived from
// the checklist's selected ratio, so no cell can be synthesized by a move.
type checklistGrouper struct{}

func (g *checklistGrouper) generateGroups(f *field.Field, rows []*row.Row) []*GroupData {
	return []*GroupData{
		newGroupData(checklistCompleteGroupID, "Complete", f.ID),
		newGroupData(checklistIncompleteGroupID, "Incomplete", f.ID),
		defaultGroup(f),
	}
}

func (g *checklistGrouper) groupIDs(data cell.Data, f *field.Field) []string {
	list, _ := data.(cell.ChecklistData)
	switch {
	case len(list.Options) == 0:
		return []string{f.ID}
	case list.Percentage() >= 1.0:
		return []string{checklistCompleteGroupID}
	default:
		return []string{checklistIncompleteGroupID}
	}
}

func (g *checklistGrouper) makeCell(fromGroupID, toGroupID string, old cell.Cell, f *field.Field) (cell.Cell, bool) {
	return cell.Cell{}, false
}

func (g *checklistGrouper) newGroup(id string, f *field.Field) (*GroupData, bool) {
	return nil, false
}

func defaultGroup(f *field.Field) *GroupData {
	g := newGroupData(f.ID, "No "+f.Name, f.ID)
	g.IsDefault = true
	return g
}
