package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/tabula/internal/domain/cell"
	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/filter"
	"github.com/rpggio/tabula/internal/domain/row"
	"github.com/rpggio/tabula/internal/domain/view"
	"github.com/rpggio/tabula/internal/repository"
)

// handlers implements the tool surface over the view manager.
type handlers struct {
	manager       *view.Manager
	fields        repository.FieldRepository
	registry      *cell.Registry
	defaultViewID string
	logger        *slog.Logger
}

func (h *handlers) view(ctx context.Context, viewID string) (*view.View, error) {
	if viewID == "" {
		viewID = h.defaultViewID
	}
	return h.manager.View(ctx, viewID)
}

var fieldTypeNames = map[string]field.FieldType{
	"rich_text":     field.RichText,
	"number":        field.Number,
	"date_time":     field.DateTime,
	"single_select": field.SingleSelect,
	"multi_select":  field.MultiSelect,
	"checkbox":      field.Checkbox,
	"url":           field.URL,
	"checklist":     field.Checklist,
}

func parseFieldType(name string) (field.FieldType, error) {
	t, ok := fieldTypeNames[name]
	if !ok {
		return 0, &APIError{
			Code:         "INVALID_FIELD_TYPE",
			Message:      fmt.Sprintf("unknown field type %q", name),
			RecoveryHint: "Use one of: rich_text, number, date_time, single_select, multi_select, checkbox, url, checklist",
		}
	}
	return t, nil
}

// FieldInfo is the wire shape of a field.
type FieldInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FieldType  string `json:"field_type"`
	TypeOption string `json:"type_option,omitempty"`
}

func fieldInfo(f *field.Field) FieldInfo {
	return FieldInfo{
		ID:         f.ID,
		Name:       f.Name,
		FieldType:  f.FieldType.String(),
		TypeOption: string(f.TypeOptionData),
	}
}

// RowInfo is the wire shape of a row: cell values rendered through each
// field's current type.
type RowInfo struct {
	ID    string            `json:"id"`
	Cells map[string]string `json:"cells"`
}

func (h *handlers) rowInfo(ctx context.Context, r *row.Row) (RowInfo, error) {
	fields, err := h.fields.List(ctx)
	if err != nil {
		return RowInfo{}, err
	}
	cells := make(map[string]string, len(fields))
	for _, f := range fields {
		cells[f.ID] = cell.Stringify(h.registry, r.Cell(f.ID), f)
	}
	return RowInfo{ID: r.ID, Cells: cells}, nil
}

type ListFieldsInput struct{}

type ListFieldsOutput struct {
	Fields []FieldInfo `json:"fields"`
}

func (h *handlers) listFields(ctx context.Context, req *sdkmcp.CallToolRequest, in ListFieldsInput) (*sdkmcp.CallToolResult, ListFieldsOutput, error) {
	fields, err := h.fields.List(ctx)
	if err != nil {
		return nil, ListFieldsOutput{}, MapError(err)
	}
	out := ListFieldsOutput{Fields: make([]FieldInfo, 0, len(fields))}
	for _, f := range fields {
		out.Fields = append(out.Fields, fieldInfo(f))
	}
	return nil, out, nil
}

type CreateFieldInput struct {
	Name      string   `json:"name"`
	FieldType string   `json:"field_type"`
	Options   []string `json:"options,omitempty"`
}

type CreateFieldOutput struct {
	Field FieldInfo `json:"field"`
}

func (h *handlers) createField(ctx context.Context, req *sdkmcp.CallToolRequest, in CreateFieldInput) (*sdkmcp.CallToolResult, CreateFieldOutput, error) {
	t, err := parseFieldType(in.FieldType)
	if err != nil {
		return nil, CreateFieldOutput{}, err
	}
	f := field.New(in.Name, t)
	if t.IsSelect() && len(in.Options) > 0 {
		opts := make([]field.SelectOption, 0, len(in.Options))
		for _, name := range in.Options {
			opts = append(opts, field.NewSelectOption(name))
		}
		if err := field.EncodeTypeOption(f, field.SelectTypeOption{Options: opts}); err != nil {
			return nil, CreateFieldOutput{}, err
		}
	}
	if err := h.fields.Create(ctx, f); err != nil {
		return nil, CreateFieldOutput{}, MapError(err)
	}
	return nil, CreateFieldOutput{Field: fieldInfo(f)}, nil
}

type UpdateFieldInput struct {
	ViewID    string   `json:"view_id,omitempty"`
	FieldID   string   `json:"field_id"`
	Name      string   `json:"name,omitempty"`
	FieldType string   `json:"field_type,omitempty"`
	Options   []string `json:"options,omitempty"`
}

type UpdateFieldOutput struct {
	Field FieldInfo `json:"field"`
}

func (h *handlers) updateField(ctx context.Context, req *sdkmcp.CallToolRequest, in UpdateFieldInput) (*sdkmcp.CallToolResult, UpdateFieldOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, UpdateFieldOutput{}, MapError(err)
	}
	f, err := h.fields.Get(ctx, in.FieldID)
	if err != nil {
		return nil, UpdateFieldOutput{}, MapError(err)
	}
	if in.Name != "" {
		f.Name = in.Name
	}
	if in.FieldType != "" {
		t, err := parseFieldType(in.FieldType)
		if err != nil {
			return nil, UpdateFieldOutput{}, err
		}
		if t != f.FieldType {
			f.FieldType = t
			f.TypeOptionData = nil
		}
	}
	if f.FieldType.IsSelect() && len(in.Options) > 0 {
		var typeOption field.SelectTypeOption
		field.DecodeTypeOption(f, &typeOption)
		for _, name := range in.Options {
			typeOption.Options = append(typeOption.Options, field.NewSelectOption(name))
		}
		if err := field.EncodeTypeOption(f, typeOption); err != nil {
			return nil, UpdateFieldOutput{}, err
		}
	}
	if err := v.UpdateField(ctx, f); err != nil {
		return nil, UpdateFieldOutput{}, MapError(err)
	}
	return nil, UpdateFieldOutput{Field: fieldInfo(f)}, nil
}

type GetRowsInput struct {
	ViewID string `json:"view_id,omitempty"`
}

type GetRowsOutput struct {
	Rows []RowInfo `json:"rows"`
}

func (h *handlers) getRows(ctx context.Context, req *sdkmcp.CallToolRequest, in GetRowsInput) (*sdkmcp.CallToolResult, GetRowsOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, GetRowsOutput{}, MapError(err)
	}
	rows, err := v.VisibleRows(ctx)
	if err != nil {
		return nil, GetRowsOutput{}, MapError(err)
	}
	out := GetRowsOutput{Rows: make([]RowInfo, 0, len(rows))}
	for _, r := range rows {
		info, err := h.rowInfo(ctx, r)
		if err != nil {
			return nil, GetRowsOutput{}, MapError(err)
		}
		out.Rows = append(out.Rows, info)
	}
	return nil, out, nil
}

type CreateRowInput struct {
	ViewID  string `json:"view_id,omitempty"`
	GroupID string `json:"group_id,omitempty"`
}

type CreateRowOutput struct {
	Row RowInfo `json:"row"`
}

func (h *handlers) createRow(ctx context.Context, req *sdkmcp.CallToolRequest, in CreateRowInput) (*sdkmcp.CallToolResult, CreateRowOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, CreateRowOutput{}, MapError(err)
	}
	r, err := v.CreateRow(ctx, in.GroupID)
	if err != nil {
		return nil, CreateRowOutput{}, MapError(err)
	}
	info, err := h.rowInfo(ctx, r)
	if err != nil {
		return nil, CreateRowOutput{}, MapError(err)
	}
	return nil, CreateRowOutput{Row: info}, nil
}

type DeleteRowInput struct {
	ViewID string `json:"view_id,omitempty"`
	RowID  string `json:"row_id"`
}

type DeleteRowOutput struct {
	Deleted bool `json:"deleted"`
}

func (h *handlers) deleteRow(ctx context.Context, req *sdkmcp.CallToolRequest, in DeleteRowInput) (*sdkmcp.CallToolResult, DeleteRowOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, DeleteRowOutput{}, MapError(err)
	}
	if err := v.DeleteRow(ctx, in.RowID); err != nil {
		return nil, DeleteRowOutput{}, MapError(err)
	}
	return nil, DeleteRowOutput{Deleted: true}, nil
}

type UpdateCellInput struct {
	ViewID    string `json:"view_id,omitempty"`
	RowID     string `json:"row_id"`
	FieldID   string `json:"field_id"`
	Changeset string `json:"changeset"`
}

type UpdateCellOutput struct {
	Row RowInfo `json:"row"`
}

func (h *handlers) updateCell(ctx context.Context, req *sdkmcp.CallToolRequest, in UpdateCellInput) (*sdkmcp.CallToolResult, UpdateCellOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, UpdateCellOutput{}, MapError(err)
	}
	r, err := v.UpdateCell(ctx, in.RowID, in.FieldID, in.Changeset)
	if err != nil {
		return nil, UpdateCellOutput{}, MapError(err)
	}
	info, err := h.rowInfo(ctx, r)
	if err != nil {
		return nil, UpdateCellOutput{}, MapError(err)
	}
	return nil, UpdateCellOutput{Row: info}, nil
}

// GroupInfo is the wire shape of one board group.
type GroupInfo struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	IsDefault bool     `json:"is_default,omitempty"`
	RowIDs    []string `json:"row_ids"`
}

type ListGroupsInput struct {
	ViewID string `json:"view_id,omitempty"`
}

type ListGroupsOutput struct {
	Groups []GroupInfo `json:"groups"`
}

func (h *handlers) listGroups(ctx context.Context, req *sdkmcp.CallToolRequest, in ListGroupsInput) (*sdkmcp.CallToolResult, ListGroupsOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, ListGroupsOutput{}, MapError(err)
	}
	groups, err := v.Groups()
	if err != nil {
		return nil, ListGroupsOutput{}, MapError(err)
	}
	out := ListGroupsOutput{Groups: make([]GroupInfo, 0, len(groups))}
	for _, g := range groups {
		rowIDs := make([]string, 0, len(g.Rows))
		for _, meta := range g.Rows {
			rowIDs = append(rowIDs, meta.ID)
		}
		out.Groups = append(out.Groups, GroupInfo{
			ID:        g.ID,
			Name:      g.Name,
			IsDefault: g.IsDefault,
			RowIDs:    rowIDs,
		})
	}
	return nil, out, nil
}

type SetGroupFieldInput struct {
	ViewID  string `json:"view_id,omitempty"`
	FieldID string `json:"field_id"`
}

type SetGroupFieldOutput struct {
	Grouped bool `json:"grouped"`
}

func (h *handlers) setGroupField(ctx context.Context, req *sdkmcp.CallToolRequest, in SetGroupFieldInput) (*sdkmcp.CallToolResult, SetGroupFieldOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, SetGroupFieldOutput{}, MapError(err)
	}
	if err := v.SetGroupField(ctx, in.FieldID); err != nil {
		return nil, SetGroupFieldOutput{}, MapError(err)
	}
	return nil, SetGroupFieldOutput{Grouped: in.FieldID != ""}, nil
}

type MoveGroupRowInput struct {
	ViewID      string `json:"view_id,omitempty"`
	FromGroupID string `json:"from_group_id"`
	ToGroupID   string `json:"to_group_id"`
	RowID       string `json:"row_id"`
	ToIndex     int    `json:"to_index"`
}

type MoveGroupRowOutput struct {
	Moved bool `json:"moved"`
}

func (h *handlers) moveGroupRow(ctx context.Context, req *sdkmcp.CallToolRequest, in MoveGroupRowInput) (*sdkmcp.CallToolResult, MoveGroupRowOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, MoveGroupRowOutput{}, MapError(err)
	}
	if err := v.MoveGroupRow(ctx, in.FromGroupID, in.ToGroupID, in.RowID, in.ToIndex); err != nil {
		return nil, MoveGroupRowOutput{}, MapError(err)
	}
	return nil, MoveGroupRowOutput{Moved: true}, nil
}

// FilterInfo is the wire shape of one filter.
type FilterInfo struct {
	ID        string `json:"id"`
	FieldID   string `json:"field_id"`
	FieldType string `json:"field_type"`
	Condition int64  `json:"condition"`
	Content   string `json:"content,omitempty"`
}

type ListFiltersInput struct {
	ViewID string `json:"view_id,omitempty"`
}

type ListFiltersOutput struct {
	Filters []FilterInfo `json:"filters"`
}

func (h *handlers) listFilters(ctx context.Context, req *sdkmcp.CallToolRequest, in ListFiltersInput) (*sdkmcp.CallToolResult, ListFiltersOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, ListFiltersOutput{}, MapError(err)
	}
	filters, err := v.GetFilters(ctx, v.ID())
	if err != nil {
		return nil, ListFiltersOutput{}, MapError(err)
	}
	out := ListFiltersOutput{Filters: make([]FilterInfo, 0, len(filters))}
	for _, f := range filters {
		out.Filters = append(out.Filters, FilterInfo{
			ID:        f.ID,
			FieldID:   f.FieldID,
			FieldType: f.FieldType.String(),
			Condition: f.Condition,
			Content:   f.Content,
		})
	}
	return nil, out, nil
}

type CreateFilterInput struct {
	ViewID    string `json:"view_id,omitempty"`
	FieldID   string `json:"field_id"`
	Condition int64  `json:"condition"`
	Content   string `json:"content,omitempty"`
}

type CreateFilterOutput struct {
	FilterID string `json:"filter_id"`
}

func (h *handlers) createFilter(ctx context.Context, req *sdkmcp.CallToolRequest, in CreateFilterInput) (*sdkmcp.CallToolResult, CreateFilterOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, CreateFilterOutput{}, MapError(err)
	}
	f, err := v.GetField(ctx, in.FieldID)
	if err != nil {
		return nil, CreateFilterOutput{}, MapError(err)
	}
	if f == nil {
		return nil, CreateFilterOutput{}, MapError(view.ErrFieldNotFound)
	}
	flt := filter.New(f, in.Condition, in.Content)
	if err := v.CreateFilter(ctx, flt); err != nil {
		return nil, CreateFilterOutput{}, MapError(err)
	}
	return nil, CreateFilterOutput{FilterID: flt.ID}, nil
}

type UpdateFilterInput struct {
	ViewID    string `json:"view_id,omitempty"`
	FilterID  string `json:"filter_id"`
	Condition int64  `json:"condition"`
	Content   string `json:"content,omitempty"`
}

type UpdateFilterOutput struct {
	Updated bool `json:"updated"`
}

func (h *handlers) updateFilter(ctx context.Context, req *sdkmcp.CallToolRequest, in UpdateFilterInput) (*sdkmcp.CallToolResult, UpdateFilterOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, UpdateFilterOutput{}, MapError(err)
	}
	filters, err := v.GetFilters(ctx, v.ID())
	if err != nil {
		return nil, UpdateFilterOutput{}, MapError(err)
	}
	var target *filter.Filter
	for _, f := range filters {
		if f.ID == in.FilterID {
			target = f
			break
		}
	}
	if target == nil {
		return nil, UpdateFilterOutput{}, MapError(filter.ErrFilterNotFound)
	}
	target.Condition = in.Condition
	target.Content = in.Content
	if err := v.UpdateFilter(ctx, target); err != nil {
		return nil, UpdateFilterOutput{}, MapError(err)
	}
	return nil, UpdateFilterOutput{Updated: true}, nil
}

type DeleteFilterInput struct {
	ViewID   string `json:"view_id,omitempty"`
	FilterID string `json:"filter_id"`
}

type DeleteFilterOutput struct {
	Deleted bool `json:"deleted"`
}

func (h *handlers) deleteFilter(ctx context.Context, req *sdkmcp.CallToolRequest, in DeleteFilterInput) (*sdkmcp.CallToolResult, DeleteFilterOutput, error) {
	v, err := h.view(ctx, in.ViewID)
	if err != nil {
		return nil, DeleteFilterOutput{}, MapError(err)
	}
	if err := v.DeleteFilter(ctx, in.FilterID); err != nil {
		return nil, DeleteFilterOutput{}, MapError(err)
	}
	return nil, DeleteFilterOutput{Deleted: true}, nil
}

// registerTools registers the tool surface on the SDK server.
func registerTools(server *sdkmcp.Server, h *handlers) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_fields",
		Description: "List the grid's fields (columns) with their types",
	}, h.listFields)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_field",
		Description: "Create a field; select fields take an optional list of option names",
	}, h.createField)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_field",
		Description: "Rename a field, change its type, or add select options; retyping resets the field's configuration",
	}, h.updateField)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_rows",
		Description: "Get the rows visible under the view's filters, with cell values rendered as text",
	}, h.getRows)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_row",
		Description: "Create a row, optionally into a board group",
	}, h.createRow)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_row",
		Description: "Delete a row",
	}, h.deleteRow)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_cell",
		Description: "Apply a changeset to one cell; the payload format depends on the field type",
	}, h.updateCell)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_groups",
		Description: "List the board groups and their member rows",
	}, h.listGroups)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_group_field",
		Description: "Group the view by a field, or pass an empty field_id to clear grouping",
	}, h.setGroupField)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_group_row",
		Description: "Move a row between board groups, updating its cell value to match",
	}, h.moveGroupRow)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_filters",
		Description: "List the view's filters",
	}, h.listFilters)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_filter",
		Description: "Add a filter on a field; condition codes and content format depend on the field type",
	}, h.createFilter)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_filter",
		Description: "Change a filter's condition or comparison content",
	}, h.updateFilter)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_filter",
		Description: "Remove a filter and restore the rows it was hiding",
	}, h.deleteFilter)
}
