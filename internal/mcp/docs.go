package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `tabula is a typed data grid: Fields (columns) × Rows, viewed through an
optional filter set and an optional board grouping.

Core concepts (keep this mental model small):
- Field: a typed column. Types: rich_text, number, date_time, single_select,
  multi_select, checkbox, url, checklist.
- Cell: one row × field value. Cells are edited through changesets whose format
  depends on the field type (see tabula://docs/changesets).
- Filter: hides rows that fail a per-field predicate. get_rows returns only the
  visible rows.
- Group: when the view is grouped by a field, rows project into board columns.
  Moving a row between groups rewrites its cell to match.

Rules of engagement (default workflow):
1) Orient: call list_fields, then get_rows.
2) Edit cells with update_cell; the changeset payload depends on the field type.
3) To work a board: set_group_field on a select/checkbox/url/checklist field,
   then list_groups and move_group_row.
4) To narrow the view: create_filter / update_filter / delete_filter. Condition
   codes depend on the field type (see tabula://docs/filters).
5) Rows created into a group (create_row with group_id) arrive pre-stamped with
   that group's cell value.

Docs (progressive disclosure):
- tabula://docs/index (what to read when)
- tabula://docs/field-types (types, type options, rendered values)
- tabula://docs/changesets (update_cell payload per field type)
- tabula://docs/filters (condition codes and content per field type)
- tabula://docs/grouping (board semantics, default group, moves)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "tabula://docs/index",
		Name:        "docs_index",
		Title:       "tabula docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read when.",
		Content: `# tabula: Agent Docs Index

Keep your baseline context small and load deeper docs only when needed.

## Quick start (no deep docs)

1. ` + "`list_fields`" + ` to learn the schema.
2. ` + "`get_rows`" + ` to see the visible data (cells come back rendered as text).
3. ` + "`update_cell`" + ` to edit; the changeset format depends on the field type.
4. ` + "`set_group_field`" + ` + ` + "`list_groups`" + ` + ` + "`move_group_row`" + ` to work a board.
5. ` + "`create_filter`" + ` to narrow the view; deleting a filter restores its rows.

## Docs (read on demand)

- ` + "`tabula://docs/field-types`" + ` — the eight field types and their type options.
- ` + "`tabula://docs/changesets`" + ` — the ` + "`update_cell`" + ` payload per field type.
- ` + "`tabula://docs/filters`" + ` — condition codes and comparison content per field type.
- ` + "`tabula://docs/grouping`" + ` — board semantics: group ids, the default group, moves.

## Intentional limitations

- Rich text is capped at 10000 characters; longer edits are rejected whole.
- Sorting and field-level permissions are out of scope.
`,
	},
	{
		URI:         "tabula://docs/field-types",
		Name:        "docs_field_types",
		Title:       "Field types",
		Description: "The eight field types, their type options, and how cells render.",
		Content: `# Field types

| field_type | stores | renders as |
|---|---|---|
| rich_text | plain text (max 10000 chars) | the text |
| number | decimal text | formatted number |
| date_time | unix timestamp | formatted date |
| single_select | one option id | option name |
| multi_select | option ids | comma-joined option names |
| checkbox | yes/no | "Yes" or "No" |
| url | a URL string | the URL |
| checklist | named items with done flags | "done/total" |

## Type options

- Select fields carry their configured options (id, name, color). Pass
  ` + "`options`" + ` (a list of names) to ` + "`create_field`" + ` or ` + "`update_field`" + ` to add them;
  ids are generated server-side and returned by ` + "`list_fields`" + `.
- Number and date fields carry formatting options; defaults apply when unset.

## Retyping

Changing a field's type (` + "`update_field`" + ` with ` + "`field_type`" + `) resets its type
option. Existing cells keep their stored value and are re-read under the new
type: compatible values carry over, incompatible ones render empty. Filters on
a retyped field stop applying until recreated.
`,
	},
	{
		URI:         "tabula://docs/changesets",
		Name:        "docs_changesets",
		Title:       "Cell changesets",
		Description: "The update_cell payload format for each field type.",
		Content: `# Cell changesets

` + "`update_cell`" + ` takes a ` + "`changeset`" + ` string whose format depends on the field type.

- rich_text, url: the new text. Rich text over 10000 characters is rejected.
- number: the new value as decimal text, e.g. ` + "`\"42.5\"`" + `. Empty clears the cell.
- date_time: JSON ` + "`{\"timestamp\":1735689600,\"include_time\":true}`" + ` (seconds since
  the epoch; a null timestamp clears the cell).
- checkbox: ` + "`\"Yes\"`" + ` / ` + "`\"No\"`" + ` (also accepts true/false, 1/0).
- single_select, multi_select: a JSON object of option ids to insert and
  delete: ` + "`{\"insert_option_ids\":[\"...\"],\"delete_option_ids\":[\"...\"]}`" + `.
  Single-select keeps at most one option; inserting replaces the current one.
- checklist: a JSON object that can insert named items, check or uncheck items
  by id, and delete items by id:
  ` + "`{\"insert_options\":[\"item name\"],\"select_option_ids\":[\"...\"],\"unselect_option_ids\":[\"...\"],\"delete_option_ids\":[\"...\"]}`" + `.

Unknown option ids in a select changeset are ignored rather than rejected.
`,
	},
	{
		URI:         "tabula://docs/filters",
		Name:        "docs_filters",
		Title:       "Filters",
		Description: "Condition codes and comparison content for each field type.",
		Content: `# Filters

A filter is (field, condition code, content). Condition codes are small
integers scoped to the field type; content is a string whose shape also
depends on the type.

## rich_text / url

Conditions: 0 is, 1 is-not, 2 contains, 3 does-not-contain, 4 starts-with,
5 ends-with, 6 is-empty, 7 is-not-empty. Content: the comparison text.

## number

Conditions: 0 equal, 1 not-equal, 2 greater, 3 less, 4 greater-or-equal,
5 less-or-equal, 6 is-empty, 7 is-not-empty. Content: decimal text. Cells that
don't parse as numbers fail every numeric comparison.

## date_time

Conditions: 0 is-on, 1 is-before, 2 is-after, 3 on-or-before, 4 on-or-after,
5 is-within, 6 is-empty, 7 is-not-empty. Content: JSON
` + "`{\"timestamp\":N}`" + ` or ` + "`{\"start\":N,\"end\":N}`" + ` for is-within.

## single_select / multi_select

Conditions: 0 option-is, 1 option-is-not, 2 is-empty, 3 is-not-empty.
Content: comma-joined option ids; option-is passes when the cell shares any
of them.

## checkbox

Conditions: 0 is-checked, 1 is-unchecked. No content.

## checklist

Conditions: 0 is-complete, 1 is-incomplete. No content.

Deleting a filter immediately restores the rows it was hiding. Retyping a
filtered field deactivates the filter without deleting it.
`,
	},
	{
		URI:         "tabula://docs/grouping",
		Name:        "docs_grouping",
		Title:       "Board grouping",
		Description: "How groups derive from the grouping field and what moves do.",
		Content: `# Board grouping

` + "`set_group_field`" + ` groups the view by a select, checkbox, url, or checklist
field. ` + "`list_groups`" + ` then returns the board columns in order.

## Group ids

- Select fields: one group per configured option; the group id is the option
  id. A trailing default group ("No <field name>") collects rows with no
  option set; its id is the field id.
- Checkbox fields: exactly two groups, ids ` + "`Yes`" + ` and ` + "`No`" + `. No default group:
  an unset checkbox is No.
- URL fields: one group per distinct URL currently in the data, plus the
  default group. Groups appear and disappear as cells change.
- Checklist fields: ` + "`complete`" + ` / ` + "`incomplete`" + ` plus the default group.

A multi-select row appears in every group whose option it carries.

## Moving rows

` + "`move_group_row`" + ` moves a row between groups and rewrites its cell to match
the destination: moving into an option group sets that option (and for
multi-select clears the source option), moving into the default group clears
the cell, moving into a checkbox group flips the checkbox. Checklist groups
don't rewrite cells; completion comes from the items. Out-of-range target
indexes clamp to the group's ends.

` + "`create_row`" + ` with ` + "`group_id`" + ` pre-stamps the new row's cell the same way; an
unknown group id is ignored and the row lands by its (empty) cell value.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
