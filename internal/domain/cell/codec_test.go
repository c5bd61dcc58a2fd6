package cell

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/tabula/internal/domain/field"
)

func selectField(t *testing.T, fieldType field.FieldType, names ...string) (*field.Field, []field.SelectOption) {
	t.Helper()
	f := field.New("Status", fieldType)
	opts := make([]field.SelectOption, 0, len(names))
	for _, name := range names {
		opts = append(opts, field.NewSelectOption(name))
	}
	require.NoError(t, field.EncodeTypeOption(f, field.SelectTypeOption{Options: opts}))
	return f, opts
}

// Decoding must be total: any stored cell read under any current field type
// yields a usable value of the current type, never an error or a panic.
func TestDecodeCellDataIsTotal(t *testing.T) {
	reg := NewRegistry()

	storedCells := []Cell{
		{},
		{FieldType: field.RichText, Raw: "hello"},
		{FieldType: field.Number, Raw: "42.5"},
		{FieldType: field.DateTime, Raw: "1735689600"},
		{FieldType: field.SingleSelect, Raw: "opt-a"},
		{FieldType: field.MultiSelect, Raw: "opt-a,opt-b"},
		{FieldType: field.Checkbox, Raw: Check},
		{FieldType: field.URL, Raw: "example.com"},
		{FieldType: field.Checklist, Raw: `{"options":[{"id":"i1","name":"one"}],"selected_option_ids":["i1"]}`},
		{FieldType: field.Number, Raw: "not a number"},
		{FieldType: field.Checklist, Raw: "corrupt {{{"},
	}
	fieldTypes := []field.FieldType{
		field.RichText, field.Number, field.DateTime, field.SingleSelect,
		field.MultiSelect, field.Checkbox, field.URL, field.Checklist,
	}

	for _, fieldType := range fieldTypes {
		f := field.New("f", fieldType)
		for _, c := range storedCells {
			data := DecodeCellData(reg, c, f, nil)
			require.NotNil(t, data, "field %s cell %+v", fieldType, c)
			require.Equal(t, fieldType, data.FieldType(), "field %s cell %+v", fieldType, c)
		}
	}
}

func TestRetypedCellsReconcileAtDecode(t *testing.T) {
	reg := NewRegistry()

	// A number cell read under rich text renders its stringified form.
	numberCell := Cell{FieldType: field.Number, Raw: "42.5"}
	text := DecodeCellData(reg, numberCell, field.New("f", field.RichText), nil)
	require.Equal(t, "42.5", text.String())

	// A text cell read under date is refused: text is not a trustworthy
	// timestamp.
	textCell := Cell{FieldType: field.RichText, Raw: "1735689600"}
	date := DecodeCellData(reg, textCell, field.New("f", field.DateTime), nil)
	require.True(t, date.IsEmpty())

	// A select cell read under checkbox decodes unchecked.
	selectCell := Cell{FieldType: field.SingleSelect, Raw: "opt-a"}
	checked := DecodeCellData(reg, selectCell, field.New("f", field.Checkbox), nil)
	require.Equal(t, Uncheck, checked.String())

	// Single- and multi-select share the option payload and read each other.
	f, opts := selectField(t, field.MultiSelect, "Home")
	fromSingle := Cell{FieldType: field.SingleSelect, Raw: opts[0].ID}
	sel := DecodeCellData(reg, fromSingle, f, nil)
	require.Equal(t, "Home", sel.String())
}

func TestTextChangesetEnforcesLengthCap(t *testing.T) {
	reg := NewRegistry()
	f := field.New("Notes", field.RichText)

	atCap := strings.Repeat("é", MaxTextLength)
	c, data, err := ApplyChangeset(reg, atCap, Cell{}, f)
	require.NoError(t, err)
	require.Equal(t, atCap, c.Raw)
	require.Equal(t, atCap, data.String())

	_, _, err = ApplyChangeset(reg, atCap+"x", Cell{}, f)
	require.ErrorIs(t, err, ErrTextTooLong)
}

func TestNumberChangeset(t *testing.T) {
	reg := NewRegistry()
	f := field.New("Price", field.Number)

	c, data, err := ApplyChangeset(reg, " 42.5 ", Cell{}, f)
	require.NoError(t, err)
	require.Equal(t, "42.5", c.Raw)
	require.False(t, data.IsEmpty())

	_, _, err = ApplyChangeset(reg, "forty-two", Cell{}, f)
	require.ErrorIs(t, err, ErrInvalidData)

	// Empty clears the cell without complaint.
	c, data, err = ApplyChangeset(reg, "", Cell{FieldType: field.Number, Raw: "1"}, f)
	require.NoError(t, err)
	require.True(t, c.Empty())
	require.True(t, data.IsEmpty())
}

func TestSingleSelectChangesetReplacesSelection(t *testing.T) {
	reg := NewRegistry()
	f, opts := selectField(t, field.SingleSelect, "Todo", "Done")

	c := InsertSelectOptionCell(reg, []string{opts[0].ID}, f)
	require.Equal(t, opts[0].ID, c.Raw)

	payload, err := json.Marshal(SelectOptionChangeset{InsertOptionIDs: []string{opts[1].ID}})
	require.NoError(t, err)
	c, _, err = ApplyChangeset(reg, string(payload), c, f)
	require.NoError(t, err)
	require.Equal(t, opts[1].ID, c.Raw)
}

func TestSelectChangesetDropsUnknownOptionIDs(t *testing.T) {
	reg := NewRegistry()
	f, opts := selectField(t, field.MultiSelect, "Home")

	payload, err := json.Marshal(SelectOptionChangeset{
		InsertOptionIDs: []string{opts[0].ID, "no-such-option"},
	})
	require.NoError(t, err)
	c, data, err := ApplyChangeset(reg, string(payload), Cell{}, f)
	require.NoError(t, err)
	require.Equal(t, opts[0].ID, c.Raw)
	require.Equal(t, "Home", data.String())
}

func TestChecklistChangesetLifecycle(t *testing.T) {
	reg := NewRegistry()
	f := field.New("Steps", field.Checklist)

	c, data, err := ApplyChangeset(reg, `{"insert_options":["pack","ship"]}`, Cell{}, f)
	require.NoError(t, err)
	list := data.(ChecklistData)
	require.Len(t, list.Options, 2)
	require.Zero(t, list.Percentage())

	payload, err := json.Marshal(ChecklistChangeset{SelectOptionIDs: []string{list.Options[0].ID}})
	require.NoError(t, err)
	c, data, err = ApplyChangeset(reg, string(payload), c, f)
	require.NoError(t, err)
	list = data.(ChecklistData)
	require.InDelta(t, 0.5, list.Percentage(), 1e-9)

	payload, err = json.Marshal(ChecklistChangeset{DeleteOptionIDs: []string{list.Options[1].ID}})
	require.NoError(t, err)
	_, data, err = ApplyChangeset(reg, string(payload), c, f)
	require.NoError(t, err)
	list = data.(ChecklistData)
	require.Len(t, list.Options, 1)
	require.InDelta(t, 1.0, list.Percentage(), 1e-9)
}

func TestURLCellDerivesAddress(t *testing.T) {
	reg := NewRegistry()
	f := field.New("Link", field.URL)

	_, data, err := ApplyChangeset(reg, "example.com/docs", Cell{}, f)
	require.NoError(t, err)
	url := data.(URLData)
	require.Equal(t, "https://example.com/docs", url.URL)

	_, data, err = ApplyChangeset(reg, "http://example.com", Cell{}, f)
	require.NoError(t, err)
	require.Equal(t, "http://example.com", data.(URLData).URL)

	// Plain prose is content without an address.
	_, data, err = ApplyChangeset(reg, "just some words", Cell{}, f)
	require.NoError(t, err)
	require.Empty(t, data.(URLData).URL)
}

func TestCheckboxChangesetAcceptsBoolLikes(t *testing.T) {
	reg := NewRegistry()
	f := field.New("Done", field.Checkbox)

	for _, raw := range []string{"Yes", "true", "1"} {
		c, _, err := ApplyChangeset(reg, raw, Cell{}, f)
		require.NoError(t, err)
		require.Equal(t, Check, c.Raw)
	}
	for _, raw := range []string{"No", "false", "0", ""} {
		c, _, err := ApplyChangeset(reg, raw, Cell{}, f)
		require.NoError(t, err)
		require.Equal(t, Uncheck, c.Raw)
	}
	_, _, err := ApplyChangeset(reg, "maybe", Cell{}, f)
	require.ErrorIs(t, err, ErrInvalidData)
}
