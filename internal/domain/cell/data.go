package cell

import (
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/tabula/internal/domain/field"
)

// Data is the decoded, typed value of a cell. The set of implementations is
// closed over the FieldType enumeration; every type has a usable zero value
// so decoding is total.
type Data interface {
	FieldType() field.FieldType
	IsEmpty() bool
	// String renders the value the way a grid cell would display it.
	String() string
}

// TextData is rich-text cell content.
type TextData string

func (TextData) FieldType() field.FieldType { return field.RichText }
func (d TextData) IsEmpty() bool            { return d == "" }
func (d TextData) String() string           { return string(d) }

// NumberData is a numeric cell value. Valid is false when the cell is empty
// or its payload does not parse.
type NumberData struct {
	Raw   string
	Value float64
	Valid bool
}

func (NumberData) FieldType() field.FieldType { return field.Number }
func (d NumberData) IsEmpty() bool            { return !d.Valid }

func (d NumberData) String() string {
	if !d.Valid {
		return ""
	}
	return d.Raw
}

// DateData is a date cell value as a unix timestamp in seconds.
type DateData struct {
	Timestamp   int64
	IncludeTime bool
	Valid       bool
}

func (DateData) FieldType() field.FieldType { return field.DateTime }
func (d DateData) IsEmpty() bool            { return !d.Valid }

func (d DateData) String() string {
	if !d.Valid {
		return ""
	}
	t := time.Unix(d.Timestamp, 0).UTC()
	if d.IncludeTime {
		return t.Format("Jan 02, 2006 15:04")
	}
	return t.Format("Jan 02, 2006")
}

// SelectData is the resolved selection of a select cell: the configured
// options whose ids the cell stores, in stored order.
type SelectData struct {
	Type    field.FieldType
	Options []field.SelectOption
}

func (d SelectData) FieldType() field.FieldType { return d.Type }
func (d SelectData) IsEmpty() bool              { return len(d.Options) == 0 }

func (d SelectData) String() string {
	names := make([]string, 0, len(d.Options))
	for _, opt := range d.Options {
		names = append(names, opt.Name)
	}
	return strings.Join(names, ",")
}

// OptionIDs returns the selected option ids in stored order.
func (d SelectData) OptionIDs() []string {
	ids := make([]string, 0, len(d.Options))
	for _, opt := range d.Options {
		ids = append(ids, opt.ID)
	}
	return ids
}

// CheckboxData is a checkbox cell value.
type CheckboxData bool

func (CheckboxData) FieldType() field.FieldType { return field.Checkbox }
func (d CheckboxData) IsEmpty() bool            { return !bool(d) }

func (d CheckboxData) String() string {
	if d {
		return Check
	}
	return Uncheck
}

// URLData is a URL cell value: the text the user typed plus the navigable
// address derived from it.
type URLData struct {
	Content string
	URL     string
}

func (URLData) FieldType() field.FieldType { return field.URL }
func (d URLData) IsEmpty() bool            { return d.Content == "" }
func (d URLData) String() string           { return d.Content }

// ChecklistData is a checklist cell value: its items and which are done.
type ChecklistData struct {
	Options     []field.SelectOption
	SelectedIDs []string
}

func (ChecklistData) FieldType() field.FieldType { return field.Checklist }
func (d ChecklistData) IsEmpty() bool            { return len(d.Options) == 0 }

// Percentage is the fraction of items done, in [0, 1].
func (d ChecklistData) Percentage() float64 {
	if len(d.Options) == 0 {
		return 0
	}
	done := 0
	for _, opt := range d.Options {
		for _, id := range d.SelectedIDs {
			if id == opt.ID {
				done++
				break
			}
		}
	}
	return float64(done) / float64(len(d.Options))
}

func (d ChecklistData) String() string {
	return strconv.FormatFloat(d.Percentage(), 'f', 2, 64)
}

// selected reports whether the option id is marked done.
func (d ChecklistData) selected(id string) bool {
	for _, s := range d.SelectedIDs {
		if s == id {
			return true
		}
	}
	return false
}
