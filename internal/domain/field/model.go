package field

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Field is a typed column definition in a grid database.
//
// TypeOptionData is an opaque, type-specific configuration blob. It is decoded
// on demand into one of the *TypeOption structs below; the stored shape is
// owned by whichever FieldType the field currently has. When the field type is
// switched the blob is replaced, but existing cells keep the type tag they
// were written under and are reconciled at decode time.
type Field struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	FieldType      FieldType       `json:"field_type"`
	TypeOptionData json.RawMessage `json:"type_option_data,omitempty"`
	Position       int             `json:"position"`
	CreatedAt      time.Time       `json:"created_at"`
}

// New creates a field of the given type with an empty type option.
func New(name string, fieldType FieldType) *Field {
	return &Field{
		ID:        uuid.NewString(),
		Name:      name,
		FieldType: fieldType,
		CreatedAt: time.Now(),
	}
}

// RichTextTypeOption has no configuration yet; the struct exists so every
// field type round-trips through the same machinery.
type RichTextTypeOption struct{}

// NumberTypeOption configures number formatting.
type NumberTypeOption struct {
	Format string `json:"format,omitempty"`
	Scale  int    `json:"scale,omitempty"`
}

// DateTypeOption configures date rendering.
type DateTypeOption struct {
	DateFormat  string `json:"date_format,omitempty"`
	TimeFormat  string `json:"time_format,omitempty"`
	IncludeTime bool   `json:"include_time,omitempty"`
}

// SelectTypeOption holds the configured options of a single- or multi-select
// field, in display order.
type SelectTypeOption struct {
	Options []SelectOption `json:"options"`
}

// Option returns the configured option with the given id.
func (o *SelectTypeOption) Option(id string) (SelectOption, bool) {
	for _, opt := range o.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return SelectOption{}, false
}

// CheckboxTypeOption has no configuration.
type CheckboxTypeOption struct{}

// URLTypeOption has no configuration.
type URLTypeOption struct{}

// ChecklistTypeOption has no configuration; checklist items live in the cell.
type ChecklistTypeOption struct{}

// DecodeTypeOption unmarshals a field's TypeOptionData into dst. A missing or
// malformed blob leaves dst at its zero value; type options always decode to
// something usable.
func DecodeTypeOption(f *Field, dst any) {
	if f == nil || len(f.TypeOptionData) == 0 {
		return
	}
	// Corrupt blobs degrade to the zero configuration.
	_ = json.Unmarshal(f.TypeOptionData, dst)
}

// EncodeTypeOption marshals a type option struct into a field's blob.
func EncodeTypeOption(f *Field, src any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	f.TypeOptionData = data
	return nil
}
