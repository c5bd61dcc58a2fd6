package field

// FieldType enumerates the supported column types of a grid.
//
// The numeric values are persisted inside cells (a cell remembers the type it
// was written under), so they must stay stable.
type FieldType int64

const (
	RichText     FieldType = 0
	Number       FieldType = 1
	DateTime     FieldType = 2
	SingleSelect FieldType = 3
	MultiSelect  FieldType = 4
	Checkbox     FieldType = 5
	URL          FieldType = 6
	Checklist    FieldType = 7
)

func (t FieldType) String() string {
	switch t {
	case RichText:
		return "RichText"
	case Number:
		return "Number"
	case DateTime:
		return "DateTime"
	case SingleSelect:
		return "SingleSelect"
	case MultiSelect:
		return "MultiSelect"
	case Checkbox:
		return "Checkbox"
	case URL:
		return "URL"
	case Checklist:
		return "Checklist"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	return t >= RichText && t <= Checklist
}

func (t FieldType) IsText() bool   { return t == RichText }
func (t FieldType) IsNumber() bool { return t == Number }
func (t FieldType) IsDate() bool   { return t == DateTime }
func (t FieldType) IsURL() bool    { return t == URL }

// IsSelect reports whether cells of this type store select-option ids.
func (t FieldType) IsSelect() bool {
	return t == SingleSelect || t == MultiSelect
}

// Groupable reports whether a board view can group rows by this field type.
func (t FieldType) Groupable() bool {
	switch t {
	case SingleSelect, MultiSelect, Checkbox, URL, Checklist:
		return true
	default:
		return false
	}
}
