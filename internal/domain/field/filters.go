package field

import "strings"

// CellFilter is a type-specific filter predicate hydrated from a persisted
// filter record. The concrete type is determined by the field type the filter
// was created against; the set is closed.
type CellFilter interface {
	isCellFilter()
}

// TextFilterCondition enumerates text filter predicates.
type TextFilterCondition int64

const (
	TextIs TextFilterCondition = iota
	TextIsNot
	TextContains
	TextDoesNotContain
	TextStartsWith
	TextEndsWith
	TextIsEmpty
	TextIsNotEmpty
)

// TextFilter matches rich-text and URL cell content.
type TextFilter struct {
	Condition TextFilterCondition `json:"condition"`
	Content   string              `json:"content"`
}

func (TextFilter) isCellFilter() {}

// IsVisible reports whether the given cell text passes the filter.
// Comparisons are case-insensitive.
func (f TextFilter) IsVisible(content string) bool {
	text := strings.ToLower(content)
	want := strings.ToLower(f.Content)
	switch f.Condition {
	case TextIs:
		return text == want
	case TextIsNot:
		return text != want
	case TextContains:
		return strings.Contains(text, want)
	case TextDoesNotContain:
		return !strings.Contains(text, want)
	case TextStartsWith:
		return strings.HasPrefix(text, want)
	case TextEndsWith:
		return strings.HasSuffix(text, want)
	case TextIsEmpty:
		return text == ""
	case TextIsNotEmpty:
		return text != ""
	default:
		return true
	}
}

// NumberFilterCondition enumerates number filter predicates.
type NumberFilterCondition int64

const (
	NumberEqual NumberFilterCondition = iota
	NumberNotEqual
	NumberGreaterThan
	NumberLessThan
	NumberGreaterThanOrEqual
	NumberLessThanOrEqual
	NumberIsEmpty
	NumberIsNotEmpty
)

// NumberFilter matches numeric cell values.
type NumberFilter struct {
	Condition NumberFilterCondition `json:"condition"`
	Content   float64               `json:"content"`
}

func (NumberFilter) isCellFilter() {}

// IsVisible reports whether a numeric value passes the filter. hasValue is
// false for empty or unparseable cells.
func (f NumberFilter) IsVisible(value float64, hasValue bool) bool {
	switch f.Condition {
	case NumberIsEmpty:
		return !hasValue
	case NumberIsNotEmpty:
		return hasValue
	}
	if !hasValue {
		return false
	}
	switch f.Condition {
	case NumberEqual:
		return value == f.Content
	case NumberNotEqual:
		return value != f.Content
	case NumberGreaterThan:
		return value > f.Content
	case NumberLessThan:
		return value < f.Content
	case NumberGreaterThanOrEqual:
		return value >= f.Content
	case NumberLessThanOrEqual:
		return value <= f.Content
	default:
		return true
	}
}

// DateFilterCondition enumerates date filter predicates.
type DateFilterCondition int64

const (
	DateIs DateFilterCondition = iota
	DateBefore
	DateAfter
	DateOnOrBefore
	DateOnOrAfter
	DateWithin
	DateIsEmpty
	DateIsNotEmpty
)

// DateFilter matches date cells at day granularity.
type DateFilter struct {
	Condition DateFilterCondition `json:"condition"`
	Timestamp int64               `json:"timestamp,omitempty"`
	Start     int64               `json:"start,omitempty"`
	End       int64               `json:"end,omitempty"`
}

func (DateFilter) isCellFilter() {}

const secondsPerDay = 24 * 60 * 60

func dayOf(ts int64) int64 {
	// Floor division so negative timestamps land on the right day.
	day := ts / secondsPerDay
	if ts%secondsPerDay < 0 {
		day--
	}
	return day
}

// IsVisible reports whether a timestamp passes the filter. hasValue is false
// for cells without a date.
func (f DateFilter) IsVisible(timestamp int64, hasValue bool) bool {
	switch f.Condition {
	case DateIsEmpty:
		return !hasValue
	case DateIsNotEmpty:
		return hasValue
	}
	if !hasValue {
		return false
	}
	day := dayOf(timestamp)
	switch f.Condition {
	case DateIs:
		return day == dayOf(f.Timestamp)
	case DateBefore:
		return day < dayOf(f.Timestamp)
	case DateAfter:
		return day > dayOf(f.Timestamp)
	case DateOnOrBefore:
		return day <= dayOf(f.Timestamp)
	case DateOnOrAfter:
		return day >= dayOf(f.Timestamp)
	case DateWithin:
		return day >= dayOf(f.Start) && day <= dayOf(f.End)
	default:
		return true
	}
}

// SelectOptionFilterCondition enumerates select filter predicates.
type SelectOptionFilterCondition int64

const (
	OptionIs SelectOptionFilterCondition = iota
	OptionIsNot
	OptionIsEmpty
	OptionIsNotEmpty
)

// SelectOptionFilter matches select cells against a set of option ids.
type SelectOptionFilter struct {
	Condition SelectOptionFilterCondition `json:"condition"`
	OptionIDs []string                    `json:"option_ids"`
}

func (SelectOptionFilter) isCellFilter() {}

// IsVisible reports whether a cell holding the given selected option ids
// passes the filter.
func (f SelectOptionFilter) IsVisible(selectedIDs []string) bool {
	switch f.Condition {
	case OptionIsEmpty:
		return len(selectedIDs) == 0
	case OptionIsNotEmpty:
		return len(selectedIDs) > 0
	}
	overlap := false
	for _, id := range selectedIDs {
		for _, want := range f.OptionIDs {
			if id == want {
				overlap = true
			}
		}
	}
	switch f.Condition {
	case OptionIs:
		return overlap
	case OptionIsNot:
		return !overlap
	default:
		return true
	}
}

// CheckboxFilterCondition enumerates checkbox filter predicates.
type CheckboxFilterCondition int64

const (
	CheckboxIsChecked CheckboxFilterCondition = iota
	CheckboxIsUnchecked
)

// CheckboxFilter matches checkbox cells.
type CheckboxFilter struct {
	Condition CheckboxFilterCondition `json:"condition"`
}

func (CheckboxFilter) isCellFilter() {}

func (f CheckboxFilter) IsVisible(checked bool) bool {
	if f.Condition == CheckboxIsChecked {
		return checked
	}
	return !checked
}

// ChecklistFilterCondition enumerates checklist filter predicates.
type ChecklistFilterCondition int64

const (
	ChecklistIsComplete ChecklistFilterCondition = iota
	ChecklistIsIncomplete
)

// ChecklistFilter matches checklist cells by completion.
type ChecklistFilter struct {
	Condition ChecklistFilterCondition `json:"condition"`
}

func (ChecklistFilter) isCellFilter() {}

// IsVisible reports whether a checklist with the given completion percentage
// passes the filter. A checklist with no items is never complete.
func (f ChecklistFilter) IsVisible(percentage float64, hasItems bool) bool {
	complete := hasItems && percentage >= 1.0
	if f.Condition == ChecklistIsComplete {
		return complete
	}
	return !complete
}
