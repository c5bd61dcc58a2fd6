package cell

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rpggio/tabula/internal/domain/field"
)

// DateChangeset is the edit payload of a date cell.
type DateChangeset struct {
	Timestamp   *int64 `json:"timestamp"`
	IncludeTime *bool  `json:"include_time,omitempty"`
}

type dateTypeOption struct{}

func (d *dateTypeOption) FieldType() field.FieldType { return field.DateTime }

func (d *dateTypeOption) DecodeCell(c Cell, fromType field.FieldType, f *field.Field) Data {
	// Dates refuse foreign cells: a stringified text or number is not a
	// trustworthy timestamp.
	if fromType != field.DateTime || c.Empty() {
		return DateData{}
	}
	ts, err := strconv.ParseInt(c.Raw, 10, 64)
	if err != nil {
		return DateData{}
	}
	var opt field.DateTypeOption
	field.DecodeTypeOption(f, &opt)
	return DateData{Timestamp: ts, IncludeTime: opt.IncludeTime, Valid: true}
}

func (d *dateTypeOption) ApplyChangeset(changeset string, old Cell, f *field.Field) (Cell, Data, error) {
	var cs DateChangeset
	if err := json.Unmarshal([]byte(changeset), &cs); err != nil {
		return Cell{}, nil, fmt.Errorf("date changeset: %w", ErrInvalidData)
	}
	if cs.Timestamp == nil {
		return Cell{FieldType: field.DateTime}, DateData{}, nil
	}
	var opt field.DateTypeOption
	field.DecodeTypeOption(f, &opt)
	includeTime := opt.IncludeTime
	if cs.IncludeTime != nil {
		includeTime = *cs.IncludeTime
	}
	next := Cell{FieldType: field.DateTime, Raw: strconv.FormatInt(*cs.Timestamp, 10)}
	return next, DateData{Timestamp: *cs.Timestamp, IncludeTime: includeTime, Valid: true}, nil
}

func (d *dateTypeOption) FilterMatch(flt field.CellFilter, data Data) bool {
	dateFilter, ok := flt.(field.DateFilter)
	if !ok {
		return true
	}
	date, ok := data.(DateData)
	if !ok {
		return true
	}
	return dateFilter.IsVisible(date.Timestamp, date.Valid)
}

func (d *dateTypeOption) Compare(a, b Data) int {
	left, _ := a.(DateData)
	right, _ := b.(DateData)
	switch {
	case !left.Valid && !right.Valid:
		return 0
	case !left.Valid:
		return -1
	case !right.Valid:
		return 1
	case left.Timestamp < right.Timestamp:
		return -1
	case left.Timestamp > right.Timestamp:
		return 1
	default:
		return 0
	}
}
