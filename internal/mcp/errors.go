package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/tabula/internal/domain/cell"
	"github.com/rpggio/tabula/internal/domain/filter"
	"github.com/rpggio/tabula/internal/domain/group"
	"github.com/rpggio/tabula/internal/domain/view"
	"github.com/rpggio/tabula/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors pass through
// unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, view.ErrFieldNotFound):
		return &APIError{Code: "FIELD_NOT_FOUND", Message: "field not found", RecoveryHint: "Call list_fields for valid ids"}
	case errors.Is(err, view.ErrRowNotFound), errors.Is(err, group.ErrRowNotFound):
		return &APIError{Code: "ROW_NOT_FOUND", Message: "row not found", RecoveryHint: "Call get_rows for valid ids"}
	case errors.Is(err, view.ErrNotGrouped):
		return &APIError{Code: "NOT_GROUPED", Message: "view has no grouping field", RecoveryHint: "Call set_group_field first"}
	case errors.Is(err, group.ErrGroupNotFound):
		return &APIError{Code: "GROUP_NOT_FOUND", Message: "group not found", RecoveryHint: "Call list_groups for valid ids"}
	case errors.Is(err, group.ErrNotGroupable):
		return &APIError{Code: "NOT_GROUPABLE", Message: "field type cannot be grouped", RecoveryHint: "Group by a select, checkbox, URL, or checklist field"}
	case errors.Is(err, filter.ErrFilterNotFound):
		return &APIError{Code: "FILTER_NOT_FOUND", Message: "filter not found", RecoveryHint: "Call list_filters for valid ids"}
	case errors.Is(err, cell.ErrTextTooLong):
		return &APIError{Code: "TEXT_TOO_LONG", Message: fmt.Sprintf("text exceeds %d characters", cell.MaxTextLength)}
	case errors.Is(err, cell.ErrInvalidData):
		return &APIError{Code: "INVALID_CELL_DATA", Message: "changeset payload is not valid for the field type"}
	case errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "not found"}
	default:
		return err
	}
}
