package field

import "github.com/google/uuid"

// SelectOption is one choice of a select field. Its id doubles as the group
// id when a view groups rows by the owning field.
type SelectOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// NewSelectOption creates an option with a fresh id.
func NewSelectOption(name string) SelectOption {
	return SelectOption{
		ID:   uuid.NewString(),
		Name: name,
	}
}
