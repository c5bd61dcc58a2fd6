package group

import (
	"context"

	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/row"
)

// Delegate supplies the controller with the view state it groups over.
type Delegate interface {
	// GetGroupField returns the view's grouping field, or nil when
	// grouping is not configured.
	GetGroupField(ctx context.Context, viewID string) (*field.Field, error)

	// GetRows returns the view's rows in position order.
	GetRows(ctx context.Context, viewID string) ([]*row.Row, error)

	// GetRow returns a row and its position index, or a nil row when it no
	// longer exists.
	GetRow(ctx context.Context, viewID, rowID string) (int, *row.Row, error)
}
