package filter

import (
	"context"

	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/row"
)

// Delegate supplies the controller with the view state it filters over. The
// controller never persists anything itself.
type Delegate interface {
	// GetFilters returns the view's persisted filters.
	GetFilters(ctx context.Context, viewID string) ([]*Filter, error)

	// GetField returns a field by id, or nil when it no longer exists.
	GetField(ctx context.Context, fieldID string) (*field.Field, error)

	// GetRows returns the view's rows in position order.
	GetRows(ctx context.Context, viewID string) ([]*row.Row, error)

	// GetRow returns a row and its position index, or a nil row when it no
	// longer exists.
	GetRow(ctx context.Context, viewID, rowID string) (int, *row.Row, error)
}
