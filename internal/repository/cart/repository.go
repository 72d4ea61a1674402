package cart

import (
	"context"

	"storefront/internal/domain"
)

// ReplaceItem is one row of a full-replace sync payload.
type ReplaceItem struct {
	ProductID int64
	Quantity  int
}

type Repository interface {
	// GetByUser returns the stored cart joined with current product data,
	// most recently added first.
	GetByUser(ctx context.Context, userID int64) ([]domain.CartItem, error)
	// Replace swaps the user's stored cart for the given items in a single
	// transaction. Any failure rolls the whole operation back.
	Replace(ctx context.Context, userID int64, items []ReplaceItem) error
}
