package cart

import (
	"context"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

// Service validates and stores cart snapshots for authenticated users.
type Service struct {
	repo cartRepo
}

type cartRepo interface {
	GetByUser(ctx context.Context, userID int64) ([]domain.CartItem, error)
	Replace(ctx context.Context, userID int64, items []cartrepo.ReplaceItem) error
}

func New(repo cartrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the stored cart joined with current product data.
func (s *Service) Get(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	items, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

// Sync replaces the stored cart with the submitted snapshot. The payload is
// normalized first: non-positive quantities drop the item and duplicate
// product ids collapse into one row with summed quantities, preserving the
// one-row-per-(user, product) invariant.
func (s *Service) Sync(ctx context.Context, userID int64, items []domain.CartItem) error {
	return s.repo.Replace(ctx, userID, Normalize(items))
}

// Normalize collapses duplicates and drops non-positive quantities while
// keeping first-seen order.
func Normalize(items []domain.CartItem) []cartrepo.ReplaceItem {
	index := map[int64]int{}
	out := make([]cartrepo.ReplaceItem, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(out)
		out = append(out, cartrepo.ReplaceItem{ProductID: item.ID, Quantity: item.Quantity})
	}

	filtered := out[:0]
	for _, item := range out {
		if item.Quantity > 0 {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
