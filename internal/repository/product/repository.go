package product

import (
	"context"

	"storefront/internal/domain"
)

type CreateInput struct {
	Name        string
	Description string
	Brand       string
	PriceCents  int64
	Image       []byte
}

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in CreateInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}
