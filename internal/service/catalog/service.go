package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

// Resizer re-encodes an uploaded image to fit the catalog bounds.
type Resizer interface {
	FitProduct(data []byte, contentType string) ([]byte, error)
}

// Service exposes catalog browsing and admin CRUD.
type Service struct {
	repo    productrepo.Repository
	resizer Resizer
}

func New(repo productrepo.Repository, resizer Resizer) *Service {
	return &Service{repo: repo, resizer: resizer}
}

// Filter narrows and orders a product listing.
type Filter struct {
	Brand         string
	MinPriceCents int64
	MaxPriceCents int64 // 0 means unbounded
	Sort          string // "price_asc", "price_desc", "name", "" (newest first)
}

// PriceBucket is one rung of the dynamically generated price filter.
type PriceBucket struct {
	MinCents int64 `json:"minCents"`
	MaxCents int64 `json:"maxCents"`
	Count    int   `json:"count"`
}

func (s *Service) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return applyFilter(products, f), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

type CreateInput struct {
	Name        string
	Description string
	Brand       string
	PriceCents  int64
	Image       []byte
	ImageType   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name required")
	}
	if in.PriceCents < 0 {
		return nil, errors.New("price must not be negative")
	}
	image := in.Image
	if len(image) > 0 && s.resizer != nil {
		resized, err := s.resizer.FitProduct(image, in.ImageType)
		if err != nil {
			return nil, err
		}
		image = resized
	}
	return s.repo.Create(ctx, productrepo.CreateInput{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Brand:       strings.TrimSpace(in.Brand),
		PriceCents:  in.PriceCents,
		Image:       image,
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Brands lists the distinct brands present in the catalog, sorted.
func (s *Service) Brands(ctx context.Context) ([]string, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var brands []string
	for _, p := range products {
		b := strings.TrimSpace(p.Brand)
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		brands = append(brands, b)
	}
	sort.Strings(brands)
	return brands, nil
}

// PriceBuckets derives evenly sized price ranges from the live catalog so the
// filter UI always matches what is for sale.
func (s *Service) PriceBuckets(ctx context.Context, count int) ([]PriceBucket, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return buildPriceBuckets(products, count), nil
}

func applyFilter(products []domain.Product, f Filter) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
			continue
		}
		if p.PriceCents < f.MinPriceCents {
			continue
		}
		if f.MaxPriceCents > 0 && p.PriceCents > f.MaxPriceCents {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case "price_asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].PriceCents < out[j].PriceCents })
	case "price_desc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].PriceCents > out[j].PriceCents })
	case "name":
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	}
	return out
}

func buildPriceBuckets(products []domain.Product, count int) []PriceBucket {
	if len(products) == 0 || count <= 0 {
		return nil
	}
	min, max := products[0].PriceCents, products[0].PriceCents
	for _, p := range products[1:] {
		if p.PriceCents < min {
			min = p.PriceCents
		}
		if p.PriceCents > max {
			max = p.PriceCents
		}
	}
	if min == max {
		return []PriceBucket{{MinCents: min, MaxCents: max, Count: len(products)}}
	}

	span := (max - min + int64(count)) / int64(count)
	buckets := make([]PriceBucket, count)
	for i := range buckets {
		lo := min + int64(i)*span
		buckets[i] = PriceBucket{MinCents: lo, MaxCents: lo + span - 1}
	}
	buckets[count-1].MaxCents = max
	for _, p := range products {
		idx := int((p.PriceCents - min) / span)
		if idx >= count {
			idx = count - 1
		}
		buckets[idx].Count++
	}
	return buckets
}
