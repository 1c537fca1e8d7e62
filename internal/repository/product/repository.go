package product

import (
	"context"

	"greenhaven/internal/domain"
)

// ListFilter narrows and orders the catalog listing. Zero values mean
// "no constraint". SortBy accepts name, price, createdAt, each optionally
// prefixed with '-' for descending.
type ListFilter struct {
	Search        string
	CategoryIDs   []string
	MinPriceCents *int64
	MaxPriceCents *int64
	InStock       bool
	Featured      bool
	SortBy        string
	Page          int
	Limit         int
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]domain.Product, int, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetVariant(ctx context.Context, id string) (*domain.Variant, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
