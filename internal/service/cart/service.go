package cart

import (
	"context"
	"strings"

	"greenhaven/internal/domain"
)

type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	AddItem(ctx context.Context, userID, productID string, variantID *string, quantity int) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetVariant(ctx context.Context, id string) (*domain.Variant, error)
}

func New(repo cartRepo, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

type AddInput struct {
	ProductID string  `json:"productId"`
	VariantID *string `json:"variantId,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Summary is a cart plus its computed subtotal, the shape the cart endpoints
// return.
type Summary struct {
	Items         []domain.CartItem `json:"items"`
	ItemCount     int               `json:"itemCount"`
	SubtotalCents int64             `json:"subtotalCents"`
}

// Add validates the product (and variant, when given) exists and is active,
// then delegates the atomic upsert to the repository.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (*domain.CartItem, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.ErrNotFound
	}
	if in.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	p, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if in.VariantID != nil {
		v, err := s.products.GetVariant(ctx, *in.VariantID)
		if err != nil {
			return nil, err
		}
		if v.ProductID != p.ID {
			return nil, domain.ErrNotFound
		}
	}
	return s.repo.AddItem(ctx, userID, in.ProductID, in.VariantID, in.Quantity)
}

// UpdateQuantity sets the line to an absolute quantity. Quantities below one
// are rejected; removal is its own operation.
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.repo.UpdateQuantity(ctx, userID, itemID, quantity)
}

func (s *Service) Remove(ctx context.Context, userID, itemID string) error {
	return s.repo.RemoveItem(ctx, userID, itemID)
}

// Get returns the cart with totals. An empty cart is a valid summary, not an
// error.
func (s *Service) Get(ctx context.Context, userID string) (*Summary, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(items), nil
}

func summarize(items []domain.CartItem) *Summary {
	sum := &Summary{Items: items}
	if sum.Items == nil {
		sum.Items = []domain.CartItem{}
	}
	for _, item := range items {
		sum.ItemCount += item.Quantity
		sum.SubtotalCents += item.UnitPriceCents() * int64(item.Quantity)
	}
	return sum
}
