package domain

import "time"

// ProductStatus values a product can carry. Only active products are visible
// to the storefront.
const (
	ProductStatusActive   = "ACTIVE"
	ProductStatusDraft    = "DRAFT"
	ProductStatusArchived = "ARCHIVED"
)

type Product struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	Description      string         `json:"description,omitempty"`
	ShortDescription string         `json:"shortDescription,omitempty"`
	PriceCents       int64          `json:"priceCents"`
	CompareAtCents   *int64         `json:"compareAtCents,omitempty"`
	Currency         string         `json:"currency"`
	Inventory        int            `json:"inventory"`
	Status           string         `json:"status"`
	IsFeatured       bool           `json:"isFeatured"`
	Tags             string         `json:"tags,omitempty"`
	CategoryID       *string        `json:"categoryId,omitempty"`
	Category         *Category      `json:"category,omitempty"`
	Images           []ProductImage `json:"images,omitempty"`
	Variants         []Variant      `json:"variants,omitempty"`
	Reviews          []Review       `json:"reviews,omitempty"`
	AverageRating    float64        `json:"averageRating,omitempty"`
	ReviewCount      int            `json:"reviewCount,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// Variant is an independently stocked and priced sub-option of a product.
// Its price and inventory supersede the parent's when present.
type Variant struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku,omitempty"`
	PriceCents int64     `json:"priceCents"`
	Inventory  int       `json:"inventory"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ProductImage struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Alt      string `json:"alt,omitempty"`
	Position int    `json:"position"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}
