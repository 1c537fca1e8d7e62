package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type categorySeed struct {
	Name string
	Slug string
}

type productSeed struct {
	Name             string
	Slug             string
	Description      string
	ShortDescription string
	PriceCents       int64
	CompareAtCents   *int64
	Inventory        int
	IsFeatured       bool
	Tags             string
	CategorySlug     string
	ImageURL         string
	Variants         []variantSeed
}

type variantSeed struct {
	Name       string
	SKU        string
	PriceCents int64
	Inventory  int
}

func cents(v int64) *int64 { return &v }

// Apply inserts demo catalog data for manual testing. It is idempotent via
// ON CONFLICT on the slug columns.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := []categorySeed{
		{Name: "Indoor Plants", Slug: "indoor-plants"},
		{Name: "Outdoor Plants", Slug: "outdoor-plants"},
		{Name: "Pots & Planters", Slug: "pots-planters"},
		{Name: "Care & Tools", Slug: "care-tools"},
	}
	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		id, err := upsertCategory(ctx, pool, c)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = id
	}

	products := []productSeed{
		{
			Name:             "Monstera Deliciosa",
			Slug:             "monstera-deliciosa",
			Description:      "The Swiss cheese plant, famous for its split leaves. Thrives in bright indirect light.",
			ShortDescription: "Iconic split-leaf houseplant",
			PriceCents:       4999,
			CompareAtCents:   cents(5999),
			Inventory:        25,
			IsFeatured:       true,
			Tags:             "easy-care,low-light,popular",
			CategorySlug:     "indoor-plants",
			ImageURL:         "https://images.greenhaven.dev/monstera.jpg",
			Variants: []variantSeed{
				{Name: `4" pot`, SKU: "MON-4", PriceCents: 2999, Inventory: 40},
				{Name: `8" pot`, SKU: "MON-8", PriceCents: 4999, Inventory: 25},
				{Name: `12" pot`, SKU: "MON-12", PriceCents: 8999, Inventory: 10},
			},
		},
		{
			Name:             "Snake Plant",
			Slug:             "snake-plant",
			Description:      "Sansevieria trifasciata tolerates neglect, low light, and irregular watering.",
			ShortDescription: "Nearly indestructible",
			PriceCents:       2499,
			Inventory:        60,
			IsFeatured:       true,
			Tags:             "easy-care,low-light,air-purifying",
			CategorySlug:     "indoor-plants",
			ImageURL:         "https://images.greenhaven.dev/snake-plant.jpg",
		},
		{
			Name:             "Lavender",
			Slug:             "lavender",
			Description:      "Fragrant perennial for sunny borders and containers. Drought tolerant once established.",
			ShortDescription: "Fragrant sun-lover",
			PriceCents:       1299,
			Inventory:        80,
			Tags:             "fragrant,perennial,pollinator",
			CategorySlug:     "outdoor-plants",
			ImageURL:         "https://images.greenhaven.dev/lavender.jpg",
		},
		{
			Name:             "Terracotta Planter",
			Slug:             "terracotta-planter",
			Description:      "Classic unglazed terracotta with drainage hole and saucer.",
			ShortDescription: "Classic clay pot",
			PriceCents:       1599,
			Inventory:        120,
			Tags:             "pots,classic",
			CategorySlug:     "pots-planters",
			ImageURL:         "https://images.greenhaven.dev/terracotta.jpg",
			Variants: []variantSeed{
				{Name: `6"`, SKU: "TER-6", PriceCents: 1599, Inventory: 70},
				{Name: `10"`, SKU: "TER-10", PriceCents: 2899, Inventory: 50},
			},
		},
		{
			Name:             "Pruning Shears",
			Slug:             "pruning-shears",
			Description:      "Bypass pruners with hardened steel blades, suitable for stems up to 20mm.",
			ShortDescription: "Sharp and ergonomic",
			PriceCents:       2199,
			Inventory:        45,
			Tags:             "tools",
			CategorySlug:     "care-tools",
			ImageURL:         "https://images.greenhaven.dev/shears.jpg",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, categoryIDs[p.CategorySlug], p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	return nil
}

func upsertCategory(ctx context.Context, pool *pgxpool.Pool, c categorySeed) (string, error) {
	const q = `
INSERT INTO categories (name, slug)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, c.Name, c.Slug).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, categoryID string, p productSeed) error {
	const q = `
INSERT INTO products (name, slug, description, short_description, price_cents, compare_at_cents,
                      inventory, status, is_featured, tags, category_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'ACTIVE', $8, $9, $10)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    short_description = EXCLUDED.short_description,
    price_cents = EXCLUDED.price_cents,
    compare_at_cents = EXCLUDED.compare_at_cents,
    is_featured = EXCLUDED.is_featured,
    tags = EXCLUDED.tags,
    category_id = EXCLUDED.category_id
RETURNING id::text
`
	var productID string
	err := pool.QueryRow(ctx, q,
		p.Name, p.Slug, p.Description, p.ShortDescription, p.PriceCents, p.CompareAtCents,
		p.Inventory, p.IsFeatured, p.Tags, categoryID,
	).Scan(&productID)
	if err != nil {
		return err
	}

	if p.ImageURL != "" {
		const imgQ = `
INSERT INTO product_images (product_id, url, alt, position)
SELECT $1, $2, $3, 0
WHERE NOT EXISTS (SELECT 1 FROM product_images WHERE product_id = $1 AND url = $2)
`
		if _, err := pool.Exec(ctx, imgQ, productID, p.ImageURL, p.Name); err != nil {
			return err
		}
	}

	for _, v := range p.Variants {
		const varQ = `
INSERT INTO product_variants (product_id, name, sku, price_cents, inventory)
SELECT $1, $2, $3, $4, $5
WHERE NOT EXISTS (SELECT 1 FROM product_variants WHERE product_id = $1 AND sku = $3)
`
		if _, err := pool.Exec(ctx, varQ, productID, v.Name, v.SKU, v.PriceCents, v.Inventory); err != nil {
			return err
		}
	}

	return nil
}
