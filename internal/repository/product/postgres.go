package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"greenhaven/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `
p.id::text, p.name, p.slug, p.description, p.short_description, p.price_cents, p.compare_at_cents,
p.currency, p.inventory, p.status, p.is_featured, p.tags, p.category_id::text, p.created_at,
c.id::text, c.name, c.slug,
COALESCE((SELECT AVG(rating) FROM reviews WHERE product_id = p.id AND is_approved), 0)::float8,
COALESCE((SELECT COUNT(*) FROM reviews WHERE product_id = p.id AND is_approved), 0)::int`

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Product, int, error) {
	where := []string{"p.status = 'ACTIVE'"}
	var args []interface{}

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d OR p.short_description ILIKE $%d OR p.tags ILIKE $%d)", n, n, n, n))
	}
	if len(f.CategoryIDs) > 0 {
		args = append(args, f.CategoryIDs)
		where = append(where, fmt.Sprintf("p.category_id = ANY($%d)", len(args)))
	}
	if f.MinPriceCents != nil {
		args = append(args, *f.MinPriceCents)
		where = append(where, fmt.Sprintf("p.price_cents >= $%d", len(args)))
	}
	if f.MaxPriceCents != nil {
		args = append(args, *f.MaxPriceCents)
		where = append(where, fmt.Sprintf("p.price_cents <= $%d", len(args)))
	}
	if f.InStock {
		where = append(where, "p.inventory > 0")
	}
	if f.Featured {
		where = append(where, "p.is_featured")
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM products p WHERE " + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Printf("product repo: count error=%v", err)
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`
SELECT %s
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
WHERE %s
ORDER BY %s
LIMIT $%d OFFSET $%d
`, productColumns, whereClause, orderClause(f.SortBy), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachImages(ctx, products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
WHERE p.slug = $1 AND p.status = 'ACTIVE'
LIMIT 1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.loadDetails(ctx, p)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
WHERE p.id = $1 AND p.status = 'ACTIVE'
LIMIT 1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.loadDetails(ctx, p)
}

func (r *postgresRepo) GetVariant(ctx context.Context, id string) (*domain.Variant, error) {
	const q = `
SELECT id::text, product_id::text, name, sku, price_cents, inventory, created_at
FROM product_variants
WHERE id = $1
LIMIT 1
`
	var v domain.Variant
	err := r.pool.QueryRow(ctx, q, id).Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.PriceCents, &v.Inventory, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *postgresRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const q = `SELECT id::text, name, slug, created_at FROM categories ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// loadDetails attaches images, variants, and approved reviews to a product.
func (r *postgresRepo) loadDetails(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	products := []domain.Product{*p}
	if err := r.attachImages(ctx, products); err != nil {
		return nil, err
	}
	out := products[0]

	const variantsQuery = `
SELECT id::text, product_id::text, name, sku, price_cents, inventory, created_at
FROM product_variants
WHERE product_id = $1
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, variantsQuery, out.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.PriceCents, &v.Inventory, &v.CreatedAt); err != nil {
			return nil, err
		}
		out.Variants = append(out.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const reviewsQuery = `
SELECT r.id::text, r.user_id::text, r.product_id::text, r.rating, r.title, r.content, r.is_approved,
       trim(u.first_name || ' ' || u.last_name), r.created_at
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.product_id = $1 AND r.is_approved
ORDER BY r.created_at DESC
`
	reviewRows, err := r.pool.Query(ctx, reviewsQuery, out.ID)
	if err != nil {
		return nil, err
	}
	defer reviewRows.Close()
	for reviewRows.Next() {
		var rev domain.Review
		if err := reviewRows.Scan(&rev.ID, &rev.UserID, &rev.ProductID, &rev.Rating, &rev.Title, &rev.Content, &rev.IsApproved, &rev.AuthorName, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out.Reviews = append(out.Reviews, rev)
	}
	if err := reviewRows.Err(); err != nil {
		return nil, err
	}

	return &out, nil
}

func (r *postgresRepo) attachImages(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	index := make(map[string]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}

	const q = `
SELECT id::text, product_id::text, url, alt, position
FROM product_images
WHERE product_id = ANY($1)
ORDER BY position ASC
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.ProductImage
		var productID string
		if err := rows.Scan(&img.ID, &productID, &img.URL, &img.Alt, &img.Position); err != nil {
			return err
		}
		if i, ok := index[productID]; ok {
			products[i].Images = append(products[i].Images, img)
		}
	}
	return rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var catID, catName, catSlug *string
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.ShortDescription,
		&p.PriceCents,
		&p.CompareAtCents,
		&p.Currency,
		&p.Inventory,
		&p.Status,
		&p.IsFeatured,
		&p.Tags,
		&p.CategoryID,
		&p.CreatedAt,
		&catID,
		&catName,
		&catSlug,
		&p.AverageRating,
		&p.ReviewCount,
	)
	if err != nil {
		return nil, err
	}
	if catID != nil {
		p.Category = &domain.Category{ID: *catID, Name: *catName, Slug: *catSlug}
	}
	return &p, nil
}

func orderClause(sortBy string) string {
	switch sortBy {
	case "name":
		return "p.name ASC"
	case "-name":
		return "p.name DESC"
	case "price":
		return "p.price_cents ASC"
	case "-price":
		return "p.price_cents DESC"
	case "createdAt":
		return "p.created_at ASC"
	case "-createdAt":
		return "p.created_at DESC"
	default:
		return "p.name ASC"
	}
}
