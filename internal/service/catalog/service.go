package catalog

import (
	"context"
	"log"

	"greenhaven/internal/cache"
	"greenhaven/internal/domain"
	productrepo "greenhaven/internal/repository/product"

	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo  productRepo
	cache *cache.Cache
	group singleflight.Group
}

type productRepo interface {
	List(ctx context.Context, f productrepo.ListFilter) ([]domain.Product, int, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

func New(repo productRepo, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// ListResult pairs one page of products with the unpaged total.
type ListResult struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

func (s *Service) List(ctx context.Context, f productrepo.ListFilter) (*ListResult, error) {
	products, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	return &ListResult{Products: products, Total: total, Page: page, Limit: limit}, nil
}

// GetBySlug serves product detail pages cache-aside. Concurrent misses for
// the same slug collapse into one database read via singleflight.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	key := "product:slug:" + slug

	var cached domain.Product
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("catalog: cache read %s: %v", key, err)
	}
	if hit {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		p, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, p); err != nil {
			log.Printf("catalog: cache write %s: %v", key, err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const key = "categories"

	var cached []domain.Category
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("catalog: cache read %s: %v", key, err)
	}
	if hit {
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		categories, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		if categories == nil {
			categories = []domain.Category{}
		}
		if err := s.cache.Set(ctx, key, categories); err != nil {
			log.Printf("catalog: cache write %s: %v", key, err)
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Category), nil
}
