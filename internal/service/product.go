package service

import (
	"context"
	"fmt"
	"storefront-api/internal/cache"
	"storefront-api/internal/client"
	"storefront-api/internal/config"
	"storefront-api/internal/model"
)

// ProductService fronts the external catalog with the TTL cache. A miss only
// costs a provider round trip, so cache state is never treated as
// authoritative.
type ProductService interface {
	List(ctx context.Context, limit, skip int64, sortBy, order string) (*model.ProductPage, error)
	Search(ctx context.Context, query string, limit, skip int64) (*model.ProductPage, error)
	Categories(ctx context.Context) ([]model.Category, error)
	ByCategory(ctx context.Context, slug string, limit, skip int64) (*model.ProductPage, error)
	Get(ctx context.Context, productID string) (*model.Product, error)
	InvalidateListings()
}

type productServiceImpl struct {
	catalog client.CatalogClient
	cache   *cache.Cache
	ttls    *config.Cache
}

func NewProductService(catalog client.CatalogClient, c *cache.Cache, ttls *config.Cache) ProductService {
	return &productServiceImpl{
		catalog: catalog,
		cache:   c,
		ttls:    ttls,
	}
}

func (s *productServiceImpl) List(ctx context.Context, limit, skip int64, sortBy, order string) (*model.ProductPage, error) {
	key := fmt.Sprintf("products:list:%d:%d:%s:%s", limit, skip, sortBy, order)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.ProductPage), nil
	}

	page, err := s.catalog.List(ctx, limit, skip, sortBy, order)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, page, s.ttls.ListTTL)
	return page, nil
}

func (s *productServiceImpl) Search(ctx context.Context, query string, limit, skip int64) (*model.ProductPage, error) {
	key := fmt.Sprintf("products:search:%s:%d:%d", query, limit, skip)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.ProductPage), nil
	}

	page, err := s.catalog.Search(ctx, query, limit, skip)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, page, s.ttls.SearchTTL)
	return page, nil
}

func (s *productServiceImpl) Categories(ctx context.Context) ([]model.Category, error) {
	const key = "categories"
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]model.Category), nil
	}

	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, categories, s.ttls.CategoryTTL)
	return categories, nil
}

func (s *productServiceImpl) ByCategory(ctx context.Context, slug string, limit, skip int64) (*model.ProductPage, error) {
	key := fmt.Sprintf("products:category:%s:%d:%d", slug, limit, skip)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.ProductPage), nil
	}

	page, err := s.catalog.ByCategory(ctx, slug, limit, skip)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, page, s.ttls.ListTTL)
	return page, nil
}

func (s *productServiceImpl) Get(ctx context.Context, productID string) (*model.Product, error) {
	key := "products:detail:" + productID
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Product), nil
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, product, s.ttls.DetailTTL)
	return product, nil
}

// InvalidateListings drops cached listing and search pages, leaving detail
// and category entries to age out on their own TTLs.
func (s *productServiceImpl) InvalidateListings() {
	s.cache.DeletePrefix("products:list:")
	s.cache.DeletePrefix("products:search:")
}
