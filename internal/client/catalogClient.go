package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"storefront-api/internal/apperr"
	"storefront-api/internal/config"
	"storefront-api/internal/model"
	"time"
)

// CatalogClient reads the external product catalog. The provider is
// read-only; nothing here mutates upstream state.
type CatalogClient interface {
	List(ctx context.Context, limit, skip int64, sortBy, order string) (*model.ProductPage, error)
	Search(ctx context.Context, query string, limit, skip int64) (*model.ProductPage, error)
	Categories(ctx context.Context) ([]model.Category, error)
	ByCategory(ctx context.Context, slug string, limit, skip int64) (*model.ProductPage, error)
	Get(ctx context.Context, productID string) (*model.Product, error)
}

type catalogClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

func NewCatalogClient(cfg *config.Catalog) CatalogClient {
	return &catalogClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: cfg.BaseURL,
	}
}

func (c *catalogClientImpl) List(ctx context.Context, limit, skip int64, sortBy, order string) (*model.ProductPage, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("skip", fmt.Sprintf("%d", skip))
	if sortBy != "" {
		q.Set("sortBy", sortBy)
		q.Set("order", order)
	}

	var page model.ProductPage
	if err := c.getJSON(ctx, "/products?"+q.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *catalogClientImpl) Search(ctx context.Context, query string, limit, skip int64) (*model.ProductPage, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("skip", fmt.Sprintf("%d", skip))

	var page model.ProductPage
	if err := c.getJSON(ctx, "/products/search?"+q.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *catalogClientImpl) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *catalogClientImpl) ByCategory(ctx context.Context, slug string, limit, skip int64) (*model.ProductPage, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("skip", fmt.Sprintf("%d", skip))

	var page model.ProductPage
	path := "/products/category/" + url.PathEscape(slug) + "?" + q.Encode()
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *catalogClientImpl) Get(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(productID), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *catalogClientImpl) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Upstream(err, "catalog request %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperr.NotFound("catalog resource %s not found", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperr.Upstream(nil, "catalog error %d on %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Upstream(err, "decode catalog response")
	}
	return nil
}
