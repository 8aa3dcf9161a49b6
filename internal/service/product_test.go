package service

import (
	"context"
	"storefront-api/internal/cache"
	"storefront-api/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductListIsCached(t *testing.T) {
	catalog := newFakeCatalogClient()
	productCache := cache.New(time.Minute, time.Minute)
	t.Cleanup(productCache.Stop)
	products := NewProductService(catalog, productCache, &config.Cache{ListTTL: time.Minute})
	ctx := context.Background()

	first, err := products.List(ctx, 20, 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.calls)

	second, err := products.List(ctx, 20, 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.calls, "second identical read must come from cache")
	assert.Equal(t, first, second)

	// a different page is a different key
	_, err = products.List(ctx, 20, 20, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.calls)
}

func TestProductCacheExpires(t *testing.T) {
	catalog := newFakeCatalogClient()
	productCache := cache.New(time.Minute, time.Minute)
	t.Cleanup(productCache.Stop)
	products := NewProductService(catalog, productCache, &config.Cache{ListTTL: 30 * time.Millisecond})
	ctx := context.Background()

	_, err := products.List(ctx, 20, 0, "", "")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	_, err = products.List(ctx, 20, 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.calls, "expired entry must refetch")
}

func TestProductInvalidateListings(t *testing.T) {
	catalog := newFakeCatalogClient()
	productCache := cache.New(time.Minute, time.Minute)
	t.Cleanup(productCache.Stop)
	ttls := &config.Cache{ListTTL: time.Minute, SearchTTL: time.Minute, CategoryTTL: time.Minute}
	products := NewProductService(catalog, productCache, ttls)
	ctx := context.Background()

	_, err := products.List(ctx, 20, 0, "", "")
	require.NoError(t, err)
	_, err = products.Search(ctx, "kb", 20, 0)
	require.NoError(t, err)
	_, err = products.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, catalog.calls)

	products.InvalidateListings()

	_, err = products.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, catalog.calls, "categories survive listing invalidation")

	_, err = products.List(ctx, 20, 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, 4, catalog.calls)
}

func TestProductDetailCached(t *testing.T) {
	catalog := newFakeCatalogClient()
	productCache := cache.New(time.Minute, time.Minute)
	t.Cleanup(productCache.Stop)
	products := NewProductService(catalog, productCache, &config.Cache{DetailTTL: time.Minute})
	ctx := context.Background()

	product, err := products.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", product.Title)

	_, err = products.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.calls)
}
