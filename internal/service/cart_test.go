package service

import (
	"context"
	"storefront-api/internal/apperr"
	"storefront-api/internal/cache"
	"storefront-api/internal/config"
	"storefront-api/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T) CartService {
	t.Helper()

	db := newTestDB(t)
	productCache := cache.New(time.Minute, time.Minute)
	t.Cleanup(productCache.Stop)
	products := NewProductService(newFakeCatalogClient(), productCache, &config.Cache{})

	return NewCartService(db, repository.NewCartRepository(db), products)
}

func TestCartLazyCreation(t *testing.T) {
	carts := newCartService(t)

	cart, err := carts.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, cart.ID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalItems)

	again, err := carts.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID, "one cart per user")
}

func TestCartAddItemSnapshotsPrice(t *testing.T) {
	carts := newCartService(t)
	ctx := context.Background()

	cart, err := carts.AddItem(ctx, "user-1", "1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Mechanical Keyboard", cart.Items[0].Title)
	assert.Equal(t, int64(1000), cart.Items[0].PriceCents)
	assert.Equal(t, int64(2), cart.Items[0].Quantity)
	assert.Equal(t, int64(2), cart.TotalItems)
	assert.Equal(t, int64(2000), cart.TotalPriceCents)
}

func TestCartAddSameProductBumpsQuantity(t *testing.T) {
	carts := newCartService(t)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "user-1", "1", 1)
	require.NoError(t, err)
	cart, err := carts.AddItem(ctx, "user-1", "1", 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(3), cart.Items[0].Quantity)
	assert.Equal(t, int64(3), cart.TotalItems)
	assert.Equal(t, int64(3000), cart.TotalPriceCents)
}

func TestCartAddValidation(t *testing.T) {
	carts := newCartService(t)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "user-1", "", 1)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = carts.AddItem(ctx, "user-1", "1", 0)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = carts.AddItem(ctx, "user-1", "999", 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err), "unknown catalog product")
}

func TestCartSetQuantity(t *testing.T) {
	carts := newCartService(t)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "user-1", "1", 1)
	require.NoError(t, err)

	cart, err := carts.SetQuantity(ctx, "user-1", "1", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cart.Items[0].Quantity)
	assert.Equal(t, int64(5000), cart.TotalPriceCents)

	_, err = carts.SetQuantity(ctx, "user-1", "1", 0)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = carts.SetQuantity(ctx, "user-1", "2", 3)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCartRemoveItem(t *testing.T) {
	carts := newCartService(t)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "user-1", "1", 2)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, "user-1", "2", 1)
	require.NoError(t, err)

	cart, err := carts.RemoveItem(ctx, "user-1", "1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "2", cart.Items[0].ProductID)
	assert.Equal(t, int64(1), cart.TotalItems)
	assert.Equal(t, int64(500), cart.TotalPriceCents)

	_, err = carts.RemoveItem(ctx, "user-1", "1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCartClear(t *testing.T) {
	carts := newCartService(t)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "user-1", "1", 2)
	require.NoError(t, err)

	cart, err := carts.Clear(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalItems)
	assert.Zero(t, cart.TotalPriceCents)
}
