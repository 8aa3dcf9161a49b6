package service

import (
	"context"
	"fmt"
	"net/http"
	"storefront-api/internal/apperr"
	"storefront-api/internal/client"
	"storefront-api/internal/config"
	"storefront-api/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, client.AutoMigrate(db))
	return db
}

func testPricing() *config.Pricing {
	return &config.Pricing{TaxRateBps: 1000, ShippingCents: 0, Currency: "usd"}
}

// fakePaymentClient stands in for the payment provider.
type fakePaymentClient struct {
	intents      map[string]*model.PaymentIntent
	createCalls  int
	signatureErr error
}

func newFakePaymentClient() *fakePaymentClient {
	return &fakePaymentClient{
		intents: make(map[string]*model.PaymentIntent),
	}
}

func (f *fakePaymentClient) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*model.PaymentIntent, error) {
	f.createCalls++
	id := fmt.Sprintf("pi_test_%d", f.createCalls)
	intent := &model.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
		Amount:       amount,
		Currency:     currency,
		Metadata:     metadata,
	}
	f.intents[intent.ID] = intent
	return intent, nil
}

func (f *fakePaymentClient) GetIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	intent, ok := f.intents[intentID]
	if !ok {
		return nil, apperr.NotFound("payment intent %s not found", intentID)
	}
	return intent, nil
}

func (f *fakePaymentClient) VerifyWebhookSignature(headers http.Header, body []byte) error {
	return f.signatureErr
}

func (f *fakePaymentClient) succeed(intentID string) {
	if intent, ok := f.intents[intentID]; ok {
		intent.Status = model.IntentSucceeded
	}
}

// fakeCatalogClient serves a fixed product set and counts calls so cache
// behavior is observable.
type fakeCatalogClient struct {
	products map[string]*model.Product
	calls    int
}

func newFakeCatalogClient() *fakeCatalogClient {
	return &fakeCatalogClient{
		products: map[string]*model.Product{
			"1": {ID: 1, Title: "Mechanical Keyboard", Price: 10.00, Thumbnail: "kb.jpg", Category: "peripherals"},
			"2": {ID: 2, Title: "Mouse Pad", Price: 5.00, Thumbnail: "pad.jpg", Category: "peripherals"},
			"3": {ID: 3, Title: "USB Hub", Price: 19.99, Thumbnail: "hub.jpg", Category: "adapters"},
		},
	}
}

func (f *fakeCatalogClient) List(ctx context.Context, limit, skip int64, sortBy, order string) (*model.ProductPage, error) {
	f.calls++
	page := &model.ProductPage{Limit: limit, Skip: skip}
	for _, p := range f.products {
		page.Products = append(page.Products, *p)
	}
	page.Total = int64(len(page.Products))
	return page, nil
}

func (f *fakeCatalogClient) Search(ctx context.Context, query string, limit, skip int64) (*model.ProductPage, error) {
	f.calls++
	return &model.ProductPage{Limit: limit, Skip: skip}, nil
}

func (f *fakeCatalogClient) Categories(ctx context.Context) ([]model.Category, error) {
	f.calls++
	return []model.Category{{Slug: "peripherals", Name: "Peripherals"}}, nil
}

func (f *fakeCatalogClient) ByCategory(ctx context.Context, slug string, limit, skip int64) (*model.ProductPage, error) {
	f.calls++
	return &model.ProductPage{Limit: limit, Skip: skip}, nil
}

func (f *fakeCatalogClient) Get(ctx context.Context, productID string) (*model.Product, error) {
	f.calls++
	product, ok := f.products[productID]
	if !ok {
		return nil, apperr.NotFound("catalog resource /products/%s not found", productID)
	}
	p := *product
	return &p, nil
}

var _ client.PaymentClient = (*fakePaymentClient)(nil)
var _ client.CatalogClient = (*fakeCatalogClient)(nil)

func testLogger() *zap.Logger {
	return zap.NewNop()
}
