package service

import (
	"context"
	"encoding/json"
	"net/http"
	"storefront-api/internal/apperr"
	"storefront-api/internal/cache"
	"storefront-api/internal/config"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderFixture struct {
	db        *gorm.DB
	payment   *fakePaymentClient
	orders    OrderService
	carts     CartService
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	db := newTestDB(t)
	payment := newFakePaymentClient()

	productCache := cache.New(time.Minute, time.Minute)
	t.Cleanup(productCache.Stop)
	products := NewProductService(newFakeCatalogClient(), productCache, &config.Cache{})

	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	return &orderFixture{
		db:        db,
		payment:   payment,
		orders:    NewOrderService(db, payment, orderRepo, cartRepo, repository.NewWebhookEventRepository(db), testPricing(), testLogger()),
		carts:     NewCartService(db, cartRepo, products),
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
	}
}

func testAddress() dto.ShippingAddress {
	return dto.ShippingAddress{
		Name:    "Ada Lovelace",
		Line1:   "1 Analytical Way",
		City:    "London",
		Zip:     "SW1",
		Country: "GB",
	}
}

// fillCart puts two units of the 10.00 product and one of the 5.00 product
// in the user's cart: subtotal 25.00.
func (f *orderFixture) fillCart(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, userID, "1", 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, userID, "2", 1)
	require.NoError(t, err)
}

// checkout runs the full intent -> confirm path and returns the new order.
func (f *orderFixture) checkout(t *testing.T, userID string) *model.Order {
	t.Helper()
	ctx := context.Background()

	f.fillCart(t, userID)
	intent, err := f.orders.CreateIntent(ctx, userID)
	require.NoError(t, err)
	f.payment.succeed(intent.IntentID)

	order, err := f.orders.Confirm(ctx, userID, intent.IntentID, testAddress())
	require.NoError(t, err)
	return order
}

func TestCreateIntentEmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.orders.CreateIntent(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindEmptyCart, apperr.KindOf(err))
	assert.Equal(t, 0, f.payment.createCalls, "empty cart must not reach the provider")
}

func TestCreateIntentAmount(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t, "user-1")

	resp, err := f.orders.CreateIntent(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2750), resp.Amount, "25.00 subtotal + 2.50 tax + free shipping")
	assert.Equal(t, "usd", resp.Currency)
	assert.NotEmpty(t, resp.ClientSecret)
	assert.Equal(t, 1, f.payment.createCalls)
}

func TestConfirmRejectsUnpaidIntent(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t, "user-1")

	intent, err := f.orders.CreateIntent(ctx, "user-1")
	require.NoError(t, err)

	_, err = f.orders.Confirm(ctx, "user-1", intent.IntentID, testAddress())
	require.Error(t, err)
	assert.Equal(t, apperr.KindPaymentNotCompleted, apperr.KindOf(err))
}

func TestConfirmCreatesOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.checkout(t, "user-1")

	assert.Equal(t, model.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, model.StatusProcessing, order.OrderStatus)
	assert.Equal(t, int64(2500), order.SubtotalCents)
	assert.Equal(t, int64(250), order.TaxCents)
	assert.Equal(t, int64(0), order.ShippingCents)
	assert.Equal(t, int64(2750), order.TotalCents)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Ada Lovelace", order.ShipName)

	require.Len(t, order.StatusHistory, 2)
	assert.Equal(t, model.StatusPending, order.StatusHistory[0].Status)
	assert.Equal(t, "Order placed", order.StatusHistory[0].Note)
	assert.Equal(t, model.StatusProcessing, order.StatusHistory[1].Status)
	assert.Equal(t, "Payment confirmed", order.StatusHistory[1].Note)
	assert.Equal(t, order.OrderStatus, order.StatusHistory[len(order.StatusHistory)-1].Status)

	cart, err := f.cartRepo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "cart must be cleared exactly once on order creation")
	assert.Zero(t, cart.TotalItems)
	assert.Zero(t, cart.TotalPriceCents)
}

func TestConfirmIsIdempotent(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.checkout(t, "user-1")

	// new cart contents must survive a replayed confirmation
	_, err := f.carts.AddItem(ctx, "user-1", "3", 1)
	require.NoError(t, err)

	again, err := f.orders.Confirm(ctx, "user-1", order.PaymentIntentID, testAddress())
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)

	var count int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "replayed confirm must not create a second order")

	cart, err := f.cartRepo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "replayed confirm must not clear the cart again")
}

func TestTransitionLifecycle(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.checkout(t, "user-1")

	shipped, err := f.orders.Transition(ctx, order.ID, model.StatusShipped, "", &dto.TrackingInfo{
		Carrier:        "UPS",
		TrackingNumber: "1Z999",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, shipped.OrderStatus)
	assert.Equal(t, "UPS", shipped.Carrier)
	assert.Equal(t, "1Z999", shipped.TrackingNumber)
	require.Len(t, shipped.StatusHistory, 3)
	assert.Equal(t, "Order shipped", shipped.StatusHistory[2].Note)

	// backwards movement is rejected and leaves everything untouched
	_, err = f.orders.Transition(ctx, order.ID, model.StatusProcessing, "", nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))

	unchanged, err := f.orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, unchanged.OrderStatus)
	assert.Len(t, unchanged.StatusHistory, 3)

	delivered, err := f.orders.Transition(ctx, order.ID, model.StatusDelivered, "", nil)
	require.NoError(t, err)
	require.Len(t, delivered.StatusHistory, 4)
	assert.Equal(t, delivered.OrderStatus, delivered.StatusHistory[3].Status)

	// delivered is terminal
	_, err = f.orders.Transition(ctx, order.ID, model.StatusCancelled, "", nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
}

func TestTransitionCustomNote(t *testing.T) {
	f := newOrderFixture(t)

	order := f.checkout(t, "user-1")

	cancelled, err := f.orders.Transition(context.Background(), order.ID, model.StatusCancelled, "Customer requested cancellation", nil)
	require.NoError(t, err)
	require.Len(t, cancelled.StatusHistory, 3)
	assert.Equal(t, "Customer requested cancellation", cancelled.StatusHistory[2].Note)
}

func TestTransitionUnknownStatus(t *testing.T) {
	f := newOrderFixture(t)

	order := f.checkout(t, "user-1")

	_, err := f.orders.Transition(context.Background(), order.ID, "refunded", "", nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestTransitionMissingOrder(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.orders.Transition(context.Background(), "no-such-order", model.StatusShipped, "", nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestTrackingUpdateWhileShipped(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.checkout(t, "user-1")
	_, err := f.orders.Transition(ctx, order.ID, model.StatusShipped, "", &dto.TrackingInfo{Carrier: "UPS", TrackingNumber: "1Z999"})
	require.NoError(t, err)

	eta := time.Now().Add(48 * time.Hour)
	updated, err := f.orders.Transition(ctx, order.ID, model.StatusShipped, "", &dto.TrackingInfo{
		Carrier:           "FedEx",
		TrackingNumber:    "FX123",
		EstimatedDelivery: &eta,
	})
	require.NoError(t, err)
	assert.Equal(t, "FedEx", updated.Carrier)
	assert.Equal(t, "FX123", updated.TrackingNumber)
	require.NotNil(t, updated.EstimatedDelivery)
	assert.Len(t, updated.StatusHistory, 3, "tracking correction must not append history")
}

func TestTransitionVersionConflict(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.checkout(t, "user-1")

	// stale version loses against the row's current one
	affected, err := f.orderRepo.UpdateStatus(ctx, f.db, order.ID, order.Version+5, map[string]interface{}{
		"order_status": model.StatusShipped,
	})
	require.NoError(t, err)
	assert.Zero(t, affected)

	fresh, err := f.orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, fresh.OrderStatus)
}

func TestBulkTransition(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	first := f.checkout(t, "user-1")
	second := f.checkout(t, "user-2")

	result, err := f.orders.BulkTransition(ctx, []string{first.ID, second.ID, "missing-id"}, model.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Failures, "missing-id")

	for _, id := range []string{first.ID, second.ID} {
		order, err := f.orderRepo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.StatusShipped, order.OrderStatus, "valid ids must not be rolled back by the bad one")
	}
}

func TestGetForUserAuthorization(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.checkout(t, "user-1")

	owner := &Principal{ID: "user-1", Role: model.RoleCustomer}
	got, err := f.orders.GetForUser(ctx, owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	stranger := &Principal{ID: "user-2", Role: model.RoleCustomer}
	_, err = f.orders.GetForUser(ctx, stranger, order.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	admin := &Principal{ID: "admin-1", Role: model.RoleAdmin}
	_, err = f.orders.GetForUser(ctx, admin, order.ID)
	require.NoError(t, err)
}

func webhookBody(t *testing.T, eventID, eventType, intentID string) []byte {
	t.Helper()
	body, err := json.Marshal(model.WebhookPayload{
		ID:   eventID,
		Type: eventType,
		Data: model.WebhookData{Object: model.PaymentIntent{ID: intentID}},
	})
	require.NoError(t, err)
	return body
}

func TestWebhookReconcilesPaymentStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.checkout(t, "user-1")

	body := webhookBody(t, "evt_1", model.EventIntentFailed, order.PaymentIntentID)
	require.NoError(t, f.orders.HandleWebhook(ctx, http.Header{}, body))

	fresh, err := f.orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, fresh.PaymentStatus)
}

func TestWebhookDeduplicatesEvents(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.checkout(t, "user-1")

	failed := webhookBody(t, "evt_dup", model.EventIntentFailed, order.PaymentIntentID)
	require.NoError(t, f.orders.HandleWebhook(ctx, http.Header{}, failed))

	// same event id replayed with different content must be a no-op
	succeeded := webhookBody(t, "evt_dup", model.EventIntentSucceeded, order.PaymentIntentID)
	require.NoError(t, f.orders.HandleWebhook(ctx, http.Header{}, succeeded))

	fresh, err := f.orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, fresh.PaymentStatus)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newOrderFixture(t)
	f.payment.signatureErr = apperr.Unauthorized("webhook signature mismatch")

	err := f.orders.HandleWebhook(context.Background(), http.Header{}, webhookBody(t, "evt_x", model.EventIntentFailed, "pi_test_1"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestWebhookIgnoresUnknownType(t *testing.T) {
	f := newOrderFixture(t)

	body := webhookBody(t, "evt_other", "charge.updated", "")
	require.NoError(t, f.orders.HandleWebhook(context.Background(), http.Header{}, body))
}
