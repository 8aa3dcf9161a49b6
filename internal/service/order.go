package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"storefront-api/internal/apperr"
	"storefront-api/internal/client"
	"storefront-api/internal/config"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BulkResult struct {
	Updated  int
	Failed   int
	Failures map[string]string
}

type OrderService interface {
	CreateIntent(ctx context.Context, userID string) (*dto.CreateIntentResponse, error)
	Confirm(ctx context.Context, userID, intentID string, addr dto.ShippingAddress) (*model.Order, error)
	GetForUser(ctx context.Context, principal *Principal, orderID string) (*model.Order, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Order, error)
	List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]*model.Order, int64, error)
	Transition(ctx context.Context, orderID string, to model.OrderStatus, note string, tracking *dto.TrackingInfo) (*model.Order, error)
	BulkTransition(ctx context.Context, orderIDs []string, to model.OrderStatus) (*BulkResult, error)
	HandleWebhook(ctx context.Context, headers http.Header, body []byte) error
}

type orderServiceImpl struct {
	db               *gorm.DB
	paymentClient    client.PaymentClient
	orderRepo        repository.OrderRepository
	cartRepo         repository.CartRepository
	webhookEventRepo repository.WebhookEventRepository
	pricing          *config.Pricing
	log              *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	paymentClient client.PaymentClient,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	webhookEventRepo repository.WebhookEventRepository,
	pricing *config.Pricing,
	log *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		db:               db,
		paymentClient:    paymentClient,
		orderRepo:        orderRepo,
		cartRepo:         cartRepo,
		webhookEventRepo: webhookEventRepo,
		pricing:          pricing,
		log:              log,
	}
}

// CreateIntent prices the user's cart and asks the provider for a payment
// intent. The cart is checked before any provider call is made.
func (s *orderServiceImpl) CreateIntent(ctx context.Context, userID string) (*dto.CreateIntentResponse, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperr.EmptyCart()
	}

	totals := ComputeTotals(cart.Items, s.pricing)

	intent, err := s.paymentClient.CreateIntent(ctx, totals.TotalCents, s.pricing.Currency, map[string]string{
		"user_id": userID,
		"cart_id": cart.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &dto.CreateIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       totals.TotalCents,
		Currency:     s.pricing.Currency,
	}, nil
}

// Confirm turns a paid cart into an order. Re-confirming an intent that was
// already materialized returns the existing order untouched.
func (s *orderServiceImpl) Confirm(ctx context.Context, userID, intentID string, addr dto.ShippingAddress) (*model.Order, error) {
	if intentID == "" {
		return nil, apperr.Validation("intent_id is required")
	}

	if existing, err := s.orderRepo.FindByIntentID(ctx, intentID); err == nil {
		return existing, nil
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}

	intent, err := s.paymentClient.GetIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("verify payment intent: %w", err)
	}
	if intent.Status != model.IntentSucceeded {
		return nil, apperr.PaymentNotCompleted(intent.Status)
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperr.EmptyCart()
	}

	totals := ComputeTotals(cart.Items, s.pricing)
	now := time.Now()

	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		SubtotalCents:   totals.SubtotalCents,
		TaxCents:        totals.TaxCents,
		ShippingCents:   totals.ShippingCents,
		TotalCents:      totals.TotalCents,
		PaymentStatus:   model.PaymentPaid,
		OrderStatus:     model.StatusProcessing,
		PaymentIntentID: intentID,
		ShipName:        addr.Name,
		ShipLine1:       addr.Line1,
		ShipLine2:       addr.Line2,
		ShipCity:        addr.City,
		ShipState:       addr.State,
		ShipZip:         addr.Zip,
		ShipCountry:     addr.Country,
	}

	orderItems := make([]*model.OrderItem, len(cart.Items))
	for i, item := range cart.Items {
		orderItems[i] = &model.OrderItem{
			OrderID:    order.ID,
			ProductID:  item.ProductID,
			Title:      item.Title,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
			Thumbnail:  item.Thumbnail,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		if err := s.orderRepo.CreateItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		// creation writes both lifecycle entries: placed, then payment confirmed
		events := []*model.OrderStatusEvent{
			{OrderID: order.ID, Status: model.StatusPending, Note: "Order placed", CreatedAt: now},
			{OrderID: order.ID, Status: model.StatusProcessing, Note: "Payment confirmed", CreatedAt: now},
		}
		for _, event := range events {
			if err := s.orderRepo.AppendStatusEvent(ctx, tx, event); err != nil {
				return fmt.Errorf("append status event: %w", err)
			}
		}

		if err := s.cartRepo.ClearItems(ctx, tx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("total_cents", order.TotalCents))

	return s.orderRepo.FindByID(ctx, order.ID)
}

func (s *orderServiceImpl) GetForUser(ctx context.Context, principal *Principal, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != principal.ID && principal.Role != model.RoleAdmin {
		// report absent rather than leaking that the order exists
		return nil, apperr.NotFound("order %s not found", orderID)
	}
	return order, nil
}

func (s *orderServiceImpl) ListForUser(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderServiceImpl) List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]*model.Order, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperr.Validation("unknown order status %q", status)
	}
	return s.orderRepo.List(ctx, status, limit, offset)
}

// Transition is the sole mutation path for orderStatus. It validates the
// requested change against the lifecycle table, appends exactly one history
// entry, and attaches tracking info when the order ships. The version check
// turns a lost race into a Conflict instead of a silent overwrite.
func (s *orderServiceImpl) Transition(ctx context.Context, orderID string, to model.OrderStatus, note string, tracking *dto.TrackingInfo) (*model.Order, error) {
	if !to.Valid() {
		return nil, apperr.Validation("unknown order status %q", to)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// tracking details may be corrected while the order is out for delivery
	if to == model.StatusShipped && order.OrderStatus == model.StatusShipped && tracking != nil {
		return s.updateTracking(ctx, order, tracking)
	}

	if !model.CanTransition(order.OrderStatus, to) {
		return nil, apperr.InvalidTransition(string(order.OrderStatus), string(to))
	}

	if note == "" {
		note = fmt.Sprintf("Order %s", to)
	}

	updates := map[string]interface{}{
		"order_status": to,
	}
	if to == model.StatusShipped && tracking != nil {
		updates["carrier"] = tracking.Carrier
		updates["tracking_number"] = tracking.TrackingNumber
		updates["estimated_delivery"] = tracking.EstimatedDelivery
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.UpdateStatus(ctx, tx, orderID, order.Version, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.Conflict("order %s was modified concurrently", orderID)
		}

		return s.orderRepo.AppendStatusEvent(ctx, tx, &model.OrderStatusEvent{
			OrderID:   orderID,
			Status:    to,
			Note:      note,
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, orderID)
}

// updateTracking rewrites carrier details without a status change and without
// touching the history.
func (s *orderServiceImpl) updateTracking(ctx context.Context, order *model.Order, tracking *dto.TrackingInfo) (*model.Order, error) {
	updates := map[string]interface{}{
		"carrier":            tracking.Carrier,
		"tracking_number":    tracking.TrackingNumber,
		"estimated_delivery": tracking.EstimatedDelivery,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, order.Version, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.Conflict("order %s was modified concurrently", order.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, order.ID)
}

// BulkTransition applies one target status to many orders, isolating per-id
// failures so one bad id never aborts the batch.
func (s *orderServiceImpl) BulkTransition(ctx context.Context, orderIDs []string, to model.OrderStatus) (*BulkResult, error) {
	if len(orderIDs) == 0 {
		return nil, apperr.Validation("order_ids is required")
	}
	if !to.Valid() {
		return nil, apperr.Validation("unknown order status %q", to)
	}

	result := &BulkResult{Failures: make(map[string]string)}
	for _, orderID := range orderIDs {
		if _, err := s.Transition(ctx, orderID, to, "", nil); err != nil {
			result.Failed++
			result.Failures[orderID] = err.Error()
			continue
		}
		result.Updated++
	}

	return result, nil
}

// HandleWebhook reconciles payment status from asynchronous provider events.
// Events are deduplicated by provider event id, matching how confirmations
// are deduplicated by intent id.
func (s *orderServiceImpl) HandleWebhook(ctx context.Context, headers http.Header, body []byte) error {
	if err := s.paymentClient.VerifyWebhookSignature(headers, body); err != nil {
		return fmt.Errorf("verify webhook signature: %w", err)
	}

	var payload model.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return apperr.Validation("decode webhook payload: %v", err)
	}
	if payload.ID == "" {
		return apperr.Validation("webhook payload has no event id")
	}

	seen, err := s.webhookEventRepo.Exists(payload.ID)
	if err != nil {
		return err
	}
	if seen {
		s.log.Debug("webhook event already processed", zap.String("event_id", payload.ID))
		return nil
	}

	switch payload.Type {
	case model.EventIntentSucceeded:
		err = s.reconcilePayment(ctx, payload.Data.Object.ID, model.PaymentPaid)
	case model.EventIntentFailed:
		err = s.reconcilePayment(ctx, payload.Data.Object.ID, model.PaymentFailed)
	default:
		s.log.Debug("ignoring webhook event", zap.String("type", payload.Type))
	}
	if err != nil {
		return err
	}

	return s.webhookEventRepo.MarkProcessed(payload.ID, payload.Type)
}

func (s *orderServiceImpl) reconcilePayment(ctx context.Context, intentID string, status model.PaymentStatus) error {
	if intentID == "" {
		return apperr.Validation("webhook event has no intent id")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.orderRepo.UpdatePaymentStatusByIntent(ctx, tx, intentID, status)
		if err != nil {
			return fmt.Errorf("reconcile payment status: %w", err)
		}
		if affected == 0 {
			// order not materialized yet; confirm will pick up the final
			// intent status from the provider instead
			s.log.Info("webhook for unknown intent", zap.String("intent_id", intentID))
		}
		return nil
	})
}
