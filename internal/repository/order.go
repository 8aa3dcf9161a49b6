package repository

import (
	"context"
	"errors"
	"storefront-api/internal/apperr"
	"storefront-api/internal/model"
	"time"

	"gorm.io/gorm"
)

type StatusCount struct {
	Status model.OrderStatus
	Count  int64
}

type ProductSales struct {
	ProductID    string
	Title        string
	QuantitySold int64
	RevenueCents int64
}

type RevenueRow struct {
	CreatedAt  time.Time
	TotalCents int64
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	AppendStatusEvent(ctx context.Context, tx *gorm.DB, event *model.OrderStatusEvent) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByIntentID(ctx context.Context, intentID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
	List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]*model.Order, int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, version int64, updates map[string]interface{}) (int64, error)
	UpdatePaymentStatusByIntent(ctx context.Context, tx *gorm.DB, intentID string, status model.PaymentStatus) (int64, error)

	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	PaidRevenueCents(ctx context.Context) (int64, error)
	PaidRevenueCentsSince(ctx context.Context, since time.Time) (int64, error)
	PaidOrdersSince(ctx context.Context, since time.Time) ([]RevenueRow, error)
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Omit("Items", "StatusHistory").Create(order).Error
}

func (r *orderRepoImpl) CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) AppendStatusEvent(ctx context.Context, tx *gorm.DB, event *model.OrderStatusEvent) error {
	return tx.WithContext(ctx).Create(event).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_status_events.id ASC")
		}).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %s not found", orderID)
		}
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIntentID(ctx context.Context, intentID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_status_events.id ASC")
		}).
		Where("payment_intent_id = ?", intentID).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no order for intent %s", intentID)
		}
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]*model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{})
	if status != "" {
		query = query.Where("order_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*model.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateStatus applies the given column updates only when the stored version
// still matches; callers treat zero affected rows as a concurrent-update
// conflict.
func (r *orderRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, version int64, updates map[string]interface{}) (int64, error) {
	updates["version"] = version + 1
	updates["updated_at"] = time.Now()

	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND version = ?", orderID, version).
		Updates(updates)

	return result.RowsAffected, result.Error
}

func (r *orderRepoImpl) UpdatePaymentStatusByIntent(ctx context.Context, tx *gorm.DB, intentID string, status model.PaymentStatus) (int64, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("payment_intent_id = ?", intentID).
		Updates(map[string]interface{}{
			"payment_status": status,
			"updated_at":     time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *orderRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (r *orderRepoImpl) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *orderRepoImpl) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("order_status AS status, COUNT(*) AS count").
		Group("order_status").
		Scan(&rows).Error
	return rows, err
}

func (r *orderRepoImpl) PaidRevenueCents(ctx context.Context) (int64, error) {
	var revenue int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total_cents), 0)").
		Where("payment_status = ?", model.PaymentPaid).
		Scan(&revenue).Error
	return revenue, err
}

func (r *orderRepoImpl) PaidRevenueCentsSince(ctx context.Context, since time.Time) (int64, error) {
	var revenue int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total_cents), 0)").
		Where("payment_status = ? AND created_at >= ?", model.PaymentPaid, since).
		Scan(&revenue).Error
	return revenue, err
}

func (r *orderRepoImpl) PaidOrdersSince(ctx context.Context, since time.Time) ([]RevenueRow, error) {
	var rows []RevenueRow
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("created_at, total_cents").
		Where("payment_status = ? AND created_at >= ?", model.PaymentPaid, since).
		Scan(&rows).Error
	return rows, err
}

func (r *orderRepoImpl) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	var rows []ProductSales
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select(`order_items.product_id,
			order_items.title,
			SUM(order_items.quantity) AS quantity_sold,
			SUM(order_items.quantity * order_items.price_cents) AS revenue_cents`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ?", model.PaymentPaid).
		Group("order_items.product_id, order_items.title").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
