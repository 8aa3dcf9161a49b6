package repository

import (
	"context"
	"errors"
	"storefront-api/internal/model"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*model.Cart, error)
	UpsertItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	SetItemQuantity(ctx context.Context, tx *gorm.DB, cartID, productID string, quantity int64) (int64, error)
	RemoveItem(ctx context.Context, tx *gorm.DB, cartID, productID string) (int64, error)
	UpdateTotals(ctx context.Context, tx *gorm.DB, cartID string) error
	ClearItems(ctx context.Context, tx *gorm.DB, cartID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

// GetOrCreate loads the user's cart with items, creating an empty cart on
// first access.
func (r *cartRepoImpl) GetOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = model.Cart{
			ID:     uuid.NewString(),
			UserID: userID,
		}
		if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) UpsertItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + ?", item.Quantity),
		}),
	}).Create(&item).Error
}

func (r *cartRepoImpl) SetItemQuantity(ctx context.Context, tx *gorm.DB, cartID, productID string, quantity int64) (int64, error) {
	result := tx.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", quantity)
	return result.RowsAffected, result.Error
}

func (r *cartRepoImpl) RemoveItem(ctx context.Context, tx *gorm.DB, cartID, productID string) (int64, error) {
	result := tx.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{})
	return result.RowsAffected, result.Error
}

// UpdateTotals recomputes the derived totals from the item rows.
func (r *cartRepoImpl) UpdateTotals(ctx context.Context, tx *gorm.DB, cartID string) error {
	var totals struct {
		TotalItems      int64
		TotalPriceCents int64
	}
	err := tx.WithContext(ctx).Model(&model.CartItem{}).
		Select("COALESCE(SUM(quantity), 0) AS total_items, COALESCE(SUM(quantity * price_cents), 0) AS total_price_cents").
		Where("cart_id = ?", cartID).
		Scan(&totals).Error
	if err != nil {
		return err
	}

	return tx.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_items":       totals.TotalItems,
			"total_price_cents": totals.TotalPriceCents,
			"updated_at":        time.Now(),
		}).Error
}

func (r *cartRepoImpl) ClearItems(ctx context.Context, tx *gorm.DB, cartID string) error {
	if err := tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error; err != nil {
		return err
	}

	return tx.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_items":       0,
			"total_price_cents": 0,
			"updated_at":        time.Now(),
		}).Error
}
