package repository

import (
	"context"
	"storefront-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistRepository interface {
	List(ctx context.Context, userID string) ([]*model.WishlistItem, error)
	Upsert(ctx context.Context, item *model.WishlistItem) error
	Remove(ctx context.Context, userID, productID string) (int64, error)
}

type wishlistRepoImpl struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepoImpl{
		db: db,
	}
}

func (r *wishlistRepoImpl) List(ctx context.Context, userID string) ([]*model.WishlistItem, error) {
	var items []*model.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Upsert keeps wishlist adds idempotent; re-adding a product refreshes the
// price snapshot.
func (r *wishlistRepoImpl) Upsert(ctx context.Context, item *model.WishlistItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"price_cents": item.PriceCents,
			"title":       item.Title,
			"thumbnail":   item.Thumbnail,
		}),
	}).Create(&item).Error
}

func (r *wishlistRepoImpl) Remove(ctx context.Context, userID, productID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistItem{})
	return result.RowsAffected, result.Error
}
