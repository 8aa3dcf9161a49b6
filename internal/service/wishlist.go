package service

import (
	"context"
	"fmt"
	"storefront-api/internal/apperr"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
	"time"
)

type WishlistService interface {
	List(ctx context.Context, userID string) ([]*model.WishlistItem, error)
	Add(ctx context.Context, userID, productID string) ([]*model.WishlistItem, error)
	Remove(ctx context.Context, userID, productID string) ([]*model.WishlistItem, error)
}

type wishlistServiceImpl struct {
	wishlistRepo repository.WishlistRepository
	products     ProductService
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, products ProductService) WishlistService {
	return &wishlistServiceImpl{
		wishlistRepo: wishlistRepo,
		products:     products,
	}
}

func (s *wishlistServiceImpl) List(ctx context.Context, userID string) ([]*model.WishlistItem, error) {
	return s.wishlistRepo.List(ctx, userID)
}

func (s *wishlistServiceImpl) Add(ctx context.Context, userID, productID string) ([]*model.WishlistItem, error) {
	if productID == "" {
		return nil, apperr.Validation("product_id is required")
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("look up product %s: %w", productID, err)
	}

	err = s.wishlistRepo.Upsert(ctx, &model.WishlistItem{
		UserID:     userID,
		ProductID:  productID,
		Title:      product.Title,
		PriceCents: CentsFromMajor(product.Price),
		Thumbnail:  product.Thumbnail,
		AddedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}

	return s.wishlistRepo.List(ctx, userID)
}

func (s *wishlistServiceImpl) Remove(ctx context.Context, userID, productID string) ([]*model.WishlistItem, error) {
	affected, err := s.wishlistRepo.Remove(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperr.NotFound("product %s is not in the wishlist", productID)
	}

	return s.wishlistRepo.List(ctx, userID)
}
