package service

import (
	"context"
	"fmt"
	"storefront-api/internal/apperr"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
	"time"

	"gorm.io/gorm"
)

type CartService interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int64) (*model.Cart, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int64) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*model.Cart, error)
	Clear(ctx context.Context, userID string) (*model.Cart, error)
}

type cartServiceImpl struct {
	db       *gorm.DB
	cartRepo repository.CartRepository
	products ProductService
}

func NewCartService(db *gorm.DB, cartRepo repository.CartRepository, products ProductService) CartService {
	return &cartServiceImpl{
		db:       db,
		cartRepo: cartRepo,
		products: products,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, userID string) (*model.Cart, error) {
	return s.cartRepo.GetOrCreate(ctx, userID)
}

// AddItem snapshots the catalog price at add time; adding a product already
// in the cart bumps its quantity instead.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID, productID string, quantity int64) (*model.Cart, error) {
	if productID == "" {
		return nil, apperr.Validation("product_id is required")
	}
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("look up product %s: %w", productID, err)
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item := &model.CartItem{
			CartID:     cart.ID,
			ProductID:  productID,
			Title:      product.Title,
			PriceCents: CentsFromMajor(product.Price),
			Quantity:   quantity,
			Thumbnail:  product.Thumbnail,
			AddedAt:    time.Now(),
		}
		if err := s.cartRepo.UpsertItem(ctx, tx, item); err != nil {
			return fmt.Errorf("upsert cart item: %w", err)
		}
		return s.cartRepo.UpdateTotals(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.GetOrCreate(ctx, userID)
}

func (s *cartServiceImpl) SetQuantity(ctx context.Context, userID, productID string, quantity int64) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive, use remove to drop an item")
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.cartRepo.SetItemQuantity(ctx, tx, cart.ID, productID, quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.NotFound("product %s is not in the cart", productID)
		}
		return s.cartRepo.UpdateTotals(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.GetOrCreate(ctx, userID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.cartRepo.RemoveItem(ctx, tx, cart.ID, productID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.NotFound("product %s is not in the cart", productID)
		}
		return s.cartRepo.UpdateTotals(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.GetOrCreate(ctx, userID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.cartRepo.ClearItems(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.GetOrCreate(ctx, userID)
}
