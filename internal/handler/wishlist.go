package handler

import (
	"net/http"
	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/internal/service"

	"github.com/labstack/echo/v4"
)

type WishlistHandler struct {
	wishlistService service.WishlistService
}

func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
	}
}

func (h *WishlistHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	items, err := h.wishlistService.List(ctx, principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wishlistResponse(items))
}

func (h *WishlistHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	var req dto.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	items, err := h.wishlistService.Add(ctx, principal.ID, req.ProductID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wishlistResponse(items))
}

func (h *WishlistHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	items, err := h.wishlistService.Remove(ctx, principal.ID, c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wishlistResponse(items))
}

func wishlistResponse(items []*model.WishlistItem) []*dto.WishlistItemResponse {
	out := make([]*dto.WishlistItemResponse, len(items))
	for i, item := range items {
		out[i] = &dto.WishlistItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     service.Display(item.PriceCents),
			Cents:     item.PriceCents,
			Thumbnail: item.Thumbnail,
			AddedAt:   item.AddedAt,
		}
	}
	return out
}
