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

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	cart, err := h.cartService.Get(ctx, principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	var req dto.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.cartService.AddItem(ctx, principal.ID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	var req dto.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	cart, err := h.cartService.SetQuantity(ctx, principal.ID, c.Param("productId"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	cart, err := h.cartService.RemoveItem(ctx, principal.ID, c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	cart, err := h.cartService.Clear(ctx, principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse(cart))
}

func cartResponse(cart *model.Cart) *dto.CartResponse {
	items := make([]*dto.CartItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = &dto.CartItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     service.Display(item.PriceCents),
			Cents:     item.PriceCents,
			Quantity:  item.Quantity,
			Thumbnail: item.Thumbnail,
			AddedAt:   item.AddedAt,
		}
	}

	return &dto.CartResponse{
		ID:         cart.ID,
		Items:      items,
		TotalItems: cart.TotalItems,
		TotalPrice: service.Display(cart.TotalPriceCents),
		TotalCents: cart.TotalPriceCents,
	}
}
