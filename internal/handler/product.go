package handler

import (
	"net/http"
	"storefront-api/internal/apperr"
	"storefront-api/internal/service"
	"strconv"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	limit, skip := pagination(c, 20)
	page, err := h.productService.List(ctx, limit, skip, c.QueryParam("sortBy"), c.QueryParam("order"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("q")
	if query == "" {
		return apperr.Validation("query parameter q is required")
	}

	limit, skip := pagination(c, 20)
	page, err := h.productService.Search(ctx, query, limit, skip)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) Categories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.productService.Categories(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *ProductHandler) ByCategory(c echo.Context) error {
	ctx := c.Request().Context()

	limit, skip := pagination(c, 20)
	page, err := h.productService.ByCategory(ctx, c.Param("slug"), limit, skip)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.productService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func pagination(c echo.Context, defaultLimit int64) (limit, skip int64) {
	limit = defaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if raw := c.QueryParam("skip"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v >= 0 {
			skip = v
		}
	}
	return limit, skip
}
