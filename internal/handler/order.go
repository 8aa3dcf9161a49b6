package handler

import (
	"fmt"
	"io"
	"net/http"
	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/internal/service"
	"strconv"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	resp, err := h.orderService.CreateIntent(ctx, principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	var req dto.ConfirmOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	order, err := h.orderService.Confirm(ctx, principal.ID, req.IntentID, req.ShippingAddress)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, orderResponse(order, true))
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	orders, err := h.orderService.ListForUser(ctx, principal.ID)
	if err != nil {
		return err
	}

	out := make([]*dto.OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = orderResponse(order, false)
	}
	return c.JSON(http.StatusOK, &dto.OrderListResponse{Orders: out, Total: int64(len(out))})
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	principal := middleware.PrincipalFrom(c)

	order, err := h.orderService.GetForUser(ctx, principal, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(order, true))
}

func (h *OrderHandler) Transition(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.TransitionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	order, err := h.orderService.Transition(ctx, c.Param("id"), model.OrderStatus(req.Status), req.Note, req.TrackingInfo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(order, true))
}

func (h *OrderHandler) BulkUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.BulkUpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	result, err := h.orderService.BulkTransition(ctx, req.OrderIDs, model.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.BulkUpdateResponse{
		Updated:  result.Updated,
		Failed:   result.Failed,
		Failures: result.Failures,
	})
}

func (h *OrderHandler) AdminList(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	offset := 0
	if raw := c.QueryParam("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	orders, total, err := h.orderService.List(ctx, model.OrderStatus(c.QueryParam("status")), limit, offset)
	if err != nil {
		return err
	}

	out := make([]*dto.OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = orderResponse(order, false)
	}
	return c.JSON(http.StatusOK, &dto.OrderListResponse{Orders: out, Total: total})
}

func (h *OrderHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	if err := h.orderService.HandleWebhook(ctx, c.Request().Header, body); err != nil {
		return fmt.Errorf("handle webhook: %w", err)
	}

	return c.NoContent(http.StatusOK)
}

func orderResponse(order *model.Order, withHistory bool) *dto.OrderResponse {
	items := make([]*dto.OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = &dto.OrderItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     service.Display(item.PriceCents),
			Cents:     item.PriceCents,
			Quantity:  item.Quantity,
			Thumbnail: item.Thumbnail,
		}
	}

	resp := &dto.OrderResponse{
		ID:            order.ID,
		UserID:        order.UserID,
		Items:         items,
		Subtotal:      service.Display(order.SubtotalCents),
		Tax:           service.Display(order.TaxCents),
		Shipping:      service.Display(order.ShippingCents),
		Total:         service.Display(order.TotalCents),
		TotalCents:    order.TotalCents,
		PaymentStatus: string(order.PaymentStatus),
		OrderStatus:   string(order.OrderStatus),
		ShippingAddress: dto.ShippingAddress{
			Name:    order.ShipName,
			Line1:   order.ShipLine1,
			Line2:   order.ShipLine2,
			City:    order.ShipCity,
			State:   order.ShipState,
			Zip:     order.ShipZip,
			Country: order.ShipCountry,
		},
		CreatedAt: order.CreatedAt,
	}

	if order.Carrier != "" || order.TrackingNumber != "" || order.EstimatedDelivery != nil {
		resp.TrackingInfo = &dto.TrackingInfo{
			Carrier:           order.Carrier,
			TrackingNumber:    order.TrackingNumber,
			EstimatedDelivery: order.EstimatedDelivery,
		}
	}

	if withHistory {
		resp.StatusHistory = make([]*dto.StatusEventResponse, len(order.StatusHistory))
		for i, event := range order.StatusHistory {
			resp.StatusHistory[i] = &dto.StatusEventResponse{
				Status:    string(event.Status),
				Note:      event.Note,
				Timestamp: event.CreatedAt,
			}
		}
	}

	return resp
}
