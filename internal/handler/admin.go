package handler

import (
	"net/http"
	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/internal/service"
	"strconv"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	dashboard, err := h.adminService.Dashboard(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
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

	users, total, err := h.adminService.ListUsers(ctx, limit, offset)
	if err != nil {
		return err
	}

	out := make([]*dto.UserResponse, len(users))
	for i, user := range users {
		out[i] = userResponse(user)
	}
	return c.JSON(http.StatusOK, &dto.UserListResponse{Users: out, Total: total})
}

func (h *AdminHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	userID := c.Param("id")
	if principal := middleware.PrincipalFrom(c); principal != nil && principal.ID == userID {
		return apperr.Validation("cannot change your own role")
	}

	if err := h.adminService.UpdateUserRole(ctx, userID, model.Role(req.Role)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Param("id")
	if principal := middleware.PrincipalFrom(c); principal != nil && principal.ID == userID {
		return apperr.Validation("cannot delete your own account")
	}

	if err := h.adminService.DeleteUser(ctx, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
