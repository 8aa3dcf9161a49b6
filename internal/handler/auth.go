package handler

import (
	"net/http"
	"storefront-api/internal/apperr"
	"storefront-api/internal/config"
	"storefront-api/internal/dto"
	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/internal/service"
	"time"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService service.AuthService
	session     *config.Session
}

func NewAuthHandler(authService service.AuthService, session *config.Session) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		session:     session,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	user, token, err := h.authService.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusCreated, userResponse(user))
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	user, token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, userResponse(user))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	principal := middleware.PrincipalFrom(c)

	return c.JSON(http.StatusOK, &dto.UserResponse{
		ID:    principal.ID,
		Email: principal.Email,
		Name:  principal.Name,
		Role:  string(principal.Role),
	})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     h.session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.session.TTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func userResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
