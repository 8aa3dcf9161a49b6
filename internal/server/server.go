package server

import (
	"fmt"
	"storefront-api/internal/apperr"
	"storefront-api/internal/config"
	"storefront-api/internal/handler"
	mw "storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Services struct {
	Auth     service.AuthService
	Product  service.ProductService
	Cart     service.CartService
	Wishlist service.WishlistService
	Order    service.OrderService
	Admin    service.AdminService
}

type Server struct {
	echo            *echo.Echo
	session         *config.Session
	authService     service.AuthService
	authHandler     *handler.AuthHandler
	productHandler  *handler.ProductHandler
	cartHandler     *handler.CartHandler
	wishlistHandler *handler.WishlistHandler
	orderHandler    *handler.OrderHandler
	adminHandler    *handler.AdminHandler
}

func NewServer(svcs Services, session *config.Session, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger(log))
	e.HTTPErrorHandler = errorHandler(log)

	s := &Server{
		echo:            e,
		session:         session,
		authService:     svcs.Auth,
		authHandler:     handler.NewAuthHandler(svcs.Auth, session),
		productHandler:  handler.NewProductHandler(svcs.Product),
		cartHandler:     handler.NewCartHandler(svcs.Cart),
		wishlistHandler: handler.NewWishlistHandler(svcs.Wishlist),
		orderHandler:    handler.NewOrderHandler(svcs.Order),
		adminHandler:    handler.NewAdminHandler(svcs.Admin),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- auth --------
	auth := api.Group("/auth")
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/login", s.authHandler.Login)
	auth.POST("/logout", s.authHandler.Logout)
	auth.GET("/me", s.authHandler.Me, mw.Session(s.authService, s.session.CookieName))

	// -------- catalog (public) --------
	api.GET("/products", s.productHandler.List)
	api.GET("/products/search", s.productHandler.Search)
	api.GET("/products/categories", s.productHandler.Categories)
	api.GET("/products/category/:slug", s.productHandler.ByCategory)
	api.GET("/products/:id", s.productHandler.Get)

	// -------- payment provider callbacks --------
	api.POST("/payments/webhook", s.orderHandler.Webhook)

	// -------- session-protected --------
	protected := api.Group("", mw.Session(s.authService, s.session.CookieName))

	cart := protected.Group("/cart")
	cart.GET("", s.cartHandler.Get)
	cart.POST("", s.cartHandler.AddItem)
	cart.DELETE("", s.cartHandler.Clear)
	cart.PUT("/items/:productId", s.cartHandler.UpdateItem)
	cart.DELETE("/items/:productId", s.cartHandler.RemoveItem)

	wishlist := protected.Group("/wishlist")
	wishlist.GET("", s.wishlistHandler.List)
	wishlist.POST("", s.wishlistHandler.Add)
	wishlist.DELETE("/:productId", s.wishlistHandler.Remove)

	orders := protected.Group("/orders")
	orders.POST("/create-payment-intent", s.orderHandler.CreateIntent)
	orders.POST("/confirm", s.orderHandler.Confirm)
	orders.GET("", s.orderHandler.List)
	orders.GET("/:id", s.orderHandler.Get)

	// -------- admin --------
	admin := protected.Group("/admin", mw.RequireRole(model.RoleAdmin))
	admin.GET("/dashboard", s.adminHandler.Dashboard)
	admin.GET("/orders", s.orderHandler.AdminList)
	admin.PATCH("/orders/:id/status", s.orderHandler.Transition)
	admin.POST("/orders/bulk-update", s.orderHandler.BulkUpdate)
	admin.GET("/users", s.adminHandler.ListUsers)
	admin.PATCH("/users/:id", s.adminHandler.UpdateUser)
	admin.DELETE("/users/:id", s.adminHandler.DeleteUser)
}

// Echo exposes the underlying router for handler-level tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogMethod: true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	})
}

// errorHandler translates application errors into JSON responses using the
// apperr taxonomy; anything unrecognized is a 500 and gets logged.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := apperr.HTTPStatus(err)
		message := err.Error()

		if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		}

		if status >= 500 {
			log.Error("request failed",
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err))
			if apperr.KindOf(err) == apperr.KindInternal {
				message = "internal server error"
			}
		}

		_ = c.JSON(status, map[string]string{"error": message})
	}
}
