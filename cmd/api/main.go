package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"storefront-api/internal/cache"
	"storefront-api/internal/client"
	"storefront-api/internal/config"
	"storefront-api/internal/logger"
	"storefront-api/internal/repository"
	"storefront-api/internal/server"
	"storefront-api/internal/service"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db := client.InitMysqlClient(cfg.DatabaseURL)
	catalogClient := client.NewCatalogClient(&cfg.Catalog)
	paymentClient := client.NewPaymentClient(&cfg.Payment)

	productCache := cache.New(cfg.Cache.DefaultTTL, cfg.Cache.SweepInterval)
	defer productCache.Stop()

	userRepo := repository.NewUserRepository(db)
	cartRepo := repository.NewCartRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	productService := service.NewProductService(catalogClient, productCache, &cfg.Cache)

	svcs := server.Services{
		Auth:     service.NewAuthService(userRepo, &cfg.Session),
		Product:  productService,
		Cart:     service.NewCartService(db, cartRepo, productService),
		Wishlist: service.NewWishlistService(wishlistRepo, productService),
		Order: service.NewOrderService(
			db,
			paymentClient,
			orderRepo,
			cartRepo,
			webhookEventRepo,
			&cfg.Pricing,
			log,
		),
		Admin: service.NewAdminService(orderRepo, userRepo),
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(svcs, &cfg.Session, log)

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	productCache.Stop()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
