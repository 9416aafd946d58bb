package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/athenareborn/pokemyheart-store/internal/checkout"
	"github.com/athenareborn/pokemyheart-store/internal/config"
	"github.com/athenareborn/pokemyheart-store/internal/discount"
	"github.com/athenareborn/pokemyheart-store/internal/handlers"
	"github.com/athenareborn/pokemyheart-store/internal/payment"
	"github.com/athenareborn/pokemyheart-store/internal/repository"
	"github.com/athenareborn/pokemyheart-store/internal/service"
	"github.com/athenareborn/pokemyheart-store/internal/store"
	"github.com/athenareborn/pokemyheart-store/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"site_url", cfg.Site.BaseURL,
		"log_level", cfg.LogLevel,
	)
	if cfg.Stripe.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY is not set; checkout requests will fail")
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET is not set; webhooks will be rejected")
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStart()

	redisClient, err := store.Connect(startCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	st := store.New(redisClient)

	// Catalog
	bundleRepo, err := repository.NewInMemoryBundleRepository(repository.DefaultBundles)
	if err != nil {
		log.Error("invalid bundle catalog", "error", err)
		os.Exit(1)
	}

	// Discount codes
	discountValidator := discount.NewValidator(st)
	if err := discountValidator.Load(startCtx); err != nil {
		log.Error("failed to load discount codes", "error", err)
		os.Exit(1)
	}
	stats := discountValidator.GetStats()
	log.Info("discount codes loaded", "loaded_codes", stats["loaded_codes"])

	// Checkout pipeline
	itemValidator, err := checkout.NewValidator(bundleRepo, cfg.Site.BaseURL)
	if err != nil {
		log.Error("failed to build checkout validator", "error", err)
		os.Exit(1)
	}
	rules := checkout.DefaultPricingRules
	builder := checkout.NewSessionBuilder(cfg.Site.BaseURL, cfg.Stripe.Currency, rules)
	stripeClient := payment.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.ProviderTimeout, log)

	// Services
	bundleService := service.NewBundleService(bundleRepo)
	checkoutService := service.NewCheckoutService(itemValidator, rules, builder, stripeClient, log)
	inventoryService := service.NewInventoryService(bundleRepo, st)
	orderService := service.NewOrderService(st, st, log)

	router := newRouter(routes{
		health:    handlers.NewHealthHandler(log, st),
		bundles:   handlers.NewBundleHandler(bundleService, log),
		checkout:  handlers.NewCheckoutHandler(checkoutService, log),
		discounts: handlers.NewDiscountHandler(discountValidator, log),
		inventory: handlers.NewInventoryHandler(inventoryService, log),
		orders:    handlers.NewOrderHandler(orderService, log),
		webhooks:  handlers.NewWebhookHandler(payment.NewWebhookVerifier(cfg.Stripe.WebhookSecret), orderService, log),
	}, cfg, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("server failed", "error", err)
		os.Exit(1)
	case sig := <-quit:
		log.Info("shutting down server...", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
