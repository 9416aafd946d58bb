package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/athenareborn/pokemyheart-store/internal/config"
	"github.com/athenareborn/pokemyheart-store/internal/handlers"
	"github.com/athenareborn/pokemyheart-store/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// routes bundles the HTTP handlers served by the API
type routes struct {
	health    *handlers.HealthHandler
	bundles   *handlers.BundleHandler
	checkout  *handlers.CheckoutHandler
	discounts *handlers.DiscountHandler
	inventory *handlers.InventoryHandler
	orders    *handlers.OrderHandler
	webhooks  *handlers.WebhookHandler
}

func newRouter(rt routes, cfg *config.Config, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "api_key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.health.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/bundles", rt.bundles.ListBundles)
		r.Get("/bundles/{bundleId}", rt.bundles.GetBundle)

		r.Post("/checkout", rt.checkout.CreateCheckout)
		r.Post("/discounts/validate", rt.discounts.ValidateDiscount)
		r.Get("/inventory", rt.inventory.ListStock)

		// signed by Stripe, not by an API key
		r.Post("/webhooks/stripe", rt.webhooks.HandleStripe)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth))

			r.Post("/discounts", rt.discounts.CreateDiscount)
			r.Get("/discounts/stats", rt.discounts.GetStats)
			r.Put("/inventory/{bundleId}", rt.inventory.SetStock)
			r.Get("/orders", rt.orders.ListOrders)
			r.Get("/orders/{orderId}", rt.orders.GetOrder)
			r.Patch("/orders/{orderId}", rt.orders.UpdateOrder)
		})
	})

	return r
}
