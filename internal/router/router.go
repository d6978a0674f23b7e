package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"storefront-state-api/internal/handler"
	"storefront-state-api/internal/middleware"
)

// Config holds the configuration for creating a router. Nil handlers leave their
// routes unmounted.
type Config struct {
	Handler              *handler.Handler
	CartHandler          *handler.CartHandler
	WishlistHandler      *handler.WishlistHandler
	CompareHandler       *handler.CompareHandler
	RecentHandler        *handler.RecentHandler
	AlertsHandler        *handler.AlertsHandler
	NotificationsHandler *handler.NotificationsHandler
	AdminHandler         *handler.AdminHandler
	AuthMiddleware       func(http.Handler) http.Handler
	CORSOrigins          []string
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Group(func(r chi.Router) {
		if cfg.AuthMiddleware != nil {
			r.Use(cfg.AuthMiddleware)
		}

		r.Route("/api/v1", func(r chi.Router) {
			if cfg.Handler != nil {
				r.Get("/health", cfg.Handler.Health)
				r.Get("/ready", cfg.Handler.Ready)
			}

			if cfg.CartHandler != nil {
				r.Route("/cart", func(r chi.Router) {
					r.Get("/", cfg.CartHandler.Get)
					r.Delete("/", cfg.CartHandler.Clear)
					r.Post("/items", cfg.CartHandler.AddItem)
					r.Patch("/items/{id}", cfg.CartHandler.UpdateQuantity)
					r.Delete("/items/{id}", cfg.CartHandler.RemoveItem)
				})
			}

			if cfg.WishlistHandler != nil {
				r.Route("/wishlist", func(r chi.Router) {
					r.Get("/", cfg.WishlistHandler.List)
					r.Delete("/", cfg.WishlistHandler.Clear)
					r.Post("/toggle", cfg.WishlistHandler.Toggle)
					r.Get("/{product_id}", cfg.WishlistHandler.Contains)
					r.Delete("/{product_id}", cfg.WishlistHandler.Remove)
				})
			}

			if cfg.CompareHandler != nil {
				r.Route("/compare", func(r chi.Router) {
					r.Get("/", cfg.CompareHandler.List)
					r.Post("/", cfg.CompareHandler.Add)
					r.Delete("/", cfg.CompareHandler.Clear)
					r.Delete("/{product_id}", cfg.CompareHandler.Remove)
				})
			}

			if cfg.RecentHandler != nil {
				r.Route("/recently-viewed", func(r chi.Router) {
					r.Get("/", cfg.RecentHandler.List)
					r.Post("/", cfg.RecentHandler.Add)
					r.Delete("/", cfg.RecentHandler.Clear)
				})
			}

			if cfg.AlertsHandler != nil {
				r.Route("/alerts", func(r chi.Router) {
					r.Get("/low-stock", cfg.AlertsHandler.LowStock)
					r.Get("/price-drops", cfg.AlertsHandler.PriceDrops)
					r.Post("/refresh", cfg.AlertsHandler.Refresh)
				})
			}

			if cfg.NotificationsHandler != nil {
				r.Get("/notifications", cfg.NotificationsHandler.List)
				r.Post("/notifications/{id}/activate", cfg.NotificationsHandler.Activate)
			}

			if cfg.AdminHandler != nil {
				r.Get("/admin/stats", cfg.AdminHandler.GetStats)
			}
		})
	})

	return r
}
