package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-state-api/internal/app"
	"storefront-state-api/internal/config"
	"storefront-state-api/internal/handler"
	"storefront-state-api/internal/middleware"
	"storefront-state-api/internal/model"
	"storefront-state-api/internal/notify"
	"storefront-state-api/internal/router"
	"storefront-state-api/internal/service"
	"storefront-state-api/internal/storage"
	"storefront-state-api/internal/store"
	"storefront-state-api/pkg/clock"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting storefront state API...")

	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	backend, closeStorage, err := app.OpenStorage(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer closeStorage()

	catalog, closeCatalog, err := app.OpenCatalog(cfg.Catalog)
	if err != nil {
		log.Fatalf("Failed to initialize catalog: %v", err)
	}
	defer closeCatalog()
	catalog, closeCache := app.CacheCatalog(catalog, cfg.Catalog, cfg.Storage)
	defer closeCache()

	clk := clock.RealClock{}
	feed := notify.NewFeed(cfg.Notifications.FeedSize, clk)
	notifier := notify.Multi{notify.LogNotifier{}, feed}

	// Stores rehydrate once at startup.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	cart := store.NewCart(ctx, backend, notifier)
	wishlist := store.NewWishlist(ctx, backend, notifier, clk)
	compare := store.NewCompare(ctx, backend, notifier)
	recent := store.NewRecentlyViewed(ctx, backend, clk)
	cancel()
	log.Printf("Stores loaded - cart: %d, wishlist: %d, compare: %d, recently viewed: %d",
		cart.ItemCount(), wishlist.Len(), len(compare.Items()), len(recent.Items()))

	lowStock := service.NewEngine[model.LowStockAlert](
		wishlist, catalog, notifier,
		service.LowStockDetector{Threshold: cfg.Alerts.LowStockThreshold},
		cfg.Catalog.FetchTimeout,
	)
	priceDrops := service.NewEngine[model.PriceDropAlert](
		wishlist, catalog, notifier,
		service.PriceDropDetector{},
		cfg.Catalog.FetchTimeout,
	)
	scheduler := service.NewScheduler(wishlist, service.SchedulerConfig{Interval: cfg.Alerts.Interval}, lowStock, priceDrops)
	if cfg.Alerts.Enabled {
		scheduler.Start()
	} else {
		log.Println("Alert scheduler disabled")
	}

	var statsProvider storage.StatsProvider
	if sp, ok := backend.(storage.StatsProvider); ok {
		statsProvider = sp
	}

	r := router.New(router.Config{
		Handler: handler.New(cfg.App.Name, cfg.App.Version, map[string]handler.ReadinessCheck{
			"storage": func(ctx context.Context) error {
				_, err := backend.Get(ctx, "__ready__")
				if errors.Is(err, storage.ErrNotFound) {
					return nil
				}
				return err
			},
		}),
		CartHandler:          handler.NewCartHandler(cart),
		WishlistHandler:      handler.NewWishlistHandler(wishlist),
		CompareHandler:       handler.NewCompareHandler(compare),
		RecentHandler:        handler.NewRecentHandler(recent),
		AlertsHandler:        handler.NewAlertsHandler(lowStock, priceDrops, scheduler),
		NotificationsHandler: handler.NewNotificationsHandler(feed),
		AdminHandler: handler.NewAdminHandler(handler.AdminConfig{
			StorageType: cfg.Storage.Type,
			Storage:     statsProvider,
			Engines:     []handler.EngineStatser{lowStock, priceDrops},
			Collections: map[string]func() int{
				"cart_items":      cart.ItemCount,
				"wishlist":        wishlist.Len,
				"compare":         func() int { return len(compare.Items()) },
				"recently_viewed": func() int { return len(recent.Items()) },
			},
			FeedLen: feed.Len,
		}),
		AuthMiddleware: middleware.NewAuthMiddleware(middleware.AuthConfig{APIKeys: cfg.Auth.Keys()}),
		CORSOrigins:    cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Stop alerts before storage closes; deferred closers flush pending writes.
	scheduler.Stop()

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
