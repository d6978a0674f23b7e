// Package app opens the configured storage, catalog and catalog cache. It is shared
// by the API server and storefrontctl.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"storefront-state-api/internal/cache"
	"storefront-state-api/internal/config"
	"storefront-state-api/internal/repository"
	"storefront-state-api/internal/storage"
)

// Closer releases a resource opened by this package.
type Closer func()

// OpenStorage selects the collection backend. A positive flush interval wraps it in
// the write-behind buffer.
func OpenStorage(cfg config.StorageConfig) (storage.Storage, Closer, error) {
	var backend storage.Storage

	switch cfg.Type {
	case "redis":
		rs, err := storage.NewRedisStorage(storage.RedisConfig{
			Addr:      cfg.RedisAddress(),
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis storage: %w", err)
		}
		backend = rs
		log.Printf("[App] Redis storage initialized at %s", cfg.RedisAddress())
	case "memory":
		backend = storage.NewMemoryStorage()
		log.Println("[App] Memory storage initialized, collections will not survive a restart")
	default: // sqlite
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create storage directory: %w", err)
			}
		}
		ss, err := storage.NewSQLiteStorage(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite storage: %w", err)
		}
		backend = ss
	}

	if cfg.FlushInterval > 0 {
		backend = storage.NewBuffered(backend, cfg.FlushInterval)
		log.Printf("[App] Write-behind enabled, flush interval %v", cfg.FlushInterval)
	}

	return backend, func() {
		if err := backend.Close(); err != nil {
			log.Printf("[App] Storage close error: %v", err)
		}
	}, nil
}

// OpenCatalog selects the live catalog collaborator.
func OpenCatalog(cfg config.CatalogConfig) (repository.CatalogRepository, Closer, error) {
	switch cfg.Type {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql catalog: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			// Alert cycles fail and retry until the catalog comes up.
			log.Printf("[App] Warning: MySQL catalog ping failed: %v", err)
		}
		log.Println("[App] MySQL catalog repository initialized")
		return repository.NewMySQLCatalogRepository(db), func() { db.Close() }, nil

	case "postgres":
		repo, err := repository.NewPostgresCatalogRepository(cfg.PostgresDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres catalog: %w", err)
		}
		log.Println("[App] PostgreSQL catalog repository initialized")
		return repo, func() { repo.Close() }, nil

	default: // memory
		if cfg.SeedFile == "" {
			log.Println("[App] Memory catalog initialized empty")
			return repository.NewMemoryCatalogRepository(), func() {}, nil
		}
		repo, err := repository.LoadMemoryCatalog(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[App] Memory catalog loaded from %s", cfg.SeedFile)
		return repo, func() {}, nil
	}
}

// CacheCatalog wraps catalog in a read-through cache when CATALOG_CACHE_TYPE is set.
// The Redis cache reuses the storage Redis settings. An unreachable Redis leaves the
// catalog uncached.
func CacheCatalog(catalog repository.CatalogRepository, cfg config.CatalogConfig, st config.StorageConfig) (repository.CatalogRepository, Closer) {
	var c cache.Cache

	switch cfg.CacheType {
	case "memory":
		c = cache.NewMemoryCache(nil)
	case "redis":
		rc, err := cache.NewRedisCache(cache.RedisCacheConfig{
			Addr:      st.RedisAddress(),
			Password:  st.RedisPassword,
			DB:        st.RedisDB,
			KeyPrefix: st.KeyPrefix + "catalog:",
		})
		if err != nil {
			log.Printf("[App] Warning: catalog cache disabled, Redis unavailable: %v", err)
			return catalog, func() {}
		}
		c = rc
	default:
		return catalog, func() {}
	}

	log.Printf("[App] Catalog cache enabled (%s, ttl %v)", cfg.CacheType, cfg.CacheTTL)
	cached := repository.NewCachedCatalogRepository(catalog, c, cfg.CacheTTL)
	return cached, func() { cached.Close() }
}
