package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server        ServerConfig
	App           AppConfig
	Storage       StorageConfig
	Catalog       CatalogConfig
	Alerts        AlertsConfig
	Auth          AuthConfig
	Notifications NotificationsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"storefront-state-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// StorageConfig selects where the persisted collections live.
type StorageConfig struct {
	Type      string `envconfig:"STORAGE_TYPE" default:"sqlite"` // memory, sqlite, or redis
	Path      string `envconfig:"STORAGE_PATH" default:"./data/storefront.db"`
	KeyPrefix string `envconfig:"STORAGE_KEY_PREFIX" default:"storefront:"`
	// FlushInterval > 0 enables write-behind batching. 0 writes through on every mutation.
	FlushInterval time.Duration `envconfig:"STORAGE_FLUSH_INTERVAL" default:"0s"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// CatalogConfig holds the live product catalog settings.
type CatalogConfig struct {
	Type         string        `envconfig:"CATALOG_TYPE" default:"memory"` // memory, mysql, or postgres
	SeedFile     string        `envconfig:"CATALOG_SEED_FILE" default:""`
	FetchTimeout time.Duration `envconfig:"CATALOG_FETCH_TIMEOUT" default:"10s"`
	// CacheType fronts the catalog with a read-through cache: none, memory, or redis.
	CacheType string        `envconfig:"CATALOG_CACHE_TYPE" default:"none"`
	CacheTTL  time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"30s"`

	Host     string `envconfig:"CATALOG_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"CATALOG_DB_PORT" default:"3306"`
	Name     string `envconfig:"CATALOG_DB_NAME" default:"storefront"`
	User     string `envconfig:"CATALOG_DB_USER" default:"root"`
	Password string `envconfig:"CATALOG_DB_PASS" default:""`
	SSLMode  string `envconfig:"CATALOG_DB_SSLMODE" default:"disable"`
}

// AlertsConfig holds the alert engine settings.
type AlertsConfig struct {
	Enabled           bool          `envconfig:"ALERTS_ENABLED" default:"true"`
	Interval          time.Duration `envconfig:"ALERT_INTERVAL" default:"60s"`
	LowStockThreshold int           `envconfig:"LOW_STOCK_THRESHOLD" default:"5"`
}

// AuthConfig holds API key settings. No keys disables authentication.
type AuthConfig struct {
	APIKeys []string `envconfig:"API_KEYS" default:""`
}

// NotificationsConfig sizes the in-memory notification feed.
type NotificationsConfig struct {
	FeedSize int `envconfig:"NOTIFICATION_FEED_SIZE" default:"50"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (s *StorageConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", s.RedisHost, s.RedisPort)
}

// MySQLDSN returns the MySQL data source name.
func (c *CatalogConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *CatalogConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// Keys returns the configured API keys with blanks removed.
func (a *AuthConfig) Keys() []string {
	keys := make([]string, 0, len(a.APIKeys))
	for _, k := range a.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Validate rejects unknown backend types and nonsensical limits.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.Storage.Type)
	}
	switch c.Catalog.Type {
	case "memory", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported CATALOG_TYPE %q", c.Catalog.Type)
	}
	switch c.Catalog.CacheType {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("unsupported CATALOG_CACHE_TYPE %q", c.Catalog.CacheType)
	}
	if c.Alerts.LowStockThreshold < 1 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD must be positive, got %d", c.Alerts.LowStockThreshold)
	}
	if c.Storage.FlushInterval < 0 {
		return fmt.Errorf("STORAGE_FLUSH_INTERVAL must not be negative")
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
