// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration loaded from environment variables.
// Defaults target local development.
type Config struct {
	AppName       string `env:"APP_NAME" envDefault:"go-recipe-api"`
	Env           string `env:"APP_ENV" envDefault:"development"` // development, staging, production
	Port          string `env:"PORT" envDefault:"8080"`
	GinMode       string `env:"GIN_MODE" envDefault:"release"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// Database
	DBHost        string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string        `env:"DB_PORT" envDefault:"5432"`
	DBUser        string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword    string        `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName        string        `env:"DB_NAME" envDefault:"recipes"`
	DBSSLMode     string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxConns    int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns    int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLife time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`

	// Redis. Empty address disables sessions and rate limiting.
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// JWT
	JWTAccessSecret  string        `env:"JWT_ACCESS_SECRET" envDefault:"devaccesssecret"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET" envDefault:"devrefreshsecret"`
	AccessTTL        time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
	RefreshTTL       time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`

	// Cookies
	CookieDomain string `env:"COOKIE_DOMAIN" envDefault:"localhost"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"` // comma-separated
	MigrationsDir      string `env:"MIGRATIONS_DIR" envDefault:"db/migrations"`

	// Google Cloud Storage. Empty bucket disables image upload.
	GCSBucket              string `env:"GCS_BUCKET"`
	GCSCredentialsJSONPath string `env:"GCS_CREDENTIALS_JSON"`

	// RabbitMQ. Empty URL disables ingredient events.
	RabbitMQURL             string `env:"RABBITMQ_URL"`
	RabbitMQIngredientQueue string `env:"RABBITMQ_INGREDIENT_QUEUE" envDefault:"ingredient_events"`

	// Elasticsearch. Empty addresses disable ingredient search.
	ElasticsearchAddrs string `env:"ELASTICSEARCH_ADDRS"` // comma-separated
	ElasticsearchUser  string `env:"ELASTICSEARCH_USERNAME"`
	ElasticsearchPass  string `env:"ELASTICSEARCH_PASSWORD"`
	ESIngredientsIndex string `env:"ES_INGREDIENTS_INDEX" envDefault:"ingredients"`

	DebugMetricsEnabled bool `env:"DEBUG_METRICS_ENABLED" envDefault:"true"`
	HTTPLogEnabled      bool `env:"HTTP_LOG_ENABLED" envDefault:"false"`
	RateLimitEnabled    bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
}

// Load parses environment variables and returns a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	switch cfg.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// PostgresDSN returns a DSN compatible with pgx
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
