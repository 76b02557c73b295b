// Package config loads the platform configuration from environment variables.
package config

import (
	"fmt"

	pkgconfig "github.com/ShaileshM23290/dollup-sub001/pkg/config"
)

const defaultDeploymentSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the booking platform server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"dollup"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"dollup_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"dollup_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (artist directory cache)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisEnabled  bool   `env:"REDIS_ENABLED" envDefault:"true"`
	// ArtistCacheTTLSecs bounds how stale the public artist listing may be.
	ArtistCacheTTLSecs int `env:"ARTIST_CACHE_TTL_SECS" envDefault:"60"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`

	// Auth tokens. The deployment secret keys all three role token codecs.
	DeploymentSecret string `env:"DEPLOYMENT_SECRET" envDefault:"change-this-to-a-secure-secret"`

	// Payment gateway. Provider "mock" runs an in-process gateway for
	// development; anything else is treated as Razorpay.
	GatewayProvider  string `env:"GATEWAY_PROVIDER" envDefault:"razorpay"`
	GatewayKeyID     string `env:"GATEWAY_KEY_ID"`
	GatewayKeySecret string `env:"GATEWAY_KEY_SECRET"`
	GatewayBaseURL   string `env:"GATEWAY_BASE_URL" envDefault:"https://api.razorpay.com"`

	// Seed admin. When set and no admin exists, one is created at startup.
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`
	SeedAdminName     string `env:"SEED_ADMIN_NAME" envDefault:"Platform Admin"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// LoginRPS throttles the unauthenticated auth endpoints per client IP.
	LoginRPS int `env:"LOGIN_RATE_LIMIT_RPS" envDefault:"5"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	// In non-development environments, require an explicitly set, strong
	// deployment secret. Tokens signed with the default would be forgeable.
	if cfg.Environment != "development" {
		if cfg.DeploymentSecret == defaultDeploymentSecret {
			return nil, fmt.Errorf("DEPLOYMENT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.DeploymentSecret) < 32 {
			return nil, fmt.Errorf("DEPLOYMENT_SECRET must be at least 32 characters long, got %d", len(cfg.DeploymentSecret))
		}
	}

	if cfg.GatewayProvider != "mock" {
		if cfg.GatewayKeyID == "" || cfg.GatewayKeySecret == "" {
			return nil, fmt.Errorf("GATEWAY_KEY_ID and GATEWAY_KEY_SECRET are required for provider %q", cfg.GatewayProvider)
		}
	}

	return cfg, nil
}
