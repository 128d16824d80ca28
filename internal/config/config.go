package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the ledger service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"ledger-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"LEDGER_API_PORT" envDefault:"8290"`
	LogLevel        string        `env:"LEDGER_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Storage Backend Selection
	StorageBackend string `env:"LEDGER_STORAGE_BACKEND" envDefault:"postgres"` // Options: "postgres" or "memory"

	// Database
	DBPostgresqlWriteDSN string `env:"DB_POSTGRESQL_WRITE_DSN"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Event webhook sink (optional mirror of the committed event stream)
	EventWebhookURL     string        `env:"LEDGER_EVENT_WEBHOOK_URL"`
	EventWebhookTimeout time.Duration `env:"LEDGER_EVENT_WEBHOOK_TIMEOUT" envDefault:"10s"`

	// Authentication
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"AUTH_ISSUER"`
	AuthAudience string `env:"AUTH_AUDIENCE"`
	AuthJWKSURL  string `env:"AUTH_JWKS_URL"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.DBPostgresqlWriteDSN = strings.TrimSpace(cfg.DBPostgresqlWriteDSN)
	cfg.EventWebhookURL = strings.TrimSpace(cfg.EventWebhookURL)

	if cfg.IsPostgresStorage() && cfg.DBPostgresqlWriteDSN == "" {
		return nil, fmt.Errorf("DB_POSTGRESQL_WRITE_DSN is required when LEDGER_STORAGE_BACKEND is postgres")
	}
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsMemoryStorage returns true if the in-memory backend is configured.
func (c *Config) IsMemoryStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "memory"
}

// IsPostgresStorage returns true if the postgres backend is configured.
func (c *Config) IsPostgresStorage() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "postgres"
}
