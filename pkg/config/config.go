package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type StoreKind string

const (
	StoreMemory   StoreKind = "memory"
	StorePostgres StoreKind = "postgres"
)

type Config struct {
	AppEnv         string `env:"APP_ENV" envDefault:"dev"`
	HTTPAddr       string `env:"HTTP_ADDR"`
	MigrationsPath string `env:"MIGRATIONS_PATH"`

	// Store selects the backing store. memory keeps everything in process and is
	// seeded from the demo catalog; postgres needs DATABASE_URL or DB_*.
	Store StoreKind `env:"STORE" envDefault:"memory"`

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string `env:"DATABASE_URL"`
	DirectURL   string `env:"DIRECT_URL"`

	DB DBConfig `envPrefix:"DB_"`

	Session SessionConfig

	// Seed loads the demo identities, venues, events and bookings on startup.
	Seed         bool   `env:"SEED" envDefault:"true"`
	SeedPassword string `env:"SEED_PASSWORD" envDefault:"bookit-demo"`

	// EnforceCapacity rejects bookings that would push an event's pending+approved
	// attendee total above its capacity.
	EnforceCapacity bool `env:"ENFORCE_CAPACITY" envDefault:"true"`

	// AllowedOrigins is the CORS allowlist for the storefront frontend. Example:
	//   https://bookit.example.com,http://localhost:5173
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8080"`

	Telemetry TelemetryConfig
}

type DBConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	Name     string `env:"NAME" envDefault:"bookit"`
	User     string `env:"USER" envDefault:"bookit"`
	Password string `env:"PASSWORD" envDefault:"bookit"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type SessionConfig struct {
	// Secret signs HS256 session tokens. The dev default must never reach prod.
	Secret string        `env:"JWT_SECRET" envDefault:"bookit-dev-secret"`
	TTL    time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	Issuer string        `env:"SESSION_ISSUER" envDefault:"bookit"`
}

type TelemetryConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	Endpoint    string `env:"OTEL_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"bookit-api"`
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	if cfg.HTTPAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.HTTPAddr = ":" + port
		} else {
			cfg.HTTPAddr = ":8081"
		}
	}

	cfg.AllowedOrigins = trimList(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad is Load for commands that cannot start without configuration.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("config: unknown STORE %q", c.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be > 0")
	}
	if c.IsProd() && (c.Session.Secret == "" || c.Session.Secret == "bookit-dev-secret") {
		return fmt.Errorf("config: JWT_SECRET must be set in prod")
	}
	return nil
}

func (c Config) IsProd() bool {
	return c.AppEnv == "prod"
}

func trimList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
