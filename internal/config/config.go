package config

import (
	"fmt"
	"math"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/repcrafter/gateway/internal/session"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Session  SessionConfig
	Google   GoogleConfig
	Stripe   StripeConfig
	Chat     ChatConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Logger   LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"repcrafter-gateway"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"8080"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"60"`
	// DisableAuth makes /api/me report every caller as authenticated and paid.
	DisableAuth bool `env:"DISABLE_AUTH"`
}

// SessionConfig configures the session cookie and its token.
type SessionConfig struct {
	Secret     string `env:"SESSION_SECRET"`
	TTL        string `env:"SESSION_TTL" envDefault:"30d"`
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"session"`
}

// GoogleConfig holds identity provider settings.
type GoogleConfig struct {
	ClientID       string `env:"GOOGLE_CLIENT_ID"`
	TimeoutSeconds int    `env:"GOOGLE_VERIFY_TIMEOUT_SECONDS" envDefault:"10"`
}

// StripeConfig holds billing settings. An empty SecretKey disables billing.
type StripeConfig struct {
	SecretKey         string `env:"STRIPE_SECRET_KEY"`
	PriceID           string `env:"STRIPE_PRICE_ID"`
	ProductName       string `env:"STRIPE_PRODUCT_NAME" envDefault:"REPCRAFTER Access"`
	UnitAmount        int64  `env:"STRIPE_UNIT_AMOUNT" envDefault:"299"`
	Currency          string `env:"STRIPE_CURRENCY" envDefault:"usd"`
	Interval          string `env:"STRIPE_INTERVAL" envDefault:"month"`
	APIURL            string `env:"STRIPE_API_URL"`
	MaxNetworkRetries int64  `env:"STRIPE_MAX_NETWORK_RETRIES" envDefault:"2"`
}

// ChatConfig describes the outbound chat webhook.
type ChatConfig struct {
	WebhookURL     string `env:"N8N_CHAT_WEBHOOK_URL"`
	BasicUser      string `env:"N8N_BASIC_USER"`
	BasicPass      string `env:"N8N_BASIC_PASS"`
	TimeoutSeconds int    `env:"N8N_TIMEOUT_SECONDS" envDefault:"45"`
	AppTag         string `env:"CHAT_APP_TAG" envDefault:"repcrafter"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir  string `env:"POSTGRES_MIGRATIONS_DIR" envDefault:"migrations"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values. An empty Addr keeps caches in process.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// CacheConfig tunes the billing status cache.
type CacheConfig struct {
	PaidStatusTTLSeconds int `env:"CACHE_PAID_TTL_SECONDS" envDefault:"60"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"14"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// Load reads configuration from a .env file (if any) and the environment,
// applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	return seconds(a.RequestTimeoutSeconds)
}

// SessionTTL resolves the session lifetime, falling back to 30 days when
// SESSION_TTL is not a valid timespan or does not fit in a time.Duration.
func (s SessionConfig) SessionTTL() time.Duration {
	n, ok := session.ParseTimespan(s.TTL)
	if !ok || n > math.MaxInt64/int64(time.Second) {
		return session.DefaultTTL
	}
	return time.Duration(n) * time.Second
}

// Timeout bounds a single identity token verification.
func (g GoogleConfig) Timeout() time.Duration {
	return seconds(g.TimeoutSeconds)
}

// Enabled reports whether billing is configured.
func (s StripeConfig) Enabled() bool {
	return s.SecretKey != ""
}

// Timeout bounds a single webhook call.
func (c ChatConfig) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

// PaidStatusTTL returns how long a billing lookup is reused.
func (c CacheConfig) PaidStatusTTL() time.Duration {
	return seconds(c.PaidStatusTTLSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
