package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config holds runtime configuration for every binary.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	ServerPort     string `envconfig:"SERVER_PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RateLimit      int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	JWTSecret            string        `envconfig:"JWT_SECRET"`
	OperatorPasswordHash string        `envconfig:"OPERATOR_PASSWORD_HASH"`
	OperatorSubject      string        `envconfig:"OPERATOR_SUBJECT" default:"operator"`
	TokenTTL             time.Duration `envconfig:"TOKEN_TTL" default:"12h"`

	StoreDriver  string `envconfig:"STORE_DRIVER" default:"postgres"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	DBMaxConns   int32  `envconfig:"DB_MAX_CONNS" default:"4"`
	RedisAddr    string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPrefix  string `envconfig:"REDIS_PREFIX" default:"jewelry"`
	DocumentName string `envconfig:"DOCUMENT_NAME" default:"jewelry-shop"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	DefaultExtraCharge decimal.Decimal `envconfig:"DEFAULT_EXTRA_CHARGE_PERCENTAGE" default:"0"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want postgres, redis or memory)", c.StoreDriver)
	}
	if c.DefaultExtraCharge.IsNegative() {
		return errors.New("DEFAULT_EXTRA_CHARGE_PERCENTAGE cannot be negative")
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in production")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
