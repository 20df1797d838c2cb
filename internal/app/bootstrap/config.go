package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	PublicBaseURL   string
	DefaultCurrency string

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string

	StripeAPIKey        string
	StripeAPIBaseURL    string
	StripeWebhookSecret string

	JWTSecret string

	MaxDBConns int32

	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	ReferralCookieTTL time.Duration
	LinkCacheTTL      time.Duration
	LinkCodeLength    int
	LinkCodeAttempts  int
	WebhookTolerance  time.Duration
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Marketplace struct {
		PublicBaseURL        string `yaml:"public_base_url"`
		DefaultCurrency      string `yaml:"default_currency"`
		ReferralCookieHours  int    `yaml:"referral_cookie_hours"`
		LinkCacheSeconds     int    `yaml:"link_cache_seconds"`
		LinkCodeLength       int    `yaml:"link_code_length"`
		LinkCodeAttempts     int    `yaml:"link_code_attempts"`
		WebhookToleranceSecs int    `yaml:"webhook_tolerance_seconds"`
	} `yaml:"marketplace"`
	Dependencies struct {
		PostgresURL      string   `yaml:"postgres_url"`
		RedisURL         string   `yaml:"redis_url"`
		KafkaBrokers     []string `yaml:"kafka_brokers"`
		StripeAPIBaseURL string   `yaml:"stripe_api_base_url"`
	} `yaml:"dependencies"`
}

// LoadConfig layers defaults, then the yaml file, then environment variables.
// A .env file is read best-effort before anything else so local runs behave
// like deployed ones. Secrets only ever come from the environment.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ServiceID:          "marketplace-service",
		HTTPPort:           8080,
		GRPCPort:           9090,
		PublicBaseURL:      "http://localhost:8080",
		DefaultCurrency:    "usd",
		MaxDBConns:         20,
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    100,
		ReferralCookieTTL:  24 * time.Hour,
		LinkCacheTTL:       5 * time.Minute,
		LinkCodeLength:     8,
		LinkCodeAttempts:   5,
		WebhookTolerance:   5 * time.Minute,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Marketplace.PublicBaseURL != "" {
			cfg.PublicBaseURL = f.Marketplace.PublicBaseURL
		}
		if f.Marketplace.DefaultCurrency != "" {
			cfg.DefaultCurrency = f.Marketplace.DefaultCurrency
		}
		if f.Marketplace.ReferralCookieHours > 0 {
			cfg.ReferralCookieTTL = time.Duration(f.Marketplace.ReferralCookieHours) * time.Hour
		}
		if f.Marketplace.LinkCacheSeconds > 0 {
			cfg.LinkCacheTTL = time.Duration(f.Marketplace.LinkCacheSeconds) * time.Second
		}
		if f.Marketplace.LinkCodeLength > 0 {
			cfg.LinkCodeLength = f.Marketplace.LinkCodeLength
		}
		if f.Marketplace.LinkCodeAttempts > 0 {
			cfg.LinkCodeAttempts = f.Marketplace.LinkCodeAttempts
		}
		if f.Marketplace.WebhookToleranceSecs > 0 {
			cfg.WebhookTolerance = time.Duration(f.Marketplace.WebhookToleranceSecs) * time.Second
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.StripeAPIBaseURL != "" {
			cfg.StripeAPIBaseURL = f.Dependencies.StripeAPIBaseURL
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.PublicBaseURL = envOrDefault("PUBLIC_BASE_URL", cfg.PublicBaseURL)
	cfg.DefaultCurrency = envOrDefault("DEFAULT_CURRENCY", cfg.DefaultCurrency)
	cfg.StripeAPIKey = envOrDefault("STRIPE_API_KEY", cfg.StripeAPIKey)
	cfg.StripeAPIBaseURL = envOrDefault("STRIPE_API_BASE_URL", cfg.StripeAPIBaseURL)
	cfg.StripeWebhookSecret = envOrDefault("STRIPE_WEBHOOK_SECRET", cfg.StripeWebhookSecret)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.ReferralCookieTTL = time.Duration(envInt("REFERRAL_COOKIE_HOURS", int(cfg.ReferralCookieTTL.Hours()))) * time.Hour
	cfg.LinkCacheTTL = time.Duration(envInt("LINK_CACHE_SECONDS", int(cfg.LinkCacheTTL.Seconds()))) * time.Second
	cfg.LinkCodeLength = envInt("LINK_CODE_LENGTH", cfg.LinkCodeLength)
	cfg.LinkCodeAttempts = envInt("LINK_CODE_ATTEMPTS", cfg.LinkCodeAttempts)
	cfg.WebhookTolerance = time.Duration(envInt("WEBHOOK_TOLERANCE_SECONDS", int(cfg.WebhookTolerance.Seconds()))) * time.Second

	if cfg.StripeWebhookSecret == "" {
		return Config{}, fmt.Errorf("missing STRIPE_WEBHOOK_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
