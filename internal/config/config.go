// Package config loads process configuration from the environment, per
// spec.md §6 and SPEC_FULL.md A3. It follows the teacher's every
// cmd/*/main.go pattern: godotenv.Load tolerating a missing file, then
// os.Getenv reads validated once at startup, failing fast via
// logger.Fatal (exit code 1) when a required key is absent.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/logger"
)

// Config is the fully-resolved process configuration. cmd/worker and
// cmd/api each load one at startup and pass it down to the components
// they construct.
type Config struct {
	Stage string

	CheckoutAPIKey        string
	PaymentProviderSecret string
	DatabaseURL           string
	FrontendURL           string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	ResendAPIKey string
	FromEmail    string
	FromName     string

	FulfillmentWorkerEnabled            bool
	ProviderReplayWorkerEnabled         bool
	ProviderAutomationAlertWorkerEnabled bool
	WeeklyDigestEnabled                 bool
	CatalogJobSchedulerEnabled          bool

	FulfillmentPollIntervalSeconds int
	FulfillmentBatchSize           int
	ProviderReplayIntervalSeconds  int
	ProviderReplayLimit            int
	ProviderAlertIntervalSeconds   int

	CronSchedulePath string

	AWSSecretsEnabled bool

	APIRateLimitPerSecond int
	APIRateLimitBurst     int
}

// Load reads configuration from the environment, validating the four
// required keys spec.md §6 names. A missing key is returned as an error
// naming that key rather than a panic, so cmd/* can control the exit
// path (MustLoad turns it into logger.Fatal).
func Load(stage string) (*Config, error) {
	_ = godotenv.Load() // tolerate a missing .env in deployed environments

	cfg := &Config{
		Stage:                 stage,
		CheckoutAPIKey:        os.Getenv("CHECKOUT_API_KEY"),
		PaymentProviderSecret: os.Getenv("PAYMENT_PROVIDER_SECRET"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		FrontendURL:           os.Getenv("FRONTEND_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		FromEmail:    envDefault("NOTIFICATION_FROM_EMAIL", "no-reply@example.com"),
		FromName:     envDefault("NOTIFICATION_FROM_NAME", "Fulfillment"),

		FulfillmentWorkerEnabled:             envBool("FULFILLMENT_WORKER_ENABLED", true),
		ProviderReplayWorkerEnabled:          envBool("PROVIDER_REPLAY_WORKER_ENABLED", true),
		ProviderAutomationAlertWorkerEnabled: envBool("PROVIDER_AUTOMATION_ALERT_WORKER_ENABLED", true),
		WeeklyDigestEnabled:                  envBool("WEEKLY_DIGEST_ENABLED", false),
		CatalogJobSchedulerEnabled:           envBool("CATALOG_JOB_SCHEDULER_ENABLED", true),

		FulfillmentPollIntervalSeconds: envInt("FULFILLMENT_WORKER_INTERVAL_SECONDS", 30),
		FulfillmentBatchSize:           envInt("FULFILLMENT_WORKER_LIMIT", 25),
		ProviderReplayIntervalSeconds:  envInt("PROVIDER_REPLAY_WORKER_INTERVAL_SECONDS", 30),
		ProviderReplayLimit:            envInt("PROVIDER_REPLAY_WORKER_LIMIT", 50),
		ProviderAlertIntervalSeconds:   envInt("PROVIDER_AUTOMATION_ALERT_WORKER_INTERVAL_SECONDS", 3600),

		CronSchedulePath: envDefault("CRON_SCHEDULE_PATH", "schedule.toml"),

		AWSSecretsEnabled: envBool("AWS_SECRETS_ENABLED", stage != StageLocal),

		APIRateLimitPerSecond: envInt("API_RATE_LIMIT_PER_SECOND", 20),
		APIRateLimitBurst:     envInt("API_RATE_LIMIT_BURST", 40),
	}

	missing := map[string]string{
		"CHECKOUT_API_KEY":        cfg.CheckoutAPIKey,
		"PAYMENT_PROVIDER_SECRET": cfg.PaymentProviderSecret,
		"DATABASE_URL":            cfg.DatabaseURL,
		"FRONTEND_URL":            cfg.FrontendURL,
	}
	for key, val := range missing {
		if val == "" {
			return nil, &configError{key: key}
		}
	}

	return cfg, nil
}

type configError struct{ key string }

func (e *configError) Error() string {
	return "missing required environment variable: " + e.key
}

// MustLoad loads configuration and calls logger.Fatal (exit code 1, per
// §6) on any validation failure.
func MustLoad(stage string) *Config {
	cfg, err := Load(stage)
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}
	return cfg
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func (c *Config) FulfillmentPollInterval() time.Duration {
	return time.Duration(c.FulfillmentPollIntervalSeconds) * time.Second
}

func (c *Config) ProviderReplayInterval() time.Duration {
	return time.Duration(c.ProviderReplayIntervalSeconds) * time.Second
}

func (c *Config) ProviderAlertInterval() time.Duration {
	return time.Duration(c.ProviderAlertIntervalSeconds) * time.Second
}
