// Package config loads the repricer's runtime configuration from an
// optional YAML file, overridden by environment variables, following
// order_service/main.go's getEnv-with-default pattern and the yaml.v3
// dependency every teacher service already carries.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable spec.md §6 lists as a "recognized option."
type Config struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	RedisURL      string `yaml:"redis_url"`
	PostgresDSN   string `yaml:"postgres_dsn"`

	QueueBackend        string        `yaml:"queue_backend"` // "sqs" or "kafka"
	QueueURL            string        `yaml:"queue_url"`
	KafkaBrokers        []string      `yaml:"kafka_brokers"`
	KafkaTopic          string        `yaml:"kafka_topic"`
	DLQURL              string        `yaml:"dlq_url"`
	WorkerCount         int           `yaml:"worker_count"`
	MaxInFlightMessages int           `yaml:"max_in_flight_messages"`
	VisibilityTimeout   time.Duration `yaml:"visibility_timeout"`
	LongPollSeconds     int           `yaml:"long_poll_seconds"`
	MaxRetries          int           `yaml:"max_retries"`
	PerEventTimeout     time.Duration `yaml:"per_event_timeout"`
	StoreOpTimeout      time.Duration `yaml:"store_op_timeout"`

	WebhookBindAddr string `yaml:"webhook_bind_addr"`

	NATSUrl      string `yaml:"nats_url"`
	NATSSubject  string `yaml:"nats_subject"`

	JWTPublicKeyPEM string `yaml:"jwt_public_key_pem"`
	RequireAuth     bool   `yaml:"require_auth"`
}

// Default returns the baseline configuration used when no file and no
// environment overrides are present.
func Default() *Config {
	return &Config{
		Environment:         "development",
		LogLevel:            "info",
		RedisURL:            "redis://localhost:6379",
		QueueBackend:        "sqs",
		WorkerCount:         50,
		MaxInFlightMessages: 10,
		VisibilityTimeout:   60 * time.Second,
		LongPollSeconds:     20,
		MaxRetries:          5,
		PerEventTimeout:     5 * time.Second,
		StoreOpTimeout:      1 * time.Second,
		WebhookBindAddr:     ":8080",
		NATSSubject:         "repricer.calculated_prices",
		RequireAuth:         false,
	}
}

// Load reads an optional YAML file at path (skipped if empty or missing),
// then applies REPRICER_* environment variable overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Environment = getEnv("REPRICER_ENV", cfg.Environment)
	cfg.LogLevel = getEnv("REPRICER_LOG_LEVEL", cfg.LogLevel)
	cfg.RedisURL = getEnv("REPRICER_REDIS_URL", cfg.RedisURL)
	cfg.PostgresDSN = getEnv("REPRICER_POSTGRES_DSN", cfg.PostgresDSN)
	cfg.QueueBackend = getEnv("REPRICER_QUEUE_BACKEND", cfg.QueueBackend)
	cfg.QueueURL = getEnv("REPRICER_QUEUE_URL", cfg.QueueURL)
	cfg.DLQURL = getEnv("REPRICER_DLQ_URL", cfg.DLQURL)
	cfg.WebhookBindAddr = getEnv("REPRICER_WEBHOOK_ADDR", cfg.WebhookBindAddr)
	cfg.NATSUrl = getEnv("REPRICER_NATS_URL", cfg.NATSUrl)
	cfg.KafkaTopic = getEnv("REPRICER_KAFKA_TOPIC", cfg.KafkaTopic)

	cfg.WorkerCount = getEnvInt("REPRICER_WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxInFlightMessages = getEnvInt("REPRICER_MAX_IN_FLIGHT", cfg.MaxInFlightMessages)
	cfg.LongPollSeconds = getEnvInt("REPRICER_LONG_POLL_SECONDS", cfg.LongPollSeconds)
	cfg.MaxRetries = getEnvInt("REPRICER_MAX_RETRIES", cfg.MaxRetries)
	cfg.VisibilityTimeout = getEnvDuration("REPRICER_VISIBILITY_TIMEOUT", cfg.VisibilityTimeout)
	cfg.PerEventTimeout = getEnvDuration("REPRICER_PER_EVENT_TIMEOUT", cfg.PerEventTimeout)
	cfg.StoreOpTimeout = getEnvDuration("REPRICER_STORE_OP_TIMEOUT", cfg.StoreOpTimeout)
	cfg.RequireAuth = getEnvBool("REPRICER_REQUIRE_AUTH", cfg.RequireAuth)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
