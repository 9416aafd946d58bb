package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Site     SiteConfig
	Stripe   StripeConfig
	Redis    RedisConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for the admin routes
}

// SiteConfig describes the storefront's own public origin. Checkout redirect
// URLs and product images are only ever built against it.
type SiteConfig struct {
	BaseURL string
}

type StripeConfig struct {
	SecretKey       string
	WebhookSecret   string
	Currency        string
	ProviderTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", nil),
		},
		Site: SiteConfig{
			BaseURL: strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
		},
		Stripe: StripeConfig{
			SecretKey:       os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret:   os.Getenv("STRIPE_WEBHOOK_SECRET"),
			Currency:        strings.ToLower(getEnv("CURRENCY", "usd")),
			ProviderTimeout: time.Duration(getEnvAsInt("PROVIDER_TIMEOUT", 20)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{cfg.Site.BaseURL}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
// The Stripe keys are deliberately not required here: a missing secret key is
// reported by the payment client on first use.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("SITE_URL must be an absolute http(s) URL, got %q", c.Site.BaseURL)
	}

	if len(c.Stripe.Currency) != 3 {
		return fmt.Errorf("CURRENCY must be a 3-letter ISO code, got %q", c.Stripe.Currency)
	}

	if c.Stripe.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
