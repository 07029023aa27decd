package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultUpstreamURL is the TripleWhale order ingestion endpoint
const DefaultUpstreamURL = "https://api.triplewhale.com/api/v2/data-in/orders"

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required,oneof=development staging production test"`
	Port        string `validate:"required,numeric"`
	Log         LogConfig
	Upstream    UpstreamConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"required,oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"required,oneof=json text"`
}

// UpstreamConfig holds the order API configuration. An empty APIKey is allowed
// here and rejected per request.
type UpstreamConfig struct {
	URL     string        `validate:"required,url"`
	APIKey  string        `validate:"-"`
	Timeout time.Duration `validate:"min=0"`
}

// String renders the config with the API key redacted
func (c *Config) String() string {
	key := "NOT_SET"
	if c.Upstream.APIKey != "" {
		key = "[REDACTED]"
	}
	return fmt.Sprintf("Config{Environment:%s Port:%s Log:%s/%s Upstream:%s APIKey:%s Timeout:%s}",
		c.Environment, c.Port, c.Log.Level, c.Log.Format, c.Upstream.URL, key, c.Upstream.Timeout)
}

// Validate checks the config values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load loads configuration from environment variables and a .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("TRIPLEWHALE_API_URL", DefaultUpstreamURL)
	v.SetDefault("UPSTREAM_TIMEOUT", "0s")

	timeout, err := time.ParseDuration(v.GetString("UPSTREAM_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Upstream: UpstreamConfig{
			URL:     v.GetString("TRIPLEWHALE_API_URL"),
			APIKey:  v.GetString("TRIPLEWHALE_API_KEY"),
			Timeout: timeout,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
