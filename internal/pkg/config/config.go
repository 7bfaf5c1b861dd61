package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, provider
//   endpoint/credentials), security settings
// - default: Values common across all environments (timeouts, page sizes,
//   log format), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	CORS     CORSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

// ProviderConfig describes the hosted row-store backend the repositories
// talk to. Collection names are the prefix joined with the logical name,
// e.g. prefix "app_" yields "app_wishlists".
type ProviderConfig struct {
	BaseURL          string        `envconfig:"PROVIDER_BASE_URL" required:"true"`
	APIKey           string        `envconfig:"PROVIDER_API_KEY" required:"true"`
	CollectionPrefix string        `envconfig:"PROVIDER_COLLECTION_PREFIX" default:""`
	Timeout          time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8081"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Session-Token"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,X-Session-Token"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

func (c *ProviderConfig) CollectionName(logical string) string {
	return c.CollectionPrefix + logical
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	cfg.Provider.BaseURL = strings.TrimRight(cfg.Provider.BaseURL, "/")
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Provider: ProviderConfig{
			BaseURL:          "http://localhost:18090",
			APIKey:           "test-api-key",
			CollectionPrefix: "test_",
			Timeout:          5 * time.Second,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
	}
}
