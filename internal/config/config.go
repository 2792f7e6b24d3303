// Package config provides centralized configuration management for ordercheck.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// SourceConfig locates and decodes the ERP export files.
type SourceConfig struct {
	// Dirs are candidate data directories, searched in order
	Dirs []string `env:"DATA_DIRS" envAlt:"DATA_DIR" default:"data,../data,public/data"`

	// HeaderFile is the production order header export (default: header.csv)
	HeaderFile string `env:"HEADER_FILE" default:"header.csv"`

	// MaterialFile is the material movement export (default: material.csv)
	MaterialFile string `env:"MATERIAL_FILE" default:"material.csv"`

	// Encoding is the WHATWG label of the export code page (default: euc-kr)
	Encoding string `env:"SOURCE_ENCODING" default:"euc-kr"`

	// Delimiter is the field separator; "tab" selects a tab (default: ,)
	Delimiter string `env:"SOURCE_DELIMITER" default:","`

	// Watch reloads the exports as soon as they change on disk (default: true)
	Watch bool `env:"SOURCE_WATCH" default:"true"`

	// WatchDebounce batches bursts of file events (default: 500ms)
	WatchDebounce time.Duration `env:"SOURCE_WATCH_DEBOUNCE" default:"500ms"`

	// RefreshInterval re-reads the exports periodically; 0 disables (default: 0)
	RefreshInterval time.Duration `env:"SOURCE_REFRESH_INTERVAL" default:"0s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per client IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey rejects /api requests without a valid X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	// Enabled serves /metrics (default: true)
	Enabled bool `env:"METRICS_ENABLED" default:"true"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// DelimiterRune returns the configured field separator. Empty means ','.
func (c *SourceConfig) DelimiterRune() rune {
	switch c.Delimiter {
	case "", ",":
		return ','
	case "tab", `\t`, "\t":
		return '\t'
	}
	return []rune(c.Delimiter)[0]
}
