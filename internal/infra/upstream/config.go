package upstream

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the configuration for calls to the upstream REST API.
type Config struct {
	// BaseURL is the root of the upstream API. Resource paths (/posts, /comments)
	// are appended to it.
	// Default: https://jsonplaceholder.typicode.com
	BaseURL string

	// Timeout is the maximum duration for a single upstream request.
	// No other timeout policy is applied.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum upstream response body size in bytes.
	// Responses exceeding this limit are rejected instead of being buffered.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// BreakerEnabled wraps the transport in a circuit breaker.
	// Default: false
	BreakerEnabled bool
}

// DefaultConfig returns the default upstream configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://jsonplaceholder.typicode.com",
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		BreakerEnabled: false,
	}
}

// Validate checks that the configuration can be used to build a client.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL must have a host")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxBodySize <= 0 {
		return fmt.Errorf("max body size must be positive, got %d", c.MaxBodySize)
	}
	return nil
}
