// Package config loads the service configuration from an optional YAML file
// and environment variables. Environment variables take precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	envconfig "audition-api/pkg/config"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Log      LogConfig      `yaml:"log"`
	Version  string         `yaml:"version"`
}

// ServerConfig configures the inbound HTTP server.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// UpstreamConfig configures the client of the upstream REST API.
type UpstreamConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxBodySize    int64         `yaml:"max_body_size"`
	BreakerEnabled bool          `yaml:"breaker_enabled"`

	// BreakerConsecutiveFailures opens the breaker after this many failed
	// upstream calls in a row. Zero leaves only the failure ratio rule.
	BreakerConsecutiveFailures int `yaml:"breaker_consecutive_failures"`
}

// TracingConfig configures the tracer provider.
type TracingConfig struct {
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL:     "https://jsonplaceholder.typicode.com",
			Timeout:     10 * time.Second,
			MaxBodySize: 10 << 20,

			BreakerConsecutiveFailures: 5,
		},
		Tracing: TracingConfig{
			ServiceName: "audition-api",
			SampleRatio: 1.0,
		},
		Log:     LogConfig{Level: "info"},
		Version: "dev",
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and environment variables, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- path comes from CONFIG_FILE, set by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = envconfig.GetEnvString("SERVER_ADDR", c.Server.Addr)
	c.Server.ReadHeaderTimeout = envconfig.GetEnvDuration("SERVER_READ_HEADER_TIMEOUT", c.Server.ReadHeaderTimeout)
	c.Server.ShutdownTimeout = envconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Upstream.BaseURL = envconfig.GetEnvString("UPSTREAM_BASE_URL", c.Upstream.BaseURL)
	c.Upstream.Timeout = envconfig.GetEnvDuration("UPSTREAM_TIMEOUT", c.Upstream.Timeout)
	c.Upstream.MaxBodySize = envconfig.GetEnvInt64("UPSTREAM_MAX_BODY_SIZE", c.Upstream.MaxBodySize)
	c.Upstream.BreakerEnabled = envconfig.GetEnvBool("UPSTREAM_BREAKER_ENABLED", c.Upstream.BreakerEnabled)
	c.Upstream.BreakerConsecutiveFailures = envconfig.GetEnvInt("UPSTREAM_BREAKER_CONSECUTIVE_FAILURES", c.Upstream.BreakerConsecutiveFailures)

	c.Tracing.ServiceName = envconfig.GetEnvString("TRACING_SERVICE_NAME", c.Tracing.ServiceName)
	c.Tracing.SampleRatio = envconfig.GetEnvFloat("TRACING_SAMPLE_RATIO", c.Tracing.SampleRatio)

	c.Log.Level = envconfig.GetEnvString("LOG_LEVEL", c.Log.Level)
	c.Version = envconfig.GetEnvString("VERSION", c.Version)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server addr is required"))
	}
	if err := envconfig.ValidatePositiveDuration(c.Server.ReadHeaderTimeout); err != nil {
		errs = append(errs, fmt.Errorf("server read_header_timeout: %w", err))
	}
	if err := envconfig.ValidateDurationRange(c.Server.ShutdownTimeout, time.Second, 5*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown_timeout: %w", err))
	}

	if u, err := url.Parse(c.Upstream.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("upstream base_url must be an absolute http(s) URL, got %q", c.Upstream.BaseURL))
	}
	if err := envconfig.ValidatePositiveDuration(c.Upstream.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("upstream timeout: %w", err))
	}
	if c.Upstream.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("upstream max_body_size must be positive, got %d", c.Upstream.MaxBodySize))
	}
	if c.Upstream.BreakerConsecutiveFailures < 0 {
		errs = append(errs, fmt.Errorf("upstream breaker_consecutive_failures must not be negative, got %d", c.Upstream.BreakerConsecutiveFailures))
	}

	if c.Tracing.ServiceName == "" {
		errs = append(errs, errors.New("tracing service_name is required"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing sample_ratio must be between 0 and 1, got %v", c.Tracing.SampleRatio))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log level must be one of debug, info, warn, error, got %q", c.Log.Level))
	}

	return errors.Join(errs...)
}
