package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/muurk/slidecast/internal/refresh"
	"github.com/muurk/slidecast/internal/retry"
	"github.com/muurk/slidecast/internal/stream"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "SLIDECAST"

	DefaultServer         = "http://localhost:8080"
	DefaultRequestTimeout = 10 * time.Second
)

// Config is the viewer's complete configuration.
type Config struct {
	// Server is the base URL of the page endpoints
	Server string `mapstructure:"server"`

	// StreamPath is the websocket endpoint on Server
	StreamPath string `mapstructure:"stream-path"`

	// RefreshInterval is the initial auto-refresh period in seconds
	RefreshInterval int `mapstructure:"refresh-interval"`

	// RequestTimeout bounds each page request
	RequestTimeout time.Duration `mapstructure:"request-timeout"`

	Retry RetryConfig `mapstructure:"retry"`

	LogLevel string `mapstructure:"log-level"`
	LogFile  string `mapstructure:"log-file"`

	// Path is the file the configuration was read from, if any
	Path string `mapstructure:"-"`
}

// RetryConfig shapes the stream reconnect backoff.
type RetryConfig struct {
	Base       time.Duration `mapstructure:"base"`
	Cap        time.Duration `mapstructure:"cap"`
	Multiplier float64       `mapstructure:"multiplier"`
	Jitter     float64       `mapstructure:"jitter"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:          DefaultServer,
		StreamPath:      stream.DefaultPath,
		RefreshInterval: refresh.DefaultIntervalSeconds,
		RequestTimeout:  DefaultRequestTimeout,
		Retry: RetryConfig{
			Base:       retry.DefaultBase,
			Cap:        retry.DefaultCap,
			Multiplier: retry.DefaultMultiplier,
			Jitter:     retry.DefaultJitterFraction,
		},
	}
}

// Load reads the configuration. An empty path means the default location.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	used := path
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		used = ""
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Path = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	d := Default()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server", d.Server)
	v.SetDefault("stream-path", d.StreamPath)
	v.SetDefault("refresh-interval", d.RefreshInterval)
	v.SetDefault("request-timeout", d.RequestTimeout)
	v.SetDefault("retry.base", d.Retry.Base)
	v.SetDefault("retry.cap", d.Retry.Cap)
	v.SetDefault("retry.multiplier", d.Retry.Multiplier)
	v.SetDefault("retry.jitter", d.Retry.Jitter)
	v.SetDefault("log-level", "")
	v.SetDefault("log-file", "")
	return v
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", c.Server, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL must be http or https, got %q", c.Server)
	}
	if u.Host == "" {
		return fmt.Errorf("server URL %q has no host", c.Server)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh-interval must be positive, got %d", c.RefreshInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request-timeout must be positive, got %s", c.RequestTimeout)
	}
	if err := c.RetryPolicy().Validate(); err != nil {
		return fmt.Errorf("invalid retry settings: %w", err)
	}
	return nil
}

// RetryPolicy builds a fresh reconnect policy from the retry settings.
func (c *Config) RetryPolicy() *retry.Policy {
	return retry.New(c.Retry.Base, c.Retry.Cap, c.Retry.Multiplier, c.Retry.Jitter)
}

// StreamURL returns the websocket URL derived from Server and StreamPath.
func (c *Config) StreamURL() (string, error) {
	return stream.EndpointURL(c.Server, c.StreamPath)
}
