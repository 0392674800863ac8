package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "PROFILE_CARD_"

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

// Config holds application configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http" envPrefix:"HTTP_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
	Site     SiteConfig     `yaml:"site" envPrefix:"SITE_"`
	GitHub   GitHubConfig   `yaml:"github" envPrefix:"GITHUB_"`
	Platform PlatformConfig `yaml:"platform" envPrefix:"PLATFORM_"`
	Cache    CacheConfig    `yaml:"cache" envPrefix:"CACHE_"`
	OTel     OTelConfig     `yaml:"otel" envPrefix:"OTEL_"`
}

type HTTPConfig struct {
	Addr           string        `yaml:"addr" env:"ADDR"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// SiteConfig holds presentation settings.
type SiteConfig struct {
	Name string `yaml:"name" env:"NAME"`
}

// GitHubConfig configures the source-control platform client.
type GitHubConfig struct {
	URL               string        `yaml:"url" env:"URL"`
	Token             string        `yaml:"token" env:"TOKEN"`
	Timeout           time.Duration `yaml:"timeout" env:"TIMEOUT"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
	Burst             int           `yaml:"burst" env:"BURST"`
}

// PlatformConfig configures the internal user service client.
type PlatformConfig struct {
	URL     string        `yaml:"url" env:"URL"`
	Token   string        `yaml:"token" env:"TOKEN"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

type CacheConfig struct {
	Backend       string        `yaml:"backend" env:"BACKEND"`
	TTL           time.Duration `yaml:"ttl" env:"TTL"`
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"REDIS_DB"`
}

// OTelConfig enables tracing when Endpoint is set.
type OTelConfig struct {
	Endpoint    string `yaml:"endpoint" env:"ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:           ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
			RequestTimeout: 20 * time.Second,
		},
		Log:  LogConfig{Level: "info"},
		Site: SiteConfig{Name: "Gitcord"},
		GitHub: GitHubConfig{
			URL:               "https://api.github.com",
			Timeout:           5 * time.Second,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Platform: PlatformConfig{
			Timeout: 3 * time.Second,
		},
		Cache: CacheConfig{
			Backend:   CacheBackendMemory,
			TTL:       time.Minute,
			RedisAddr: "localhost:6379",
		},
		OTel: OTelConfig{
			ServiceName: "profile-card",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence (last wins).
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	// PORT is honoured for platforms that only inject a port number
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil && p > 0 {
			cfg.HTTP.Addr = fmt.Sprintf(":%d", p)
		}
	}

	return nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.GitHub.URL) == "" {
		errs = append(errs, errors.New("github.url is required"))
	}
	if c.GitHub.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("github.requests_per_second must not be negative"))
	}
	if c.GitHub.Timeout < 0 || c.Platform.Timeout < 0 || c.HTTP.RequestTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}

	// The server must still be able to write the 504 of a timed-out request
	if c.HTTP.RequestTimeout > 0 && c.HTTP.WriteTimeout > 0 && c.HTTP.WriteTimeout <= c.HTTP.RequestTimeout {
		errs = append(errs, errors.New("http.write_timeout must exceed http.request_timeout"))
	}

	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendNone:
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// HasPlatformConfig returns true if the internal user service is configured.
func (c *Config) HasPlatformConfig() bool {
	return c.Platform.URL != ""
}

// HasGitHubToken returns true if GitHub requests are authenticated.
func (c *Config) HasGitHubToken() bool {
	return c.GitHub.Token != ""
}
