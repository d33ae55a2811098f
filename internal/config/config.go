package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLRaw   string `yaml:"ttl"` // geocode cache TTL, e.g. "5m"

	TTL time.Duration `yaml:"-"`
}

type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	TokenTTLRaw string `yaml:"token_ttl"` // e.g. "168h"

	TokenTTL time.Duration `yaml:"-"`
}

type WorkerConfig struct {
	PollIntervalRaw string `yaml:"poll_interval"` // e.g. "1s"

	PollInterval time.Duration `yaml:"-"`
}

// parseDuration resolves a yaml duration string, falling back to def when the
// field is absent.
func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}

type GeocodeConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Worker   WorkerConfig   `yaml:"worker"`
	Geocode  GeocodeConfig  `yaml:"geocode"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(configPath string, dev bool) (*Config, error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Worker.PollInterval, err = parseDuration(cfg.Worker.PollIntervalRaw, time.Second); err != nil {
		return nil, fmt.Errorf("parse worker.poll_interval: %w", err)
	}
	if cfg.Redis.TTL, err = parseDuration(cfg.Redis.TTLRaw, 5*time.Minute); err != nil {
		return nil, fmt.Errorf("parse redis.ttl: %w", err)
	}
	if cfg.Auth.TokenTTL, err = parseDuration(cfg.Auth.TokenTTLRaw, 7*24*time.Hour); err != nil {
		return nil, fmt.Errorf("parse auth.token_ttl: %w", err)
	}
	if cfg.Geocode.BaseURL == "" {
		cfg.Geocode.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Geocode.UserAgent == "" {
		cfg.Geocode.UserAgent = "routr-carpool/1.0"
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
