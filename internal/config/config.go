package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/health"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/rank"
)

// Config is the application configuration. Components receive the sections
// they need at construction; there is no process-wide config state.
type Config struct {
	Collector CollectorConfig `yaml:"collector"`
	Cache     CacheConfig     `yaml:"cache"`
	Database  DatabaseConfig  `yaml:"database"`
	Output    OutputConfig    `yaml:"output"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Health    HealthConfig    `yaml:"health"`
	Universe  UniverseConfig  `yaml:"universe"`
}

type CollectorConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	HistoryDays       int     `yaml:"history_days"`
	BreakerThreshold  uint32  `yaml:"breaker_threshold"`
	BreakerCooldownSec int    `yaml:"breaker_cooldown_seconds"`
}

// BreakerCooldown returns the breaker open interval as a duration.
func (c CollectorConfig) BreakerCooldown() time.Duration {
	return time.Duration(c.BreakerCooldownSec) * time.Second
}

type CacheConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr"`
	Namespace string `yaml:"namespace"`
	TTLHours  int    `yaml:"ttl_hours"`
}

// TTL returns the cache expiry as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// TopNConfig sets how many top picks each tier contributes.
type TopNConfig struct {
	Flagship int `yaml:"flagship"`
	Giant    int `yaml:"giant"`
	Large    int `yaml:"large"`
	Mid      int `yaml:"mid"`
	Overall  int `yaml:"overall"`
}

type RankingConfig struct {
	Weights rank.Weights `yaml:"weights"`
	TopN    TopNConfig   `yaml:"top_n"`
}

type HealthConfig struct {
	Weights health.DimensionWeights `yaml:"weights"`
}

type UniverseConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Collector: CollectorConfig{
			RequestsPerSecond:  1.0,
			HistoryDays:        400,
			BreakerThreshold:   5,
			BreakerCooldownSec: 60,
		},
		Cache: CacheConfig{
			Enabled:   false,
			Addr:      "localhost:6379",
			Namespace: "hniq",
			TTLHours:  24,
		},
		Database: DatabaseConfig{Enabled: false},
		Output:   OutputConfig{Dir: "out"},
		Ranking: RankingConfig{
			Weights: rank.DefaultWeights(),
			TopN:    TopNConfig{Flagship: 7, Giant: 5, Large: 7, Mid: 10, Overall: 20},
		},
		Health: HealthConfig{Weights: health.DefaultDimensionWeights()},
	}
}

// Load reads config from YAML, layered over the defaults, and validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the structural constraints. Weight sections that do not sum
// to 1.0 are fatal.
func (c *Config) Validate() error {
	if err := c.Ranking.Weights.Validate(); err != nil {
		return err
	}
	if err := c.Health.Weights.Validate(); err != nil {
		return err
	}
	if c.Collector.RequestsPerSecond <= 0 {
		return fmt.Errorf("collector requests_per_second must be positive, got %f", c.Collector.RequestsPerSecond)
	}
	if c.Collector.HistoryDays < 30 {
		return fmt.Errorf("collector history_days must cover at least 30 days, got %d", c.Collector.HistoryDays)
	}
	for name, n := range map[string]int{
		"flagship": c.Ranking.TopN.Flagship,
		"giant":    c.Ranking.TopN.Giant,
		"large":    c.Ranking.TopN.Large,
		"mid":      c.Ranking.TopN.Mid,
		"overall":  c.Ranking.TopN.Overall,
	} {
		if n <= 0 {
			return fmt.Errorf("top_n.%s must be positive, got %d", name, n)
		}
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("cache enabled but addr not set")
	}
	if c.Database.Enabled && c.Database.DSN == "" {
		return fmt.Errorf("database enabled but dsn not set")
	}
	return nil
}
