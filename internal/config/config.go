package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config holds the service settings. Values come from an optional YAML file and
// are then overridden by environment variables.
type Config struct {
	Port      string        `yaml:"port"`
	StaticDir string        `yaml:"static_dir"`
	DisplayTZ string        `yaml:"display_timezone"`
	RedisURL  string        `yaml:"redis_url"`
	ESPN      ESPNConfig    `yaml:"espn"`
	Replay    ReplayConfig  `yaml:"replay"`
	Polling   PollingConfig `yaml:"polling"`
}

type ESPNConfig struct {
	APIBase    string `yaml:"api_base"`
	SportPath  string `yaml:"sport_path"`
	SeasonType int    `yaml:"season_type"`
}

type ReplayConfig struct {
	BaseURL   string `yaml:"base_url"`
	FetchMode string `yaml:"fetch_mode"` // "curl" or "browser"
}

type PollingConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:      "5000",
		DisplayTZ: "Europe/Vienna",
		ESPN: ESPNConfig{
			APIBase:    "https://site.api.espn.com/apis/site/v2/sports",
			SportPath:  "basketball/nba",
			SeasonType: 3,
		},
		Replay: ReplayConfig{
			BaseURL:   "https://watchreplay.net",
			FetchMode: "curl",
		},
		Polling: PollingConfig{
			Interval: 5 * time.Minute,
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty) on top of the
// defaults and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.StaticDir = getEnv("STATIC_DIR", cfg.StaticDir)
	cfg.DisplayTZ = getEnv("DISPLAY_TIMEZONE", cfg.DisplayTZ)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.ESPN.APIBase = getEnv("ESPN_API_BASE", cfg.ESPN.APIBase)
	cfg.ESPN.SportPath = getEnv("ESPN_SPORT_PATH", cfg.ESPN.SportPath)
	cfg.Replay.BaseURL = getEnv("REPLAY_BASE_URL", cfg.Replay.BaseURL)
	cfg.Replay.FetchMode = getEnv("REPLAY_FETCH_MODE", cfg.Replay.FetchMode)

	if v := os.Getenv("ESPN_SEASON_TYPE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ESPN_SEASON_TYPE %q: %w", v, err)
		}
		cfg.ESPN.SeasonType = n
	}
	if v := os.Getenv("ENABLE_POLLING"); v != "" {
		cfg.Polling.Enabled = v == "true"
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid POLL_INTERVAL %q: %w", v, err)
		}
		cfg.Polling.Interval = d
	}
	return nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Replay.FetchMode != "curl" && c.Replay.FetchMode != "browser" {
		return fmt.Errorf("unknown replay fetch mode %q", c.Replay.FetchMode)
	}
	if _, err := time.LoadLocation(c.DisplayTZ); err != nil {
		return fmt.Errorf("invalid display timezone %q: %w", c.DisplayTZ, err)
	}
	if c.Polling.Enabled && c.Polling.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.Polling.Interval)
	}
	return nil
}

// Location returns the display timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
