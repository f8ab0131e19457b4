package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		// Mode is "dev" or "prod".
		Mode string `yaml:"mode"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
		// LeaderboardLimit caps the entries read back; 0 means all.
		LeaderboardLimit int64 `yaml:"leaderboard_limit"`
	} `yaml:"redis"`
	Postgres struct {
		URL  string `yaml:"url"`
		Seed bool   `yaml:"seed"`
	} `yaml:"postgres"`
	Quiz struct {
		// TTL is how long curated bank questions stay cached.
		TTL         string `yaml:"ttl"`
		RewardDelay string `yaml:"reward_delay"`
	} `yaml:"quiz"`
	Provider struct {
		APIKey    string `yaml:"api_key"`
		Model     string `yaml:"model"`
		Timeout   string `yaml:"timeout"`
		DemoDelay string `yaml:"demo_delay"`
	} `yaml:"provider"`
	Profile struct {
		Name     string `yaml:"name"`
		AvatarID string `yaml:"avatar"`
	} `yaml:"profile"`
}

// Load reads YAML config from path and applies environment overrides.
// A missing file yields the defaults rather than an error.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if v := os.Getenv(key); v != "" {
			c.Provider.APIKey = v
			break
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.URL = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
