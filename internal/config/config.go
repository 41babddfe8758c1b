package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultTopN matches the dashboard's default slider position.
	DefaultTopN = 20
	// MaxTopN is the largest ranking length the dashboard offers.
	MaxTopN = 50
	// DefaultCacheTTL applies when neither report nor data TTLs are set.
	DefaultCacheTTL = 10 * time.Minute
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Report struct {
		TopN     int    `yaml:"top_n"`
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"report"`
	Data struct {
		Dir string `yaml:"dir"`
		TTL string `yaml:"ttl"`
	} `yaml:"data"`
}

// Load reads YAML config from path. A missing file yields the zero config so
// the CLI can run on flags alone.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TopN returns the configured ranking length clamped to [1, MaxTopN].
func (c Config) TopN() int {
	switch n := c.Report.TopN; {
	case n <= 0:
		return DefaultTopN
	case n > MaxTopN:
		return MaxTopN
	default:
		return n
	}
}

// ReportTTL is how long built reports stay memoized.
func (c Config) ReportTTL() time.Duration {
	return TTLDuration(c.Report.CacheTTL, DefaultCacheTTL)
}

// DatasetTTL is how long loaded datasets stay cached. It falls back to the
// report TTL when data.ttl is unset.
func (c Config) DatasetTTL() time.Duration {
	return TTLDuration(c.Data.TTL, c.ReportTTL())
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
