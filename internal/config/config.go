// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/internal/models"
)

const (
	defaultConfigFile   = "config.json"
	defaultDatabasePath = "./gostremiobr.db"
)

// Config holds the application configuration. It supports loading from
// environment variables and a JSON file; per-request user data can override
// the API keys and quality filter.
type Config struct {
	RDAPIKey   string `json:"RD_API_KEY"`
	TMDBAPIKey string `json:"TMDB_API_KEY"`

	QualityToShow  []string `json:"QUALITY_TO_SHOW"`
	IndexerMirrors []string `json:"INDEXER_MIRRORS"`

	DatabasePath string `json:"DATABASE_PATH"`
	CacheSize    int    `json:"CACHE_SIZE"`

	qualityMap  map[models.Quality]bool
	qualityOnce sync.Once
}

// Load reads configuration from environment variables and an optional JSON
// file. Environment variables take precedence over file values.
func Load() (*Config, error) {
	cfg := &Config{
		CacheSize:    constants.DefaultCacheSize,
		DatabasePath: getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
	}

	configFile := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.loadFromEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) loadFromEnv() {
	if key := os.Getenv("RD_API_KEY"); key != "" {
		c.RDAPIKey = key
	}
	if key := os.Getenv("TMDB_API_KEY"); key != "" {
		c.TMDBAPIKey = key
	}
	if mirrors := os.Getenv("INDEXER_MIRRORS"); mirrors != "" {
		c.IndexerMirrors = splitAndTrim(mirrors)
	}
	if qualities := os.Getenv("QUALITY_TO_SHOW"); qualities != "" {
		c.QualityToShow = splitAndTrim(qualities)
	}
}

func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, c)
}

func (c *Config) applyDefaults() {
	if len(c.QualityToShow) == 0 {
		c.QualityToShow = append([]string{}, constants.DefaultQualities...)
	}
	if c.CacheSize <= 0 {
		c.CacheSize = constants.DefaultCacheSize
	}
	if c.DatabasePath == "" {
		c.DatabasePath = defaultDatabasePath
	}
}

// AllowedQualities returns the configured quality filter as typed tiers.
func (c *Config) AllowedQualities() []models.Quality {
	out := make([]models.Quality, 0, len(c.QualityToShow))
	for _, q := range c.QualityToShow {
		out = append(out, models.Quality(q))
	}
	return out
}

// QualityAllowed reports whether a tier passes the configured filter.
func (c *Config) QualityAllowed(q models.Quality) bool {
	c.qualityOnce.Do(func() {
		c.qualityMap = make(map[models.Quality]bool, len(c.QualityToShow))
		for _, s := range c.QualityToShow {
			c.qualityMap[models.Quality(s)] = true
		}
	})
	return c.qualityMap[q]
}

// CreateFromUserData builds a per-request config from user-provided data on
// top of the base config. User data takes precedence.
func CreateFromUserData(userConfig map[string]interface{}, baseConfig *Config) *Config {
	cfg := &Config{}
	if baseConfig != nil {
		cfg.copyFrom(baseConfig)
	}

	if val, ok := userConfig["RD_API_KEY"]; ok {
		if str, ok := val.(string); ok && str != "" {
			cfg.RDAPIKey = str
		}
	}
	if val, ok := userConfig["TMDB_API_KEY"]; ok {
		if str, ok := val.(string); ok && str != "" {
			cfg.TMDBAPIKey = str
		}
	}
	if val, ok := userConfig["QUALITY_TO_SHOW"]; ok {
		if arr, ok := val.([]interface{}); ok && len(arr) > 0 {
			cfg.QualityToShow = convertToStringSlice(arr)
		}
	}

	cfg.applyDefaults()
	return cfg
}

func (c *Config) copyFrom(src *Config) {
	c.RDAPIKey = src.RDAPIKey
	c.TMDBAPIKey = src.TMDBAPIKey
	c.QualityToShow = append([]string{}, src.QualityToShow...)
	c.IndexerMirrors = append([]string{}, src.IndexerMirrors...)
	c.DatabasePath = src.DatabasePath
	c.CacheSize = src.CacheSize
}

func convertToStringSlice(arr []interface{}) []string {
	result := make([]string, 0, len(arr))
	for _, v := range arr {
		if str, ok := v.(string); ok {
			result = append(result, str)
		}
	}
	return result
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
