package config

import (
	"testing"

	"github.com/gostremiobr/gostremiobr/internal/models"
)

func TestCreateFromUserData(t *testing.T) {
	base := &Config{
		RDAPIKey:      "base-key",
		TMDBAPIKey:    "tmdb-key",
		QualityToShow: []string{"1080p", "720p"},
		DatabasePath:  "/tmp/db",
		CacheSize:     500,
	}

	cfg := CreateFromUserData(map[string]interface{}{
		"RD_API_KEY":      "user-key",
		"QUALITY_TO_SHOW": []interface{}{"2160p"},
	}, base)

	if cfg.RDAPIKey != "user-key" {
		t.Errorf("RDAPIKey = %q, want user override", cfg.RDAPIKey)
	}
	if cfg.TMDBAPIKey != "tmdb-key" {
		t.Errorf("TMDBAPIKey = %q, want base value", cfg.TMDBAPIKey)
	}
	if len(cfg.QualityToShow) != 1 || cfg.QualityToShow[0] != "2160p" {
		t.Errorf("QualityToShow = %v", cfg.QualityToShow)
	}
	if cfg.DatabasePath != "/tmp/db" || cfg.CacheSize != 500 {
		t.Errorf("storage settings not copied: %+v", cfg)
	}

	// Base config must stay untouched.
	if base.RDAPIKey != "base-key" || len(base.QualityToShow) != 2 {
		t.Errorf("base config mutated: %+v", base)
	}
}

func TestCreateFromUserDataDefaults(t *testing.T) {
	cfg := CreateFromUserData(map[string]interface{}{}, nil)
	if len(cfg.QualityToShow) == 0 {
		t.Error("default qualities not applied")
	}
	if cfg.CacheSize <= 0 {
		t.Error("default cache size not applied")
	}
}

func TestQualityAllowed(t *testing.T) {
	cfg := &Config{QualityToShow: []string{"1080p", "720p"}}

	if !cfg.QualityAllowed(models.Quality1080p) {
		t.Error("1080p rejected")
	}
	if cfg.QualityAllowed(models.Quality360p) {
		t.Error("360p allowed")
	}
}
