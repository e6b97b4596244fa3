package store

import (
	"os"
	"path/filepath"
	"testing"

	"llm-market-sim/internal/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Market.NewsPerDay != 5 {
		t.Errorf("Expected 5 news per day, got %d", cfg.Market.NewsPerDay)
	}
	if cfg.Market.NoNewsClampPct != 0.10 {
		t.Errorf("Expected no-news clamp 0.10, got %f", cfg.Market.NoNewsClampPct)
	}
	if cfg.Market.NewsClampPct != 0.15 {
		t.Errorf("Expected news clamp 0.15, got %f", cfg.Market.NewsClampPct)
	}
	if cfg.Persistence.Backend != "FILE" {
		t.Errorf("Expected FILE backend by default, got %s", cfg.Persistence.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestTierForFallsBackToDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tiers = map[string]TierConfig{}

	tc := cfg.TierFor(types.TierElementary)
	if tc.InitialCash != 1_000_000 {
		t.Errorf("Expected default elementary cash 1000000, got %d", tc.InitialCash)
	}
	tc = cfg.TierFor(types.TierHigh)
	if tc.InitialCash != 10_000_000 {
		t.Errorf("Expected default high cash 10000000, got %d", tc.InitialCash)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero news per day", func(c *Config) { c.Market.NewsPerDay = -1 }},
		{"clamp out of range", func(c *Config) { c.Market.NoNewsClampPct = 1.5 }},
		{"inverted impulse range", func(c *Config) { c.Market.ImpulseMaxPct = c.Market.ImpulseMinPct / 2 }},
		{"unknown backend", func(c *Config) { c.Persistence.Backend = "REDIS" }},
		{"unknown tier", func(c *Config) { c.Tiers["college"] = TierConfig{InitialCash: 1} }},
		{"non-positive tier cash", func(c *Config) { c.Tiers["middle"] = TierConfig{InitialCash: 0} }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("Expected validation error for %s", tc.name)
		}
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "llm:\n  provider: OPENAI\nmarket:\n  news_per_day: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.LLM.Provider != "OPENAI" {
		t.Errorf("Expected provider OPENAI, got %s", cfg.LLM.Provider)
	}
	if cfg.Market.NewsPerDay != 3 {
		t.Errorf("Expected news_per_day 3 from file, got %d", cfg.Market.NewsPerDay)
	}
	if cfg.Market.NewsClampPct != 0.15 {
		t.Errorf("Expected defaulted news clamp 0.15, got %f", cfg.Market.NewsClampPct)
	}
	if _, ok := cfg.Tiers["elementary"]; !ok {
		t.Error("Expected default tiers to be filled in")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}
