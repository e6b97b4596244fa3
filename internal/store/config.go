package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"llm-market-sim/internal/types"
)

type TierConfig struct {
	InitialCash  int64  `yaml:"initial_cash"`
	Audience     string `yaml:"audience"`
	MinSentences int    `yaml:"min_sentences"`
	MaxSentences int    `yaml:"max_sentences"`
}

type Config struct {
	Currency string `yaml:"currency"`

	LLM struct {
		Provider    string  `yaml:"provider"` // OPENAI, CLAUDE, GEMINI or empty for noop
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`

	Market struct {
		NewsPerDay       int     `yaml:"news_per_day"`
		InterpretDelayMs int     `yaml:"interpret_delay_ms"`
		BaseDriftPct     float64 `yaml:"base_drift_pct"`     // no-news daily noise
		NewsDriftPct     float64 `yaml:"news_drift_pct"`     // idiosyncratic noise on news days
		NoNewsClampPct   float64 `yaml:"no_news_clamp_pct"`  // daily return bound, no-news mode
		NewsClampPct     float64 `yaml:"news_clamp_pct"`     // daily return bound, news mode
		ImpulseMinPct    float64 `yaml:"impulse_min_pct"`    // per-article impulse range
		ImpulseMaxPct    float64 `yaml:"impulse_max_pct"`
		MagnitudeCap     int     `yaml:"magnitude_cap"`      // cap on a single article's sentiment
	} `yaml:"market"`

	Tiers map[string]TierConfig `yaml:"tiers"`

	Persistence struct {
		Backend string `yaml:"backend"` // SUPABASE or FILE
		Table   string `yaml:"table"`
		Dir     string `yaml:"dir"`
	} `yaml:"persistence"`

	Journal struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"journal"`
}

func (c *Config) Validate() error {
	if c.Market.NewsPerDay <= 0 {
		return fmt.Errorf("market.news_per_day must be positive, got %d", c.Market.NewsPerDay)
	}
	if c.Market.NoNewsClampPct <= 0 || c.Market.NoNewsClampPct >= 1 {
		return fmt.Errorf("market.no_news_clamp_pct must be in (0,1), got %.2f", c.Market.NoNewsClampPct)
	}
	if c.Market.NewsClampPct <= 0 || c.Market.NewsClampPct >= 1 {
		return fmt.Errorf("market.news_clamp_pct must be in (0,1), got %.2f", c.Market.NewsClampPct)
	}
	if c.Market.ImpulseMinPct <= 0 || c.Market.ImpulseMaxPct <= c.Market.ImpulseMinPct {
		return fmt.Errorf("market impulse range invalid: [%.3f, %.3f]", c.Market.ImpulseMinPct, c.Market.ImpulseMaxPct)
	}
	if c.Persistence.Backend != "SUPABASE" && c.Persistence.Backend != "FILE" {
		return fmt.Errorf("persistence.backend must be 'SUPABASE' or 'FILE', got '%s'", c.Persistence.Backend)
	}
	for name, tier := range c.Tiers {
		if !types.Tier(name).Valid() {
			return fmt.Errorf("unknown tier '%s' in tiers section", name)
		}
		if tier.InitialCash <= 0 {
			return fmt.Errorf("tiers.%s.initial_cash must be positive, got %d", name, tier.InitialCash)
		}
	}
	return nil
}

// TierFor returns the configuration for a tier, falling back to built-in
// defaults when the tier is not present in the config file.
func (c *Config) TierFor(t types.Tier) TierConfig {
	if tc, ok := c.Tiers[string(t)]; ok {
		return tc
	}
	return defaultTiers()[string(t)]
}

func defaultTiers() map[string]TierConfig {
	return map[string]TierConfig{
		string(types.TierElementary): {
			InitialCash:  1_000_000,
			Audience:     "elementary school students in grades 5-6",
			MinSentences: 8,
			MaxSentences: 10,
		},
		string(types.TierMiddle): {
			InitialCash:  5_000_000,
			Audience:     "middle school students",
			MinSentences: 10,
			MaxSentences: 12,
		},
		string(types.TierHigh): {
			InitialCash:  10_000_000,
			Audience:     "high school students",
			MinSentences: 12,
			MaxSentences: 15,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// DefaultConfig returns a config with all defaults applied, used by tests
// and when no config file is present.
func DefaultConfig() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Currency == "" {
		c.Currency = "KRW"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1500
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.Market.NewsPerDay == 0 {
		c.Market.NewsPerDay = 5
	}
	if c.Market.InterpretDelayMs == 0 {
		c.Market.InterpretDelayMs = 500
	}
	if c.Market.BaseDriftPct == 0 {
		c.Market.BaseDriftPct = 0.03
	}
	if c.Market.NewsDriftPct == 0 {
		c.Market.NewsDriftPct = 0.02
	}
	if c.Market.NoNewsClampPct == 0 {
		c.Market.NoNewsClampPct = 0.10
	}
	if c.Market.NewsClampPct == 0 {
		c.Market.NewsClampPct = 0.15
	}
	if c.Market.ImpulseMinPct == 0 {
		c.Market.ImpulseMinPct = 0.01
	}
	if c.Market.ImpulseMaxPct == 0 {
		c.Market.ImpulseMaxPct = 0.04
	}
	if c.Market.MagnitudeCap == 0 {
		c.Market.MagnitudeCap = 3
	}
	if c.Tiers == nil {
		c.Tiers = defaultTiers()
	} else {
		for name, def := range defaultTiers() {
			if _, ok := c.Tiers[name]; !ok {
				c.Tiers[name] = def
			}
		}
	}
	if c.Persistence.Backend == "" {
		c.Persistence.Backend = "FILE"
	}
	if c.Persistence.Table == "" {
		c.Persistence.Table = "users"
	}
	if c.Persistence.Dir == "" {
		c.Persistence.Dir = "data"
	}
	if c.Journal.Dir == "" {
		c.Journal.Dir = "journal"
	}
}
