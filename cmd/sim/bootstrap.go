package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"llm-market-sim/internal/interfaces"
	"llm-market-sim/internal/journal"
	"llm-market-sim/internal/llm/claude"
	"llm-market-sim/internal/llm/gemini"
	"llm-market-sim/internal/llm/llmobs"
	"llm-market-sim/internal/llm/noop"
	"llm-market-sim/internal/llm/openai"
	"llm-market-sim/internal/logger"
	"llm-market-sim/internal/persist"
	"llm-market-sim/internal/store"
	"llm-market-sim/internal/trace"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration, falling back to built-in
// defaults when no config file is present
func loadConfig(ctx context.Context, path string) *store.Config {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info(ctx, "No config file found, using defaults", "path", path)
			return store.DefaultConfig()
		}
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}
	return cfg
}

// initializeGenerator initializes and returns the text generator with
// observability middleware
func initializeGenerator(ctx context.Context, cfg *store.Config) interfaces.Generator {
	var gen interfaces.Generator

	switch cfg.LLM.Provider {
	case "OPENAI":
		gen = openai.NewGenerator(cfg)
	case "CLAUDE":
		gen = claude.NewGenerator(cfg)
	case "GEMINI":
		g, err := gemini.NewGenerator(ctx, cfg)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to initialize Gemini client, falling back to offline mode", err)
			gen = noop.NewGenerator()
			break
		}
		gen = g
	default:
		gen = noop.NewGenerator()
		logger.Warn(ctx, "No LLM provider configured - running in offline mode with canned news")
	}

	// Wrap with observability middleware
	return llmobs.Wrap(gen)
}

// initializeStore builds the persistence backend from config. A Supabase
// misconfiguration drops down to the local file store rather than failing.
func initializeStore(ctx context.Context, cfg *store.Config) (interfaces.AccountStore, interfaces.Authenticator) {
	if cfg.Persistence.Backend == "SUPABASE" {
		s, err := persist.NewSupabaseStore(cfg.Persistence.Table)
		if err == nil {
			logger.Info(ctx, "Using Supabase persistence", "table", cfg.Persistence.Table)
			return s, s
		}
		logger.Warn(ctx, "Supabase not configured, using local file store", "error", err)
	}

	fs, err := persist.NewFileStore(cfg.Persistence.Dir)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize file store", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Using file persistence", "dir", cfg.Persistence.Dir)
	return fs, fs
}

// initializeJournal sets up the trade journal and compresses old files
func initializeJournal(ctx context.Context, cfg *store.Config) *journal.Journal {
	jr := journal.New(cfg.Journal.Dir)
	if err := jr.CompressOlder(cfg.Journal.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old journal files", "error", err)
	}
	return jr
}
