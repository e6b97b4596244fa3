package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
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
	"llm-market-sim/internal/server"
	"llm-market-sim/internal/store"
	"llm-market-sim/internal/trace"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize tracer:", err)
	}

	ctx := context.Background()
	defer func() { _ = trace.Shutdown(ctx) }()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info(ctx, "No config file found, using defaults", "path", *configPath)
			cfg = store.DefaultConfig()
		} else {
			logger.ErrorWithErr(ctx, "Failed to load config", err)
			os.Exit(1)
		}
	}

	gen := buildGenerator(ctx, cfg)
	st, auth := buildStore(ctx, cfg)

	jr := journal.New(cfg.Journal.Dir)
	defer jr.Close()
	if err := jr.CompressOlder(cfg.Journal.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old journal files", "error", err)
	}

	mgr := server.NewManager(cfg, gen, st, auth, jr)

	if !logger.IsDebugEnabled() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              *addr,
		Handler:           server.NewRouter(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "HTTP server failed", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	logger.Info(ctx, "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "HTTP shutdown incomplete", "error", err)
	}
}

func buildGenerator(ctx context.Context, cfg *store.Config) interfaces.Generator {
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
	return llmobs.Wrap(gen)
}

func buildStore(ctx context.Context, cfg *store.Config) (interfaces.AccountStore, interfaces.Authenticator) {
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
