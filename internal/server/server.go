// Package server exposes the session boundary over HTTP. It is a thin
// transport: handlers translate JSON in and out and map ledger errors to
// status codes, all simulation logic stays in the session package.
package server

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"

	"llm-market-sim/internal/interfaces"
	"llm-market-sim/internal/journal"
	"llm-market-sim/internal/logger"
	"llm-market-sim/internal/session"
	"llm-market-sim/internal/store"
)

// Manager owns one session per logged-in account.
type Manager struct {
	cfg     *store.Config
	gen     interfaces.Generator
	store   interfaces.AccountStore
	auth    interfaces.Authenticator
	journal *journal.Journal

	mu       sync.Mutex
	sessions map[string]*session.Session
}

func NewManager(cfg *store.Config, gen interfaces.Generator, st interfaces.AccountStore, auth interfaces.Authenticator, jr *journal.Journal) *Manager {
	return &Manager{
		cfg:      cfg,
		gen:      gen,
		store:    st,
		auth:     auth,
		journal:  jr,
		sessions: make(map[string]*session.Session),
	}
}

// Login authenticates the account and attaches a session to it, resuming
// the saved game when one exists and starting fresh at the stored tier
// otherwise.
func (m *Manager) Login(ctx context.Context, account, password string) (*session.Session, error) {
	creds, err := m.auth.Login(ctx, account, password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[account]; ok {
		return s, nil
	}

	s := session.New(session.Deps{
		Config:    m.cfg,
		Generator: m.gen,
		Store:     m.store,
		Journal:   m.journal,
		Account:   creds.Account,
	})
	if len(creds.Blob) > 0 {
		if err := s.Load(creds.Blob); err != nil {
			logger.Warn(ctx, "Saved session unreadable, starting fresh",
				"account", account, "error", err)
			if err := s.Initialize(ctx, creds.Tier); err != nil {
				return nil, err
			}
		}
	} else {
		if err := s.Initialize(ctx, creds.Tier); err != nil {
			return nil, err
		}
	}

	m.sessions[account] = s
	return s, nil
}

// Session returns the live session for an account, if one is attached.
func (m *Manager) Session(account string) (*session.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[account]
	return s, ok
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(m *Manager) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	h := &handler{mgr: m}
	h.RegisterRoutes(router.Group(""))
	return router
}
