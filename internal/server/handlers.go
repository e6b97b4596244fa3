package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-market-sim/internal/ledger"
	"llm-market-sim/internal/logger"
	"llm-market-sim/internal/persist"
	"llm-market-sim/internal/session"
)

type handler struct {
	mgr *Manager
}

func (h *handler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1")
	{
		api.POST("/login", h.Login)

		s := api.Group("/sessions/:account")
		s.POST("/news", h.GenerateNews)
		s.POST("/advance", h.AdvanceDay)
		s.POST("/buy", h.Buy)
		s.POST("/sell", h.Sell)
		s.GET("/prices", h.Prices)
		s.GET("/portfolio", h.Portfolio)
		s.GET("/news/previous", h.PreviousNews)
		s.GET("/news", h.TodaysNews)
		s.GET("/glossary", h.Glossary)
	}
}

type loginRequest struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.mgr.Login(c.Request.Context(), req.Account, req.Password)
	if err != nil {
		if errors.Is(err, persist.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid account or password"})
			return
		}
		logger.ErrorWithErr(c.Request.Context(), "Login failed", err, "account", req.Account)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":    req.Account,
		"session_id": s.ID(),
		"tier":       s.Tier(),
		"day":        s.Day(),
	})
}

// resolve looks up the session for the path account, writing the error
// response itself when there is none.
func (h *handler) resolve(c *gin.Context) (*session.Session, bool) {
	account := c.Param("account")
	s, ok := h.mgr.Session(account)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session for account, login first"})
		return nil, false
	}
	return s, true
}

func (h *handler) GenerateNews(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}

	news, err := s.GenerateDailyNews(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": s.Day(), "news": news})
}

func (h *handler) AdvanceDay(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}

	if err := s.AdvanceDay(c.Request.Context()); err != nil {
		if errors.Is(err, session.ErrNoNews) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": s.Day()})
}

type tradeRequest struct {
	Instrument string `json:"instrument" binding:"required"`
	Quantity   int64  `json:"quantity" binding:"required"`
}

func (h *handler) Buy(c *gin.Context) {
	h.trade(c, func(s *session.Session, req tradeRequest) error {
		return s.Buy(c.Request.Context(), req.Instrument, req.Quantity)
	})
}

func (h *handler) Sell(c *gin.Context) {
	h.trade(c, func(s *session.Session, req tradeRequest) error {
		return s.Sell(c.Request.Context(), req.Instrument, req.Quantity)
	})
}

func (h *handler) trade(c *gin.Context, exec func(*session.Session, tradeRequest) error) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}

	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := exec(s, req); err != nil {
		writeTradeError(c, err)
		return
	}

	summary, err := s.PortfolioSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"portfolio": summary})
}

// writeTradeError maps the ledger error taxonomy to HTTP responses. The
// insufficient-funds hint carries how many shares the cash would cover.
func writeTradeError(c *gin.Context, err error) {
	var funds *ledger.InsufficientFundsError
	if errors.As(err, &funds) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          err.Error(),
			"code":           "INSUFFICIENT_FUNDS",
			"max_affordable": funds.MaxAffordable,
		})
		return
	}
	var holding *ledger.ExceedsHoldingError
	if errors.As(err, &holding) {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
			"code":  "EXCEEDS_HOLDING",
			"held":  holding.Held,
		})
		return
	}

	switch {
	case errors.Is(err, ledger.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_QUANTITY"})
	case errors.Is(err, ledger.ErrUnknownInstrument):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "UNKNOWN_INSTRUMENT"})
	case errors.Is(err, ledger.ErrNoPosition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "NO_POSITION"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *handler) Prices(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}

	quotes, err := s.Prices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": s.Day(), "prices": quotes})
}

func (h *handler) Portfolio(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}

	summary, err := s.PortfolioSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handler) TodaysNews(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": s.Day(), "news": s.TodaysNews()})
}

func (h *handler) PreviousNews(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": s.Day(), "items": s.PreviousNewsWithInterpretation()})
}

func (h *handler) Glossary(c *gin.Context) {
	s, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"tier": s.Tier(), "terms": s.Glossary()})
}
