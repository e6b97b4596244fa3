// Package session holds the day-cycle controller: one simulated market and
// portfolio per account, advanced a day at a time. All mutating operations
// funnel through here so price updates, trades and persistence stay ordered.
package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"llm-market-sim/internal/catalog"
	"llm-market-sim/internal/interfaces"
	"llm-market-sim/internal/journal"
	"llm-market-sim/internal/ledger"
	"llm-market-sim/internal/logger"
	"llm-market-sim/internal/market"
	"llm-market-sim/internal/newsgen"
	"llm-market-sim/internal/sentiment"
	"llm-market-sim/internal/store"
	"llm-market-sim/internal/types"
)

// ErrNoNews is returned by AdvanceDay when today's news has not been
// generated yet. The rejected advance leaves all state untouched.
var ErrNoNews = errors.New("advance requires today's news to be generated first")

// ErrNotInitialized is returned by operations called before Initialize or Load.
var ErrNotInitialized = errors.New("session not initialized")

// Deps carries the session's collaborators. Store and Journal are optional;
// a nil store disables persistence and a nil journal disables the trade
// record. Rand is injected by tests, defaulting to a time-seeded source.
type Deps struct {
	Config    *store.Config
	Generator interfaces.Generator
	Store     interfaces.AccountStore
	Journal   *journal.Journal
	Account   string
	Rand      *rand.Rand
}

// Session is one user's simulation run. Methods are safe for concurrent use.
type Session struct {
	// mu guards state. opMu is held across a whole generate/advance
	// cycle, LLM calls included, so the news gate stays atomic while
	// reads keep flowing through mu. Lock order is opMu before mu.
	mu   sync.Mutex
	opMu sync.Mutex

	id      string
	account string
	cfg     *store.Config
	rng     *rand.Rand

	tier   types.Tier
	day    int
	book   *market.Book
	ledger *ledger.Ledger

	updater   *market.Updater
	news      *newsgen.Generator
	extractor *sentiment.Extractor
	journal   *journal.Journal
	store     interfaces.AccountStore

	dailyNews       []string
	previousNews    []string
	interpretations []types.Interpretation

	// saveMu serializes background saves; the sequence numbers keep a
	// stale snapshot from overwriting a newer one in the store.
	saveMu   sync.Mutex
	saveSeq  uint64
	savedSeq uint64
}

func New(deps Deps) *Session {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	sectors := catalog.Sectors()
	return &Session{
		id:        uuid.NewString(),
		account:   deps.Account,
		cfg:       deps.Config,
		rng:       rng,
		updater:   market.NewUpdater(deps.Config, rng),
		news:      newsgen.New(deps.Generator, deps.Config, sectors),
		extractor: sentiment.NewExtractor(deps.Generator, deps.Config, sectors),
		journal:   deps.Journal,
		store:     deps.Store,
	}
}

// ID returns the session identifier used in logs and the trade journal.
func (s *Session) ID() string { return s.id }

// Tier returns the difficulty tier the session runs at.
func (s *Session) Tier() types.Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tier
}

// Day returns the current simulated day, starting at 1.
func (s *Session) Day() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day
}

// Initialize starts a fresh simulation at day 1 with the tier's starting
// cash, seeding initial prices from the catalog's per-instrument bands.
func (s *Session) Initialize(ctx context.Context, tier types.Tier) error {
	if !tier.Valid() {
		return errors.New("unknown tier: " + string(tier))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tc := s.cfg.TierFor(tier)
	s.tier = tier
	s.day = 1
	s.book = market.NewBook(s.rng)
	s.ledger = ledger.New(decimal.NewFromInt(tc.InitialCash))
	s.dailyNews = nil
	s.previousNews = nil
	s.interpretations = nil

	logger.Info(ctx, "Session initialized",
		"session_id", s.id, "tier", string(tier), "initial_cash", tc.InitialCash)
	return nil
}

func (s *Session) initialized() bool {
	return s.book != nil && s.ledger != nil
}

// GenerateDailyNews produces today's news batch. Calling it again replaces
// today's batch and clears the previous day's interpretations, matching a
// fresh start of the reading exercise. A call racing an in-flight advance
// queues behind it rather than clobbering the rotated batch.
func (s *Session) GenerateDailyNews(ctx context.Context) ([]string, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if !s.initialized() {
		s.mu.Unlock()
		return nil, ErrNotInitialized
	}
	tier := s.tier
	s.mu.Unlock()

	// LLM call happens outside the lock so reads stay responsive.
	batch := s.news.DailyNews(ctx, s.cfg.TierFor(tier))

	s.mu.Lock()
	s.dailyNews = batch
	s.interpretations = nil
	s.mu.Unlock()

	logger.Info(ctx, "Daily news generated", "session_id", s.id, "items", len(batch))
	s.persist(ctx)
	return append([]string(nil), batch...), nil
}

// AdvanceDay moves the simulation one day forward. It requires today's
// news; without it the call fails and nothing changes. The sequence is:
// rotate today's news into yesterday's slot, interpret each rotated item,
// aggregate sector impulses, update every price once, generate the next
// day's news and finally increment the day counter. Concurrent advances
// queue behind each other, so each one consumes the batch generated by
// the one before it; the news gate is checked once per cycle.
func (s *Session) AdvanceDay(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	timer := logger.StartOperation(ctx, "advance-day", "session_id", s.id)
	ctx = timer.GetContext()

	s.mu.Lock()
	if !s.initialized() {
		s.mu.Unlock()
		timer.EndWithError(ErrNotInitialized)
		return ErrNotInitialized
	}
	if len(s.dailyNews) == 0 {
		s.mu.Unlock()
		timer.EndWithError(ErrNoNews)
		return ErrNoNews
	}
	rotated := append([]string(nil), s.dailyNews...)
	tier := s.tier
	s.mu.Unlock()

	tc := s.cfg.TierFor(tier)
	interpretations := s.interpretAll(ctx, tc, rotated)
	impulses := sentiment.Aggregate(s.cfg, s.rng, catalog.Sectors(), interpretations)
	nextNews := s.news.DailyNews(ctx, tc)

	s.mu.Lock()
	s.previousNews = rotated
	s.interpretations = interpretations
	s.updater.Advance(ctx, s.book, impulses)
	s.dailyNews = nextNews
	s.day++
	day := s.day
	s.mu.Unlock()

	logger.DayAdvance(ctx, day, true, "session_id", s.id)
	timer.End("day", day)
	s.persist(ctx)
	return nil
}

// interpretAll runs the sentiment extractor over a news batch, sleeping
// between calls so provider rate limits are respected. Failed generation
// slots are recognized up front and never reach the LLM.
func (s *Session) interpretAll(ctx context.Context, tc store.TierConfig, batch []string) []types.Interpretation {
	delay := time.Duration(s.cfg.Market.InterpretDelayMs) * time.Millisecond
	out := make([]types.Interpretation, len(batch))
	for i, text := range batch {
		if text == newsgen.FailureText {
			out[i] = types.Interpretation{Explanation: sentiment.FailureExplanation}
			continue
		}
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}
		out[i] = s.extractor.Interpret(ctx, tc, text)
	}
	return out
}

// Buy purchases qty shares of the named instrument at the current price.
func (s *Session) Buy(ctx context.Context, name string, qty int64) error {
	return s.trade(ctx, name, qty, "BUY")
}

// Sell disposes qty shares of the named instrument at the current price.
func (s *Session) Sell(ctx context.Context, name string, qty int64) error {
	return s.trade(ctx, name, qty, "SELL")
}

func (s *Session) trade(ctx context.Context, name string, qty int64, side string) error {
	s.mu.Lock()
	if !s.initialized() {
		s.mu.Unlock()
		return ErrNotInitialized
	}

	price, ok := s.book.Price(name)
	if !ok {
		s.mu.Unlock()
		return ledger.ErrUnknownInstrument
	}

	var err error
	if side == "BUY" {
		err = s.ledger.Buy(name, qty, price)
	} else {
		err = s.ledger.Sell(name, qty, price)
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	cashAfter := s.ledger.Cash()
	day := s.day
	s.mu.Unlock()

	logger.Trade(ctx, name, side, qty, price, "session_id", s.id, "day", day)
	if s.journal != nil {
		if jerr := s.journal.Append(journal.Entry{
			Account:    s.account,
			SessionID:  s.id,
			Day:        day,
			Instrument: name,
			Side:       side,
			Quantity:   qty,
			Price:      price,
			CashAfter:  cashAfter.String(),
		}); jerr != nil {
			logger.Warn(ctx, "Trade journal append failed", "error", jerr)
		}
	}
	s.persist(ctx)
	return nil
}

// Prices returns the current listing with daily change rates and the
// tier-appropriate instrument descriptions. Day 1 has no previous close,
// so the change rate is zero.
func (s *Session) Prices() ([]types.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized() {
		return nil, ErrNotInitialized
	}

	names := s.book.Instruments()
	quotes := make([]types.Quote, 0, len(names))
	for _, name := range names {
		price, _ := s.book.Price(name)
		sector, _ := s.book.Sector(name)

		var changePct float64
		if prev, ok := s.book.PreviousPrice(name); ok && prev > 0 {
			changePct = float64(price-prev) / float64(prev) * 100
		}

		var description string
		if in, ok := catalog.Find(name); ok {
			description = in.Description(s.tier)
		}

		quotes = append(quotes, types.Quote{
			Name:        name,
			Sector:      sector,
			Price:       price,
			ChangePct:   changePct,
			Description: description,
		})
	}
	return quotes, nil
}

// PortfolioSummary values the portfolio at current prices.
func (s *Session) PortfolioSummary() (types.PortfolioSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized() {
		return types.PortfolioSummary{}, ErrNotInitialized
	}

	cash, totalValue, profitLoss, profitRate := s.ledger.Valuation(s.book.Price)

	var positions []types.PositionView
	for _, name := range s.ledger.Holdings() {
		pos, _ := s.ledger.Position(name)
		price, ok := s.book.Price(name)
		if !ok {
			continue
		}
		sector, _ := s.book.Sector(name)

		qty := decimal.NewFromInt(pos.Quantity)
		value := decimal.NewFromInt(price).Mul(qty)
		cost := pos.AvgCost.Mul(qty)
		pl := value.Sub(cost)
		var rate float64
		if cost.IsPositive() {
			rate, _ = pl.Div(cost).Mul(decimal.NewFromInt(100)).Float64()
		}

		positions = append(positions, types.PositionView{
			Name:       name,
			Sector:     sector,
			Quantity:   pos.Quantity,
			AvgCost:    pos.AvgCost,
			Price:      price,
			Value:      value,
			ProfitLoss: pl,
			ProfitRate: rate,
		})
	}

	return types.PortfolioSummary{
		Cash:              cash,
		TotalValue:        totalValue,
		ProfitLoss:        profitLoss,
		ProfitRate:        profitRate,
		InitialCash:       s.ledger.InitialCash(),
		Positions:         positions,
		CashDisplay:       s.display(cash),
		TotalValueDisplay: s.display(totalValue),
	}, nil
}

// display formats a decimal amount in the configured currency. Currencies
// with minor units are formatted from their smallest denomination.
func (s *Session) display(amount decimal.Decimal) string {
	code := s.cfg.Currency
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(0) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction))
	return money.New(minor.IntPart(), code).Display()
}

// TodaysNews returns today's generated batch, or nil before generation.
func (s *Session) TodaysNews() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.dailyNews...)
}

// PreviousNewsWithInterpretation pairs yesterday's news with the
// explanations produced during the last advance. Empty before day 2.
func (s *Session) PreviousNewsWithInterpretation() []types.InterpretedNews {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.InterpretedNews, 0, len(s.previousNews))
	for i, text := range s.previousNews {
		item := types.InterpretedNews{Index: i + 1, Text: text}
		if i < len(s.interpretations) {
			item.Interpretation = s.interpretations[i]
		}
		out = append(out, item)
	}
	return out
}

// Glossary returns the market-term glossary for the session's tier.
func (s *Session) Glossary() []catalog.Term {
	s.mu.Lock()
	tier := s.tier
	s.mu.Unlock()
	return catalog.Glossary(tier)
}

// persist saves the current blob in the background. Saves are serialized
// and stale snapshots dropped, so the stored blob never moves backwards.
// Persistence failures are logged and dropped; in-memory state stays
// authoritative.
func (s *Session) persist(ctx context.Context) {
	if s.store == nil || s.account == "" {
		return
	}

	s.mu.Lock()
	blob, err := s.serializeLocked()
	if err == nil {
		s.saveSeq++
	}
	seq := s.saveSeq
	s.mu.Unlock()
	if err != nil {
		logger.ErrorWithErr(ctx, "Session serialization failed", err, "session_id", s.id)
		return
	}

	go func() {
		saveCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		s.saveMu.Lock()
		defer s.saveMu.Unlock()
		if seq <= s.savedSeq {
			// A newer snapshot already reached the store.
			return
		}
		s.savedSeq = seq
		if err := s.store.Save(saveCtx, s.account, blob); err != nil {
			logger.Warn(saveCtx, "Session save failed", "session_id", s.id, "error", err)
		}
	}()
}
