package market

import (
	"context"
	"math/rand"

	"llm-market-sim/internal/logger"
	"llm-market-sim/internal/store"
)

// Updater applies the daily price move to every instrument in a book.
// It is the only writer of price state and runs once per day-advance.
type Updater struct {
	cfg *store.Config
	rng *rand.Rand
}

// NewUpdater creates an updater. The RNG is injected so tests can pin it.
func NewUpdater(cfg *store.Config, rng *rand.Rand) *Updater {
	return &Updater{cfg: cfg, rng: rng}
}

// Advance moves every price forward one day. When impulses is nil there is
// no interpretation data yet and the wider no-news noise applies; otherwise
// each instrument gets idiosyncratic noise plus its sector's impulse,
// clamped to the daily return bound. The result is floored to a whole unit
// and never drops below 1.
func (u *Updater) Advance(ctx context.Context, b *Book, impulses map[string]float64) {
	newsDriven := impulses != nil

	for _, name := range b.Instruments() {
		current, _ := b.Price(name)

		var rate float64
		if newsDriven {
			sector, _ := b.Sector(name)
			rate = u.uniform(-u.cfg.Market.NewsDriftPct, u.cfg.Market.NewsDriftPct) + impulses[sector]
			rate = clamp(rate, -u.cfg.Market.NewsClampPct, u.cfg.Market.NewsClampPct)
		} else {
			rate = u.uniform(-u.cfg.Market.BaseDriftPct, u.cfg.Market.BaseDriftPct)
			rate = clamp(rate, -u.cfg.Market.NoNewsClampPct, u.cfg.Market.NoNewsClampPct)
		}

		next := int64(float64(current) * (1 + rate))
		if next < 1 {
			next = 1
		}
		// Book.Append cannot fail here: next >= 1 and name comes from the book.
		_ = b.Append(name, next)
	}

	logger.Debug(ctx, "Prices advanced", "news_driven", newsDriven, "instruments", len(b.Instruments()))
}

func (u *Updater) uniform(lo, hi float64) float64 {
	return lo + u.rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
