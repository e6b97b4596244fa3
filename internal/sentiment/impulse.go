package sentiment

import (
	"math/rand"

	"llm-market-sim/internal/store"
	"llm-market-sim/internal/types"
)

// Aggregate combines all of a day's interpretations into one impulse per
// sector. Every sector in the universe gets an entry; sectors no article
// touched stay at 0. A single article's influence is capped by the
// configured magnitude limit.
func Aggregate(cfg *store.Config, rng *rand.Rand, sectors []string, items []types.Interpretation) map[string]float64 {
	impulses := make(map[string]float64, len(sectors))
	for _, s := range sectors {
		impulses[s] = 0
	}

	for _, item := range items {
		m := Magnitude(item.Explanation)
		if m == 0 || len(item.Sectors) == 0 {
			continue
		}

		capped := m
		if capped > cfg.Market.MagnitudeCap {
			capped = cfg.Market.MagnitudeCap
		}
		if capped < -cfg.Market.MagnitudeCap {
			capped = -cfg.Market.MagnitudeCap
		}

		var contribution float64
		if capped > 0 {
			contribution = uniform(rng, cfg.Market.ImpulseMinPct, cfg.Market.ImpulseMaxPct) * float64(capped)
		} else {
			contribution = uniform(rng, -cfg.Market.ImpulseMaxPct, -cfg.Market.ImpulseMinPct) * float64(-capped)
		}

		for _, sector := range item.Sectors {
			// Interpretations are pre-filtered, but a stale blob could
			// still carry a sector outside the universe; drop it here.
			if _, ok := impulses[sector]; ok {
				impulses[sector] += contribution
			}
		}
	}

	return impulses
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
