// Package sentiment turns free-text news into structured interpretations
// and per-sector price impulses.
package sentiment

import (
	"context"
	"fmt"
	"strings"

	"llm-market-sim/internal/interfaces"
	"llm-market-sim/internal/logger"
	"llm-market-sim/internal/store"
	"llm-market-sim/internal/types"
)

// FailureExplanation marks an interpretation that could not be produced.
// It matches no sentiment keywords, so the item has zero price impact.
const FailureExplanation = "(interpretation unavailable)"

const (
	explanationMarker = "Explanation:"
	sectorsMarker     = "Related sectors:"
	noSectorsToken    = "none"
)

// Extractor interprets one news item at a time against a fixed sector
// universe. Generation failures degrade to a placeholder and never
// propagate to the caller.
type Extractor struct {
	gen     interfaces.Generator
	cfg     *store.Config
	sectors []string
}

func NewExtractor(gen interfaces.Generator, cfg *store.Config, validSectors []string) *Extractor {
	return &Extractor{gen: gen, cfg: cfg, sectors: validSectors}
}

// Interpret asks the generator to explain a news item and name related
// sectors, then parses the reply leniently. Sector names outside the
// session universe are dropped silently.
func (e *Extractor) Interpret(ctx context.Context, tier store.TierConfig, newsText string) types.Interpretation {
	prompt := e.buildPrompt(tier, newsText)

	raw, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Warn(ctx, "News interpretation failed, continuing with no impact", "error", err)
		return types.Interpretation{Explanation: FailureExplanation, Sectors: []string{}}
	}

	return e.Parse(ctx, raw)
}

// Parse extracts the explanation and sector list from a raw reply.
// Missing markers yield empty results, not errors.
func (e *Extractor) Parse(ctx context.Context, raw string) types.Interpretation {
	out := types.Interpretation{Sectors: []string{}}

	if idx := strings.Index(raw, explanationMarker); idx >= 0 {
		rest := raw[idx+len(explanationMarker):]
		if end := strings.Index(rest, sectorsMarker); end >= 0 {
			out.Explanation = strings.TrimSpace(rest[:end])
		} else {
			out.Explanation = strings.TrimSpace(rest)
		}
	} else {
		out.Explanation = FailureExplanation
	}

	if idx := strings.Index(raw, sectorsMarker); idx >= 0 {
		listed := strings.TrimSpace(raw[idx+len(sectorsMarker):])
		// Only the first line after the marker belongs to the sector list.
		if nl := strings.IndexByte(listed, '\n'); nl >= 0 {
			listed = strings.TrimSpace(listed[:nl])
		}
		if listed != "" && !strings.EqualFold(listed, noSectorsToken) {
			for _, candidate := range strings.Split(listed, ",") {
				name := strings.TrimSpace(candidate)
				if e.knownSector(name) {
					out.Sectors = append(out.Sectors, name)
				} else if name != "" {
					logger.Debug(ctx, "Dropping unknown sector from interpretation", "sector", name)
				}
			}
		}
	}

	return out
}

func (e *Extractor) knownSector(name string) bool {
	for _, s := range e.sectors {
		if s == name {
			return true
		}
	}
	return false
}

func (e *Extractor) buildPrompt(tier store.TierConfig, newsText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "News article:\n%s\n\n", newsText)
	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "Summarize the key meaning of the article above so that %s can understand it, in 2-4 sentences, after the marker %q.\n", tier.Audience, explanationMarker)
	fmt.Fprintf(&b, "Then name the 1-2 stock sectors most related to this news after the marker %q, comma separated.\n", sectorsMarker)
	fmt.Fprintf(&b, "Choose only from this list: [%s]. If no sector clearly applies, write %q.\n", strings.Join(e.sectors, ", "), sectorsMarker+" "+noSectorsToken)
	return b.String()
}

// Keyword sets for deriving sentiment magnitude from an explanation.
// The magnitude is the count of positive matches minus negative matches.
var (
	positiveKeywords = []string{
		"growth", "increase", "boom", "breakthrough", "surge", "popular",
		"optimis", "positive", "improve", "strong", "expansion", "record high",
	}
	negativeKeywords = []string{
		"decline", "drop", "slump", "struggle", "crisis", "competition",
		"regulation", "negative", "worsen", "shrink", "slowdown", "layoff",
	}
)

// Magnitude scores an explanation by keyword matches. It can be negative,
// zero or positive and is capped later by the aggregator.
func Magnitude(explanation string) int {
	lower := strings.ToLower(explanation)
	score := 0
	for _, kw := range positiveKeywords {
		score += strings.Count(lower, kw)
	}
	for _, kw := range negativeKeywords {
		score -= strings.Count(lower, kw)
	}
	return score
}
