// Package newsgen produces the daily batch of synthetic market news. The
// generator's output is segmented on ordinal "## News N" markers and
// normalized to exactly the configured batch size.
package newsgen

import (
	"context"
	"fmt"
	"strings"

	"llm-market-sim/internal/interfaces"
	"llm-market-sim/internal/logger"
	"llm-market-sim/internal/store"
)

// FailureText fills slots the generator could not produce. It matches no
// sentiment keywords, so a failed item never moves prices.
const FailureText = "(news generation failed)"

const articleMarker = "## News "

// Generator wraps an LLM provider with prompt construction and batch
// normalization.
type Generator struct {
	gen     interfaces.Generator
	cfg     *store.Config
	sectors []string
}

func New(gen interfaces.Generator, cfg *store.Config, sectors []string) *Generator {
	return &Generator{gen: gen, cfg: cfg, sectors: sectors}
}

// DailyNews generates one day's news batch. The result always has exactly
// cfg.Market.NewsPerDay items; generation failure yields a full batch of
// placeholders rather than an error.
func (g *Generator) DailyNews(ctx context.Context, tier store.TierConfig) []string {
	n := g.cfg.Market.NewsPerDay

	raw, err := g.gen.Generate(ctx, g.buildPrompt(tier))
	if err != nil {
		logger.Warn(ctx, "News generation failed, using placeholders", "error", err)
		return placeholders(n)
	}

	articles := Split(raw)
	if len(articles) < n {
		logger.Warn(ctx, "News generation came up short, padding batch",
			"generated", len(articles), "expected", n)
	}
	for len(articles) < n {
		articles = append(articles, FailureText)
	}
	return articles[:n]
}

// Split segments raw generator output on the article marker. Empty
// segments and bare ordinal prefixes are discarded.
func Split(raw string) []string {
	var articles []string
	for _, chunk := range strings.Split(raw, articleMarker) {
		content := strings.TrimSpace(chunk)
		if content == "" {
			continue
		}
		// Drop a leading "3" or "3." ordinal left over from the marker.
		if first, rest, found := strings.Cut(content, "\n"); found && isOrdinal(first) {
			content = strings.TrimSpace(rest)
		} else if !found && isOrdinal(first) {
			continue
		}
		if content != "" {
			articles = append(articles, content)
		}
	}
	return articles
}

func isOrdinal(s string) bool {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (g *Generator) buildPrompt(tier store.TierConfig) string {
	n := g.cfg.Market.NewsPerDay

	var b strings.Builder
	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "Write %d news articles about the stock market and the economy, aimed at %s.\n", n, tier.Audience)
	fmt.Fprintf(&b, "Each article should run %d to %d sentences.\n", tier.MinSentences, tier.MaxSentences)
	b.WriteString("Never mention a specific company or ticker by name. Write about general economic conditions or industry trends")
	fmt.Fprintf(&b, " (for example: %s) so readers can infer for themselves which kinds of companies may benefit or struggle.\n", strings.Join(g.sectors[:min(5, len(g.sectors))], ", "))
	b.WriteString("Mix positive, negative and neutral stories, but never use the words 'positive', 'negative' or 'neutral' in the articles themselves.\n")
	b.WriteString("Include clues about which industries' share prices could rise or fall.\n")
	fmt.Fprintf(&b, "Start each article with %q followed by its number (## News 1, ## News 2, ...).\n", strings.TrimSpace(articleMarker))
	b.WriteString("\nGenerated news articles:\n")
	return b.String()
}

func placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = FailureText
	}
	return out
}
