package noop

import "context"

// Generator is a fallback used when no LLM provider is configured. It
// returns canned text so the rest of the pipeline still runs: the news
// splitter pads its output to a full batch and the sentiment extractor
// falls back to an empty interpretation.
type Generator struct{}

// NewGenerator returns a generator that produces fixed offline text.
func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return "## News 1\nNo market news is available in offline mode.", nil
}
