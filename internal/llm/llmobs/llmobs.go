package llmobs

import (
	"context"

	"llm-market-sim/internal/interfaces"
	"llm-market-sim/internal/logger"
	"llm-market-sim/internal/trace"
)

// observableGenerator wraps a Generator with observability (logging & tracing)
type observableGenerator struct {
	gen interfaces.Generator
}

// Compile-time interface check
var _ interfaces.Generator = (*observableGenerator)(nil)

// Wrap wraps a generator with observability middleware
func Wrap(gen interfaces.Generator) interfaces.Generator {
	return &observableGenerator{
		gen: gen,
	}
}

// Generate runs a text generation with observability
func (og *observableGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Generate")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting text generation",
		"prompt_length", len(prompt),
	)

	text, err := og.gen.Generate(ctx, prompt)
	if err != nil {
		// Use ErrorWithErrSkip(1) to report the actual caller
		logger.ErrorWithErrSkip(ctx, 1, "Failed to generate text", err,
			"prompt_length", len(prompt),
		)
		return "", err
	}

	// Log result - use InfoSkip(1) to report the actual caller
	logger.InfoSkip(ctx, 1, "Generation received",
		"prompt_length", len(prompt),
		"response_length", len(text),
	)

	return text, nil
}
