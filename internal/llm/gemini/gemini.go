package gemini

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"llm-market-sim/internal/store"
	"llm-market-sim/internal/trace"
)

// Generator calls the Gemini API through the official client. The client
// reads GEMINI_API_KEY from the environment.
type Generator struct {
	cfg    *store.Config
	client *genai.Client
}

func NewGenerator(ctx context.Context, cfg *store.Config) (*Generator, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, client: client}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	temperature := float32(g.cfg.LLM.Temperature)
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.LLM.Model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:     &temperature,
			MaxOutputTokens: int32(g.cfg.LLM.MaxTokens),
		},
	)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini response contained no text")
	}
	return text, nil
}
