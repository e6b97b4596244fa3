package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"llm-market-sim/internal/logger"
	"llm-market-sim/internal/store"
)

// Generator calls the Anthropic Claude Messages API and returns the text
// content of the response.
type Generator struct {
	cfg      *store.Config
	endpoint string
}

func NewGenerator(cfg *store.Config) *Generator {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Generator{cfg: cfg, endpoint: endpoint}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	logger.Debug(ctx, "Claude generator called", "model", g.cfg.LLM.Model, "endpoint", g.endpoint)

	ctx, span := logger.StartSpan(ctx, "claude-generate")
	defer span.End()

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("CLAUDE_API_KEY")
	}
	if apiKey == "" {
		err := errors.New("ANTHROPIC_API_KEY missing")
		logger.ErrorWithErr(ctx, "Claude API key not configured", err)
		return "", err
	}

	reqBody := map[string]any{
		"model": g.cfg.LLM.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  g.cfg.LLM.MaxTokens,
		"temperature": g.cfg.LLM.Temperature,
	}

	bb, _ := json.Marshal(reqBody)
	logger.Debug(ctx, "Sending request to Claude", "model", g.cfg.LLM.Model, "temperature", g.cfg.LLM.Temperature)
	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, "POST", g.endpoint, bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	latency := time.Since(start)

	if err != nil {
		logger.ErrorWithErr(ctx, "Claude API request failed", err, "latency_ms", latency.Milliseconds())
		return "", err
	}
	defer resp.Body.Close()

	logger.Debug(ctx, "Received response from Claude",
		"status_code", resp.StatusCode,
		"latency_ms", latency.Milliseconds(),
	)

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("claude http %d: %s", resp.StatusCode, string(body))
		logger.ErrorWithErr(ctx, "Claude API returned error status", err, "status_code", resp.StatusCode)
		return "", err
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	respBytes, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(respBytes, &r); err != nil {
		logger.ErrorWithErr(ctx, "Failed to decode Claude response", err)
		return "", err
	}

	var out strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", errors.New("claude response contained no text content")
	}

	logger.Info(ctx, "Claude response received",
		"response_length", len(text),
		"latency_ms", latency.Milliseconds(),
	)
	return text, nil
}
