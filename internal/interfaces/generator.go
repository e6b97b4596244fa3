package interfaces

import "context"

// Generator produces free text from a prompt. Implementations wrap one
// LLM provider; callers treat the output as untrusted and parse leniently.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
