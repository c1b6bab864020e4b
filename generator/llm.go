// Package generator drives the model boundary: it builds prompts from
// workout text, executes them against an LLM, validates the returned
// expression, and retries with error feedback until the budget runs out.
package generator

import "context"

// LLMClient abstracts the model client so it can be swapped or mocked.
// Implementations strip response wrappers (code fences) before returning
// and surface request failures as *TransportError or *RateLimitError.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings carries the base configuration for concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// Sampling defaults: conversions want near-deterministic output, and a
// workout expression comfortably fits under the token cap.
const (
	defaultMaxTokens   = 4096
	defaultTemperature = 0.1
)
