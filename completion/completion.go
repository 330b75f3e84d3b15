// Package completion wraps LLM provider SDKs behind a single prompt-in,
// text-out interface. Providers categorize their SDK errors so callers can
// tell transient failures (retryable) from permanent ones.
package completion

import "context"

// Request is one completion call.
type Request struct {
	// System sets the system prompt; empty means none.
	System string

	// Prompt is the user prompt.
	Prompt string

	// Temperature is passed through to the provider. Zero is a valid value
	// and means deterministic sampling.
	Temperature float64

	// MaxTokens caps the response length; zero uses the provider default.
	MaxTokens int

	// JSONMode asks the provider for a single JSON object response.
	JSONMode bool
}

// Completer is the completion collaborator. Implementations must be safe for
// concurrent use; task runs share one client.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
