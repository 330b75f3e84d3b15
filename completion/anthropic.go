package completion

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model override is given.
const DefaultAnthropicModel = "claude-sonnet-4-5"

// defaultAnthropicMaxTokens applies when the request does not cap output;
// the Messages API requires an explicit ceiling.
const defaultAnthropicMaxTokens = 4096

// Anthropic wraps the Anthropic SDK to implement Completer.
type Anthropic struct {
	client *anthropic.Client
	model  string
}

// NewAnthropic creates an Anthropic completion client with the given API key.
func NewAnthropic(apiKey string, opts ...AnthropicOption) *Anthropic {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Anthropic{
		client: &client,
		model:  DefaultAnthropicModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AnthropicOption configures the Anthropic client.
type AnthropicOption func(*Anthropic)

// WithAnthropicModel sets the model for requests.
func WithAnthropicModel(model string) AnthropicOption {
	return func(c *Anthropic) {
		c.model = model
	}
}

// Complete sends one completion request and returns the response text.
func (c *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := int64(defaultAnthropicMaxTokens)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	system := req.System
	if req.JSONMode {
		// The Messages API has no JSON response format; steer via the
		// system prompt instead.
		if system != "" {
			system += "\n\n"
		}
		system += "Respond with a single valid JSON object and nothing else."
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxTokens,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
		Temperature: anthropic.Float(req.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", wrapAnthropicError(err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

// wrapAnthropicError categorizes an Anthropic SDK error, extracting the
// status code and any Retry-After header.
func wrapAnthropicError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	return categorize(err.Error(), apiErr.StatusCode, parseRetryAfter(apiErr.Response), err)
}

var _ Completer = (*Anthropic)(nil)
