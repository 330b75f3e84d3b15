package completion

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

// DefaultGoogleModel is used when no model override is given.
const DefaultGoogleModel = "gemini-2.0-flash"

// Google wraps the Google GenAI SDK to implement Completer.
type Google struct {
	client *genai.Client
	model  string
}

// NewGoogle creates a Google completion client with the given API key.
func NewGoogle(ctx context.Context, apiKey string, opts ...GoogleOption) (*Google, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Google{
		client: client,
		model:  DefaultGoogleModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GoogleOption configures the Google client.
type GoogleOption func(*Google)

// WithGoogleModel sets the model for requests.
func WithGoogleModel(model string) GoogleOption {
	return func(c *Google) {
		c.model = model
	}
}

// Complete sends one completion request and returns the response text.
func (c *Google) Complete(ctx context.Context, req Request) (string, error) {
	temp := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", wrapGoogleError(err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			b.WriteString(part.Text)
		}
		break
	}
	return b.String(), nil
}

// wrapGoogleError categorizes a GenAI SDK error.
//
// Note: genai.APIError does not expose headers, so Retry-After is not
// available for this provider.
func wrapGoogleError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	return categorize(err.Error(), apiErr.Code, 0, err)
}

var _ Completer = (*Google)(nil)
