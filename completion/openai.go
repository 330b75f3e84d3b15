package completion

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is used when no model override is given.
const DefaultOpenAIModel = "gpt-4o"

// OpenAI wraps the OpenAI SDK to implement Completer.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI completion client with the given API key.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	c := &OpenAI{
		client: &client,
		model:  DefaultOpenAIModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenAIOption configures the OpenAI client.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel sets the model for requests.
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *OpenAI) {
		c.model = model
	}
}

// Complete sends one completion request and returns the response text.
func (c *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// wrapOpenAIError categorizes an OpenAI SDK error, extracting the status code
// and any Retry-After header.
func wrapOpenAIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		// Not an API error, likely a network failure to be handled upstream.
		return err
	}

	return categorize(err.Error(), apiErr.StatusCode, parseRetryAfter(apiErr.Response), err)
}

var _ Completer = (*OpenAI)(nil)
