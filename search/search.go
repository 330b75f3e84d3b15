// Package search provides the web search collaborator used by the research
// step. Provider failures degrade to an empty result list; the pipeline
// tolerates partial research rather than failing the whole task.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	agency "github.com/PmSerg/social-media-agent-system"
)

// Provider is the search collaborator.
type Provider interface {
	// Search returns up to numResults ranked hits for the query.
	Search(ctx context.Context, query string, numResults int) ([]agency.Source, error)
}

// DefaultBaseURL is the hosted SerpAPI endpoint.
const DefaultBaseURL = "https://serpapi.com/search.json"

// Client queries a SerpAPI-compatible endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *slog.Logger
}

// ClientOption configures the search client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for degraded-result warnings.
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a search client with the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	Error          string `json:"error"`
	OrganicResults []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Date     string `json:"date"`
	} `json:"organic_results"`
}

// Search returns ranked hits for the query. Provider errors are logged and
// yield an empty list, never an error; research proceeds on partial data.
func (c *Client) Search(ctx context.Context, query string, numResults int) ([]agency.Source, error) {
	sources, err := c.search(ctx, query, numResults)
	if err != nil {
		c.log.Warn("search failed, continuing with empty results", "query", query, "error", err)
		return nil, nil
	}
	return sources, nil
}

func (c *Client) search(ctx context.Context, query string, numResults int) ([]agency.Source, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", fmt.Sprint(numResults))
	params.Set("hl", "en")
	params.Set("gl", "us")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("search: provider error: %s", body.Error)
	}

	sources := make([]agency.Source, 0, len(body.OrganicResults))
	for _, r := range body.OrganicResults {
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		if r.Link == "" {
			continue
		}
		sources = append(sources, agency.Source{
			Title:    title,
			URL:      r.Link,
			Snippet:  r.Snippet,
			Position: r.Position,
			Date:     r.Date,
		})
		if len(sources) == numResults {
			break
		}
	}
	return sources, nil
}

var _ Provider = (*Client)(nil)
