package record

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	agency "github.com/PmSerg/social-media-agent-system"
)

// DefaultBaseURL is the hosted page API endpoint.
const DefaultBaseURL = "https://api.notion.com/v1"

// apiVersion pins the page API revision.
const apiVersion = "2022-06-28"

// selectFields are stored as single-select options; everything else except
// the title is rich text.
var selectFields = map[string]bool{
	FieldStatus:      true,
	FieldAgentStatus: true,
	FieldMode:        true,
	FieldArchetype:   true,
}

// Client implements Store against a Notion-style page API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	databaseID string
}

// ClientOption configures the record client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a record store client for one task database.
func NewClient(token, databaseID string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		token:      token,
		databaseID: databaseID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create makes a new page in the task database and returns its ID.
func (c *Client) Create(ctx context.Context, title string, fields Fields) (string, error) {
	properties := map[string]any{
		FieldName: encodeProperty(FieldName, title),
	}
	for k, v := range fields {
		properties[k] = encodeProperty(k, v)
	}

	body := map[string]any{
		"parent":     map[string]any{"database_id": c.databaseID},
		"properties": properties,
	}

	var page pageJSON
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return "", fmt.Errorf("record: create page: %w", err)
	}
	return page.ID, nil
}

// Update merges fields into an existing page.
func (c *Client) Update(ctx context.Context, id string, fields Fields) error {
	properties := make(map[string]any, len(fields))
	for k, v := range fields {
		properties[k] = encodeProperty(k, v)
	}

	body := map[string]any{"properties": properties}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+id, body, nil); err != nil {
		return fmt.Errorf("record: update page %s: %w", id, err)
	}
	return nil
}

// Query returns up to pageSize pages matching the filter, newest first.
func (c *Client) Query(ctx context.Context, filter Filter, pageSize int) ([]Record, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	body := map[string]any{
		"page_size": pageSize,
		"sorts": []any{
			map[string]any{"timestamp": "created_time", "direction": "descending"},
		},
	}
	if filter.Field != "" {
		body["filter"] = encodeFilter(filter)
	}

	var result struct {
		Results []pageJSON `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/databases/"+c.databaseID+"/query", body, &result); err != nil {
		return nil, fmt.Errorf("record: query: %w", err)
	}

	records := make([]Record, 0, len(result.Results))
	for _, page := range result.Results {
		records = append(records, page.record())
	}
	return records, nil
}

// Get retrieves one page, or ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (Record, error) {
	var page pageJSON
	if err := c.do(ctx, http.MethodGet, "/pages/"+id, nil, &page); err != nil {
		var ce agency.CategorizedError
		if errors.As(err, &ce) && ce.StatusCode() == http.StatusNotFound {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("record: get page %s: %w", id, err)
	}
	return page.record(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return agency.NewTransientError("record store unreachable", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return wrapStatus(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// wrapStatus turns a non-2xx response into a categorized error.
func wrapStatus(resp *http.Response) error {
	msg := fmt.Sprintf("record store responded %d", resp.StatusCode)
	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return agency.NewTransientError(msg, resp.StatusCode, nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return agency.NewPermanentError(msg, resp.StatusCode, nil)
	default:
		return agency.NewUserInputError(msg, resp.StatusCode, nil)
	}
}

func encodeProperty(name, value string) map[string]any {
	switch {
	case name == FieldName:
		return map[string]any{
			"title": []any{map[string]any{"text": map[string]any{"content": truncate(value)}}},
		}
	case selectFields[name]:
		return map[string]any{"select": map[string]any{"name": value}}
	default:
		return map[string]any{
			"rich_text": []any{map[string]any{"text": map[string]any{"content": truncate(value)}}},
		}
	}
}

func encodeFilter(f Filter) map[string]any {
	if selectFields[f.Field] {
		return map[string]any{
			"property": f.Field,
			"select":   map[string]any{"equals": f.Equals},
		}
	}
	return map[string]any{
		"property":  f.Field,
		"rich_text": map[string]any{"equals": f.Equals},
	}
}

type pageJSON struct {
	ID          string              `json:"id"`
	CreatedTime time.Time           `json:"created_time"`
	Properties  map[string]propJSON `json:"properties"`
}

type propJSON struct {
	Select *struct {
		Name string `json:"name"`
	} `json:"select"`
	Title    []textJSON `json:"title"`
	RichText []textJSON `json:"rich_text"`
}

type textJSON struct {
	PlainText string `json:"plain_text"`
	Text      *struct {
		Content string `json:"content"`
	} `json:"text"`
}

func (p pageJSON) record() Record {
	fields := make(Fields, len(p.Properties))
	for name, prop := range p.Properties {
		if v := prop.value(); v != "" {
			fields[name] = v
		}
	}
	return Record{ID: p.ID, Fields: fields, CreatedAt: p.CreatedTime}
}

func (p propJSON) value() string {
	if p.Select != nil {
		return p.Select.Name
	}
	texts := p.Title
	if len(texts) == 0 {
		texts = p.RichText
	}
	var b strings.Builder
	for _, t := range texts {
		if t.PlainText != "" {
			b.WriteString(t.PlainText)
		} else if t.Text != nil {
			b.WriteString(t.Text.Content)
		}
	}
	return b.String()
}

var _ Store = (*Client)(nil)
