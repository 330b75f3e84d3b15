// Package webhook delivers progress notifications to caller-supplied
// callback URLs. Delivery is best effort: the record store is the system of
// record and is always updated before a notification goes out, so exhausted
// retries are logged and absorbed, never surfaced as task failures.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	agency "github.com/PmSerg/social-media-agent-system"
)

// Notifier sends one progress update for a task.
type Notifier interface {
	// Notify delivers update to targetURL, or to the configured default
	// progress endpoint for the task when targetURL is empty.
	Notify(ctx context.Context, taskID, targetURL string, update agency.ProgressUpdate)
}

// Config holds delivery settings.
type Config struct {
	// BaseURL is the default callback base; the per-task target is
	// <BaseURL>/progress/<taskID> when the caller gave no explicit URL.
	BaseURL string

	// MaxAttempts bounds delivery tries per notification (default 3).
	MaxAttempts int

	// BaseDelay is the backoff unit: delay = BaseDelay * 2^attempt with
	// attempt 0-indexed (default 1s).
	BaseDelay time.Duration

	// Timeout is the per-request HTTP timeout (default 10s).
	Timeout time.Duration
}

// DefaultConfig returns the delivery defaults: 3 attempts, 1s backoff base,
// 10s request timeout.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:     baseURL,
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Timeout:     10 * time.Second,
	}
}

// Delay computes the backoff before retrying after the given 0-indexed
// attempt.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return c.BaseDelay << uint(attempt)
}

// Sender posts JSON progress payloads with bounded retries.
type Sender struct {
	httpClient *http.Client
	cfg        Config
	log        *slog.Logger
}

// SenderOption configures the sender.
type SenderOption func(*Sender)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) SenderOption {
	return func(s *Sender) {
		s.httpClient = hc
	}
}

// WithLogger sets the logger for delivery warnings.
func WithLogger(log *slog.Logger) SenderOption {
	return func(s *Sender) {
		s.log = log
	}
}

// NewSender creates a sender. Zero config fields fall back to the defaults
// from DefaultConfig.
func NewSender(cfg Config, opts ...SenderOption) *Sender {
	def := DefaultConfig(cfg.BaseURL)
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	s := &Sender{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify delivers the update, retrying with exponential backoff on any
// non-2xx response or transport error. A 429 with a Retry-After header
// honors the server's delay instead of the computed backoff. Exhaustion is
// logged, not returned.
func (s *Sender) Notify(ctx context.Context, taskID, targetURL string, update agency.ProgressUpdate) {
	if targetURL == "" {
		targetURL = fmt.Sprintf("%s/progress/%s", s.cfg.BaseURL, taskID)
	}
	update.TaskID = taskID

	body, err := json.Marshal(update)
	if err != nil {
		s.log.Error("webhook payload not serializable", "task_id", taskID, "error", err)
		return
	}

	log := s.log.With("task_id", taskID, "url", targetURL)

	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		delay := s.cfg.Delay(attempt)

		status, retryAfter, err := s.post(ctx, targetURL, body)
		switch {
		case err != nil:
			log.Warn("webhook delivery error", "attempt", attempt+1, "error", err)
		case status >= 200 && status < 300:
			return
		default:
			log.Warn("webhook rejected", "attempt", attempt+1, "status", status)
			if status == http.StatusTooManyRequests && retryAfter > 0 {
				delay = retryAfter
			}
		}

		if attempt == s.cfg.MaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			log.Warn("webhook delivery abandoned", "error", ctx.Err())
			return
		case <-time.After(delay):
		}
	}

	log.Warn("webhook delivery failed", "attempts", s.cfg.MaxAttempts)
}

func (s *Sender) post(ctx context.Context, targetURL string, body []byte) (status int, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if secs, parseErr := time.ParseDuration(resp.Header.Get("Retry-After") + "s"); parseErr == nil {
		retryAfter = secs
	}
	return resp.StatusCode, retryAfter, nil
}

var _ Notifier = (*Sender)(nil)
