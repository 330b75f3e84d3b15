package completion

import (
	"net/http"
	"strconv"
	"time"

	agency "github.com/PmSerg/social-media-agent-system"
)

// categorizeStatusCode determines the error category from an HTTP status code.
func categorizeStatusCode(code int) agency.ErrorCategory {
	switch {
	case code == 429:
		return agency.ErrorTransient // Rate limited
	case code >= 500 && code < 600:
		return agency.ErrorTransient // Server error
	case code == 401 || code == 403:
		return agency.ErrorPermanent // Authentication/authorization
	case code == 400 || code == 404 || code == 422:
		return agency.ErrorUserInput // Bad request or not found
	default:
		return agency.ErrorPermanent // Default to permanent for unknown codes
	}
}

// categorize builds a categorized error for a provider failure, preserving
// any server-suggested retry delay.
func categorize(msg string, code int, retryAfter time.Duration, cause error) error {
	if retryAfter > 0 {
		return agency.NewTransientErrorWithRetry(msg, code, retryAfter, cause)
	}
	switch categorizeStatusCode(code) {
	case agency.ErrorTransient:
		return agency.NewTransientError(msg, code, cause)
	case agency.ErrorUserInput:
		return agency.NewUserInputError(msg, code, cause)
	default:
		return agency.NewPermanentError(msg, code, cause)
	}
}

// parseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	// Try parsing as seconds (most common)
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// Try parsing as HTTP-date (RFC 7231)
	if t, err := http.ParseTime(header); err == nil {
		delay := time.Until(t)
		if delay > 0 {
			return delay
		}
	}

	return 0
}
