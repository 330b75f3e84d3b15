package completion

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	agency "github.com/PmSerg/social-media-agent-system"
)

func TestCategorizeStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want agency.ErrorCategory
	}{
		{429, agency.ErrorTransient},
		{500, agency.ErrorTransient},
		{503, agency.ErrorTransient},
		{401, agency.ErrorPermanent},
		{403, agency.ErrorPermanent},
		{400, agency.ErrorUserInput},
		{404, agency.ErrorUserInput},
		{422, agency.ErrorUserInput},
		{418, agency.ErrorPermanent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categorizeStatusCode(tt.code), "status %d", tt.code)
	}
}

func TestCategorizePreservesRetryAfter(t *testing.T) {
	err := categorize("rate limited", 429, 30*time.Second, nil)

	var ce agency.CategorizedError
	assert.ErrorAs(t, err, &ce)
	assert.True(t, ce.Retryable())
	assert.Equal(t, 429, ce.StatusCode())
	assert.Equal(t, 30*time.Second, ce.RetryAfter())
}

func TestParseRetryAfterSeconds(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": []string{"15"}}}
	assert.Equal(t, 15*time.Second, parseRetryAfter(resp))
}

func TestParseRetryAfterMissing(t *testing.T) {
	assert.Zero(t, parseRetryAfter(nil))
	assert.Zero(t, parseRetryAfter(&http.Response{Header: http.Header{}}))
	assert.Zero(t, parseRetryAfter(&http.Response{Header: http.Header{"Retry-After": []string{"garbage"}}}))
}
