package agency

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorConstructors(t *testing.T) {
	t.Run("transient", func(t *testing.T) {
		err := NewTransientError("rate limited", 429, nil)
		assert.Equal(t, ErrorTransient, err.Category())
		assert.True(t, err.Retryable())
		assert.Equal(t, 429, err.StatusCode())
		assert.Zero(t, err.RetryAfter())
	})

	t.Run("transient with retry delay", func(t *testing.T) {
		err := NewTransientErrorWithRetry("rate limited", 429, 30*time.Second, nil)
		assert.Equal(t, 30*time.Second, err.RetryAfter())
	})

	t.Run("permanent", func(t *testing.T) {
		err := NewPermanentError("unauthorized", 401, nil)
		assert.Equal(t, ErrorPermanent, err.Category())
		assert.False(t, err.Retryable())
	})

	t.Run("user input", func(t *testing.T) {
		err := NewUserInputError("bad request", 400, nil)
		assert.Equal(t, ErrorUserInput, err.Category())
		assert.False(t, err.Retryable())
	})
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransientError("upstream failed", 503, cause)
	assert.ErrorIs(t, err, cause)
}

func TestCategoryHelpers(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		assert.True(t, IsTransient(NewTransientError("x", 503, nil)))
		assert.True(t, IsPermanent(NewPermanentError("x", 401, nil)))
		assert.True(t, IsUserInput(NewUserInputError("x", 400, nil)))
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("research analysis: %w", NewTransientError("x", 503, nil))
		assert.True(t, IsTransient(err))
		assert.False(t, IsPermanent(err))
	})

	t.Run("plain errors have no category", func(t *testing.T) {
		err := errors.New("plain")
		assert.False(t, IsTransient(err))
		assert.False(t, IsPermanent(err))
		assert.False(t, IsUserInput(err))
	})
}
