package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	fastOpts := func(attempts int) RetryOptions {
		return RetryOptions{
			MaxAttempts:  attempts,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
		}
	}

	t.Run("single attempt by default", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return fmt.Errorf("wrapped: %w", ErrRateLimit)
		}, RetryOptions{InitialDelay: time.Millisecond})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, ErrRateLimit)
		assert.NotErrorIs(t, err, ErrMaxRetries)
	})

	t.Run("non retryable error returns immediately", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := WithRetry(context.Background(), func() error {
			calls++
			return boom
		}, fastOpts(3))

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("rate limit retried until success", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return ErrRateLimit
			}
			return nil
		}, fastOpts(3))

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausted attempts wrap both errors", func(t *testing.T) {
		err := WithRetry(context.Background(), func() error {
			return ErrRateLimit
		}, fastOpts(2))

		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, ErrRateLimit)
	})

	t.Run("canceled context stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := WithRetry(ctx, func() error {
			return &RetryableError{Err: errors.New("flaky"), Retryable: true}
		}, RetryOptions{MaxAttempts: 3, InitialDelay: time.Second})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestUserError(t *testing.T) {
	inner := errors.New("disk full")
	err := NewUserError("could not save expenses", inner)

	assert.Equal(t, "could not save expenses: disk full", err.Error())
	assert.ErrorIs(t, err, inner)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "could not save expenses", userErr.UserMessage)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	_, err = ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMatchRegex(t *testing.T) {
	ok, err := MatchRegex(`^#[0-9A-Fa-f]{6}$`, "#F87171")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MatchRegex(`^#[0-9A-Fa-f]{6}$`, "red")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = MatchRegex(`([`, "x")
	assert.Error(t, err)
}
