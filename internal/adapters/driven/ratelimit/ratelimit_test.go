package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	l := New(Config{})
	require.NotNil(t, l)
	assert.True(t, l.Allow(), "fresh limiter should allow a request")
}

func TestLimiter_Wait(t *testing.T) {
	l := New(Config{RequestsPerSecond: 100, BurstSize: 1})
	ctx := context.Background()

	err := l.Wait(ctx)
	assert.NoError(t, err)
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := New(Config{RequestsPerSecond: 0.001, BurstSize: 1})
	// Drain the single burst token.
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	assert.Error(t, err)
}

func TestLimiter_RecordRateLimitError(t *testing.T) {
	l := New(Config{RequestsPerSecond: 100, BurstSize: 10})

	l.RecordRateLimitError(60)
	assert.False(t, l.Allow(), "requests should be blocked during backoff")
}

func TestLimiter_RecordRateLimitError_DefaultBackoff(t *testing.T) {
	l := New(Config{RequestsPerSecond: 100, BurstSize: 10})

	l.RecordRateLimitError(0)
	assert.False(t, l.Allow(), "zero retry-after should still apply a default backoff")
}

func TestLimiter_BackoffHonouredByWait(t *testing.T) {
	l := New(Config{RequestsPerSecond: 100, BurstSize: 10})
	l.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	assert.Error(t, err, "wait should block for the backoff and hit the context deadline")
}
