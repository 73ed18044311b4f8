package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiter(t *testing.T) {
	t.Run("budget decrements as tokens are spent", func(t *testing.T) {
		limiter := NewTokenLimiter(100)
		require.NoError(t, limiter.Wait(context.Background(), 40))
		assert.Equal(t, 60, limiter.GetRemaining())
	})

	t.Run("spending within budget does not block", func(t *testing.T) {
		limiter := NewTokenLimiter(10)
		for i := 0; i < 10; i++ {
			require.NoError(t, limiter.Wait(context.Background(), 1))
		}
		assert.Equal(t, 0, limiter.GetRemaining())
	})

	t.Run("canceled context aborts the wait", func(t *testing.T) {
		limiter := NewTokenLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), 1))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Error(t, limiter.Wait(ctx, 1))
	})
}
