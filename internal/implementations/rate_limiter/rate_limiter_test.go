package ratelimiter

import (
	"accounts/internal/core/domain/logging"
	ratelimiter "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/db/session"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRedisCheckLimit(t *testing.T) {
	if session.TestRedisURL() == "" {
		t.Skip("TEST_REDIS_URL is not set.")
	}
	client := session.CreateTestClient()
	defer client.Close()

	ctx := context.Background()
	require.Nil(t, client.FlushDB(ctx).Err())

	now := func() time.Time { return time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC) }
	rl := NewRedis(client, logging.NewFakeLogger(), now)
	limit := ratelimiter.Limit{Interval: ratelimiter.Minute, Value: 2}

	require.True(t, rl.CheckLimit(ctx, "test", limit).IsAllowed)
	require.True(t, rl.CheckLimit(ctx, "test", limit).IsAllowed)
	require.False(t, rl.CheckLimit(ctx, "test", limit).IsAllowed)

	require.True(t, rl.CheckLimit(ctx, "other", limit).IsAllowed)
	require.True(t, rl.CheckLimit(ctx, "test", ratelimiter.Limit{Interval: ratelimiter.Day, Value: 1}).IsAllowed)
}
