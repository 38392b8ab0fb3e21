package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts events per key in a fixed window. A nil client or a
// non-positive max disables it.
type Limiter struct {
	client *redis.Client
	prefix string
	max    int64
	window time.Duration
}

func NewLimiter(client *redis.Client, prefix string, max int64, window time.Duration) *Limiter {
	return &Limiter{client: client, prefix: prefix, max: max, window: window}
}

// Enabled reports whether Allow can ever refuse.
func (l *Limiter) Enabled() bool {
	return l != nil && l.client != nil && l.max > 0 && l.window > 0
}

// Allow records one event for key and reports whether it is within the limit,
// together with what is left of the window's budget.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	if !l.Enabled() {
		return true, 0, nil
	}

	k := fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	// Set expiration on first event
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= l.max, remaining, nil
}
