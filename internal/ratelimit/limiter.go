// Package ratelimit implements a Redis-backed sliding-window request
// limiter, adapted from the pack's tiered rate limiter down to a
// single budget per key (the API middleware keys it by client IP);
// there is no global budget.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter checks a sliding-window request budget per key in Redis.
type Limiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// New constructs a Limiter backed by client, admitting up to limit
// requests per key within window.
func New(client *redis.Client, limit int64, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window}
}

// Result is the outcome of a rate-limit check.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Allow checks whether key may make another request within the
// current window, recording this attempt regardless of the outcome.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := fmt.Sprintf("wallet:ratelimit:%s", key)
	now := time.Now()
	windowStart := now.Add(-l.window)

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCount(ctx, redisKey, fmt.Sprintf("%d", windowStart.UnixNano()), "+inf")
	pipe.ZAdd(ctx, redisKey, &redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, redisKey, l.window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("ratelimit: pipeline exec: %w", err)
	}

	count := countCmd.Val()
	remaining := l.limit - count - 1
	if remaining < 0 {
		remaining = 0
	}

	return Result{Allowed: count < l.limit, Remaining: remaining, RetryAfter: l.window}, nil
}
