// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateKeyPrefix = "rl:"

// WindowLimiter is a fixed window rate limiter shared by every API
// instance through Valkey. Each key counts hits with INCR; the first hit
// of a window sets its expiry.
type WindowLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewWindowLimiter allows limit hits per key and window.
func NewWindowLimiter(client *redis.Client, limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{client: client, limit: int64(limit), window: window}
}

// Allow records a hit for key and reports whether it is within the limit.
// Over the limit, the remaining window time is returned.
func (l *WindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := rateKeyPrefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	// NX keeps the expiry of the first hit so the window does not slide.
	pipe.ExpireNX(ctx, k, l.window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}

	if incr.Val() <= l.limit {
		return true, 0, nil
	}
	retry := ttl.Val()
	if retry <= 0 {
		retry = l.window
	}
	return false, retry, nil
}
