// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"biocms/internal/response"
)

// Limiter decides whether one more request under key fits its budget.
// When it does not, retryAfter says how long the caller should wait.
type Limiter interface {
	Allow(ctx context.Context, key string) (ok bool, retryAfter time.Duration, err error)
}

// RateLimit rejects requests over l's budget with 429 and a Retry-After
// header. Requests are keyed by scope and client IP. A limiter error lets
// the request through so a cache outage cannot lock admins out.
func RateLimit(l Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retry, err := l.Allow(r.Context(), scope+":"+clientIP(r))
			if err != nil {
				slog.Warn("rate limiter unavailable", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(retry)))
				response.TooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// retrySeconds rounds d to whole seconds, never below one.
func retrySeconds(d time.Duration) int {
	return max(int(d.Round(time.Second)/time.Second), 1)
}

// MemoryLimiter is a process-local sliding window limiter. It suits a
// single instance and tests; multi-instance deployments share a limiter
// through Valkey instead.
type MemoryLimiter struct {
	mu      sync.Mutex
	clients map[string][]time.Time
	limit   int
	window  time.Duration
	now     func() time.Time
	stopCh  chan struct{}
	stop    sync.Once
}

// NewMemoryLimiter allows limit requests per key within any window. A
// background goroutine drops idle keys until Stop is called.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return newMemoryLimiter(limit, window, time.Now)
}

func newMemoryLimiter(limit int, window time.Duration, now func() time.Time) *MemoryLimiter {
	ml := &MemoryLimiter{
		clients: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     now,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(max(window, time.Minute))
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ml.sweep()
			case <-ml.stopCh:
				return
			}
		}
	}()

	return ml
}

// Stop ends the background sweep. Safe to call twice.
func (ml *MemoryLimiter) Stop() {
	ml.stop.Do(func() { close(ml.stopCh) })
}

// Allow implements Limiter. It never fails.
func (ml *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := ml.now()
	cutoff := now.Add(-ml.window)

	ml.mu.Lock()
	defer ml.mu.Unlock()

	hits := slices.DeleteFunc(ml.clients[key], func(ts time.Time) bool { return !ts.After(cutoff) })
	if len(hits) >= ml.limit {
		ml.clients[key] = hits
		return false, hits[0].Sub(cutoff), nil
	}
	ml.clients[key] = append(hits, now)
	return true, 0, nil
}

// sweep removes keys whose hits have all left the window.
func (ml *MemoryLimiter) sweep() {
	cutoff := ml.now().Add(-ml.window)

	ml.mu.Lock()
	defer ml.mu.Unlock()

	for key, hits := range ml.clients {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(ml.clients, key)
		}
	}
}

// clientIP returns the host part of the peer address. Forwarding headers
// are ignored here; behind a trusted proxy chi's RealIP rewrites
// RemoteAddr before this runs.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
