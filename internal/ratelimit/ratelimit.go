// Package ratelimit protects the pricing API from abusive clients with a
// fixed-window counter kept in Redis, so the limit holds across replicas.
package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter defines the interface for rate limiting
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Config holds rate limiting configuration
type Config struct {
	// Requests per window per client
	RequestsPerMinute int
	// Enable rate limiting
	Enabled bool
}

// DefaultConfig returns a default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 100,
		Enabled:           true,
	}
}

// RedisClient is the subset of redis operations the limiter needs.
type RedisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisRateLimiter counts requests per client in one-minute fixed windows.
type RedisRateLimiter struct {
	redis  RedisClient
	limit  int
	logger *zap.Logger
}

// NewRedisRateLimiter creates a new Redis-based rate limiter
func NewRedisRateLimiter(client RedisClient, limit int, logger *zap.Logger) *RedisRateLimiter {
	if limit <= 0 {
		limit = DefaultConfig().RequestsPerMinute
	}
	return &RedisRateLimiter{
		redis:  client,
		limit:  limit,
		logger: logger,
	}
}

// Allow checks if a request is allowed based on the rate limit
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to increment rate limit counter",
			zap.Error(err),
			zap.String("key", key))
		return false, fmt.Errorf("rate limit error: %w", err)
	}

	// Set expiration on first request in the window
	if count == 1 {
		if err := r.redis.Expire(ctx, key, time.Minute).Err(); err != nil {
			r.logger.Error("Failed to set rate limit expiration",
				zap.Error(err),
				zap.String("key", key))
		}
	}

	return count <= int64(r.limit), nil
}

// Middleware wraps an HTTP handler with per-client rate limiting, keyed by
// remote IP. A limiter failure lets the request through: losing the limit
// beats losing the traffic.
func Middleware(limiter RateLimiter, logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:" + clientIP(r)

		allowed, err := limiter.Allow(r.Context(), key)
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
