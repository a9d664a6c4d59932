package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T, limit int) (*RedisRateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisRateLimiter(client, limit, zap.NewNop()), mr
}

func TestAllow_UnderAndOverLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "ratelimit:client")
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	allowed, err := limiter.Allow(ctx, "ratelimit:client")
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Fatal("fourth request should be rejected")
	}

	// A different client has its own window.
	allowed, err = limiter.Allow(ctx, "ratelimit:other")
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Fatal("other client should be allowed")
	}
}

func TestAllow_WindowResets(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "ratelimit:client"); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _ := limiter.Allow(ctx, "ratelimit:client"); allowed {
		t.Fatal("second request should be rejected")
	}

	mr.FastForward(2 * time.Minute)

	if allowed, _ := limiter.Allow(ctx, "ratelimit:client"); !allowed {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestMiddleware(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(limiter, zap.NewNop(), next)

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/v1/pricing/rules", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("first request: got %d", code)
	}
	if code := do(); code != http.StatusOK {
		t.Fatalf("second request: got %d", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("third request: got %d, want 429", code)
	}
}

func TestMiddleware_LimiterOutageFailsOpen(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1)
	mr.Close()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(limiter, zap.NewNop(), next)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200 when limiter is down", rec.Code)
	}
}
