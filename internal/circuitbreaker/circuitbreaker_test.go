package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := New("test", Config{MaxFailures: 3, Timeout: time.Minute, SuccessThreshold: 1}, zap.NewNop())
	ctx := context.Background()
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		if err := cb.Execute(ctx, func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: got %v, want boom", i, err)
		}
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("state: got %s, want open", cb.GetState())
	}

	// Open circuit fails fast without invoking the function.
	called := false
	err := cb.Execute(ctx, func() error { called = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("got %v, want ErrCircuitOpen", err)
	}
	if called {
		t.Fatal("function must not run while circuit is open")
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := New("test", Config{MaxFailures: 2, Timeout: time.Minute, SuccessThreshold: 1}, zap.NewNop())
	ctx := context.Background()
	boom := errors.New("boom")

	_ = cb.Execute(ctx, func() error { return boom })
	_ = cb.Execute(ctx, func() error { return nil })
	_ = cb.Execute(ctx, func() error { return boom })

	if cb.GetState() != StateClosed {
		t.Fatalf("state: got %s, want closed (failures interleaved with success)", cb.GetState())
	}
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := New("test", Config{MaxFailures: 1, Timeout: 10 * time.Millisecond, SuccessThreshold: 2}, zap.NewNop())
	ctx := context.Background()

	_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	if cb.GetState() != StateOpen {
		t.Fatalf("state: got %s, want open", cb.GetState())
	}

	time.Sleep(20 * time.Millisecond)

	// First probe transitions to half-open; two successes close it.
	if err := cb.Execute(ctx, func() error { return nil }); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if cb.GetState() != StateHalfOpen {
		t.Fatalf("state: got %s, want half-open", cb.GetState())
	}
	if err := cb.Execute(ctx, func() error { return nil }); err != nil {
		t.Fatalf("second probe: %v", err)
	}
	if cb.GetState() != StateClosed {
		t.Fatalf("state: got %s, want closed", cb.GetState())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := New("test", Config{MaxFailures: 1, Timeout: 10 * time.Millisecond, SuccessThreshold: 2}, zap.NewNop())
	ctx := context.Background()

	_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	time.Sleep(20 * time.Millisecond)

	_ = cb.Execute(ctx, func() error { return errors.New("still down") })
	if cb.GetState() != StateOpen {
		t.Fatalf("state: got %s, want open after half-open failure", cb.GetState())
	}
}
