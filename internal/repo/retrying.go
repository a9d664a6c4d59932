package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dinehq/pricingservice/internal/retry"
)

// RetryingOccupancyProvider retries transient occupancy lookup failures with
// backoff before giving up. It sits under the circuit breaker, so one
// exhausted retry sequence counts as a single breaker failure.
type RetryingOccupancyProvider struct {
	inner  OccupancyProvider
	cfg    retry.Config
	logger *zap.Logger
}

// NewRetryingOccupancyProvider wraps provider with up to retries extra
// attempts per lookup. Zero or negative retries means a single attempt.
func NewRetryingOccupancyProvider(provider OccupancyProvider, retries int, logger *zap.Logger) *RetryingOccupancyProvider {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = 1
	if retries > 0 {
		cfg.MaxAttempts = retries + 1
	}
	return &RetryingOccupancyProvider{
		inner:  provider,
		cfg:    cfg,
		logger: logger,
	}
}

// GetOccupancyRate delegates to the inner provider, retrying on failure.
func (p *RetryingOccupancyProvider) GetOccupancyRate(ctx context.Context, date time.Time, timeSlot string) (float64, error) {
	var rate float64
	err := retry.Do(ctx, p.cfg, p.logger, func() error {
		var innerErr error
		rate, innerErr = p.inner.GetOccupancyRate(ctx, date, timeSlot)
		return innerErr
	})
	if err != nil {
		return 0, err
	}
	return rate, nil
}
