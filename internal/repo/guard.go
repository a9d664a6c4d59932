package repo

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dinehq/pricingservice/internal/circuitbreaker"
	"github.com/dinehq/pricingservice/internal/domain"
)

// GuardedOccupancyProvider wraps an OccupancyProvider with a circuit breaker
// so a struggling occupancy backend stops being hammered. While the circuit
// is open lookups fail fast with a COLLABORATOR_UNAVAILABLE domain error and
// the engine treats occupancy as unknown.
type GuardedOccupancyProvider struct {
	inner   OccupancyProvider
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedOccupancyProvider wraps provider with a breaker named "occupancy".
func NewGuardedOccupancyProvider(provider OccupancyProvider, cfg circuitbreaker.Config, logger *zap.Logger) *GuardedOccupancyProvider {
	return &GuardedOccupancyProvider{
		inner:   provider,
		breaker: circuitbreaker.New("occupancy", cfg, logger),
	}
}

// GetOccupancyRate delegates through the breaker.
func (g *GuardedOccupancyProvider) GetOccupancyRate(ctx context.Context, date time.Time, timeSlot string) (float64, error) {
	var rate float64
	err := g.breaker.Execute(ctx, func() error {
		var innerErr error
		rate, innerErr = g.inner.GetOccupancyRate(ctx, date, timeSlot)
		return innerErr
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			return 0, domain.NewCollaboratorUnavailableError("occupancy provider", err)
		}
		return 0, err
	}
	return rate, nil
}

// State exposes the breaker state for health reporting.
func (g *GuardedOccupancyProvider) State() circuitbreaker.State {
	return g.breaker.GetState()
}
