package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dinehq/pricingservice/internal/log"
	"github.com/dinehq/pricingservice/internal/metrics"
	"github.com/dinehq/pricingservice/internal/repo"
)

// DefaultOccupancyTTL bounds how stale a cached occupancy reading may be.
// Occupancy moves slowly enough that a few minutes of staleness is harmless
// for pricing.
const DefaultOccupancyTTL = 5 * time.Minute

// CachedOccupancyProvider decorates an occupancy provider with a per-slot
// Redis cache, so one busy evening of calculations does not hammer the
// booking store. Cache failures fall through to the underlying provider.
type CachedOccupancyProvider struct {
	next  repo.OccupancyProvider
	cache *Cache
	ttl   time.Duration
}

// NewCachedOccupancyProvider wraps next with a cache. A non-positive ttl
// falls back to DefaultOccupancyTTL.
func NewCachedOccupancyProvider(next repo.OccupancyProvider, cache *Cache, ttl time.Duration) *CachedOccupancyProvider {
	if ttl <= 0 {
		ttl = DefaultOccupancyTTL
	}
	return &CachedOccupancyProvider{next: next, cache: cache, ttl: ttl}
}

// GetOccupancyRate returns the cached rate when present, otherwise reads
// through and stores the result.
func (p *CachedOccupancyProvider) GetOccupancyRate(ctx context.Context, date time.Time, timeSlot string) (float64, error) {
	key := occupancyKey(date, timeSlot)

	var rate float64
	err := p.cache.Get(ctx, key, &rate)
	if err == nil {
		metrics.OccupancyCacheHit.Inc()
		return rate, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Warn(ctx, "occupancy cache read failed, falling through",
			zap.String("key", key), zap.Error(err))
	}
	metrics.OccupancyCacheMiss.Inc()

	rate, err = p.next.GetOccupancyRate(ctx, date, timeSlot)
	if err != nil {
		return 0, err
	}

	if setErr := p.cache.Set(ctx, key, rate, p.ttl); setErr != nil {
		log.Warn(ctx, "occupancy cache write failed",
			zap.String("key", key), zap.Error(setErr))
	}
	return rate, nil
}

func occupancyKey(date time.Time, timeSlot string) string {
	return fmt.Sprintf("occ:%s:%s", date.Format("2006-01-02"), timeSlot)
}
