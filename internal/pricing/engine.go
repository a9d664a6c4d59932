package pricing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dinehq/pricingservice/internal/domain"
	"github.com/dinehq/pricingservice/internal/log"
	"github.com/dinehq/pricingservice/internal/metrics"
	"github.com/dinehq/pricingservice/internal/repo"
)

// Engine wires the pure calculator to its collaborators: the rule repository,
// the occupancy provider and the special-date provider. Every collaborator
// failure degrades to an empty result set; pricing must never be the reason
// a booking fails.
type Engine struct {
	rules     repo.RuleRepository
	occupancy repo.OccupancyProvider
	special   repo.SpecialDateProvider
	calc      *Calculator
	slots     []string
	now       func() time.Time
}

// defaultForecastSlots are the canonical service slots priced by the
// forecast, lunch through late dinner.
var defaultForecastSlots = []string{
	"12:00 PM", "1:00 PM", "2:00 PM", "5:00 PM",
	"6:00 PM", "7:00 PM", "8:00 PM", "9:00 PM",
}

// NewEngine creates an engine around the given collaborators.
func NewEngine(rules repo.RuleRepository, occupancy repo.OccupancyProvider,
	special repo.SpecialDateProvider, calc *Calculator) *Engine {
	return &Engine{
		rules:     rules,
		occupancy: occupancy,
		special:   special,
		calc:      calc,
		slots:     defaultForecastSlots,
		now:       time.Now,
	}
}

// WithForecastSlots overrides the canonical forecast slots.
func (e *Engine) WithForecastSlots(slots []string) *Engine {
	if len(slots) > 0 {
		e.slots = slots
	}
	return e
}

// WithClock overrides the engine's notion of "now". Used by tests to keep
// advance-booking and validity-window evaluation deterministic.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// CalculatePrice computes the deposit for one booking. The rule snapshot is
// fetched once; occupancy and special-date facts are fetched once per booking
// and reused across all rule evaluations. The method never returns an error:
// a failed rule fetch prices the booking at the base price.
func (e *Engine) CalculatePrice(ctx context.Context, basePrice float64, booking domain.BookingRequest) domain.PricingCalculation {
	now := e.now()
	rules := e.activeSnapshot(ctx)
	facts := loadFacts(ctx, e.occupancy, e.special, rules, booking.Date, booking.Time)
	return e.calc.Calculate(basePrice, booking, rules, facts, now)
}

// activeSnapshot fetches the rule snapshot, degrading a repository failure to
// an empty rule set.
func (e *Engine) activeSnapshot(ctx context.Context) []domain.PricingRule {
	if e.rules == nil {
		return nil
	}
	rules, err := e.rules.ListRules(ctx)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("rule_repository").Inc()
		log.Warn(ctx, "rule repository unavailable, pricing at base price", zap.Error(err))
		return nil
	}
	return rules
}
