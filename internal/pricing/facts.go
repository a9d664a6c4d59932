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

// Facts is the per-calculation snapshot of collaborator data. Occupancy and
// special-date state are fetched at most once per booking and reused for
// every rule evaluation in that calculation. A false Known flag means the
// collaborator failed or was never consulted; conditions that need the fact
// then evaluate to false (fail-closed).
type Facts struct {
	OccupancyRate  float64
	OccupancyKnown bool
	SpecialDate    bool
	SpecialKnown   bool
}

// needsOccupancy reports whether any rule carries an occupancy condition.
func needsOccupancy(rules []domain.PricingRule) bool {
	return needsConditionType(rules, domain.ConditionOccupancy)
}

// needsSpecialDate reports whether any rule carries a special_date condition.
func needsSpecialDate(rules []domain.PricingRule) bool {
	return needsConditionType(rules, domain.ConditionSpecialDate)
}

func needsConditionType(rules []domain.PricingRule, t domain.ConditionType) bool {
	for _, r := range rules {
		for _, c := range r.Conditions {
			if c.Type == t {
				return true
			}
		}
	}
	return false
}

// loadFacts fetches collaborator facts for the booking. Fetch failures are
// logged and leave the corresponding Known flag unset; they never abort the
// calculation.
func loadFacts(ctx context.Context, occupancy repo.OccupancyProvider, special repo.SpecialDateProvider,
	rules []domain.PricingRule, date time.Time, timeSlot string) Facts {

	var facts Facts

	if occupancy != nil && needsOccupancy(rules) {
		rate, err := occupancy.GetOccupancyRate(ctx, date, timeSlot)
		if err != nil {
			metrics.CollaboratorFailures.WithLabelValues("occupancy").Inc()
			log.Warn(ctx, "occupancy provider unavailable, occupancy conditions will not match",
				zap.Time("date", date),
				zap.String("time", timeSlot),
				zap.Error(err))
		} else {
			facts.OccupancyRate = rate
			facts.OccupancyKnown = true
		}
	}

	if special != nil && needsSpecialDate(rules) {
		isSpecial, err := special.IsSpecialDate(ctx, date)
		if err != nil {
			metrics.CollaboratorFailures.WithLabelValues("special_date").Inc()
			log.Warn(ctx, "special-date provider unavailable, special_date conditions will not match",
				zap.Time("date", date),
				zap.Error(err))
		} else {
			facts.SpecialDate = isSpecial
			facts.SpecialKnown = true
		}
	}

	return facts
}
