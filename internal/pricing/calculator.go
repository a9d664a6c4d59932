package pricing

import (
	"math"
	"sort"
	"time"

	"github.com/dinehq/pricingservice/internal/domain"
)

// DefaultRoundingIncrement is the currency increment the final price is
// snapped to when no override is configured.
const DefaultRoundingIncrement = 5.0

// Calculator composes a base price and a rule snapshot into a final price
// with an audit trail. It is a pure, synchronous computation with no shared
// state, so a single instance is safe for concurrent use.
type Calculator struct {
	roundingIncrement float64
}

// NewCalculator creates a calculator with the given rounding increment.
// A non-positive increment falls back to the default.
func NewCalculator(roundingIncrement float64) *Calculator {
	if roundingIncrement <= 0 {
		roundingIncrement = DefaultRoundingIncrement
	}
	return &Calculator{roundingIncrement: roundingIncrement}
}

// Calculate applies the rule snapshot to the base price. Rules are filtered
// to active ones inside their validity window, ordered by priority descending
// (ties keep snapshot order), and applied in sequence: each matching rule's
// delta is added to the running price and the rule's own min/max bounds clamp
// the result immediately, so a rule's stated bounds hold no matter what later
// rules do. The final price is rounded to the calculator's increment and is
// never negative.
//
// Per-rule RoundTo values are deliberately not consulted here; rounding
// happens once, at the end, with the single configured increment.
func (c *Calculator) Calculate(basePrice float64, booking domain.BookingRequest,
	rules []domain.PricingRule, facts Facts, now time.Time) domain.PricingCalculation {

	snapshot := make([]domain.PricingRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Active && rule.ValidAt(now) {
			snapshot = append(snapshot, rule)
		}
	}

	// Stable sort: equal priorities keep repository order.
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Priority > snapshot[j].Priority
	})

	price := basePrice
	adjustments := make([]domain.AppliedAdjustment, 0, len(snapshot))
	appliedRules := make([]string, 0, len(snapshot))

	for _, rule := range snapshot {
		if !ruleMatches(rule, booking, facts, now) {
			continue
		}

		delta := adjustmentDelta(price, rule.Adjustment)
		price += delta
		price = clampPrice(price, rule.Adjustment)

		adjustments = append(adjustments, domain.AppliedAdjustment{
			RuleName:         rule.Name,
			RuleDescription:  rule.Description,
			AdjustmentAmount: delta,
			Reason:           explainRule(rule, booking),
		})
		appliedRules = append(appliedRules, rule.Name)
	}

	final := c.roundPrice(price)
	if final < 0 {
		final = 0
	}

	return domain.PricingCalculation{
		BasePrice:    basePrice,
		Adjustments:  adjustments,
		FinalPrice:   final,
		AppliedRules: appliedRules,
		Breakdown:    buildBreakdown(basePrice, adjustments, final),
	}
}

// ruleMatches AND-evaluates every condition; zero conditions match trivially.
func ruleMatches(rule domain.PricingRule, booking domain.BookingRequest, facts Facts, now time.Time) bool {
	for _, cond := range rule.Conditions {
		if !matchesCondition(cond, booking, facts, now) {
			return false
		}
	}
	return true
}

// roundPrice snaps the price to the nearest multiple of the increment.
func (c *Calculator) roundPrice(price float64) float64 {
	return math.Round(price/c.roundingIncrement) * c.roundingIncrement
}
