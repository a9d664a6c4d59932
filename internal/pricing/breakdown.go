package pricing

import (
	"fmt"
	"strings"

	"github.com/dinehq/pricingservice/internal/domain"
)

// conditionPhrase maps a matched condition type to its audit-trail phrase.
// Returns "" for unknown types so the caller can fall back to the rule
// description.
func conditionPhrase(c domain.PricingCondition, booking domain.BookingRequest) string {
	switch c.Type {
	case domain.ConditionTimeSlot:
		return "prime time slot"
	case domain.ConditionDayOfWeek:
		return "weekend/holiday"
	case domain.ConditionPartySize:
		return fmt.Sprintf("large party (%d guests)", booking.PartySize)
	case domain.ConditionAdvanceBooking:
		return "early bird booking"
	case domain.ConditionOccupancy:
		return "high demand"
	case domain.ConditionSpecialDate:
		return "special occasion"
	default:
		return ""
	}
}

// explainRule builds the human reason for a matched rule: the phrases of its
// conditions joined with commas, or the rule's free-text description when no
// condition produced a phrase (a zero-condition rule, for instance).
func explainRule(rule domain.PricingRule, booking domain.BookingRequest) string {
	var phrases []string
	for _, c := range rule.Conditions {
		if p := conditionPhrase(c, booking); p != "" {
			phrases = append(phrases, p)
		}
	}
	if len(phrases) == 0 {
		return rule.Description
	}
	return strings.Join(phrases, ", ")
}

// buildBreakdown concatenates the base price, every applied delta with its
// reason, and the final price into one audit string.
func buildBreakdown(basePrice float64, adjustments []domain.AppliedAdjustment, finalPrice float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Base price: $%.2f", basePrice)
	for _, adj := range adjustments {
		fmt.Fprintf(&b, " | %s: %s (%s)", adj.RuleName, formatDelta(adj.AdjustmentAmount), adj.Reason)
	}
	fmt.Fprintf(&b, " | Final price: $%.2f", finalPrice)
	return b.String()
}

func formatDelta(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("+$%.2f", amount)
}
