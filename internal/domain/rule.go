package domain

import (
	"fmt"
	"time"
)

// ConditionType represents the booking attribute a condition inspects.
type ConditionType string

const (
	ConditionTimeSlot       ConditionType = "time_slot"
	ConditionDayOfWeek      ConditionType = "day_of_week"
	ConditionPartySize      ConditionType = "party_size"
	ConditionAdvanceBooking ConditionType = "advance_booking"
	ConditionOccupancy      ConditionType = "occupancy"
	ConditionSpecialDate    ConditionType = "special_date"
)

// Operator represents how a condition value is compared.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorBetween     Operator = "between"
	OperatorIn          Operator = "in"
)

// AdjustmentType represents the kind of price adjustment a rule applies.
type AdjustmentType string

const (
	AdjustmentPercentage  AdjustmentType = "percentage"
	AdjustmentFixedAmount AdjustmentType = "fixed_amount"
	AdjustmentMultiplier  AdjustmentType = "multiplier"
)

// PricingCondition is a single predicate over booking attributes.
// Value is polymorphic per operator: a scalar for equals/greater_than/less_than,
// a 2-element ordered pair for between, and a set for in. JSON decoding leaves
// numbers as float64 and collections as []interface{}; the engine narrows the
// shape leniently at evaluation time and Validate enforces it at rule-load time.
type PricingCondition struct {
	Type     ConditionType `json:"type"`
	Operator Operator      `json:"operator"`
	Value    interface{}   `json:"value"`
}

// PriceAdjustment describes the numeric transform a matching rule applies.
// MinPrice/MaxPrice clamp the running price immediately after this rule's
// delta. RoundTo is declared per-rule but the composer rounds once at the end
// of the pipeline with a single engine-wide increment; the field is stored and
// surfaced unchanged.
type PriceAdjustment struct {
	Type     AdjustmentType `json:"type"`
	Value    float64        `json:"value"`
	MinPrice *float64       `json:"min_price,omitempty"`
	MaxPrice *float64       `json:"max_price,omitempty"`
	RoundTo  *float64       `json:"round_to,omitempty"`
}

// PricingRule defines a single configurable pricing rule.
// Conditions are combined with logical AND; a rule with zero conditions
// matches every booking.
type PricingRule struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Active      bool               `json:"active"`
	Priority    int                `json:"priority"`
	Conditions  []PricingCondition `json:"conditions"`
	Adjustment  PriceAdjustment    `json:"adjustment"`
	ValidFrom   *time.Time         `json:"valid_from,omitempty"`
	ValidUntil  *time.Time         `json:"valid_until,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ValidAt reports whether the rule's validity window covers the given instant.
// A nil bound is open-ended.
func (r PricingRule) ValidAt(t time.Time) bool {
	if r.ValidFrom != nil && t.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && t.After(*r.ValidUntil) {
		return false
	}
	return true
}

// IsValidConditionType checks if the condition type is known.
func IsValidConditionType(t ConditionType) bool {
	switch t {
	case ConditionTimeSlot, ConditionDayOfWeek, ConditionPartySize,
		ConditionAdvanceBooking, ConditionOccupancy, ConditionSpecialDate:
		return true
	default:
		return false
	}
}

// IsValidOperator checks if the operator is known.
func IsValidOperator(op Operator) bool {
	switch op {
	case OperatorEquals, OperatorGreaterThan, OperatorLessThan, OperatorBetween, OperatorIn:
		return true
	default:
		return false
	}
}

// IsValidAdjustmentType checks if the adjustment type is known.
func IsValidAdjustmentType(t AdjustmentType) bool {
	switch t {
	case AdjustmentPercentage, AdjustmentFixedAmount, AdjustmentMultiplier:
		return true
	default:
		return false
	}
}

// Validate checks the condition's type, operator and value shape.
func (c PricingCondition) Validate() error {
	if !IsValidConditionType(c.Type) {
		return NewInvalidInputError("unknown condition type", string(c.Type))
	}
	if !IsValidOperator(c.Operator) {
		return NewInvalidInputError("unknown condition operator", string(c.Operator))
	}
	switch c.Operator {
	case OperatorBetween:
		pair, ok := c.Value.([]interface{})
		if !ok || len(pair) != 2 {
			return NewInvalidInputError("between operator requires a 2-element pair",
				fmt.Sprintf("condition %s", c.Type))
		}
	case OperatorIn:
		if _, ok := c.Value.([]interface{}); !ok {
			return NewInvalidInputError("in operator requires a set",
				fmt.Sprintf("condition %s", c.Type))
		}
	default:
		if c.Value == nil {
			return NewInvalidInputError("condition value is required",
				fmt.Sprintf("condition %s", c.Type))
		}
	}
	return nil
}

// Validate checks the adjustment's type and bounds.
func (a PriceAdjustment) Validate() error {
	if !IsValidAdjustmentType(a.Type) {
		return NewInvalidInputError("unknown adjustment type", string(a.Type))
	}
	if a.MinPrice != nil && a.MaxPrice != nil && *a.MinPrice > *a.MaxPrice {
		return NewInvalidInputError("adjustment min price exceeds max price",
			fmt.Sprintf("min=%.2f max=%.2f", *a.MinPrice, *a.MaxPrice))
	}
	if a.Type == AdjustmentMultiplier && a.Value < 0 {
		return NewInvalidInputError("multiplier adjustment must be non-negative",
			fmt.Sprintf("value=%.2f", a.Value))
	}
	return nil
}

// Validate checks the whole rule, including every condition and the adjustment.
func (r PricingRule) Validate() error {
	if r.Name == "" {
		return NewInvalidInputError("rule name is required", "")
	}
	if r.ValidFrom != nil && r.ValidUntil != nil && r.ValidFrom.After(*r.ValidUntil) {
		return NewInvalidInputError("rule validity window is inverted", r.Name)
	}
	for _, c := range r.Conditions {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return r.Adjustment.Validate()
}
