package domain

import "time"

// AppliedAdjustment records one rule's contribution to the final price.
// AdjustmentAmount is a signed delta, so discounts carry a negative value.
type AppliedAdjustment struct {
	RuleName         string  `json:"rule_name"`
	RuleDescription  string  `json:"rule_description"`
	AdjustmentAmount float64 `json:"adjustment_amount"`
	Reason           string  `json:"reason"`
}

// PricingCalculation is the immutable result of one pricing run.
type PricingCalculation struct {
	BasePrice    float64             `json:"base_price"`
	Adjustments  []AppliedAdjustment `json:"adjustments"`
	FinalPrice   float64             `json:"final_price"`
	AppliedRules []string            `json:"applied_rules"`
	Breakdown    string              `json:"breakdown"`
}

// SlotPrice is one priced time slot inside a forecast.
type SlotPrice struct {
	Date  time.Time `json:"date"`
	Time  string    `json:"time"`
	Price float64   `json:"price"`
}

// DayForecast groups the priced slots of a single day.
type DayForecast struct {
	Date  time.Time   `json:"date"`
	Slots []SlotPrice `json:"slots"`
}

// Recommendation summarises one day's slot prices: the cheapest slot,
// the potential savings against the most expensive slot, and the split of
// slots into peak (above the day mean) and off-peak (at or below it).
type Recommendation struct {
	Date         time.Time   `json:"date"`
	BestValue    SlotPrice   `json:"best_value"`
	Savings      float64     `json:"savings"`
	PeakSlots    []SlotPrice `json:"peak_slots"`
	OffPeakSlots []SlotPrice `json:"off_peak_slots"`
}
