package pricing

import (
	"testing"

	"github.com/dinehq/pricingservice/internal/domain"
)

func TestAdjustmentDelta(t *testing.T) {
	cases := []struct {
		name  string
		price float64
		adj   domain.PriceAdjustment
		want  float64
	}{
		{"percentage surcharge", 30, domain.PriceAdjustment{Type: domain.AdjustmentPercentage, Value: 25}, 7.5},
		{"percentage discount", 20, domain.PriceAdjustment{Type: domain.AdjustmentPercentage, Value: -15}, -3},
		{"fixed amount", 20, domain.PriceAdjustment{Type: domain.AdjustmentFixedAmount, Value: 10}, 10},
		{"fixed negative", 20, domain.PriceAdjustment{Type: domain.AdjustmentFixedAmount, Value: -5}, -5},
		{"multiplier as delta", 20, domain.PriceAdjustment{Type: domain.AdjustmentMultiplier, Value: 1.5}, 10},
		{"multiplier below one", 20, domain.PriceAdjustment{Type: domain.AdjustmentMultiplier, Value: 0.5}, -10},
		{"unknown type", 20, domain.PriceAdjustment{Type: "teleport", Value: 3}, 0},
	}
	for _, c := range cases {
		if got := adjustmentDelta(c.price, c.adj); got != c.want {
			t.Fatalf("%s: adjustmentDelta(%v) = %v, want %v", c.name, c.price, got, c.want)
		}
	}
}

func TestClampPrice(t *testing.T) {
	min := 15.0
	max := 50.0

	if got := clampPrice(10, domain.PriceAdjustment{MinPrice: &min}); got != 15 {
		t.Fatalf("below min: got %v, want 15", got)
	}
	if got := clampPrice(80, domain.PriceAdjustment{MaxPrice: &max}); got != 50 {
		t.Fatalf("above max: got %v, want 50", got)
	}
	if got := clampPrice(30, domain.PriceAdjustment{MinPrice: &min, MaxPrice: &max}); got != 30 {
		t.Fatalf("inside bounds: got %v, want 30", got)
	}
	// Nil bounds are open-ended.
	if got := clampPrice(-100, domain.PriceAdjustment{}); got != -100 {
		t.Fatalf("open bounds: got %v, want -100", got)
	}
}
