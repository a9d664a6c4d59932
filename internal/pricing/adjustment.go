package pricing

import "github.com/dinehq/pricingservice/internal/domain"

// adjustmentDelta returns the signed amount the adjustment adds to the
// running price. Multipliers are expressed as deltas rather than replacement
// prices so every rule's contribution stays additive in the breakdown.
func adjustmentDelta(currentPrice float64, adj domain.PriceAdjustment) float64 {
	switch adj.Type {
	case domain.AdjustmentPercentage:
		return currentPrice * adj.Value / 100
	case domain.AdjustmentFixedAmount:
		return adj.Value
	case domain.AdjustmentMultiplier:
		return currentPrice*adj.Value - currentPrice
	default:
		return 0
	}
}

// clampPrice bounds the running price to the adjustment's [min, max] range.
// Nil bounds are open-ended.
func clampPrice(price float64, adj domain.PriceAdjustment) float64 {
	if adj.MinPrice != nil && price < *adj.MinPrice {
		price = *adj.MinPrice
	}
	if adj.MaxPrice != nil && price > *adj.MaxPrice {
		price = *adj.MaxPrice
	}
	return price
}
