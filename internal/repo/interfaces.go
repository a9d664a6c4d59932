package repo

import (
	"context"
	"time"

	"github.com/dinehq/pricingservice/internal/domain"
)

// RuleRepository defines storage for pricing rules. Filtering to active rules
// within their validity window is the engine's responsibility, not the
// repository's; ListRules returns every stored rule in a stable order.
type RuleRepository interface {
	// ListRules returns all rules in stable (insertion/priority-source) order.
	ListRules(ctx context.Context) ([]domain.PricingRule, error)

	// GetRule returns a rule by ID.
	GetRule(ctx context.Context, id string) (domain.PricingRule, error)

	// CreateRule stores a new rule.
	CreateRule(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error)

	// UpdateRule replaces a stored rule.
	UpdateRule(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error)

	// DeleteRule removes a rule.
	DeleteRule(ctx context.Context, id string) error
}

// OccupancyProvider supplies the projected occupancy percentage for a slot.
type OccupancyProvider interface {
	// GetOccupancyRate returns a percentage in [0,100] for (date, time).
	GetOccupancyRate(ctx context.Context, date time.Time, timeSlot string) (float64, error)
}

// SpecialDateProvider supplies special-date facts for a calendar date.
type SpecialDateProvider interface {
	// IsSpecialDate reports whether the date is marked special.
	IsSpecialDate(ctx context.Context, date time.Time) (bool, error)

	// GetSpecialDate returns the special-date record, or nil when the date
	// is not special.
	GetSpecialDate(ctx context.Context, date time.Time) (*domain.SpecialDate, error)
}
