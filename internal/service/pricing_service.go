package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dinehq/pricingservice/internal/config"
	"github.com/dinehq/pricingservice/internal/domain"
	"github.com/dinehq/pricingservice/internal/events"
	"github.com/dinehq/pricingservice/internal/log"
	"github.com/dinehq/pricingservice/internal/metrics"
	"github.com/dinehq/pricingservice/internal/pricing"
	"github.com/dinehq/pricingservice/internal/repo"
	"github.com/dinehq/pricingservice/internal/tracing"
)

// PricingService is the application surface over the pricing engine: price
// calculation for bookings, forecasting, and rule administration. Rule writes
// are validated here so misconfigured condition shapes are rejected at the
// door instead of silently never matching.
type PricingService struct {
	engine    *pricing.Engine
	rules     repo.RuleRepository
	publisher events.Publisher
	cfg       config.PricingConfig
}

// NewPricingService creates the service around its collaborators.
func NewPricingService(engine *pricing.Engine, rules repo.RuleRepository,
	publisher events.Publisher, cfg config.PricingConfig) *PricingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &PricingService{
		engine:    engine,
		rules:     rules,
		publisher: publisher,
		cfg:       cfg,
	}
}

// CalculatePrice prices one booking from the configured default deposit.
// Collaborator failures degrade inside the engine; the only error this
// returns is input validation.
func (s *PricingService) CalculatePrice(ctx context.Context, booking domain.BookingRequest) (*domain.PricingCalculation, error) {
	if err := booking.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "PricingService.CalculatePrice",
		trace.WithAttributes(
			attribute.String("booking.date", booking.Date.Format("2006-01-02")),
			attribute.String("booking.time", booking.Time),
			attribute.Int("booking.party_size", booking.PartySize),
		))
	defer span.End()

	start := time.Now()
	calc := s.engine.CalculatePrice(ctx, s.cfg.DefaultDeposit, booking)
	metrics.RecordCalculation(start, len(calc.AppliedRules), calc.FinalPrice)

	span.SetAttributes(
		attribute.Float64("pricing.final_price", calc.FinalPrice),
		attribute.Int("pricing.rules_applied", len(calc.AppliedRules)),
	)

	log.Debug(ctx, "Price calculated",
		zap.Float64("base_price", calc.BasePrice),
		zap.Float64("final_price", calc.FinalPrice),
		zap.Strings("applied_rules", calc.AppliedRules))

	return &calc, nil
}

// GetActivePricingRules returns the rules the engine would consider right
// now: active and inside their validity window.
func (s *PricingService) GetActivePricingRules(ctx context.Context) ([]domain.PricingRule, error) {
	all, err := s.rules.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	active := make([]domain.PricingRule, 0, len(all))
	for _, rule := range all {
		if rule.Active && rule.ValidAt(now) {
			active = append(active, rule)
		}
	}
	return active, nil
}

// CreatePricingRule validates and stores a new rule, then announces it.
func (s *PricingService) CreatePricingRule(ctx context.Context, rule domain.PricingRule) (*domain.PricingRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt

	created, err := s.rules.CreateRule(ctx, rule)
	if err != nil {
		return nil, err
	}
	metrics.RuleChanges.WithLabelValues("create").Inc()

	s.publishRuleEvent(ctx, events.TypeRuleCreated, created)

	log.Info(ctx, "Pricing rule created",
		zap.String("rule_id", created.ID),
		zap.String("name", created.Name),
		zap.Int("priority", created.Priority))

	return &created, nil
}

// GetPricingRule returns one rule by ID.
func (s *PricingService) GetPricingRule(ctx context.Context, id string) (*domain.PricingRule, error) {
	if id == "" {
		return nil, domain.NewInvalidInputError("rule id is required", "")
	}
	rule, err := s.rules.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// UpdatePricingRuleParams carries a partial rule update; nil fields keep the
// stored value.
type UpdatePricingRuleParams struct {
	Name        *string                    `json:"name,omitempty"`
	Description *string                    `json:"description,omitempty"`
	Active      *bool                      `json:"active,omitempty"`
	Priority    *int                       `json:"priority,omitempty"`
	Conditions  *[]domain.PricingCondition `json:"conditions,omitempty"`
	Adjustment  *domain.PriceAdjustment    `json:"adjustment,omitempty"`
	ValidFrom   *time.Time                 `json:"valid_from,omitempty"`
	ValidUntil  *time.Time                 `json:"valid_until,omitempty"`
}

// UpdatePricingRule applies a partial update to a stored rule. The merged
// rule is re-validated as a whole before it is written back.
func (s *PricingService) UpdatePricingRule(ctx context.Context, id string, params UpdatePricingRuleParams) (*domain.PricingRule, error) {
	if id == "" {
		return nil, domain.NewInvalidInputError("rule id is required", "")
	}

	rule, err := s.rules.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		rule.Name = *params.Name
	}
	if params.Description != nil {
		rule.Description = *params.Description
	}
	if params.Active != nil {
		rule.Active = *params.Active
	}
	if params.Priority != nil {
		rule.Priority = *params.Priority
	}
	if params.Conditions != nil {
		rule.Conditions = *params.Conditions
	}
	if params.Adjustment != nil {
		rule.Adjustment = *params.Adjustment
	}
	if params.ValidFrom != nil {
		rule.ValidFrom = params.ValidFrom
	}
	if params.ValidUntil != nil {
		rule.ValidUntil = params.ValidUntil
	}
	rule.UpdatedAt = time.Now()

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.rules.UpdateRule(ctx, rule)
	if err != nil {
		return nil, err
	}
	metrics.RuleChanges.WithLabelValues("update").Inc()

	s.publishRuleEvent(ctx, events.TypeRuleUpdated, updated)

	log.Info(ctx, "Pricing rule updated",
		zap.String("rule_id", updated.ID),
		zap.String("name", updated.Name))

	return &updated, nil
}

// GetPricingForecast prices the canonical slots for each day in the range.
func (s *PricingService) GetPricingForecast(ctx context.Context, start, end time.Time, partySize int) ([]domain.DayForecast, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.NewInvalidInputError("forecast range is required", "")
	}
	if end.Before(start) {
		return nil, domain.NewInvalidInputError("forecast range is inverted", "")
	}
	if partySize <= 0 {
		return nil, domain.NewInvalidInputError("party size must be positive", "")
	}

	ctx, span := tracing.StartSpan(ctx, "PricingService.GetPricingForecast")
	defer span.End()

	return s.engine.Forecast(ctx, s.cfg.DefaultDeposit, start, end, partySize), nil
}

// GetRecommendations derives the best-value and peak/off-peak summary for
// one day.
func (s *PricingService) GetRecommendations(ctx context.Context, date time.Time, partySize int) (*domain.Recommendation, error) {
	if date.IsZero() {
		return nil, domain.NewInvalidInputError("date is required", "")
	}
	if partySize <= 0 {
		return nil, domain.NewInvalidInputError("party size must be positive", "")
	}

	ctx, span := tracing.StartSpan(ctx, "PricingService.GetRecommendations")
	defer span.End()

	rec := s.engine.Recommendations(ctx, s.cfg.DefaultDeposit, date, partySize)
	return &rec, nil
}

// publishRuleEvent announces a rule change. Publishing is best-effort: a
// broker outage must not roll back the rule write.
func (s *PricingService) publishRuleEvent(ctx context.Context, eventType string, rule domain.PricingRule) {
	if err := s.publisher.Publish(ctx, events.NewRuleEvent(eventType, rule)); err != nil {
		log.Warn(ctx, "Failed to publish rule event",
			zap.String("type", eventType),
			zap.String("rule_id", rule.ID),
			zap.Error(err))
	}
}
