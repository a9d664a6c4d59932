package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dinehq/pricingservice/internal/domain"
)

type failingRuleStore struct{}

func (failingRuleStore) ListRules(ctx context.Context) ([]domain.PricingRule, error) {
	return nil, errors.New("connection refused")
}
func (failingRuleStore) GetRule(ctx context.Context, id string) (domain.PricingRule, error) {
	return domain.PricingRule{}, errors.New("connection refused")
}
func (failingRuleStore) CreateRule(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error) {
	return domain.PricingRule{}, errors.New("connection refused")
}
func (failingRuleStore) UpdateRule(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error) {
	return domain.PricingRule{}, errors.New("connection refused")
}
func (failingRuleStore) DeleteRule(ctx context.Context, id string) error {
	return errors.New("connection refused")
}

type failingOccupancyProvider struct{}

func (failingOccupancyProvider) GetOccupancyRate(ctx context.Context, date time.Time, timeSlot string) (float64, error) {
	return 0, errors.New("occupancy service down")
}

func newTestEngine(t *testing.T, rules ...domain.PricingRule) (*Engine, *MemoryRuleStore, *StaticOccupancyProvider, *StaticSpecialDateProvider) {
	t.Helper()
	store := NewMemoryRuleStore()
	for _, r := range rules {
		if _, err := store.CreateRule(context.Background(), r); err != nil {
			t.Fatalf("seed rule %s: %v", r.ID, err)
		}
	}
	occupancy := NewStaticOccupancyProvider()
	special := NewStaticSpecialDateProvider()
	engine := NewEngine(store, occupancy, special, NewCalculator(0)).
		WithClock(func() time.Time { return saturday.AddDate(0, 0, -3) })
	return engine, store, occupancy, special
}

func TestEngine_CalculatePrice(t *testing.T) {
	engine, _, _, _ := newTestEngine(t, weekendPremiumRule(), peakHourRule())

	got := engine.CalculatePrice(context.Background(), 20, domain.BookingRequest{Date: saturday, Time: "7:00 PM", PartySize: 2})
	if got.FinalPrice != 40 {
		t.Fatalf("final price: got %v, want 40", got.FinalPrice)
	}
}

func TestEngine_OccupancyRuleUsesProvider(t *testing.T) {
	highDemand := domain.PricingRule{
		ID: "high-demand", Name: "High Demand", Active: true,
		Conditions: []domain.PricingCondition{
			{Type: domain.ConditionOccupancy, Operator: domain.OperatorGreaterThan, Value: float64(80)},
		},
		Adjustment: domain.PriceAdjustment{Type: domain.AdjustmentPercentage, Value: 50},
	}
	engine, _, occupancy, _ := newTestEngine(t, highDemand)
	booking := domain.BookingRequest{Date: saturday, Time: "7:00 PM", PartySize: 2}

	// Below threshold: base price stands.
	occupancy.SetRate(saturday, "7:00 PM", 50)
	if got := engine.CalculatePrice(context.Background(), 20, booking); got.FinalPrice != 20 {
		t.Fatalf("low occupancy: got %v, want 20", got.FinalPrice)
	}

	// Above threshold: 20 + 50% = 30.
	occupancy.SetRate(saturday, "7:00 PM", 90)
	if got := engine.CalculatePrice(context.Background(), 20, booking); got.FinalPrice != 30 {
		t.Fatalf("high occupancy: got %v, want 30", got.FinalPrice)
	}
}

func TestEngine_FailingOccupancyProviderDegrades(t *testing.T) {
	highDemand := domain.PricingRule{
		ID: "high-demand", Name: "High Demand", Active: true,
		Conditions: []domain.PricingCondition{
			{Type: domain.ConditionOccupancy, Operator: domain.OperatorGreaterThan, Value: float64(80)},
		},
		Adjustment: domain.PriceAdjustment{Type: domain.AdjustmentPercentage, Value: 50},
	}
	store := NewMemoryRuleStore()
	if _, err := store.CreateRule(context.Background(), highDemand); err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(store, failingOccupancyProvider{}, NewStaticSpecialDateProvider(), NewCalculator(0)).
		WithClock(func() time.Time { return saturday.AddDate(0, 0, -3) })

	// The occupancy condition cannot match, so the rule is skipped and the
	// booking is priced at base.
	got := engine.CalculatePrice(context.Background(), 20, domain.BookingRequest{Date: saturday, Time: "7:00 PM", PartySize: 2})
	if got.FinalPrice != 20 {
		t.Fatalf("final price: got %v, want 20", got.FinalPrice)
	}
	if len(got.AppliedRules) != 0 {
		t.Fatalf("no rule should apply, got %v", got.AppliedRules)
	}
}

func TestEngine_FailingRuleStoreDegradesToBasePrice(t *testing.T) {
	engine := NewEngine(failingRuleStore{}, NewStaticOccupancyProvider(), NewStaticSpecialDateProvider(), NewCalculator(0))

	got := engine.CalculatePrice(context.Background(), 20, domain.BookingRequest{Date: saturday, Time: "7:00 PM", PartySize: 2})
	if got.FinalPrice != 20 {
		t.Fatalf("final price: got %v, want 20", got.FinalPrice)
	}
}

func TestEngine_SpecialDateRule(t *testing.T) {
	valentines := domain.PricingRule{
		ID: "valentines", Name: "Special Day", Active: true,
		Conditions: []domain.PricingCondition{
			{Type: domain.ConditionSpecialDate, Operator: domain.OperatorEquals, Value: true},
		},
		Adjustment: domain.PriceAdjustment{Type: domain.AdjustmentFixedAmount, Value: 15},
	}
	engine, _, _, special := newTestEngine(t, valentines)
	booking := domain.BookingRequest{Date: saturday, Time: "7:00 PM", PartySize: 2}

	if got := engine.CalculatePrice(context.Background(), 20, booking); got.FinalPrice != 20 {
		t.Fatalf("ordinary day: got %v, want 20", got.FinalPrice)
	}

	special.Add(domain.SpecialDate{Date: saturday, Name: "Anniversary Gala"})
	if got := engine.CalculatePrice(context.Background(), 20, booking); got.FinalPrice != 35 {
		t.Fatalf("special day: got %v, want 35", got.FinalPrice)
	}
}
