package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/dinehq/pricingservice/internal/domain"
)

// MemoryRuleStore is an in-memory implementation of repo.RuleRepository used
// in tests and development mode. Listing preserves insertion order so the
// composer's documented tie-break (snapshot order for equal priorities) is
// deterministic.
type MemoryRuleStore struct {
	mu    sync.RWMutex
	rules map[string]domain.PricingRule
	order []string
}

func NewMemoryRuleStore() *MemoryRuleStore {
	return &MemoryRuleStore{
		rules: make(map[string]domain.PricingRule),
		order: make([]string, 0),
	}
}

func (s *MemoryRuleStore) ListRules(ctx context.Context) ([]domain.PricingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PricingRule, 0, len(s.order))
	for _, id := range s.order {
		if r, exists := s.rules[id]; exists {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryRuleStore) GetRule(ctx context.Context, id string) (domain.PricingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[id]
	if !ok {
		return domain.PricingRule{}, domain.NewNotFoundError("pricing rule", id)
	}
	return r, nil
}

func (s *MemoryRuleStore) CreateRule(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[rule.ID]; exists {
		return domain.PricingRule{}, domain.NewAlreadyExistsError("pricing rule", rule.ID)
	}
	s.order = append(s.order, rule.ID)
	s.rules[rule.ID] = rule
	return rule, nil
}

func (s *MemoryRuleStore) UpdateRule(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[rule.ID]; !exists {
		return domain.PricingRule{}, domain.NewNotFoundError("pricing rule", rule.ID)
	}
	s.rules[rule.ID] = rule
	return rule, nil
}

func (s *MemoryRuleStore) DeleteRule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, orderID := range s.order {
		if orderID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	delete(s.rules, id)
	return nil
}

// StaticOccupancyProvider serves occupancy rates from a fixed map keyed by
// date and time slot. Unknown slots report zero occupancy.
type StaticOccupancyProvider struct {
	mu    sync.RWMutex
	rates map[string]float64
}

func NewStaticOccupancyProvider() *StaticOccupancyProvider {
	return &StaticOccupancyProvider{rates: make(map[string]float64)}
}

func (p *StaticOccupancyProvider) SetRate(date time.Time, timeSlot string, rate float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rates[occupancyKey(date, timeSlot)] = rate
}

func (p *StaticOccupancyProvider) GetOccupancyRate(ctx context.Context, date time.Time, timeSlot string) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rates[occupancyKey(date, timeSlot)], nil
}

func occupancyKey(date time.Time, timeSlot string) string {
	return date.Format("2006-01-02") + "|" + timeSlot
}

// StaticSpecialDateProvider serves special dates from a fixed map keyed by
// calendar date.
type StaticSpecialDateProvider struct {
	mu    sync.RWMutex
	dates map[string]domain.SpecialDate
}

func NewStaticSpecialDateProvider() *StaticSpecialDateProvider {
	return &StaticSpecialDateProvider{dates: make(map[string]domain.SpecialDate)}
}

func (p *StaticSpecialDateProvider) Add(d domain.SpecialDate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dates[d.Date.Format("2006-01-02")] = d
}

func (p *StaticSpecialDateProvider) IsSpecialDate(ctx context.Context, date time.Time) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.dates[date.Format("2006-01-02")]
	return ok, nil
}

func (p *StaticSpecialDateProvider) GetSpecialDate(ctx context.Context, date time.Time) (*domain.SpecialDate, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.dates[date.Format("2006-01-02")]
	if !ok {
		return nil, nil
	}
	return &d, nil
}
