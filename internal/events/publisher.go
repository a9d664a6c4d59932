package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dinehq/pricingservice/internal/domain"
)

// Event types emitted by the pricing service.
const (
	TypeRuleCreated = "pricing.rule.created"
	TypeRuleUpdated = "pricing.rule.updated"
)

// Event is the envelope published for rule lifecycle changes. Downstream
// consumers (admin audit, cache invalidation) key on Type and RuleID.
type Event struct {
	ID        string             `json:"id"`
	Type      string             `json:"type"`
	RuleID    string             `json:"rule_id"`
	Rule      domain.PricingRule `json:"rule"`
	Timestamp time.Time          `json:"timestamp"`
	Version   int                `json:"version"`
}

// Publisher defines the interface for publishing rule events.
type Publisher interface {
	// Publish publishes an event.
	Publish(ctx context.Context, event Event) error

	// Close closes the publisher.
	Close() error
}

// NewRuleEvent builds an event envelope for a rule change.
func NewRuleEvent(eventType string, rule domain.PricingRule) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RuleID:    rule.ID,
		Rule:      rule,
		Timestamp: time.Now().UTC(),
		Version:   1,
	}
}

// NoopPublisher discards events. Used in tests and when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
