package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dinehq/pricingservice/internal/config"
	"github.com/dinehq/pricingservice/internal/domain"
	sharedlog "github.com/dinehq/pricingservice/internal/log"
	"github.com/dinehq/pricingservice/internal/repo"
	"github.com/dinehq/pricingservice/internal/repo/postgres"
	"github.com/dinehq/pricingservice/internal/retry"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: import-pricing-rules <rules-json-file>")
	}

	rulesFilePath := os.Args[1]

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if err := sharedlog.Init(cfg.Log.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx := context.Background()

	// Initialize store
	store, err := postgres.NewStore(cfg.Database.GetDSN())
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	// Read and parse rules file
	rules, err := readRulesFromJSON(rulesFilePath)
	if err != nil {
		log.Fatalf("Failed to read pricing rules: %v", err)
	}

	fmt.Printf("Loaded %d pricing rules from %s\n", len(rules), rulesFilePath)

	// Import rules to database
	if err := importRules(ctx, store.Rules(), rules); err != nil {
		log.Fatalf("Failed to import pricing rules: %v", err)
	}

	fmt.Println("Successfully imported pricing rules to database")
}

func readRulesFromJSON(filePath string) ([]domain.PricingRule, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}

	var rules []domain.PricingRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	now := time.Now()
	for i := range rules {
		if rules[i].ID == "" {
			rules[i].ID = uuid.NewString()
		}
		if rules[i].CreatedAt.IsZero() {
			rules[i].CreatedAt = now
		}
		rules[i].UpdatedAt = now
		if err := rules[i].Validate(); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rules[i].Name, err)
		}
	}
	return rules, nil
}

// importRules upserts each rule: create first, fall back to update when the
// rule already exists. Transient database errors are retried with backoff.
func importRules(ctx context.Context, ruleRepo repo.RuleRepository, rules []domain.PricingRule) error {
	logger := sharedlog.L(ctx)
	retryCfg := retry.DefaultConfig()

	for _, rule := range rules {
		rule := rule
		err := retry.Do(ctx, retryCfg, logger, func() error {
			_, err := ruleRepo.CreateRule(ctx, rule)
			if de := domain.GetDomainError(err); de != nil && de.Code == domain.ErrCodeAlreadyExists {
				_, err = ruleRepo.UpdateRule(ctx, rule)
			}
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to import rule %q: %w", rule.Name, err)
		}
		fmt.Printf("Imported rule %q (priority %d)\n", rule.Name, rule.Priority)
	}
	return nil
}
