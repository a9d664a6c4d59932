package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinehq/pricingservice/internal/domain"
	"github.com/dinehq/pricingservice/internal/repo"
)

// Store represents the PostgreSQL store implementation
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new PostgreSQL store
func NewStore(connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: pool}, nil
}

// NewStoreWithPool creates a new PostgreSQL store with an existing pool
func NewStoreWithPool(pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool cannot be nil")
	}
	return &Store{db: pool}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// Rules returns the rule repository implementation
func (s *Store) Rules() repo.RuleRepository {
	return &ruleRepository{store: s}
}

// Occupancy returns the occupancy provider implementation
func (s *Store) Occupancy() repo.OccupancyProvider {
	return &occupancyProvider{store: s}
}

// SpecialDates returns the special-date provider implementation
func (s *Store) SpecialDates() repo.SpecialDateProvider {
	return &specialDateProvider{store: s}
}

// ruleRepository implements repo.RuleRepository. Conditions and adjustment
// are stored as JSONB documents, keeping the polymorphic condition value
// shapes intact across the round trip.
type ruleRepository struct {
	store *Store
}

const ruleColumns = `id, name, description, active, priority, conditions, adjustment, valid_from, valid_until, created_at, updated_at`

func (r *ruleRepository) ListRules(ctx context.Context) ([]domain.PricingRule, error) {
	// Priority ordering here is a convenience for admin listings; the engine
	// re-sorts its snapshot and relies on created_at as the stable tie-break.
	rows, err := r.store.db.Query(ctx,
		`SELECT `+ruleColumns+` FROM pricing_rules ORDER BY priority DESC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.PricingRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pricing rules: %w", err)
	}
	return rules, nil
}

func (r *ruleRepository) GetRule(ctx context.Context, id string) (domain.PricingRule, error) {
	row := r.store.db.QueryRow(ctx,
		`SELECT `+ruleColumns+` FROM pricing_rules WHERE id = $1`, id)
	rule, err := scanRule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PricingRule{}, domain.NewNotFoundError("pricing rule", id)
		}
		return domain.PricingRule{}, err
	}
	return rule, nil
}

func (r *ruleRepository) CreateRule(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error) {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	conditions, adjustment, err := marshalRuleDocs(rule)
	if err != nil {
		return domain.PricingRule{}, err
	}

	row := r.store.db.QueryRow(ctx, `
		INSERT INTO pricing_rules (id, name, description, active, priority, conditions, adjustment, valid_from, valid_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING created_at, updated_at`,
		rule.ID, rule.Name, rule.Description, rule.Active, rule.Priority,
		conditions, adjustment, rule.ValidFrom, rule.ValidUntil)
	if err := row.Scan(&rule.CreatedAt, &rule.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.PricingRule{}, domain.NewAlreadyExistsError("pricing rule", rule.ID)
		}
		return domain.PricingRule{}, fmt.Errorf("failed to create pricing rule: %w", err)
	}
	return rule, nil
}

// isUniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505). Callers upserting rules rely on this being
// surfaced as an ALREADY_EXISTS domain error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *ruleRepository) UpdateRule(ctx context.Context, rule domain.PricingRule) (domain.PricingRule, error) {
	conditions, adjustment, err := marshalRuleDocs(rule)
	if err != nil {
		return domain.PricingRule{}, err
	}

	row := r.store.db.QueryRow(ctx, `
		UPDATE pricing_rules
		SET name = $2, description = $3, active = $4, priority = $5,
		    conditions = $6, adjustment = $7, valid_from = $8, valid_until = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		rule.ID, rule.Name, rule.Description, rule.Active, rule.Priority,
		conditions, adjustment, rule.ValidFrom, rule.ValidUntil)
	if err := row.Scan(&rule.CreatedAt, &rule.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PricingRule{}, domain.NewNotFoundError("pricing rule", rule.ID)
		}
		return domain.PricingRule{}, fmt.Errorf("failed to update pricing rule: %w", err)
	}
	return rule, nil
}

func (r *ruleRepository) DeleteRule(ctx context.Context, id string) error {
	if _, err := r.store.db.Exec(ctx, `DELETE FROM pricing_rules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete pricing rule: %w", err)
	}
	return nil
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (domain.PricingRule, error) {
	var (
		rule       domain.PricingRule
		conditions []byte
		adjustment []byte
	)
	err := row.Scan(&rule.ID, &rule.Name, &rule.Description, &rule.Active, &rule.Priority,
		&conditions, &adjustment, &rule.ValidFrom, &rule.ValidUntil, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PricingRule{}, err
		}
		return domain.PricingRule{}, fmt.Errorf("failed to scan pricing rule: %w", err)
	}
	if err := json.Unmarshal(conditions, &rule.Conditions); err != nil {
		return domain.PricingRule{}, fmt.Errorf("failed to decode rule conditions: %w", err)
	}
	if err := json.Unmarshal(adjustment, &rule.Adjustment); err != nil {
		return domain.PricingRule{}, fmt.Errorf("failed to decode rule adjustment: %w", err)
	}
	return rule, nil
}

func marshalRuleDocs(rule domain.PricingRule) ([]byte, []byte, error) {
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode rule conditions: %w", err)
	}
	adjustment, err := json.Marshal(rule.Adjustment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode rule adjustment: %w", err)
	}
	return conditions, adjustment, nil
}

// occupancyProvider reads projected occupancy from the slot_occupancy table,
// which the booking system maintains. A missing row means an empty slot.
type occupancyProvider struct {
	store *Store
}

func (p *occupancyProvider) GetOccupancyRate(ctx context.Context, date time.Time, timeSlot string) (float64, error) {
	var rate float64
	err := p.store.db.QueryRow(ctx,
		`SELECT rate FROM slot_occupancy WHERE date = $1 AND time_slot = $2`,
		date.Format("2006-01-02"), timeSlot).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get occupancy rate: %w", err)
	}
	return rate, nil
}

// specialDateProvider reads the special_dates calendar.
type specialDateProvider struct {
	store *Store
}

func (p *specialDateProvider) IsSpecialDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := p.store.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM special_dates WHERE date = $1)`,
		date.Format("2006-01-02")).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check special date: %w", err)
	}
	return exists, nil
}

func (p *specialDateProvider) GetSpecialDate(ctx context.Context, date time.Time) (*domain.SpecialDate, error) {
	var sd domain.SpecialDate
	err := p.store.db.QueryRow(ctx,
		`SELECT date, name FROM special_dates WHERE date = $1`,
		date.Format("2006-01-02")).Scan(&sd.Date, &sd.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get special date: %w", err)
	}
	return &sd, nil
}
