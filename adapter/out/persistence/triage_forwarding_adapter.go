package persistence

import (
	"context"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"

	"github.com/jmoiron/sqlx"
)

// ForwardingAdapter implements out.ForwardingRepository using
// PostgreSQL, falling back to the built-in table in static mode.
type ForwardingAdapter struct {
	db   *sqlx.DB
	seed []domain.ForwardingRule
}

// NewForwardingAdapter creates a new ForwardingAdapter.
func NewForwardingAdapter(db *sqlx.DB) *ForwardingAdapter {
	return &ForwardingAdapter{db: db, seed: SeedForwardingRules()}
}

// LoadRules returns the full rule table. Callers snapshot the result;
// the adapter never mutates returned slices.
func (a *ForwardingAdapter) LoadRules(ctx context.Context) ([]domain.ForwardingRule, error) {
	if a.db == nil {
		rules := make([]domain.ForwardingRule, len(a.seed))
		copy(rules, a.seed)
		return rules, nil
	}

	query := `SELECT inquiry_type, address, rank FROM forwarding_rules ORDER BY inquiry_type, rank`

	var rules []domain.ForwardingRule
	if err := a.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, apperr.DatabaseError("load forwarding rules", err)
	}
	return rules, nil
}

// Seed creates the table if needed and upserts the built-in rules.
// Static mode is a no-op.
func (a *ForwardingAdapter) Seed(ctx context.Context) error {
	if a.db == nil {
		return nil
	}

	schema := `
		CREATE TABLE IF NOT EXISTS forwarding_rules (
			inquiry_type TEXT NOT NULL,
			address      TEXT NOT NULL,
			rank         INT  NOT NULL DEFAULT 0,
			PRIMARY KEY (inquiry_type, rank)
		)
	`
	if _, err := a.db.ExecContext(ctx, schema); err != nil {
		return apperr.DatabaseError("create forwarding_rules table", err)
	}

	query := `
		INSERT INTO forwarding_rules (inquiry_type, address, rank)
		VALUES ($1, $2, $3)
		ON CONFLICT (inquiry_type, rank) DO UPDATE SET
			address = EXCLUDED.address
	`

	for _, rule := range a.seed {
		if _, err := a.db.ExecContext(ctx, query, rule.InquiryType, rule.Address, rule.Rank); err != nil {
			return apperr.DatabaseError("seed forwarding rules", err)
		}
	}
	return nil
}

// Ensure ForwardingAdapter implements out.ForwardingRepository
var _ out.ForwardingRepository = (*ForwardingAdapter)(nil)
