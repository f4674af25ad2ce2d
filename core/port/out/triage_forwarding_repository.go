package out

import (
	"context"

	"triage_server/core/domain"
)

// ForwardingRepository loads the routing rule table. The table is read
// once into an immutable snapshot; Reload produces a fresh snapshot
// for administrative updates.
type ForwardingRepository interface {
	LoadRules(ctx context.Context) ([]domain.ForwardingRule, error)
}
