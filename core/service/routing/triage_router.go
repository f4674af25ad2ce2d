// Package routing implements the forwarding decision.
package routing

import (
	"context"
	"sync"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"
	"triage_server/pkg/logger"
)

// categoryMapping maps inquiry categories to forwarding-table keys.
var categoryMapping = map[string]string{
	domain.CategorySales:     domain.ForwardSales,
	domain.CategorySupport:   domain.ForwardSupport,
	domain.CategoryTechnical: domain.ForwardTechnical,
	domain.CategoryExecutive: domain.ForwardExecutive,
	domain.CategoryHR:        domain.ForwardHR,
}

// Router picks exactly one destination for an inquiry. It holds an
// immutable snapshot of the forwarding table; Reload swaps the
// snapshot so concurrent routing never sees a torn table.
type Router struct {
	repo           out.ForwardingRepository
	supportAddress string

	mu    sync.RWMutex
	table *domain.ForwardingTable
}

// NewRouter creates a router. supportAddress is the last-resort
// destination; an empty value disables the final fallback.
func NewRouter(repo out.ForwardingRepository, supportAddress string) *Router {
	return &Router{
		repo:           repo,
		supportAddress: supportAddress,
		table:          domain.NewForwardingTable(nil),
	}
}

// Reload fetches the rules and swaps in a fresh snapshot.
func (r *Router) Reload(ctx context.Context) error {
	rules, err := r.repo.LoadRules(ctx)
	if err != nil {
		return err
	}
	table := domain.NewForwardingTable(rules)

	r.mu.Lock()
	r.table = table
	r.mu.Unlock()

	logger.Info("Forwarding table reloaded: %d rules", len(rules))
	return nil
}

// Table returns the current snapshot.
func (r *Router) Table() *domain.ForwardingTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

// InquiryType maps an analysis to its forwarding-table key. High
// urgency overrides the category mapping entirely.
func (r *Router) InquiryType(a *domain.IntentAnalysis) string {
	if a.Urgency == domain.UrgencyHigh {
		return domain.ForwardUrgent
	}
	if key, ok := categoryMapping[a.Category]; ok {
		return key
	}
	return domain.ForwardSupport
}

// Recipient resolves the forwarding destination. Returns "" with no
// error when the analysis does not require forwarding. The fallback
// chain is evaluated strictly in order: forwarding table, then the
// first resolved contact, then the generic support address. An empty
// result is a configuration gap and surfaces as RECIPIENT_UNRESOLVED;
// it will recur until the table is fixed.
func (r *Router) Recipient(a *domain.IntentAnalysis, info *domain.ResponseInfo) (string, error) {
	if !a.RequiresForwarding {
		return "", nil
	}

	inquiryType := r.InquiryType(a)

	if addr := r.Table().BestFor(inquiryType); addr != "" {
		return addr, nil
	}

	if info != nil {
		if contact := info.PrimaryContact(); contact != nil && contact.Email != "" {
			return contact.Email, nil
		}
	}

	if r.supportAddress != "" {
		return r.supportAddress, nil
	}

	return "", apperr.RecipientUnresolved(inquiryType)
}
