package routing

import (
	"context"
	"testing"

	"triage_server/core/domain"
	"triage_server/pkg/apperr"
)

type fakeForwardingRepo struct {
	rules []domain.ForwardingRule
	err   error
}

func (f *fakeForwardingRepo) LoadRules(_ context.Context) ([]domain.ForwardingRule, error) {
	return f.rules, f.err
}

func newRouter(t *testing.T, rules []domain.ForwardingRule, supportAddress string) *Router {
	t.Helper()
	r := NewRouter(&fakeForwardingRepo{rules: rules}, supportAddress)
	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	return r
}

func TestInquiryType(t *testing.T) {
	r := NewRouter(&fakeForwardingRepo{}, "")

	tests := []struct {
		name string
		a    domain.IntentAnalysis
		want string
	}{
		{"urgency overrides category", domain.IntentAnalysis{Urgency: domain.UrgencyHigh, Category: domain.CategorySales}, domain.ForwardUrgent},
		{"sales", domain.IntentAnalysis{Urgency: domain.UrgencyNormal, Category: domain.CategorySales}, domain.ForwardSales},
		{"hr", domain.IntentAnalysis{Urgency: domain.UrgencyNormal, Category: domain.CategoryHR}, domain.ForwardHR},
		{"executive", domain.IntentAnalysis{Urgency: domain.UrgencyNormal, Category: domain.CategoryExecutive}, domain.ForwardExecutive},
		{"unknown category defaults to support", domain.IntentAnalysis{Urgency: domain.UrgencyNormal, Category: "weird"}, domain.ForwardSupport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.InquiryType(&tt.a); got != tt.want {
				t.Errorf("InquiryType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecipient_NoForwardingRequired(t *testing.T) {
	r := newRouter(t, nil, "support@techcorp.com")

	got, err := r.Recipient(&domain.IntentAnalysis{RequiresForwarding: false}, nil)
	if err != nil || got != "" {
		t.Errorf("Recipient() = (%q, %v), want empty and nil", got, err)
	}
}

func TestRecipient_TableHit(t *testing.T) {
	r := newRouter(t, []domain.ForwardingRule{
		{InquiryType: domain.ForwardSales, Address: "ads.al@laposte.net", Rank: 0},
	}, "support@techcorp.com")

	a := &domain.IntentAnalysis{
		Category:           domain.CategorySales,
		Urgency:            domain.UrgencyNormal,
		RequiresForwarding: true,
	}
	got, err := r.Recipient(a, nil)
	if err != nil {
		t.Fatalf("Recipient() error = %v", err)
	}
	if got != "ads.al@laposte.net" {
		t.Errorf("Recipient() = %q", got)
	}
}

func TestRecipient_UrgentOverride(t *testing.T) {
	r := newRouter(t, []domain.ForwardingRule{
		{InquiryType: domain.ForwardSales, Address: "sales@techcorp.com", Rank: 0},
		{InquiryType: domain.ForwardUrgent, Address: "victor.sana@berkeley.edu", Rank: 0},
	}, "support@techcorp.com")

	a := &domain.IntentAnalysis{
		Category:           domain.CategorySales,
		Urgency:            domain.UrgencyHigh,
		RequiresForwarding: true,
	}
	got, err := r.Recipient(a, nil)
	if err != nil {
		t.Fatalf("Recipient() error = %v", err)
	}
	if got != "victor.sana@berkeley.edu" {
		t.Errorf("urgent inquiry routed to %q", got)
	}
}

func TestRecipient_ContactFallback(t *testing.T) {
	r := newRouter(t, nil, "support@techcorp.com")

	a := &domain.IntentAnalysis{
		Category:           domain.CategorySales,
		Urgency:            domain.UrgencyNormal,
		RequiresForwarding: true,
	}
	info := &domain.ResponseInfo{
		Contacts: []domain.TypedContact{
			{Type: "sales", Info: domain.ContactCard{Name: "David Rodriguez", Email: "david.rodriguez@techcorp.com"}},
			{Type: "support", Info: domain.ContactCard{Name: "Robert Kim", Email: "robert.kim@techcorp.com"}},
		},
	}

	got, err := r.Recipient(a, info)
	if err != nil {
		t.Fatalf("Recipient() error = %v", err)
	}
	if got != "david.rodriguez@techcorp.com" {
		t.Errorf("Recipient() = %q, want the first resolved contact", got)
	}
}

func TestRecipient_SupportFallback(t *testing.T) {
	r := newRouter(t, nil, "support@techcorp.com")

	a := &domain.IntentAnalysis{
		Category:           domain.CategorySales,
		Urgency:            domain.UrgencyNormal,
		RequiresForwarding: true,
	}
	got, err := r.Recipient(a, &domain.ResponseInfo{})
	if err != nil {
		t.Fatalf("Recipient() error = %v", err)
	}
	if got != "support@techcorp.com" {
		t.Errorf("Recipient() = %q, want the support address", got)
	}
}

func TestRecipient_Unresolved(t *testing.T) {
	r := newRouter(t, nil, "")

	a := &domain.IntentAnalysis{
		Category:           domain.CategorySales,
		Urgency:            domain.UrgencyNormal,
		RequiresForwarding: true,
	}
	_, err := r.Recipient(a, nil)
	if !apperr.IsCode(err, apperr.CodeRecipientUnresolved) {
		t.Fatalf("expected RECIPIENT_UNRESOLVED, got %v", err)
	}
}

func TestReload_SwapsSnapshot(t *testing.T) {
	repo := &fakeForwardingRepo{}
	r := NewRouter(repo, "")

	if got := r.Table().BestFor(domain.ForwardSales); got != "" {
		t.Fatalf("fresh router table not empty: %q", got)
	}

	repo.rules = []domain.ForwardingRule{
		{InquiryType: domain.ForwardSales, Address: "sales@techcorp.com", Rank: 0},
	}
	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := r.Table().BestFor(domain.ForwardSales); got != "sales@techcorp.com" {
		t.Errorf("table after reload = %q", got)
	}
}
