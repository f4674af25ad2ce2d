// Package classify implements keyword-driven intent classification.
package classify

import (
	"strings"

	"triage_server/core/domain"
	"triage_server/pkg/apperr"
)

// rule is one entry in the ordered classification table. Rules are
// evaluated first-match-wins over the lowercased body; the urgency
// rule sits first so an urgent sales email classifies as urgent, not
// sales. Keeping the table data-driven keeps the precedence auditable.
type rule struct {
	name     string
	keywords []string
	apply    func(a *domain.IntentAnalysis)
}

var rules = []rule{
	{
		name:     "urgency",
		keywords: []string{"urgent", "emergency", "asap", "immediately", "critical"},
		apply: func(a *domain.IntentAnalysis) {
			a.Urgency = domain.UrgencyHigh
			a.PrimaryIntent = domain.IntentUrgentRequest
		},
	},
	{
		name:     "sales",
		keywords: []string{"sales", "pricing", "quote", "buy", "purchase"},
		apply: func(a *domain.IntentAnalysis) {
			a.Category = domain.CategorySales
			a.PrimaryIntent = domain.IntentSalesInquiry
		},
	},
	{
		name:     "hiring",
		keywords: []string{"job", "career", "hiring", "resume", "position"},
		apply: func(a *domain.IntentAnalysis) {
			a.Category = domain.CategoryHR
			a.PrimaryIntent = domain.IntentJobInquiry
		},
	},
	{
		name:     "executive",
		keywords: []string{"manager", "executive", "ceo", "cto", "director"},
		apply: func(a *domain.IntentAnalysis) {
			a.Category = domain.CategoryExecutive
			a.PrimaryIntent = domain.IntentExecutiveContact
		},
	},
	{
		name:     "gratitude",
		keywords: []string{"thank", "thanks", "appreciate", "grateful"},
		apply: func(a *domain.IntentAnalysis) {
			a.PrimaryIntent = domain.IntentAppreciation
			a.RequiresForwarding = false
		},
	},
	{
		name:     "complaint",
		keywords: []string{"complaint", "issue", "problem", "disappointed"},
		apply: func(a *domain.IntentAnalysis) {
			a.Category = domain.CategorySupport
			a.PrimaryIntent = domain.IntentComplaint
			a.Urgency = domain.UrgencyHigh
		},
	},
}

// replyAllowList covers intents that always earn a reply.
var replyAllowList = map[string]bool{
	domain.IntentUrgentRequest:    true,
	domain.IntentSalesInquiry:     true,
	domain.IntentJobInquiry:       true,
	domain.IntentExecutiveContact: true,
	domain.IntentAppreciation:     true,
	domain.IntentComplaint:        true,
}

// Classifier runs the ordered rule table.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Analyze classifies an inquiry. Pure and deterministic given the
// context. A context with no body and no subject cannot be classified
// and returns a classification failure; callers recover to the
// defaults and continue.
func (c *Classifier) Analyze(ictx domain.InquiryContext) (*domain.IntentAnalysis, error) {
	if ictx.Body == "" && ictx.Subject == "" {
		return nil, apperr.ClassificationFailed("empty subject and body", nil)
	}

	analysis := DefaultAnalysis()
	body := strings.ToLower(ictx.Body)

	for _, r := range rules {
		if containsAny(body, r.keywords) {
			r.apply(analysis)
			break
		}
	}
	return analysis, nil
}

// DefaultAnalysis is the recovery value when classification cannot
// proceed: a normal-urgency general inquiry routed to support.
func DefaultAnalysis() *domain.IntentAnalysis {
	return &domain.IntentAnalysis{
		PrimaryIntent:      domain.IntentGeneralInquiry,
		Urgency:            domain.UrgencyNormal,
		Category:           domain.CategorySupport,
		RequiresReply:      true,
		RequiresForwarding: true,
		DisclosureTier:     domain.TierStandard,
	}
}

// ShouldReply decides whether an inquiry earns a reply: high urgency,
// an allow-listed intent, or the analysis's own requires_reply flag.
// Under the current rule table the allow-list covers every producible
// intent except general_inquiry, which sets requires_reply anyway.
func (c *Classifier) ShouldReply(a *domain.IntentAnalysis) bool {
	if a.Urgency == domain.UrgencyHigh {
		return true
	}
	if replyAllowList[a.PrimaryIntent] {
		return true
	}
	return a.RequiresReply
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
