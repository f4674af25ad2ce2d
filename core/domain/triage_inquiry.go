package domain

import "time"

// InquiryContext is the ephemeral per-message context all policy
// decisions derive from. Constructed fresh per inbound message, never
// persisted.
type InquiryContext struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DisclosureTier is the coarse sensitivity classification of an
// inquiry, independent from per-employee security levels.
type DisclosureTier string

const (
	TierStandard DisclosureTier = "standard"
	TierHigh     DisclosureTier = "high"
)

// SecurityLevelFor maps a disclosure tier to the directory level used
// when resolving contacts. Standard maps to trusted rather than
// public: any inquiry that earns a classification already earns
// elevated contact detail. The directory's own trust gate still
// applies on top.
func (t DisclosureTier) SecurityLevelFor() SecurityLevel {
	if t == TierHigh {
		return SecurityConfidential
	}
	return SecurityTrusted
}

// Urgency of an inquiry.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Primary intents producible by the classifier.
const (
	IntentUrgentRequest    = "urgent_request"
	IntentSalesInquiry     = "sales_inquiry"
	IntentJobInquiry       = "job_inquiry"
	IntentExecutiveContact = "executive_contact"
	IntentAppreciation     = "appreciation"
	IntentComplaint        = "complaint"
	IntentGeneralInquiry   = "general_inquiry"
)

// Inquiry categories feeding the routing table.
const (
	CategorySales     = "sales"
	CategorySupport   = "support"
	CategoryTechnical = "technical"
	CategoryHR        = "hr"
	CategoryExecutive = "executive"
	CategoryGeneral   = "general"
)

// IntentAnalysis is the classifier output, consumed immediately by the
// routing decision and not retained.
type IntentAnalysis struct {
	PrimaryIntent      string         `json:"primary_intent"`
	Urgency            Urgency        `json:"urgency"`
	Category           string         `json:"category"`
	RequiresReply      bool           `json:"requires_reply"`
	RequiresForwarding bool           `json:"requires_forwarding"`
	DisclosureTier     DisclosureTier `json:"disclosure_tier"`
}

// EmailMessage is an inbound message as fetched from the provider.
type EmailMessage struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"thread_id,omitempty"`
	Sender     string    `json:"sender"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	MessageID  string    `json:"message_id,omitempty"` // RFC 5322 Message-ID header
	References string    `json:"references,omitempty"`
	ReceivedAt time.Time `json:"received_at,omitempty"`
}

// Context builds the inquiry context for a message.
func (m *EmailMessage) Context() InquiryContext {
	return InquiryContext{
		Sender:  m.Sender,
		Subject: m.Subject,
		Body:    m.Body,
	}
}

// Per-inquiry outcome within a batch run.
const (
	OutcomeProcessed = "processed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// InquiryResult reports what happened to one inquiry.
type InquiryResult struct {
	MessageID string  `json:"message_id"`
	Outcome   string  `json:"outcome"`
	Intent    string  `json:"intent,omitempty"`
	Urgency   Urgency `json:"urgency,omitempty"`
	Recipient string  `json:"recipient,omitempty"`
	Replied   bool    `json:"replied"`
	Forwarded bool    `json:"forwarded"`
	Error     string  `json:"error,omitempty"`
}

// BatchReport aggregates a run. No single inquiry's failure aborts the
// batch; the report carries per-inquiry outcomes instead.
type BatchReport struct {
	Processed int             `json:"processed"`
	Skipped   int             `json:"skipped"`
	Failed    int             `json:"failed"`
	Results   []InquiryResult `json:"results"`
}

// Add records a result and bumps the matching counter.
func (r *BatchReport) Add(res InquiryResult) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case OutcomeProcessed:
		r.Processed++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}
