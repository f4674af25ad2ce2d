// Package in defines inbound ports exposed to HTTP handlers and the
// worker.
package in

import (
	"context"

	"triage_server/core/domain"
)

// AnalyzeResult is the synchronous analysis surface returned to
// operators: classification plus routing, no sends.
type AnalyzeResult struct {
	Analysis    domain.IntentAnalysis `json:"analysis"`
	ShouldReply bool                  `json:"should_reply"`
	Recipient   string                `json:"forwarding_recipient,omitempty"`
}

// TriageService drives the inbox pipeline.
type TriageService interface {
	// ProcessInbox fetches unread messages and runs the full triage
	// pipeline on each. Per-inquiry failures never abort the batch.
	ProcessInbox(ctx context.Context) (*domain.BatchReport, error)
	// Analyze classifies and routes a single message without sending.
	Analyze(ctx context.Context, msg *domain.EmailMessage) (*AnalyzeResult, error)
}

// DirectoryService exposes level-filtered employee views.
type DirectoryService interface {
	Get(ctx context.Context, id string, level domain.SecurityLevel, ictx domain.InquiryContext) (*domain.FilteredRecord, error)
	GetByEmail(ctx context.Context, email string, level domain.SecurityLevel, ictx domain.InquiryContext) (*domain.FilteredRecord, error)
	Search(ctx context.Context, query string, level domain.SecurityLevel, ictx domain.InquiryContext) ([]domain.FilteredRecord, error)
	ByDepartment(ctx context.Context, department string, level domain.SecurityLevel, ictx domain.InquiryContext) ([]domain.FilteredRecord, error)
	List(ctx context.Context) ([]domain.FilteredRecord, error)
}

// KnowledgeService resolves disclosure-tiered company knowledge.
type KnowledgeService interface {
	DisclosureTier(ictx domain.InquiryContext) domain.DisclosureTier
	ResponseInfoFor(ctx context.Context, ictx domain.InquiryContext) (*domain.ResponseInfo, error)
	SearchContacts(ctx context.Context, query string, ictx domain.InquiryContext) ([]domain.TypedContact, error)
	CompanyInfo(ictx domain.InquiryContext) domain.CompanyInfo
}
