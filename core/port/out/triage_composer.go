package out

import (
	"context"

	"triage_server/core/domain"
)

// FreeTextComposer generates a reply body from the assembled context.
// May fail or time out; callers must fall back to the deterministic
// template reply.
type FreeTextComposer interface {
	ComposeReply(ctx context.Context, msg *domain.EmailMessage, analysis *domain.IntentAnalysis, info *domain.ResponseInfo) (string, error)
}
