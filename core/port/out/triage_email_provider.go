package out

import (
	"context"

	"triage_server/core/domain"
)

// OutboundMessage is a message to dispatch through the provider.
type OutboundMessage struct {
	To      string
	Subject string
	Body    string

	// Threading references for replies
	InReplyTo  string
	References string
	ThreadID   string
}

// EmailProviderPort abstracts the mail transport. Implementations wrap
// their API calls in a circuit breaker; a rejected or failed send
// surfaces as an error and the caller decides retry semantics.
type EmailProviderPort interface {
	FetchUnread(ctx context.Context, max int) ([]domain.EmailMessage, error)
	Send(ctx context.Context, msg *OutboundMessage) error
	// MarkProcessed removes the unread flag. Idempotent.
	MarkProcessed(ctx context.Context, messageID string) error
}
