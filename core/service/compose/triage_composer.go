// Package compose builds reply text, delegating to the free-text
// composer and falling back to a deterministic template when it is
// unavailable.
package compose

import (
	"context"
	"fmt"
	"strings"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/logger"
)

const (
	defaultCompanyName   = "TechCorp Solutions"
	defaultAssistantName = "TechCorp Assistant"
	emergencyLine        = "+1 (555) 911-HELP"
)

// Service composes reply bodies.
type Service struct {
	composer      out.FreeTextComposer
	companyName   string
	assistantName string
}

// NewService creates a composer service. composer may be nil, in which
// case every reply uses the template path.
func NewService(composer out.FreeTextComposer) *Service {
	return &Service{
		composer:      composer,
		companyName:   defaultCompanyName,
		assistantName: defaultAssistantName,
	}
}

// Compose returns the reply body and whether the deterministic
// fallback was used. A composer failure never propagates: the
// fallback is built only from the already-resolved contact and
// company data, so it cannot leak anything the tier did not earn.
func (s *Service) Compose(ctx context.Context, msg *domain.EmailMessage, analysis *domain.IntentAnalysis, info *domain.ResponseInfo) (string, bool) {
	if s.composer != nil {
		body, err := s.composer.ComposeReply(ctx, msg, analysis, info)
		if err == nil && strings.TrimSpace(body) != "" {
			return body, false
		}
		if err != nil {
			logger.WithError(err).WithField("message_id", msg.ID).
				Warn("Composer unavailable, using template fallback")
		}
	}
	return s.fallbackReply(msg, info), true
}

// fallbackReply is the deterministic template used when the free-text
// composer fails or is not configured.
func (s *Service) fallbackReply(msg *domain.EmailMessage, info *domain.ResponseInfo) string {
	contact := domain.ContactCard{
		Name:  "Support Team",
		Email: "support@techcorp.com",
		Phone: "+1 (555) 123-4567",
	}
	companyName := s.companyName
	if info != nil {
		if primary := info.PrimaryContact(); primary != nil {
			contact = *primary
		}
		if info.Company.Name != "" {
			companyName = info.Company.Name
		}
	}

	return fmt.Sprintf(`Hi %s,

Thank you for reaching out to %s! I've received your message and I'm here to help.

I'm forwarding your inquiry to our %s who will get back to you within 24 hours. In the meantime, you can reach us at %s or %s.

If this is urgent, please don't hesitate to call our emergency line: %s.

Best regards,
%s`, SenderName(msg.Sender), companyName, contact.Name, contact.Email, contact.Phone, emergencyLine, s.assistantName)
}

// SenderName extracts a display name from an address like
// "Jane Doe <jane@client.com>", falling back to the mailbox local
// part.
func SenderName(sender string) string {
	if i := strings.Index(sender, "<"); i > 0 {
		if name := strings.TrimSpace(sender[:i]); name != "" {
			return strings.Trim(name, `"`)
		}
	}
	addr := strings.Trim(sender, "<> ")
	if i := strings.Index(addr, "@"); i > 0 {
		return addr[:i]
	}
	if addr == "" {
		return "there"
	}
	return addr
}
