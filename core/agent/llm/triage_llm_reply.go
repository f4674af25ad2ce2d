package llm

import (
	"context"
	"fmt"
	"strings"

	"triage_server/core/domain"
	"triage_server/pkg/apperr"
)

// ReplyGenerator implements the free-text composer port. The prompt is
// built only from the tier-filtered response info, so the model never
// sees data the requester did not earn.
type ReplyGenerator struct {
	client *Client
}

func NewReplyGenerator(client *Client) *ReplyGenerator {
	return &ReplyGenerator{client: client}
}

// ComposeReply generates a reply body for the inquiry.
func (g *ReplyGenerator) ComposeReply(ctx context.Context, msg *domain.EmailMessage, analysis *domain.IntentAnalysis, info *domain.ResponseInfo) (string, error) {
	system := g.systemPrompt(info)
	user := fmt.Sprintf(`Incoming email:
From: %s
Subject: %s

%s

Classified intent: %s (urgency: %s)

Write a helpful, professional reply on behalf of the company. Mention
the relevant contact if one is listed in your context. Only output the
reply body, no subject line.`,
		msg.Sender, msg.Subject, msg.Body, analysis.PrimaryIntent, analysis.Urgency)

	body, err := g.client.CompleteWithSystem(ctx, system, user)
	if err != nil {
		return "", apperr.ComposerUnavailable(err)
	}
	return body, nil
}

// systemPrompt renders the permitted context block. Only contacts and
// services already filtered by the disclosure tier appear here.
func (g *ReplyGenerator) systemPrompt(info *domain.ResponseInfo) string {
	var b strings.Builder
	b.WriteString("You are an email assistant for ")
	if info != nil && info.Company.Name != "" {
		b.WriteString(info.Company.Name)
	} else {
		b.WriteString("the company")
	}
	b.WriteString(".\n")

	if info == nil {
		return b.String()
	}

	if info.Company.Mission != "" {
		fmt.Fprintf(&b, "Mission: %s\n", info.Company.Mission)
	}

	if len(info.Contacts) > 0 {
		b.WriteString("\nContacts you may share:\n")
		for _, c := range info.Contacts {
			fmt.Fprintf(&b, "- %s: %s (%s", c.Type, c.Info.Name, c.Info.Email)
			if c.Info.Phone != "" {
				fmt.Fprintf(&b, ", %s", c.Info.Phone)
			}
			b.WriteString(")\n")
		}
	}

	if len(info.Services) > 0 {
		b.WriteString("\nServices you may describe:\n")
		for _, s := range info.Services {
			fmt.Fprintf(&b, "- %s: %s", s.Name, s.Description)
			if s.Pricing != "" {
				fmt.Fprintf(&b, " (%s)", s.Pricing)
			}
			b.WriteString("\n")
		}
	}

	if len(info.Policies) > 0 {
		if rt, ok := info.Policies["response_time"]; ok {
			fmt.Fprintf(&b, "\nPolicy: %s\n", rt)
		}
	}

	b.WriteString("\nNever invent contacts, pricing, or internal details beyond this context.")
	return b.String()
}
