// Package provider implements mail provider adapters.
package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"time"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"
	"triage_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GmailAdapter implements out.EmailProviderPort for Gmail.
type GmailAdapter struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenFile string
	cb        *gobreaker.CircuitBreaker
}

// GmailConfig holds Gmail configuration.
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// TokenFile is a JSON file holding a previously authorized
	// oauth2.Token.
	TokenFile string
}

// NewGmailAdapter creates a new Gmail adapter. The token file is read
// once at startup; refreshes happen through the token source.
func NewGmailAdapter(cfg *GmailConfig) (*GmailAdapter, error) {
	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			gmail.GmailReadonlyScope,
			gmail.GmailSendScope,
			gmail.GmailModifyScope,
		},
		Endpoint: google.Endpoint,
	}

	token, err := loadToken(cfg.TokenFile)
	if err != nil {
		return nil, apperr.ConfigError(fmt.Sprintf("gmail token: %v", err))
	}

	cbSettings := gobreaker.Settings{
		Name:        "gmail-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &GmailAdapter{
		config:    config,
		token:     token,
		tokenFile: cfg.TokenFile,
		cb:        gobreaker.NewCircuitBreaker(cbSettings),
	}, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// GetAuthURL returns the OAuth authorization URL for first-time setup.
func (a *GmailAdapter) GetAuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// FetchUnread lists unread inbox messages, newest batch first, and
// fetches each full message body.
func (a *GmailAdapter) FetchUnread(ctx context.Context, max int) ([]domain.EmailMessage, error) {
	svc, err := a.getService(ctx)
	if err != nil {
		return nil, err
	}

	if max <= 0 {
		max = 20
	}

	var resp *gmail.ListMessagesResponse
	cbErr := a.executeWithCircuitBreaker("FetchUnread", func() error {
		var apiErr error
		resp, apiErr = svc.Users.Messages.List("me").
			Q("is:unread").
			LabelIds("INBOX").
			MaxResults(int64(max)).
			Context(ctx).Do()
		return apiErr
	})
	if cbErr != nil {
		return nil, apperr.ExternalError("gmail", cbErr)
	}

	messages := make([]domain.EmailMessage, 0, len(resp.Messages))
	for _, ref := range resp.Messages {
		var full *gmail.Message
		cbErr := a.executeWithCircuitBreaker("GetMessage", func() error {
			var apiErr error
			full, apiErr = svc.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
			return apiErr
		})
		if cbErr != nil {
			logger.WithError(cbErr).WithField("message_id", ref.Id).
				Warn("Failed to fetch message, skipping")
			continue
		}
		messages = append(messages, a.convertMessage(full))
	}
	return messages, nil
}

// Send dispatches a message, threading it when references are set.
func (a *GmailAdapter) Send(ctx context.Context, msg *out.OutboundMessage) error {
	svc, err := a.getService(ctx)
	if err != nil {
		return err
	}

	gmailMsg := &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString([]byte(buildRawMessage(msg))),
		ThreadId: msg.ThreadID,
	}

	cbErr := a.executeWithCircuitBreaker("Send", func() error {
		_, apiErr := svc.Users.Messages.Send("me", gmailMsg).Context(ctx).Do()
		return apiErr
	})
	if cbErr != nil {
		return apperr.ExternalError("gmail", cbErr)
	}
	return nil
}

// MarkProcessed removes the UNREAD label. Removing an absent label is
// a no-op on the Gmail side, so retries are safe.
func (a *GmailAdapter) MarkProcessed(ctx context.Context, messageID string) error {
	svc, err := a.getService(ctx)
	if err != nil {
		return err
	}

	req := &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}

	cbErr := a.executeWithCircuitBreaker("MarkProcessed", func() error {
		_, apiErr := svc.Users.Messages.Modify("me", messageID, req).Context(ctx).Do()
		return apiErr
	})
	if cbErr != nil {
		return apperr.ExternalError("gmail", cbErr)
	}
	return nil
}

func (a *GmailAdapter) getService(ctx context.Context) (*gmail.Service, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(
		a.config.TokenSource(ctx, a.token),
	))
	if err != nil {
		return nil, apperr.ExternalError("gmail", err)
	}
	return svc, nil
}

// executeWithCircuitBreaker wraps an API call with circuit breaker
// protection so a degraded Gmail API fails fast instead of piling up.
func (a *GmailAdapter) executeWithCircuitBreaker(operation string, fn func() error) error {
	_, err := a.cb.Execute(func() (interface{}, error) {
		if err := fn(); err != nil {
			if apiErr, ok := err.(*googleapi.Error); ok {
				switch apiErr.Code {
				case 500, 502, 503, 429:
					return nil, err
				case 400, 401, 403, 404:
					// Client errors must not trip the breaker.
					return nil, &nonCircuitError{err: err}
				}
			}
			return nil, err
		}
		return nil, nil
	})

	if nce, ok := err.(*nonCircuitError); ok {
		return nce.err
	}

	if err != nil {
		logger.WithError(err).WithFields(map[string]any{
			"operation": operation,
			"state":     a.cb.State().String(),
		}).Error("Gmail API call failed")
	}
	return err
}

// nonCircuitError wraps errors that should not trip the circuit breaker.
type nonCircuitError struct {
	err error
}

func (e *nonCircuitError) Error() string {
	return e.err.Error()
}

// IsCircuitOpen reports whether calls currently fail fast.
func (a *GmailAdapter) IsCircuitOpen() bool {
	return a.cb.State() == gobreaker.StateOpen
}

func (a *GmailAdapter) convertMessage(msg *gmail.Message) domain.EmailMessage {
	result := domain.EmailMessage{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
	}

	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "From":
				result.Sender = h.Value
			case "Subject":
				result.Subject = h.Value
			case "Message-ID":
				result.MessageID = h.Value
			case "References":
				result.References = h.Value
			case "Date":
				if t, err := mail.ParseDate(h.Value); err == nil {
					result.ReceivedAt = t
				}
			}
		}
		result.Body = extractTextBody(msg.Payload)
	}
	if result.ReceivedAt.IsZero() {
		result.ReceivedAt = time.UnixMilli(msg.InternalDate)
	}
	return result
}

// extractTextBody walks the MIME tree for the first text/plain part,
// falling back to the top-level body.
func extractTextBody(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
			return string(data)
		}
	}
	for _, p := range part.Parts {
		if body := extractTextBody(p); body != "" {
			return body
		}
	}
	if part.Body != nil && part.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
			return string(data)
		}
	}
	return ""
}

// buildRawMessage renders an RFC 822 message for the Gmail raw field.
func buildRawMessage(msg *out.OutboundMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	if msg.InReplyTo != "" {
		fmt.Fprintf(&b, "In-Reply-To: %s\r\n", msg.InReplyTo)
	}
	if msg.References != "" {
		fmt.Fprintf(&b, "References: %s\r\n", msg.References)
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return b.String()
}

// Ensure GmailAdapter implements out.EmailProviderPort
var _ out.EmailProviderPort = (*GmailAdapter)(nil)
