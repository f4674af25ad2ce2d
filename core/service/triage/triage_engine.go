// Package triage orchestrates the inbox pipeline: classify, resolve,
// route, compose, dispatch.
package triage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"triage_server/core/domain"
	"triage_server/core/port/in"
	"triage_server/core/port/out"
	"triage_server/core/service/classify"
	"triage_server/core/service/compose"
	"triage_server/core/service/knowledge"
	"triage_server/core/service/routing"
	"triage_server/pkg/apperr"
	"triage_server/pkg/logger"
)

// Options are the runtime-mutable triage settings, exposed through the
// config endpoint. Reads take a snapshot; updates swap whole values
// under the lock so in-flight batches never see torn state.
type Options struct {
	PollInterval time.Duration `json:"poll_interval_sec"`
	AutoReply    bool          `json:"auto_reply"`
	AutoForward  bool          `json:"auto_forward"`
	MaxBatchSize int           `json:"max_batch_size"`
}

// Engine drives the per-inquiry pipeline. Single-inquiry processing is
// sequential; the catalogs it reads are immutable snapshots, so a
// batch may safely run concurrently with administrative updates.
type Engine struct {
	provider   out.EmailProviderPort
	classifier *classify.Classifier
	knowledge  *knowledge.Service
	router     *routing.Router
	composer   *compose.Service

	mu   sync.RWMutex
	opts Options
}

// NewEngine creates the triage engine.
func NewEngine(
	provider out.EmailProviderPort,
	classifier *classify.Classifier,
	kb *knowledge.Service,
	router *routing.Router,
	composer *compose.Service,
	opts Options,
) *Engine {
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = 20
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Minute
	}
	return &Engine{
		provider:   provider,
		classifier: classifier,
		knowledge:  kb,
		router:     router,
		composer:   composer,
		opts:       opts,
	}
}

// Options returns a snapshot of the runtime settings.
func (e *Engine) Options() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opts
}

// UpdateOptions swaps the runtime settings.
func (e *Engine) UpdateOptions(opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = e.opts.MaxBatchSize
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = e.opts.PollInterval
	}
	e.opts = opts
}

// ProcessInbox fetches unread messages and runs the pipeline on each.
// No single inquiry's failure aborts the batch; the report carries
// per-inquiry outcomes.
func (e *Engine) ProcessInbox(ctx context.Context) (*domain.BatchReport, error) {
	opts := e.Options()

	if e.provider == nil {
		return nil, apperr.ConfigError("mail provider not configured")
	}

	messages, err := e.provider.FetchUnread(ctx, opts.MaxBatchSize)
	if err != nil {
		return nil, apperr.ExternalError("mail provider", err)
	}

	report := &domain.BatchReport{}
	for i := range messages {
		result := e.processMessage(ctx, &messages[i], opts)
		report.Add(result)
	}

	logger.WithFields(map[string]any{
		"processed": report.Processed,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
	}).Info("Inbox batch completed: %d messages", len(messages))

	return report, nil
}

// Analyze classifies and routes a single message without sending.
func (e *Engine) Analyze(ctx context.Context, msg *domain.EmailMessage) (*in.AnalyzeResult, error) {
	ictx := msg.Context()

	analysis, info := e.classifyWithRecovery(ctx, ictx, msg.ID)

	result := &in.AnalyzeResult{
		Analysis:    *analysis,
		ShouldReply: e.classifier.ShouldReply(analysis),
	}

	recipient, err := e.router.Recipient(analysis, info)
	if err != nil {
		// Routing gap: report the analysis without a recipient.
		logger.WithError(err).WithField("message_id", msg.ID).Warn("No recipient resolved")
		return result, nil
	}
	result.Recipient = recipient
	return result, nil
}

// classifyWithRecovery runs intent and disclosure classification,
// recovering from classification failures with the default analysis so
// the batch never aborts.
func (e *Engine) classifyWithRecovery(ctx context.Context, ictx domain.InquiryContext, messageID string) (*domain.IntentAnalysis, *domain.ResponseInfo) {
	analysis, err := e.classifier.Analyze(ictx)
	if err != nil {
		logger.WithError(err).WithField("message_id", messageID).
			Warn("Classification failed, recovering with defaults")
		analysis = classify.DefaultAnalysis()
	} else {
		analysis.DisclosureTier = e.knowledge.DisclosureTier(ictx)
	}

	info, err := e.knowledge.ResponseInfoFor(ctx, ictx)
	if err != nil {
		logger.WithError(err).WithField("message_id", messageID).
			Warn("Response info resolution failed")
		info = &domain.ResponseInfo{DisclosureTier: analysis.DisclosureTier}
	}
	return analysis, info
}

// processMessage runs the linear per-inquiry state machine:
// classified -> routed -> composed -> dispatched -> marked-processed.
// The unread flag is removed only after every send for the message
// succeeded, so a crash or dispatch failure leaves it for the next
// run.
func (e *Engine) processMessage(ctx context.Context, msg *domain.EmailMessage, opts Options) domain.InquiryResult {
	ictx := msg.Context()
	result := domain.InquiryResult{MessageID: msg.ID}

	analysis, info := e.classifyWithRecovery(ctx, ictx, msg.ID)
	result.Intent = analysis.PrimaryIntent
	result.Urgency = analysis.Urgency

	// Reply
	if opts.AutoReply && e.classifier.ShouldReply(analysis) {
		body, usedFallback := e.composer.Compose(ctx, msg, analysis, info)
		if usedFallback {
			logger.WithField("message_id", msg.ID).Debug("Reply built from template fallback")
		}
		if err := e.provider.Send(ctx, replyMessage(msg, body)); err != nil {
			logger.WithError(err).WithField("message_id", msg.ID).
				Error("Reply dispatch failed, message left unread")
			result.Outcome = domain.OutcomeFailed
			result.Error = apperr.DispatchFailed(msg.ID, err).Error()
			return result
		}
		result.Replied = true
	}

	// Forward
	if opts.AutoForward && analysis.RequiresForwarding {
		recipient, err := e.router.Recipient(analysis, info)
		if err != nil {
			// Data/configuration gap, not transient: skip and leave
			// unread until the forwarding table is fixed.
			logger.WithError(err).WithField("message_id", msg.ID).
				Warn("Recipient unresolved, inquiry skipped")
			result.Outcome = domain.OutcomeSkipped
			result.Error = err.Error()
			return result
		}
		if recipient != "" {
			fwd := forwardMessage(msg, analysis, recipient, result.Replied)
			if err := e.provider.Send(ctx, fwd); err != nil {
				logger.WithError(err).WithField("message_id", msg.ID).
					Error("Forward dispatch failed, message left unread")
				result.Outcome = domain.OutcomeFailed
				result.Error = apperr.DispatchFailed(msg.ID, err).Error()
				return result
			}
			result.Forwarded = true
			result.Recipient = recipient
		}
	}

	if err := e.provider.MarkProcessed(ctx, msg.ID); err != nil {
		logger.WithError(err).WithField("message_id", msg.ID).
			Error("Failed to mark message processed")
		result.Outcome = domain.OutcomeFailed
		result.Error = err.Error()
		return result
	}

	result.Outcome = domain.OutcomeProcessed
	return result
}

// replyMessage builds the threaded reply.
func replyMessage(msg *domain.EmailMessage, body string) *out.OutboundMessage {
	subject := msg.Subject
	if !strings.HasPrefix(subject, "Re:") {
		subject = "Re: " + subject
	}

	references := msg.References
	if msg.MessageID != "" {
		if references != "" {
			references += " "
		}
		references += msg.MessageID
	}

	return &out.OutboundMessage{
		To:         msg.Sender,
		Subject:    subject,
		Body:       body,
		InReplyTo:  msg.MessageID,
		References: references,
		ThreadID:   msg.ThreadID,
	}
}

// forwardMessage builds the annotated forward.
func forwardMessage(msg *domain.EmailMessage, analysis *domain.IntentAnalysis, recipient string, replied bool) *out.OutboundMessage {
	urgencyPrefix := ""
	if analysis.Urgency == domain.UrgencyHigh {
		urgencyPrefix = fmt.Sprintf("[%s] ", strings.ToUpper(string(analysis.Urgency)))
	}
	subject := fmt.Sprintf("FW: %s[Auto-Routed] %s", urgencyPrefix, msg.Subject)

	replySent := "No"
	if replied {
		replySent = "Yes"
	}

	body := fmt.Sprintf(`--- AUTOMATICALLY FORWARDED TO %s ---
Urgency: %s
Intent: %s
Reply Sent: %s

Original Email Details:
- From: %s
- Subject: %s

Original Message:
%s

---
This email was automatically classified and forwarded.`,
		strings.ToUpper(analysis.Category),
		strings.ToUpper(string(analysis.Urgency)),
		analysis.PrimaryIntent,
		replySent,
		msg.Sender,
		msg.Subject,
		msg.Body,
	)

	return &out.OutboundMessage{
		To:      recipient,
		Subject: subject,
		Body:    body,
	}
}
