package worker

import (
	"context"
	"time"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/core/service/triage"
	"triage_server/pkg/apperr"
	"triage_server/pkg/logger"

	"github.com/google/uuid"
)

// InboxProcessor runs inbox batches and direct sends off the queue.
type InboxProcessor struct {
	engine   *triage.Engine
	jobStore out.JobStore
	provider out.EmailProviderPort
}

// NewInboxProcessor creates a new inbox processor.
func NewInboxProcessor(engine *triage.Engine, jobStore out.JobStore, provider out.EmailProviderPort) *InboxProcessor {
	return &InboxProcessor{
		engine:   engine,
		jobStore: jobStore,
		provider: provider,
	}
}

// ProcessInbox runs a full inbox batch and records the outcome on the
// tracked job. A failed run returns the error so the pool retries it;
// job status updates that lose the race against an earlier terminal
// transition are ignored.
func (p *InboxProcessor) ProcessInbox(ctx context.Context, msg *Message) error {
	payload, err := ParsePayload[InboxProcessPayload](msg)
	if err != nil {
		return apperr.BadRequest("invalid inbox payload").WithError(err)
	}

	jobID := payload.JobID
	if jobID == "" {
		// Poll-scheduled runs register their own job so they stay
		// queryable alongside API-triggered ones.
		jobID = uuid.New().String()
		if err := p.jobStore.Create(ctx, &domain.TriageJob{ID: jobID}); err != nil {
			logger.WithError(err).Warn("Failed to register poll job")
			jobID = ""
		}
	}

	report, err := p.engine.ProcessInbox(ctx)
	if err != nil {
		p.markFailed(ctx, jobID, err)
		return err
	}

	p.markCompleted(ctx, jobID, report)
	return nil
}

// ProcessSend dispatches a direct outbound message.
func (p *InboxProcessor) ProcessSend(ctx context.Context, msg *Message) error {
	payload, err := ParsePayload[EmailSendPayload](msg)
	if err != nil {
		return apperr.BadRequest("invalid send payload").WithError(err)
	}
	if payload.To == "" {
		return apperr.MissingField("to")
	}
	if p.provider == nil {
		return apperr.ConfigError("mail provider not configured")
	}

	return p.provider.Send(ctx, &out.OutboundMessage{
		To:      payload.To,
		Subject: payload.Subject,
		Body:    payload.Body,
	})
}

func (p *InboxProcessor) markCompleted(ctx context.Context, jobID string, report *domain.BatchReport) {
	if jobID == "" {
		return
	}
	if err := p.jobStore.Complete(ctx, jobID, report); err != nil && !apperr.IsCode(err, apperr.CodeConflict) {
		logger.WithError(err).WithField("job_id", jobID).Warn("Failed to mark job completed")
	}
}

func (p *InboxProcessor) markFailed(ctx context.Context, jobID string, cause error) {
	if jobID == "" {
		return
	}
	if err := p.jobStore.Fail(ctx, jobID, cause.Error()); err != nil && !apperr.IsCode(err, apperr.CodeConflict) {
		logger.WithError(err).WithField("job_id", jobID).Warn("Failed to mark job failed")
	}
}

// Poller schedules periodic inbox runs. The interval is re-read every
// cycle so configuration updates take effect without a restart.
type Poller struct {
	engine *triage.Engine
	pool   *Pool
}

// NewPoller creates a new poller.
func NewPoller(engine *triage.Engine, pool *Pool) *Poller {
	return &Poller{engine: engine, pool: pool}
}

// Run blocks until ctx is cancelled, submitting an inbox poll job
// every interval.
func (p *Poller) Run(ctx context.Context) {
	logger.Info("Inbox poller started, interval: %s", p.engine.Options().PollInterval)

	for {
		interval := p.engine.Options().PollInterval
		if interval <= 0 {
			interval = time.Minute
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("Inbox poller stopped")
			return
		case <-timer.C:
			msg := NewMessage(JobInboxPoll, map[string]any{})
			if !p.pool.Submit(msg) {
				logger.Warn("Inbox poll skipped, pool rejected job")
			}
		}
	}
}
