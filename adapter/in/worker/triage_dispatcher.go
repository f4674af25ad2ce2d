package worker

import (
	"context"

	"triage_server/pkg/logger"

	"github.com/goccy/go-json"
)

type Handler struct {
	inboxProcessor *InboxProcessor
}

func NewHandler(inboxProcessor *InboxProcessor) *Handler {
	return &Handler{inboxProcessor: inboxProcessor}
}

func (h *Handler) Process(ctx context.Context, msg *Message) error {
	logger.Debug("Processing message: %s", msg.Type)

	switch msg.Type {
	case JobInboxProcess, JobInboxPoll:
		return h.inboxProcessor.ProcessInbox(ctx, msg)
	case JobEmailSend, JobEmailForward:
		return h.inboxProcessor.ProcessSend(ctx, msg)
	default:
		logger.Warn("Unknown job type: %s", msg.Type)
		return nil
	}
}

func ParsePayload[T any](msg *Message) (*T, error) {
	var payload T
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
