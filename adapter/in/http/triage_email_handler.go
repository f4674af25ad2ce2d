package http

import (
	"triage_server/adapter/in/worker"
	"triage_server/core/domain"
	"triage_server/core/port/in"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"
	"triage_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Enqueuer submits jobs to the worker pool.
type Enqueuer interface {
	Submit(msg *worker.Message) bool
	SubmitPriority(msg *worker.Message) bool
}

// EmailHandler handles inbox processing and analysis requests.
type EmailHandler struct {
	triageService in.TriageService
	jobStore      out.JobStore
	enqueuer      Enqueuer
}

// NewEmailHandler creates a new email handler.
func NewEmailHandler(triageService in.TriageService, jobStore out.JobStore, enqueuer Enqueuer) *EmailHandler {
	return &EmailHandler{
		triageService: triageService,
		jobStore:      jobStore,
		enqueuer:      enqueuer,
	}
}

// Register registers email routes.
func (h *EmailHandler) Register(router fiber.Router) {
	emails := router.Group("/emails")
	emails.Post("/process", h.ProcessInbox)
	emails.Post("/analyze", h.Analyze)
	emails.Post("/send", h.Send)
}

// ProcessInbox enqueues a full inbox run and returns the job ID.
func (h *EmailHandler) ProcessInbox(c *fiber.Ctx) error {
	job := &domain.TriageJob{ID: uuid.New().String()}
	if err := h.jobStore.Create(c.Context(), job); err != nil {
		return err
	}

	msg := worker.NewPriorityMessage(worker.JobInboxProcess, map[string]any{
		"job_id": job.ID,
	}, worker.PriorityHigh)

	if !h.enqueuer.SubmitPriority(msg) {
		_ = h.jobStore.Fail(c.Context(), job.ID, "queue rejected job")
		return apperr.New("QUEUE_FULL", "inbox processing queue is full", fiber.StatusServiceUnavailable)
	}

	return response.Accepted(c, fiber.Map{
		"job_id": job.ID,
		"status": domain.JobProcessing,
	})
}

// AnalyzeRequest is a single message to analyze without sending.
type AnalyzeRequest struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Analyze classifies and routes one message synchronously, without
// dispatching anything.
func (h *EmailHandler) Analyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.Sender == "" {
		return apperr.MissingField("sender")
	}

	msg := &domain.EmailMessage{
		Sender:  req.Sender,
		Subject: req.Subject,
		Body:    req.Body,
	}

	result, err := h.triageService.Analyze(c.Context(), msg)
	if err != nil {
		return err
	}
	return response.OK(c, result)
}

// SendRequest is a direct outbound message.
type SendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send enqueues a direct outbound message.
func (h *EmailHandler) Send(c *fiber.Ctx) error {
	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.To == "" {
		return apperr.MissingField("to")
	}
	if req.Subject == "" && req.Body == "" {
		return apperr.BadRequest("subject or body is required")
	}

	msg := worker.NewMessage(worker.JobEmailSend, map[string]any{
		"to":      req.To,
		"subject": req.Subject,
		"body":    req.Body,
	})

	if !h.enqueuer.Submit(msg) {
		return apperr.New("QUEUE_FULL", "send queue is full", fiber.StatusServiceUnavailable)
	}

	return response.Accepted(c, fiber.Map{
		"queued": true,
		"id":     msg.ID,
	})
}
