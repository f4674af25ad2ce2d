package http

import (
	"triage_server/core/port/out"
	"triage_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// JobHandler exposes background job status.
type JobHandler struct {
	jobStore out.JobStore
}

// NewJobHandler creates a new job handler.
func NewJobHandler(jobStore out.JobStore) *JobHandler {
	return &JobHandler{jobStore: jobStore}
}

// Register registers job routes.
func (h *JobHandler) Register(router fiber.Router) {
	jobs := router.Group("/jobs")
	jobs.Get("/", h.List)
	jobs.Get("/:id", h.Get)
}

// List returns recent jobs, newest first.
func (h *JobHandler) List(c *fiber.Ctx) error {
	jobs, err := h.jobStore.List(c.Context())
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, jobs, &response.Meta{Total: len(jobs)})
}

// Get returns one job with its report.
func (h *JobHandler) Get(c *fiber.Ctx) error {
	job, err := h.jobStore.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.OK(c, job)
}
