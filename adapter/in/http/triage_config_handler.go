package http

import (
	"time"

	"triage_server/core/service/triage"
	"triage_server/pkg/apperr"
	"triage_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ConfigHandler exposes the runtime-mutable triage options.
type ConfigHandler struct {
	engine *triage.Engine
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(engine *triage.Engine) *ConfigHandler {
	return &ConfigHandler{engine: engine}
}

// Register registers config routes.
func (h *ConfigHandler) Register(router fiber.Router) {
	router.Get("/config", h.Get)
	router.Put("/config", h.Update)
}

type configView struct {
	PollIntervalSec int  `json:"poll_interval_sec"`
	AutoReply       bool `json:"auto_reply"`
	AutoForward     bool `json:"auto_forward"`
	MaxBatchSize    int  `json:"max_batch_size"`
}

// Get returns the current runtime options.
func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	opts := h.engine.Options()
	return response.OK(c, configView{
		PollIntervalSec: int(opts.PollInterval / time.Second),
		AutoReply:       opts.AutoReply,
		AutoForward:     opts.AutoForward,
		MaxBatchSize:    opts.MaxBatchSize,
	})
}

// Update swaps the runtime options. Takes effect on the next batch.
func (h *ConfigHandler) Update(c *fiber.Ctx) error {
	var req configView
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.PollIntervalSec < 0 || req.MaxBatchSize < 0 {
		return apperr.ValidationFailed("intervals and batch sizes must not be negative")
	}

	h.engine.UpdateOptions(triage.Options{
		PollInterval: time.Duration(req.PollIntervalSec) * time.Second,
		AutoReply:    req.AutoReply,
		AutoForward:  req.AutoForward,
		MaxBatchSize: req.MaxBatchSize,
	})

	opts := h.engine.Options()
	return response.OK(c, configView{
		PollIntervalSec: int(opts.PollInterval / time.Second),
		AutoReply:       opts.AutoReply,
		AutoForward:     opts.AutoForward,
		MaxBatchSize:    opts.MaxBatchSize,
	})
}
