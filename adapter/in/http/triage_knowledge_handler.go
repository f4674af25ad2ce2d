package http

import (
	"triage_server/core/port/in"
	"triage_server/pkg/apperr"
	"triage_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// KnowledgeHandler exposes the tier-filtered knowledge base.
type KnowledgeHandler struct {
	knowledge in.KnowledgeService
}

// NewKnowledgeHandler creates a new knowledge handler.
func NewKnowledgeHandler(knowledge in.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledge: knowledge}
}

// Register registers knowledge routes.
func (h *KnowledgeHandler) Register(router fiber.Router) {
	knowledge := router.Group("/knowledge")
	knowledge.Get("/company", h.Company)
	knowledge.Get("/search", h.SearchContacts)
	knowledge.Get("/response-info", h.ResponseInfo)
}

// Company returns the company profile at the tier the requester earns.
func (h *KnowledgeHandler) Company(c *fiber.Ctx) error {
	ictx := requesterContext(c)
	return response.OK(c, fiber.Map{
		"disclosure_tier": h.knowledge.DisclosureTier(ictx),
		"company":         h.knowledge.CompanyInfo(ictx),
	})
}

// SearchContacts runs a tiered contact search.
func (h *KnowledgeHandler) SearchContacts(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return apperr.MissingField("q")
	}
	contacts, err := h.knowledge.SearchContacts(c.Context(), query, requesterContext(c))
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, contacts, &response.Meta{Total: len(contacts)})
}

// ResponseInfo assembles the full response context an inquiry would
// receive, useful for inspecting disclosure decisions.
func (h *KnowledgeHandler) ResponseInfo(c *fiber.Ctx) error {
	ictx := requesterContext(c)
	if ictx.Sender == "" {
		return apperr.MissingField("from")
	}
	info, err := h.knowledge.ResponseInfoFor(c.Context(), ictx)
	if err != nil {
		return err
	}
	return response.OK(c, info)
}
