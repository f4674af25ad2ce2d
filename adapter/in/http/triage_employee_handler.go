package http

import (
	"triage_server/core/domain"
	"triage_server/core/port/in"
	"triage_server/pkg/apperr"
	"triage_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EmployeeHandler exposes level-filtered directory views. The caller
// declares who is asking via query parameters; the directory's trust
// gate decides what they actually see.
type EmployeeHandler struct {
	directory in.DirectoryService
}

// NewEmployeeHandler creates a new employee handler.
func NewEmployeeHandler(directory in.DirectoryService) *EmployeeHandler {
	return &EmployeeHandler{directory: directory}
}

// Register registers employee routes.
func (h *EmployeeHandler) Register(router fiber.Router) {
	employees := router.Group("/employees")
	employees.Get("/", h.List)
	employees.Get("/search", h.Search)
	employees.Get("/by-email", h.GetByEmail)
	employees.Get("/department/:name", h.ByDepartment)
	employees.Get("/:id", h.Get)
}

// requesterContext builds the inquiry context from query parameters.
// The "from" address plus optional subject and context text feed the
// same trust evaluation the inbox pipeline uses.
func requesterContext(c *fiber.Ctx) domain.InquiryContext {
	return domain.InquiryContext{
		Sender:  c.Query("from"),
		Subject: c.Query("subject"),
		Body:    c.Query("context"),
	}
}

// List returns public views of the whole directory.
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	records, err := h.directory.List(c.Context())
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, records, &response.Meta{Total: len(records)})
}

// Get returns one employee at the requested level.
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	level := domain.ParseSecurityLevel(c.Query("level", "public"))
	record, err := h.directory.Get(c.Context(), c.Params("id"), level, requesterContext(c))
	if err != nil {
		return err
	}
	return response.OK(c, record)
}

// GetByEmail resolves an employee by company email.
func (h *EmployeeHandler) GetByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return apperr.MissingField("email")
	}
	level := domain.ParseSecurityLevel(c.Query("level", "public"))
	record, err := h.directory.GetByEmail(c.Context(), email, level, requesterContext(c))
	if err != nil {
		return err
	}
	return response.OK(c, record)
}

// Search matches name, title and department substrings.
func (h *EmployeeHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return apperr.MissingField("q")
	}
	level := domain.ParseSecurityLevel(c.Query("level", "public"))
	records, err := h.directory.Search(c.Context(), query, level, requesterContext(c))
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, records, &response.Meta{Total: len(records)})
}

// ByDepartment lists a department's employees.
func (h *EmployeeHandler) ByDepartment(c *fiber.Ctx) error {
	level := domain.ParseSecurityLevel(c.Query("level", "public"))
	records, err := h.directory.ByDepartment(c.Context(), c.Params("name"), level, requesterContext(c))
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, records, &response.Meta{Total: len(records)})
}
