// Package directory implements the employee directory with per-field
// security filtering.
package directory

import (
	"context"
	"strings"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"
)

// Trust signal lists. Substring matching is case-insensitive and
// intentionally loose: a sender address containing a trusted domain
// anywhere matches, and urgency keywords widen trust.
var (
	defaultTrustedDomains = []string{
		"@techcorp.com", "@partner.com", "@investor.com",
		"@client.com", "@berkeley.edu", "@laposte.net",
	}
	defaultTrustedKeywords = []string{
		"partnership", "collaboration", "contract", "agreement",
		"investment", "acquisition", "merger", "board",
		"enterprise", "enterprise client", "large contract", "strategic",
	}
	defaultUrgentKeywords = []string{
		"urgent", "emergency", "asap", "immediately", "critical",
	}
)

// Service resolves level-filtered employee views.
type Service struct {
	repo out.EmployeeRepository

	trustedDomains  []string
	trustedKeywords []string
	urgentKeywords  []string
}

// NewService creates a directory service with the default trust lists.
func NewService(repo out.EmployeeRepository) *Service {
	return &Service{
		repo:            repo,
		trustedDomains:  defaultTrustedDomains,
		trustedKeywords: defaultTrustedKeywords,
		urgentKeywords:  defaultUrgentKeywords,
	}
}

// IsTrustedRequester reports whether the inquiry context qualifies for
// elevated disclosure. Pure and deterministic given (sender, subject,
// body).
func (s *Service) IsTrustedRequester(ictx domain.InquiryContext) bool {
	sender := strings.ToLower(ictx.Sender)
	for _, d := range s.trustedDomains {
		if strings.Contains(sender, d) {
			return true
		}
	}

	text := strings.ToLower(ictx.Subject + " " + ictx.Body)
	for _, kw := range s.trustedKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	for _, kw := range s.urgentKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ViewForLevel applies the disclosure policy to one record. A
// privileged level requested without trust yields the minimal
// three-field view, not the public view.
func (s *Service) ViewForLevel(emp *domain.Employee, level domain.SecurityLevel, ictx domain.InquiryContext) domain.FilteredRecord {
	switch level {
	case domain.SecurityPublic:
		return emp.PublicView()
	case domain.SecurityTrusted:
		if s.IsTrustedRequester(ictx) {
			return emp.TrustedView()
		}
		return emp.MinimalView()
	case domain.SecurityConfidential:
		if s.IsTrustedRequester(ictx) {
			return emp.ConfidentialView()
		}
		return emp.MinimalView()
	default:
		return emp.MinimalView()
	}
}

// Get returns one employee at the requested level.
func (s *Service) Get(ctx context.Context, id string, level domain.SecurityLevel, ictx domain.InquiryContext) (*domain.FilteredRecord, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, apperr.NotFound("employee")
	}
	rec := s.ViewForLevel(emp, level, ictx)
	return &rec, nil
}

// GetByEmail resolves an employee by company email, case-insensitive
// exact match.
func (s *Service) GetByEmail(ctx context.Context, email string, level domain.SecurityLevel, ictx domain.InquiryContext) (*domain.FilteredRecord, error) {
	emp, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, apperr.NotFound("employee")
	}
	rec := s.ViewForLevel(emp, level, ictx)
	return &rec, nil
}

// Search matches the query against name, title and department
// substrings, case-insensitively, and filters each hit by level.
func (s *Service) Search(ctx context.Context, query string, level domain.SecurityLevel, ictx domain.InquiryContext) ([]domain.FilteredRecord, error) {
	emps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var results []domain.FilteredRecord
	for i := range emps {
		e := &emps[i]
		if strings.Contains(strings.ToLower(e.Public.Name), q) ||
			strings.Contains(strings.ToLower(e.Public.Title), q) ||
			strings.Contains(strings.ToLower(e.Public.Department), q) {
			results = append(results, s.ViewForLevel(e, level, ictx))
		}
	}
	return results, nil
}

// ByDepartment lists a department's employees at the requested level.
func (s *Service) ByDepartment(ctx context.Context, department string, level domain.SecurityLevel, ictx domain.InquiryContext) ([]domain.FilteredRecord, error) {
	emps, err := s.repo.ByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}

	results := make([]domain.FilteredRecord, 0, len(emps))
	for i := range emps {
		results = append(results, s.ViewForLevel(&emps[i], level, ictx))
	}
	return results, nil
}

// List returns public views of every employee.
func (s *Service) List(ctx context.Context) ([]domain.FilteredRecord, error) {
	emps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]domain.FilteredRecord, 0, len(emps))
	for i := range emps {
		results = append(results, emps[i].PublicView())
	}
	return results, nil
}

// RawByDepartment exposes unfiltered records to in-process callers
// that need contact emails for routing (never serialized outward).
func (s *Service) RawByDepartment(ctx context.Context, department string) ([]domain.Employee, error) {
	return s.repo.ByDepartment(ctx, department)
}
