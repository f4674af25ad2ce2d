// Package knowledge implements the company knowledge base with
// controlled information disclosure.
package knowledge

import (
	"context"
	"strings"

	"triage_server/core/domain"
	"triage_server/core/service/directory"
)

// High-tier signals. The domain list here is narrower than the
// directory's trust list: only first-party, partner and investor
// domains earn the high tier outright.
var (
	highDisclosureDomains = []string{
		"@techcorp.com", "@partner.com", "@investor.com",
	}
	highDisclosureKeywords = []string{
		"partnership", "investment", "acquisition", "merger", "board", "investor",
		"enterprise", "enterprise client", "large contract", "strategic",
	}
	urgentKeywords = []string{
		"urgent", "emergency", "asap", "immediately", "critical",
	}
)

// Topic keyword groups scanned when assembling response info. Groups
// are independent and non-exclusive; every matching group contributes.
var (
	contactTopics = []struct {
		Type     string
		Group    string
		Keywords []string
	}{
		{Type: "sales", Group: "management", Keywords: []string{"sales", "pricing", "quote", "buy"}},
		{Type: "support", Group: "support", Keywords: []string{"support", "help", "issue", "problem"}},
		{Type: "hr", Group: "management", Keywords: []string{"job", "career", "hiring", "resume"}},
		{Type: "executive", Group: "executive", Keywords: []string{"manager", "executive", "ceo", "cto"}},
	}
	serviceTopics = []struct {
		Key      string
		Keywords []string
	}{
		{Key: "cloud_solutions", Keywords: []string{"cloud", "infrastructure", "migration"}},
		{Key: "ai_consulting", Keywords: []string{"ai", "artificial intelligence", "machine learning"}},
		{Key: "support_services", Keywords: []string{"support", "maintenance", "technical"}},
	}
)

// Contact group to department mapping used by contact resolution.
var departmentsByGroup = map[string][]string{
	"executive":  {"Executive"},
	"management": {"Sales", "Marketing", "HR"},
	"support":    {"Support", "Engineering"},
}

// fallbackContact is returned when no department employee resolves.
var fallbackContact = domain.ContactCard{
	Name:            "Support Team",
	Email:           "support@techcorp.com",
	Phone:           "+1 (555) 123-4567",
	Title:           "Customer Support",
	DisclosureLevel: "public",
}

// Service is the knowledge base.
type Service struct {
	directory *directory.Service

	company  domain.CompanyInfo
	services map[string]domain.ServiceInfo
	policies domain.Policies
}

// NewService creates the knowledge base with the built-in catalog.
func NewService(dir *directory.Service) *Service {
	return &Service{
		directory: dir,
		company: domain.CompanyInfo{
			Name:         "TechCorp Solutions",
			Website:      "https://techcorp.com",
			Industry:     "Technology Solutions",
			Founded:      "2015",
			Headquarters: "San Francisco, CA",
			Mission:      "Empowering businesses with innovative technology solutions",
			Values:       []string{"Innovation", "Integrity", "Customer Focus", "Excellence"},
		},
		services: map[string]domain.ServiceInfo{
			"cloud_solutions": {
				Key:             "cloud_solutions",
				Name:            "Cloud Solutions",
				Description:     "Scalable cloud infrastructure and migration services",
				Pricing:         "Starting at $5,000/month",
				Contact:         "david.rodriguez@techcorp.com",
				DisclosureLevel: domain.DisclosurePublic,
			},
			"ai_consulting": {
				Key:             "ai_consulting",
				Name:            "AI Consulting",
				Description:     "Artificial intelligence strategy and implementation",
				Pricing:         "Custom pricing based on project scope",
				Contact:         "michael.chen@techcorp.com",
				DisclosureLevel: domain.DisclosureRestricted,
			},
			"support_services": {
				Key:             "support_services",
				Name:            "Support Services",
				Description:     "24/7 technical support and maintenance",
				Pricing:         "Starting at $2,000/month",
				Contact:         "robert.kim@techcorp.com",
				DisclosureLevel: domain.DisclosurePublic,
			},
		},
		policies: domain.Policies{
			"privacy":       "We maintain strict confidentiality and data protection standards",
			"response_time": "We respond to all inquiries within 24 hours",
			"emergency":     "For urgent matters, call our emergency line: +1 (555) 911-HELP",
			"disclosure":    "Information sharing is based on inquiry type and authorization level",
		},
	}
}

// DisclosureTier classifies an inquiry as standard or high. Pure
// function of the context; monotonic under keyword addition.
func (s *Service) DisclosureTier(ictx domain.InquiryContext) domain.DisclosureTier {
	sender := strings.ToLower(ictx.Sender)
	for _, d := range highDisclosureDomains {
		if strings.Contains(sender, d) {
			return domain.TierHigh
		}
	}

	text := strings.ToLower(ictx.Subject + " " + ictx.Body)
	for _, kw := range highDisclosureKeywords {
		if strings.Contains(text, kw) {
			return domain.TierHigh
		}
	}
	for _, kw := range urgentKeywords {
		if strings.Contains(text, kw) {
			return domain.TierHigh
		}
	}
	return domain.TierStandard
}

// ContactInfo resolves the best contact for a contact group at the
// tier the inquiry earns. Falls back to the generic support contact
// when no department employee resolves.
func (s *Service) ContactInfo(ctx context.Context, group string, ictx domain.InquiryContext) *domain.ContactCard {
	tier := s.DisclosureTier(ictx)
	level := tier.SecurityLevelFor()

	departments, ok := departmentsByGroup[group]
	if !ok {
		fb := fallbackContact
		return &fb
	}

	for _, dept := range departments {
		records, err := s.directory.ByDepartment(ctx, dept, level, ictx)
		if err != nil || len(records) == 0 {
			continue
		}
		rec := records[0]
		email := rec.CompanyEmail
		if email == "" {
			email = rec.DirectEmail
		}
		return &domain.ContactCard{
			Name:            rec.Name,
			Email:           email,
			Phone:           rec.Phone,
			Title:           rec.Title,
			Department:      rec.Department,
			DisclosureLevel: string(level),
		}
	}

	fb := fallbackContact
	return &fb
}

// ServiceInfo returns the named service only if its catalog tag is
// public or the inquiry earns the high tier.
func (s *Service) ServiceInfo(name string, ictx domain.InquiryContext) *domain.ServiceInfo {
	svc, ok := s.services[name]
	if !ok {
		return nil
	}
	if svc.DisclosureLevel == domain.DisclosurePublic || s.DisclosureTier(ictx) == domain.TierHigh {
		out := svc
		return &out
	}
	return nil
}

// CompanyInfo returns the full profile at the high tier, the reduced
// subset otherwise.
func (s *Service) CompanyInfo(ictx domain.InquiryContext) domain.CompanyInfo {
	if s.DisclosureTier(ictx) == domain.TierHigh {
		return s.company
	}
	return s.company.Reduced()
}

// SearchContacts runs a directory search at the tier the inquiry
// earns and shapes the hits as contact cards.
func (s *Service) SearchContacts(ctx context.Context, query string, ictx domain.InquiryContext) ([]domain.TypedContact, error) {
	level := s.DisclosureTier(ictx).SecurityLevelFor()
	records, err := s.directory.Search(ctx, query, level, ictx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.TypedContact, 0, len(records))
	for _, rec := range records {
		email := rec.CompanyEmail
		if email == "" {
			email = rec.DirectEmail
		}
		results = append(results, domain.TypedContact{
			Type: rec.Department,
			Info: domain.ContactCard{
				Name:            rec.Name,
				Email:           email,
				Phone:           rec.Phone,
				Title:           rec.Title,
				Department:      rec.Department,
				DisclosureLevel: string(level),
			},
		})
	}
	return results, nil
}

// ResponseInfoFor assembles everything the composer may draw on:
// tier, company profile, topic-matched contacts and services, and the
// standing policies.
func (s *Service) ResponseInfoFor(ctx context.Context, ictx domain.InquiryContext) (*domain.ResponseInfo, error) {
	tier := s.DisclosureTier(ictx)
	text := strings.ToLower(ictx.Subject + " " + ictx.Body)

	info := &domain.ResponseInfo{
		DisclosureTier: tier,
		Company:        s.CompanyInfo(ictx),
		Policies:       s.policies,
	}

	for _, topic := range contactTopics {
		if !containsAny(text, topic.Keywords) {
			continue
		}
		if card := s.ContactInfo(ctx, topic.Group, ictx); card != nil {
			info.Contacts = append(info.Contacts, domain.TypedContact{Type: topic.Type, Info: *card})
		}
	}

	for _, topic := range serviceTopics {
		if !containsAny(text, topic.Keywords) {
			continue
		}
		if svc := s.ServiceInfo(topic.Key, ictx); svc != nil {
			info.Services = append(info.Services, *svc)
		}
	}

	return info, nil
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
