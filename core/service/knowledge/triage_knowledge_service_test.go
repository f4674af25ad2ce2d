package knowledge

import (
	"context"
	"testing"

	"triage_server/core/domain"
	"triage_server/core/service/directory"
)

type fakeEmployeeRepo struct {
	employees []domain.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	for i := range f.employees {
		if f.employees[i].ID == id {
			return &f.employees[i], nil
		}
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) GetByEmail(_ context.Context, _ string) (*domain.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) List(_ context.Context) ([]domain.Employee, error) {
	return f.employees, nil
}

func (f *fakeEmployeeRepo) ByDepartment(_ context.Context, department string) ([]domain.Employee, error) {
	var out []domain.Employee
	for _, e := range f.employees {
		if e.Public.Department == department {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestService() *Service {
	repo := &fakeEmployeeRepo{employees: []domain.Employee{
		{
			ID: "EMP003",
			Public: domain.PublicInfo{
				Name: "David Rodriguez", Title: "VP of Sales", Department: "Sales",
				CompanyEmail: "david.rodriguez@techcorp.com",
			},
			Trusted: domain.TrustedInfo{Phone: "+1 (555) 100-0003"},
		},
		{
			ID: "EMP006",
			Public: domain.PublicInfo{
				Name: "Robert Kim", Title: "Support Manager", Department: "Support",
				CompanyEmail: "robert.kim@techcorp.com",
			},
		},
	}}
	return NewService(directory.NewService(repo))
}

func TestDisclosureTier(t *testing.T) {
	s := newTestService()

	tests := []struct {
		name string
		ictx domain.InquiryContext
		want domain.DisclosureTier
	}{
		{"first-party domain", domain.InquiryContext{Sender: "a@techcorp.com"}, domain.TierHigh},
		{"partner domain", domain.InquiryContext{Sender: "a@partner.com"}, domain.TierHigh},
		{"investor domain", domain.InquiryContext{Sender: "a@investor.com"}, domain.TierHigh},
		{"client domain is not high", domain.InquiryContext{Sender: "a@client.com"}, domain.TierStandard},
		{"investor keyword", domain.InquiryContext{Sender: "a@other.org", Body: "as an investor I would like"}, domain.TierHigh},
		{"merger keyword in subject", domain.InquiryContext{Sender: "a@other.org", Subject: "merger discussion"}, domain.TierHigh},
		{"urgency earns high", domain.InquiryContext{Sender: "a@other.org", Body: "please respond ASAP"}, domain.TierHigh},
		{"plain inquiry", domain.InquiryContext{Sender: "a@other.org", Body: "hello"}, domain.TierStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.DisclosureTier(tt.ictx); got != tt.want {
				t.Errorf("DisclosureTier() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompanyInfo_TierGated(t *testing.T) {
	s := newTestService()

	full := s.CompanyInfo(domain.InquiryContext{Sender: "a@partner.com"})
	if full.Founded == "" || full.Headquarters == "" {
		t.Errorf("high tier must see the full profile: %+v", full)
	}

	reduced := s.CompanyInfo(domain.InquiryContext{Sender: "a@other.org", Body: "hello"})
	if reduced.Founded != "" || reduced.Headquarters != "" || reduced.Values != nil {
		t.Errorf("standard tier must see the reduced profile: %+v", reduced)
	}
	if reduced.Name == "" || reduced.Mission == "" {
		t.Errorf("reduced profile dropped public fields: %+v", reduced)
	}
}

func TestServiceInfo_RestrictedGated(t *testing.T) {
	s := newTestService()
	outsider := domain.InquiryContext{Sender: "a@other.org", Body: "hello"}
	partner := domain.InquiryContext{Sender: "a@partner.com"}

	if got := s.ServiceInfo("cloud_solutions", outsider); got == nil {
		t.Error("public service must be visible at the standard tier")
	}
	if got := s.ServiceInfo("ai_consulting", outsider); got != nil {
		t.Errorf("restricted service leaked at the standard tier: %+v", got)
	}
	if got := s.ServiceInfo("ai_consulting", partner); got == nil {
		t.Error("restricted service must be visible at the high tier")
	}
	if got := s.ServiceInfo("no_such_service", partner); got != nil {
		t.Errorf("unknown service = %+v", got)
	}
}

func TestResponseInfoFor_TopicGroups(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	info, err := s.ResponseInfoFor(ctx, domain.InquiryContext{
		Sender: "jane@client.com",
		Body:   "I need a pricing quote and also help with a support issue",
	})
	if err != nil {
		t.Fatalf("ResponseInfoFor() error = %v", err)
	}

	types := map[string]bool{}
	for _, c := range info.Contacts {
		types[c.Type] = true
	}
	if !types["sales"] || !types["support"] {
		t.Errorf("expected sales and support contacts, got %+v", info.Contacts)
	}
	if info.Policies["emergency"] == "" {
		t.Error("policies must always be attached")
	}
}

func TestResponseInfoFor_FallbackContact(t *testing.T) {
	s := newTestService()

	// Executive group has no employees in the fake repo; the generic
	// support contact fills in.
	info, err := s.ResponseInfoFor(context.Background(), domain.InquiryContext{
		Sender: "jane@client.com",
		Body:   "I want to reach your ceo",
	})
	if err != nil {
		t.Fatalf("ResponseInfoFor() error = %v", err)
	}
	if len(info.Contacts) == 0 {
		t.Fatal("expected a contact for the executive topic")
	}
	if info.Contacts[0].Info.Email != "support@techcorp.com" {
		t.Errorf("fallback contact = %+v", info.Contacts[0].Info)
	}
}

func TestSearchContacts_LevelFromTier(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	// Standard tier from a trusted domain maps to the trusted level, so
	// phone detail is available.
	results, err := s.SearchContacts(ctx, "sales", domain.InquiryContext{Sender: "jane@client.com"})
	if err != nil {
		t.Fatalf("SearchContacts() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(results))
	}
	if results[0].Info.Phone != "+1 (555) 100-0003" {
		t.Errorf("trusted-level search must include the phone: %+v", results[0].Info)
	}
}
