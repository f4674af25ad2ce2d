package directory

import (
	"context"
	"testing"

	"triage_server/core/domain"
	"triage_server/pkg/apperr"
)

type fakeEmployeeRepo struct {
	employees []domain.Employee
	err       error
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.employees {
		if f.employees[i].ID == id {
			return &f.employees[i], nil
		}
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	for i := range f.employees {
		if f.employees[i].Public.CompanyEmail == email {
			return &f.employees[i], nil
		}
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) List(_ context.Context) ([]domain.Employee, error) {
	return f.employees, f.err
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

func testEmployees() []domain.Employee {
	return []domain.Employee{
		{
			ID: "EMP001",
			Public: domain.PublicInfo{
				Name: "Sarah Johnson", Title: "CEO", Department: "Executive",
				CompanyEmail: "sarah.johnson@techcorp.com",
			},
			Trusted: domain.TrustedInfo{
				Phone: "+1 (555) 100-0001", DirectEmail: "sarah.johnson@techcorp.com",
				Manager: "Board of Directors",
			},
			Confidential: &domain.ConfidentialInfo{
				EmployeeID: "EMP001",
				InternalProjects: []domain.InternalProject{
					{Name: "Strategic Partnership", Status: "active", Sensitive: true},
					{Name: "Product Roadmap", Status: "active"},
				},
			},
		},
		{
			ID: "EMP006",
			Public: domain.PublicInfo{
				Name: "Robert Kim", Title: "Support Manager", Department: "Support",
				CompanyEmail: "robert.kim@techcorp.com",
			},
			Trusted: domain.TrustedInfo{Phone: "+1 (555) 100-0006"},
		},
	}
}

func TestIsTrustedRequester(t *testing.T) {
	s := NewService(&fakeEmployeeRepo{})

	tests := []struct {
		name string
		ictx domain.InquiryContext
		want bool
	}{
		{"trusted domain", domain.InquiryContext{Sender: "jane@client.com"}, true},
		{"trusted domain case-insensitive", domain.InquiryContext{Sender: "Jane@Client.COM"}, true},
		{"domain as substring of display form", domain.InquiryContext{Sender: "Jane Doe <jane@partner.com>"}, true},
		{"trusted keyword in subject", domain.InquiryContext{Sender: "x@unknown.org", Subject: "Partnership proposal"}, true},
		{"trusted keyword in body", domain.InquiryContext{Sender: "x@unknown.org", Body: "our board would like to discuss"}, true},
		{"urgency widens trust", domain.InquiryContext{Sender: "x@unknown.org", Body: "this is URGENT"}, true},
		{"plain outsider", domain.InquiryContext{Sender: "x@unknown.org", Subject: "hello", Body: "a question"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.IsTrustedRequester(tt.ictx); got != tt.want {
				t.Errorf("IsTrustedRequester() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestViewForLevel_UnearnedPrivilegeYieldsMinimal(t *testing.T) {
	s := NewService(&fakeEmployeeRepo{})
	emp := &testEmployees()[0]
	outsider := domain.InquiryContext{Sender: "x@unknown.org", Body: "hello"}

	for _, level := range []domain.SecurityLevel{domain.SecurityTrusted, domain.SecurityConfidential} {
		rec := s.ViewForLevel(emp, level, outsider)
		if rec.CompanyEmail != "" {
			t.Errorf("level %s without trust leaked company email %q", level, rec.CompanyEmail)
		}
		if rec.Phone != "" || rec.EmployeeID != "" {
			t.Errorf("level %s without trust leaked privileged fields: %+v", level, rec)
		}
		if rec.Name == "" {
			t.Errorf("minimal view must keep the name")
		}
	}

	// Public level needs no trust and is wider than minimal.
	rec := s.ViewForLevel(emp, domain.SecurityPublic, outsider)
	if rec.CompanyEmail == "" {
		t.Error("public view must include the company email")
	}
}

func TestViewForLevel_TrustedRequester(t *testing.T) {
	s := NewService(&fakeEmployeeRepo{})
	emp := &testEmployees()[0]
	trusted := domain.InquiryContext{Sender: "jane@partner.com"}

	rec := s.ViewForLevel(emp, domain.SecurityTrusted, trusted)
	if rec.Phone == "" || rec.Manager == "" {
		t.Errorf("trusted requester missing trusted fields: %+v", rec)
	}
	if rec.EmployeeID != "" {
		t.Errorf("trusted level leaked confidential fields: %+v", rec)
	}

	rec = s.ViewForLevel(emp, domain.SecurityConfidential, trusted)
	if rec.EmployeeID != "EMP001" {
		t.Errorf("confidential view employee id = %q", rec.EmployeeID)
	}
	for _, p := range rec.InternalProjects {
		if p.Name == "Strategic Partnership" {
			t.Error("sensitive project surfaced in confidential view")
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	s := NewService(&fakeEmployeeRepo{employees: testEmployees()})

	_, err := s.Get(context.Background(), "EMP999", domain.SecurityPublic, domain.InquiryContext{})
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	s := NewService(&fakeEmployeeRepo{employees: testEmployees()})
	ctx := context.Background()

	results, err := s.Search(ctx, "support", domain.SecurityPublic, domain.InquiryContext{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Name != "Robert Kim" {
		t.Errorf("Search(support) = %+v", results)
	}

	results, err = s.Search(ctx, "CEO", domain.SecurityPublic, domain.InquiryContext{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Name != "Sarah Johnson" {
		t.Errorf("Search(CEO) = %+v", results)
	}
}
