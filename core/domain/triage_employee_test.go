package domain

import "testing"

func sampleEmployee() *Employee {
	return &Employee{
		ID: "EMP001",
		Public: PublicInfo{
			Name:         "Sarah Johnson",
			Title:        "CEO",
			Department:   "Executive",
			CompanyEmail: "sarah.johnson@techcorp.com",
		},
		Trusted: TrustedInfo{
			Phone:        "+1 (555) 100-0001",
			DirectEmail:  "sarah.johnson@techcorp.com",
			Manager:      "Board of Directors",
			Availability: "Business hours: 9 AM - 5 PM EST",
		},
		Confidential: &ConfidentialInfo{
			EmployeeID:        "EMP001",
			SalaryBand:        "$300,000 - $400,000",
			PerformanceRating: "Exceeds Expectations",
			InternalProjects: []InternalProject{
				{Name: "Strategic Partnership", Status: "active", Sensitive: true},
				{Name: "Product Roadmap", Status: "active"},
			},
			PersonalPhone: "+1 (555) 999-0001",
			HomeAddress:   "123 Private Lane",
		},
	}
}

func TestParseSecurityLevel(t *testing.T) {
	tests := []struct {
		input string
		want  SecurityLevel
	}{
		{"public", SecurityPublic},
		{"trusted", SecurityTrusted},
		{"TRUSTED", SecurityTrusted},
		{"confidential", SecurityConfidential},
		{"admin", SecurityPublic},
		{"", SecurityPublic},
	}
	for _, tt := range tests {
		if got := ParseSecurityLevel(tt.input); got != tt.want {
			t.Errorf("ParseSecurityLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMinimalView_OmitsCompanyEmail(t *testing.T) {
	rec := sampleEmployee().MinimalView()

	if rec.Name != "Sarah Johnson" || rec.Title != "CEO" || rec.Department != "Executive" {
		t.Errorf("minimal view missing base fields: %+v", rec)
	}
	if rec.CompanyEmail != "" {
		t.Errorf("minimal view must not include company email, got %q", rec.CompanyEmail)
	}
	if rec.Phone != "" || rec.DirectEmail != "" || rec.EmployeeID != "" {
		t.Errorf("minimal view leaked privileged fields: %+v", rec)
	}
}

func TestPublicView(t *testing.T) {
	rec := sampleEmployee().PublicView()

	if rec.CompanyEmail != "sarah.johnson@techcorp.com" {
		t.Errorf("public view company email = %q", rec.CompanyEmail)
	}
	if rec.Phone != "" || rec.Manager != "" || rec.EmployeeID != "" {
		t.Errorf("public view leaked privileged fields: %+v", rec)
	}
}

func TestTrustedView(t *testing.T) {
	rec := sampleEmployee().TrustedView()

	if rec.Phone != "+1 (555) 100-0001" || rec.Manager != "Board of Directors" {
		t.Errorf("trusted view missing trusted fields: %+v", rec)
	}
	if rec.EmployeeID != "" || rec.InternalProjects != nil {
		t.Errorf("trusted view leaked confidential fields: %+v", rec)
	}
}

func TestConfidentialView_ElidesSensitiveProjects(t *testing.T) {
	rec := sampleEmployee().ConfidentialView()

	if rec.EmployeeID != "EMP001" {
		t.Errorf("confidential view employee id = %q", rec.EmployeeID)
	}
	if len(rec.InternalProjects) != 1 {
		t.Fatalf("expected 1 non-sensitive project, got %d", len(rec.InternalProjects))
	}
	if rec.InternalProjects[0].Name != "Product Roadmap" {
		t.Errorf("wrong project surfaced: %+v", rec.InternalProjects[0])
	}
}

func TestConfidentialView_NilBundle(t *testing.T) {
	emp := sampleEmployee()
	emp.Confidential = nil

	rec := emp.ConfidentialView()
	if rec.EmployeeID != "" || rec.InternalProjects != nil {
		t.Errorf("nil confidential bundle must yield the trusted view: %+v", rec)
	}
	if rec.Phone == "" {
		t.Error("trusted fields missing from degraded confidential view")
	}
}
