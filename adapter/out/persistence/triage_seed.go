package persistence

import "triage_server/core/domain"

const defaultAvailability = "Business hours: 9 AM - 5 PM EST"

func employee(id, name, title, email, phone, department, manager string) domain.Employee {
	return domain.Employee{
		ID: id,
		Public: domain.PublicInfo{
			Name:         name,
			Title:        title,
			Department:   department,
			CompanyEmail: email,
		},
		Trusted: domain.TrustedInfo{
			Phone:        phone,
			DirectEmail:  email,
			Manager:      manager,
			Availability: defaultAvailability,
		},
		Confidential: &domain.ConfidentialInfo{EmployeeID: id},
	}
}

// SeedEmployees returns the built-in directory, used to populate an
// empty database and to serve static mode when no database is
// configured.
func SeedEmployees() []domain.Employee {
	emps := []domain.Employee{
		employee("EMP001", "Sarah Johnson", "Chief Executive Officer", "sarah.johnson@techcorp.com", "+1 (555) 100-0001", "Executive", "Board of Directors"),
		employee("EMP002", "Michael Chen", "Chief Technology Officer", "michael.chen@techcorp.com", "+1 (555) 100-0002", "Executive", "Sarah Johnson"),
		employee("EMP003", "David Rodriguez", "VP of Sales", "david.rodriguez@techcorp.com", "+1 (555) 200-0001", "Sales", "Sarah Johnson"),
		employee("EMP004", "Lisa Wang", "VP of Marketing", "lisa.wang@techcorp.com", "+1 (555) 200-0002", "Marketing", "Sarah Johnson"),
		employee("EMP005", "Jennifer Smith", "Director of Human Resources", "jennifer.smith@techcorp.com", "+1 (555) 200-0003", "HR", "Sarah Johnson"),
		employee("EMP006", "Robert Kim", "Support Manager", "robert.kim@techcorp.com", "+1 (555) 300-0001", "Support", "Michael Chen"),
		employee("EMP007", "Amanda Taylor", "Technical Lead", "amanda.taylor@techcorp.com", "+1 (555) 300-0002", "Engineering", "Michael Chen"),
		employee("EMP008", "Adil Al", "Sales Representative", "ads.al@laposte.net", "+1 (555) 400-0001", "Sales", "David Rodriguez"),
		employee("EMP009", "Victor Sana", "Support Specialist", "victor.sana@berkeley.edu", "+1 (555) 400-0002", "Support", "Robert Kim"),
		employee("EMP010", "Idris Houiralami", "Technical Specialist", "idris.houiralami@berkeley.edu", "+1 (555) 400-0003", "Engineering", "Amanda Taylor"),
	}

	// Confidential backfill for the executive team
	emps[0].Confidential.SalaryBand = "$300,000 - $400,000"
	emps[0].Confidential.PerformanceRating = "Excellent leadership, strong strategic vision"
	emps[0].Confidential.InternalProjects = []domain.InternalProject{
		{Name: "Strategic Partnership", Status: "active", Sensitive: true},
		{Name: "Product Roadmap", Status: "active", Sensitive: false},
	}
	emps[0].Confidential.PersonalPhone = "+1 (555) 999-0001"
	emps[0].Confidential.HomeAddress = "123 Executive Lane, San Francisco, CA"
	emps[0].Confidential.EmergencyContact = "John Johnson (Spouse) +1 (555) 999-0002"

	emps[1].Confidential.SalaryBand = "$250,000 - $350,000"
	emps[1].Confidential.PerformanceRating = "Technical excellence, innovation leader"
	emps[1].Confidential.InternalProjects = []domain.InternalProject{
		{Name: "AI Platform Development", Status: "active", Sensitive: true},
		{Name: "Security Audit", Status: "in review", Sensitive: false},
	}
	emps[1].Confidential.PersonalPhone = "+1 (555) 999-0003"
	emps[1].Confidential.HomeAddress = "456 Tech Street, Palo Alto, CA"
	emps[1].Confidential.EmergencyContact = "Maria Chen (Spouse) +1 (555) 999-0004"

	emps[2].Confidential.SalaryBand = "$200,000 - $300,000"
	emps[2].Confidential.PerformanceRating = "Strong sales performance, client relationships"
	emps[2].Confidential.InternalProjects = []domain.InternalProject{
		{Name: "Enterprise Sales Strategy", Status: "active", Sensitive: true},
		{Name: "Client Onboarding", Status: "active", Sensitive: false},
	}
	emps[2].Confidential.PersonalPhone = "+1 (555) 999-0005"
	emps[2].Confidential.HomeAddress = "789 Sales Avenue, San Jose, CA"
	emps[2].Confidential.EmergencyContact = "Ana Rodriguez (Spouse) +1 (555) 999-0006"

	return emps
}

// SeedForwardingRules returns the built-in routing table.
func SeedForwardingRules() []domain.ForwardingRule {
	return []domain.ForwardingRule{
		{InquiryType: domain.ForwardSales, Address: "ads.al@laposte.net", Rank: 0},
		{InquiryType: domain.ForwardSupport, Address: "victor.sana@berkeley.edu", Rank: 0},
		{InquiryType: domain.ForwardTechnical, Address: "idris.houiralami@berkeley.edu", Rank: 0},
		{InquiryType: domain.ForwardExecutive, Address: "sarah.johnson@techcorp.com", Rank: 0},
		{InquiryType: domain.ForwardHR, Address: "jennifer.smith@techcorp.com", Rank: 0},
		{InquiryType: domain.ForwardUrgent, Address: "victor.sana@berkeley.edu", Rank: 0},
		{InquiryType: domain.ForwardUrgent, Address: "robert.kim@techcorp.com", Rank: 1},
	}
}
