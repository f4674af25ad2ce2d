package domain

import "strings"

// SecurityLevel classifies how much of an employee record may be
// disclosed to a requester.
type SecurityLevel string

const (
	SecurityPublic       SecurityLevel = "public"
	SecurityTrusted      SecurityLevel = "trusted"
	SecurityConfidential SecurityLevel = "confidential"
)

// ParseSecurityLevel maps a string to a SecurityLevel. Unknown values
// fall through to SecurityPublic so a bad query parameter never widens
// disclosure.
func ParseSecurityLevel(s string) SecurityLevel {
	switch strings.ToLower(s) {
	case "trusted":
		return SecurityTrusted
	case "confidential":
		return SecurityConfidential
	default:
		return SecurityPublic
	}
}

// InternalProject is a confidential work item. Sensitive projects are
// never disclosed, at any level.
type InternalProject struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Sensitive bool   `json:"-"`
}

// PublicInfo is always visible.
type PublicInfo struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	Department   string `json:"department"`
	CompanyEmail string `json:"company_email"`
}

// TrustedInfo is visible only to trusted requesters.
type TrustedInfo struct {
	Phone        string `json:"phone"`
	DirectEmail  string `json:"direct_email"`
	Manager      string `json:"manager"`
	Availability string `json:"availability"`
}

// ConfidentialInfo is visible only to trusted requesters at the
// confidential level, and even then only the whitelisted subset.
type ConfidentialInfo struct {
	EmployeeID        string            `json:"employee_id"`
	SalaryBand        string            `json:"-"`
	PerformanceRating string            `json:"-"`
	InternalProjects  []InternalProject `json:"internal_projects"`
	PersonalPhone     string            `json:"-"`
	HomeAddress       string            `json:"-"`
	EmergencyContact  string            `json:"-"`
}

// Employee is a directory record. The three bundles are fixed
// partitions; a field never appears in two bundles.
type Employee struct {
	ID           string            `json:"id"`
	Public       PublicInfo        `json:"public"`
	Trusted      TrustedInfo       `json:"trusted"`
	Confidential *ConfidentialInfo `json:"confidential,omitempty"`
}

// FilteredRecord is an employee view after level filtering. A minimal
// view carries only name, title and department; the public view adds
// the company email; trusted and confidential views layer further
// fields on top.
type FilteredRecord struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	Department   string `json:"department"`
	CompanyEmail string `json:"company_email,omitempty"`

	Phone        string `json:"phone,omitempty"`
	DirectEmail  string `json:"direct_email,omitempty"`
	Manager      string `json:"manager,omitempty"`
	Availability string `json:"availability,omitempty"`

	EmployeeID       string            `json:"employee_id,omitempty"`
	InternalProjects []InternalProject `json:"internal_projects,omitempty"`
}

// MinimalView returns the three-field view used when a privileged
// level is requested but not earned. Deliberately narrower than the
// public view: the company email is withheld.
func (e *Employee) MinimalView() FilteredRecord {
	return FilteredRecord{
		Name:       e.Public.Name,
		Title:      e.Public.Title,
		Department: e.Public.Department,
	}
}

// PublicView returns the four public fields.
func (e *Employee) PublicView() FilteredRecord {
	return FilteredRecord{
		Name:         e.Public.Name,
		Title:        e.Public.Title,
		Department:   e.Public.Department,
		CompanyEmail: e.Public.CompanyEmail,
	}
}

// TrustedView returns public plus trusted bundles.
func (e *Employee) TrustedView() FilteredRecord {
	rec := e.PublicView()
	rec.Phone = e.Trusted.Phone
	rec.DirectEmail = e.Trusted.DirectEmail
	rec.Manager = e.Trusted.Manager
	rec.Availability = e.Trusted.Availability
	return rec
}

// ConfidentialView returns the trusted view plus the whitelisted
// confidential subset: the employee ID and non-sensitive internal
// projects. Everything else in the confidential bundle stays hidden.
func (e *Employee) ConfidentialView() FilteredRecord {
	rec := e.TrustedView()
	if e.Confidential == nil {
		return rec
	}
	rec.EmployeeID = e.Confidential.EmployeeID
	for _, p := range e.Confidential.InternalProjects {
		if p.Sensitive {
			continue
		}
		rec.InternalProjects = append(rec.InternalProjects, p)
	}
	return rec
}
