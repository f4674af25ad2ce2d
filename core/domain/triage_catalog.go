package domain

// Intrinsic disclosure tags carried by catalog entries.
const (
	DisclosurePublic     = "public"
	DisclosureRestricted = "restricted"
)

// CompanyInfo is the company profile. The reduced subset returned at
// the standard tier is name/website/industry/mission.
type CompanyInfo struct {
	Name         string   `json:"name"`
	Website      string   `json:"website"`
	Industry     string   `json:"industry"`
	Founded      string   `json:"founded,omitempty"`
	Headquarters string   `json:"headquarters,omitempty"`
	Mission      string   `json:"mission"`
	Values       []string `json:"values,omitempty"`
}

// Reduced returns the public subset disclosed at the standard tier.
func (c CompanyInfo) Reduced() CompanyInfo {
	return CompanyInfo{
		Name:     c.Name,
		Website:  c.Website,
		Industry: c.Industry,
		Mission:  c.Mission,
	}
}

// ContactCard is a resolved contact as surfaced in response info.
type ContactCard struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Title           string `json:"title"`
	Department      string `json:"department,omitempty"`
	DisclosureLevel string `json:"disclosure_level"`
}

// TypedContact tags a contact card with the topic that pulled it in.
type TypedContact struct {
	Type string      `json:"type"`
	Info ContactCard `json:"info"`
}

// ServiceInfo describes a company service offering.
type ServiceInfo struct {
	Key             string `json:"-"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Pricing         string `json:"pricing,omitempty"`
	Contact         string `json:"contact,omitempty"`
	DisclosureLevel string `json:"disclosure_level"`
}

// Policies are the standing company policies included in every
// response context.
type Policies map[string]string

// ResponseInfo is everything the composer may draw on for one inquiry.
// Topic groups are non-exclusive: multiple groups can all contribute
// contacts and services.
type ResponseInfo struct {
	DisclosureTier DisclosureTier `json:"disclosure_level"`
	Company        CompanyInfo    `json:"company_info"`
	Contacts       []TypedContact `json:"contacts"`
	Services       []ServiceInfo  `json:"services"`
	Policies       Policies       `json:"policies"`
}

// PrimaryContact returns the first resolved contact, if any.
func (r *ResponseInfo) PrimaryContact() *ContactCard {
	if len(r.Contacts) == 0 {
		return nil
	}
	return &r.Contacts[0].Info
}

// ForwardingRule associates an inquiry type with a destination, ranked
// so the first entry per type is the best match.
type ForwardingRule struct {
	InquiryType string `json:"inquiry_type" db:"inquiry_type"`
	Address     string `json:"address" db:"address"`
	Rank        int    `json:"rank" db:"rank"`
}

// Inquiry-type keys used by the forwarding table.
const (
	ForwardSales     = "sales_inquiries"
	ForwardSupport   = "support_requests"
	ForwardTechnical = "technical_issues"
	ForwardExecutive = "executive_requests"
	ForwardHR        = "hr_inquiries"
	ForwardUrgent    = "urgent_matters"
)

// ForwardingTable is an immutable snapshot of the routing rules.
// Administrative updates build a new snapshot instead of mutating.
type ForwardingTable struct {
	rules map[string][]ForwardingRule
}

// NewForwardingTable builds a snapshot from an ordered rule list.
func NewForwardingTable(rules []ForwardingRule) *ForwardingTable {
	m := make(map[string][]ForwardingRule)
	for _, r := range rules {
		m[r.InquiryType] = append(m[r.InquiryType], r)
	}
	return &ForwardingTable{rules: m}
}

// BestFor returns the top-ranked address for an inquiry type, or ""
// when no rule exists.
func (t *ForwardingTable) BestFor(inquiryType string) string {
	if t == nil {
		return ""
	}
	entries := t.rules[inquiryType]
	if len(entries) == 0 {
		return ""
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Rank < best.Rank {
			best = e
		}
	}
	return best.Address
}

// Rules returns a flat copy of all rules, ordered by type then rank.
func (t *ForwardingTable) Rules() []ForwardingRule {
	if t == nil {
		return nil
	}
	var out []ForwardingRule
	for _, entries := range t.rules {
		out = append(out, entries...)
	}
	return out
}
