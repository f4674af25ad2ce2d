package domain

import "testing"

func TestForwardingTableBestFor(t *testing.T) {
	table := NewForwardingTable([]ForwardingRule{
		{InquiryType: ForwardUrgent, Address: "backup@techcorp.com", Rank: 1},
		{InquiryType: ForwardUrgent, Address: "primary@techcorp.com", Rank: 0},
		{InquiryType: ForwardSales, Address: "sales@techcorp.com", Rank: 0},
	})

	if got := table.BestFor(ForwardUrgent); got != "primary@techcorp.com" {
		t.Errorf("BestFor(urgent) = %q, want primary", got)
	}
	if got := table.BestFor(ForwardSales); got != "sales@techcorp.com" {
		t.Errorf("BestFor(sales) = %q", got)
	}
	if got := table.BestFor(ForwardHR); got != "" {
		t.Errorf("BestFor(hr) = %q, want empty", got)
	}
}

func TestForwardingTableNil(t *testing.T) {
	var table *ForwardingTable
	if got := table.BestFor(ForwardSales); got != "" {
		t.Errorf("nil table BestFor = %q", got)
	}
	if got := table.Rules(); got != nil {
		t.Errorf("nil table Rules = %v", got)
	}
}

func TestCompanyInfoReduced(t *testing.T) {
	full := CompanyInfo{
		Name:         "TechCorp Solutions",
		Website:      "https://techcorp.com",
		Industry:     "Technology Solutions",
		Founded:      "2015",
		Headquarters: "San Francisco, CA",
		Mission:      "Empowering businesses",
		Values:       []string{"Innovation"},
	}

	reduced := full.Reduced()
	if reduced.Founded != "" || reduced.Headquarters != "" || reduced.Values != nil {
		t.Errorf("reduced profile kept privileged fields: %+v", reduced)
	}
	if reduced.Name == "" || reduced.Website == "" || reduced.Industry == "" || reduced.Mission == "" {
		t.Errorf("reduced profile dropped public fields: %+v", reduced)
	}
}
