package triage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/core/service/classify"
	"triage_server/core/service/compose"
	"triage_server/core/service/directory"
	"triage_server/core/service/knowledge"
	"triage_server/core/service/routing"
)

type fakeProvider struct {
	unread  []domain.EmailMessage
	sent    []out.OutboundMessage
	marked  []string
	sendErr error
}

func (f *fakeProvider) FetchUnread(_ context.Context, max int) ([]domain.EmailMessage, error) {
	if len(f.unread) > max {
		return f.unread[:max], nil
	}
	return f.unread, nil
}

func (f *fakeProvider) Send(_ context.Context, msg *out.OutboundMessage) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, *msg)
	return nil
}

func (f *fakeProvider) MarkProcessed(_ context.Context, messageID string) error {
	f.marked = append(f.marked, messageID)
	return nil
}

type fakeEmployeeRepo struct{}

func (fakeEmployeeRepo) GetByID(_ context.Context, _ string) (*domain.Employee, error) {
	return nil, nil
}
func (fakeEmployeeRepo) GetByEmail(_ context.Context, _ string) (*domain.Employee, error) {
	return nil, nil
}
func (fakeEmployeeRepo) List(_ context.Context) ([]domain.Employee, error) { return nil, nil }
func (fakeEmployeeRepo) ByDepartment(_ context.Context, _ string) ([]domain.Employee, error) {
	return nil, nil
}

type fakeForwardingRepo struct {
	rules []domain.ForwardingRule
}

func (f *fakeForwardingRepo) LoadRules(_ context.Context) ([]domain.ForwardingRule, error) {
	return f.rules, nil
}

func newTestEngine(t *testing.T, provider out.EmailProviderPort, rules []domain.ForwardingRule, supportAddress string, opts Options) *Engine {
	t.Helper()

	dir := directory.NewService(fakeEmployeeRepo{})
	kb := knowledge.NewService(dir)
	router := routing.NewRouter(&fakeForwardingRepo{rules: rules}, supportAddress)
	if err := router.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	composer := compose.NewService(nil)

	return NewEngine(provider, classify.NewClassifier(), kb, router, composer, opts)
}

func defaultRules() []domain.ForwardingRule {
	return []domain.ForwardingRule{
		{InquiryType: domain.ForwardSales, Address: "ads.al@laposte.net", Rank: 0},
		{InquiryType: domain.ForwardSupport, Address: "victor.sana@berkeley.edu", Rank: 0},
		{InquiryType: domain.ForwardUrgent, Address: "victor.sana@berkeley.edu", Rank: 0},
	}
}

func TestProcessInbox_UrgentInquiry(t *testing.T) {
	provider := &fakeProvider{unread: []domain.EmailMessage{{
		ID:      "m1",
		Sender:  "Jane Doe <jane@client.com>",
		Subject: "Need help",
		Body:    "This is urgent, our deployment is down",
	}}}
	e := newTestEngine(t, provider, defaultRules(), "support@techcorp.com",
		Options{AutoReply: true, AutoForward: true, MaxBatchSize: 10})

	report, err := e.ProcessInbox(context.Background())
	if err != nil {
		t.Fatalf("ProcessInbox() error = %v", err)
	}
	if report.Processed != 1 || report.Failed != 0 || report.Skipped != 0 {
		t.Fatalf("report = %+v", report)
	}

	res := report.Results[0]
	if res.Intent != domain.IntentUrgentRequest || res.Urgency != domain.UrgencyHigh {
		t.Errorf("result = %+v", res)
	}
	if !res.Replied || !res.Forwarded {
		t.Errorf("urgent inquiry must reply and forward: %+v", res)
	}
	if res.Recipient != "victor.sana@berkeley.edu" {
		t.Errorf("urgent recipient = %q", res.Recipient)
	}

	if len(provider.sent) != 2 {
		t.Fatalf("expected reply + forward, got %d sends", len(provider.sent))
	}
	reply, fwd := provider.sent[0], provider.sent[1]
	if !strings.HasPrefix(reply.Subject, "Re: ") {
		t.Errorf("reply subject = %q", reply.Subject)
	}
	if fwd.Subject != "FW: [HIGH] [Auto-Routed] Need help" {
		t.Errorf("forward subject = %q", fwd.Subject)
	}
	if !strings.Contains(fwd.Body, "Reply Sent: Yes") {
		t.Errorf("forward body missing reply marker: %q", fwd.Body)
	}

	if len(provider.marked) != 1 || provider.marked[0] != "m1" {
		t.Errorf("marked = %v", provider.marked)
	}
}

func TestProcessInbox_AppreciationNotForwarded(t *testing.T) {
	provider := &fakeProvider{unread: []domain.EmailMessage{{
		ID:     "m2",
		Sender: "fan@somewhere.org",
		Body:   "Thanks for the great product!",
	}}}
	e := newTestEngine(t, provider, defaultRules(), "support@techcorp.com",
		Options{AutoReply: true, AutoForward: true, MaxBatchSize: 10})

	report, err := e.ProcessInbox(context.Background())
	if err != nil {
		t.Fatalf("ProcessInbox() error = %v", err)
	}

	res := report.Results[0]
	if res.Intent != domain.IntentAppreciation {
		t.Errorf("intent = %q", res.Intent)
	}
	if !res.Replied || res.Forwarded {
		t.Errorf("appreciation replies but never forwards: %+v", res)
	}
	if len(provider.sent) != 1 {
		t.Errorf("expected exactly the reply, got %d sends", len(provider.sent))
	}
}

func TestProcessInbox_RecipientUnresolvedSkips(t *testing.T) {
	provider := &fakeProvider{unread: []domain.EmailMessage{{
		ID:     "m3",
		Sender: "someone@somewhere.org",
		Body:   "Hello, I have a general question about opening hours.",
	}}}
	// Empty table, no support address: the fallback chain is exhausted.
	e := newTestEngine(t, provider, nil, "",
		Options{AutoReply: false, AutoForward: true, MaxBatchSize: 10})

	report, err := e.ProcessInbox(context.Background())
	if err != nil {
		t.Fatalf("ProcessInbox() error = %v", err)
	}
	if report.Skipped != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(provider.marked) != 0 {
		t.Errorf("skipped message must stay unread, marked = %v", provider.marked)
	}
}

func TestProcessInbox_DispatchFailureLeavesUnread(t *testing.T) {
	provider := &fakeProvider{
		unread:  []domain.EmailMessage{{ID: "m4", Sender: "a@b.org", Body: "I need a pricing quote"}},
		sendErr: errors.New("smtp refused"),
	}
	e := newTestEngine(t, provider, defaultRules(), "support@techcorp.com",
		Options{AutoReply: true, AutoForward: true, MaxBatchSize: 10})

	report, err := e.ProcessInbox(context.Background())
	if err != nil {
		t.Fatalf("ProcessInbox() error = %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(provider.marked) != 0 {
		t.Errorf("failed message must stay unread, marked = %v", provider.marked)
	}
}

func TestProcessInbox_NoProvider(t *testing.T) {
	e := newTestEngine(t, nil, nil, "", Options{MaxBatchSize: 10})

	if _, err := e.ProcessInbox(context.Background()); err == nil {
		t.Fatal("expected an error without a provider")
	}
}

func TestAnalyze(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{}, defaultRules(), "support@techcorp.com",
		Options{MaxBatchSize: 10})

	result, err := e.Analyze(context.Background(), &domain.EmailMessage{
		ID:     "m5",
		Sender: "buyer@client.com",
		Body:   "I want to buy the cloud plan",
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.Analysis.PrimaryIntent != domain.IntentSalesInquiry {
		t.Errorf("intent = %q", result.Analysis.PrimaryIntent)
	}
	if !result.ShouldReply {
		t.Error("sales inquiry should earn a reply")
	}
	if result.Recipient != "ads.al@laposte.net" {
		t.Errorf("recipient = %q", result.Recipient)
	}
}

func TestUpdateOptions_KeepsPositiveValues(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{}, nil, "", Options{MaxBatchSize: 20})

	e.UpdateOptions(Options{MaxBatchSize: 0, AutoReply: true})
	if got := e.Options().MaxBatchSize; got != 20 {
		t.Errorf("zero batch size must keep the previous value, got %d", got)
	}
	if !e.Options().AutoReply {
		t.Error("auto_reply not updated")
	}
}
