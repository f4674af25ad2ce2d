package compose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"triage_server/core/domain"
)

type fakeComposer struct {
	body string
	err  error
}

func (f *fakeComposer) ComposeReply(_ context.Context, _ *domain.EmailMessage, _ *domain.IntentAnalysis, _ *domain.ResponseInfo) (string, error) {
	return f.body, f.err
}

func testMessage() *domain.EmailMessage {
	return &domain.EmailMessage{
		ID:      "m1",
		Sender:  "Jane Doe <jane@client.com>",
		Subject: "Pricing question",
		Body:    "How much is the cloud plan?",
	}
}

func TestCompose_UsesComposer(t *testing.T) {
	s := NewService(&fakeComposer{body: "Hi Jane, here are the details."})

	body, fallback := s.Compose(context.Background(), testMessage(), &domain.IntentAnalysis{}, nil)
	if fallback {
		t.Error("composer succeeded but fallback was reported")
	}
	if body != "Hi Jane, here are the details." {
		t.Errorf("body = %q", body)
	}
}

func TestCompose_FallbackOnError(t *testing.T) {
	s := NewService(&fakeComposer{err: errors.New("model overloaded")})

	body, fallback := s.Compose(context.Background(), testMessage(), &domain.IntentAnalysis{}, nil)
	if !fallback {
		t.Fatal("expected the template fallback")
	}
	if !strings.Contains(body, "Hi Jane Doe,") {
		t.Errorf("fallback greeting missing: %q", body)
	}
	if !strings.Contains(body, "+1 (555) 911-HELP") {
		t.Error("fallback must include the emergency line")
	}
	if !strings.Contains(body, "TechCorp Assistant") {
		t.Error("fallback must be signed by the assistant")
	}
	if !strings.Contains(body, "support@techcorp.com") {
		t.Error("fallback must include the default contact email")
	}
}

func TestCompose_FallbackOnEmptyBody(t *testing.T) {
	s := NewService(&fakeComposer{body: "   \n"})

	_, fallback := s.Compose(context.Background(), testMessage(), &domain.IntentAnalysis{}, nil)
	if !fallback {
		t.Error("blank composer output must fall back")
	}
}

func TestCompose_NilComposer(t *testing.T) {
	s := NewService(nil)

	body, fallback := s.Compose(context.Background(), testMessage(), &domain.IntentAnalysis{}, nil)
	if !fallback || body == "" {
		t.Errorf("nil composer must yield the template, got (%q, %v)", body, fallback)
	}
}

func TestCompose_FallbackUsesResolvedContact(t *testing.T) {
	s := NewService(nil)
	info := &domain.ResponseInfo{
		Company: domain.CompanyInfo{Name: "TechCorp Solutions"},
		Contacts: []domain.TypedContact{
			{Type: "sales", Info: domain.ContactCard{
				Name:  "David Rodriguez",
				Email: "david.rodriguez@techcorp.com",
				Phone: "+1 (555) 100-0003",
			}},
		},
	}

	body, _ := s.Compose(context.Background(), testMessage(), &domain.IntentAnalysis{}, info)
	if !strings.Contains(body, "David Rodriguez") || !strings.Contains(body, "david.rodriguez@techcorp.com") {
		t.Errorf("fallback must name the resolved contact: %q", body)
	}
}

func TestSenderName(t *testing.T) {
	tests := []struct {
		sender string
		want   string
	}{
		{"Jane Doe <jane@client.com>", "Jane Doe"},
		{`"Jane Doe" <jane@client.com>`, "Jane Doe"},
		{"jane@client.com", "jane"},
		{"<jane@client.com>", "jane"},
		{"", "there"},
	}

	for _, tt := range tests {
		if got := SenderName(tt.sender); got != tt.want {
			t.Errorf("SenderName(%q) = %q, want %q", tt.sender, got, tt.want)
		}
	}
}
