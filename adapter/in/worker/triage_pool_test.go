package worker

import (
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow() {
		t.Error("bucket exhausted, request should be denied")
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(2, 10*time.Millisecond)

	if !rl.Allow() || !rl.Allow() {
		t.Fatal("initial tokens should be available")
	}
	if rl.Allow() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(25 * time.Millisecond)
	if !rl.Allow() {
		t.Error("tokens should refill after the interval")
	}
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage(JobInboxProcess, map[string]any{"job_id": "j1"})

	if msg.ID == "" {
		t.Error("message must get an id")
	}
	if msg.Type != JobInboxProcess {
		t.Errorf("type = %q", msg.Type)
	}
	if msg.IsPriority() {
		t.Error("plain message must not be priority")
	}

	pm := NewPriorityMessage(JobInboxProcess, nil, PriorityHigh)
	if !pm.IsPriority() {
		t.Error("priority message not flagged")
	}
}

func TestParsePayload(t *testing.T) {
	msg := NewMessage(JobInboxProcess, map[string]any{"job_id": "j1"})

	payload, err := ParsePayload[InboxProcessPayload](msg)
	if err != nil {
		t.Fatalf("ParsePayload() error = %v", err)
	}
	if payload.JobID != "j1" {
		t.Errorf("job id = %q", payload.JobID)
	}
}

func TestParsePayload_EmptyPayload(t *testing.T) {
	msg := NewMessage(JobInboxPoll, map[string]any{})

	payload, err := ParsePayload[InboxProcessPayload](msg)
	if err != nil {
		t.Fatalf("ParsePayload() error = %v", err)
	}
	if payload.JobID != "" {
		t.Errorf("job id = %q, want empty", payload.JobID)
	}
}
