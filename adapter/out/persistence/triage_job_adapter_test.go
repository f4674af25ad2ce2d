package persistence

import (
	"context"
	"testing"

	"triage_server/core/domain"
	"triage_server/pkg/apperr"
)

func TestMemoryJobStore_Lifecycle(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()

	job := &domain.TriageJob{ID: "job-1"}
	if err := store.Create(ctx, job); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if job.Status != domain.JobProcessing {
		t.Errorf("created status = %s", job.Status)
	}

	report := &domain.BatchReport{Processed: 3}
	if err := store.Complete(ctx, "job-1", report); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	got, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != domain.JobCompleted || got.Report == nil || got.Report.Processed != 3 {
		t.Errorf("job after completion = %+v", got)
	}
}

func TestMemoryJobStore_TerminalStatesLocked(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()

	if err := store.Create(ctx, &domain.TriageJob{ID: "job-1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Complete(ctx, "job-1", &domain.BatchReport{}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if err := store.Fail(ctx, "job-1", "late failure"); !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("expected CONFLICT on completed -> failed, got %v", err)
	}
	if err := store.Complete(ctx, "job-1", &domain.BatchReport{}); !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("expected CONFLICT on repeated completion, got %v", err)
	}

	got, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != domain.JobCompleted || got.Error != "" {
		t.Errorf("terminal state mutated: %+v", got)
	}
}

func TestMemoryJobStore_GetUnknown(t *testing.T) {
	store := NewMemoryJobStore()

	if _, err := store.Get(context.Background(), "nope"); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestMemoryJobStore_ListNewestFirst(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Create(ctx, &domain.TriageJob{ID: id}); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	jobs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("List() returned %d jobs", len(jobs))
	}
	for i := 1; i < len(jobs); i++ {
		if jobs[i].CreatedAt.After(jobs[i-1].CreatedAt) {
			t.Errorf("jobs not sorted newest first: %v", jobs)
		}
	}
}

func TestSeedEmployees_ConfidentialBundles(t *testing.T) {
	employees := SeedEmployees()
	if len(employees) != 10 {
		t.Fatalf("seed has %d employees", len(employees))
	}

	byID := map[string]domain.Employee{}
	for _, e := range employees {
		byID[e.ID] = e
	}

	ceo, ok := byID["EMP001"]
	if !ok || ceo.Confidential == nil {
		t.Fatal("EMP001 must carry a confidential bundle")
	}
	var sensitive, open int
	for _, p := range ceo.Confidential.InternalProjects {
		if p.Sensitive {
			sensitive++
		} else {
			open++
		}
	}
	if sensitive == 0 || open == 0 {
		t.Errorf("EMP001 projects should mix sensitive and open: %+v", ceo.Confidential.InternalProjects)
	}
}

func TestSeedForwardingRules_CoverAllTypes(t *testing.T) {
	rules := SeedForwardingRules()
	table := domain.NewForwardingTable(rules)

	for _, inquiryType := range []string{
		domain.ForwardSales, domain.ForwardSupport, domain.ForwardTechnical,
		domain.ForwardExecutive, domain.ForwardHR, domain.ForwardUrgent,
	} {
		if table.BestFor(inquiryType) == "" {
			t.Errorf("no seed rule for %s", inquiryType)
		}
	}

	if got := table.BestFor(domain.ForwardUrgent); got != "victor.sana@berkeley.edu" {
		t.Errorf("urgent rank-0 destination = %q", got)
	}
}
