package out

import (
	"context"

	"triage_server/core/domain"
)

// JobStore tracks background triage runs by opaque identifier. Status
// transitions are monotonic; the store rejects regressions.
type JobStore interface {
	Create(ctx context.Context, job *domain.TriageJob) error
	Complete(ctx context.Context, id string, report *domain.BatchReport) error
	Fail(ctx context.Context, id string, errMsg string) error
	Get(ctx context.Context, id string) (*domain.TriageJob, error)
	List(ctx context.Context) ([]domain.TriageJob, error)
}
