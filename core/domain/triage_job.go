package domain

import "time"

// JobStatus of a background triage job. Transitions are monotonic:
// processing -> completed | failed, never backwards.
type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// CanTransition reports whether moving from s to next is a legal
// forward transition.
func (s JobStatus) CanTransition(next JobStatus) bool {
	if s == next {
		return false
	}
	switch s {
	case JobProcessing:
		return next == JobCompleted || next == JobFailed
	default:
		// completed and failed are terminal
		return false
	}
}

// TriageJob is a queryable background run.
type TriageJob struct {
	ID        string       `json:"id"`
	Status    JobStatus    `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Report    *BatchReport `json:"report,omitempty"`
	Error     string       `json:"error,omitempty"`
}
