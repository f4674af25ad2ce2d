package domain

import "testing"

func TestJobStatusCanTransition(t *testing.T) {
	tests := []struct {
		from JobStatus
		to   JobStatus
		want bool
	}{
		{JobProcessing, JobCompleted, true},
		{JobProcessing, JobFailed, true},
		{JobProcessing, JobProcessing, false},
		{JobCompleted, JobFailed, false},
		{JobCompleted, JobProcessing, false},
		{JobFailed, JobCompleted, false},
		{JobFailed, JobProcessing, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
