package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	jobKeyPrefix = "triage:job:"
	jobIndexKey  = "triage:jobs"
	jobTTL       = 24 * time.Hour
)

// RedisJobStore implements out.JobStore on Redis. Jobs are stored as
// JSON values with a sorted-set index by creation time, expiring after
// a day.
type RedisJobStore struct {
	client *redis.Client
}

// NewRedisJobStore creates a new RedisJobStore.
func NewRedisJobStore(client *redis.Client) *RedisJobStore {
	return &RedisJobStore{client: client}
}

func jobKey(id string) string {
	return jobKeyPrefix + id
}

func (s *RedisJobStore) save(ctx context.Context, job *domain.TriageJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return apperr.InternalWithError(err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, jobKey(job.ID), data, jobTTL)
	pipe.ZAdd(ctx, jobIndexKey, redis.Z{
		Score:  float64(job.CreatedAt.UnixMilli()),
		Member: job.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.ExternalError("redis", err)
	}
	return nil
}

// Create registers a new job in the processing state.
func (s *RedisJobStore) Create(ctx context.Context, job *domain.TriageJob) error {
	now := time.Now().UTC()
	job.Status = domain.JobProcessing
	job.CreatedAt = now
	job.UpdatedAt = now
	return s.save(ctx, job)
}

func (s *RedisJobStore) transition(ctx context.Context, id string, next domain.JobStatus, mutate func(*domain.TriageJob)) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !job.Status.CanTransition(next) {
		return apperr.Conflict("job " + id + " is already " + string(job.Status))
	}
	job.Status = next
	job.UpdatedAt = time.Now().UTC()
	mutate(job)
	return s.save(ctx, job)
}

// Complete marks a job completed with its batch report.
func (s *RedisJobStore) Complete(ctx context.Context, id string, report *domain.BatchReport) error {
	return s.transition(ctx, id, domain.JobCompleted, func(job *domain.TriageJob) {
		job.Report = report
	})
}

// Fail marks a job failed.
func (s *RedisJobStore) Fail(ctx context.Context, id string, errMsg string) error {
	return s.transition(ctx, id, domain.JobFailed, func(job *domain.TriageJob) {
		job.Error = errMsg
	})
}

// Get fetches a job by ID.
func (s *RedisJobStore) Get(ctx context.Context, id string) (*domain.TriageJob, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperr.NotFound("job")
		}
		return nil, apperr.ExternalError("redis", err)
	}
	var job domain.TriageJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, apperr.InternalWithError(err)
	}
	return &job, nil
}

// List returns jobs newest first. Expired jobs drop out of the index
// lazily.
func (s *RedisJobStore) List(ctx context.Context) ([]domain.TriageJob, error) {
	ids, err := s.client.ZRevRange(ctx, jobIndexKey, 0, 99).Result()
	if err != nil {
		return nil, apperr.ExternalError("redis", err)
	}

	jobs := make([]domain.TriageJob, 0, len(ids))
	for _, id := range ids {
		job, err := s.Get(ctx, id)
		if err != nil {
			if apperr.IsCode(err, apperr.CodeNotFound) {
				s.client.ZRem(ctx, jobIndexKey, id)
				continue
			}
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// MemoryJobStore implements out.JobStore in process memory, used when
// no Redis is configured.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*domain.TriageJob
}

// NewMemoryJobStore creates a new MemoryJobStore.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*domain.TriageJob)}
}

func (s *MemoryJobStore) Create(ctx context.Context, job *domain.TriageJob) error {
	now := time.Now().UTC()
	job.Status = domain.JobProcessing
	job.CreatedAt = now
	job.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *MemoryJobStore) transition(id string, next domain.JobStatus, mutate func(*domain.TriageJob)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return apperr.NotFound("job")
	}
	if !job.Status.CanTransition(next) {
		return apperr.Conflict("job " + id + " is already " + string(job.Status))
	}
	job.Status = next
	job.UpdatedAt = time.Now().UTC()
	mutate(job)
	return nil
}

func (s *MemoryJobStore) Complete(ctx context.Context, id string, report *domain.BatchReport) error {
	return s.transition(id, domain.JobCompleted, func(job *domain.TriageJob) {
		job.Report = report
	})
}

func (s *MemoryJobStore) Fail(ctx context.Context, id string, errMsg string) error {
	return s.transition(id, domain.JobFailed, func(job *domain.TriageJob) {
		job.Error = errMsg
	})
}

func (s *MemoryJobStore) Get(ctx context.Context, id string) (*domain.TriageJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, apperr.NotFound("job")
	}
	cp := *job
	return &cp, nil
}

func (s *MemoryJobStore) List(ctx context.Context) ([]domain.TriageJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]domain.TriageJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}

// Ensure both stores implement out.JobStore
var (
	_ out.JobStore = (*RedisJobStore)(nil)
	_ out.JobStore = (*MemoryJobStore)(nil)
)
