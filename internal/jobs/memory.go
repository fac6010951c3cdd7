package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nguyentantai21042004/slidecast/internal/domain"
)

// MemoryStore is a process-local Store. Records live until restart.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
	now  func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]domain.Job),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Create(_ context.Context, code, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.jobs[code] = domain.Job{
		Code:      code,
		Status:    domain.JobStatusSubmitted,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, code string) (domain.Job, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[code]
	return job, ok, nil
}

func (m *MemoryStore) SetStatus(_ context.Context, code string, status domain.JobStatus, percent int) error {
	if status == domain.JobStatusError {
		return fmt.Errorf("%w: use SetError for %s", ErrInvalidTransition, code)
	}
	if status == domain.JobStatusReady {
		return fmt.Errorf("%w: use SetResult for %s", ErrInvalidTransition, code)
	}

	return m.update(code, func(job *domain.Job) error {
		if !isValidTransition(job.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, status)
		}
		job.Status = status
		job.Percent = max(job.Percent, clampPercent(percent))
		return nil
	})
}

func (m *MemoryStore) SetTranscript(_ context.Context, code, transcript string) error {
	return m.update(code, func(job *domain.Job) error {
		if job.Status.Terminal() {
			return fmt.Errorf("%w: job is %s", ErrInvalidTransition, job.Status)
		}
		job.Transcript = transcript
		return nil
	})
}

func (m *MemoryStore) SetResult(_ context.Context, code string, artifact domain.Artifact) error {
	return m.update(code, func(job *domain.Job) error {
		if job.Status.Terminal() {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, domain.JobStatusReady)
		}
		job.Status = domain.JobStatusReady
		job.Percent = 100
		job.Artifact = &artifact
		return nil
	})
}

func (m *MemoryStore) SetError(_ context.Context, code, detail string) error {
	return m.update(code, func(job *domain.Job) error {
		if job.Status.Terminal() {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, domain.JobStatusError)
		}
		job.Status = domain.JobStatusError
		job.Error = detail
		return nil
	})
}

func (m *MemoryStore) update(code string, fn func(job *domain.Job) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[code]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	if err := fn(&job); err != nil {
		return err
	}
	job.UpdatedAt = m.now()
	m.jobs[code] = job
	return nil
}

// stageOrder ranks non-terminal statuses; a job may only move to an equal or later rank.
var stageOrder = map[domain.JobStatus]int{
	domain.JobStatusSubmitted:    0,
	domain.JobStatusTranscribing: 1,
	domain.JobStatusGenerating:   2,
}

// isValidTransition enforces forward-only movement between non-terminal stages.
func isValidTransition(from, to domain.JobStatus) bool {
	if from.Terminal() {
		return false
	}
	fromRank, ok := stageOrder[from]
	if !ok {
		return false
	}
	toRank, ok := stageOrder[to]
	if !ok {
		return false
	}
	return toRank >= fromRank
}

func clampPercent(p int) int {
	return min(max(p, 0), 100)
}
