package jobs

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/slidecast/internal/domain"
)

// ErrNotFound is returned when a join code has no record.
var ErrNotFound = errors.New("job not found")

// ErrInvalidTransition is returned when a mutation would move a job backwards
// or touch a job that already reached a terminal status.
var ErrInvalidTransition = errors.New("invalid job transition")

// Store holds job records keyed by join code. Each code has a single writer:
// the pipeline goroutine that owns it.
type Store interface {
	// Create inserts a submitted record. An existing record under the same
	// code is replaced.
	Create(ctx context.Context, code, notes string) error
	Get(ctx context.Context, code string) (domain.Job, bool, error)
	SetStatus(ctx context.Context, code string, status domain.JobStatus, percent int) error
	SetTranscript(ctx context.Context, code, transcript string) error
	SetResult(ctx context.Context, code string, artifact domain.Artifact) error
	SetError(ctx context.Context, code, detail string) error
}
