package generate

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/slidecast/internal/domain"
)

// ErrNoArtifact means the provider finished or ran out of turns without
// producing an artifact. It is a soft failure: nothing is retried.
var ErrNoArtifact = errors.New("no artifact produced")

// Request is the input of one generation attempt.
type Request struct {
	Code       string
	Transcript string
	Notes      string
}

// Result is what a successful attempt produced. Deck generators fill
// FileID and Data; slide generators fill Presentation.
type Result struct {
	FileID       string
	Data         []byte
	Presentation *domain.Presentation
	Turns        int
}

// Progress receives monotonic percent checkpoints while generation runs.
type Progress func(ctx context.Context, percent int)

// Generator runs one generation attempt for a job.
type Generator interface {
	Generate(ctx context.Context, req Request, progress Progress) (Result, error)
}
