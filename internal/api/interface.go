package api

import (
	"context"

	"github.com/nguyentantai21042004/slidecast/internal/processor"
)

// Submitter starts background jobs. processor.Processor satisfies it.
type Submitter interface {
	Submit(ctx context.Context, sub processor.Submission) (string, error)
}
