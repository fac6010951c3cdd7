package artifact

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/slidecast/internal/config"
)

// New builds the Store selected by storage.backend.
func New(ctx context.Context, storage config.StorageConfig, outputDir string) (Store, error) {
	switch storage.Backend {
	case config.StorageMinIO:
		return NewMinIO(ctx, storage.MinIO)
	case config.StorageLocal, "":
		return NewLocal(outputDir)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", storage.Backend)
	}
}
