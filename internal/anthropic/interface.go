package anthropic

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
)

// Client talks to the Messages and Files APIs.
type Client interface {
	CreateMessage(ctx context.Context, req MessageRequest) (*sdk.BetaMessage, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}
