package transcribe

import (
	"context"
	"os"
	"strings"

	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/internal/observability"
)

// Adapter turns an uploaded audio file into transcript text. It never fails:
// backend errors become the fallback text, and the audio file is always removed.
type Adapter struct {
	backend  Backend
	fallback string
	logger   logger.Logger
}

// NewAdapter wraps backend with the fallback policy.
func NewAdapter(backend Backend, fallback string, log logger.Logger) *Adapter {
	return &Adapter{
		backend:  backend,
		fallback: fallback,
		logger:   log,
	}
}

// Transcribe consumes audioPath and returns its transcript or the fallback text.
func (a *Adapter) Transcribe(ctx context.Context, audioPath, format string) (text string) {
	defer a.remove(ctx, audioPath)
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error(ctx, "Transcription panicked: %v", r)
			text = a.fallback
		}
	}()

	ctx, span := observability.StartSpan(ctx, "transcribe")
	text, err := a.backend.Transcribe(ctx, audioPath, format)
	observability.EndSpan(span, err)
	if err != nil {
		a.logger.Warn(ctx, "Transcription failed, using fallback: %v", err)
		return a.fallback
	}

	text = strings.TrimSpace(text)
	if text == "" {
		a.logger.Warn(ctx, "Transcription returned no text, using fallback")
		return a.fallback
	}
	return text
}

func (a *Adapter) remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		a.logger.Warn(ctx, "Failed to remove audio %s: %v", path, err)
		return
	}
	a.logger.Debug(ctx, "Removed audio file: %s", path)
}
