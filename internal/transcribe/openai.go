package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nguyentantai21042004/slidecast/internal/config"
)

type openAIBackend struct {
	client openai.Client
	model  string
}

// NewOpenAI creates a Backend for the hosted Whisper transcription endpoint.
// Requests are bounded by timeout and never retried.
func NewOpenAI(cfg config.OpenAIConfig, timeout time.Duration) Backend {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &openAIBackend{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (o *openAIBackend) Transcribe(ctx context.Context, audioPath, format string) (string, error) {
	audio, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer audio.Close()

	// The provider infers the codec from the file name, so it must carry a real extension.
	resp, err := o.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:           openai.File(audio, "recording."+normalizeFormat(format), ""),
		Model:          o.model,
		ResponseFormat: openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("send transcription: %w", err)
	}
	return resp.Text, nil
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if format == "" {
		return "m4a"
	}
	return format
}
