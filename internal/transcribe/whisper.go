package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/pkg/executor"
)

type whisperBackend struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisperCPP creates a Backend that shells out to ffmpeg and whisper.cpp.
func NewWhisperCPP(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) Backend {
	return &whisperBackend{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

func (w *whisperBackend) Transcribe(ctx context.Context, audioPath, format string) (string, error) {
	wavPath, err := w.extractAudio(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}
	defer w.cleanupTempFile(ctx, wavPath)

	txtPath, err := w.transcribe(ctx, wavPath)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	defer w.cleanupTempFile(ctx, txtPath)

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// extractAudio converts the upload to 16kHz mono PCM WAV, the input whisper.cpp expects.
func (w *whisperBackend) extractAudio(ctx context.Context, audioPath string) (string, error) {
	wavPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + "_16k.wav"

	w.logger.Debug(ctx, "Converting audio for whisper.cpp: %s", audioPath)

	args := []string{
		"-i", audioPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		wavPath,
	}
	if _, err := w.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return wavPath, nil
}

// transcribe runs whisper.cpp with plain-text output next to the WAV file.
func (w *whisperBackend) transcribe(ctx context.Context, wavPath string) (string, error) {
	outputPrefix := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))

	w.logger.Info(ctx, "Starting whisper.cpp transcription with %d threads", w.cfg.Threads)

	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", wavPath,
		"-otxt",
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"--output-file", outputPrefix,
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}
	return outputPrefix + ".txt", nil
}

func (w *whisperBackend) cleanupTempFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		w.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", path, err)
	}
}
