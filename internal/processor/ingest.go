package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Ingest moves an inbox file into the uploads folder and submits it as a job.
func (p *implProcessor) Ingest(ctx context.Context, filePath string) error {
	ext := strings.ToLower(filepath.Ext(filePath))
	destPath := filepath.Join(p.cfg.Paths.Uploads, uuid.NewString()+ext)

	p.logger.Info(ctx, "Ingesting inbox file: %s -> %s", filePath, destPath)

	if err := moveFile(filePath, destPath); err != nil {
		return fmt.Errorf("move to uploads: %w", err)
	}

	code, err := p.Submit(ctx, Submission{
		AudioPath:   destPath,
		AudioFormat: strings.TrimPrefix(ext, "."),
	})
	if err != nil {
		os.Remove(destPath)
		return fmt.Errorf("submit: %w", err)
	}

	p.logger.Info(ctx, "Inbox file %s queued with join code %s", filepath.Base(filePath), code)
	return nil
}

// moveFile renames src to dst, falling back to copy+remove across devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return os.Remove(src)
}
