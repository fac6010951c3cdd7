package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/slidecast/internal/processor"
)

const (
	defaultAudioExt = ".m4a"
	formMemory      = 32 << 20
)

// Upload accepts an optional audio part plus notes and transcript fields, and
// answers with a join code before any processing happens.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := h.cfg.Server.MaxUploadMB << 20
	tooLargeMsg := fmt.Sprintf("Upload exceeds %d MB", h.cfg.Server.MaxUploadMB)
	if r.ContentLength > limit {
		writeError(w, http.StatusBadRequest, tooLargeMsg)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := h.parseForm(r); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, tooLargeMsg)
			return
		}
		h.logger.Warn(ctx, "Rejected upload: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	sub := processor.Submission{
		Notes:      r.FormValue("notes"),
		Transcript: r.FormValue("transcript"),
	}

	file, header, err := r.FormFile("audio")
	switch {
	case err == nil:
		defer file.Close()
		path, format, err := h.saveAudio(file, header)
		if err != nil {
			h.logger.Error(ctx, "Failed to save audio: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to save audio")
			return
		}
		sub.AudioPath = path
		sub.AudioFormat = format
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		writeError(w, http.StatusBadRequest, "Invalid audio part")
		return
	}

	code, err := h.submitter.Submit(ctx, sub)
	if err != nil {
		if sub.AudioPath != "" {
			os.Remove(sub.AudioPath)
		}
		h.logger.Error(ctx, "Failed to submit job: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to start job")
		return
	}

	h.logger.Info(ctx, "Upload accepted as %s (audio=%t)", code, sub.AudioPath != "")
	writeJSON(w, http.StatusOK, uploadResponse{JoinCode: code})
}

// parseForm accepts multipart bodies and falls back to url-encoded ones.
func (h *Handler) parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(formMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// saveAudio streams the upload to a uuid-named file in the uploads directory.
func (h *Handler) saveAudio(file multipart.File, header *multipart.FileHeader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = defaultAudioExt
	}
	path := filepath.Join(h.cfg.Paths.Uploads, uuid.NewString()+ext)

	out, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("write upload: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("close upload: %w", err)
	}

	return path, strings.TrimPrefix(ext, "."), nil
}
