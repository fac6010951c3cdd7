package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/nguyentantai21042004/slidecast/internal/artifact"
	"github.com/nguyentantai21042004/slidecast/internal/domain"
)

// FetchPresentation returns the finished deck as a file, or the slide list as
// JSON, depending on which kind of artifact the job produced.
func (h *Handler) FetchPresentation(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(r)
	if !ok {
		notReady(w)
		return
	}
	if !job.Ready() {
		h.logger.Debug(r.Context(), "Fetch %s while %s (%d%%)", job.Code, job.Status, job.Percent)
		notReady(w)
		return
	}

	art := job.Artifact
	if art.Presentation != nil {
		slides := art.Presentation.Slides
		if slides == nil {
			slides = []domain.Slide{}
		}
		writeJSON(w, http.StatusOK, slides)
		return
	}

	h.serveObject(w, r, art.Object, art.ContentType, art.Filename)
}

// FetchHandout returns the .docx speaker handout stored for slide jobs.
func (h *Handler) FetchHandout(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(r)
	if !ok || !job.Ready() || job.Artifact.Handout == "" {
		notReady(w)
		return
	}

	h.serveObject(w, r, job.Artifact.Handout, artifact.ContentTypeDOCX, "SlideGen_"+job.Code+"_handout.docx")
}

// serveObject streams a stored artifact. An object that vanished from storage is
// reported exactly like a job that is not ready.
func (h *Handler) serveObject(w http.ResponseWriter, r *http.Request, name, contentType, filename string) {
	ctx := r.Context()

	rc, info, err := h.artifacts.Open(ctx, name)
	if errors.Is(err, artifact.ErrNotFound) {
		h.logger.Warn(ctx, "Artifact %s is marked ready but missing from storage", name)
		notReady(w)
		return
	}
	if err != nil {
		h.logger.Error(ctx, "Open artifact %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "Failed to read artifact")
		return
	}
	defer rc.Close()

	if contentType == "" {
		contentType = info.ContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn(ctx, "Streaming %s interrupted: %v", name, err)
	}
}
