package api

import (
	"net/http"

	"github.com/nguyentantai21042004/slidecast/internal/domain"
	"github.com/nguyentantai21042004/slidecast/internal/jobs"
)

// Status reports progress for a join code. Unknown codes are a 404, never a
// synthesized "not ready".
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	resp := statusResponse{
		Ready:   job.Ready(),
		Status:  string(job.Status),
		Percent: job.Percent,
	}
	if job.Status == domain.JobStatusError {
		resp.Error = job.Error
	}
	writeJSON(w, http.StatusOK, resp)
}

// lookup fetches the job named by the {code} path segment. Malformed codes never
// reach the store; a store failure is logged and reported as absent.
func (h *Handler) lookup(r *http.Request) (domain.Job, bool) {
	code := r.PathValue("code")
	if !jobs.ValidCode(code) {
		return domain.Job{}, false
	}
	job, ok, err := h.store.Get(r.Context(), code)
	if err != nil {
		h.logger.Error(r.Context(), "Lookup %s failed: %v", code, err)
		return domain.Job{}, false
	}
	return job, ok
}
