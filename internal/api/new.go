package api

import (
	"net/http"

	"github.com/nguyentantai21042004/slidecast/internal/artifact"
	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/jobs"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

// Handler serves upload, status and fetch requests for join codes.
type Handler struct {
	cfg       *config.Config
	submitter Submitter
	store     jobs.Store
	artifacts artifact.Store
	logger    logger.Logger
}

// New creates a Handler.
func New(cfg *config.Config, submitter Submitter, store jobs.Store, artifacts artifact.Store, log logger.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		submitter: submitter,
		store:     store,
		artifacts: artifacts,
		logger:    log,
	}
}

// Routes returns the full HTTP surface wrapped in CORS and request-id middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /upload-data", h.Upload)
	mux.HandleFunc("GET /status/{code}", h.Status)
	mux.HandleFunc("GET /fetch-slides/{code}", h.FetchPresentation)
	mux.HandleFunc("GET /fetch-presentation/{code}", h.FetchPresentation)
	mux.HandleFunc("GET /fetch-handout/{code}", h.FetchHandout)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return cors(h.cfg.Server.CORSOrigin, h.withRequestID(mux))
}
