package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dsjohal14/fontstack/internal/libs/jobs"
	"github.com/go-chi/chi/v5"
)

// HandleReload refetches the catalog and rebuilds the index
// By default the reload runs in the background and 202 is returned with the job;
// ?wait=true blocks until it finishes
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusServiceUnavailable, "reload not configured", "RELOAD_UNAVAILABLE")
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		job, err := h.loader.Load(r.Context())
		if err != nil {
			writeJSON(w, http.StatusBadGateway, job.Info())
			return
		}
		writeJSON(w, http.StatusOK, job.Info())
		return
	}

	// The reload outlives this request.
	job := h.loader.Start(context.WithoutCancel(r.Context()))

	h.logger.Info().Str("job_id", job.ID).Msg("catalog reload started")

	w.Header().Set("Location", "/jobs/"+job.ID)
	writeJSON(w, http.StatusAccepted, job.Info())
}

// HandleJob returns the state of a reload job
func (h *Handler) HandleJob(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusNotFound, "job not found", "JOB_NOT_FOUND")
		return
	}

	job, err := h.loader.Jobs().Get(chi.URLParam(r, "id"))
	if errors.Is(err, jobs.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found", "JOB_NOT_FOUND")
		return
	}

	writeJSON(w, http.StatusOK, job.Info())
}
