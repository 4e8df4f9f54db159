package httpapi

import "net/http"

// HandleHealth returns API health status and catalog size
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := h.index.Snapshot()

	resp := HealthResponse{
		Status:      "empty",
		FamilyCount: snap.Len(),
		Fingerprint: snap.Fingerprint(),
	}
	if snap.Built() {
		resp.Status = "healthy"
		builtAt := snap.BuiltAt()
		resp.BuiltAt = &builtAt
	}

	h.logger.Debug().Int("family_count", resp.FamilyCount).Msg("health check")

	writeJSON(w, http.StatusOK, resp)
}
