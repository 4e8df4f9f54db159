package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dsjohal14/fontstack/internal/scope/include"
)

// HandleInclude serializes font selections into an include string and script tag
func (h *Handler) HandleInclude(w http.ResponseWriter, r *http.Request) {
	var req IncludeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid include request")
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if len(req.Fonts) == 0 {
		writeError(w, http.StatusBadRequest, "fonts are required", "MISSING_FONTS")
		return
	}
	for _, f := range req.Fonts {
		if f.Slug == "" {
			writeError(w, http.StatusBadRequest, "slug is required", "MISSING_SLUG")
			return
		}
	}

	writeJSON(w, http.StatusOK, IncludeResponse{
		Include: include.Create(req.Fonts),
		Script:  include.ScriptTag(h.includeURL, req.Fonts),
	})
}
