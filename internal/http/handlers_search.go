package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dsjohal14/fontstack/internal/scope/search"
)

// HandleSearch performs tiered name search over the catalog
// Prefix matches come first, then word-start matches, then substring matches
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid search request")
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must not be negative", "INVALID_LIMIT")
		return
	}

	// No ETag here: the result depends on the request body, not just the URL.
	snap := h.index.Snapshot()
	matches := search.Rank(snap, req.Query)
	total := len(matches)
	if req.Limit > 0 && req.Limit < len(matches) {
		matches = matches[:req.Limit]
	}

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Family: m.Family,
			Tier:   m.Tier.String(),
		}
	}

	h.logger.Info().
		Str("query", req.Query).
		Int("results", len(results)).
		Int("total", total).
		Msg("search completed")

	writeJSON(w, http.StatusOK, SearchResponse{
		Results: results,
		Count:   len(results),
		Total:   total,
		Query:   req.Query,
	})
}
