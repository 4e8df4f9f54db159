package httpapi

import (
	"net/http"

	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/go-chi/chi/v5"
)

// HandleClassifications lists classification tags in picker order with counts
func (h *Handler) HandleClassifications(w http.ResponseWriter, r *http.Request) {
	snap := h.index.Snapshot()
	if notModified(w, r, snap) {
		return
	}

	writeJSON(w, http.StatusOK, ClassificationsResponse{
		Classifications: snap.Classifications(),
	})
}

// HandleClassification lists the families bearing one classification tag
// Unknown or empty tags yield an empty list, not an error
func (h *Handler) HandleClassification(w http.ResponseWriter, r *http.Request) {
	tag := catalog.Classification(chi.URLParam(r, "tag"))

	snap := h.index.Snapshot()
	if notModified(w, r, snap) {
		return
	}

	families := snap.ByClassification(tag)
	if families == nil {
		families = []catalog.Family{}
	}

	h.logger.Debug().Str("classification", string(tag)).Int("families", len(families)).Msg("classification lookup")

	writeJSON(w, http.StatusOK, FamiliesResponse{
		Classification: string(tag),
		Families:       families,
		Count:          len(families),
	})
}

// HandleFamily returns one family by slug
func (h *Handler) HandleFamily(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	snap := h.index.Snapshot()
	family, ok := snap.BySlug(slug)
	if !ok {
		writeError(w, http.StatusNotFound, "family not found", "NOT_FOUND")
		return
	}
	if notModified(w, r, snap) {
		return
	}

	writeJSON(w, http.StatusOK, family)
}
