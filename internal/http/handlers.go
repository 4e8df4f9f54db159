package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dsjohal14/fontstack/internal/loader"
	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/rs/zerolog"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	index      *catalog.Index
	loader     *loader.Loader
	includeURL string
	logger     zerolog.Logger
}

// NewHandler creates a new HTTP handler.
// loader may be nil, in which case reload endpoints answer 503.
func NewHandler(index *catalog.Index, ld *loader.Loader, includeURL string, logger zerolog.Logger) *Handler {
	return &Handler{
		index:      index,
		loader:     ld,
		includeURL: includeURL,
		logger:     logger,
	}
}

// Helper functions used across all handlers

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// notModified sets the catalog ETag and reports whether the client copy is current.
// When it returns true a 304 has already been written.
func notModified(w http.ResponseWriter, r *http.Request, snap *catalog.Snapshot) bool {
	if !snap.Built() {
		return false
	}
	etag := `"` + snap.Fingerprint() + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}
