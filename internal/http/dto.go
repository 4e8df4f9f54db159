// Package httpapi provides HTTP handlers and data transfer objects for the font catalog API.
package httpapi

import (
	"time"

	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/dsjohal14/fontstack/internal/scope/include"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string     `json:"status"` // "healthy" once a catalog is built, else "empty"
	FamilyCount int        `json:"family_count"`
	Fingerprint string     `json:"fingerprint,omitempty"`
	BuiltAt     *time.Time `json:"built_at,omitempty"`
}

// SearchRequest represents search request
type SearchRequest struct {
	Query string `json:"query"`           // Empty matches every family
	Limit int    `json:"limit,omitempty"` // 0 returns all matches
}

// SearchResult represents a single ranked match
type SearchResult struct {
	catalog.Family
	Tier string `json:"tier"`
}

// SearchResponse represents search results
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
	Total   int            `json:"total"` // matches before limit
	Query   string         `json:"query"`
}

// ClassificationsResponse lists classification tags with member counts
type ClassificationsResponse struct {
	Classifications []catalog.ClassificationCount `json:"classifications"`
}

// FamiliesResponse lists the families in one classification
type FamiliesResponse struct {
	Classification string           `json:"classification"`
	Families       []catalog.Family `json:"families"`
	Count          int              `json:"count"`
}

// IncludeRequest represents an include string request
type IncludeRequest struct {
	Fonts []include.Selection `json:"fonts"`
}

// IncludeResponse carries the include string and a ready-made script tag
type IncludeResponse struct {
	Include string `json:"include"`
	Script  string `json:"script"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
