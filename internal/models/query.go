package models

import (
	"strings"
	"time"
)

// maxQueryBytes bounds how much of a query is analyzed. Longer input is
// truncated rather than rejected; analysis never fails on input shape.
const maxQueryBytes = 8192

// QueryContext carries optional caller-supplied context for analysis.
type QueryContext struct {
	Department     string   `json:"department,omitempty"`
	RecentSearches []string `json:"recent_searches,omitempty"`
}

// AnalyzeRequest is the input for an analyze call.
type AnalyzeRequest struct {
	Query   string        `json:"query"`
	Context *QueryContext `json:"context,omitempty"`
}

// Normalize bounds the query size and trims surrounding whitespace.
// It never rejects input: empty and degenerate queries are valid and
// resolve to the documented defaults downstream.
func (r *AnalyzeRequest) Normalize() {
	if len(r.Query) > maxQueryBytes {
		r.Query = r.Query[:maxQueryBytes]
	}
	r.Query = strings.TrimSpace(r.Query)
}

// QueryRecord is a stored history entry for one analyzed query.
type QueryRecord struct {
	ID         string     `json:"id"`
	Query      string     `json:"query"`
	IntentType IntentType `json:"intent_type"`
	Department string     `json:"department,omitempty"`
	TimeScope  TimeScope  `json:"time_scope,omitempty"`
	Complexity float64    `json:"complexity"`
	CreatedAt  time.Time  `json:"created_at"`
}
