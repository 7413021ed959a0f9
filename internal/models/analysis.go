// Package models defines core data structures for queries, intents, and analysis results.
package models

import (
	"encoding/json"
	"fmt"
)

// IntentType is the coarse classification of what the user wants.
type IntentType int

const (
	// IntentInformational is a definition or lookup question ("what is X").
	IntentInformational IntentType = iota
	// IntentAnalytical asks for comparison, trends, or metrics.
	IntentAnalytical
	// IntentProcedural asks how to do something.
	IntentProcedural
	// IntentTroubleshooting reports a problem or failure.
	IntentTroubleshooting
)

// String returns a string representation of the intent type.
func (i IntentType) String() string {
	switch i {
	case IntentInformational:
		return "informational"
	case IntentAnalytical:
		return "analytical"
	case IntentProcedural:
		return "procedural"
	case IntentTroubleshooting:
		return "troubleshooting"
	default:
		return "unknown"
	}
}

// ParseIntentType parses a string into an IntentType.
func ParseIntentType(s string) (IntentType, error) {
	switch s {
	case "informational":
		return IntentInformational, nil
	case "analytical":
		return IntentAnalytical, nil
	case "procedural":
		return IntentProcedural, nil
	case "troubleshooting":
		return IntentTroubleshooting, nil
	default:
		return IntentInformational, fmt.Errorf("unknown intent type: %q", s)
	}
}

// MarshalJSON encodes the intent type as its string form.
func (i IntentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON decodes the intent type from its string form.
func (i *IntentType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseIntentType(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// TimeScope is the coarse temporal filter inferred from the query text.
type TimeScope int

const (
	// TimeScopeNone means no temporal signal was found.
	TimeScopeNone TimeScope = iota
	// TimeScopeRecent covers "latest", "this week", and similar.
	TimeScopeRecent
	// TimeScopeQuarterly covers quarter references such as "q4".
	TimeScopeQuarterly
	// TimeScopeYearly covers annual and explicit-year references.
	TimeScopeYearly
	// TimeScopeHistorical covers past/archive references.
	TimeScopeHistorical
)

// String returns a string representation of the time scope.
// TimeScopeNone stringifies to the empty string so it drops out of JSON.
func (t TimeScope) String() string {
	switch t {
	case TimeScopeRecent:
		return "recent"
	case TimeScopeQuarterly:
		return "quarterly"
	case TimeScopeYearly:
		return "yearly"
	case TimeScopeHistorical:
		return "historical"
	default:
		return ""
	}
}

// MarshalJSON encodes the time scope as its string form.
func (t TimeScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the time scope from its string form.
// Empty and unrecognized values map to TimeScopeNone.
func (t *TimeScope) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "recent":
		*t = TimeScopeRecent
	case "quarterly":
		*t = TimeScopeQuarterly
	case "yearly":
		*t = TimeScopeYearly
	case "historical":
		*t = TimeScopeHistorical
	default:
		*t = TimeScopeNone
	}
	return nil
}

// Intent is the derived classification of a query.
type Intent struct {
	Type            IntentType             `json:"type"`
	Confidence      float64                `json:"confidence"`
	Entities        []string               `json:"entities"`
	Keywords        []string               `json:"keywords"`
	Filters         map[string]interface{} `json:"filters"`
	DepartmentScope string                 `json:"department_scope,omitempty"`
	TimeScope       TimeScope              `json:"time_scope,omitempty"`
}

// Analysis is the aggregate result for a single query.
// ExpectedResultTypes is never empty; it falls back to ["any"].
type Analysis struct {
	OriginalQuery       string   `json:"original_query"`
	ProcessedQuery      string   `json:"processed_query"`
	Intent              *Intent  `json:"intent"`
	Suggestions         []string `json:"suggestions"`
	ExpectedResultTypes []string `json:"expected_result_types"`
	ComplexityScore     float64  `json:"complexity_score"`
}

// AnalyzeResponse is the response for an analyze request.
type AnalyzeResponse struct {
	Analysis       *Analysis `json:"analysis"`
	CorrectedQuery string    `json:"corrected_query,omitempty"`
	RelatedQueries []string  `json:"related_queries,omitempty"`
	AnalysisTime   int64     `json:"analysis_time_ms"`
}
