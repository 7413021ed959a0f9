// Package cli provides CLI utilities for Kaiseki.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/pkg/utils"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteAnalysis writes an analyze response to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteAnalysis(w io.Writer, response *models.AnalyzeResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeAnalysisText(w, response)
		return nil
	}
}

func writeAnalysisText(w io.Writer, response *models.AnalyzeResponse) {
	analysis := response.Analysis
	fmt.Fprintf(w, "\nQuery: %s\n", analysis.OriginalQuery)
	if response.CorrectedQuery != "" {
		fmt.Fprintf(w, "Did you mean: %s\n", response.CorrectedQuery)
	}
	fmt.Fprintf(w, "Intent: %s (confidence %.2f)\n", analysis.Intent.Type, analysis.Intent.Confidence)
	if analysis.Intent.DepartmentScope != "" {
		fmt.Fprintf(w, "Department: %s\n", analysis.Intent.DepartmentScope)
	}
	if analysis.Intent.TimeScope != models.TimeScopeNone {
		fmt.Fprintf(w, "Time scope: %s\n", analysis.Intent.TimeScope)
	}
	if len(analysis.Intent.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords: %s\n", strings.Join(analysis.Intent.Keywords, ", "))
	}
	if len(analysis.Intent.Entities) > 0 {
		fmt.Fprintf(w, "Entities: %s\n", strings.Join(analysis.Intent.Entities, ", "))
	}
	fmt.Fprintf(w, "Expected results: %s\n", strings.Join(analysis.ExpectedResultTypes, ", "))
	fmt.Fprintf(w, "Complexity: %.2f\n", analysis.ComplexityScore)
	if len(analysis.Suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range analysis.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if len(response.RelatedQueries) > 0 {
		fmt.Fprintln(w, "\nRelated queries:")
		for _, q := range response.RelatedQueries {
			fmt.Fprintf(w, "  - %s\n", q)
		}
	}
	fmt.Fprintf(w, "\nAnalyzed in %dms\n", response.AnalysisTime)
}

// WriteHistory writes history records to w in the given format.
func WriteHistory(w io.Writer, records []*models.QueryRecord, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		writeHistoryText(w, records)
		return nil
	}
}

func writeHistoryText(w io.Writer, records []*models.QueryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No queries recorded.")
		return
	}
	for _, rec := range records {
		scope := rec.Department
		if scope == "" {
			scope = "-"
		}
		fmt.Fprintf(w, "%s  [%s/%s]  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04"), rec.IntentType, scope, utils.Truncate(rec.Query, 80))
	}
	fmt.Fprintf(w, "\n%d queries\n", len(records))
}

// PrintAnalysis prints an analyze response to stdout in text format.
func PrintAnalysis(response *models.AnalyzeResponse) {
	_ = WriteAnalysis(os.Stdout, response, OutputText)
}
