package analyzer

import (
	"fmt"
	"strings"

	"github.com/hyperjump/kaiseki/internal/models"
)

// docTypeHint maps query substrings to document type filter values.
type docTypeHint struct {
	triggers []string
	types    []string
}

var docTypeHints = []docTypeHint{
	{
		triggers: []string{"report", "analysis", "dashboard"},
		types:    []string{"analysis", "dashboard", "technical_report"},
	},
	{
		triggers: []string{"procedure", "process", "how to"},
		types:    []string{"procedure", "playbook", "checklist"},
	},
	{
		triggers: []string{"strategy", "plan", "roadmap"},
		types:    []string{"strategic_plan", "financial_plan"},
	},
}

var classificationTriggers = []string{"confidential", "sensitive", "restricted"}

// buildFilters synthesizes the filter map from detected scopes and query
// substring hints. Only recognized categories produce keys.
func (a *Analyzer) buildFilters(processed, department string, timeScope models.TimeScope) map[string]interface{} {
	filters := make(map[string]interface{})
	if department != "" {
		filters["department"] = department
	}
	if timeScope != models.TimeScopeNone {
		filters["time_scope"] = timeScope.String()
	}
	for _, hint := range docTypeHints {
		for _, trigger := range hint.triggers {
			if strings.Contains(processed, trigger) {
				filters["document_types"] = hint.types
				break
			}
		}
		if _, ok := filters["document_types"]; ok {
			break
		}
	}
	for _, trigger := range classificationTriggers {
		if strings.Contains(processed, trigger) {
			filters["classification"] = "confidential"
			break
		}
	}
	return filters
}

// buildSuggestions produces up to three templated refinement suggestions
// from the detected department, intent, time scope, and leading keywords.
func (a *Analyzer) buildSuggestions(intent *models.Intent) []string {
	kwPhrase := strings.Join(firstN(intent.Keywords, 2), " ")
	suggestions := []string{}
	if intent.DepartmentScope != "" && kwPhrase != "" {
		suggestions = append(suggestions,
			fmt.Sprintf("%s documents about %s", intent.DepartmentScope, kwPhrase))
	}
	if kwPhrase != "" {
		switch intent.Type {
		case models.IntentAnalytical:
			suggestions = append(suggestions, fmt.Sprintf("trend analysis of %s", kwPhrase))
		case models.IntentProcedural:
			suggestions = append(suggestions, fmt.Sprintf("step by step guide for %s", kwPhrase))
		case models.IntentTroubleshooting:
			suggestions = append(suggestions, fmt.Sprintf("known issues with %s", kwPhrase))
		default:
			suggestions = append(suggestions, fmt.Sprintf("overview of %s", kwPhrase))
		}
	}
	if intent.TimeScope != models.TimeScopeNone && kwPhrase != "" {
		suggestions = append(suggestions,
			fmt.Sprintf("%s %s summary", intent.TimeScope, kwPhrase))
	}
	if len(suggestions) > maxSuggestionsOut {
		suggestions = suggestions[:maxSuggestionsOut]
	}
	return suggestions
}

// expectedResultTypes maps intent type and department to document type
// tags. Informational intent contributes no specific tags; the result
// falls back to ["any"] and is therefore never empty.
func (a *Analyzer) expectedResultTypes(intentType models.IntentType, department string) []string {
	types := []string{}
	switch intentType {
	case models.IntentAnalytical:
		types = append(types, "report", "dashboard", "analysis")
	case models.IntentProcedural:
		types = append(types, "procedure", "guide", "playbook")
	case models.IntentTroubleshooting:
		types = append(types, "runbook", "faq", "troubleshooting_guide")
	}
	if department != "" {
		types = append(types, department+"_document")
	}
	if len(types) == 0 {
		types = []string{"any"}
	}
	return types
}

// firstN returns up to n leading elements of s.
func firstN(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
