// Package analyzer provides rule-based analysis of free-text search queries:
// intent, entities, keywords, department and time scope, filters, and a
// complexity estimate for downstream ranking.
package analyzer

import (
	"strings"

	"github.com/hyperjump/kaiseki/internal/models"
)

// Confidence bounds and scaling for intent detection.
const (
	minConfidence     = 0.5
	maxConfidence     = 0.95
	baseConfidence    = 0.6
	perHitConfidence  = 0.15
	maxSuggestionsOut = 3
)

// Analyzer analyzes free-text queries against compiled lookup tables.
// It holds no mutable state; a single Analyzer is safe for concurrent use.
type Analyzer struct {
	tables *Tables
}

// New creates an Analyzer from compiled tables.
func New(tables *Tables) *Analyzer {
	return &Analyzer{tables: tables}
}

// NewDefault creates an Analyzer with the built-in tables.
func NewDefault() *Analyzer {
	tables, err := Compile(DefaultTablesConfig())
	if err != nil {
		// Built-in patterns are compile-time constants; failure here is a bug.
		panic(err)
	}
	return New(tables)
}

// Tables returns the analyzer's compiled tables.
func (a *Analyzer) Tables() *Tables {
	return a.tables
}

// Analyze runs the full pipeline on a query. It never fails: absence of
// matches degrades to defaults (informational intent, confidence 0.5, no
// scopes, result types ["any"]). qctx may be nil.
func (a *Analyzer) Analyze(query string, qctx *models.QueryContext) *models.Analysis {
	processed := a.preprocess(query)

	intentType, hits := a.detectIntent(processed)
	confidence := minConfidence
	if hits > 0 {
		confidence = baseConfidence + float64(hits)*perHitConfidence
		if confidence > maxConfidence {
			confidence = maxConfidence
		}
	}

	entities := a.extractEntities(processed)
	keywords := a.extractKeywords(processed)
	department := a.detectDepartment(processed, keywords)
	timeScope := a.detectTimeScope(processed)

	// Caller context fills in the department only when detection found none.
	if department == "" && qctx != nil && qctx.Department != "" {
		department = strings.ToLower(qctx.Department)
	}

	intent := &models.Intent{
		Type:            intentType,
		Confidence:      confidence,
		Entities:        entities,
		Keywords:        keywords,
		Filters:         a.buildFilters(processed, department, timeScope),
		DepartmentScope: department,
		TimeScope:       timeScope,
	}

	return &models.Analysis{
		OriginalQuery:       query,
		ProcessedQuery:      processed,
		Intent:              intent,
		Suggestions:         a.buildSuggestions(intent),
		ExpectedResultTypes: a.expectedResultTypes(intentType, department),
		ComplexityScore:     a.complexityScore(processed, intent),
	}
}

// intentComplexity is the fixed per-intent complexity contribution.
func intentComplexity(t models.IntentType) float64 {
	switch t {
	case models.IntentAnalytical:
		return 0.3
	case models.IntentTroubleshooting:
		return 0.25
	case models.IntentProcedural:
		return 0.2
	default:
		return 0.1
	}
}

// complexityScore estimates query richness in [0, 1]. Each term is capped
// so no single signal dominates.
func (a *Analyzer) complexityScore(processed string, intent *models.Intent) float64 {
	score := capped(float64(len(strings.Fields(processed)))/20, 0.3)
	score += capped(float64(len(intent.Entities))/5, 0.2)
	score += capped(float64(len(intent.Keywords))/10, 0.2)
	score += intentComplexity(intent.Type)
	score += capped(float64(len(intent.Filters))/5, 0.2)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func capped(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}
