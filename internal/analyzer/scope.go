package analyzer

import "github.com/hyperjump/kaiseki/internal/models"

// literalNameBonus is added to a department's score when its name appears
// verbatim in the query.
const literalNameBonus = 2

// detectDepartment scores each department by counting extracted keywords
// present in its keyword table, plus a flat bonus for a literal department
// name mention. The highest-scoring department wins if any score is
// positive; ties break to the earlier department in evaluation order.
// Departments with larger keyword tables are structurally favored; the
// scores are deliberately not normalized by table size.
func (a *Analyzer) detectDepartment(processed string, keywords []string) string {
	best := ""
	bestScore := 0
	for _, dept := range a.tables.departments {
		score := 0
		for _, kw := range keywords {
			if _, ok := dept.keywords[kw]; ok {
				score++
			}
		}
		if containsWord(processed, dept.name) {
			score += literalNameBonus
		}
		if score > bestScore {
			best = dept.name
			bestScore = score
		}
	}
	return best
}

// detectTimeScope returns the first time scope whose pattern list matches,
// checking scopes in the fixed recent, quarterly, yearly, historical order.
func (a *Analyzer) detectTimeScope(processed string) models.TimeScope {
	for _, rule := range a.tables.timeScopes {
		for _, re := range rule.patterns {
			if re.MatchString(processed) {
				return rule.scope
			}
		}
	}
	return models.TimeScopeNone
}
