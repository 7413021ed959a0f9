package analyzer

import "github.com/hyperjump/kaiseki/internal/models"

// detectIntent counts pattern hits per intent category and returns the
// category with the most hits, plus the hit count. Ties break to the
// earlier category in intentOrder; zero hits default to informational.
func (a *Analyzer) detectIntent(processed string) (models.IntentType, int) {
	best := models.IntentInformational
	bestHits := 0
	for _, rule := range a.tables.intents {
		hits := 0
		for _, re := range rule.patterns {
			if re.MatchString(processed) {
				hits++
			}
		}
		if hits > bestHits {
			best = rule.intent
			bestHits = hits
		}
	}
	return best, bestHits
}
