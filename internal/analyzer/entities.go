package analyzer

// extractEntities pulls organization-style names, date literals, and bare
// numeric or percentage tokens from the processed query. Matches from all
// patterns are concatenated in pattern order; duplicates are permitted.
func (a *Analyzer) extractEntities(processed string) []string {
	entities := []string{}
	for _, re := range a.tables.entityPatterns {
		entities = append(entities, re.FindAllString(processed, -1)...)
	}
	return entities
}
