package analyzer

import "strings"

// preprocess lowercases the query, expands contractions, and collapses
// runs of whitespace to single spaces.
func (a *Analyzer) preprocess(query string) string {
	processed := strings.ToLower(query)
	for _, rule := range a.tables.contractions {
		processed = rule.pattern.ReplaceAllString(processed, rule.replacement)
	}
	return strings.Join(strings.Fields(processed), " ")
}

// containsWord reports whether word appears as a whitespace-delimited token
// in text (after trimming common trailing punctuation from tokens).
func containsWord(text, word string) bool {
	for _, tok := range strings.Fields(text) {
		if strings.TrimRight(tok, "?.!,;:") == word {
			return true
		}
	}
	return false
}
