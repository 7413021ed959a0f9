package analyzer

import (
	"strings"
	"unicode"
)

// extractKeywords tokenizes the processed query, drops stop words and
// tokens of two characters or fewer, expands synonyms, and deduplicates.
// First-seen order is preserved so analysis is deterministic, but the
// order itself is not part of the contract; callers must not rely on it.
func (a *Analyzer) extractKeywords(processed string) []string {
	seen := make(map[string]struct{})
	keywords := []string{}
	add := func(kw string) {
		if _, ok := seen[kw]; ok {
			return
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}

	for _, tok := range strings.Fields(processed) {
		tok = normalizeToken(tok)
		if len(tok) <= 2 {
			continue
		}
		if _, stop := a.tables.stopWords[tok]; stop {
			continue
		}
		add(tok)
		for _, syn := range a.tables.synonyms[tok] {
			add(syn)
		}
	}
	return keywords
}

// normalizeToken strips leading and trailing punctuation from a token,
// keeping internal punctuation such as hyphens and underscores.
func normalizeToken(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) && r != '-' && r != '_'
	})
}
