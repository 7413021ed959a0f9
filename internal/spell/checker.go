package spell

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Dictionary supplies known terms and their observed frequencies.
type Dictionary interface {
	// Terms returns all known terms, lowercased.
	Terms() []string
	// Frequency returns how often a term has been observed. Terms seeded
	// without observations report a frequency of 1.
	Frequency(term string) int
}

// StaticDictionary is an in-memory Dictionary seeded from a vocabulary and
// optionally updated with observed query terms. Safe for concurrent use.
type StaticDictionary struct {
	mu    sync.RWMutex
	terms map[string]int
	cache []string
}

// NewStaticDictionary creates a dictionary seeded with the given terms.
func NewStaticDictionary(seed []string) *StaticDictionary {
	d := &StaticDictionary{terms: make(map[string]int, len(seed))}
	for _, t := range seed {
		d.terms[strings.ToLower(t)] = 1
	}
	return d
}

// Observe records one occurrence of each given term, adding unknown terms
// to the dictionary.
func (d *StaticDictionary) Observe(terms ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range terms {
		t = strings.ToLower(t)
		if len(t) <= 2 {
			continue
		}
		d.terms[t]++
	}
	d.cache = nil
}

// Terms returns all known terms in sorted order.
func (d *StaticDictionary) Terms() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cache == nil {
		d.cache = make([]string, 0, len(d.terms))
		for t := range d.terms {
			d.cache = append(d.cache, t)
		}
		sort.Strings(d.cache)
	}
	return d.cache
}

// Frequency returns the observed count for a term, zero if unknown.
func (d *StaticDictionary) Frequency(term string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.terms[strings.ToLower(term)]
}

// Suggestion is a correction candidate for a single term.
type Suggestion struct {
	Term      string
	Distance  int
	Frequency int
	Score     float64
}

// Result holds the outcome of checking one query.
type Result struct {
	OriginalQuery   string
	CorrectedQuery  string
	MisspelledTerms []string
	HasCorrections  bool
}

// Checker suggests corrections for query terms not found in a dictionary.
type Checker struct {
	dict           Dictionary
	maxDistance    int
	minFrequency   int
	maxSuggestions int
}

// Option configures a Checker.
type Option func(*Checker)

// WithMaxDistance sets the maximum edit distance for suggestions.
func WithMaxDistance(d int) Option {
	return func(c *Checker) {
		if d > 0 {
			c.maxDistance = d
		}
	}
}

// WithMinFrequency sets the minimum dictionary frequency for suggestions.
func WithMinFrequency(f int) Option {
	return func(c *Checker) {
		if f > 0 {
			c.minFrequency = f
		}
	}
}

// WithMaxSuggestions caps how many suggestions Suggest returns per term.
func WithMaxSuggestions(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.maxSuggestions = n
		}
	}
}

// NewChecker creates a Checker over the given dictionary.
func NewChecker(dict Dictionary, opts ...Option) *Checker {
	c := &Checker{
		dict:           dict,
		maxDistance:    2,
		minFrequency:   1,
		maxSuggestions: 5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check looks up each query term in the dictionary and replaces unknown
// terms with their best suggestion. Terms of two characters or fewer,
// numeric tokens, and terms with no close dictionary match pass through
// unchanged.
func (c *Checker) Check(query string) *Result {
	result := &Result{
		OriginalQuery:   query,
		MisspelledTerms: []string{},
	}

	tokens := strings.Fields(strings.ToLower(query))
	corrected := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		term := strings.TrimFunc(tok, unicode.IsPunct)
		if len(term) <= 2 || isNumeric(term) || c.dict.Frequency(term) > 0 {
			corrected = append(corrected, tok)
			continue
		}
		suggestions := c.Suggest(term)
		if len(suggestions) == 0 {
			corrected = append(corrected, tok)
			continue
		}
		result.HasCorrections = true
		result.MisspelledTerms = append(result.MisspelledTerms, term)
		corrected = append(corrected, suggestions[0].Term)
	}
	result.CorrectedQuery = strings.Join(corrected, " ")
	return result
}

// Suggest returns ranked correction candidates for a single term.
// Distance and frequency are combined so close, common terms rank first.
func (c *Checker) Suggest(term string) []Suggestion {
	term = strings.ToLower(term)
	suggestions := []Suggestion{}
	for _, dictTerm := range c.dict.Terms() {
		if dictTerm == term {
			continue
		}
		lenDiff := len(dictTerm) - len(term)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > c.maxDistance {
			continue
		}
		distance := Distance(term, dictTerm)
		if distance > c.maxDistance {
			continue
		}
		freq := c.dict.Frequency(dictTerm)
		if freq < c.minFrequency {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Term:      dictTerm,
			Distance:  distance,
			Frequency: freq,
			Score:     float64(freq) / float64(distance+1),
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Term < suggestions[j].Term
	})
	if len(suggestions) > c.maxSuggestions {
		suggestions = suggestions[:c.maxSuggestions]
	}
	return suggestions
}

// CorrectedQuery returns the best corrected form of query, or the query
// itself when no corrections apply.
func (c *Checker) CorrectedQuery(query string) string {
	result := c.Check(query)
	if !result.HasCorrections {
		return query
	}
	return result.CorrectedQuery
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != '%' {
			return false
		}
	}
	return true
}
