package spell

import (
	"reflect"
	"testing"
)

func testDictionary() *StaticDictionary {
	return NewStaticDictionary([]string{
		"sales", "revenue", "report", "budget", "escalation",
		"security", "incident", "performance",
	})
}

func TestChecker_Check(t *testing.T) {
	c := NewChecker(testDictionary())

	tests := []struct {
		name           string
		query          string
		wantCorrected  string
		wantCorrection bool
		wantMisspelled []string
	}{
		{
			name:           "all terms known",
			query:          "sales report",
			wantCorrected:  "sales report",
			wantCorrection: false,
			wantMisspelled: []string{},
		},
		{
			name:           "single typo",
			query:          "salse report",
			wantCorrected:  "sales report",
			wantCorrection: true,
			wantMisspelled: []string{"salse"},
		},
		{
			name:           "typo with transposition",
			query:          "reprot on budgte",
			wantCorrected:  "report on budget",
			wantCorrection: true,
			wantMisspelled: []string{"reprot", "budgte"},
		},
		{
			name:           "numbers pass through",
			query:          "revenue 2024 3.5%",
			wantCorrected:  "revenue 2024 3.5%",
			wantCorrection: false,
			wantMisspelled: []string{},
		},
		{
			name:           "short tokens pass through",
			query:          "q4 of it",
			wantCorrected:  "q4 of it",
			wantCorrection: false,
			wantMisspelled: []string{},
		},
		{
			name:           "unknown word with no close match passes through",
			query:          "zygomorphic report",
			wantCorrected:  "zygomorphic report",
			wantCorrection: false,
			wantMisspelled: []string{},
		},
		{
			name:           "empty query",
			query:          "",
			wantCorrected:  "",
			wantCorrection: false,
			wantMisspelled: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Check(tt.query)
			if result.CorrectedQuery != tt.wantCorrected {
				t.Errorf("corrected = %q, want %q", result.CorrectedQuery, tt.wantCorrected)
			}
			if result.HasCorrections != tt.wantCorrection {
				t.Errorf("has corrections = %v, want %v", result.HasCorrections, tt.wantCorrection)
			}
			if !reflect.DeepEqual(result.MisspelledTerms, tt.wantMisspelled) {
				t.Errorf("misspelled = %v, want %v", result.MisspelledTerms, tt.wantMisspelled)
			}
		})
	}
}

func TestChecker_Suggest(t *testing.T) {
	dict := testDictionary()
	dict.Observe("sales", "sales", "sales")
	c := NewChecker(dict, WithMaxSuggestions(2))

	suggestions := c.Suggest("sale")
	if len(suggestions) == 0 {
		t.Fatal("no suggestions for near miss")
	}
	if suggestions[0].Term != "sales" {
		t.Errorf("top suggestion = %q, want %q", suggestions[0].Term, "sales")
	}
	if len(suggestions) > 2 {
		t.Errorf("got %d suggestions, want at most 2", len(suggestions))
	}
}

func TestChecker_MinFrequency(t *testing.T) {
	dict := testDictionary()
	dict.Observe("revenue", "revenue", "revenue", "revenue")
	c := NewChecker(dict, WithMinFrequency(3))

	// Only "revenue" has been observed often enough to be suggested.
	if got := c.CorrectedQuery("revenu summary"); got != "revenue summary" {
		t.Errorf("corrected = %q, want %q", got, "revenue summary")
	}
	if got := c.CorrectedQuery("salse summary"); got != "salse summary" {
		t.Errorf("corrected = %q, want %q", got, "salse summary")
	}
}

func TestStaticDictionary_Observe(t *testing.T) {
	dict := NewStaticDictionary([]string{"sales"})

	if dict.Frequency("sales") != 1 {
		t.Errorf("seeded frequency = %d, want 1", dict.Frequency("sales"))
	}
	dict.Observe("sales", "pipeline")
	if dict.Frequency("sales") != 2 {
		t.Errorf("observed frequency = %d, want 2", dict.Frequency("sales"))
	}
	if dict.Frequency("pipeline") != 1 {
		t.Errorf("new term frequency = %d, want 1", dict.Frequency("pipeline"))
	}

	// Short tokens are not added.
	dict.Observe("q4")
	if dict.Frequency("q4") != 0 {
		t.Errorf("short term frequency = %d, want 0", dict.Frequency("q4"))
	}

	terms := dict.Terms()
	want := []string{"pipeline", "sales"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("terms = %v, want %v", terms, want)
	}
}
