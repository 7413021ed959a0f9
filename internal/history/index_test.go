package history

import (
	"testing"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestIndex_Related(t *testing.T) {
	idx := newTestIndex(t)

	seed := []struct {
		id    string
		query string
		dept  string
	}{
		{"1", "q4 sales performance", "sales"},
		{"2", "sales pipeline forecast", "sales"},
		{"3", "annual sales targets", "sales"},
		{"4", "payroll schedule", "hr"},
	}
	for _, s := range seed {
		if err := idx.Add(s.id, s.query, s.dept); err != nil {
			t.Fatalf("Add(%s): %v", s.id, err)
		}
	}

	related, err := idx.Related("sales forecast", 2)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(related) == 0 {
		t.Fatal("no related queries for matching terms")
	}
	if len(related) > 2 {
		t.Errorf("got %d related queries, want at most 2", len(related))
	}
	for _, q := range related {
		if q == "payroll schedule" {
			t.Errorf("unrelated query %q returned", q)
		}
	}
}

func TestIndex_RelatedExcludesExactInput(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.Add("1", "q4 sales performance", "sales"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Add("2", "sales performance review", "sales"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	related, err := idx.Related("Q4 sales performance", 5)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	for _, q := range related {
		if q == "q4 sales performance" {
			t.Error("exact input query returned as related")
		}
	}
}

func TestIndex_RelatedDegenerateInputs(t *testing.T) {
	idx := newTestIndex(t)

	for _, query := range []string{"", "   "} {
		related, err := idx.Related(query, 5)
		if err != nil {
			t.Fatalf("Related(%q): %v", query, err)
		}
		if len(related) != 0 {
			t.Errorf("Related(%q) = %v, want empty", query, related)
		}
	}

	related, err := idx.Related("sales", 0)
	if err != nil {
		t.Fatalf("Related with zero limit: %v", err)
	}
	if len(related) != 0 {
		t.Errorf("Related with zero limit = %v, want empty", related)
	}
}

func TestIndex_RelatedNoMatches(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.Add("1", "payroll schedule", "hr"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	related, err := idx.Related("kubernetes deployment", 5)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(related) != 0 {
		t.Errorf("related = %v, want empty", related)
	}
}
