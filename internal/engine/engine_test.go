package engine

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/analyzer"
	"github.com/hyperjump/kaiseki/internal/config"
	"github.com/hyperjump/kaiseki/internal/history"
	"github.com/hyperjump/kaiseki/internal/models"
)

func testConfig() *config.AnalyzerConfig {
	return &config.AnalyzerConfig{
		MaxRelated: 3,
		Spell: config.SpellConfig{
			MaxDistance:  2,
			MinFrequency: 1,
		},
	}
}

func newTestEngine(t *testing.T, withStore bool) *Engine {
	t.Helper()

	var store *history.Store
	var index *history.Index
	if withStore {
		var err error
		store, err = history.NewStore(filepath.Join(t.TempDir(), "history.db"))
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		t.Cleanup(func() { store.Close() })

		index, err = history.NewIndex()
		if err != nil {
			t.Fatalf("NewIndex: %v", err)
		}
		t.Cleanup(func() { index.Close() })
	}

	return NewEngine(analyzer.NewDefault(), store, index, testConfig(), zap.NewNop())
}

func TestEngine_Analyze(t *testing.T) {
	e := newTestEngine(t, true)
	ctx := context.Background()

	resp, err := e.Analyze(ctx, &models.AnalyzeRequest{Query: "What is our Q4 sales performance?"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.Analysis == nil {
		t.Fatal("expected analysis in response")
	}
	if resp.Analysis.Intent.Type != models.IntentInformational {
		t.Errorf("intent = %v, want informational", resp.Analysis.Intent.Type)
	}
	if resp.Analysis.Intent.DepartmentScope != "sales" {
		t.Errorf("department = %q, want sales", resp.Analysis.Intent.DepartmentScope)
	}
	if resp.CorrectedQuery != "" {
		t.Errorf("unexpected correction %q for well-formed query", resp.CorrectedQuery)
	}
	if resp.AnalysisTime < 0 {
		t.Errorf("analysis_time_ms = %d, want >= 0", resp.AnalysisTime)
	}

	count, err := e.CountQueries(ctx)
	if err != nil {
		t.Fatalf("CountQueries: %v", err)
	}
	if count != 1 {
		t.Errorf("stored queries = %d, want 1", count)
	}
}

func TestEngine_Analyze_SpellCorrection(t *testing.T) {
	e := newTestEngine(t, false)

	resp, err := e.Analyze(context.Background(), &models.AnalyzeRequest{Query: "salse report"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.CorrectedQuery != "sales report" {
		t.Errorf("corrected = %q, want %q", resp.CorrectedQuery, "sales report")
	}
}

func TestEngine_Analyze_SpellDisabled(t *testing.T) {
	cfg := testConfig()
	off := false
	cfg.Spell.Enabled = &off

	e := NewEngine(analyzer.NewDefault(), nil, nil, cfg, zap.NewNop())
	resp, err := e.Analyze(context.Background(), &models.AnalyzeRequest{Query: "salse report"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.CorrectedQuery != "" {
		t.Errorf("corrected = %q, want empty with spell check disabled", resp.CorrectedQuery)
	}
}

func TestEngine_Analyze_EmptyQuery(t *testing.T) {
	e := newTestEngine(t, true)
	ctx := context.Background()

	resp, err := e.Analyze(ctx, &models.AnalyzeRequest{Query: "   "})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.Analysis.Intent.Type != models.IntentInformational {
		t.Errorf("intent = %v, want informational default", resp.Analysis.Intent.Type)
	}
	if got := resp.Analysis.ExpectedResultTypes; len(got) != 1 || got[0] != "any" {
		t.Errorf("expected result types = %v, want [any]", got)
	}

	// Empty queries are not recorded.
	count, err := e.CountQueries(ctx)
	if err != nil {
		t.Fatalf("CountQueries: %v", err)
	}
	if count != 0 {
		t.Errorf("stored queries = %d, want 0", count)
	}
}

func TestEngine_RelatedQueries(t *testing.T) {
	e := newTestEngine(t, true)
	ctx := context.Background()

	seed := []string{
		"sales pipeline review",
		"quarterly sales targets",
		"marketing campaign budget",
	}
	for _, q := range seed {
		if _, err := e.Analyze(ctx, &models.AnalyzeRequest{Query: q}); err != nil {
			t.Fatalf("Analyze(%q): %v", q, err)
		}
	}

	resp, err := e.Analyze(ctx, &models.AnalyzeRequest{Query: "sales forecast"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(resp.RelatedQueries) == 0 {
		t.Fatal("expected related queries from index")
	}
	if len(resp.RelatedQueries) > 3 {
		t.Errorf("related = %d entries, want at most 3", len(resp.RelatedQueries))
	}
	for _, q := range resp.RelatedQueries {
		if q == "sales forecast" {
			t.Error("related queries must not echo the input")
		}
		if q == "marketing campaign budget" {
			t.Errorf("unrelated query %q surfaced as related", q)
		}
	}
}

func TestEngine_RelatedQueries_FromContext(t *testing.T) {
	e := newTestEngine(t, false)

	resp, err := e.Analyze(context.Background(), &models.AnalyzeRequest{
		Query: "sales forecast",
		Context: &models.QueryContext{
			RecentSearches: []string{
				"sales pipeline review",
				"office lunch menu",
			},
		},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(resp.RelatedQueries) != 1 || resp.RelatedQueries[0] != "sales pipeline review" {
		t.Errorf("related = %v, want [sales pipeline review]", resp.RelatedQueries)
	}
}

func TestEngine_Recent(t *testing.T) {
	e := newTestEngine(t, true)
	ctx := context.Background()

	queries := []string{
		"hiring plan for engineering",
		"quarterly sales targets",
	}
	for _, q := range queries {
		if _, err := e.Analyze(ctx, &models.AnalyzeRequest{Query: q}); err != nil {
			t.Fatalf("Analyze(%q): %v", q, err)
		}
	}

	recs, err := e.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("recent = %d records, want 2", len(recs))
	}

	sales, err := e.Recent(ctx, "sales", 10)
	if err != nil {
		t.Fatalf("Recent(sales): %v", err)
	}
	if len(sales) != 1 || sales[0].Query != "quarterly sales targets" {
		t.Errorf("sales history = %+v, want the sales query only", sales)
	}
}

func TestEngine_Reload(t *testing.T) {
	e := newTestEngine(t, false)
	ctx := context.Background()

	tables := analyzer.DefaultTablesConfig()
	tables.DepartmentKeywords["legal"] = []string{"contract", "compliance", "litigation"}
	if err := e.Reload(tables); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	resp, err := e.Analyze(ctx, &models.AnalyzeRequest{Query: "litigation contract review"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.Analysis.Intent.DepartmentScope != "legal" {
		t.Errorf("department = %q, want legal after reload", resp.Analysis.Intent.DepartmentScope)
	}
}

func TestEngine_Reload_BadPattern(t *testing.T) {
	e := newTestEngine(t, false)

	tables := analyzer.DefaultTablesConfig()
	tables.IntentPatterns["analytical"] = []string{"[unterminated"}
	if err := e.Reload(tables); err == nil {
		t.Fatal("expected error for invalid pattern")
	}

	// Previous analyzer stays in service after a failed reload.
	resp, err := e.Analyze(context.Background(), &models.AnalyzeRequest{Query: "compare revenue trends"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.Analysis.Intent.Type != models.IntentAnalytical {
		t.Errorf("intent = %v, want analytical", resp.Analysis.Intent.Type)
	}
}
