// Package engine orchestrates query analysis: spell correction, related
// query lookup, and history recording around the pure analyzer.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/analyzer"
	"github.com/hyperjump/kaiseki/internal/config"
	"github.com/hyperjump/kaiseki/internal/history"
	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/internal/spell"
)

// Engine runs the analysis pipeline. The analyzer and spell checker are
// swapped atomically on table reload; everything else is fixed at startup.
type Engine struct {
	mu       sync.RWMutex
	analyzer *analyzer.Analyzer
	checker  *spell.Checker
	dict     *spell.StaticDictionary

	store  *history.Store
	index  *history.Index
	config *config.AnalyzerConfig
	logger *zap.Logger
}

// NewEngine creates an engine. store and index may be nil, in which case
// history recording and related-query lookup are skipped.
func NewEngine(
	a *analyzer.Analyzer,
	store *history.Store,
	index *history.Index,
	cfg *config.AnalyzerConfig,
	logger *zap.Logger,
) *Engine {
	e := &Engine{
		store:  store,
		index:  index,
		config: cfg,
		logger: logger,
	}
	e.swapAnalyzer(a)
	return e
}

// swapAnalyzer installs a new analyzer and rebuilds the spell checker from
// its vocabulary. Observed term frequencies are reseeded.
func (e *Engine) swapAnalyzer(a *analyzer.Analyzer) {
	dict := spell.NewStaticDictionary(a.Tables().Vocabulary())
	checker := spell.NewChecker(dict,
		spell.WithMaxDistance(e.config.Spell.MaxDistance),
		spell.WithMinFrequency(e.config.Spell.MinFrequency),
	)
	e.mu.Lock()
	e.analyzer = a
	e.dict = dict
	e.checker = checker
	e.mu.Unlock()
}

// Reload compiles a new tables config and swaps it in. Used by the tables
// file watcher and safe to call while requests are in flight.
func (e *Engine) Reload(tables *analyzer.TablesConfig) error {
	compiled, err := analyzer.Compile(tables)
	if err != nil {
		return err
	}
	e.swapAnalyzer(analyzer.New(compiled))
	e.logger.Info("analyzer tables reloaded")
	return nil
}

// Analyze analyzes one query. Analysis itself never fails; the returned
// error covers only storage faults, and those are logged and swallowed so
// a history outage does not fail requests.
func (e *Engine) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	startTime := time.Now()
	req.Normalize()

	e.mu.RLock()
	a := e.analyzer
	checker := e.checker
	dict := e.dict
	e.mu.RUnlock()

	analysis := a.Analyze(req.Query, req.Context)

	response := &models.AnalyzeResponse{Analysis: analysis}

	if e.config.Spell.SpellEnabled() && req.Query != "" {
		if corrected := checker.CorrectedQuery(analysis.ProcessedQuery); corrected != analysis.ProcessedQuery {
			response.CorrectedQuery = corrected
		}
	}

	response.RelatedQueries = e.relatedQueries(req, analysis)

	e.record(ctx, req, analysis, dict)

	response.AnalysisTime = time.Since(startTime).Milliseconds()
	return response, nil
}

// relatedQueries combines index hits with caller-supplied recent searches
// that share at least one keyword with the analysis.
func (e *Engine) relatedQueries(req *models.AnalyzeRequest, analysis *models.Analysis) []string {
	limit := e.config.MaxRelated
	if limit <= 0 || req.Query == "" {
		return nil
	}

	related := []string{}
	seen := make(map[string]struct{})
	add := func(q string) {
		key := strings.ToLower(strings.TrimSpace(q))
		if key == "" || key == strings.ToLower(req.Query) {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		related = append(related, q)
	}

	if e.index != nil {
		hits, err := e.index.Related(req.Query, limit)
		if err != nil {
			e.logger.Warn("related query lookup failed", zap.Error(err))
		}
		for _, q := range hits {
			add(q)
		}
	}

	if req.Context != nil {
		for _, recent := range req.Context.RecentSearches {
			if len(related) >= limit {
				break
			}
			if sharesKeyword(recent, analysis.Intent.Keywords) {
				add(recent)
			}
		}
	}

	if len(related) > limit {
		related = related[:limit]
	}
	return related
}

// sharesKeyword reports whether any analysis keyword appears as a word in
// the candidate query.
func sharesKeyword(candidate string, keywords []string) bool {
	fields := strings.Fields(strings.ToLower(candidate))
	for _, f := range fields {
		for _, kw := range keywords {
			if f == kw {
				return true
			}
		}
	}
	return false
}

// record stores the analysis in history and feeds the related index and
// spell dictionary. Best effort: failures are logged, never returned.
func (e *Engine) record(ctx context.Context, req *models.AnalyzeRequest, analysis *models.Analysis, dict *spell.StaticDictionary) {
	if req.Query == "" {
		return
	}

	dict.Observe(analysis.Intent.Keywords...)

	if e.store == nil {
		return
	}
	rec := &models.QueryRecord{
		Query:      req.Query,
		IntentType: analysis.Intent.Type,
		Department: analysis.Intent.DepartmentScope,
		TimeScope:  analysis.Intent.TimeScope,
		Complexity: analysis.ComplexityScore,
	}
	if err := e.store.Record(ctx, rec); err != nil {
		e.logger.Warn("history record failed", zap.String("query", req.Query), zap.Error(err))
		return
	}
	if e.index != nil {
		if err := e.index.Add(rec.ID, rec.Query, rec.Department); err != nil {
			e.logger.Warn("related index add failed", zap.String("id", rec.ID), zap.Error(err))
		}
	}
}

// Recent returns recent history entries, optionally scoped to a department.
func (e *Engine) Recent(ctx context.Context, department string, limit int) ([]*models.QueryRecord, error) {
	if e.store == nil {
		return []*models.QueryRecord{}, nil
	}
	if department != "" {
		return e.store.RecentByDepartment(ctx, department, limit)
	}
	return e.store.Recent(ctx, limit)
}

// CountQueries returns the total number of stored history entries.
func (e *Engine) CountQueries(ctx context.Context) (int64, error) {
	if e.store == nil {
		return 0, nil
	}
	return e.store.CountQueries(ctx)
}
