package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hyperjump/kaiseki/internal/models"
)

// TablesConfig holds the declarative lookup tables driving analysis.
// Every field is overridable from YAML; zero values fall back to defaults.
// Intent and department evaluation order is fixed (see intentOrder and
// departmentOrder below) regardless of how overrides are keyed, because
// tie-breaking is first-seen-wins and Go map iteration order would make
// results non-deterministic.
type TablesConfig struct {
	Contractions       map[string]string   `yaml:"contractions"`
	IntentPatterns     map[string][]string `yaml:"intent_patterns"`
	StopWords          []string            `yaml:"stop_words"`
	Synonyms           map[string][]string `yaml:"synonyms"`
	DepartmentKeywords map[string][]string `yaml:"department_keywords"`
	TimePatterns       map[string][]string `yaml:"time_patterns"`
}

// intentOrder fixes evaluation (and tie-break) order for intent detection.
var intentOrder = []models.IntentType{
	models.IntentInformational,
	models.IntentAnalytical,
	models.IntentProcedural,
	models.IntentTroubleshooting,
}

// timeScopeOrder fixes evaluation order for time scoping: first match wins.
var timeScopeOrder = []models.TimeScope{
	models.TimeScopeRecent,
	models.TimeScopeQuarterly,
	models.TimeScopeYearly,
	models.TimeScopeHistorical,
}

// defaultDepartmentOrder fixes evaluation (and tie-break) order for the
// built-in departments. Departments added via overrides are appended in
// sorted name order after these.
var defaultDepartmentOrder = []string{
	"sales", "marketing", "engineering", "finance",
	"hr", "support", "security", "operations",
}

// DefaultTablesConfig returns the built-in lookup tables.
func DefaultTablesConfig() *TablesConfig {
	return &TablesConfig{
		Contractions: map[string]string{
			"what's":  "what is",
			"who's":   "who is",
			"where's": "where is",
			"how's":   "how is",
			"there's": "there is",
			"it's":    "it is",
			"can't":   "cannot",
			"won't":   "will not",
			"don't":   "do not",
			"doesn't": "does not",
			"isn't":   "is not",
			"aren't":  "are not",
			"didn't":  "did not",
			"i'm":     "i am",
			"we're":   "we are",
		},
		IntentPatterns: map[string][]string{
			"informational": {
				`\bwhat is\b`, `\bwhat are\b`, `\bwho is\b`, `\bwhere\b`,
				`\bwhen\b`, `\bdefine\b`, `\bexplain\b`, `\btell me about\b`,
				`\boverview of\b`, `\bmeaning of\b`,
			},
			"analytical": {
				`\banaly[sz]`, `\bcompar`, `\btrend`, `\bmetrics\b`,
				`\breport on\b`, `\bstatistics\b`, `\bcorrelat`,
				`\bbreakdown\b`, `\bversus\b`, `\bvs\b`,
			},
			"procedural": {
				`\bhow do i\b`, `\bhow to\b`, `\bhow can i\b`, `\bsteps to\b`,
				`\bprocess for\b`, `\bprocedure\b`, `\binstructions\b`,
				`\bguide\b`, `\bchecklist\b`,
			},
			"troubleshooting": {
				`\berror\b`, `\bissue\b`, `\bproblem\b`,
				`\bfail(?:ed|ing|ure)?\b`, `\bbroken\b`, `\bnot working\b`,
				`\bfix\b`, `\bdebug\b`, `\btroubleshoot`, `\bcrash`,
			},
		},
		StopWords: []string{
			"a", "an", "the", "is", "are", "was", "were", "be", "been",
			"being", "do", "does", "did", "will", "would", "can", "could",
			"should", "may", "might", "must", "of", "in", "on", "at", "to",
			"for", "with", "about", "our", "your", "my", "their", "his",
			"her", "its", "we", "you", "they", "he", "she", "it", "i",
			"and", "or", "but", "not", "no", "what", "when", "where", "who",
			"why", "how", "which", "this", "that", "these", "those", "there",
			"here", "from", "by", "as", "if", "than", "then", "so", "me",
			"us", "them", "am", "have", "has", "had", "get", "got", "any",
			"all", "some", "please",
		},
		Synonyms: map[string][]string{
			"sales":       {"revenue", "selling"},
			"revenue":     {"sales", "income"},
			"customer":    {"client"},
			"employee":    {"staff"},
			"error":       {"bug", "failure"},
			"report":      {"analysis", "summary"},
			"performance": {"metrics", "results"},
			"budget":      {"financial", "spending"},
			"policy":      {"guideline", "rule"},
			"incident":    {"outage", "breach"},
		},
		DepartmentKeywords: map[string][]string{
			"sales": {
				"sales", "revenue", "deal", "deals", "pipeline", "quota",
				"prospect", "forecast", "performance", "conversion", "crm",
			},
			"marketing": {
				"marketing", "campaign", "brand", "content", "seo",
				"advertising", "engagement", "leads", "audience", "outreach",
			},
			"engineering": {
				"engineering", "code", "deployment", "architecture", "api",
				"release", "infrastructure", "sprint", "backend", "frontend",
			},
			"finance": {
				"finance", "budget", "cost", "expense", "invoice", "audit",
				"accounting", "margin", "spend", "payable", "receivable",
			},
			"hr": {
				"hiring", "onboarding", "payroll", "benefits", "recruiting",
				"employee", "leave", "training", "attrition", "headcount",
			},
			"support": {
				"support", "ticket", "tickets", "escalate", "escalation",
				"issue", "customer", "complaint", "resolution", "sla",
			},
			"security": {
				"security", "incident", "breach", "vulnerability", "threat",
				"phishing", "compliance", "audit", "access", "firewall",
				"malware",
			},
			"operations": {
				"operations", "logistics", "vendor", "procurement",
				"inventory", "supply", "facilities", "scheduling", "shipping",
			},
		},
		TimePatterns: map[string][]string{
			"recent": {
				`\brecent(?:ly)?\b`, `\blatest\b`, `\btoday\b`,
				`\byesterday\b`, `\bthis (?:week|month)\b`,
				`\blast (?:week|month)\b`, `\bpast few days\b`,
			},
			"quarterly": {
				`\bq[1-4]\b`, `\bquarter(?:ly)?\b`,
				`\b(?:this|last|next) quarter\b`,
			},
			"yearly": {
				`\bannual(?:ly)?\b`, `\byearly\b`, `\b(?:this|last) year\b`,
				`\bfiscal year\b`, `\bytd\b`, `\b20\d{2}\b`,
			},
			"historical": {
				`\bhistor(?:y|ical)\b`, `\barchived?\b`, `\bpast\b`,
				`\bprevious\b`, `\ball time\b`, `\bover time\b`,
			},
		},
	}
}

// ApplyDefaults fills empty tables with defaults. Non-empty overrides
// replace the corresponding default table wholesale.
func (c *TablesConfig) ApplyDefaults() {
	defaults := DefaultTablesConfig()
	if len(c.Contractions) == 0 {
		c.Contractions = defaults.Contractions
	}
	if len(c.IntentPatterns) == 0 {
		c.IntentPatterns = defaults.IntentPatterns
	}
	if len(c.StopWords) == 0 {
		c.StopWords = defaults.StopWords
	}
	if len(c.Synonyms) == 0 {
		c.Synonyms = defaults.Synonyms
	}
	if len(c.DepartmentKeywords) == 0 {
		c.DepartmentKeywords = defaults.DepartmentKeywords
	}
	if len(c.TimePatterns) == 0 {
		c.TimePatterns = defaults.TimePatterns
	}
}

// intentRule is a compiled intent category.
type intentRule struct {
	intent   models.IntentType
	patterns []*regexp.Regexp
}

// departmentRule is a compiled department category.
type departmentRule struct {
	name     string
	keywords map[string]struct{}
}

// timeRule is a compiled time-scope category.
type timeRule struct {
	scope    models.TimeScope
	patterns []*regexp.Regexp
}

// contractionRule expands one contraction at word boundaries.
type contractionRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Tables is the compiled, read-only form of TablesConfig. It is built once
// and shared by reference; nothing mutates it after Compile, so a single
// Tables value is safe for concurrent use.
type Tables struct {
	contractions   []contractionRule
	intents        []intentRule
	stopWords      map[string]struct{}
	synonyms       map[string][]string
	departments    []departmentRule
	timeScopes     []timeRule
	entityPatterns []*regexp.Regexp
}

// entityPatternSources are the entity extraction regexes, applied in order
// against the processed (lowercased) query. Matches are concatenated and
// duplicates are permitted.
var entityPatternSources = []string{
	// Organization-style names: one to three words followed by a corporate suffix.
	`\b\w+(?: \w+){0,2} (?:corp|corporation|inc|incorporated|llc|ltd|limited)\b`,
	// Date literals in three formats.
	`\b\d{4}-\d{2}-\d{2}\b`,
	`\b\d{1,2}/\d{1,2}/\d{2,4}\b`,
	`\b(?:january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept?|oct|nov|dec)\.? \d{1,2}(?:st|nd|rd|th)?,? \d{4}\b`,
	// Bare numeric and percentage tokens.
	`\b\d+(?:\.\d+)?%?`,
}

// Compile validates and compiles a TablesConfig into immutable Tables.
// Returns an error if any regex pattern fails to compile.
func Compile(cfg *TablesConfig) (*Tables, error) {
	cfg.ApplyDefaults()

	t := &Tables{
		stopWords: make(map[string]struct{}, len(cfg.StopWords)),
		synonyms:  cfg.Synonyms,
	}

	keys := make([]string, 0, len(cfg.Contractions))
	for k := range cfg.Contractions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(k)) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("contraction %q: %w", k, err)
		}
		t.contractions = append(t.contractions, contractionRule{
			pattern:     re,
			replacement: cfg.Contractions[k],
		})
	}

	for _, intent := range intentOrder {
		sources := cfg.IntentPatterns[intent.String()]
		rule := intentRule{intent: intent}
		for _, src := range sources {
			re, err := regexp.Compile(src)
			if err != nil {
				return nil, fmt.Errorf("intent pattern %q for %s: %w", src, intent, err)
			}
			rule.patterns = append(rule.patterns, re)
		}
		t.intents = append(t.intents, rule)
	}

	for _, w := range cfg.StopWords {
		t.stopWords[strings.ToLower(w)] = struct{}{}
	}

	for _, name := range departmentNames(cfg.DepartmentKeywords) {
		rule := departmentRule{name: name, keywords: make(map[string]struct{})}
		for _, kw := range cfg.DepartmentKeywords[name] {
			rule.keywords[strings.ToLower(kw)] = struct{}{}
		}
		t.departments = append(t.departments, rule)
	}

	for _, scope := range timeScopeOrder {
		sources := cfg.TimePatterns[scope.String()]
		rule := timeRule{scope: scope}
		for _, src := range sources {
			re, err := regexp.Compile(src)
			if err != nil {
				return nil, fmt.Errorf("time pattern %q for %s: %w", src, scope, err)
			}
			rule.patterns = append(rule.patterns, re)
		}
		t.timeScopes = append(t.timeScopes, rule)
	}

	for _, src := range entityPatternSources {
		t.entityPatterns = append(t.entityPatterns, regexp.MustCompile(src))
	}

	return t, nil
}

// departmentNames returns the department evaluation order: the built-in
// order first, then any extra configured departments sorted by name.
func departmentNames(keywords map[string][]string) []string {
	names := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, name := range defaultDepartmentOrder {
		if _, ok := keywords[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	extra := make([]string, 0)
	for name := range keywords {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// Vocabulary returns every known table term: department names and keywords,
// synonym keys and expansions. Used to seed the spell-check dictionary.
func (t *Tables) Vocabulary() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(term string) {
		if len(term) <= 2 {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	for _, dept := range t.departments {
		add(dept.name)
		kws := make([]string, 0, len(dept.keywords))
		for kw := range dept.keywords {
			kws = append(kws, kw)
		}
		sort.Strings(kws)
		for _, kw := range kws {
			add(kw)
		}
	}
	synKeys := make([]string, 0, len(t.synonyms))
	for k := range t.synonyms {
		synKeys = append(synKeys, k)
	}
	sort.Strings(synKeys)
	for _, k := range synKeys {
		add(k)
		for _, s := range t.synonyms[k] {
			add(s)
		}
	}
	return out
}
