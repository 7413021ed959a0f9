package history

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// indexedQuery is the document shape stored in the related-query index.
type indexedQuery struct {
	Query      string `json:"query"`
	Department string `json:"department"`
}

// Index is an in-memory full-text index over past query texts, used to
// surface related queries for a new one.
type Index struct {
	index bleve.Index
}

// NewIndex creates an in-memory Bleve index for query texts.
// Standard analyzer (lowercase + tokenize, no stemming) so query terms
// match the exact words users typed.
func NewIndex() (*Index, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("query", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("department", keywordFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create query index: %w", err)
	}
	return &Index{index: index}, nil
}

// Add indexes one past query under the given id.
func (i *Index) Add(id, query, department string) error {
	return i.index.Index(id, &indexedQuery{Query: query, Department: department})
}

// Related returns up to limit distinct past query texts matching the given
// query, excluding exact duplicates of it.
func (i *Index) Related(query string, limit int) ([]string, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return []string{}, nil
	}

	q := bleve.NewMatchQuery(query)
	q.SetField("query")
	req := bleve.NewSearchRequest(q)
	// Fetch extra hits so duplicates of the input can be dropped.
	req.Size = limit * 2
	req.Fields = []string{"query"}

	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("related query search failed: %w", err)
	}

	seen := make(map[string]struct{})
	related := []string{}
	normalized := strings.ToLower(strings.TrimSpace(query))
	for _, hit := range results.Hits {
		text, ok := hit.Fields["query"].(string)
		if !ok || text == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(text))
		if key == normalized {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		related = append(related, text)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

// Close closes the underlying index.
func (i *Index) Close() error {
	return i.index.Close()
}
