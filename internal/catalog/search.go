package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/wonny/stockpicker/internal/contracts"
)

const (
	// DefaultSearchLimit is used when the caller passes limit <= 0
	DefaultSearchLimit = 10
	// MaxSearchLimit caps a single search
	MaxSearchLimit = 50
)

// searchDoc is the indexed view of an instrument
type searchDoc struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
	Reason string `json:"reason"`
}

// SearchIndex is an in-memory full-text index over a Catalog
type SearchIndex struct {
	catalog *Catalog
	index   bleve.Index
}

// NewSearchIndex builds the index for every instrument in c
func NewSearchIndex(c *Catalog) (*SearchIndex, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	batch := index.NewBatch()
	for _, inst := range c.instruments {
		doc := searchDoc{
			Symbol: strings.ToLower(NormalizeSymbol(inst.Symbol)),
			Name:   inst.Name,
			Sector: inst.Sector,
			Reason: inst.Reason,
		}
		if err := batch.Index(NormalizeSymbol(inst.Symbol), doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to index %s: %w", inst.Symbol, err)
		}
	}

	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to build search index: %w", err)
	}

	return &SearchIndex{catalog: c, index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// 심볼은 토큰화하지 않음 (PETR4 그대로)
	symbolField := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("symbol", symbolField)

	textField := bleve.NewTextFieldMapping()
	docMapping.AddFieldMappingsAt("name", textField)
	docMapping.AddFieldMappingsAt("sector", textField)
	docMapping.AddFieldMappingsAt("reason", textField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Search returns instruments matching q, best match first.
// Ties keep dataset order. An empty query matches nothing.
func (s *SearchIndex) Search(q string, limit int) ([]SearchHit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []SearchHit{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)

	req := bleve.NewSearchRequest(buildQuery(q))
	req.Size = s.catalog.Len()

	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		idx, ok := s.catalog.bySymbol[h.ID]
		if !ok {
			continue
		}
		hits = append(hits, SearchHit{
			Instrument: s.catalog.instruments[idx],
			Score:      h.Score,
			position:   idx,
		})
	}

	slices.SortStableFunc(hits, func(a, b SearchHit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.position, b.position)
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// buildQuery combines symbol prefix and text matches, symbol weighted highest
func buildQuery(q string) query.Query {
	lower := strings.ToLower(q)

	exactSymbol := bleve.NewTermQuery(lower)
	exactSymbol.SetField("symbol")
	exactSymbol.SetBoost(10.0)

	prefixSymbol := bleve.NewPrefixQuery(lower)
	prefixSymbol.SetField("symbol")
	prefixSymbol.SetBoost(5.0)

	name := bleve.NewMatchQuery(q)
	name.SetField("name")
	name.SetBoost(3.0)

	namePrefix := bleve.NewPrefixQuery(lower)
	namePrefix.SetField("name")
	namePrefix.SetBoost(2.0)

	sector := bleve.NewMatchQuery(q)
	sector.SetField("sector")
	sector.SetBoost(1.5)

	reason := bleve.NewMatchQuery(q)
	reason.SetField("reason")

	return bleve.NewDisjunctionQuery(exactSymbol, prefixSymbol, name, namePrefix, sector, reason)
}

// Close releases the index
func (s *SearchIndex) Close() error {
	return s.index.Close()
}

// SearchHit is one search result
type SearchHit struct {
	Instrument contracts.Instrument `json:"instrument"`
	Score      float64              `json:"score"`
	position   int
}
