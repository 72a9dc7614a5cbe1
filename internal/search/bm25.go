package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
)

var resultFields = []string{"text", "granularity", "id"}

// SearchBM25 performs BM25 keyword search using Bleve.
func (i *Indexer) SearchBM25(query string, limit int) ([]SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	searchRequest := bleve.NewSearchRequestOptions(i.buildMatchQuery(query), limit, 0, false)
	searchRequest.Fields = resultFields

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// convertBleveResults converts Bleve search results to our SearchResult format.
func convertBleveResults(results *bleve.SearchResult) []SearchResult {
	searchResults := make([]SearchResult, 0, len(results.Hits))

	for _, hit := range results.Hits {
		text, _ := hit.Fields["text"].(string)
		granularity, _ := hit.Fields["granularity"].(string)
		id, _ := hit.Fields["id"].(string)

		searchResults = append(searchResults, SearchResult{
			ID:          id,
			DocKey:      hit.ID,
			Granularity: granularity,
			Text:        text,
			Score:       hit.Score,
		})
	}

	return searchResults
}
