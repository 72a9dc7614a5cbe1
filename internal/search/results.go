/*
Package search implements the semantic index used by the retrieval fallback.

The SemanticIndex embeds synthesized documents once, persists them through
storage, and answers nearest-neighbor queries by cosine similarity. An optional
Bleve keyword index over the same documents supports hybrid retrieval, where
normalized BM25 and cosine scores are fused.
*/
package search

// SearchResult represents a single retrieved document with relevance score.
type SearchResult struct {
	ID          string         `json:"id"`
	DocKey      string         `json:"doc_key"`
	Granularity string         `json:"granularity"`
	Text        string         `json:"text"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Score       float64        `json:"score"`
}

// Texts returns the document texts of results in order.
func Texts(results []SearchResult) []string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return texts
}
