package search

// FusionConfig defines weights for hybrid score fusion.
type FusionConfig struct {
	SemanticWeight float64
	KeywordWeight  float64
}

// DefaultFusionConfig provides balanced fusion (70% semantic, 30% keyword).
var DefaultFusionConfig = FusionConfig{
	SemanticWeight: 0.7,
	KeywordWeight:  0.3,
}

// fuseScores combines BM25 and semantic results using weighted fusion.
// Both inputs are expected to be normalized; results are keyed by DocKey.
func fuseScores(bm25Results, semanticResults []SearchResult, config FusionConfig) []SearchResult {
	semanticMap := make(map[string]SearchResult, len(semanticResults))
	for _, result := range semanticResults {
		semanticMap[result.DocKey] = result
	}

	bm25Map := make(map[string]SearchResult, len(bm25Results))
	for _, result := range bm25Results {
		bm25Map[result.DocKey] = result
	}

	// Semantic order first, then keyword-only hits, so fusion is deterministic.
	keys := make([]string, 0, len(semanticResults)+len(bm25Results))
	seen := make(map[string]bool)
	for _, result := range semanticResults {
		if !seen[result.DocKey] {
			seen[result.DocKey] = true
			keys = append(keys, result.DocKey)
		}
	}
	for _, result := range bm25Results {
		if !seen[result.DocKey] {
			seen[result.DocKey] = true
			keys = append(keys, result.DocKey)
		}
	}

	fusedResults := make([]SearchResult, 0, len(keys))
	for _, key := range keys {
		bm25Result, hasBM25 := bm25Map[key]
		semanticResult, hasSemantic := semanticMap[key]

		var fused SearchResult
		switch {
		case hasBM25 && hasSemantic:
			fused = semanticResult
			fused.Score = config.SemanticWeight*semanticResult.Score +
				config.KeywordWeight*bm25Result.Score
		case hasSemantic:
			fused = semanticResult
			fused.Score = config.SemanticWeight * semanticResult.Score
		case hasBM25:
			fused = bm25Result
			fused.Score = config.KeywordWeight * bm25Result.Score
		}

		fusedResults = append(fusedResults, fused)
	}

	return fusedResults
}

// normalizeScores normalizes scores to [0, 1] range.
func normalizeScores(results []SearchResult) []SearchResult {
	if len(results) == 0 {
		return results
	}

	// Find min and max scores
	minScore := results[0].Score
	maxScore := results[0].Score

	for _, result := range results {
		if result.Score < minScore {
			minScore = result.Score
		}
		if result.Score > maxScore {
			maxScore = result.Score
		}
	}

	// Avoid division by zero - when all scores are equal, set all to 1.0
	if maxScore == minScore {
		normalized := make([]SearchResult, len(results))
		for i, result := range results {
			normalized[i] = result
			normalized[i].Score = 1.0
		}
		return normalized
	}

	normalized := make([]SearchResult, len(results))
	for i, result := range results {
		normalized[i] = result
		normalized[i].Score = (result.Score - minScore) / (maxScore - minScore)
	}

	return normalized
}
