package search

import (
	"container/heap"
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/khanglvm/focus-ask/internal/docsynth"
	"github.com/khanglvm/focus-ask/internal/embedding"
	"github.com/khanglvm/focus-ask/internal/storage"
)

// SemanticIndex holds one embedding per synthesized document.
//
// It is created once at engine start, shared by every query, and closed at
// shutdown. Entries are write-once: a rebuild is an explicit operation.
type SemanticIndex struct {
	embedder embedding.Embedder
	store    storage.Storage
	keyword  *Indexer
	lockPath string

	mu      sync.RWMutex
	entries []storage.IndexEntry
	byKey   map[string]int

	// buildMu serializes builders within this process; the lock file
	// serializes them across processes.
	buildMu sync.Mutex
}

// IndexOption configures a SemanticIndex.
type IndexOption func(*SemanticIndex)

// WithKeywordIndex attaches a BM25 index kept in sync with the entries.
func WithKeywordIndex(ix *Indexer) IndexOption {
	return func(s *SemanticIndex) { s.keyword = ix }
}

// WithLockPath sets the cross-process build lock file.
func WithLockPath(path string) IndexOption {
	return func(s *SemanticIndex) { s.lockPath = path }
}

// NewSemanticIndex creates an index over store using emb for documents and queries.
func NewSemanticIndex(emb embedding.Embedder, store storage.Storage, opts ...IndexOption) *SemanticIndex {
	s := &SemanticIndex{
		embedder: emb,
		store:    store,
		byKey:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads persisted entries into memory and syncs the keyword index.
func (s *SemanticIndex) Open() error {
	if err := s.reload(); err != nil {
		return err
	}

	s.mu.RLock()
	entries := s.entries
	s.mu.RUnlock()

	model := s.embedder.Model()
	for _, e := range entries {
		if e.Model != model {
			log.Printf("Warning: index was built with %q but queries use %q; run 'focus-ask index rebuild'", e.Model, model)
			break
		}
	}

	if s.keyword != nil {
		count, err := s.keyword.Count()
		if err != nil || count != uint64(len(entries)) {
			if err := s.keyword.Reset(); err != nil {
				log.Printf("Warning: failed to reset keyword index: %v", err)
				return nil
			}
			if err := s.keyword.IndexEntries(entries); err != nil {
				log.Printf("Warning: failed to sync keyword index: %v", err)
			}
		}
	}
	return nil
}

// reload replaces the in-memory entries with the persisted ones.
// A disabled store keeps whatever was built in memory.
func (s *SemanticIndex) reload() error {
	if !s.store.Enabled() {
		return nil
	}

	entries, err := s.store.ListEntries()
	if err != nil {
		return fmt.Errorf("failed to load index entries: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.byKey = make(map[string]int, len(entries))
	for i, e := range entries {
		s.byKey[e.DocKey] = i
	}
	return nil
}

// Count returns the number of indexed entries.
func (s *SemanticIndex) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Model returns the embedding model queries are embedded with.
func (s *SemanticIndex) Model() string {
	return s.embedder.Model()
}

// Granularities counts entries per document kind.
func (s *SemanticIndex) Granularities() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, e := range s.entries {
		counts[e.Granularity]++
	}
	return counts
}

// Build embeds and persists docs in order, skipping keys already indexed.
// It returns the number of new entries.
func (s *SemanticIndex) Build(ctx context.Context, docs []docsynth.IndexDocument) (int, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	return s.build(ctx, docs)
}

func (s *SemanticIndex) build(ctx context.Context, docs []docsynth.IndexDocument) (int, error) {
	s.mu.RLock()
	seen := make(map[string]bool, len(s.byKey)+len(docs))
	for key := range s.byKey {
		seen[key] = true
	}
	s.mu.RUnlock()

	// Another process may have persisted keys since the last reload.
	if s.store.Enabled() {
		persisted, err := s.store.IndexedKeys()
		if err != nil {
			return 0, fmt.Errorf("failed to read indexed keys: %w", err)
		}
		for key := range persisted {
			seen[key] = true
		}
	}

	model := s.embedder.Model()
	now := time.Now()

	batch := make([]storage.IndexEntry, 0, len(docs))
	for _, doc := range docs {
		if seen[doc.Key] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		vec, err := s.embedder.Embed(ctx, doc.Text)
		if err != nil {
			return 0, fmt.Errorf("failed to embed document %s: %w", doc.Key, err)
		}
		seen[doc.Key] = true

		batch = append(batch, storage.IndexEntry{
			ID:          uuid.NewString(),
			DocKey:      doc.Key,
			Granularity: string(doc.Granularity),
			Text:        doc.Text,
			Metadata:    doc.Metadata,
			Embedding:   vec,
			Model:       model,
			CreatedAt:   now,
		})
	}

	if len(batch) == 0 {
		return 0, nil
	}

	inserted := len(batch)
	if s.store.Enabled() {
		n, err := s.store.InsertEntries(batch)
		if err != nil {
			return 0, fmt.Errorf("failed to persist index entries: %w", err)
		}
		inserted = n
		if err := s.reload(); err != nil {
			return 0, err
		}
	} else {
		s.appendLocal(batch)
	}

	if s.keyword != nil {
		if err := s.keyword.IndexEntries(batch); err != nil {
			log.Printf("Warning: keyword indexing failed: %v", err)
		}
	}

	return inserted, nil
}

// appendLocal adds entries to the in-memory mirror with local sequence numbers.
func (s *SemanticIndex) appendLocal(batch []storage.IndexEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var seq int64
	if n := len(s.entries); n > 0 {
		seq = s.entries[n-1].Seq
	}
	for _, e := range batch {
		seq++
		e.Seq = seq
		s.byKey[e.DocKey] = len(s.entries)
		s.entries = append(s.entries, e)
	}
}

// EnsureBuilt builds the index from docs only when it is empty.
//
// The count is re-checked after taking the cross-process lock and reloading,
// so concurrent builders never insert the same documents twice.
func (s *SemanticIndex) EnsureBuilt(ctx context.Context, docs []docsynth.IndexDocument) (int, error) {
	if s.Count() > 0 {
		return 0, nil
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if s.Count() > 0 {
		return 0, nil
	}

	lock, err := acquireLock(ctx, s.lockPath)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire index lock: %w", err)
	}
	defer lock.Release()

	if err := s.reload(); err != nil {
		return 0, err
	}
	if s.Count() > 0 {
		return 0, nil
	}

	return s.build(ctx, docs)
}

// Rebuild clears every entry and builds from docs.
func (s *SemanticIndex) Rebuild(ctx context.Context, docs []docsynth.IndexDocument) (int, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	lock, err := acquireLock(ctx, s.lockPath)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire index lock: %w", err)
	}
	defer lock.Release()

	if err := s.store.ClearEntries(); err != nil {
		return 0, fmt.Errorf("failed to clear index: %w", err)
	}

	s.mu.Lock()
	s.entries = nil
	s.byKey = make(map[string]int)
	s.mu.Unlock()

	if s.keyword != nil {
		if err := s.keyword.Reset(); err != nil {
			log.Printf("Warning: failed to reset keyword index: %v", err)
		}
	}

	return s.build(ctx, docs)
}

// Query returns the k entries nearest to question by cosine similarity,
// most similar first. Equal scores keep insertion order. An empty index
// yields an empty result.
func (s *SemanticIndex) Query(ctx context.Context, question string, k int) ([]SearchResult, error) {
	s.mu.RLock()
	entries := s.entries
	s.mu.RUnlock()

	if len(entries) == 0 || k <= 0 {
		return []SearchResult{}, nil
	}

	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	return topK(entries, vec, k), nil
}

// QueryHybrid fuses normalized cosine and BM25 scores. Without a keyword
// index, or when keyword search fails, it behaves like Query.
func (s *SemanticIndex) QueryHybrid(ctx context.Context, question string, k int, config FusionConfig) ([]SearchResult, error) {
	if s.keyword == nil {
		return s.Query(ctx, question, k)
	}

	pool := k * 2
	semanticResults, err := s.Query(ctx, question, pool)
	if err != nil {
		return nil, err
	}
	if len(semanticResults) == 0 {
		return semanticResults, nil
	}

	bm25Results, err := s.keyword.SearchBM25(question, pool)
	if err != nil {
		log.Printf("Warning: keyword search failed, using semantic results only: %v", err)
		return truncate(semanticResults, k), nil
	}

	fused := fuseScores(normalizeScores(bm25Results), normalizeScores(semanticResults), config)

	// Keyword hits carry no metadata; fill it from the entries.
	s.mu.RLock()
	for i := range fused {
		if idx, ok := s.byKey[fused[i].DocKey]; ok {
			e := s.entries[idx]
			fused[i].ID = e.ID
			fused[i].Metadata = e.Metadata
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})

	return truncate(fused, k), nil
}

// Close releases the keyword index. The store is owned by the caller.
func (s *SemanticIndex) Close() error {
	if s.keyword != nil {
		return s.keyword.Close()
	}
	return nil
}

func truncate(results []SearchResult, k int) []SearchResult {
	if len(results) > k {
		return results[:k]
	}
	return results
}

type scored struct {
	idx   int
	seq   int64
	score float64
}

// better reports whether a ranks ahead of b.
func better(a, b scored) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.seq < b.seq
}

// minHeap implements heap.Interface for top-K selection (worst at root).
type minHeap []scored

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return better(h[j], h[i]) }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)        { *h = append(*h, x.(scored)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func topK(entries []storage.IndexEntry, query []float32, k int) []SearchResult {
	h := &minHeap{}
	heap.Init(h)

	for i, e := range entries {
		c := scored{idx: i, seq: e.Seq, score: embedding.CosineSimilarity(query, e.Embedding)}
		if h.Len() < k {
			heap.Push(h, c)
		} else if better(c, (*h)[0]) {
			(*h)[0] = c
			heap.Fix(h, 0)
		}
	}

	ranked := make([]scored, h.Len())
	for i := len(ranked) - 1; i >= 0; i-- {
		ranked[i] = heap.Pop(h).(scored)
	}

	results := make([]SearchResult, len(ranked))
	for i, c := range ranked {
		e := entries[c.idx]
		results[i] = SearchResult{
			ID:          e.ID,
			DocKey:      e.DocKey,
			Granularity: e.Granularity,
			Text:        e.Text,
			Metadata:    e.Metadata,
			Score:       c.score,
		}
	}
	return results
}
