package search

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/index/scorch"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/khanglvm/focus-ask/internal/storage"
)

// Indexer is the keyword (BM25) leg of retrieval, backed by Bleve.
type Indexer struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
	indexPath  string
}

// NewIndexer creates a new keyword indexer with in-memory Bleve index.
func NewIndexer() (*Indexer, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Indexer{bleveIndex: index}, nil
}

// NewIndexerWithPath creates a new indexer with persistent disk storage.
func NewIndexerWithPath(indexPath string) (*Indexer, error) {
	index, err := openOrCreate(indexPath)
	if err != nil {
		return nil, err
	}

	return &Indexer{
		bleveIndex: index,
		indexPath:  indexPath,
	}, nil
}

func openOrCreate(indexPath string) (bleve.Index, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	index, err := bleve.NewUsing(indexPath, buildIndexMapping(), scorch.Name, scorch.Name, nil)
	if err != nil {
		// If index exists, open it
		index, err = bleve.Open(indexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open/create index: %w", err)
		}
	}
	return index, nil
}

// buildIndexMapping creates the Bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	// Text field: searchable document text
	docMapping.AddFieldMappingsAt("text", bleve.NewTextFieldMapping())

	// Granularity: exact-match filter
	docMapping.AddFieldMappingsAt("granularity", bleve.NewKeywordFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// IndexEntries adds entries keyed by DocKey. Re-indexing a key replaces it.
func (i *Indexer) IndexEntries(entries []storage.IndexEntry) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.bleveIndex.NewBatch()
	for _, e := range entries {
		doc := map[string]interface{}{
			"text":        e.Text,
			"granularity": e.Granularity,
			"id":          e.ID,
		}
		if err := batch.Index(e.DocKey, doc); err != nil {
			log.Printf("Warning: failed to index document %s: %v", e.DocKey, err)
		}
	}

	if err := i.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index documents: %w", err)
	}
	return nil
}

// Reset discards every document. A persistent index is deleted and recreated.
func (i *Indexer) Reset() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.bleveIndex.Close(); err != nil {
		log.Printf("Warning: failed to close keyword index: %v", err)
	}

	if i.indexPath == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return fmt.Errorf("failed to create bleve index: %w", err)
		}
		i.bleveIndex = index
		return nil
	}

	if err := os.RemoveAll(i.indexPath); err != nil {
		return fmt.Errorf("failed to remove keyword index: %w", err)
	}
	index, err := openOrCreate(i.indexPath)
	if err != nil {
		return err
	}
	i.bleveIndex = index
	return nil
}

// Count returns the total number of indexed documents.
func (i *Indexer) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close closes the index and releases resources.
func (i *Indexer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}

	return nil
}

// buildMatchQuery creates a match query for BM25 search.
func (i *Indexer) buildMatchQuery(searchText string) query.Query {
	q := bleve.NewMatchQuery(searchText)
	q.SetField("text")
	return q
}
