package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/khanglvm/focus-ask/internal/config"
	"github.com/khanglvm/focus-ask/internal/embedding"
	"github.com/khanglvm/focus-ask/internal/history"
	"github.com/khanglvm/focus-ask/internal/llm"
	"github.com/khanglvm/focus-ask/internal/metrics"
	"github.com/khanglvm/focus-ask/internal/search"
	"github.com/khanglvm/focus-ask/internal/storage"
	"github.com/khanglvm/focus-ask/internal/usagelog"
)

// Open wires an Engine from cfg and starts it.
//
// An unreadable or malformed usage log degrades to an empty log; its path is
// kept so Rebuild can retry. A storage that cannot be opened degrades to an
// in-memory index and no history. A failed index build is logged; retrieval
// then sees an empty index.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics, opts ...Option) (*Engine, error) {
	usage, err := usagelog.Load(cfg.UsageLog.Path)
	if err != nil {
		log.Printf("Warning: %v: %v; answering from an empty log until 'focus-ask index rebuild'", ErrData, err)
		usage = usagelog.NewLog(nil)
		usage.Path = cfg.UsageLog.Path
	}

	emb, err := embedding.New(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	gen, err := llm.New(cfg.Generation)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	store := storage.NewStorage(cfg.Index.Path)
	if err := store.Init(); err != nil {
		log.Printf("Warning: index storage unavailable, using an in-memory index without history: %v", err)
	}

	indexOpts := []search.IndexOption{search.WithLockPath(cfg.Index.LockPath())}
	if cfg.Retrieval.Mode == config.ModeHybrid {
		keyword, err := openKeywordIndex(cfg.Index.KeywordPath)
		if err != nil {
			log.Printf("Warning: keyword index unavailable, using semantic retrieval only: %v", err)
		} else {
			indexOpts = append(indexOpts, search.WithKeywordIndex(keyword))
		}
	}

	index := search.NewSemanticIndex(emb, store, indexOpts...)
	if err := index.Open(); err != nil {
		log.Printf("Warning: %v", err)
	}

	var tracker *history.Tracker
	if cfg.History.Enabled {
		tracker = history.NewTracker(store)
		if cfg.History.RetentionDays > 0 {
			retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
			if err := store.Cleanup(retention); err != nil {
				log.Printf("Warning: history cleanup failed: %v", err)
			}
		}
	}

	opts = append([]Option{
		WithTopK(cfg.Retrieval.TopK),
		WithRetrieval(cfg.Retrieval.Mode, search.FusionConfig{
			SemanticWeight: cfg.Retrieval.SemanticWeight,
			KeywordWeight:  cfg.Retrieval.KeywordWeight,
		}),
	}, opts...)

	e := New(Deps{
		Log:       usage,
		Index:     index,
		Generator: gen,
		Store:     store,
		Tracker:   tracker,
		Metrics:   m,
	}, opts...)

	if err := e.Start(ctx); err != nil {
		log.Printf("Warning: index build failed: %v", err)
	}
	return e, nil
}

func openKeywordIndex(path string) (*search.Indexer, error) {
	if path == "" {
		return search.NewIndexer()
	}
	return search.NewIndexerWithPath(path)
}
