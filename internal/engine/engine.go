/*
Package engine answers natural-language questions about usage history.

An Engine classifies each question. Known intents are answered exactly by
quick analysis over the log and rendered with fixed templates; anything else
retrieves the nearest indexed documents and asks a generation backend. No
failure escapes Answer: errors and panics become an apology sentence.

The semantic index is built once, at Start, and only rebuilt explicitly.
*/
package engine

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/khanglvm/focus-ask/internal/analysis"
	"github.com/khanglvm/focus-ask/internal/answer"
	"github.com/khanglvm/focus-ask/internal/classify"
	"github.com/khanglvm/focus-ask/internal/config"
	"github.com/khanglvm/focus-ask/internal/docsynth"
	"github.com/khanglvm/focus-ask/internal/history"
	"github.com/khanglvm/focus-ask/internal/llm"
	"github.com/khanglvm/focus-ask/internal/metrics"
	"github.com/khanglvm/focus-ask/internal/search"
	"github.com/khanglvm/focus-ask/internal/storage"
	"github.com/khanglvm/focus-ask/internal/usagelog"
)

// DefaultTopK is how many documents the retrieval path uses.
const DefaultTopK = 3

// Response is a diagnostic view of one answered question.
type Response struct {
	Answer    string                `json:"answer"`
	Intent    classify.Intent       `json:"intent"`
	Path      string                `json:"path"`
	Result    *analysis.Result      `json:"result,omitempty"`
	Sources   []search.SearchResult `json:"sources,omitempty"`
	Latency   time.Duration         `json:"-"`
	LatencyMS int64                 `json:"latency_ms"`
	Err       error                 `json:"-"`
}

// Deps are the components an Engine is assembled from. Only Log and Index
// are required.
type Deps struct {
	Log       *usagelog.Log
	Index     *search.SemanticIndex
	Generator llm.Generator
	Store     storage.Storage
	Tracker   *history.Tracker
	Metrics   *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithTopK sets how many documents the retrieval path uses.
func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithRetrieval selects semantic or hybrid retrieval.
func WithRetrieval(mode string, fusion search.FusionConfig) Option {
	return func(e *Engine) {
		e.mode = mode
		e.fusion = fusion
	}
}

// WithClock overrides the time used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithClassifier replaces the default intent rules.
func WithClassifier(c *classify.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// Engine is the query orchestrator. It is safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	usage    *usagelog.Log
	analysis *analysis.Engine

	classifier *classify.Classifier
	index      *search.SemanticIndex
	synth      *answer.Synthesizer
	store      storage.Storage
	tracker    *history.Tracker
	metrics    *metrics.Metrics

	topK   int
	mode   string
	fusion search.FusionConfig
	now    func() time.Time
}

// New assembles an Engine. Call Start before answering retrieval questions.
func New(d Deps, opts ...Option) *Engine {
	usage := d.Log
	if usage == nil {
		usage = usagelog.NewLog(nil)
	}
	gen := d.Generator
	if gen == nil {
		gen = llm.Disabled{}
	}

	e := &Engine{
		usage:      usage,
		analysis:   analysis.NewEngine(usage),
		classifier: classify.New(classify.DefaultRules),
		index:      d.Index,
		synth:      answer.NewSynthesizer(gen),
		store:      d.Store,
		tracker:    d.Tracker,
		metrics:    d.Metrics,
		topK:       DefaultTopK,
		mode:       config.ModeSemantic,
		fusion:     search.DefaultFusionConfig,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start builds the semantic index if it is empty. An empty log skips the build.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.RLock()
	usage := e.usage
	e.mu.RUnlock()

	if usage.Empty() {
		log.Printf("Usage log is empty, skipping index build")
		return nil
	}

	docs := docsynth.Synthesize(usage.Records())
	n, err := e.index.EnsureBuilt(ctx, docs)
	if err != nil {
		e.metrics.BackendError(OpEmbedding)
		return &BackendError{Op: OpEmbedding, Err: err}
	}
	if n > 0 {
		log.Printf("Indexed %d documents", n)
		e.metrics.IndexBuilt()
	}
	e.metrics.SetIndexDocuments(e.index.Count())
	return nil
}

// Rebuild reloads the usage log from disk (when it came from a file) and
// rebuilds the index from it.
func (e *Engine) Rebuild(ctx context.Context) (int, error) {
	e.mu.RLock()
	usage := e.usage
	e.mu.RUnlock()

	if usage.Path != "" {
		fresh, err := usagelog.Load(usage.Path)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrData, err)
		}
		e.mu.Lock()
		e.usage = fresh
		e.analysis = analysis.NewEngine(fresh)
		e.mu.Unlock()
		usage = fresh
	}

	n, err := e.index.Rebuild(ctx, docsynth.Synthesize(usage.Records()))
	if err != nil {
		e.metrics.BackendError(OpEmbedding)
		return 0, &BackendError{Op: OpEmbedding, Err: err}
	}
	log.Printf("Rebuilt index with %d documents", n)
	e.metrics.IndexBuilt()
	e.metrics.SetIndexDocuments(e.index.Count())
	return n, nil
}

// Answer returns the answer sentence for question. It never fails.
func (e *Engine) Answer(ctx context.Context, question string) string {
	return e.Ask(ctx, question).Answer
}

// Ask answers question and reports how the answer was produced.
func (e *Engine) Ask(ctx context.Context, question string) (resp Response) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error: panic while answering question: %v\n%s", r, debug.Stack())
			resp = Response{
				Answer: ErrorApology,
				Intent: resp.Intent,
				Path:   history.PathError,
				Err:    fmt.Errorf("panic: %v", r),
			}
		}
		resp.Latency = time.Since(start)
		resp.LatencyMS = resp.Latency.Milliseconds()
		e.record(question, resp)
	}()

	resp.Intent = e.classifier.Classify(question)

	if resp.Intent != classify.General {
		e.mu.RLock()
		engine := e.analysis
		e.mu.RUnlock()

		result := engine.Analyze(resp.Intent, e.now())
		resp.Path = history.PathQuick
		resp.Result = &result
		resp.Answer = answer.Explain(result)
		return resp
	}

	resp.Path = history.PathRetrieval
	sources, err := e.retrieve(ctx, question)
	if err != nil {
		resp.Err = &BackendError{Op: OpEmbedding, Err: err}
		resp.Path = history.PathError
		resp.Answer = ErrorApology
		log.Printf("Error: %v", resp.Err)
		e.metrics.BackendError(OpEmbedding)
		return resp
	}
	resp.Sources = sources

	text, err := e.synth.General(ctx, question, search.Texts(sources))
	if err != nil {
		resp.Err = &BackendError{Op: OpGeneration, Err: err}
		log.Printf("Error: %v", resp.Err)
		e.metrics.BackendError(OpGeneration)
	}
	resp.Answer = text
	return resp
}

func (e *Engine) retrieve(ctx context.Context, question string) ([]search.SearchResult, error) {
	if e.mode == config.ModeHybrid {
		return e.index.QueryHybrid(ctx, question, e.topK, e.fusion)
	}
	return e.index.Query(ctx, question, e.topK)
}

func (e *Engine) record(question string, resp Response) {
	e.metrics.ObserveAnswer(string(resp.Intent), resp.Path, resp.Latency)
	if e.tracker != nil {
		e.tracker.Track(history.NewQuestionEvent(question, string(resp.Intent), resp.Path, resp.Latency))
	}
}

// Classify returns the intent of question.
func (e *Engine) Classify(question string) classify.Intent {
	return e.classifier.Classify(question)
}

// Count returns the number of indexed documents.
func (e *Engine) Count() int {
	return e.index.Count()
}

// Log returns the usage log currently answered from.
func (e *Engine) Log() *usagelog.Log {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.usage
}

// Metrics returns the engine's metrics, possibly nil.
func (e *Engine) Metrics() *metrics.Metrics {
	return e.metrics
}

// Close stops background work and releases the index and storage.
func (e *Engine) Close() error {
	if e.tracker != nil {
		e.tracker.Stop()
	}
	var firstErr error
	if err := e.index.Close(); err != nil {
		firstErr = err
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
