package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/storage"
)

const tracerName = "github.com/poiesic/kbsearch/ingestion"

// RecentLimit is how many recently indexed documents Status lists.
const RecentLimit = 5

// DocumentEmbedder is the part of the provider adapter the pipeline needs.
type DocumentEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelID() string
	IsReady() bool
}

// IndexResult reports a single indexed document.
type IndexResult struct {
	Success    bool    `json:"success"`
	DocumentId core.ID `json:"documentId"`
	Title      string  `json:"title"`
}

// RecentDocument is an entry in Status.RecentlyIndexed.
type RecentDocument struct {
	DocumentId core.ID   `json:"documentId"`
	Title      string    `json:"title"`
	ModelId    string    `json:"modelId"`
	IndexedAt  time.Time `json:"indexedAt"`
}

// Status describes how much of the approved corpus is indexed.
type Status struct {
	Configured      bool             `json:"configured"`
	ModelId         string           `json:"modelId"`
	ApprovedCount   int              `json:"totalApprovedCount"`
	IndexedCount    int              `json:"totalIndexedCount"`
	PendingCount    int              `json:"pendingCount"`
	StaleCount      int              `json:"staleCount"`
	RecentlyIndexed []RecentDocument `json:"recentlyIndexed"`
	LastRun         *core.IndexRun   `json:"lastRun,omitempty"`
}

// Pipeline indexes approved documents into the embedding store.
type Pipeline struct {
	documents    storage.DocumentSource
	embeddings   storage.EmbeddingRepository
	runs         storage.IndexRunRepository
	embedder     DocumentEmbedder
	pool         *ants.Pool
	embedProc    processor
	embedTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for batch indexing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithEmbedTimeout bounds each provider call. A call that times out fails
// only the document being embedded. Zero disables the bound.
func WithEmbedTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d < 0 {
			return fmt.Errorf("%w: negative embed timeout %s", core.ErrConfiguration, d)
		}
		p.embedTimeout = d
		return nil
	}
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(
	documents storage.DocumentSource,
	embeddings storage.EmbeddingRepository,
	runs storage.IndexRunRepository,
	embedder DocumentEmbedder,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentSourceRequired
	}
	if embeddings == nil {
		return nil, ErrEmbeddingRepositoryRequired
	}
	if runs == nil {
		return nil, ErrIndexRunRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents:  documents,
		embeddings: embeddings,
		runs:       runs,
		embedder:   embedder,
		pool:       pool,
		logger:     slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	// Create processors after options are applied (so they get final config)
	embedProc, err := newEmbeddingProcessor(embeddings, embedder, p.embedTimeout, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embedProc = embedProc

	return p, nil
}

// IndexOne indexes a single approved document. Errors are returned directly:
// core.ErrNotFound for a missing or unapproved document, core.ErrEmptyInput
// for a document without body text, and the provider's classified error
// otherwise.
func (p *Pipeline) IndexOne(ctx context.Context, id core.ID) (*IndexResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Pipeline.IndexOne")
	defer span.End()
	span.SetAttributes(attribute.Int64("document.id", int64(id)))

	result, err := p.indexOne(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) indexOne(ctx context.Context, id core.ID) (*IndexResult, error) {
	if !p.embedder.IsReady() {
		return nil, fmt.Errorf("%w: embedding provider not ready", core.ErrConfiguration)
	}

	doc, err := p.documents.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("document %d: %w", id, err)
	}

	if _, err := p.embedProc.process(ctx, doc); err != nil {
		p.logger.Warn("error indexing document", "id", id, "err", err)
		return nil, err
	}

	p.logger.Info("indexed document", "id", id, "title", doc.Title)
	return &IndexResult{Success: true, DocumentId: doc.Id, Title: doc.Title}, nil
}

// IndexAll indexes every approved document and saves the run report.
//
// A document that fails is recorded in the report and the batch carries on.
// Cancelling ctx stops the batch between documents; the partial report is
// saved and returned together with the context error.
func (p *Pipeline) IndexAll(ctx context.Context) (*core.IndexRun, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Pipeline.IndexAll")
	defer span.End()

	run, err := p.indexApproved(ctx, nil)
	recordRun(span, run, err)
	return run, err
}

// IndexStale indexes approved documents that are not indexed yet, whose text
// changed since they were indexed, or that were indexed by another model.
func (p *Pipeline) IndexStale(ctx context.Context) (*core.IndexRun, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Pipeline.IndexStale")
	defer span.End()

	run, err := p.indexApproved(ctx, p.isStale)
	recordRun(span, run, err)
	return run, err
}

func (p *Pipeline) indexApproved(ctx context.Context, include func(context.Context, *core.Document) (bool, error)) (*core.IndexRun, error) {
	if !p.embedder.IsReady() {
		return nil, fmt.Errorf("%w: embedding provider not ready", core.ErrConfiguration)
	}

	docs, err := p.documents.ListApprovedDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing approved documents: %w", err)
	}

	if include != nil {
		selected := make([]*core.Document, 0, len(docs))
		for _, doc := range docs {
			ok, err := include(ctx, doc)
			if err != nil {
				return nil, err
			}
			if ok {
				selected = append(selected, doc)
			}
		}
		docs = selected
	}

	run := &core.IndexRun{
		ModelId:   p.embedder.ModelID(),
		Total:     len(docs),
		StartedAt: time.Now().UTC(),
	}
	p.logger.Info("indexing documents", "documents", len(docs), "model", run.ModelId)

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		ctxErr error
	)
	record := func(id core.ID, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			run.Failed++
			run.Errors = append(run.Errors, core.IndexError{DocumentId: id, Message: err.Error()})
			return
		}
		run.Indexed++
	}

	interrupted := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if ctxErr == nil {
			ctxErr = err
		}
	}

	// A document that has started runs to completion; cancellation only
	// keeps further documents from starting.
	docCtx := context.WithoutCancel(ctx)
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			interrupted(err)
			break
		}

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			// Submit blocks while the pool is full, so the batch may have
			// been cancelled while this document waited for a worker.
			if err := ctx.Err(); err != nil {
				interrupted(err)
				return
			}
			_, err := p.embedProc.process(docCtx, doc)
			if err != nil {
				p.logger.Warn("error indexing document", "id", doc.Id, "err", err)
			}
			record(doc.Id, err)
		})
		if submitErr != nil {
			wg.Done()
			record(doc.Id, fmt.Errorf("scheduling document: %w", submitErr))
		}
	}
	wg.Wait()

	slices.SortFunc(run.Errors, func(a, b core.IndexError) int {
		switch {
		case a.DocumentId < b.DocumentId:
			return -1
		case a.DocumentId > b.DocumentId:
			return 1
		}
		return 0
	})
	run.FinishedAt = time.Now().UTC()

	// Save even a cancelled run so partial progress stays visible.
	if err := p.runs.SaveIndexRun(context.WithoutCancel(ctx), run); err != nil {
		p.logger.Error("error saving index run", "err", err)
		return run, errors.Join(ctxErr, fmt.Errorf("saving index run: %w", err))
	}

	p.logger.Info("indexing finished", "indexed", run.Indexed, "failed", run.Failed,
		"total", run.Total, "elapsed", run.FinishedAt.Sub(run.StartedAt))
	if ctxErr != nil {
		return run, fmt.Errorf("indexing interrupted: %w", ctxErr)
	}
	return run, nil
}

func (p *Pipeline) isStale(ctx context.Context, doc *core.Document) (bool, error) {
	record, err := p.embeddings.GetEmbedding(ctx, doc.Id)
	if errors.Is(err, storage.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading embedding for document %d: %w", doc.Id, err)
	}
	return record.IsStale(core.EmbeddingText(doc), p.embedder.ModelID()), nil
}

// Status reports index coverage of the approved corpus.
// It does not require a ready provider; Configured reports readiness.
func (p *Pipeline) Status(ctx context.Context) (*Status, error) {
	docs, err := p.documents.ListApprovedDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing approved documents: %w", err)
	}

	modelID := p.embedder.ModelID()
	status := &Status{
		Configured:      p.embedder.IsReady(),
		ModelId:         modelID,
		ApprovedCount:   len(docs),
		RecentlyIndexed: []RecentDocument{},
	}

	titles := make(map[core.ID]string, len(docs))
	for _, doc := range docs {
		titles[doc.Id] = doc.Title

		record, err := p.embeddings.GetEmbedding(ctx, doc.Id)
		if errors.Is(err, storage.ErrNotFound) {
			status.PendingCount++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading embedding for document %d: %w", doc.Id, err)
		}
		status.IndexedCount++
		if record.IsStale(core.EmbeddingText(doc), modelID) {
			status.StaleCount++
		}
	}

	// Over-fetch so records of unapproved documents can be skipped.
	recent, err := p.embeddings.RecentEmbeddings(ctx, RecentLimit*2)
	if err != nil {
		return nil, fmt.Errorf("listing recent embeddings: %w", err)
	}
	for _, record := range recent {
		title, ok := titles[record.DocumentId]
		if !ok {
			continue
		}
		status.RecentlyIndexed = append(status.RecentlyIndexed, RecentDocument{
			DocumentId: record.DocumentId,
			Title:      title,
			ModelId:    record.ModelId,
			IndexedAt:  record.UpdatedAt,
		})
		if len(status.RecentlyIndexed) == RecentLimit {
			break
		}
	}

	status.LastRun, err = p.runs.LoadLastIndexRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading last index run: %w", err)
	}
	return status, nil
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

func recordRun(span trace.Span, run *core.IndexRun, err error) {
	if run != nil {
		span.SetAttributes(
			attribute.Int("index.total", run.Total),
			attribute.Int("index.indexed", run.Indexed),
			attribute.Int("index.failed", run.Failed),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
