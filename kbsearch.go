// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kbsearch answers natural-language questions from a knowledge base
// of approved articles, and keeps the article embedding index up to date.
package kbsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/kbsearch/ai"
	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/ingestion"
	"github.com/poiesic/kbsearch/provider"
	"github.com/poiesic/kbsearch/reembed"
	"github.com/poiesic/kbsearch/search"
	"github.com/poiesic/kbsearch/storage"
	"github.com/poiesic/kbsearch/storage/badger"
)

// Engine wires storage, the provider adapter, the searcher and the indexing
// pipeline together.
type Engine struct {
	repos     *badger.Repositories
	documents storage.DocumentSource
	aiConfig  *ai.Config
	provider  *provider.Adapter
	searcher  *search.Searcher
	pipeline  *ingestion.Pipeline
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig     *ai.Config
	documents    storage.DocumentSource
	logger       *slog.Logger
	poolSize     int
	embedTimeout time.Duration
	topK         int
}

// WithAIConfig selects the embedding provider and its tuning.
// Default is ai.DefaultConfig(), the local vectorizer.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithDocumentSource reads documents from src instead of the engine's own
// document store.
func WithDocumentSource(src storage.DocumentSource) EngineOption {
	return func(o *engineOptions) {
		o.documents = src
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithPoolSize sets the number of documents embedded in parallel by batch indexing.
func WithPoolSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.poolSize = size
	}
}

// WithEmbedTimeout bounds each provider call made while indexing.
// Default is the provider timeout from the AI config.
func WithEmbedTimeout(d time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.embedTimeout = d
	}
}

// WithTopK sets how many ranked results a search considers.
func WithTopK(k int) EngineOption {
	return func(o *engineOptions) {
		o.topK = k
	}
}

// Open opens the engine over the database at path. An empty path keeps the
// database in memory.
func Open(path string, opts ...EngineOption) (*Engine, error) {
	var (
		repos *badger.Repositories
		err   error
	)
	if path == "" {
		repos, err = badger.NewMemoryRepositories()
	} else {
		repos, err = badger.OpenRepositories(path)
	}
	if err != nil {
		return nil, err
	}

	engine, err := newEngine(repos, opts...)
	if err != nil {
		repos.Close()
		return nil, err
	}
	return engine, nil
}

func newEngine(repos *badger.Repositories, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
		topK:     search.DefaultTopK,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.documents == nil {
		options.documents = repos.Documents
	}

	adapter, err := provider.New(options.aiConfig, provider.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}
	cfg := options.aiConfig

	searcher, err := search.NewSearcher(repos.Embeddings, options.documents, adapter,
		search.WithLogger(options.logger),
		search.WithWeights(cfg.SemanticWeight, cfg.KeywordWeight),
		search.WithFloors(cfg),
		search.WithTopK(options.topK),
	)
	if err != nil {
		adapter.Close()
		return nil, err
	}

	timeout := options.embedTimeout
	if timeout == 0 {
		timeout = cfg.Timeout
	}
	pipelineOpts := []ingestion.Option{
		ingestion.WithLogger(options.logger),
		ingestion.WithEmbedTimeout(timeout),
	}
	if options.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(options.poolSize))
	}
	pipeline, err := ingestion.NewPipeline(options.documents, repos.Embeddings, repos.IndexRuns, adapter, pipelineOpts...)
	if err != nil {
		adapter.Close()
		return nil, err
	}

	return &Engine{
		repos:     repos,
		documents: options.documents,
		aiConfig:  cfg,
		provider:  adapter,
		searcher:  searcher,
		pipeline:  pipeline,
		logger:    options.logger.With("component", "engine"),
	}, nil
}

// Close releases the pipeline, the provider and storage.
func (e *Engine) Close() error {
	e.pipeline.Release()

	var errs []error
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing provider", "err", err)
		errs = append(errs, err)
	}
	if err := e.repos.Close(); err != nil {
		e.logger.Error("error closing storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Documents returns the engine's own document store.
func (e *Engine) Documents() storage.DocumentRepository {
	return e.repos.Documents
}

// Embeddings returns the embedding index.
func (e *Engine) Embeddings() storage.EmbeddingRepository {
	return e.repos.Embeddings
}

// Provider returns the provider adapter.
func (e *Engine) Provider() *provider.Adapter {
	return e.provider
}

// AIConfig returns the normalized AI configuration in use.
func (e *Engine) AIConfig() *ai.Config {
	return e.aiConfig
}

// Search answers query. See search.Searcher.SearchWithMonitor.
func (e *Engine) Search(ctx context.Context, query string) (*search.Response, error) {
	return e.searcher.Search(ctx, query)
}

// SearchWithMonitor answers query and reports each stage to monitor.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, monitor search.SearchMonitor) (*search.Response, error) {
	return e.searcher.SearchWithMonitor(ctx, query, monitor)
}

// IndexDocument indexes one approved document.
func (e *Engine) IndexDocument(ctx context.Context, id core.ID) (*ingestion.IndexResult, error) {
	return e.pipeline.IndexOne(ctx, id)
}

// IndexAllDocuments indexes every approved document.
func (e *Engine) IndexAllDocuments(ctx context.Context) (*core.IndexRun, error) {
	return e.pipeline.IndexAll(ctx)
}

// IndexStaleDocuments indexes approved documents that are missing from the
// index or whose record no longer matches their text or the active model.
func (e *Engine) IndexStaleDocuments(ctx context.Context) (*core.IndexRun, error) {
	return e.pipeline.IndexStale(ctx)
}

// IndexStatus reports index coverage.
func (e *Engine) IndexStatus(ctx context.Context) (*ingestion.Status, error) {
	return e.pipeline.Status(ctx)
}

// Unindex removes a document's record. A document that is not indexed fails
// with core.ErrNotFound.
func (e *Engine) Unindex(ctx context.Context, id core.ID) error {
	if err := e.repos.Embeddings.DeleteEmbedding(ctx, id); err != nil {
		return fmt.Errorf("unindexing document %d: %w", id, err)
	}
	e.logger.Info("unindexed document", "id", id)
	return nil
}

// PruneOrphans removes records whose document is gone or no longer approved
// and returns how many were removed.
func (e *Engine) PruneOrphans(ctx context.Context) (int, error) {
	var orphans []core.ID
	for record, err := range e.repos.Embeddings.ScanEmbeddings(ctx) {
		if err != nil {
			return 0, err
		}
		doc, err := e.documents.GetDocument(ctx, record.DocumentId)
		if errors.Is(err, storage.ErrNotFound) || (err == nil && !doc.IsApproved()) {
			orphans = append(orphans, record.DocumentId)
			continue
		}
		if err != nil {
			return 0, err
		}
	}

	removed := 0
	for _, id := range orphans {
		err := e.repos.Embeddings.DeleteEmbedding(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("pruning document %d: %w", id, err)
		}
		removed++
	}
	if removed > 0 {
		e.logger.Info("pruned orphaned embeddings", "removed", removed)
	}
	return removed, nil
}

// Reembed migrates records produced by another model to the active one.
func (e *Engine) Reembed(ctx context.Context, cfg *reembed.Config, progress io.Writer) (*core.IndexRun, error) {
	if !e.provider.IsReady() {
		return nil, fmt.Errorf("%w: embedding provider not ready", core.ErrConfiguration)
	}
	r, err := reembed.NewReembedder(e.repos.Embeddings, e.provider, cfg, progress, e.logger)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx)
}
