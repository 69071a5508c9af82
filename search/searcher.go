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

package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/poiesic/kbsearch/answer"
	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/storage"
)

const (
	// DefaultTopK is how many ranked results a search considers.
	DefaultTopK = 5
	// MaxSources caps the sources attached to a found response.
	MaxSources = 3
	// MaxAlternatives caps the related documents listed after the sources.
	MaxAlternatives = 2
	// SnippetLength bounds Source.ExcerptSnippet.
	SnippetLength = 200

	DefaultSemanticWeight = 0.6
	DefaultKeywordWeight  = 0.4
	DefaultFloor          = 0.35

	// NotFoundMessage is returned when nothing clears the similarity floor.
	NotFoundMessage = "No sufficiently relevant articles were found. Try rephrasing your question " +
		"with the product name or the exact error message, or contact support."
)

const tracerName = "github.com/poiesic/kbsearch/search"

// QueryProvider is the part of the provider adapter the searcher needs.
type QueryProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelID() string
	IsReady() bool
	GenerateAnswer(ctx context.Context, query string, docs []*core.Document) string
}

// FloorPolicy maps an embedding model to the minimum hybrid score a top
// result needs before a search reports it as found.
type FloorPolicy interface {
	FloorFor(modelID string) float64
}

// FixedFloor applies one floor to every model.
type FixedFloor float64

// FloorFor returns f regardless of model.
func (f FixedFloor) FloorFor(string) float64 {
	return float64(f)
}

// Response is the answer to one query.
type Response struct {
	Found        bool          `json:"found"`
	Answer       string        `json:"answer,omitempty"`
	Message      string        `json:"message,omitempty"`
	Sources      []Source      `json:"sources"`
	Alternatives []Alternative `json:"alternatives"`
}

// Source is a document backing the answer.
type Source struct {
	DocumentId        core.ID  `json:"documentId"`
	Title             string   `json:"title"`
	Category          string   `json:"category"`
	ExcerptSnippet    string   `json:"excerptSnippet"`
	SimilarityPercent int      `json:"similarityPercent"`
	Tags              []string `json:"tags"`
}

// Alternative is a related document that did not make the source list.
type Alternative struct {
	DocumentId core.ID `json:"documentId"`
	Title      string  `json:"title"`
	Category   string  `json:"category"`
}

// Searcher answers natural-language queries against the embedding index.
type Searcher struct {
	embeddings storage.EmbeddingRepository
	documents  storage.DocumentReader
	provider   QueryProvider
	ranker     *Ranker
	floors     FloorPolicy
	topK       int
	monitor    SearchMonitor
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithWeights sets the semantic and keyword blend weights.
func WithWeights(semantic, keyword float64) Option {
	return func(s *Searcher) error {
		if semantic < 0 || keyword < 0 || semantic+keyword == 0 {
			return fmt.Errorf("%w: invalid weights %.2f/%.2f", core.ErrConfiguration, semantic, keyword)
		}
		s.ranker = NewRanker(semantic, keyword)
		return nil
	}
}

// WithFloors sets the per-model similarity floor policy.
// Default is FixedFloor(DefaultFloor).
func WithFloors(floors FloorPolicy) Option {
	return func(s *Searcher) error {
		if floors == nil {
			return fmt.Errorf("%w: nil floor policy", core.ErrConfiguration)
		}
		s.floors = floors
		return nil
	}
}

// WithTopK sets how many ranked results are considered per query.
func WithTopK(k int) Option {
	return func(s *Searcher) error {
		if k <= 0 {
			return fmt.Errorf("%w: topK must be positive, got %d", core.ErrConfiguration, k)
		}
		s.topK = k
		return nil
	}
}

// WithMonitor installs a monitor used by every Search call.
func WithMonitor(monitor SearchMonitor) Option {
	return func(s *Searcher) error {
		s.monitor = monitor
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	embeddings storage.EmbeddingRepository,
	documents storage.DocumentReader,
	provider QueryProvider,
	opts ...Option,
) (*Searcher, error) {
	if embeddings == nil {
		return nil, ErrEmbeddingRepositoryRequired
	}
	if documents == nil {
		return nil, ErrDocumentReaderRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		embeddings: embeddings,
		documents:  documents,
		provider:   provider,
		ranker:     NewRanker(DefaultSemanticWeight, DefaultKeywordWeight),
		floors:     FixedFloor(DefaultFloor),
		topK:       DefaultTopK,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// Search answers query using the searcher's monitor, if any.
func (s *Searcher) Search(ctx context.Context, query string) (*Response, error) {
	return s.SearchWithMonitor(ctx, query, s.monitor)
}

// SearchWithMonitor answers query, reporting each stage to monitor.
//
// A blank query fails with core.ErrEmptyInput and an unready provider with
// core.ErrConfiguration. Mixed vector dimensions in the index fail with
// core.ErrDimensionMismatch. When the best hybrid score is below the floor
// for the active model the response has Found=false and a guidance message.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "Searcher.Search")
	defer span.End()

	resp, err := s.search(ctx, query, monitor)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("search.found", resp.Found),
		attribute.Int("search.sources", len(resp.Sources)),
	)
	return resp, nil
}

func (s *Searcher) search(ctx context.Context, query string, monitor SearchMonitor) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: please provide a query", core.ErrEmptyInput)
	}
	if !s.provider.IsReady() {
		return nil, fmt.Errorf("%w: search is unavailable, embedding provider not ready", core.ErrConfiguration)
	}

	monitor.Start(query)

	queryVector, err := s.provider.Embed(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterEmbed(queryVector)

	candidates := make([]*core.IndexedDocument, 0)
	for indexed, err := range s.embeddings.ScanIndexed(ctx, s.documents, core.ApprovedOnly) {
		if err != nil {
			s.logger.Error("error scanning embedding index", "err", err)
			return nil, err
		}
		candidates = append(candidates, indexed)
	}
	monitor.AfterScan(len(candidates))

	ranked, err := s.ranker.Rank(query, queryVector, candidates, s.topK)
	if err != nil {
		s.logger.Error("error ranking candidates", "candidates", len(candidates), "err", err)
		return nil, err
	}
	monitor.AfterRank(ranked)

	modelID := s.provider.ModelID()
	floor := s.floors.FloorFor(modelID)
	if len(ranked) == 0 || ranked[0].HybridScore < floor {
		resp := &Response{
			Found:        false,
			Message:      NotFoundMessage,
			Sources:      []Source{},
			Alternatives: []Alternative{},
		}
		if len(ranked) > 0 {
			s.logger.Debug("top result below floor", "model", modelID, "floor", floor, "score", ranked[0].HybridScore)
		}
		monitor.Finish(resp)
		return resp, nil
	}

	resp := buildResponse(ranked)
	docs := make([]*core.Document, 0, len(resp.Sources))
	for _, r := range ranked[:len(resp.Sources)] {
		docs = append(docs, r.Document)
	}
	resp.Answer = s.provider.GenerateAnswer(ctx, query, docs)

	s.logger.Debug("search complete", "query", query, "results", len(ranked), "top", ranked[0].HybridScore)
	monitor.Finish(resp)
	return resp, nil
}

func buildResponse(ranked []*core.RankedResult) *Response {
	n := min(MaxSources, len(ranked))
	resp := &Response{
		Found:        true,
		Sources:      make([]Source, 0, n),
		Alternatives: make([]Alternative, 0, MaxAlternatives),
	}
	for _, r := range ranked[:n] {
		doc := r.Document
		text := doc.Excerpt
		if strings.TrimSpace(text) == "" {
			text = doc.Body
		}
		resp.Sources = append(resp.Sources, Source{
			DocumentId:        doc.Id,
			Title:             doc.Title,
			Category:          doc.Category,
			ExcerptSnippet:    answer.Snippet(text, SnippetLength),
			SimilarityPercent: SimilarityPercent(r.HybridScore),
			Tags:              append([]string{}, doc.Tags...),
		})
	}
	for _, r := range ranked[n:] {
		if len(resp.Alternatives) == MaxAlternatives {
			break
		}
		resp.Alternatives = append(resp.Alternatives, Alternative{
			DocumentId: r.Document.Id,
			Title:      r.Document.Title,
			Category:   r.Document.Category,
		})
	}
	return resp
}
