package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/storage"
)

// embeddingProcessor embeds a document's text and upserts the result.
type embeddingProcessor struct {
	embeddings storage.EmbeddingRepository
	embedder   DocumentEmbedder
	timeout    time.Duration
	logger     *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(embeddings storage.EmbeddingRepository, embedder DocumentEmbedder, timeout time.Duration, logger *slog.Logger) (processor, error) {
	if embeddings == nil {
		return nil, fmt.Errorf("embedding repository required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		embeddings: embeddings,
		embedder:   embedder,
		timeout:    timeout,
		logger:     logger.With("processor", "embeddings"),
	}, nil
}

// process embeds doc and stores the vector under the embedder's model ID.
// A provider call that outlives the timeout fails with context.DeadlineExceeded.
func (ep *embeddingProcessor) process(ctx context.Context, doc *core.Document) (*core.EmbeddingRecord, error) {
	if err := core.ValidateIndexable(doc); err != nil {
		return nil, err
	}

	text := core.EmbeddingText(doc)

	callCtx := ctx
	if ep.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, ep.timeout)
		defer cancel()
	}

	ep.logger.Debug("embedding document", "id", doc.Id, "chars", len(text))
	vector, err := ep.embedder.Embed(callCtx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding document %d: %w", doc.Id, err)
	}

	record, err := ep.embeddings.UpsertEmbedding(ctx, doc.Id, vector, text, ep.embedder.ModelID())
	if err != nil {
		return nil, fmt.Errorf("storing embedding for document %d: %w", doc.Id, err)
	}
	return record, nil
}
