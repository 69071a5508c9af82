package reembed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/storage"
)

// Embedder produces vectors for the active model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelID() string
}

// BatchResult counts the outcome of one batch.
type BatchResult struct {
	Migrated int
	Errors   []core.IndexError
}

// BatchProcessor re-embeds batches of records under the active model.
type BatchProcessor struct {
	repo           storage.EmbeddingRepository
	embedder       Embedder
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts per record
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.EmbeddingRepository, embedder Embedder, maxRetries int, retryBaseDelay time.Duration, logger *slog.Logger) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		logger:         logger,
	}
}

// Process re-embeds each record from its stored source text and replaces it.
// A record that still fails after retries is reported in the result and the
// batch continues. Context cancellation aborts the batch.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.EmbeddingRecord) (*BatchResult, error) {
	result := &BatchResult{}
	modelID := bp.embedder.ModelID()

	for _, record := range records {
		var vector []float32
		err := RetryWithBackoff(ctx, func() error {
			var err error
			vector, err = bp.embedder.Embed(ctx, record.SourceText)
			return err
		}, bp.maxRetries, bp.retryBaseDelay)

		if err == nil {
			_, err = bp.repo.UpsertEmbedding(ctx, record.DocumentId, NormalizeVector(vector), record.SourceText, modelID)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return result, ctxErr
				}
			}
			bp.logger.Warn("error re-embedding record", "id", record.DocumentId, "from", record.ModelId, "err", err)
			result.Errors = append(result.Errors, core.IndexError{
				DocumentId: record.DocumentId,
				Message:    fmt.Sprintf("re-embedding from %s: %v", record.ModelId, err),
			})
			continue
		}
		result.Migrated++
	}
	return result, nil
}
