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

package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per record
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Force re-embeds records already produced by the active model
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder migrates stored embeddings to the active model.
type Reembedder struct {
	repo      storage.EmbeddingRepository
	embedder  Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *RecordIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.EmbeddingRepository, embedder Embedder, config *Config, progress io.Writer, logger *slog.Logger) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrEmbeddingRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "reembed")

	modelID := embedder.ModelID()
	include := func(record *core.EmbeddingRecord) bool {
		return config.Force || record.ModelId != modelID
	}

	return &Reembedder{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay, logger),
		iterator:  NewRecordIterator(repo, config.BatchSize, include),
	}, nil
}

// Run re-embeds every selected record and returns a report in the same
// shape as an indexing run. Records that fail are listed in the report;
// cancellation returns the partial report with the context error.
func (r *Reembedder) Run(ctx context.Context) (*core.IndexRun, error) {
	run := &core.IndexRun{
		ModelId:   r.embedder.ModelID(),
		StartedAt: time.Now().UTC(),
	}

	records, err := r.iterator.Select(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan embeddings: %w", err)
	}

	run.Total = len(records)
	if run.Total == 0 {
		fmt.Fprintf(r.progress, "No records to re-embed for model %s (0 records)\n", run.ModelId)
		run.FinishedAt = time.Now().UTC()
		return run, nil
	}

	fmt.Fprintf(r.progress, "Re-embedding %d records with %s (batch size: %d)\n",
		run.Total, run.ModelId, r.iterator.batchSize)

	tracker := NewProgressTracker(r.progress, run.Total, r.config.ReportInterval)
	tracker.Start()

	err = r.iterator.forEachBatch(ctx, records, func(batch []*core.EmbeddingRecord) error {
		result, err := r.processor.Process(ctx, batch)
		if result != nil {
			run.Indexed += result.Migrated
			run.Failed += len(result.Errors)
			run.Errors = append(run.Errors, result.Errors...)
		}
		if err != nil {
			return err
		}
		tracker.Update(run.Indexed+run.Failed, run.Failed)
		return nil
	})
	run.FinishedAt = time.Now().UTC()
	if err != nil {
		fmt.Fprintln(r.progress)
		return run, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Re-embedding complete. Migrated %d of %d records in %v (%.1f records/sec)\n",
		run.Indexed, run.Total, elapsed.Round(time.Millisecond), float64(run.Total)/elapsed.Seconds())

	return run, nil
}
