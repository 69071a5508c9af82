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

	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/storage"
)

const (
	// DefaultBatchSize is the default number of records to process in each batch
	DefaultBatchSize = 100
)

// RecordIterator walks stored embedding records in batches.
type RecordIterator struct {
	repo      storage.EmbeddingRepository
	batchSize int
	include   func(*core.EmbeddingRecord) bool
}

// NewRecordIterator creates a new record iterator.
// batchSize: number of records per batch; non-positive selects DefaultBatchSize.
// include: selects records to visit; nil visits every record.
func NewRecordIterator(repo storage.EmbeddingRepository, batchSize int, include func(*core.EmbeddingRecord) bool) *RecordIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &RecordIterator{
		repo:      repo,
		batchSize: batchSize,
		include:   include,
	}
}

// Select returns the records the iterator will visit, in storage order.
// The selection is a snapshot; records written afterwards are not seen.
func (it *RecordIterator) Select(ctx context.Context) ([]*core.EmbeddingRecord, error) {
	var selected []*core.EmbeddingRecord
	for record, err := range it.repo.ScanEmbeddings(ctx) {
		if err != nil {
			return nil, err
		}
		if it.include == nil || it.include(record) {
			selected = append(selected, record)
		}
	}
	return selected, nil
}

// ForEach selects records and calls fn for each batch.
// Iteration stops on first error from fn or when all records are processed.
// Context cancellation is checked between batches.
func (it *RecordIterator) ForEach(ctx context.Context, fn func([]*core.EmbeddingRecord) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records, err := it.Select(ctx)
	if err != nil {
		return err
	}
	return it.forEachBatch(ctx, records, fn)
}

func (it *RecordIterator) forEachBatch(ctx context.Context, records []*core.EmbeddingRecord, fn func([]*core.EmbeddingRecord) error) error {
	for i := 0; i < len(records); i += it.batchSize {
		end := min(i+it.batchSize, len(records))
		if err := fn(records[i:end]); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
