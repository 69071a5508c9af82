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

package badger

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/storage"
)

// lockStripes is the number of mutexes guarding per-document writes.
const lockStripes = 64

// EmbeddingRepository is the badger embedding index. Records are keyed by
// document ID and additionally indexed by the time they were computed.
type EmbeddingRepository struct {
	backend *Backend
	locks   [lockStripes]sync.Mutex
	logger  *slog.Logger
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

func NewEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	return &EmbeddingRepository{
		backend: backend,
		logger:  backend.logger.With("repository", "embeddings"),
	}, nil
}

func (r *EmbeddingRepository) Close() error {
	return nil
}

func (r *EmbeddingRepository) lock(id core.ID) func() {
	mu := &r.locks[uint64(id)%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func (r *EmbeddingRepository) UpsertEmbedding(ctx context.Context, documentID core.ID, vector []float32, sourceText, modelID string) (*core.EmbeddingRecord, error) {
	record := &core.EmbeddingRecord{
		DocumentId:  documentID,
		Vector:      slices.Clone(vector),
		ModelId:     modelID,
		SourceText:  sourceText,
		ContentHash: core.ContentHash(sourceText),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := core.ValidateEmbeddingRecord(record); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer r.lock(documentID)()

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeEmbeddingKey(documentID)

		old, err := readEmbedding(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			if err := tx.Delete(makeEmbeddingUpdatedKey(old.UpdatedAt, documentID)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, storage.MarshalEmbeddingRecord(record)); err != nil {
			return err
		}
		if err := tx.Set(makeEmbeddingUpdatedKey(record.UpdatedAt, documentID), storage.MarshalID(documentID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("upserted embedding", "document", documentID, "model", modelID, "dim", len(vector))
	return record, nil
}

func (r *EmbeddingRepository) GetEmbedding(ctx context.Context, documentID core.ID) (*core.EmbeddingRecord, error) {
	var result *core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEmbedding(tx, makeEmbeddingKey(documentID))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("embedding for document %d: %w", documentID, storage.ErrNotFound)
		}
		return nil
	}, false)
	return result, err
}

func (r *EmbeddingRepository) DeleteEmbedding(ctx context.Context, documentID core.ID) error {
	defer r.lock(documentID)()

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeEmbeddingKey(documentID)

		record, err := readEmbedding(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("embedding for document %d: %w", documentID, storage.ErrNotFound)
		}

		if err := tx.Delete(makeEmbeddingUpdatedKey(record.UpdatedAt, documentID)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func (r *EmbeddingRepository) CountEmbeddings(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := prefixOf(embeddingPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

func (r *EmbeddingRepository) ScanEmbeddings(ctx context.Context) iter.Seq2[*core.EmbeddingRecord, error] {
	return func(yield func(*core.EmbeddingRecord, error) bool) {
		stopped := false
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			return forEachPrefix(tx, prefixOf(embeddingPrefix), false, func(_, val []byte) (bool, error) {
				if err := ctx.Err(); err != nil {
					return false, err
				}
				record, err := storage.UnmarshalEmbeddingRecord(val)
				if err != nil {
					return false, err
				}
				if !yield(record, nil) {
					stopped = true
					return false, nil
				}
				return true, nil
			})
		}, false)
		if err != nil && !stopped {
			yield(nil, err)
		}
	}
}

func (r *EmbeddingRepository) ScanIndexed(ctx context.Context, docs storage.DocumentReader, filter core.DocumentFilter) iter.Seq2[*core.IndexedDocument, error] {
	return func(yield func(*core.IndexedDocument, error) bool) {
		for record, err := range r.ScanEmbeddings(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}

			doc, err := docs.GetDocument(ctx, record.DocumentId)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if filter != nil && !filter(doc) {
				continue
			}

			if !yield(&core.IndexedDocument{Record: record, Document: doc}, nil) {
				return
			}
		}
	}
}

func (r *EmbeddingRepository) RecentEmbeddings(ctx context.Context, limit int) ([]*core.EmbeddingRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	var results []*core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return forEachPrefix(tx, prefixOf(embeddingUpdatedPrefix), true, func(_, val []byte) (bool, error) {
			id, err := storage.UnmarshalID(val)
			if err != nil {
				return false, err
			}
			record, err := readEmbedding(tx, makeEmbeddingKey(id))
			if err != nil {
				return false, err
			}
			if record != nil {
				results = append(results, record)
			}
			return len(results) < limit, nil
		})
	}, false)
	return results, err
}

func readEmbedding(tx *badger.Txn, key []byte) (*core.EmbeddingRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.EmbeddingRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalEmbeddingRecord(val)
		return unmarshalErr
	})
	return record, err
}

func sortByID(docs []*core.Document) {
	slices.SortFunc(docs, func(a, b *core.Document) int {
		switch {
		case a.Id < b.Id:
			return -1
		case a.Id > b.Id:
			return 1
		}
		return 0
	})
}
