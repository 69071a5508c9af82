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
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/storage"
)

// IndexRunRepository stores batch indexing runs keyed by start time.
type IndexRunRepository struct {
	backend *Backend
}

var _ storage.IndexRunRepository = (*IndexRunRepository)(nil)

func NewIndexRunRepository(backend *Backend) *IndexRunRepository {
	return &IndexRunRepository{
		backend: backend,
	}
}

func (r *IndexRunRepository) SaveIndexRun(ctx context.Context, run *core.IndexRun) error {
	if run == nil {
		return errors.New("index run is nil")
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if run.StartedAt.IsZero() {
			run.StartedAt = time.Now().UTC()
		}
		key := makeIndexRunKey(run.StartedAt)
		if err := tx.Set(key, storage.MarshalIndexRun(run)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func (r *IndexRunRepository) LoadLastIndexRun(ctx context.Context) (*core.IndexRun, error) {
	runs, err := r.ListIndexRuns(ctx, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return runs[0], nil
}

func (r *IndexRunRepository) ListIndexRuns(ctx context.Context, limit int) ([]*core.IndexRun, error) {
	var runs []*core.IndexRun
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return forEachPrefix(tx, prefixOf(indexRunPrefix), true, func(_, val []byte) (bool, error) {
			run, err := storage.UnmarshalIndexRun(val)
			if err != nil {
				return false, err
			}
			runs = append(runs, run)
			return limit <= 0 || len(runs) < limit, nil
		})
	}, false)
	return runs, err
}
