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
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/storage"
)

// DocumentRepository stores knowledge-base documents. Approved documents are
// additionally indexed by approval time.
type DocumentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

func (r *DocumentRepository) Close() error {
	return r.idSeq.Release()
}

func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if err := core.ValidateDocument(doc); err != nil {
				return err
			}
			// Always generate new ID from sequence
			id, err := nextID(r.idSeq)
			if err != nil {
				return err
			}
			doc.Id = core.ID(id)

			now := time.Now().UTC()
			doc.InsertedAt = now
			doc.UpdatedAt = now
			if doc.IsApproved() && doc.ApprovedAt.IsZero() {
				doc.ApprovedAt = now
			}

			key := makeDocumentKey(doc.Id)
			if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
				return err
			}
			if err := setApprovalIndex(tx, doc); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return docs, err
}

func (r *DocumentRepository) UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if err := core.ValidateDocument(doc); err != nil {
				return err
			}
			key := makeDocumentKey(doc.Id)

			old, err := readDocument(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return fmt.Errorf("document %d: %w", doc.Id, storage.ErrNotFound)
			}

			doc.InsertedAt = old.InsertedAt
			doc.UpdatedAt = time.Now().UTC()
			if doc.IsApproved() && doc.ApprovedAt.IsZero() {
				if old.IsApproved() {
					doc.ApprovedAt = old.ApprovedAt
				} else {
					doc.ApprovedAt = doc.UpdatedAt
				}
			}

			if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
				return err
			}

			// Rebuild approval index if status or approval time changed
			if old.IsApproved() != doc.IsApproved() || !old.ApprovedAt.Equal(doc.ApprovedAt) {
				if err := deleteApprovalIndex(tx, old); err != nil {
					return err
				}
				if err := setApprovalIndex(tx, doc); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return docs, err
}

func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)

			doc, err := readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("document %d: %w", id, storage.ErrNotFound)
			}

			if err := deleteApprovalIndex(tx, doc); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("document %d: %w", id, storage.ErrNotFound)
		}
		return nil
	}, false)
	return result, err
}

func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			doc, err := readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if doc != nil {
				result = append(result, doc)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListDocuments returns every document. Keys are decimal strings, so the
// result is sorted by ID afterwards.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return forEachPrefix(tx, prefixOf(documentPrefix), false, func(_, val []byte) (bool, error) {
			doc, err := storage.UnmarshalDocument(val)
			if err != nil {
				return false, err
			}
			result = append(result, doc)
			return ctx.Err() == nil, nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sortByID(result)
	return result, nil
}

func (r *DocumentRepository) ListApprovedDocuments(ctx context.Context) ([]*core.Document, error) {
	return r.RecentlyApproved(ctx, 0)
}

// RecentlyApproved returns up to limit approved documents, most recently
// approved first. A limit of zero returns all of them.
func (r *DocumentRepository) RecentlyApproved(ctx context.Context, limit int) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return forEachPrefix(tx, prefixOf(documentApprovedPrefix), true, func(_, val []byte) (bool, error) {
			id, err := storage.UnmarshalID(val)
			if err != nil {
				return false, err
			}
			doc, err := readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return false, err
			}
			if doc != nil && doc.IsApproved() {
				result = append(result, doc)
			}
			if limit > 0 && len(result) >= limit {
				return false, nil
			}
			return ctx.Err() == nil, nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, ctx.Err()
}

func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		doc, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return doc, err
}

func setApprovalIndex(tx *badger.Txn, doc *core.Document) error {
	if !doc.IsApproved() {
		return nil
	}
	return tx.Set(makeDocumentApprovedKey(doc.ApprovedAt, doc.Id), storage.MarshalID(doc.Id))
}

func deleteApprovalIndex(tx *badger.Txn, doc *core.Document) error {
	if !doc.IsApproved() {
		return nil
	}
	return tx.Delete(makeDocumentApprovedKey(doc.ApprovedAt, doc.Id))
}
