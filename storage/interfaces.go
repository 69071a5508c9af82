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

package storage

import (
	"context"
	"iter"

	"github.com/poiesic/kbsearch/core"
)

// DocumentReader looks up live documents by ID.
type DocumentReader interface {
	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)
}

// DocumentSource is what the engine consumes from the document collaborator.
type DocumentSource interface {
	DocumentReader

	// ListApprovedDocuments returns every approved document, most recently
	// approved first.
	ListApprovedDocuments(ctx context.Context) ([]*core.Document, error)
}

// DocumentRepository is a complete document store. The engine itself only
// needs DocumentSource; this interface backs the CLI and tests.
type DocumentRepository interface {
	DocumentSource

	// AddDocuments adds one or more documents to storage.
	// Always assigns new IDs from a sequence.
	// Sets InsertedAt and UpdatedAt, and ApprovedAt for approved documents
	// that lack one. Returns the documents with IDs and timestamps populated.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// UpdateDocuments updates existing documents.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// ListDocuments returns every document ordered by ID.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// Close releases resources held by the repository.
	Close() error
}

// EmbeddingRepository is the embedding index store. It holds at most one
// record per document.
type EmbeddingRepository interface {
	// UpsertEmbedding creates or replaces the record for documentID.
	// Concurrent upserts for the same document are serialized; the last
	// write wins.
	UpsertEmbedding(ctx context.Context, documentID core.ID, vector []float32, sourceText, modelID string) (*core.EmbeddingRecord, error)

	// GetEmbedding retrieves the record for documentID.
	// Returns ErrNotFound if the document is not indexed.
	GetEmbedding(ctx context.Context, documentID core.ID) (*core.EmbeddingRecord, error)

	// DeleteEmbedding removes the record for documentID.
	// Returns ErrNotFound if the document is not indexed.
	DeleteEmbedding(ctx context.Context, documentID core.ID) error

	// CountEmbeddings returns the number of stored records.
	CountEmbeddings(ctx context.Context) (int, error)

	// ScanEmbeddings lazily yields every record in storage key order.
	// The sequence reads one snapshot; it cannot be resumed once stopped.
	ScanEmbeddings(ctx context.Context) iter.Seq2[*core.EmbeddingRecord, error]

	// ScanIndexed lazily yields records joined with their live document,
	// skipping records whose document is missing or rejected by filter.
	// A nil filter admits every live document.
	ScanIndexed(ctx context.Context, docs DocumentReader, filter core.DocumentFilter) iter.Seq2[*core.IndexedDocument, error]

	// RecentEmbeddings returns up to limit records, most recently computed first.
	RecentEmbeddings(ctx context.Context, limit int) ([]*core.EmbeddingRecord, error)

	// Close releases resources held by the repository.
	Close() error
}

// IndexRunRepository keeps the history of batch indexing runs.
type IndexRunRepository interface {
	// SaveIndexRun stores a finished run.
	SaveIndexRun(ctx context.Context, run *core.IndexRun) error

	// LoadLastIndexRun returns the most recently started run, or nil if
	// no run has been saved.
	LoadLastIndexRun(ctx context.Context) (*core.IndexRun, error)

	// ListIndexRuns returns up to limit runs, newest first.
	ListIndexRuns(ctx context.Context, limit int) ([]*core.IndexRun, error)
}
