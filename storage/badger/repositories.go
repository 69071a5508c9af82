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

import "errors"

// Repositories bundles every badger repository sharing one Backend.
type Repositories struct {
	Backend    *Backend
	Documents  *DocumentRepository
	Embeddings *EmbeddingRepository
	IndexRuns  *IndexRunRepository
}

// OpenRepositories opens the database at path and creates all repositories.
func OpenRepositories(path string) (*Repositories, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newRepositories(backend)
}

// NewMemoryRepositories creates all repositories over an in-memory database.
// Intended for tests.
func NewMemoryRepositories() (*Repositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newRepositories(backend)
}

func newRepositories(backend *Backend) (*Repositories, error) {
	documents, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embeddings, err := NewEmbeddingRepository(backend)
	if err != nil {
		documents.Close()
		backend.Close()
		return nil, err
	}

	return &Repositories{
		Backend:    backend,
		Documents:  documents,
		Embeddings: embeddings,
		IndexRuns:  NewIndexRunRepository(backend),
	}, nil
}

// Close closes the repositories and then the backend.
func (r *Repositories) Close() error {
	return errors.Join(
		r.Embeddings.Close(),
		r.Documents.Close(),
		r.Backend.Close(),
	)
}
