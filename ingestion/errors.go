package ingestion

import "errors"

var (
	// ErrDocumentSourceRequired is returned when a document source is not provided.
	ErrDocumentSourceRequired = errors.New("document source required")

	// ErrEmbeddingRepositoryRequired is returned when an embedding repository is not provided.
	ErrEmbeddingRepositoryRequired = errors.New("embedding repository required")

	// ErrIndexRunRepositoryRequired is returned when an index run repository is not provided.
	ErrIndexRunRepositoryRequired = errors.New("index run repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
