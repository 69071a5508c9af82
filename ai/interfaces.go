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

package ai

import "context"

// Embedder converts text into vector embeddings.
// Implementations must be safe for concurrent use and return vectors of a
// constant length for a given model.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces free text from a prompt.
type Generator interface {
	// Generate returns the model completion for prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIProvider is one configured provider variant.
// A provider is selected once at startup and never switched per call.
type AIProvider interface {
	// Kind reports which variant this provider is.
	Kind() Kind

	// ModelID identifies the model that produces this provider's vectors.
	// Every stored EmbeddingRecord carries it.
	ModelID() string

	// Ready reports whether the provider can serve embedding requests.
	Ready() bool

	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the generative service, or nil when none is configured.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
