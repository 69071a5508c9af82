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

package core

import "errors"

// Error taxonomy shared by every layer of the engine.
var (
	// ErrConfiguration indicates the embedding provider cannot be used.
	// Callers should surface it as "service unavailable".
	ErrConfiguration = errors.New("provider not configured")

	// ErrEmptyInput indicates a blank query or document text.
	ErrEmptyInput = errors.New("empty input")

	// ErrDimensionMismatch indicates vectors of different lengths were compared,
	// usually because the index holds vectors from more than one model.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrProviderCall indicates an embedding or generation call failed.
	ErrProviderCall = errors.New("provider call failed")

	// ErrNotFound indicates a missing document or index record.
	ErrNotFound = errors.New("record not found")
)

// Document validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyBody indicates the Body field is empty.
	ErrEmptyBody = errors.New("body cannot be empty")

	// ErrInvalidStatus indicates an invalid DocumentStatus value.
	ErrInvalidStatus = errors.New("invalid document status")

	// ErrInvalidEmbeddingRecord indicates an EmbeddingRecord failed validation.
	ErrInvalidEmbeddingRecord = errors.New("invalid embedding record")
)
