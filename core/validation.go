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

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Title must not be blank
//   - Status must be valid
//
// NOT validated:
//   - Body (drafts may be empty; indexing checks it separately)
//   - ID (0 is valid before the store assigns one)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTitle)
	}

	if err := ValidateStatus(doc.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateIndexable checks that a document can be embedded.
// A document without body text is rejected with ErrEmptyInput.
func ValidateIndexable(doc *Document) error {
	if err := ValidateDocument(doc); err != nil {
		return err
	}
	if !doc.IsApproved() {
		return fmt.Errorf("%w: document %d is %s", ErrNotFound, doc.Id, doc.Status)
	}
	if strings.TrimSpace(doc.Body) == "" {
		return fmt.Errorf("%w: %w", ErrEmptyInput, ErrEmptyBody)
	}
	return nil
}

// ValidateStatus validates that a DocumentStatus has a valid value.
func ValidateStatus(status DocumentStatus) error {
	if status < DocumentStatusDraft || status > DocumentStatusRejected {
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
	}
	return nil
}

// ValidateEmbeddingRecord validates an EmbeddingRecord before it is stored.
func ValidateEmbeddingRecord(record *EmbeddingRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidEmbeddingRecord)
	}
	if record.DocumentId == 0 {
		return fmt.Errorf("%w: document id is zero", ErrInvalidEmbeddingRecord)
	}
	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: vector is empty", ErrInvalidEmbeddingRecord)
	}
	if record.ModelId == "" {
		return fmt.Errorf("%w: model id is empty", ErrInvalidEmbeddingRecord)
	}
	return nil
}
