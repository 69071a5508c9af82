package core

//go:generate go run ../cmd/musgen

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID identifies a document. It is owned by the document collaborator; the
// index only stores it as a foreign reference.
type ID uint64

// ContentHash returns a hex encoded 128-bit BLAKE2b digest of text.
// Records store it so a changed document can be detected without re-embedding.
func ContentHash(text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentStatus is the approval state of a document.
type DocumentStatus int

const (
	// DocumentStatusDraft is a document still being written.
	DocumentStatusDraft DocumentStatus = iota + 1
	// DocumentStatusPending is awaiting review.
	DocumentStatusPending
	// DocumentStatusApproved is visible to search and eligible for indexing.
	DocumentStatusApproved
	// DocumentStatusRejected was reviewed and declined.
	DocumentStatusRejected
)

// String returns the lowercase status name.
func (s DocumentStatus) String() string {
	switch s {
	case DocumentStatusDraft:
		return "draft"
	case DocumentStatusPending:
		return "pending"
	case DocumentStatusApproved:
		return "approved"
	case DocumentStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ParseDocumentStatus parses a status name as produced by String.
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return DocumentStatusDraft, nil
	case "pending":
		return DocumentStatusPending, nil
	case "approved":
		return DocumentStatusApproved, nil
	case "rejected":
		return DocumentStatusRejected, nil
	default:
		return 0, fmt.Errorf("unknown document status %q", s)
	}
}

// Document is a knowledge-base article as seen by the index.
type Document struct {
	Id             ID
	Title          string
	Body           string
	Excerpt        string
	AttachmentText string // Extracted text of attached files, optional
	Category       string
	Tags           []string
	Status         DocumentStatus
	ApprovedAt     time.Time // Zero unless the document has been approved
	InsertedAt     time.Time
	UpdatedAt      time.Time
}

// IsApproved reports whether the document may be indexed and returned by search.
func (d *Document) IsApproved() bool {
	return d != nil && d.Status == DocumentStatusApproved
}

// DocumentFilter decides whether a live document may take part in a scan.
type DocumentFilter func(doc *Document) bool

// ApprovedOnly admits approved documents.
func ApprovedOnly(doc *Document) bool {
	return doc.IsApproved()
}

// EmbeddingRecord is the indexed state of one document.
// There is at most one record per DocumentId.
type EmbeddingRecord struct {
	DocumentId  ID
	Vector      []float32
	ModelId     string    // Provider+model that produced Vector, e.g. "local-hash-v2"
	SourceText  string    // Exact text that was embedded
	ContentHash string    // ContentHash(SourceText)
	UpdatedAt   time.Time // When the vector was last computed
}

// IsStale reports whether the record no longer matches text or was produced by another model.
func (r *EmbeddingRecord) IsStale(text, modelID string) bool {
	return r.ModelId != modelID || r.ContentHash != ContentHash(text)
}

// IndexedDocument joins an embedding record with its live source document.
type IndexedDocument struct {
	Record   *EmbeddingRecord
	Document *Document
}

// RankedResult is a document scored against a query. It is never persisted.
type RankedResult struct {
	Document      *Document
	SemanticScore float64
	KeywordScore  float64
	HybridScore   float64
	Rank          int // 1-based position in the ranking
}

// IndexError describes one document that failed to index.
type IndexError struct {
	DocumentId ID     `json:"documentId"`
	Message    string `json:"message"`
}

// IndexRun summarises a batch indexing pass.
type IndexRun struct {
	ModelId    string       `json:"modelId"`
	Total      int          `json:"total"`
	Indexed    int          `json:"indexed"`
	Failed     int          `json:"failed"`
	Errors     []IndexError `json:"errors"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// AttachmentSeparator sits between document text and extracted attachment text
// in the embedding text, so the attachment portion can be located and excluded.
const AttachmentSeparator = "\n\n--- attachments ---\n\n"

// EmbeddingText builds the text a document is embedded from: title, excerpt
// and body, then attachment text last behind AttachmentSeparator.
func EmbeddingText(doc *Document) string {
	var b strings.Builder
	for _, part := range []string{doc.Title, doc.Excerpt, doc.Body} {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(part)
	}
	if attachment := strings.TrimSpace(doc.AttachmentText); attachment != "" {
		b.WriteString(AttachmentSeparator)
		b.WriteString(attachment)
	}
	return b.String()
}
