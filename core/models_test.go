package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestContentHash(t *testing.T) {
	h1 := ContentHash("MongoDB Connection Refused Error")
	h2 := ContentHash("MongoDB Connection Refused Error")
	h3 := ContentHash("MongoDB connection refused error")

	if h1 != h2 {
		t.Errorf("ContentHash() not deterministic: %s vs %s", h1, h2)
	}
	if h1 == h3 {
		t.Errorf("ContentHash() ignored a case change")
	}
	if len(h1) != 32 {
		t.Errorf("ContentHash() length = %d, want 32", len(h1))
	}
}

func TestDocumentStatus_String(t *testing.T) {
	tests := []struct {
		status DocumentStatus
		want   string
	}{
		{DocumentStatusDraft, "draft"},
		{DocumentStatusPending, "pending"},
		{DocumentStatusApproved, "approved"},
		{DocumentStatusRejected, "rejected"},
		{DocumentStatus(0), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDocumentStatus(t *testing.T) {
	for _, want := range []DocumentStatus{DocumentStatusDraft, DocumentStatusPending, DocumentStatusApproved, DocumentStatusRejected} {
		got, err := ParseDocumentStatus(" " + strings.ToUpper(want.String()) + " ")
		if err != nil {
			t.Fatalf("ParseDocumentStatus(%q) error = %v", want.String(), err)
		}
		if got != want {
			t.Errorf("ParseDocumentStatus(%q) = %v, want %v", want.String(), got, want)
		}
	}
	if _, err := ParseDocumentStatus("archived"); err == nil {
		t.Errorf("ParseDocumentStatus(archived) returned no error")
	}
}

func TestApprovedOnly(t *testing.T) {
	if ApprovedOnly(&Document{Status: DocumentStatusPending}) {
		t.Errorf("ApprovedOnly() admitted a pending document")
	}
	if !ApprovedOnly(&Document{Status: DocumentStatusApproved}) {
		t.Errorf("ApprovedOnly() rejected an approved document")
	}
	if ApprovedOnly(nil) {
		t.Errorf("ApprovedOnly() admitted nil")
	}
}

func TestEmbeddingText(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "title excerpt body",
			doc:  Document{Title: "Title", Excerpt: "Excerpt", Body: "Body"},
			want: "Title\n\nExcerpt\n\nBody",
		},
		{
			name: "missing excerpt",
			doc:  Document{Title: "Title", Body: "Body"},
			want: "Title\n\nBody",
		},
		{
			name: "attachment text goes last",
			doc:  Document{Title: "Title", Body: "Body", AttachmentText: "pdf text"},
			want: "Title\n\nBody" + AttachmentSeparator + "pdf text",
		},
		{
			name: "blank document",
			doc:  Document{Title: "  ", Body: "\n"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmbeddingText(&tt.doc); got != tt.want {
				t.Errorf("EmbeddingText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmbeddingRecord_IsStale(t *testing.T) {
	text := "Title\n\nBody"
	record := &EmbeddingRecord{
		DocumentId:  1,
		Vector:      []float32{1},
		ModelId:     "local-hash-v2",
		SourceText:  text,
		ContentHash: ContentHash(text),
		UpdatedAt:   time.Now(),
	}

	if record.IsStale(text, "local-hash-v2") {
		t.Errorf("IsStale() = true for unchanged text and model")
	}
	if !record.IsStale(strings.ToUpper(text), "local-hash-v2") {
		t.Errorf("IsStale() = false after text changed")
	}
	if !record.IsStale(text, "text-embedding-3-small") {
		t.Errorf("IsStale() = false after model changed")
	}
}

func TestIndexRun_JSONFieldNames(t *testing.T) {
	run := IndexRun{
		ModelId: "local-hash-v2",
		Total:   5,
		Indexed: 4,
		Failed:  1,
		Errors:  []IndexError{{DocumentId: 3, Message: "body cannot be empty"}},
	}
	data, err := json.Marshal(run)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"modelId", "total", "indexed", "failed", "errors", "startedAt", "finishedAt"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("IndexRun JSON lacks %q: %s", key, data)
		}
	}
	errs, _ := fields["errors"].([]any)
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want one entry", fields["errors"])
	}
	entry, _ := errs[0].(map[string]any)
	if entry["documentId"] != float64(3) || entry["message"] != "body cannot be empty" {
		t.Errorf("IndexError JSON = %v", entry)
	}
}
