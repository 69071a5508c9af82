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

package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/kbsearch/ai"
	"github.com/poiesic/kbsearch/core"
)

const (
	// NoInformationMessage is returned when there is nothing to answer from.
	NoInformationMessage = "I couldn't find any approved articles that answer this question. Try rephrasing it with different keywords."

	// QuoteLength is the number of body characters quoted when a document has no excerpt.
	QuoteLength = 300

	// MaxRelated is the number of alternative titles listed after the quote.
	MaxRelated = 2

	// ContextDocuments is the number of documents placed in a generation prompt.
	ContextDocuments = 3

	// ContextCharsPerDocument bounds the body text each document contributes to a prompt.
	ContextCharsPerDocument = 1500
)

// Synthesizer turns ranked documents into an answer.
// Without a generator it is purely extractive and deterministic.
type Synthesizer struct {
	generator ai.Generator
	logger    *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer) error

// WithGenerator enables the generative path. A nil generator keeps the
// synthesizer extractive.
func WithGenerator(g ai.Generator) Option {
	return func(s *Synthesizer) error {
		s.generator = g
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "answer")
		return nil
	}
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(opts ...Option) (*Synthesizer, error) {
	s := &Synthesizer{
		logger: slog.Default().With("component", "answer"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Generative reports whether a generator is configured.
func (s *Synthesizer) Generative() bool {
	return s.generator != nil
}

// Synthesize answers query from docs, which must be ordered best first.
// Generation failures fall back to the extractive answer and are only logged.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, docs []*core.Document) string {
	if len(docs) == 0 {
		return NoInformationMessage
	}
	if s.generator == nil {
		return Extractive(docs)
	}

	prompt := BuildPrompt(query, docs)
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("generation failed, using extractive answer", "err", err)
		return Extractive(docs)
	}
	if strings.TrimSpace(text) == "" {
		s.logger.Warn("generation returned empty answer, using extractive answer")
		return Extractive(docs)
	}
	return strings.TrimSpace(text)
}

// Extractive quotes the top document and lists up to MaxRelated other titles.
func Extractive(docs []*core.Document) string {
	if len(docs) == 0 {
		return NoInformationMessage
	}

	top := docs[0]
	quote := strings.TrimSpace(top.Excerpt)
	if quote == "" {
		quote = Snippet(top.Body, QuoteLength)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "According to %q:\n\n%s", top.Title, quote)

	related := docs[1:]
	if len(related) > MaxRelated {
		related = related[:MaxRelated]
	}
	if len(related) > 0 {
		b.WriteString("\n\nRelated articles:")
		for _, doc := range related {
			b.WriteString("\n- ")
			b.WriteString(doc.Title)
		}
	}
	return b.String()
}

// BuildPrompt assembles the generation prompt from the first
// ContextDocuments documents, truncating each body.
func BuildPrompt(query string, docs []*core.Document) string {
	if len(docs) > ContextDocuments {
		docs = docs[:ContextDocuments]
	}

	var b strings.Builder
	b.WriteString("Articles:\n")
	for i, doc := range docs {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, doc.Title)
		if excerpt := strings.TrimSpace(doc.Excerpt); excerpt != "" {
			fmt.Fprintf(&b, "Summary: %s\n", excerpt)
		}
		fmt.Fprintf(&b, "%s\n", Snippet(doc.Body, ContextCharsPerDocument))
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n", strings.TrimSpace(query))
	return b.String()
}

// Snippet returns at most max characters of text with whitespace collapsed,
// cut at a word boundary and marked with "..." when shortened.
func Snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "..."
}
