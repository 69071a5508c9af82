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

package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/kbsearch/ai"
	"github.com/poiesic/kbsearch/ai/local"
	"github.com/poiesic/kbsearch/ai/openai"
	"github.com/poiesic/kbsearch/answer"
	"github.com/poiesic/kbsearch/core"
)

// Adapter is the single entry point the engine uses for embeddings and
// answers. It wraps exactly one provider variant, chosen at construction.
type Adapter struct {
	provider    ai.AIProvider
	synthesizer *answer.Synthesizer
	logger      *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger.With("component", "provider")
		return nil
	}
}

// New validates cfg and builds the variant it selects.
// Every configuration problem is reported as core.ErrConfiguration.
func New(cfg *ai.Config, opts ...Option) (*Adapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", core.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
	}

	var (
		p   ai.AIProvider
		err error
	)
	switch cfg.Provider {
	case ai.KindLocal:
		p, err = local.NewProvider(cfg)
	case ai.KindExternal:
		p, err = openai.NewProvider(cfg)
	default:
		err = fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
	}
	return NewWithProvider(p, opts...)
}

// NewWithProvider wraps an already constructed provider.
func NewWithProvider(p ai.AIProvider, opts ...Option) (*Adapter, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: provider is nil", core.ErrConfiguration)
	}
	a := &Adapter{
		provider: p,
		logger:   slog.Default().With("component", "provider"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	// Only the external variant may generate; local answers stay extractive.
	var generator ai.Generator
	if p.Kind() == ai.KindExternal {
		generator = p.Generator()
	}
	synthesizer, err := answer.NewSynthesizer(
		answer.WithGenerator(generator),
		answer.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	a.synthesizer = synthesizer

	a.logger.Info("provider selected", "kind", p.Kind(), "model", p.ModelID(),
		"ready", p.Ready(), "generative", synthesizer.Generative())
	return a, nil
}

// Kind returns the active variant.
func (a *Adapter) Kind() ai.Kind {
	return a.provider.Kind()
}

// ModelID identifies the model producing this adapter's vectors.
func (a *Adapter) ModelID() string {
	return a.provider.ModelID()
}

// IsReady reports whether Embed can be served.
func (a *Adapter) IsReady() bool {
	return a.provider.Ready()
}

// Embed returns the vector for text.
//
// Blank text fails with core.ErrEmptyInput before the provider is consulted.
// An unready provider fails with core.ErrConfiguration and a failing call
// with core.ErrProviderCall. Context errors are passed through unchanged so
// callers can tell a timeout from a provider failure.
func (a *Adapter) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: nothing to embed", core.ErrEmptyInput)
	}
	if !a.provider.Ready() {
		return nil, fmt.Errorf("%w: %s provider has no credentials", core.ErrConfiguration, a.provider.Kind())
	}

	vector, err := a.provider.Embedder().EmbedText(ctx, text)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrProviderCall, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty vector returned", core.ErrProviderCall)
	}
	return vector, nil
}

// GenerateAnswer synthesizes an answer for query from docs, best first.
// It never fails; generation problems fall back to the extractive answer.
func (a *Adapter) GenerateAnswer(ctx context.Context, query string, docs []*core.Document) string {
	return a.synthesizer.Synthesize(ctx, query, docs)
}

// Close releases the underlying provider.
func (a *Adapter) Close() error {
	return a.provider.Close()
}
