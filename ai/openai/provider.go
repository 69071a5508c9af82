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

package openai

import (
	"log/slog"
	"math"

	"github.com/poiesic/kbsearch/ai"
	"golang.org/x/time/rate"
)

// Provider is the external variant. It is ready only when an API key is
// configured; generation is available when a generative model is set.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	generator *Generator
	logger    *slog.Logger
}

var _ ai.AIProvider = (*Provider)(nil)

// NewProvider creates a provider whose embedder and generator share one
// request limiter.
func NewProvider(config *ai.Config) (*Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	limiter := newLimiter(config.RequestsPerSecond)

	embedder, err := newEmbedder(config, limiter)
	if err != nil {
		return nil, err
	}

	var generator *Generator
	if config.GenerativeModel != "" {
		generator, err = newGenerator(config, limiter)
		if err != nil {
			return nil, err
		}
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		generator: generator,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

func (p *Provider) Kind() ai.Kind {
	return ai.KindExternal
}

func (p *Provider) ModelID() string {
	return p.config.EmbeddingModel
}

func (p *Provider) Ready() bool {
	return p.config.APIKey != ""
}

func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns nil when no generative model is configured.
func (p *Provider) Generator() ai.Generator {
	if p.generator == nil {
		return nil
	}
	return p.generator
}

func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}

// newLimiter returns a token bucket allowing rps requests per second.
// rps <= 0 disables limiting.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), int(math.Max(1, math.Ceil(rps))))
}
