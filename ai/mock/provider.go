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

package mock

import "github.com/poiesic/kbsearch/ai"

// DefaultModelID is the model identifier reported by a MockProvider.
const DefaultModelID = "mock-embed"

// MockProvider is a test double for ai.AIProvider.
// Its exported fields may be changed between calls.
type MockProvider struct {
	ProviderKind ai.Kind
	Model        string
	IsReady      bool

	embedder  *MockEmbedder
	generator *MockGenerator
}

var _ ai.AIProvider = (*MockProvider)(nil)

// NewMockProvider returns a ready external-kind provider without a generator.
func NewMockProvider() *MockProvider {
	return NewMockProviderWithServices(NewMockEmbedder(), nil)
}

// NewMockProviderWithServices wires the given doubles. generator may be nil.
func NewMockProviderWithServices(embedder *MockEmbedder, generator *MockGenerator) *MockProvider {
	return &MockProvider{
		ProviderKind: ai.KindExternal,
		Model:        DefaultModelID,
		IsReady:      true,
		embedder:     embedder,
		generator:    generator,
	}
}

func (p *MockProvider) Kind() ai.Kind {
	return p.ProviderKind
}

func (p *MockProvider) ModelID() string {
	return p.Model
}

func (p *MockProvider) Ready() bool {
	return p.IsReady
}

func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *MockProvider) Generator() ai.Generator {
	if p.generator == nil {
		return nil
	}
	return p.generator
}

func (p *MockProvider) Close() error {
	return nil
}

func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

func (p *MockProvider) GetMockGenerator() *MockGenerator {
	return p.generator
}
