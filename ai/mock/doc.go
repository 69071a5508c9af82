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

// Package mock holds test doubles for the ai interfaces.
//
// MockEmbedder returns DeterministicVector(text, Dim) unless a custom function is
// installed, so equal texts always embed equally. MockGenerator records the
// prompts it receives. MockProvider pairs them behind ai.AIProvider and
// reports itself as the external variant:
//
//	embedder := mock.NewMockEmbedder().
//	    WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
//	        return nil, errors.New("upstream down")
//	    })
//	p := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())
//	p.IsReady = false // behave like a provider without credentials
package mock
