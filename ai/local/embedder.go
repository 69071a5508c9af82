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

package local

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/poiesic/kbsearch/ai"
	"github.com/poiesic/kbsearch/normalize"
)

// Salts appended to a feature to derive its second and third bucket.
const (
	saltSecondary = "#s1"
	saltTertiary  = "#s2"
)

// Bucket weights relative to log(1+freq).
var bucketWeights = [3]float64{1.0, 0.5, 0.25}

// HashEmbedder maps text into a fixed-dimension vector with the hashing
// trick over unigram and bigram features. It performs no I/O and is safe
// for concurrent use.
type HashEmbedder struct {
	dim int
}

var _ ai.Embedder = (*HashEmbedder)(nil)

// NewHashEmbedder creates an embedder producing vectors of length dim.
// A non-positive dim selects ai.DefaultDimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = ai.DefaultDimension
	}
	return &HashEmbedder{dim: dim}
}

// Dimension returns the vector length.
func (e *HashEmbedder) Dimension() int {
	return e.dim
}

// Embed returns the unit-length hashed feature vector of text.
// Text without recognised features yields the zero vector.
func (e *HashEmbedder) Embed(text string) []float32 {
	features := normalize.TokenizeWithBigrams(text)
	acc := make([]float64, e.dim)
	if len(features) == 0 {
		return make([]float32, e.dim)
	}

	freq := make(map[string]int, len(features))
	order := make([]string, 0, len(features))
	for _, f := range features {
		if freq[f] == 0 {
			order = append(order, f)
		}
		freq[f]++
	}

	for _, f := range order {
		w := math.Log1p(float64(freq[f]))
		acc[e.bucket(f)] += bucketWeights[0] * w
		acc[e.bucket(f+saltSecondary)] += bucketWeights[1] * w
		acc[e.bucket(f+saltTertiary)] += bucketWeights[2] * w
	}

	var sumSquares float64
	for _, v := range acc {
		sumSquares += v * v
	}
	vector := make([]float32, e.dim)
	if sumSquares == 0 {
		return vector
	}
	norm := math.Sqrt(sumSquares)
	for i, v := range acc {
		vector[i] = float32(v / norm)
	}
	return vector
}

func (e *HashEmbedder) bucket(feature string) int {
	h := fnv.New32a()
	h.Write([]byte(feature))
	return int(h.Sum32() % uint32(e.dim))
}

// EmbedText implements ai.Embedder.
func (e *HashEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Embed(text), nil
}

// EmbedTexts implements ai.Embedder.
func (e *HashEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = e.Embed(text)
	}
	return vectors, nil
}
