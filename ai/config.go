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

package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LocalModelID is the model identifier of the local hashing vectorizer.
const LocalModelID = "local-hash-v2"

// Defaults applied by DefaultConfig.
const (
	DefaultDimension      = 256
	DefaultLocalFloor     = 0.15
	DefaultFloor          = 0.35
	DefaultSemanticWeight = 0.6
	DefaultKeywordWeight  = 0.4
	DefaultTimeout        = 30 * time.Second
)

// Config selects and configures the embedding provider.
// It is passed explicitly to constructors; there is no process-wide provider.
type Config struct {
	// Provider selects the variant. Default: local
	Provider Kind `yaml:"provider"`

	// APIKey is the credential for the external API. The external provider
	// reports itself not ready when it is empty.
	APIKey string `yaml:"api_key"`

	// EmbeddingHost is the base URL of the external API.
	// Example: "https://api.openai.com/v1", "http://localhost:11434/v1"
	EmbeddingHost string `yaml:"embedding_host"`

	// EmbeddingModel is the external embedding model.
	// Example: "text-embedding-3-small"
	EmbeddingModel string `yaml:"embedding_model"`

	// GenerativeModel enables generated answers when set.
	// Example: "gpt-4o-mini"
	GenerativeModel string `yaml:"generative_model"`

	// Dimension is the vector length of the local vectorizer. Default: 256
	Dimension int `yaml:"dimension"`

	// SimilarityFloors maps a model ID to the minimum hybrid score the top
	// result must reach. Models not listed use DefaultFloor.
	SimilarityFloors map[string]float64 `yaml:"similarity_floors"`

	// DefaultFloor applies to models without an entry in SimilarityFloors.
	DefaultFloor float64 `yaml:"default_floor"`

	// SemanticWeight and KeywordWeight blend cosine similarity with keyword
	// overlap. Defaults: 0.6 and 0.4
	SemanticWeight float64 `yaml:"semantic_weight"`
	KeywordWeight  float64 `yaml:"keyword_weight"`

	// Timeout bounds a single external API call. Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// RequestsPerSecond limits calls to the external API. Zero means unlimited.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type ConfigOption func(*Config)

func WithProvider(kind Kind) ConfigOption {
	return func(c *Config) {
		c.Provider = kind
	}
}

func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

func WithGenerativeModel(model string) ConfigOption {
	return func(c *Config) {
		c.GenerativeModel = model
	}
}

func WithDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dim
	}
}

// AnyModel in a floor map sets the floor for models without their own entry.
const AnyModel = "*"

// WithSimilarityFloor sets the floor for one model, or the default floor when
// modelID is AnyModel.
func WithSimilarityFloor(modelID string, floor float64) ConfigOption {
	return func(c *Config) {
		if modelID == AnyModel {
			c.DefaultFloor = floor
			return
		}
		if c.SimilarityFloors == nil {
			c.SimilarityFloors = make(map[string]float64)
		}
		c.SimilarityFloors[modelID] = floor
	}
}

func WithDefaultFloor(floor float64) ConfigOption {
	return func(c *Config) {
		c.DefaultFloor = floor
	}
}

func WithWeights(semantic, keyword float64) ConfigOption {
	return func(c *Config) {
		c.SemanticWeight = semantic
		c.KeywordWeight = keyword
	}
}

func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

func WithRequestsPerSecond(rps float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
	}
}

func DefaultConfig() *Config {
	return &Config{
		Provider:         KindLocal,
		EmbeddingHost:    "https://api.openai.com/v1",
		EmbeddingModel:   "text-embedding-3-small",
		Dimension:        DefaultDimension,
		SimilarityFloors: map[string]float64{LocalModelID: DefaultLocalFloor},
		DefaultFloor:     DefaultFloor,
		SemanticWeight:   DefaultSemanticWeight,
		KeywordWeight:    DefaultKeywordWeight,
		Timeout:          DefaultTimeout,
	}
}

func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// FloorFor returns the similarity floor configured for modelID. A model ID
// of the form "name/variant" falls back to the entry for "name".
func (c *Config) FloorFor(modelID string) float64 {
	if floor, ok := c.SimilarityFloors[modelID]; ok {
		return floor
	}
	if base, _, ok := strings.Cut(modelID, "/"); ok {
		if floor, ok := c.SimilarityFloors[base]; ok {
			return floor
		}
	}
	return c.DefaultFloor
}

// Normalize fills zero values with defaults and canonicalises the host.
func (c *Config) Normalize() {
	if kind, err := ParseKind(string(c.Provider)); err == nil {
		c.Provider = kind
	}
	if c.Dimension == 0 {
		c.Dimension = DefaultDimension
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.SemanticWeight == 0 && c.KeywordWeight == 0 {
		c.SemanticWeight = DefaultSemanticWeight
		c.KeywordWeight = DefaultKeywordWeight
	}
	if c.SimilarityFloors == nil {
		c.SimilarityFloors = make(map[string]float64)
	}
	if floor, ok := c.SimilarityFloors[AnyModel]; ok {
		c.DefaultFloor = floor
		delete(c.SimilarityFloors, AnyModel)
	}
	if _, ok := c.SimilarityFloors[LocalModelID]; !ok {
		c.SimilarityFloors[LocalModelID] = DefaultLocalFloor
	}
	// Ensure EmbeddingHost ends with /v1 for OpenAI-compatible APIs
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
}

func (c *Config) Validate() error {
	c.Normalize()

	if _, err := ParseKind(string(c.Provider)); err != nil {
		return fmt.Errorf("ai config: %w", err)
	}
	if c.Dimension < 8 {
		return errors.New("ai config: Dimension must be at least 8")
	}
	if c.SemanticWeight < 0 || c.KeywordWeight < 0 {
		return errors.New("ai config: weights must not be negative")
	}
	if c.DefaultFloor < 0 || c.DefaultFloor > 1 {
		return errors.New("ai config: DefaultFloor must be between 0 and 1")
	}
	for model, floor := range c.SimilarityFloors {
		if floor < 0 || floor > 1 {
			return fmt.Errorf("ai config: floor for %q must be between 0 and 1", model)
		}
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("ai config: RequestsPerSecond must not be negative")
	}
	if c.Provider == KindExternal {
		if c.EmbeddingHost == "" {
			return errors.New("ai config: EmbeddingHost is required")
		}
		if c.EmbeddingModel == "" {
			return errors.New("ai config: EmbeddingModel is required")
		}
	}
	return nil
}
