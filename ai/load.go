package ai

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvProvider         = "KBSEARCH_PROVIDER"
	EnvAPIKey           = "KBSEARCH_API_KEY"
	EnvEmbeddingHost    = "KBSEARCH_EMBEDDING_HOST"
	EnvEmbeddingModel   = "KBSEARCH_EMBEDDING_MODEL"
	EnvGenerativeModel  = "KBSEARCH_GENERATIVE_MODEL"
	EnvDimension        = "KBSEARCH_DIMENSION"
	EnvSimilarityFloors = "KBSEARCH_SIMILARITY_FLOORS"
	EnvTimeout          = "KBSEARCH_TIMEOUT"
	EnvRateLimit        = "KBSEARCH_RATE_LIMIT"
)

// LoadConfigFile reads a YAML config. A missing file yields the defaults.
// Fields absent from the file keep their default values.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// ConfigFromEnv overlays KBSEARCH_* environment variables onto base.
// A nil base starts from DefaultConfig. base is not modified.
func ConfigFromEnv(base *Config) (*Config, error) {
	cfg := DefaultConfig()
	if base != nil {
		cp := *base
		cp.SimilarityFloors = make(map[string]float64, len(base.SimilarityFloors))
		for k, v := range base.SimilarityFloors {
			cp.SimilarityFloors[k] = v
		}
		cfg = &cp
	}

	if v, ok := os.LookupEnv(EnvProvider); ok {
		kind, err := ParseKind(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvProvider, err)
		}
		cfg.Provider = kind
	}
	if v, ok := os.LookupEnv(EnvAPIKey); ok {
		cfg.APIKey = v
	}
	if v, ok := os.LookupEnv(EnvEmbeddingHost); ok {
		cfg.EmbeddingHost = v
	}
	if v, ok := os.LookupEnv(EnvEmbeddingModel); ok {
		cfg.EmbeddingModel = v
	}
	if v, ok := os.LookupEnv(EnvGenerativeModel); ok {
		cfg.GenerativeModel = v
	}
	if v, ok := os.LookupEnv(EnvDimension); ok {
		dim, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvDimension, err)
		}
		cfg.Dimension = dim
	}
	if v, ok := os.LookupEnv(EnvSimilarityFloors); ok {
		floors, err := ParseFloors(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvSimilarityFloors, err)
		}
		for model, floor := range floors {
			if model == AnyModel {
				cfg.DefaultFloor = floor
				continue
			}
			if cfg.SimilarityFloors == nil {
				cfg.SimilarityFloors = make(map[string]float64)
			}
			cfg.SimilarityFloors[model] = floor
		}
	}
	if v, ok := os.LookupEnv(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v, ok := os.LookupEnv(EnvRateLimit); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvRateLimit, err)
		}
		cfg.RequestsPerSecond = rps
	}

	cfg.Normalize()
	return cfg, nil
}

// ParseFloors parses "model=0.3,local-hash-v2=0.15". The model "*" sets the
// floor for models without their own entry.
func ParseFloors(s string) (map[string]float64, error) {
	floors := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		model, value, ok := strings.Cut(pair, "=")
		model = strings.TrimSpace(model)
		if !ok || model == "" {
			return nil, fmt.Errorf("malformed floor %q", pair)
		}
		floor, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("floor for %q: %w", model, err)
		}
		floors[model] = floor
	}
	return floors, nil
}
