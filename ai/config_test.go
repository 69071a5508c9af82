package ai

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, KindLocal, cfg.Provider)
	assert.Equal(t, 256, cfg.Dimension)
	assert.Equal(t, 0.15, cfg.FloorFor(LocalModelID))
	assert.Equal(t, 0.35, cfg.FloorFor("text-embedding-3-small"))
	assert.Equal(t, 0.6, cfg.SemanticWeight)
	assert.Equal(t, 0.4, cfg.KeywordWeight)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, KindLocal, cfg.Provider)
		assert.Empty(t, cfg.GenerativeModel)
	})

	t.Run("with external provider", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(KindExternal),
			WithAPIKey("sk-test"),
			WithEmbeddingModel("text-embedding-3-large"),
			WithGenerativeModel("gpt-4o-mini"),
		)

		assert.Equal(t, KindExternal, cfg.Provider)
		assert.Equal(t, "sk-test", cfg.APIKey)
		assert.Equal(t, "text-embedding-3-large", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.GenerativeModel)
	})

	t.Run("with floors and weights", func(t *testing.T) {
		cfg := NewConfig(
			WithSimilarityFloor("text-embedding-3-small", 0.3),
			WithDefaultFloor(0.5),
			WithWeights(0.7, 0.3),
		)

		assert.Equal(t, 0.3, cfg.FloorFor("text-embedding-3-small"))
		assert.Equal(t, 0.15, cfg.FloorFor(LocalModelID))
		assert.Equal(t, 0.5, cfg.FloorFor("unknown"))
		assert.Equal(t, 0.7, cfg.SemanticWeight)
		assert.Equal(t, 0.3, cfg.KeywordWeight)
	})
}

func TestWithSimilarityFloor_AnyModel(t *testing.T) {
	cfg := NewConfig(WithSimilarityFloor(AnyModel, 0.5), WithSimilarityFloor("nomic-embed-text", 0.4))
	assert.Equal(t, 0.5, cfg.FloorFor("text-embedding-3-small"))
	assert.Equal(t, 0.4, cfg.FloorFor("nomic-embed-text"))
	assert.NotContains(t, cfg.SimilarityFloors, AnyModel)
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already has /v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"missing /v1", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.input}
			cfg.Normalize()
			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
		})
	}

	t.Run("fills zero values", func(t *testing.T) {
		cfg := &Config{Provider: "openai"}
		cfg.Normalize()

		assert.Equal(t, KindExternal, cfg.Provider)
		assert.Equal(t, DefaultDimension, cfg.Dimension)
		assert.Equal(t, DefaultTimeout, cfg.Timeout)
		assert.Equal(t, DefaultSemanticWeight, cfg.SemanticWeight)
		assert.Equal(t, DefaultLocalFloor, cfg.FloorFor(LocalModelID))
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{"defaults", DefaultConfig(), ""},
		{"unknown provider", NewConfig(WithProvider("quantum")), "unknown provider"},
		{"tiny dimension", NewConfig(WithDimension(4)), "Dimension"},
		{"negative weight", NewConfig(WithWeights(-1, 0.4)), "weights"},
		{"floor out of range", NewConfig(WithSimilarityFloor("m", 1.5)), "floor"},
		{"external without model", NewConfig(WithProvider(KindExternal), WithEmbeddingModel("")), "EmbeddingModel"},
		{"negative rate", NewConfig(WithRequestsPerSecond(-1)), "RequestsPerSecond"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": KindLocal, "LOCAL": KindLocal, "external": KindExternal, "openai": KindExternal} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("remote")
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("overrides from yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kbsearch.yaml")
		content := `provider: external
api_key: sk-file
embedding_host: http://localhost:11434
embedding_model: nomic-embed-text
similarity_floors:
  nomic-embed-text: 0.4
timeout: 5s
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, KindExternal, cfg.Provider)
		assert.Equal(t, "sk-file", cfg.APIKey)
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, 0.4, cfg.FloorFor("nomic-embed-text"))
		assert.Equal(t, 0.15, cfg.FloorFor(LocalModelID))
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, 256, cfg.Dimension)
	})

	t.Run("wildcard floor sets the default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kbsearch.yaml")
		content := `similarity_floors:
  "*": 0.5
  nomic-embed-text: 0.4
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, 0.5, cfg.DefaultFloor)
		assert.Equal(t, 0.5, cfg.FloorFor("text-embedding-3-small"))
		assert.Equal(t, 0.4, cfg.FloorFor("nomic-embed-text"))
		assert.Equal(t, 0.15, cfg.FloorFor(LocalModelID))
		assert.NotContains(t, cfg.SimilarityFloors, AnyModel)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("provider: [unterminated"), 0o644))

		_, err := LoadConfigFile(path)
		assert.Error(t, err)
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("overlays variables", func(t *testing.T) {
		t.Setenv(EnvProvider, "external")
		t.Setenv(EnvAPIKey, "sk-env")
		t.Setenv(EnvDimension, "512")
		t.Setenv(EnvSimilarityFloors, "text-embedding-3-small=0.3, *=0.4")
		t.Setenv(EnvTimeout, "10s")
		t.Setenv(EnvRateLimit, "2.5")

		base := DefaultConfig()
		cfg, err := ConfigFromEnv(base)
		require.NoError(t, err)

		assert.Equal(t, KindExternal, cfg.Provider)
		assert.Equal(t, "sk-env", cfg.APIKey)
		assert.Equal(t, 512, cfg.Dimension)
		assert.Equal(t, 0.3, cfg.FloorFor("text-embedding-3-small"))
		assert.Equal(t, 0.4, cfg.FloorFor("unknown"))
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.Equal(t, 2.5, cfg.RequestsPerSecond)

		// base is untouched
		assert.Equal(t, KindLocal, base.Provider)
		assert.NotContains(t, base.SimilarityFloors, "text-embedding-3-small")
	})

	t.Run("bad dimension", func(t *testing.T) {
		t.Setenv(EnvDimension, "wide")
		_, err := ConfigFromEnv(nil)
		assert.Error(t, err)
	})

	t.Run("bad floors", func(t *testing.T) {
		t.Setenv(EnvSimilarityFloors, "model")
		_, err := ConfigFromEnv(nil)
		assert.Error(t, err)
	})
}
