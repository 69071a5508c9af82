package reembed

import (
	"bytes"
	"context"
	"testing"

	"github.com/poiesic/kbsearch/ai"
	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/provider"
	"github.com/poiesic/kbsearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegration_DimensionMigration moves an index built with a small local
// vectorizer to the default one, so every vector changes length.
func TestIntegration_DimensionMigration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	small, err := provider.New(ai.NewConfig(ai.WithDimension(64)))
	require.NoError(t, err)
	large, err := provider.New(ai.NewConfig())
	require.NoError(t, err)
	require.NotEqual(t, small.ModelID(), large.ModelID())

	texts := []string{
		"MongoDB connection refused",
		"Reset your VPN password",
		"Kubernetes pod stuck in CrashLoopBackOff",
	}
	for i, text := range texts {
		vector, err := small.Embed(ctx, text)
		require.NoError(t, err)
		_, err = repos.Embeddings.UpsertEmbedding(ctx, core.ID(i+1), vector, text, small.ModelID())
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	r, err := NewReembedder(repos.Embeddings, large, testConfig(2), &buf, nil)
	require.NoError(t, err)

	run, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(texts), run.Indexed)

	for i, text := range texts {
		record, err := repos.Embeddings.GetEmbedding(ctx, core.ID(i+1))
		require.NoError(t, err)
		assert.Equal(t, large.ModelID(), record.ModelId)
		assert.Len(t, record.Vector, ai.DefaultDimension)

		direct, err := large.Embed(ctx, text)
		require.NoError(t, err)
		assert.InDeltaSlice(t, direct, record.Vector, 1e-6, "re-embedding matches a fresh embed")
	}

	t.Run("second run is a no-op", func(t *testing.T) {
		again, err := r.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Total)
	})
}
