package search

import (
	"testing"
	"time"

	"github.com/poiesic/kbsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexed(id core.ID, title, body string, vector []float32, approvedAt time.Time) *core.IndexedDocument {
	return &core.IndexedDocument{
		Record: &core.EmbeddingRecord{DocumentId: id, Vector: vector, ModelId: "test"},
		Document: &core.Document{
			Id:         id,
			Title:      title,
			Body:       body,
			Status:     core.DocumentStatusApproved,
			ApprovedAt: approvedAt,
		},
	}
}

func TestKeywordScore(t *testing.T) {
	doc := &core.Document{Title: "MongoDB Connection Refused", Body: "The connection was reset by the server."}

	t.Run("title and content matches", func(t *testing.T) {
		score := KeywordScore([]string{"mongodb", "connection"}, doc)
		assert.InDelta(t, (0.5+0.5+0.1)/2, score, 1e-9)
	})

	t.Run("no keywords", func(t *testing.T) {
		assert.Equal(t, 0.0, KeywordScore(nil, doc))
	})

	t.Run("abbreviations in the title are expanded", func(t *testing.T) {
		abbreviated := &core.Document{Title: "DB timeout", Body: "increase the pool size"}
		score := KeywordScore([]string{"database"}, abbreviated)
		assert.InDelta(t, 0.5, score, 1e-9)
	})

	t.Run("excerpt counts as content", func(t *testing.T) {
		withExcerpt := &core.Document{Title: "Printing", Excerpt: "Replace the toner cartridge"}
		score := KeywordScore([]string{"toner"}, withExcerpt)
		assert.InDelta(t, 0.1, score, 1e-9)
	})
}

func TestRank(t *testing.T) {
	ranker := NewRanker(DefaultSemanticWeight, DefaultKeywordWeight)
	now := time.Now().UTC()

	t.Run("orders by hybrid score and truncates", func(t *testing.T) {
		candidates := []*core.IndexedDocument{
			indexed(1, "Printer jams", "paper tray", []float32{0, 1}, now),
			indexed(2, "Password reset", "reset your password", []float32{1, 0}, now),
			indexed(3, "Password policy", "rotation rules", []float32{0.7, 0.7}, now),
		}
		results, err := ranker.Rank("password reset", []float32{1, 0}, candidates, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, core.ID(2), results[0].Document.Id)
		assert.Equal(t, core.ID(3), results[1].Document.Id)
		assert.Equal(t, 1, results[0].Rank)
		assert.Equal(t, 2, results[1].Rank)
		assert.InDelta(t, 1.0, results[0].SemanticScore, 1e-6)
		assert.InDelta(t, 0.6*results[0].SemanticScore+0.4*results[0].KeywordScore, results[0].HybridScore, 1e-9)
	})

	t.Run("ties prefer the most recently approved", func(t *testing.T) {
		candidates := []*core.IndexedDocument{
			indexed(1, "Same", "same", []float32{1, 1}, now.Add(-time.Hour)),
			indexed(2, "Same", "same", []float32{1, 1}, now),
		}
		results, err := ranker.Rank("unrelated", []float32{1, 1}, candidates, 0)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, core.ID(2), results[0].Document.Id)
	})

	t.Run("ties without recency keep input order", func(t *testing.T) {
		candidates := []*core.IndexedDocument{
			indexed(7, "Same", "same", []float32{1, 1}, time.Time{}),
			indexed(3, "Same", "same", []float32{1, 1}, time.Time{}),
		}
		results, err := ranker.Rank("unrelated", []float32{1, 1}, candidates, 0)
		require.NoError(t, err)
		assert.Equal(t, core.ID(7), results[0].Document.Id)
		assert.Equal(t, core.ID(3), results[1].Document.Id)
	})

	t.Run("idempotent", func(t *testing.T) {
		candidates := []*core.IndexedDocument{
			indexed(1, "Alpha", "a", []float32{0.2, 0.9}, now),
			indexed(2, "Beta", "b", []float32{0.9, 0.2}, now),
			indexed(3, "Gamma", "c", []float32{0.5, 0.5}, now),
		}
		first, err := ranker.Rank("alpha beta", []float32{0.6, 0.4}, candidates, 0)
		require.NoError(t, err)
		second, err := ranker.Rank("alpha beta", []float32{0.6, 0.4}, candidates, 0)
		require.NoError(t, err)
		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].Document.Id, second[i].Document.Id)
			assert.Equal(t, first[i].HybridScore, second[i].HybridScore)
		}
	})

	t.Run("zero candidate vectors are skipped", func(t *testing.T) {
		candidates := []*core.IndexedDocument{
			indexed(1, "Empty", "nothing", []float32{0, 0}, now),
			indexed(2, "Real", "something", []float32{1, 0}, now),
		}
		results, err := ranker.Rank("something", []float32{1, 0}, candidates, 0)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, core.ID(2), results[0].Document.Id)
	})

	t.Run("zero query vector ranks on keywords", func(t *testing.T) {
		candidates := []*core.IndexedDocument{
			indexed(1, "Printer jams", "paper", []float32{1, 0}, now),
			indexed(2, "Kubernetes upgrade", "cluster", []float32{0, 1}, now),
		}
		results, err := ranker.Rank("kubernetes", []float32{0, 0}, candidates, 0)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, core.ID(2), results[0].Document.Id)
		assert.Equal(t, 0.0, results[0].SemanticScore)
		assert.InDelta(t, 0.4*0.5, results[0].HybridScore, 1e-9)
	})

	t.Run("mixed dimensions fail", func(t *testing.T) {
		candidates := []*core.IndexedDocument{
			indexed(1, "Short", "a", []float32{1, 0}, now),
			indexed(2, "Long", "b", []float32{1, 0, 0}, now),
		}
		_, err := ranker.Rank("query", []float32{1, 0}, candidates, 0)
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	})

	t.Run("no candidates", func(t *testing.T) {
		results, err := ranker.Rank("query", []float32{1, 0}, nil, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSimilarityPercent(t *testing.T) {
	assert.Equal(t, 0, SimilarityPercent(-0.2))
	assert.Equal(t, 43, SimilarityPercent(0.434))
	assert.Equal(t, 100, SimilarityPercent(1.3))
}
