package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/kbsearch/ai"
	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/provider"
	"github.com/poiesic/kbsearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider embeds through a fixed table and records generated answers.
type stubProvider struct {
	vectors map[string][]float32
	model   string
	ready   bool
	asked   [][]*core.Document
}

func (p *stubProvider) Embed(_ context.Context, text string) ([]float32, error) {
	return p.vectors[text], nil
}

func (p *stubProvider) ModelID() string { return p.model }
func (p *stubProvider) IsReady() bool   { return p.ready }

func (p *stubProvider) GenerateAnswer(_ context.Context, query string, docs []*core.Document) string {
	p.asked = append(p.asked, docs)
	return "answer to " + query
}

type recordingMonitor struct {
	stages     []string
	candidates int
	resp       *Response
}

func (m *recordingMonitor) Start(string)                   { m.stages = append(m.stages, "start") }
func (m *recordingMonitor) AfterEmbed([]float32)           { m.stages = append(m.stages, "embed") }
func (m *recordingMonitor) AfterScan(n int)                { m.stages = append(m.stages, "scan"); m.candidates = n }
func (m *recordingMonitor) AfterRank([]*core.RankedResult) { m.stages = append(m.stages, "rank") }
func (m *recordingMonitor) Finish(resp *Response) {
	m.stages = append(m.stages, "finish")
	m.resp = resp
}

func newRepos(t *testing.T) *badger.Repositories {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

// addIndexed stores doc as approved and upserts vector for it.
func addIndexed(t *testing.T, repos *badger.Repositories, doc *core.Document, vector []float32, model string) *core.Document {
	t.Helper()
	ctx := context.Background()
	doc.Status = core.DocumentStatusApproved
	if doc.ApprovedAt.IsZero() {
		doc.ApprovedAt = time.Now().UTC()
	}
	added, err := repos.Documents.AddDocuments(ctx, doc)
	require.NoError(t, err)
	_, err = repos.Embeddings.UpsertEmbedding(ctx, added[0].Id, vector, core.EmbeddingText(added[0]), model)
	require.NoError(t, err)
	return added[0]
}

func TestNewSearcher(t *testing.T) {
	repos := newRepos(t)
	stub := &stubProvider{ready: true}

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(repos.Embeddings, repos.Documents, stub)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(repos.Embeddings, repos.Documents, stub, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(repos.Embeddings, repos.Documents, stub, WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil embedding repository", func(t *testing.T) {
		_, err := NewSearcher(nil, repos.Documents, stub)
		assert.Equal(t, ErrEmbeddingRepositoryRequired, err)
	})

	t.Run("nil document reader", func(t *testing.T) {
		_, err := NewSearcher(repos.Embeddings, nil, stub)
		assert.Equal(t, ErrDocumentReaderRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewSearcher(repos.Embeddings, repos.Documents, nil)
		assert.Equal(t, ErrProviderRequired, err)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := NewSearcher(repos.Embeddings, repos.Documents, stub, WithTopK(0))
		assert.ErrorIs(t, err, core.ErrConfiguration)
		_, err = NewSearcher(repos.Embeddings, repos.Documents, stub, WithWeights(0, 0))
		assert.ErrorIs(t, err, core.ErrConfiguration)
		_, err = NewSearcher(repos.Embeddings, repos.Documents, stub, WithFloors(nil))
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})
}

func TestSearch_LocalProvider(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	cfg := ai.NewConfig()
	adapter, err := provider.New(cfg)
	require.NoError(t, err)

	docs := []*core.Document{
		{Title: "MongoDB Connection Refused Error", Category: "Databases", Tags: []string{"mongodb"},
			Excerpt: "What to check when the MongoDB connection is refused.",
			Body:    "If the mongodb connection is refused, verify that mongod is running and listening on port 27017."},
		{Title: "Resetting your VPN password", Category: "Network",
			Body: "Open the self service portal and choose reset password for the virtual private network."},
		{Title: "Printer toner replacement", Category: "Hardware",
			Body: "Open the front panel, remove the old cartridge and insert the new toner."},
	}
	for _, doc := range docs {
		added, err := repos.Documents.AddDocuments(ctx, &core.Document{
			Title: doc.Title, Body: doc.Body, Excerpt: doc.Excerpt, Category: doc.Category, Tags: doc.Tags,
			Status: core.DocumentStatusApproved, ApprovedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		text := core.EmbeddingText(added[0])
		vector, err := adapter.Embed(ctx, text)
		require.NoError(t, err)
		_, err = repos.Embeddings.UpsertEmbedding(ctx, added[0].Id, vector, text, adapter.ModelID())
		require.NoError(t, err)
	}

	searcher, err := NewSearcher(repos.Embeddings, repos.Documents, adapter,
		WithFloors(cfg), WithWeights(cfg.SemanticWeight, cfg.KeywordWeight))
	require.NoError(t, err)

	t.Run("mongodb query finds the mongodb article first", func(t *testing.T) {
		monitor := &recordingMonitor{}
		resp, err := searcher.SearchWithMonitor(ctx, "mongodb connection error", monitor)
		require.NoError(t, err)
		require.True(t, resp.Found)
		require.NotEmpty(t, resp.Sources)

		top := resp.Sources[0]
		assert.Equal(t, "MongoDB Connection Refused Error", top.Title)
		assert.Equal(t, "Databases", top.Category)
		assert.Equal(t, []string{"mongodb"}, top.Tags)
		assert.Greater(t, top.SimilarityPercent, int(cfg.FloorFor(adapter.ModelID())*100))
		assert.Contains(t, resp.Answer, `According to "MongoDB Connection Refused Error"`)

		assert.Equal(t, []string{"start", "embed", "scan", "rank", "finish"}, monitor.stages)
		assert.Equal(t, 3, monitor.candidates)
		assert.Same(t, resp, monitor.resp)
	})

	t.Run("empty query is rejected", func(t *testing.T) {
		_, err := searcher.Search(ctx, "   ")
		require.ErrorIs(t, err, core.ErrEmptyInput)
		assert.Contains(t, err.Error(), "please provide a query")
	})

	t.Run("unapproved documents are not returned", func(t *testing.T) {
		all, err := repos.Documents.ListDocuments(ctx)
		require.NoError(t, err)
		var mongo *core.Document
		for _, doc := range all {
			if doc.Title == "MongoDB Connection Refused Error" {
				mongo = doc
			}
		}
		require.NotNil(t, mongo)
		mongo.Status = core.DocumentStatusRejected
		_, err = repos.Documents.UpdateDocuments(ctx, mongo)
		require.NoError(t, err)
		t.Cleanup(func() {
			mongo.Status = core.DocumentStatusApproved
			repos.Documents.UpdateDocuments(ctx, mongo)
		})

		resp, err := searcher.Search(ctx, "mongodb connection error")
		require.NoError(t, err)
		for _, src := range resp.Sources {
			assert.NotEqual(t, mongo.Id, src.DocumentId)
		}
	})
}

func TestSearch_Floor(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	stub := &stubProvider{
		model: "test-model",
		ready: true,
		vectors: map[string][]float32{
			"unrelated question": {0.2, 1},
		},
	}
	addIndexed(t, repos, &core.Document{Title: "Printer toner", Body: "replace the cartridge"}, []float32{1, 0.1}, "test-model")

	searcher, err := NewSearcher(repos.Embeddings, repos.Documents, stub, WithFloors(FixedFloor(0.5)))
	require.NoError(t, err)

	resp, err := searcher.Search(ctx, "unrelated question")
	require.NoError(t, err)
	assert.False(t, resp.Found)
	assert.Equal(t, NotFoundMessage, resp.Message)
	assert.Empty(t, resp.Sources)
	assert.Empty(t, resp.Alternatives)
	assert.Empty(t, resp.Answer)
	assert.Empty(t, stub.asked, "no answer is generated below the floor")
}

func TestSearch_PerModelFloor(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	stub := &stubProvider{
		model:   "dense-model",
		ready:   true,
		vectors: map[string][]float32{"backup schedule": {1, 1}},
	}
	addIndexed(t, repos, &core.Document{Title: "Quarterly report", Body: "numbers"}, []float32{1, 0.2}, "dense-model")

	// Cosine is about 0.83, hybrid about 0.5 with no keyword overlap.
	lenient := ai.NewConfig(ai.WithSimilarityFloor("dense-model", 0.3))
	strict := ai.NewConfig(ai.WithSimilarityFloor("dense-model", 0.6))

	s, err := NewSearcher(repos.Embeddings, repos.Documents, stub, WithFloors(lenient))
	require.NoError(t, err)
	resp, err := s.Search(ctx, "backup schedule")
	require.NoError(t, err)
	assert.True(t, resp.Found)

	s, err = NewSearcher(repos.Embeddings, repos.Documents, stub, WithFloors(strict))
	require.NoError(t, err)
	resp, err = s.Search(ctx, "backup schedule")
	require.NoError(t, err)
	assert.False(t, resp.Found)
}

func TestSearch_SourcesAndAlternatives(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)

	stub := &stubProvider{
		model:   "m",
		ready:   true,
		vectors: map[string][]float32{"query": {1, 0}},
	}
	base := time.Now().UTC()
	for i, v := range [][]float32{{1, 0}, {0.95, 0.3}, {0.9, 0.45}, {0.8, 0.6}, {0.7, 0.7}, {0.1, 1}} {
		addIndexed(t, repos, &core.Document{
			Title:      string(rune('A'+i)) + " article",
			Body:       "body",
			Excerpt:    "An excerpt that is shown as the snippet.",
			ApprovedAt: base.Add(time.Duration(i) * time.Minute),
		}, v, "m")
	}

	searcher, err := NewSearcher(repos.Embeddings, repos.Documents, stub, WithFloors(FixedFloor(0.1)))
	require.NoError(t, err)

	resp, err := searcher.Search(ctx, "query")
	require.NoError(t, err)
	require.True(t, resp.Found)
	require.Len(t, resp.Sources, MaxSources)
	require.Len(t, resp.Alternatives, MaxAlternatives)

	assert.Equal(t, "A article", resp.Sources[0].Title)
	assert.Equal(t, "B article", resp.Sources[1].Title)
	assert.Equal(t, "C article", resp.Sources[2].Title)
	assert.Equal(t, "D article", resp.Alternatives[0].Title)
	assert.Equal(t, "E article", resp.Alternatives[1].Title)
	assert.Equal(t, 60, resp.Sources[0].SimilarityPercent)
	assert.Equal(t, "An excerpt that is shown as the snippet.", resp.Sources[0].ExcerptSnippet)

	require.Len(t, stub.asked, 1)
	assert.Len(t, stub.asked[0], MaxSources)
	assert.Equal(t, "answer to query", resp.Answer)
}

func TestSearch_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("mixed dimensions", func(t *testing.T) {
		repos := newRepos(t)
		stub := &stubProvider{model: "m", ready: true, vectors: map[string][]float32{"query": {1, 0, 0}}}
		addIndexed(t, repos, &core.Document{Title: "Three", Body: "x"}, []float32{1, 0, 0}, "m")
		addIndexed(t, repos, &core.Document{Title: "Two", Body: "y"}, []float32{1, 0}, "other")

		searcher, err := NewSearcher(repos.Embeddings, repos.Documents, stub)
		require.NoError(t, err)
		_, err = searcher.Search(ctx, "query")
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	})

	t.Run("provider not ready", func(t *testing.T) {
		repos := newRepos(t)
		stub := &stubProvider{model: "m", ready: false}
		searcher, err := NewSearcher(repos.Embeddings, repos.Documents, stub)
		require.NoError(t, err)
		_, err = searcher.Search(ctx, "query")
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})

	t.Run("empty index is not found", func(t *testing.T) {
		repos := newRepos(t)
		stub := &stubProvider{model: "m", ready: true, vectors: map[string][]float32{"query": {1, 0}}}
		searcher, err := NewSearcher(repos.Embeddings, repos.Documents, stub)
		require.NoError(t, err)
		resp, err := searcher.Search(ctx, "query")
		require.NoError(t, err)
		assert.False(t, resp.Found)
	})
}
