package search

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/normalize"
)

// Keyword weights: a keyword found in the title counts much more than one
// found only in the body or excerpt.
const (
	TitleKeywordWeight   = 0.5
	ContentKeywordWeight = 0.1
)

// Ranker blends cosine similarity with keyword overlap into a hybrid score.
// It holds no mutable state and is safe for concurrent use.
type Ranker struct {
	semanticWeight float64
	keywordWeight  float64
}

// NewRanker creates a ranker with the given blend weights.
func NewRanker(semanticWeight, keywordWeight float64) *Ranker {
	return &Ranker{
		semanticWeight: semanticWeight,
		keywordWeight:  keywordWeight,
	}
}

// KeywordScore averages, over keywords, TitleKeywordWeight when the keyword
// occurs in the normalized title plus ContentKeywordWeight when it occurs in
// the normalized body and excerpt. No keywords scores 0.
func KeywordScore(keywords []string, doc *core.Document) float64 {
	if len(keywords) == 0 {
		return 0
	}

	title := normalize.Normalize(doc.Title)
	content := normalize.Normalize(doc.Body + " " + doc.Excerpt)

	var sum float64
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			sum += TitleKeywordWeight
		}
		if strings.Contains(content, kw) {
			sum += ContentKeywordWeight
		}
	}
	return sum / float64(len(keywords))
}

// Rank scores candidates against the query and returns at most topK results,
// best first. A topK of zero or less keeps every result.
//
// Ties are broken by approval time, newest first, then by candidate order.
// Candidates with a zero vector are skipped. A candidate whose vector length
// differs from the query's fails the whole ranking with core.ErrDimensionMismatch.
// A zero query vector gives every candidate a semantic score of 0.
func (r *Ranker) Rank(queryText string, queryVector []float32, candidates []*core.IndexedDocument, topK int) ([]*core.RankedResult, error) {
	keywords := normalize.ExtractKeywords(queryText)
	queryIsZero := IsZeroVector(queryVector)

	results := make([]*core.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.Record == nil || c.Document == nil {
			continue
		}
		if len(c.Record.Vector) != len(queryVector) {
			return nil, fmt.Errorf("%w: document %d has %d dimensions (model %s), query has %d; re-index with a single model",
				core.ErrDimensionMismatch, c.Record.DocumentId, len(c.Record.Vector), c.Record.ModelId, len(queryVector))
		}
		if IsZeroVector(c.Record.Vector) {
			continue
		}

		var semantic float64
		if !queryIsZero {
			var err error
			semantic, err = CosineSimilarity(queryVector, c.Record.Vector)
			if err != nil {
				return nil, err
			}
		}
		keyword := KeywordScore(keywords, c.Document)

		results = append(results, &core.RankedResult{
			Document:      c.Document,
			SemanticScore: semantic,
			KeywordScore:  keyword,
			HybridScore:   r.semanticWeight*semantic + r.keywordWeight*keyword,
		})
	}

	slices.SortStableFunc(results, compareResults)

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	for i, res := range results {
		res.Rank = i + 1
	}
	return results, nil
}

func compareResults(a, b *core.RankedResult) int {
	if a.HybridScore != b.HybridScore {
		if a.HybridScore > b.HybridScore {
			return -1
		}
		return 1
	}
	// Newest approval first
	return b.Document.ApprovedAt.Compare(a.Document.ApprovedAt)
}

// SimilarityPercent converts a hybrid score into a whole percentage in [0, 100].
func SimilarityPercent(score float64) int {
	pct := int(math.Round(score * 100))
	return max(0, min(100, pct))
}
