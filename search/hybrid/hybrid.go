// Package hybrid fuses the vector and lexical search legs with reciprocal
// rank fusion, running both legs concurrently.
package hybrid

import (
	"context"

	"github.com/WessleyAI/wessley-support-rag/search/bm25"
	"github.com/WessleyAI/wessley-support-rag/store/vector"
	"golang.org/x/sync/errgroup"
)

// Hit is one fused search result.
type Hit struct {
	PairID string
	Score  float64
}

// Service runs the vector and lexical legs and fuses their rankings.
type Service struct {
	vectorStore vector.Store
	lexical     *bm25.Index
	alpha       float64 // fusion weight toward the vector leg, in [0,1]
}

// New creates a hybrid search Service. alpha weights the vector leg's rank
// contribution against the lexical leg's; 0.5 weighs them evenly.
func New(vectorStore vector.Store, lexical *bm25.Index, alpha float64) *Service {
	if alpha <= 0 {
		alpha = 0.5
	}
	return &Service{vectorStore: vectorStore, lexical: lexical, alpha: alpha}
}

// pairKind scopes the vector leg to QA-pair embeddings, since the cache's
// semantic lookup tags its own entries in the same collection with
// kind=cache.
const pairKind = "pair"

// Search runs vector and lexical search concurrently and fuses the results,
// with no category restriction on the vector leg.
func (s *Service) Search(ctx context.Context, embedding []float32, queryText string, topK int) ([]Hit, error) {
	return s.SearchFiltered(ctx, embedding, queryText, topK, "")
}

// SearchFiltered behaves like Search but additionally scopes the vector leg
// to category, when non-empty. If the filtered search comes back empty —
// a freshly added category with nothing indexed yet, or a misclassified
// query — it retries once without the category filter so retrieval never
// starves on a bad classification.
func (s *Service) SearchFiltered(ctx context.Context, embedding []float32, queryText string, topK int, category string) ([]Hit, error) {
	var vecResults []vector.Result
	var lexResults []bm25.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		filters := map[string]string{"kind": pairKind}
		if category != "" && category != "uncategorized" {
			filters["category"] = category
		}
		results, err := s.vectorStore.SearchFiltered(gctx, embedding, topK*2, filters)
		if err != nil {
			return err
		}
		if len(results) == 0 && filters["category"] != "" {
			results, err = s.vectorStore.SearchFiltered(gctx, embedding, topK*2, map[string]string{"kind": pairKind})
			if err != nil {
				return err
			}
		}
		vecResults = results
		return nil
	})
	g.Go(func() error {
		lexResults = s.lexical.Search(queryText, topK*2)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	vecRanked := make([]string, len(vecResults))
	for i, r := range vecResults {
		vecRanked[i] = r.PairID
	}
	lexRanked := make([]string, len(lexResults))
	for i, r := range lexResults {
		lexRanked[i] = r.ID
	}

	fused := Fuse(vecRanked, lexRanked, s.alpha)
	if topK > 0 && len(fused) > topK {
		fused = fused[:topK]
	}
	return fused, nil
}
