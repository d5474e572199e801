package hybrid

import "sort"

const rrfK = 60.0

// Fuse combines two ranked id lists using weighted reciprocal rank fusion:
// score(id) = alpha/(k+rank_vec) + (1-alpha)/(k+rank_lex). Ids present in
// only one leg still contribute through that leg's term.
func Fuse(vecRanked, lexRanked []string, alpha float64) []Hit {
	scores := make(map[string]float64)

	for rank, id := range vecRanked {
		scores[id] += alpha / (rrfK + float64(rank+1))
	}
	for rank, id := range lexRanked {
		scores[id] += (1 - alpha) / (rrfK + float64(rank+1))
	}

	hits := make([]Hit, 0, len(scores))
	for id, score := range scores {
		hits = append(hits, Hit{PairID: id, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].PairID < hits[j].PairID
	})
	return hits
}
