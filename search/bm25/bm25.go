// Package bm25 implements the lexical leg of hybrid search: an in-process
// Okapi BM25 index over the committed QAPair corpus.
package bm25

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	k1 = 1.2
	b  = 0.75
)

// tokenize lowercases and splits on runs of runes that are neither letters
// nor digits.
func tokenize(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// Doc is one document indexed for lexical search.
type Doc struct {
	ID   string
	Text string
}

// Result is one lexical hit with its BM25 score.
type Result struct {
	ID    string
	Score float64
}

// Index is a static, rebuildable BM25 index. Callers rebuild it whenever the
// committed corpus changes; it is not incrementally updated.
type Index struct {
	docIDs    []string
	docFreq   map[string]int // term -> number of docs containing it
	postings  map[string]map[string]int // term -> docID -> term frequency
	docLen    map[string]int
	avgDocLen float64
	n         int
}

// Build indexes a snapshot of documents.
func Build(docs []Doc) *Index {
	idx := &Index{
		docFreq:  make(map[string]int),
		postings: make(map[string]map[string]int),
		docLen:   make(map[string]int),
	}

	var totalLen int
	for _, d := range docs {
		terms := tokenize(d.Text)
		idx.docIDs = append(idx.docIDs, d.ID)
		idx.docLen[d.ID] = len(terms)
		totalLen += len(terms)

		tf := make(map[string]int)
		for _, t := range terms {
			tf[t]++
		}
		for t, count := range tf {
			if idx.postings[t] == nil {
				idx.postings[t] = make(map[string]int)
			}
			idx.postings[t][d.ID] = count
			idx.docFreq[t]++
		}
	}

	idx.n = len(docs)
	if idx.n > 0 {
		idx.avgDocLen = float64(totalLen) / float64(idx.n)
	}
	return idx
}

// Search returns the topK documents ranked by BM25 score against the query.
func (idx *Index) Search(query string, topK int) []Result {
	if idx.n == 0 {
		return nil
	}
	terms := tokenize(query)
	scores := make(map[string]float64)

	for _, t := range terms {
		postings, ok := idx.postings[t]
		if !ok {
			continue
		}
		df := idx.docFreq[t]
		idf := math.Log(1 + (float64(idx.n)-float64(df)+0.5)/(float64(df)+0.5))

		for docID, tf := range postings {
			dl := float64(idx.docLen[docID])
			denom := float64(tf) + k1*(1-b+b*dl/idx.avgDocLen)
			scores[docID] += idf * (float64(tf) * (k1 + 1) / denom)
		}
	}

	results := make([]Result, 0, len(scores))
	for id, score := range scores {
		results = append(results, Result{ID: id, Score: score})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
