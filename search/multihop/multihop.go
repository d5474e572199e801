// Package multihop scores query complexity and expands retrieval across
// "see also" edges in the taxonomy graph when a single pair's context is
// insufficient to ground an answer.
package multihop

import (
	"context"
	"strings"

	"github.com/WessleyAI/wessley-support-rag/store/graph"
)

// connectors and conjunctions are bilingual word lists used to score
// question complexity; English and Spanish defaults match the handoff
// detector's bilingual precedent.
var connectors = map[string]bool{
	"and": true, "then": true, "also": true, "but": true,
	"y": true, "tambien": true, "pero": true, "entonces": true,
}

var conjunctionMarkers = map[string]bool{
	"after": true, "before": true, "because": true, "so": true,
	"despues": true, "antes": true, "porque": true, "entonces": true,
}

// Score estimates query complexity from token count and connector/
// conjunction density. Higher scores indicate the query likely needs more
// than one retrieved pair to answer completely.
func Score(question string) float64 {
	tokens := strings.Fields(strings.ToLower(question))
	if len(tokens) == 0 {
		return 0
	}

	var signals int
	for _, t := range tokens {
		t = strings.Trim(t, ".,!?;:")
		if connectors[t] || conjunctionMarkers[t] {
			signals++
		}
	}

	lengthFactor := float64(len(tokens)) / 20.0
	if lengthFactor > 1 {
		lengthFactor = 1
	}
	signalFactor := float64(signals) / 3.0
	if signalFactor > 1 {
		signalFactor = 1
	}

	return 0.5*lengthFactor + 0.5*signalFactor
}

// Hop is one expansion step's result.
type Hop struct {
	PairID   string
	Category string
}

// Expand walks "see also" edges from the primary pair up to maxHops deep
// and returns the pair nodes it reaches, used when Score exceeds the
// configured multi-hop threshold.
func Expand(ctx context.Context, store graph.Store, primaryPairID string, maxHops int) ([]Hop, error) {
	nodes, err := store.Neighbors(ctx, primaryPairID, maxHops)
	if err != nil {
		return nil, err
	}
	hops := make([]Hop, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind != "pair" {
			continue
		}
		hops = append(hops, Hop{PairID: n.ID, Category: n.Category})
	}
	return hops, nil
}
