package multihop

import "strings"

// Context is one pair's contribution to the merged answer context, ranked
// by relevance descending, with the primary pair always at index 0.
type Context struct {
	PairID    string
	Question  string
	Answer    string
	Relevance float64
	IsPrimary bool
}

// Merge packs contexts into a token budget, never truncating the primary
// pair and dropping lowest-relevance hops first when the budget is tight.
func Merge(contexts []Context, tokenBudget int) []Context {
	if tokenBudget <= 0 || len(contexts) == 0 {
		return contexts
	}

	var primary *Context
	hops := make([]Context, 0, len(contexts))
	for i := range contexts {
		if contexts[i].IsPrimary {
			c := contexts[i]
			primary = &c
			continue
		}
		hops = append(hops, contexts[i])
	}

	sortByRelevanceDesc(hops)

	var out []Context
	budget := tokenBudget
	if primary != nil {
		out = append(out, *primary)
		budget -= tokenCount(primary.Question) + tokenCount(primary.Answer)
	}

	for _, h := range hops {
		cost := tokenCount(h.Question) + tokenCount(h.Answer)
		if cost > budget {
			continue
		}
		out = append(out, h)
		budget -= cost
	}

	return out
}

func tokenCount(s string) int {
	return len(strings.Fields(s))
}

func sortByRelevanceDesc(c []Context) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j-1].Relevance < c[j].Relevance; j-- {
			c[j-1], c[j] = c[j], c[j-1]
		}
	}
}
