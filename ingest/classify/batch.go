package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/ingest/registry"
	"github.com/WessleyAI/wessley-support-rag/modelclient"
)

// Defaults for the two-level clustering pass, overridable per draft.
const (
	DefaultCategories         = 15
	DefaultIntentsPerCategory = 3
)

// minLabelMatchConfidence is the cosine-similarity floor above which a
// freshly discovered cluster is folded into an existing registry category
// or intent name instead of being named by the LLM.
const minLabelMatchConfidence = 0.6

// BatchConfig controls the two-level clustering pass over a draft's
// candidate questions.
type BatchConfig struct {
	Categories         int
	IntentsPerCategory int
}

// ChunkClassification is the per-question outcome of a batch classification
// run, keyed by the question's position in the input slice.
type ChunkClassification struct {
	Category           string
	CategoryConfidence float64
	Intent             string
	IntentConfidence   float64
	Handoff            bool
	Embedding          []float32
}

// ClassifyBatch embeds every question, clusters them into categories and
// then intents within each category, names clusters against the existing
// registry where a confident match exists and via one-shot LLM naming
// otherwise, and runs handoff detection per question.
func (c *Classifier) ClassifyBatch(ctx context.Context, questions []string, cfg BatchConfig) ([]ChunkClassification, error) {
	if cfg.Categories <= 0 {
		cfg.Categories = DefaultCategories
	}
	if cfg.IntentsPerCategory <= 0 {
		cfg.IntentsPerCategory = DefaultIntentsPerCategory
	}
	if len(questions) == 0 {
		return nil, nil
	}

	embeddings, err := c.embed.EmbedBatch(ctx, questions)
	if err != nil {
		return nil, fmt.Errorf("classify: embed batch: %w", err)
	}

	reg := c.holder.Load()
	catAssign, catCentroids := Cluster(embeddings, cfg.Categories, 7)
	catNames := make([]string, len(catCentroids))
	catConfidence := make([]float64, len(catCentroids))
	for i, centroid := range catCentroids {
		catNames[i], catConfidence[i], err = c.labelCluster(ctx, centroid, exemplarQuestions(questions, catAssign, i), registryCategoryNames(reg))
		if err != nil {
			return nil, fmt.Errorf("classify: label category cluster %d: %w", i, err)
		}
	}

	results := make([]ChunkClassification, len(questions))
	for catIdx := range catCentroids {
		memberIdx := membersOf(catAssign, catIdx)
		if len(memberIdx) == 0 {
			continue
		}
		intentVectors := make([][]float32, len(memberIdx))
		for j, qi := range memberIdx {
			intentVectors[j] = embeddings[qi]
		}

		intentAssign, intentCentroids := Cluster(intentVectors, cfg.IntentsPerCategory, 11)
		intentNames := make([]string, len(intentCentroids))
		intentConfidence := make([]float64, len(intentCentroids))
		existingIntents := registryIntentNames(reg, catNames[catIdx])
		for j, centroid := range intentCentroids {
			localQuestions := make([]string, len(memberIdx))
			for k, qi := range memberIdx {
				localQuestions[k] = questions[qi]
			}
			intentNames[j], intentConfidence[j], err = c.labelCluster(ctx, centroid, exemplarQuestions(localQuestions, intentAssign, j), existingIntents)
			if err != nil {
				return nil, fmt.Errorf("classify: label intent cluster %d/%d: %w", catIdx, j, err)
			}
		}

		for j, qi := range memberIdx {
			handoff, herr := c.detectHandoff(ctx, questions[qi], catConfidence[catIdx])
			if herr != nil {
				return nil, fmt.Errorf("classify: detect handoff for question %d: %w", qi, herr)
			}
			intentIdx := intentAssign[j]
			results[qi] = ChunkClassification{
				Category:           catNames[catIdx],
				CategoryConfidence: catConfidence[catIdx],
				Intent:             intentNames[intentIdx],
				IntentConfidence:   intentConfidence[intentIdx],
				Handoff:            handoff,
				Embedding:          embeddings[qi],
			}
		}
	}
	return results, nil
}

// labelCluster names a cluster centroid: the existing registry name whose
// exemplar is closest by cosine similarity first (if it reaches
// minLabelMatchConfidence), then an LLM one-shot prompt over the cluster's
// exemplar questions.
func (c *Classifier) labelCluster(ctx context.Context, centroid []float32, exemplars []string, existing map[string][]float32) (string, float64, error) {
	bestName, bestScore := "", -1.0
	for name, exemplar := range existing {
		score := cosine(centroid, exemplar)
		if score > bestScore {
			bestName, bestScore = name, score
		}
	}
	if bestScore >= minLabelMatchConfidence {
		return bestName, bestScore, nil
	}

	name, err := c.nameClusterWithLLM(ctx, exemplars)
	if err != nil {
		return "", 0, err
	}
	return name, bestScore, nil
}

const namingSystemPrompt = `You label a cluster of similar support questions with a short lowercase_snake_case topic name of 1-3 words. Reply with only the name, nothing else.`

func (c *Classifier) nameClusterWithLLM(ctx context.Context, exemplars []string) (string, error) {
	if c.chat == nil || len(exemplars) == 0 {
		return uncategorized, nil
	}
	resp, err := c.chat.Chat(ctx, modelclient.ChatRequest{
		System:      namingSystemPrompt,
		Messages:    []modelclient.ChatMessage{{Role: "user", Content: strings.Join(exemplars, "\n")}},
		MaxTokens:   16,
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(strings.ToLower(resp.Text))
	if name == "" {
		return uncategorized, nil
	}
	return name, nil
}

func membersOf(assignments []int, cluster int) []int {
	var out []int
	for i, c := range assignments {
		if c == cluster {
			out = append(out, i)
		}
	}
	return out
}

// exemplarQuestions returns up to 5 questions assigned to cluster, used to
// seed the LLM naming prompt.
func exemplarQuestions(questions []string, assignments []int, cluster int) []string {
	var out []string
	for i, c := range assignments {
		if c != cluster {
			continue
		}
		out = append(out, questions[i])
		if len(out) >= 5 {
			break
		}
	}
	return out
}

// registryCategoryNames maps each known category name to a representative
// exemplar: the mean of its intents' exemplars.
func registryCategoryNames(reg *registry.Registry) map[string][]float32 {
	out := make(map[string][]float32)
	for _, cat := range reg.Categories() {
		if len(cat.Intents) == 0 {
			continue
		}
		out[cat.Name] = meanVector(cat.Intents)
	}
	return out
}

// registryIntentNames maps each known intent name within category to its
// exemplar embedding.
func registryIntentNames(reg *registry.Registry, category string) map[string][]float32 {
	cat, ok := reg.Category(category)
	if !ok {
		return nil
	}
	out := make(map[string][]float32, len(cat.Intents))
	for _, intent := range cat.Intents {
		out[intent.Name] = intent.Exemplar
	}
	return out
}

func meanVector(intents []domain.IntentDef) []float32 {
	var dims int
	for _, in := range intents {
		if len(in.Exemplar) > dims {
			dims = len(in.Exemplar)
		}
	}
	if dims == 0 {
		return nil
	}
	sums := make([]float64, dims)
	for _, in := range intents {
		for i, v := range in.Exemplar {
			sums[i] += float64(v)
		}
	}
	mean := make([]float32, dims)
	for i, s := range sums {
		mean[i] = float32(s / float64(len(intents)))
	}
	return mean
}
