package classify

import (
	"context"
	"fmt"
	"math"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/ingest/registry"
	"github.com/WessleyAI/wessley-support-rag/modelclient"
)

// minCategoryConfidence is the cosine-similarity floor below which a chunk
// is routed to the "uncategorized" bucket instead of an existing category.
const minCategoryConfidence = 0.45

const uncategorized = "uncategorized"

// Result is the classification outcome for one chunk.
type Result struct {
	Category   string
	Intent     string
	Confidence float64
	Handoff    bool
	Embedding  []float32
}

// Classifier assigns a category and intent to newly embedded chunks by
// nearest-centroid lookup against the currently published taxonomy, falling
// back to bilingual keyword and LLM-based handoff detection when no
// confident match exists.
type Classifier struct {
	embed  modelclient.EmbedClient
	chat   modelclient.ChatClient
	holder *registry.Holder
}

// NewClassifier builds a Classifier reading the taxonomy from holder.
func NewClassifier(embed modelclient.EmbedClient, chat modelclient.ChatClient, holder *registry.Holder) *Classifier {
	return &Classifier{embed: embed, chat: chat, holder: holder}
}

// Classify embeds question and assigns it category/intent labels. The
// embedding is returned alongside the result so staging can persist it
// without a second model call.
func (c *Classifier) Classify(ctx context.Context, question string) (Result, error) {
	embedding, err := c.embed.Embed(ctx, question)
	if err != nil {
		return Result{}, fmt.Errorf("classify: embed question: %w", err)
	}

	reg := c.holder.Load()
	category, catConfidence := nearestCategory(reg, embedding)

	handoff, err := c.detectHandoff(ctx, question, catConfidence)
	if err != nil {
		return Result{}, fmt.Errorf("classify: detect handoff: %w", err)
	}
	if handoff {
		return Result{Category: category, Intent: "handoff", Confidence: catConfidence, Handoff: true, Embedding: embedding}, nil
	}

	if category == uncategorized {
		return Result{Category: uncategorized, Intent: uncategorized, Confidence: catConfidence, Embedding: embedding}, nil
	}

	intent, intentConfidence := nearestIntent(reg, category, embedding)
	return Result{Category: category, Intent: intent, Confidence: intentConfidence, Embedding: embedding}, nil
}

// nearestCategory compares embedding against every category's intent
// exemplars and returns the category owning the closest one.
func nearestCategory(reg *registry.Registry, embedding []float32) (string, float64) {
	best, bestScore := uncategorized, -1.0
	for _, cat := range reg.Categories() {
		for _, intent := range cat.Intents {
			score := cosine(embedding, intent.Exemplar)
			if score > bestScore {
				best, bestScore = cat.Name, score
			}
		}
	}
	if bestScore < minCategoryConfidence {
		return uncategorized, bestScore
	}
	return best, bestScore
}

// nearestIntent compares embedding against a single category's intent
// exemplars.
func nearestIntent(reg *registry.Registry, category string, embedding []float32) (string, float64) {
	cat, ok := reg.Category(category)
	if !ok {
		return uncategorized, 0
	}
	best, bestScore := uncategorized, -1.0
	for _, intent := range cat.Intents {
		score := cosine(embedding, intent.Exemplar)
		if score > bestScore {
			best, bestScore = intent.Name, score
		}
	}
	return best, bestScore
}

// BuildExemplars re-derives intent exemplars for a category by k-means over
// its examples' embeddings into k clusters named intent_1..intent_k, and
// assigns each example to its resulting cluster.
func BuildExemplars(examples []domain.IntentExample, k int) []domain.IntentDef {
	if len(examples) == 0 || k <= 0 {
		return nil
	}
	vectors := make([][]float32, len(examples))
	for i, ex := range examples {
		vectors[i] = ex.Embedding
	}

	assignments, centroids := Cluster(vectors, k, 42)
	defs := make([]domain.IntentDef, len(centroids))
	for i, centroid := range centroids {
		defs[i] = domain.IntentDef{
			Name:     fmt.Sprintf("intent_%d", i+1),
			Exemplar: centroid,
		}
	}
	for i, cluster := range assignments {
		defs[cluster].Examples = append(defs[cluster].Examples, examples[i])
	}
	return defs
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := 0; i < len(a) && i < len(b); i++ {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
