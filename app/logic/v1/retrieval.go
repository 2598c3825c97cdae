package v1

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/taysluxe/tayai/app/core"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/i18n"
	"github.com/taysluxe/tayai/pkg/types"
)

const contextSeparator = "\n\n---\n\n"

type RetrievalLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewRetrievalLogic(ctx context.Context, core *core.Core) *RetrievalLogic {
	return &RetrievalLogic{
		ctx:  ctx,
		core: core,
	}
}

// BuildContext embeds the question and pulls the best chunks above the score
// threshold. An empty bundle is a normal outcome, not an error.
func (l *RetrievalLogic) BuildContext(question, namespace string) (types.ContextBundle, error) {
	timer := l.core.Metrics().RetrieveTimer(namespace)
	defer timer.ObserveDuration()

	embedded, err := l.core.AI().EmbeddingForQuery(l.ctx, []string{question})
	if err != nil {
		return types.ContextBundle{}, errors.New("RetrievalLogic.BuildContext.EmbeddingForQuery", i18n.ERROR_INTERNAL, err)
	}
	if len(embedded.Data) == 0 {
		return types.ContextBundle{}, errors.New("RetrievalLogic.BuildContext.EmbeddingForQuery.empty", i18n.ERROR_INTERNAL, nil)
	}

	matches, err := l.core.Store().VectorStore().Query(l.ctx, types.GetVectorsOptions{
		Namespace: namespace,
	}, pgvector.NewVector(embedded.Data[0]), l.core.ScoreThreshold(), l.core.TopK())
	if err != nil {
		return types.ContextBundle{}, errors.New("RetrievalLogic.BuildContext.VectorStore.Query", i18n.ERROR_INTERNAL, err)
	}

	return BuildContextBundle(matches), nil
}

// BuildContextBundle formats matches into the prompt context block and the
// user-facing source list.
func BuildContextBundle(matches []types.RetrievalMatch) types.ContextBundle {
	if len(matches) == 0 {
		return types.ContextBundle{}
	}

	var (
		blocks  []string
		sources []types.Source
		sum     float64
	)
	for _, m := range matches {
		// untitled chunks go in bare, without a header line
		block := m.Content
		if m.Metadata.Title != "" {
			block = fmt.Sprintf("**%s** (%s)\n%s", m.Metadata.Title, m.Metadata.Category, m.Content)
		}
		blocks = append(blocks, block)

		score := roundScore(m.Similarity)
		sum += score
		sources = append(sources, types.Source{
			Title:    m.Metadata.Title,
			Category: m.Metadata.Category,
			Score:    score,
			ChunkID:  m.ID,
		})
	}

	return types.ContextBundle{
		ContextText:  strings.Join(blocks, contextSeparator),
		Sources:      sources,
		MatchCount:   len(matches),
		AverageScore: roundScore(sum / float64(len(matches))),
		Matches:      matches,
	}
}

func roundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}
