package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/taysluxe/tayai/app/core"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/i18n"
	"github.com/taysluxe/tayai/pkg/types"
)

// InsightsLogic answers "what are members actually asking" from the question
// log, for admins steering knowledge-base investment.
type InsightsLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewInsightsLogic(ctx context.Context, core *core.Core) *InsightsLogic {
	return &InsightsLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *InsightsLogic) requireAdmin() error {
	if !l.GetUserInfo().User.IsAdmin {
		return errors.New("InsightsLogic.requireAdmin", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}
	return nil
}

const (
	DefaultInsightDays  = 30
	DefaultInsightLimit = 20
)

func sinceFromDays(days int) time.Time {
	if days <= 0 {
		days = DefaultInsightDays
	}
	return time.Now().AddDate(0, 0, -days)
}

// TopQuestions lists the most asked questions of the window, grouped by
// normalized form.
func (l *InsightsLogic) TopQuestions(days int, limit uint64) ([]types.QuestionInsight, error) {
	if err := l.requireAdmin(); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultInsightLimit
	}

	list, err := l.core.Store().QuestionLogStore().TopQuestions(l.ctx, sinceFromDays(days), limit)
	if err != nil {
		return nil, errors.New("InsightsLogic.TopQuestions.QuestionLogStore.TopQuestions", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

// CategoryCounts breaks the window's questions down by analytics category.
func (l *InsightsLogic) CategoryCounts(days int) (map[string]int64, error) {
	if err := l.requireAdmin(); err != nil {
		return nil, err
	}

	counts, err := l.core.Store().QuestionLogStore().CategoryCounts(l.ctx, sinceFromDays(days))
	if err != nil {
		return nil, errors.New("InsightsLogic.CategoryCounts.QuestionLogStore.CategoryCounts", i18n.ERROR_INTERNAL, err)
	}
	return counts, nil
}

// NamespaceCoverage pairs what the index holds per namespace with how many
// unresolved gaps point there.
type NamespaceCoverage struct {
	Namespace      string `json:"namespace"`
	Vectors        int64  `json:"vectors"`
	UnresolvedGaps int64  `json:"unresolved_gaps"`
}

// Coverage shows where the knowledge base is thin: namespaces with many
// unresolved gaps and few vectors are the ones worth writing for next.
func (l *InsightsLogic) Coverage() ([]NamespaceCoverage, error) {
	if err := l.requireAdmin(); err != nil {
		return nil, err
	}

	vectors, err := l.core.Store().VectorStore().NamespaceCounts(l.ctx)
	if err != nil {
		return nil, errors.New("InsightsLogic.Coverage.VectorStore.NamespaceCounts", i18n.ERROR_INTERNAL, err)
	}

	gaps, err := l.core.Store().MissingKBItemStore().NamespaceCounts(l.ctx, true)
	if err != nil {
		return nil, errors.New("InsightsLogic.Coverage.MissingKBItemStore.NamespaceCounts", i18n.ERROR_INTERNAL, err)
	}

	byNamespace := make(map[string]*NamespaceCoverage)
	ordered := make([]string, 0, len(vectors)+len(gaps))
	entry := func(namespace string) *NamespaceCoverage {
		if c, ok := byNamespace[namespace]; ok {
			return c
		}
		c := &NamespaceCoverage{Namespace: namespace}
		byNamespace[namespace] = c
		ordered = append(ordered, namespace)
		return c
	}

	for _, v := range vectors {
		entry(v.Namespace).Vectors = v.Count
	}
	for _, g := range gaps {
		entry(g.Namespace).UnresolvedGaps = g.Count
	}

	result := make([]NamespaceCoverage, 0, len(ordered))
	for _, namespace := range ordered {
		result = append(result, *byNamespace[namespace])
	}
	return result, nil
}
