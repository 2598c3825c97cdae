package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/taysluxe/tayai/pkg/register"
	"github.com/taysluxe/tayai/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.QuestionLogStore = NewQuestionLogStore(provider)
	})
}

type QuestionLogStore struct {
	CommonFields
}

func NewQuestionLogStore(provider SqlProviderAchieve) *QuestionLogStore {
	store := &QuestionLogStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_QUESTION_LOG)
	store.SetAllColumns("id", "user_id", "question", "normalized_question", "context_type", "category", "user_tier", "tokens_used", "has_sources", "metadata", "created_at")
	return store
}

func (s *QuestionLogStore) Create(ctx context.Context, data types.QuestionLog) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.UserID, data.Question, data.NormalizedQuestion, data.ContextType, data.Category, data.UserTier, data.TokensUsed, data.HasSources, data.Metadata, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *QuestionLogStore) List(ctx context.Context, opts types.ListQuestionLogsOptions, page, pageSize uint64) ([]types.QuestionLog, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Limit(pageSize).Offset((page - 1) * pageSize).OrderBy("created_at DESC")
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.QuestionLog
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *QuestionLogStore) Total(ctx context.Context, opts types.ListQuestionLogsOptions) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var total int64
	if err = s.GetReplica(ctx).Get(&total, queryString, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *QuestionLogStore) TopQuestions(ctx context.Context, since time.Time, limit uint64) ([]types.QuestionInsight, error) {
	query := sq.Select("normalized_question", "COUNT(*) as times", "MAX(created_at) as last_asked_at").
		From(s.GetTable()).
		Where(sq.GtOrEq{"created_at": since.Unix()}).
		Where(sq.NotEq{"normalized_question": ""}).
		GroupBy("normalized_question").
		OrderBy("times DESC", "last_asked_at DESC").
		Limit(limit)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.QuestionInsight
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *QuestionLogStore) CategoryCounts(ctx context.Context, since time.Time) (map[string]int64, error) {
	query := sq.Select("category", "COUNT(*) as count").
		From(s.GetTable()).
		Where(sq.GtOrEq{"created_at": since.Unix()}).
		GroupBy("category")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	rows, err := s.GetReplica(ctx).Queryx(queryString, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]int64)
	for rows.Next() {
		var (
			category string
			count    int64
		)
		if err = rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		res[category] = count
	}
	return res, rows.Err()
}
