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
		provider.stores.KnowledgeStore = NewKnowledgeStore(provider)
	})
}

type KnowledgeStore struct {
	CommonFields
}

func NewKnowledgeStore(provider SqlProviderAchieve) *KnowledgeStore {
	store := &KnowledgeStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_KNOWLEDGE_BASE)
	store.SetAllColumns("id", "title", "content", "category", "namespace", "vector_id", "is_active", "created_at", "updated_at")
	return store
}

func (s *KnowledgeStore) Create(ctx context.Context, data types.KnowledgeBase) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.Title, data.Content, data.Category, data.Namespace, data.VectorID, data.IsActive, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *KnowledgeStore) GetKnowledge(ctx context.Context, id string) (*types.KnowledgeBase, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.KnowledgeBase
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *KnowledgeStore) Update(ctx context.Context, id string, data types.KnowledgeBase) error {
	query := sq.Update(s.GetTable()).
		Set("updated_at", time.Now().Unix()).
		Set("is_active", data.IsActive).
		Where(sq.Eq{"id": id})

	if data.Title != "" {
		query = query.Set("title", data.Title)
	}
	if data.Content != "" {
		query = query.Set("content", data.Content)
	}
	if data.Category != "" {
		query = query.Set("category", data.Category)
	}
	if data.Namespace != "" {
		query = query.Set("namespace", data.Namespace)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *KnowledgeStore) SetVectorID(ctx context.Context, id, vectorID string) error {
	query := sq.Update(s.GetTable()).
		Set("vector_id", vectorID).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *KnowledgeStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *KnowledgeStore) ListKnowledges(ctx context.Context, opts types.ListKnowledgeOptions, page, pageSize uint64) ([]types.KnowledgeBase, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Limit(pageSize).Offset((page - 1) * pageSize).OrderBy("created_at DESC")
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.KnowledgeBase
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *KnowledgeStore) Total(ctx context.Context, opts types.ListKnowledgeOptions) (int64, error) {
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
