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
		provider.stores.MissingKBItemStore = NewMissingKBItemStore(provider)
	})
}

type MissingKBItemStore struct {
	CommonFields
}

func NewMissingKBItemStore(provider SqlProviderAchieve) *MissingKBItemStore {
	store := &MissingKBItemStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_MISSING_KB_ITEM)
	store.SetAllColumns("id", "user_id", "question", "missing_detail", "ai_response_preview", "suggested_namespace", "is_resolved", "resolved_at", "resolved_by_kb_id", "created_at")
	return store
}

func (s *MissingKBItemStore) Create(ctx context.Context, data types.MissingKBItem) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if preview := []rune(data.AIResponsePreview); len(preview) > types.AIResponsePreviewLen {
		data.AIResponsePreview = string(preview[:types.AIResponsePreviewLen])
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.UserID, data.Question, data.MissingDetail, data.AIResponsePreview, data.SuggestedNamespace, data.IsResolved, data.ResolvedAt, data.ResolvedByKBID, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *MissingKBItemStore) Get(ctx context.Context, id string) (*types.MissingKBItem, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.MissingKBItem
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *MissingKBItemStore) List(ctx context.Context, opts types.ListMissingKBItemsOptions, page, pageSize uint64) ([]types.MissingKBItem, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Limit(pageSize).Offset((page - 1) * pageSize).OrderBy("created_at DESC")
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.MissingKBItem
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *MissingKBItemStore) Total(ctx context.Context, opts types.ListMissingKBItemsOptions) (int64, error) {
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

func (s *MissingKBItemStore) Resolve(ctx context.Context, id, resolvedByKBID string) error {
	query := sq.Update(s.GetTable()).
		Set("is_resolved", true).
		Set("resolved_at", time.Now().Unix()).
		Set("resolved_by_kb_id", resolvedByKBID).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *MissingKBItemStore) NamespaceCounts(ctx context.Context, unresolvedOnly bool) ([]types.NamespaceCount, error) {
	query := sq.Select("suggested_namespace as namespace", "COUNT(*) as count").
		From(s.GetTable()).
		GroupBy("suggested_namespace").
		OrderBy("count DESC")
	if unresolvedOnly {
		query = query.Where(sq.Eq{"is_resolved": false})
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.NamespaceCount
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
