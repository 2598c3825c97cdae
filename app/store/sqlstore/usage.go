package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/taysluxe/tayai/pkg/register"
	"github.com/taysluxe/tayai/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.UsageStore = NewUsageStore(provider)
	})
}

// UsageStore is the durable counter; the redis counter is only a fast path.
type UsageStore struct {
	CommonFields
}

func NewUsageStore(provider SqlProviderAchieve) *UsageStore {
	store := &UsageStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_USAGE_TRACKING)
	store.SetAllColumns("user_id", "period_start", "period_end", "messages_count", "tokens_used", "api_cost")
	return store
}

func (s *UsageStore) Increment(ctx context.Context, userID string, periodStart, periodEnd int64, messages, tokens, cost int64) error {
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(userID, periodStart, periodEnd, messages, tokens, cost).
		Suffix("ON CONFLICT (user_id, period_start) DO UPDATE SET messages_count = " + s.GetTable() + ".messages_count + EXCLUDED.messages_count, tokens_used = " + s.GetTable() + ".tokens_used + EXCLUDED.tokens_used, api_cost = " + s.GetTable() + ".api_cost + EXCLUDED.api_cost")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *UsageStore) GetPeriod(ctx context.Context, userID string, periodStart int64) (*types.UsageRecord, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"user_id": userID, "period_start": periodStart})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.UsageRecord
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *UsageStore) ListUserPeriods(ctx context.Context, userID string, page, pageSize uint64) ([]types.UsageRecord, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("period_start DESC").
		Limit(pageSize).Offset((page - 1) * pageSize)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.UsageRecord
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
