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
		provider.stores.AccessTokenStore = NewAccessTokenStore(provider)
	})
}

type AccessTokenStore struct {
	CommonFields
}

func NewAccessTokenStore(provider SqlProviderAchieve) *AccessTokenStore {
	store := &AccessTokenStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_ACCESS_TOKEN)
	store.SetAllColumns("id", "user_id", "token", "expires_at", "created_at")
	return store
}

func (s *AccessTokenStore) Create(ctx context.Context, data types.AccessToken) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.UserID, data.Token, data.ExpiresAt, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *AccessTokenStore) GetAccessToken(ctx context.Context, token string) (*types.AccessToken, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"token": token})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.AccessToken
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *AccessTokenStore) Delete(ctx context.Context, userID string, id int64) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"user_id": userID, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// DeleteExpired ignores permanent tokens (expires_at = 0).
func (s *AccessTokenStore) DeleteExpired(ctx context.Context, before int64) error {
	query := sq.Delete(s.GetTable()).Where(sq.Gt{"expires_at": 0}).Where(sq.Lt{"expires_at": before})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *AccessTokenStore) ClearUserTokens(ctx context.Context, userID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"user_id": userID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
