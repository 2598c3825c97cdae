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
		provider.stores.ChatMessageStore = NewChatMessageStore(provider)
	})
}

// ChatMessageStore keeps one row per exchange: the user message and the
// assistant response together.
type ChatMessageStore struct {
	CommonFields
}

func NewChatMessageStore(provider SqlProviderAchieve) *ChatMessageStore {
	store := &ChatMessageStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_CHAT_MESSAGE)
	store.SetAllColumns("id", "user_id", "message", "response", "tokens_used", "created_at")
	return store
}

func (s *ChatMessageStore) Create(ctx context.Context, data types.ChatMessage) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.UserID, data.Message, data.Response, data.TokensUsed, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ChatMessageStore) GetOne(ctx context.Context, id string) (*types.ChatMessage, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.ChatMessage
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *ChatMessageStore) ListUserMessages(ctx context.Context, opts types.ListChatMessagesOptions, page, pageSize uint64) ([]types.ChatMessage, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Limit(pageSize).Offset((page - 1) * pageSize).OrderBy("created_at DESC")
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.ChatMessage
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ChatMessageStore) Total(ctx context.Context, opts types.ListChatMessagesOptions) (int64, error) {
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

func (s *ChatMessageStore) DeleteUserMessages(ctx context.Context, userID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"user_id": userID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
