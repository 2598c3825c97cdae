package store

import (
	"context"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/taysluxe/tayai/pkg/sqlstore"
	"github.com/taysluxe/tayai/pkg/types"
)

type VectorStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Vector) error
	BatchCreate(ctx context.Context, datas []types.Vector) error
	GetVector(ctx context.Context, id string) (*types.Vector, error)
	Update(ctx context.Context, id string, vector pgvector.Vector, content string) error
	Delete(ctx context.Context, id string) error
	// DeleteByParent removes every chunk of a document, the unsplit row included.
	DeleteByParent(ctx context.Context, parentID string) error
	DeleteByNamespace(ctx context.Context, namespace string) error
	ListVectors(ctx context.Context, opts types.GetVectorsOptions, page, pageSize uint64) ([]types.Vector, error)
	// Query returns matches at or above threshold, best first.
	Query(ctx context.Context, opts types.GetVectorsOptions, vector pgvector.Vector, threshold float64, limit uint64) ([]types.RetrievalMatch, error)
	Total(ctx context.Context, opts types.GetVectorsOptions) (int64, error)
	NamespaceCounts(ctx context.Context) ([]types.NamespaceCount, error)
}

type KnowledgeStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.KnowledgeBase) error
	GetKnowledge(ctx context.Context, id string) (*types.KnowledgeBase, error)
	Update(ctx context.Context, id string, data types.KnowledgeBase) error
	SetVectorID(ctx context.Context, id, vectorID string) error
	Delete(ctx context.Context, id string) error
	ListKnowledges(ctx context.Context, opts types.ListKnowledgeOptions, page, pageSize uint64) ([]types.KnowledgeBase, error)
	Total(ctx context.Context, opts types.ListKnowledgeOptions) (int64, error)
}

type ChatMessageStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.ChatMessage) error
	GetOne(ctx context.Context, id string) (*types.ChatMessage, error)
	ListUserMessages(ctx context.Context, opts types.ListChatMessagesOptions, page, pageSize uint64) ([]types.ChatMessage, error)
	Total(ctx context.Context, opts types.ListChatMessagesOptions) (int64, error)
	DeleteUserMessages(ctx context.Context, userID string) error
}

type QuestionLogStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.QuestionLog) error
	List(ctx context.Context, opts types.ListQuestionLogsOptions, page, pageSize uint64) ([]types.QuestionLog, error)
	Total(ctx context.Context, opts types.ListQuestionLogsOptions) (int64, error)
	// TopQuestions aggregates by normalized question, most asked first.
	TopQuestions(ctx context.Context, since time.Time, limit uint64) ([]types.QuestionInsight, error)
	CategoryCounts(ctx context.Context, since time.Time) (map[string]int64, error)
}

type MissingKBItemStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.MissingKBItem) error
	Get(ctx context.Context, id string) (*types.MissingKBItem, error)
	List(ctx context.Context, opts types.ListMissingKBItemsOptions, page, pageSize uint64) ([]types.MissingKBItem, error)
	Total(ctx context.Context, opts types.ListMissingKBItemsOptions) (int64, error)
	Resolve(ctx context.Context, id, resolvedByKBID string) error
	NamespaceCounts(ctx context.Context, unresolvedOnly bool) ([]types.NamespaceCount, error)
}

type UsageStore interface {
	sqlstore.SqlCommons
	// Increment upserts the user's row for the period and adds the deltas.
	Increment(ctx context.Context, userID string, periodStart, periodEnd int64, messages, tokens, cost int64) error
	GetPeriod(ctx context.Context, userID string, periodStart int64) (*types.UsageRecord, error)
	ListUserPeriods(ctx context.Context, userID string, page, pageSize uint64) ([]types.UsageRecord, error)
}

type UserStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.User) error
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	UpdateTier(ctx context.Context, id string, tier types.UserTier) error
	ListUsers(ctx context.Context, page, pageSize uint64) ([]types.User, error)
	Total(ctx context.Context) (int64, error)
}

type AccessTokenStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.AccessToken) error
	GetAccessToken(ctx context.Context, token string) (*types.AccessToken, error)
	Delete(ctx context.Context, userID string, id int64) error
	ClearUserTokens(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, before int64) error
}
