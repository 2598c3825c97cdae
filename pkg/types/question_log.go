package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
)

// QuestionLogMeta keeps the retrieval-quality signal next to the question.
type QuestionLogMeta struct {
	RagScoreAvg  float64 `json:"rag_score_avg"`
	SourcesCount int     `json:"sources_count"`
}

func (m QuestionLogMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *QuestionLogMeta) Scan(value interface{}) error {
	if value == nil {
		*m = QuestionLogMeta{}
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for metadata column")
		}
		raw = []byte(str)
	}
	return json.Unmarshal(raw, m)
}

// QuestionLog is written for every processed message, answered or not.
type QuestionLog struct {
	ID                 string          `json:"id" db:"id"`
	UserID             string          `json:"user_id" db:"user_id"`
	Question           string          `json:"question" db:"question"`
	NormalizedQuestion string          `json:"normalized_question" db:"normalized_question"`
	ContextType        ContextType     `json:"context_type" db:"context_type"`
	Category           string          `json:"category" db:"category"`
	UserTier           UserTier        `json:"user_tier" db:"user_tier"`
	TokensUsed         int             `json:"tokens_used" db:"tokens_used"`
	HasSources         bool            `json:"has_sources" db:"has_sources"`
	Metadata           QuestionLogMeta `json:"metadata" db:"metadata"`
	CreatedAt          int64           `json:"created_at" db:"created_at"`
}

type ListQuestionLogsOptions struct {
	UserID     string
	Category   string
	HasSources *bool
	Since      int64
}

func (opts ListQuestionLogsOptions) Apply(query *sq.SelectBuilder) {
	if opts.UserID != "" {
		*query = query.Where(sq.Eq{"user_id": opts.UserID})
	}
	if opts.Category != "" {
		*query = query.Where(sq.Eq{"category": opts.Category})
	}
	if opts.HasSources != nil {
		*query = query.Where(sq.Eq{"has_sources": *opts.HasSources})
	}
	if opts.Since > 0 {
		*query = query.Where(sq.GtOrEq{"created_at": opts.Since})
	}
}

// QuestionInsight aggregates how often a normalized question was asked.
type QuestionInsight struct {
	NormalizedQuestion string `json:"normalized_question" db:"normalized_question"`
	Times              int64  `json:"times" db:"times"`
	LastAskedAt        int64  `json:"last_asked_at" db:"last_asked_at"`
}
