package types

import (
	sq "github.com/Masterminds/squirrel"
)

// ContextType classifies what kind of conversation a question belongs to,
// which drives prompt composition.
type ContextType string

const (
	CONTEXT_TYPE_HAIR_EDUCATION         ContextType = "HAIR_EDUCATION"
	CONTEXT_TYPE_BUSINESS_MENTORSHIP    ContextType = "BUSINESS_MENTORSHIP"
	CONTEXT_TYPE_PRODUCT_RECOMMENDATION ContextType = "PRODUCT_RECOMMENDATION"
	CONTEXT_TYPE_TROUBLESHOOTING        ContextType = "TROUBLESHOOTING"
	CONTEXT_TYPE_GENERAL                ContextType = "GENERAL"
)

type MessageRole string

const (
	MESSAGE_ROLE_USER      MessageRole = "user"
	MESSAGE_ROLE_ASSISTANT MessageRole = "assistant"
	MESSAGE_ROLE_SYSTEM    MessageRole = "system"
)

// ConversationTurn is one entry of the prompt message sequence.
type ConversationTurn struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

func (t ConversationTurn) Valid() bool {
	switch t.Role {
	case MESSAGE_ROLE_USER, MESSAGE_ROLE_ASSISTANT, MESSAGE_ROLE_SYSTEM:
		return t.Content != ""
	}
	return false
}

type Sources = []Source

type Source struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	ChunkID  string  `json:"chunk_id"`
}

// ContextBundle is the outcome of retrieval for a single question. Empty is a
// valid result and means the model answers from the persona alone.
type ContextBundle struct {
	ContextText  string           `json:"context_text"`
	Sources      []Source         `json:"sources"`
	MatchCount   int              `json:"match_count"`
	AverageScore float64          `json:"average_score"`
	Matches      []RetrievalMatch `json:"-"`
}

func (c ContextBundle) IsEmpty() bool {
	return c.ContextText == "" || c.MatchCount == 0
}

// MinScore returns the lowest similarity among matches, ok=false when there
// were none.
func (c ContextBundle) MinScore() (float64, bool) {
	if len(c.Sources) == 0 {
		return 0, false
	}
	min := c.Sources[0].Score
	for _, s := range c.Sources[1:] {
		if s.Score < min {
			min = s.Score
		}
	}
	return min, true
}

// ChatMessage persists one full exchange: the user message and the answer it
// got, in a single row.
type ChatMessage struct {
	ID         string `json:"id" db:"id"`
	UserID     string `json:"user_id" db:"user_id"`
	Message    string `json:"message" db:"message"`
	Response   string `json:"response" db:"response"`
	TokensUsed int    `json:"tokens_used" db:"tokens_used"`
	CreatedAt  int64  `json:"created_at" db:"created_at"`
}

type ListChatMessagesOptions struct {
	UserID string
}

func (opts ListChatMessagesOptions) Apply(query *sq.SelectBuilder) {
	if opts.UserID != "" {
		*query = query.Where(sq.Eq{"user_id": opts.UserID})
	}
}

type ChatResult struct {
	MessageID   string      `json:"message_id"`
	Response    string      `json:"response"`
	Sources     []Source    `json:"sources,omitempty"`
	TokensUsed  int         `json:"tokens_used"`
	ContextType ContextType `json:"context_type"`
	Fallback    bool        `json:"fallback,omitempty"`
}
