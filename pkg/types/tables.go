package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "tayai_"

const (
	TABLE_USER            = TableName("users")
	TABLE_ACCESS_TOKEN    = TableName("access_tokens")
	TABLE_KNOWLEDGE_BASE  = TableName("knowledge_base")
	TABLE_CHAT_MESSAGE    = TableName("chat_messages")
	TABLE_QUESTION_LOG    = TableName("question_logs")
	TABLE_MISSING_KB_ITEM = TableName("missing_kb_items")
	TABLE_USAGE_TRACKING  = TableName("usage_tracking")
	TABLE_VECTORS         = TableName("vector_embeddings")
)
