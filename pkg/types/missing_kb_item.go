package types

import sq "github.com/Masterminds/squirrel"

// MissingKBItem records a question the knowledge base could not answer.
// A curator closes it by setting is_resolved, optionally pointing at the
// knowledge entry that fills the gap; the pipeline never reopens one.
type MissingKBItem struct {
	ID                 string `json:"id" db:"id"`
	UserID             string `json:"user_id" db:"user_id"`
	Question           string `json:"question" db:"question"`
	MissingDetail      string `json:"missing_detail" db:"missing_detail"`
	AIResponsePreview  string `json:"ai_response_preview" db:"ai_response_preview"`
	SuggestedNamespace string `json:"suggested_namespace" db:"suggested_namespace"`
	IsResolved         bool   `json:"is_resolved" db:"is_resolved"`
	ResolvedAt         int64  `json:"resolved_at" db:"resolved_at"`
	ResolvedByKBID     string `json:"resolved_by_kb_id" db:"resolved_by_kb_id"`
	CreatedAt          int64  `json:"created_at" db:"created_at"`
}

// AIResponsePreviewLen caps how much of the answer is kept for curators.
const AIResponsePreviewLen = 500

type ListMissingKBItemsOptions struct {
	IsResolved         *bool
	SuggestedNamespace string
	UserID             string
}

func (opts ListMissingKBItemsOptions) Apply(query *sq.SelectBuilder) {
	if opts.IsResolved != nil {
		*query = query.Where(sq.Eq{"is_resolved": *opts.IsResolved})
	}
	if opts.SuggestedNamespace != "" {
		*query = query.Where(sq.Eq{"suggested_namespace": opts.SuggestedNamespace})
	}
	if opts.UserID != "" {
		*query = query.Where(sq.Eq{"user_id": opts.UserID})
	}
}
