package types

import sq "github.com/Masterminds/squirrel"

// KnowledgeBase is the editable source document; its chunks live in the
// vector table under ParentID == VectorID.
type KnowledgeBase struct {
	ID        string `json:"id" db:"id"`
	Title     string `json:"title" db:"title"`
	Content   string `json:"content" db:"content"`
	Category  string `json:"category" db:"category"`
	Namespace string `json:"namespace" db:"namespace"`
	VectorID  string `json:"vector_id" db:"vector_id"`
	IsActive  bool   `json:"is_active" db:"is_active"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
	UpdatedAt int64  `json:"updated_at" db:"updated_at"`
}

type ListKnowledgeOptions struct {
	Namespace string
	Category  string
	IsActive  *bool
}

func (opts ListKnowledgeOptions) Apply(query *sq.SelectBuilder) {
	if opts.Namespace != "" {
		*query = query.Where(sq.Eq{"namespace": opts.Namespace})
	}
	if opts.Category != "" {
		*query = query.Where(sq.Eq{"category": opts.Category})
	}
	if opts.IsActive != nil {
		*query = query.Where(sq.Eq{"is_active": *opts.IsActive})
	}
}
