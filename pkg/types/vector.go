package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimension is fixed by the embedding model; the vector column is
// declared with the same dimension.
const EmbeddingDimension = 1536

// ChunkID derives the id for the i-th chunk of a parent document. Unchunked
// content is stored under the bare parent id.
func ChunkID(parentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", parentID, index)
}

// ChunkMeta is the metadata column. Known keys are typed, anything else the
// indexer stored rides along in Extra untouched.
type ChunkMeta struct {
	Title       string
	Category    string
	ChunkIndex  int
	TotalChunks int
	ParentID    string
	Extra       map[string]json.RawMessage
}

func (m ChunkMeta) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.Extra)+5)
	for k, v := range m.Extra {
		out[k] = v
	}
	set := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = raw
		return nil
	}
	if err := set("title", m.Title); err != nil {
		return nil, err
	}
	if err := set("category", m.Category); err != nil {
		return nil, err
	}
	if err := set("chunk_index", m.ChunkIndex); err != nil {
		return nil, err
	}
	if err := set("total_chunks", m.TotalChunks); err != nil {
		return nil, err
	}
	if err := set("parent_id", m.ParentID); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (m *ChunkMeta) UnmarshalJSON(raw []byte) error {
	all := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &all); err != nil {
		return err
	}
	take := func(key string, dst any) {
		if v, ok := all[key]; ok {
			if json.Unmarshal(v, dst) == nil {
				delete(all, key)
			}
		}
	}
	take("title", &m.Title)
	take("category", &m.Category)
	take("chunk_index", &m.ChunkIndex)
	take("total_chunks", &m.TotalChunks)
	take("parent_id", &m.ParentID)
	if len(all) > 0 {
		m.Extra = all
	}
	return nil
}

func (m ChunkMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *ChunkMeta) Scan(value interface{}) error {
	if value == nil {
		*m = ChunkMeta{}
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

type Vector struct {
	ID              string          `json:"id" db:"id"`
	KnowledgeBaseID string          `json:"knowledge_base_id" db:"knowledge_base_id"`
	Embedding       pgvector.Vector `json:"embedding" db:"embedding"`
	Content         string          `json:"content" db:"content"`
	Metadata        ChunkMeta       `json:"metadata" db:"metadata"`
	Namespace       string          `json:"namespace" db:"namespace"`
	ChunkIndex      int             `json:"chunk_index" db:"chunk_index"`
	ParentID        string          `json:"parent_id" db:"parent_id"`
	CreatedAt       int64           `json:"created_at" db:"created_at"`
}

// RetrievalMatch is one row of a similarity query, never persisted.
type RetrievalMatch struct {
	ID         string    `json:"id" db:"id"`
	ParentID   string    `json:"parent_id" db:"parent_id"`
	Content    string    `json:"content" db:"content"`
	Metadata   ChunkMeta `json:"metadata" db:"metadata"`
	Similarity float64   `json:"similarity" db:"similarity"`
}

type GetVectorsOptions struct {
	ID        string
	ParentID  string
	Namespace string
}

func (opts GetVectorsOptions) Apply(query *sq.SelectBuilder) {
	if opts.ID != "" {
		*query = query.Where(sq.Eq{"id": opts.ID})
	}
	if opts.ParentID != "" {
		*query = query.Where(sq.Eq{"parent_id": opts.ParentID})
	}
	if opts.Namespace != "" {
		*query = query.Where(sq.Eq{"namespace": opts.Namespace})
	}
}

type NamespaceCount struct {
	Namespace string `json:"namespace" db:"namespace"`
	Count     int64  `json:"count" db:"count"`
}

type IndexStats struct {
	TotalVectors int64            `json:"total_vectors"`
	Dimension    int              `json:"dimension"`
	Namespaces   map[string]int64 `json:"namespaces"`
}
