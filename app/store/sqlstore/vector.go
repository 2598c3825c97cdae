package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pgvector/pgvector-go"

	"github.com/taysluxe/tayai/pkg/register"
	"github.com/taysluxe/tayai/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.VectorStore = NewVectorStore(provider)
	})
}

type VectorStore struct {
	CommonFields
}

func NewVectorStore(provider SqlProviderAchieve) *VectorStore {
	repo := &VectorStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_VECTORS)
	repo.SetAllColumns("id", "knowledge_base_id", "embedding", "content", "metadata", "namespace", "chunk_index", "parent_id", "created_at")
	return repo
}

// Create upserts on id so reindexing a document replaces its chunks in place.
func (s *VectorStore) Create(ctx context.Context, data types.Vector) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.KnowledgeBaseID, data.Embedding, data.Content, data.Metadata, data.Namespace, data.ChunkIndex, data.ParentID, data.CreatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET embedding = EXCLUDED.embedding, content = EXCLUDED.content, metadata = EXCLUDED.metadata, namespace = EXCLUDED.namespace")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *VectorStore) BatchCreate(ctx context.Context, datas []types.Vector) error {
	if len(datas) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).Columns(s.GetAllColumns()...)
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = time.Now().Unix()
		}
		query = query.Values(data.ID, data.KnowledgeBaseID, data.Embedding, data.Content, data.Metadata, data.Namespace, data.ChunkIndex, data.ParentID, data.CreatedAt)
	}
	query = query.Suffix("ON CONFLICT (id) DO UPDATE SET embedding = EXCLUDED.embedding, content = EXCLUDED.content, metadata = EXCLUDED.metadata, namespace = EXCLUDED.namespace")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *VectorStore) GetVector(ctx context.Context, id string) (*types.Vector, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Vector
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *VectorStore) Update(ctx context.Context, id string, vector pgvector.Vector, content string) error {
	query := sq.Update(s.GetTable()).
		Set("embedding", vector).
		Set("content", content).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *VectorStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// DeleteByParent also matches id = parent because unchunked content is stored
// under the bare parent id with an empty parent_id column.
func (s *VectorStore) DeleteByParent(ctx context.Context, parentID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Or{
		sq.Eq{"parent_id": parentID},
		sq.Eq{"id": parentID},
	})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *VectorStore) DeleteByNamespace(ctx context.Context, namespace string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"namespace": namespace})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *VectorStore) ListVectors(ctx context.Context, opts types.GetVectorsOptions, page, pageSize uint64) ([]types.Vector, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Limit(pageSize).Offset((page - 1) * pageSize).OrderBy("created_at DESC")
	opts.Apply(&query)
	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Vector
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

// Query runs cosine similarity search. pgvector distance operators:
// <-> L2, <#> negative inner product, <=> cosine distance.
func (s *VectorStore) Query(ctx context.Context, opts types.GetVectorsOptions, vector pgvector.Vector, threshold float64, limit uint64) ([]types.RetrievalMatch, error) {
	cosColumn, vectorArgs, _ := sq.Expr("1 - (embedding <=> ?) as similarity", vector).ToSql()
	query := sq.Select("id", "parent_id", "content", "metadata", cosColumn).
		From(s.GetTable()).
		Where(sq.Expr("1 - (embedding <=> ?) >= ?", vector, threshold)).
		OrderBy("similarity DESC").
		Limit(limit)
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	args = append(vectorArgs, args...)

	var res []types.RetrievalMatch
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *VectorStore) Total(ctx context.Context, opts types.GetVectorsOptions) (int64, error) {
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

func (s *VectorStore) NamespaceCounts(ctx context.Context) ([]types.NamespaceCount, error) {
	query := sq.Select("namespace", "COUNT(*) as count").From(s.GetTable()).GroupBy("namespace").OrderBy("count DESC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.NamespaceCount
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
