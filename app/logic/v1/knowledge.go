package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/taysluxe/tayai/app/core"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/i18n"
	"github.com/taysluxe/tayai/pkg/rag"
	"github.com/taysluxe/tayai/pkg/types"
	"github.com/taysluxe/tayai/pkg/utils"
)

type KnowledgeLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewKnowledgeLogic(ctx context.Context, core *core.Core) *KnowledgeLogic {
	return &KnowledgeLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *KnowledgeLogic) requireAdmin() error {
	if !l.GetUserInfo().User.IsAdmin {
		return errors.New("KnowledgeLogic.requireAdmin", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}
	return nil
}

type CreateKnowledgeArgs struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Category  string `json:"category"`
	Namespace string `json:"namespace"`
}

// CreateKnowledge stores the document and indexes its chunks in one
// transaction, so a failed embedding never leaves a half-indexed entry.
func (l *KnowledgeLogic) CreateKnowledge(args CreateKnowledgeArgs) (*types.KnowledgeBase, error) {
	if err := l.requireAdmin(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(args.Content) == "" || args.Namespace == "" {
		return nil, errors.New("KnowledgeLogic.CreateKnowledge.empty", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	now := time.Now().Unix()
	kb := types.KnowledgeBase{
		ID:        utils.GenUniqIDStr(),
		Title:     args.Title,
		Content:   args.Content,
		Category:  args.Category,
		Namespace: args.Namespace,
		VectorID:  utils.GenUniqIDStr(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	vectors, err := l.buildVectors(kb)
	if err != nil {
		return nil, errors.Trace("KnowledgeLogic.CreateKnowledge", err)
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().KnowledgeStore().Create(ctx, kb); err != nil {
			return errors.New("KnowledgeLogic.CreateKnowledge.KnowledgeStore.Create", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().VectorStore().BatchCreate(ctx, vectors); err != nil {
			return errors.New("KnowledgeLogic.CreateKnowledge.VectorStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &kb, nil
}

// buildVectors chunks and embeds one document. A document that fits in a
// single chunk is stored under the bare vector id; split documents get
// per-chunk ids under the same parent.
func (l *KnowledgeLogic) buildVectors(kb types.KnowledgeBase) ([]types.Vector, error) {
	chunks := rag.ChunkContent(kb.Content, kb.Title, rag.DefaultChunkConfig())
	if len(chunks) == 0 {
		return nil, errors.New("KnowledgeLogic.buildVectors.empty", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}

	embedded, err := l.core.AI().EmbeddingForDocument(l.ctx, kb.Title, texts)
	if err != nil {
		return nil, errors.New("KnowledgeLogic.buildVectors.EmbeddingForDocument", i18n.ERROR_INTERNAL, err)
	}
	if len(embedded.Data) != len(chunks) {
		return nil, errors.New("KnowledgeLogic.buildVectors.mismatch", i18n.ERROR_INTERNAL, nil)
	}

	vectors := make([]types.Vector, 0, len(chunks))
	for i, c := range chunks {
		id := kb.VectorID
		if len(chunks) > 1 {
			id = types.ChunkID(kb.VectorID, c.Index)
		}
		vectors = append(vectors, types.Vector{
			ID:              id,
			KnowledgeBaseID: kb.ID,
			Embedding:       pgvector.NewVector(embedded.Data[i]),
			Content:         c.Text,
			Namespace:       kb.Namespace,
			ChunkIndex:      c.Index,
			ParentID:        kb.VectorID,
			Metadata: types.ChunkMeta{
				Title:       kb.Title,
				Category:    kb.Category,
				ChunkIndex:  c.Index,
				TotalChunks: c.TotalChunks,
				ParentID:    kb.VectorID,
			},
		})
	}
	return vectors, nil
}

func (l *KnowledgeLogic) GetKnowledge(id string) (*types.KnowledgeBase, error) {
	kb, err := l.core.Store().KnowledgeStore().GetKnowledge(l.ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("KnowledgeLogic.GetKnowledge.nil", i18n.ERROR_KNOWLEDGE_NOT_FOUND, nil).Code(http.StatusNotFound)
		}
		return nil, errors.New("KnowledgeLogic.GetKnowledge.KnowledgeStore.GetKnowledge", i18n.ERROR_INTERNAL, err)
	}
	return kb, nil
}

type UpdateKnowledgeArgs struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Namespace string `json:"namespace"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateKnowledge edits the document and reindexes it whenever anything that
// feeds the embedding changed.
func (l *KnowledgeLogic) UpdateKnowledge(id string, args UpdateKnowledgeArgs) (*types.KnowledgeBase, error) {
	if err := l.requireAdmin(); err != nil {
		return nil, err
	}

	kb, err := l.GetKnowledge(id)
	if err != nil {
		return nil, errors.Trace("KnowledgeLogic.UpdateKnowledge", err)
	}

	reindex := false
	if args.Title != "" && args.Title != kb.Title {
		kb.Title = args.Title
		reindex = true
	}
	if args.Content != "" && args.Content != kb.Content {
		kb.Content = args.Content
		reindex = true
	}
	if args.Category != "" && args.Category != kb.Category {
		kb.Category = args.Category
		reindex = true
	}
	if args.Namespace != "" && args.Namespace != kb.Namespace {
		kb.Namespace = args.Namespace
		reindex = true
	}
	if args.IsActive != nil {
		kb.IsActive = *args.IsActive
	}
	kb.UpdatedAt = time.Now().Unix()

	var vectors []types.Vector
	if reindex {
		if vectors, err = l.buildVectors(*kb); err != nil {
			return nil, errors.Trace("KnowledgeLogic.UpdateKnowledge", err)
		}
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().KnowledgeStore().Update(ctx, id, *kb); err != nil {
			return errors.New("KnowledgeLogic.UpdateKnowledge.KnowledgeStore.Update", i18n.ERROR_INTERNAL, err)
		}
		if !reindex {
			return nil
		}
		if err := l.core.Store().VectorStore().DeleteByParent(ctx, kb.VectorID); err != nil {
			return errors.New("KnowledgeLogic.UpdateKnowledge.VectorStore.DeleteByParent", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().VectorStore().BatchCreate(ctx, vectors); err != nil {
			return errors.New("KnowledgeLogic.UpdateKnowledge.VectorStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return kb, nil
}

// DeleteKnowledge removes the document and every vector under it.
func (l *KnowledgeLogic) DeleteKnowledge(id string) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}

	kb, err := l.GetKnowledge(id)
	if err != nil {
		return errors.Trace("KnowledgeLogic.DeleteKnowledge", err)
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().VectorStore().DeleteByParent(ctx, kb.VectorID); err != nil {
			return errors.New("KnowledgeLogic.DeleteKnowledge.VectorStore.DeleteByParent", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().KnowledgeStore().Delete(ctx, id); err != nil {
			return errors.New("KnowledgeLogic.DeleteKnowledge.KnowledgeStore.Delete", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}

func (l *KnowledgeLogic) ListKnowledges(opts types.ListKnowledgeOptions, page, pageSize uint64) ([]types.KnowledgeBase, int64, error) {
	list, err := l.core.Store().KnowledgeStore().ListKnowledges(l.ctx, opts, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("KnowledgeLogic.ListKnowledges.KnowledgeStore.ListKnowledges", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().KnowledgeStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, errors.New("KnowledgeLogic.ListKnowledges.KnowledgeStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

// Reindex rebuilds the vectors of one document from its current content.
func (l *KnowledgeLogic) Reindex(id string) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}

	kb, err := l.GetKnowledge(id)
	if err != nil {
		return errors.Trace("KnowledgeLogic.Reindex", err)
	}

	vectors, err := l.buildVectors(*kb)
	if err != nil {
		return errors.Trace("KnowledgeLogic.Reindex", err)
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().VectorStore().DeleteByParent(ctx, kb.VectorID); err != nil {
			return errors.New("KnowledgeLogic.Reindex.VectorStore.DeleteByParent", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().VectorStore().BatchCreate(ctx, vectors); err != nil {
			return errors.New("KnowledgeLogic.Reindex.VectorStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}

const reindexPageSize = 50

// ReindexAll walks every active document and rebuilds its vectors. Failures
// are logged per document and don't stop the sweep; the count of reindexed
// documents comes back to the caller.
func (l *KnowledgeLogic) ReindexAll() (int, error) {
	if err := l.requireAdmin(); err != nil {
		return 0, err
	}

	active := true
	opts := types.ListKnowledgeOptions{IsActive: &active}

	var (
		page  uint64 = 1
		count int
	)
	for {
		list, err := l.core.Store().KnowledgeStore().ListKnowledges(l.ctx, opts, page, reindexPageSize)
		if err != nil {
			return count, errors.New("KnowledgeLogic.ReindexAll.KnowledgeStore.ListKnowledges", i18n.ERROR_INTERNAL, err)
		}
		if len(list) == 0 {
			return count, nil
		}

		for _, kb := range list {
			vectors, err := l.buildVectors(kb)
			if err != nil {
				slog.Error("Reindex skipped a document", slog.String("id", kb.ID), slog.Any("error", err))
				continue
			}
			err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
				if err := l.core.Store().VectorStore().DeleteByParent(ctx, kb.VectorID); err != nil {
					return err
				}
				return l.core.Store().VectorStore().BatchCreate(ctx, vectors)
			})
			if err != nil {
				slog.Error("Reindex failed for a document", slog.String("id", kb.ID), slog.Any("error", err))
				continue
			}
			count++
		}

		page++
	}
}

// Stats summarizes the vector index.
func (l *KnowledgeLogic) Stats() (types.IndexStats, error) {
	total, err := l.core.Store().VectorStore().Total(l.ctx, types.GetVectorsOptions{})
	if err != nil {
		return types.IndexStats{}, errors.New("KnowledgeLogic.Stats.VectorStore.Total", i18n.ERROR_INTERNAL, err)
	}

	counts, err := l.core.Store().VectorStore().NamespaceCounts(l.ctx)
	if err != nil {
		return types.IndexStats{}, errors.New("KnowledgeLogic.Stats.VectorStore.NamespaceCounts", i18n.ERROR_INTERNAL, err)
	}

	namespaces := make(map[string]int64, len(counts))
	for _, c := range counts {
		namespaces[c.Namespace] = c.Count
	}

	return types.IndexStats{
		TotalVectors: total,
		Dimension:    types.EmbeddingDimension,
		Namespaces:   namespaces,
	}, nil
}
