package sqlstore

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/taysluxe/tayai/pkg/testutils"
	"github.com/taysluxe/tayai/pkg/types"
)

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m PGConfig) FormatDSN() string {
	return m.DSN
}

func setupTestProvider(t *testing.T) *Provider {
	cfg := PGConfig{DSN: testutils.RequireEnv(t, "TAYAI_POSTGRESQL_DSN")}

	p := MustSetup(cfg)()
	if err := p.Install(); err != nil {
		t.Fatal(err)
	}
	return p
}

func randomEmbedding() pgvector.Vector {
	data := make([]float32, types.EmbeddingDimension)
	for i := range data {
		data[i] = rand.Float32()
	}
	return pgvector.NewVector(data)
}

func TestVectorStoreQuery(t *testing.T) {
	p := setupTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	parentID := fmt.Sprintf("kb_test_%d", time.Now().UnixNano())
	var vectors []types.Vector
	for i := 0; i < 3; i++ {
		vectors = append(vectors, types.Vector{
			ID:              types.ChunkID(parentID, i),
			KnowledgeBaseID: parentID,
			Embedding:       randomEmbedding(),
			Content:         fmt.Sprintf("chunk %d about wig install pricing", i),
			Metadata: types.ChunkMeta{
				Title:       "Wig Install Pricing",
				Category:    "business",
				ChunkIndex:  i,
				TotalChunks: 3,
				ParentID:    parentID,
			},
			Namespace:  "business",
			ChunkIndex: i,
			ParentID:   parentID,
		})
	}

	if err := p.stores.VectorStore.BatchCreate(ctx, vectors); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := p.stores.VectorStore.DeleteByParent(ctx, parentID); err != nil {
			t.Error(err)
		}
	}()

	// query with one of the stored embeddings, similarity with itself is 1
	res, err := p.stores.VectorStore.Query(ctx, types.GetVectorsOptions{Namespace: "business"}, vectors[0].Embedding, 0.7, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) == 0 {
		t.Fatal("expected at least one match")
	}
	if res[0].ID != vectors[0].ID {
		t.Fatalf("expected best match %s, got %s", vectors[0].ID, res[0].ID)
	}
	if res[0].Similarity < 0.99 {
		t.Fatalf("self similarity should be ~1, got %f", res[0].Similarity)
	}
	if res[0].Metadata.Title != "Wig Install Pricing" {
		t.Fatalf("metadata did not round trip: %+v", res[0].Metadata)
	}
}

func TestVectorStoreDeleteByParent(t *testing.T) {
	p := setupTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	// unsplit document stored under the bare parent id
	parentID := fmt.Sprintf("kb_single_%d", time.Now().UnixNano())
	err := p.stores.VectorStore.Create(ctx, types.Vector{
		ID:              parentID,
		KnowledgeBaseID: parentID,
		Embedding:       randomEmbedding(),
		Content:         "short content",
		Namespace:       "faqs",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err = p.stores.VectorStore.DeleteByParent(ctx, parentID); err != nil {
		t.Fatal(err)
	}

	if _, err = p.stores.VectorStore.GetVector(ctx, parentID); err == nil {
		t.Fatal("expected row to be gone")
	}
}

func TestUsageStoreIncrement(t *testing.T) {
	p := setupTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	userID := fmt.Sprintf("user_%d", time.Now().UnixNano())
	now := time.Now()
	start := types.PeriodStartOf(now).Unix()
	end := types.PeriodEndOf(now).Unix()

	if err := p.stores.UsageStore.Increment(ctx, userID, start, end, 1, 120, 45); err != nil {
		t.Fatal(err)
	}
	if err := p.stores.UsageStore.Increment(ctx, userID, start, end, 1, 80, 30); err != nil {
		t.Fatal(err)
	}

	rec, err := p.stores.UsageStore.GetPeriod(ctx, userID, start)
	if err != nil {
		t.Fatal(err)
	}
	if rec.MessagesCount != 2 || rec.TokensUsed != 200 || rec.APICost != 75 {
		t.Fatalf("unexpected totals: %+v", rec)
	}
}
