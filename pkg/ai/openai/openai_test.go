package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taysluxe/tayai/pkg/ai"
	"github.com/taysluxe/tayai/pkg/types"
)

func embeddingServer(t *testing.T, dims int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := openai.EmbeddingResponse{Model: openai.SmallEmbedding3}
		for i := range req.Input {
			resp.Data = append(resp.Data, openai.Embedding{Index: i, Embedding: make([]float32, dims)})
		}
		resp.Usage.PromptTokens = len(req.Input)
		resp.Usage.TotalTokens = len(req.Input)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestEmbeddingDimensionMatch(t *testing.T) {
	srv := embeddingServer(t, types.EmbeddingDimension)
	defer srv.Close()

	driver := New("test-token", srv.URL, ai.ModelName{})
	result, err := driver.EmbeddingForQuery(context.Background(), []string{"how do I melt lace"})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Len(t, result.Data[0], types.EmbeddingDimension)
}

func TestEmbeddingDimensionMismatch(t *testing.T) {
	srv := embeddingServer(t, 8)
	defer srv.Close()

	driver := New("test-token", srv.URL, ai.ModelName{})
	_, err := driver.EmbeddingForQuery(context.Background(), []string{"how do I melt lace"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimensions")
}
