package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"

	"github.com/taysluxe/tayai/pkg/ai"
	"github.com/taysluxe/tayai/pkg/types"
)

const (
	NAME = "openai"
)

type Driver struct {
	client *openai.Client
	model  ai.ModelName
}

func New(token, proxy string, model ai.ModelName) *Driver {
	cfg := openai.DefaultConfig(token)
	if proxy != "" {
		cfg.BaseURL = proxy
	}

	if model.ChatModel == "" {
		model.ChatModel = openai.GPT4oMini
	}
	if model.EmbeddingModel == "" {
		model.EmbeddingModel = string(openai.SmallEmbedding3)
	}

	return &Driver{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (s *Driver) embedding(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	slog.Debug("Embedding", slog.String("driver", NAME))
	queryReq := openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(s.model.EmbeddingModel),
		Dimensions: types.EmbeddingDimension,
	}

	var (
		groups   [][]string
		result   [][]float32
		batchMax = 6
	)

	for i, v := range content {
		if i%batchMax == 0 {
			groups = append(groups, []string{})
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], v)
	}

	r := ai.EmbeddingResult{
		Usage: &openai.Usage{},
	}
	for _, v := range groups {
		queryReq.Input = v
		resp, err := s.client.CreateEmbeddings(ctx, queryReq)
		if err != nil {
			return r, fmt.Errorf("Error creating embedding: %w", err)
		}
		for _, v := range resp.Data {
			if len(v.Embedding) != types.EmbeddingDimension {
				return r, fmt.Errorf("Error creating embedding: got %d dimensions, want %d", len(v.Embedding), types.EmbeddingDimension)
			}
			result = append(result, v.Embedding)
		}

		r.Usage.CompletionTokens += resp.Usage.CompletionTokens
		r.Usage.PromptTokens += resp.Usage.PromptTokens
		r.Usage.TotalTokens += resp.Usage.TotalTokens
		r.Model = string(resp.Model)
	}

	r.Data = result

	return r, nil
}

func (s *Driver) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, "", content)
}

func (s *Driver) EmbeddingForDocument(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, title, content)
}

func (s *Driver) QueryStream(ctx context.Context, query []types.ConversationTurn) (*openai.ChatCompletionStream, error) {
	req := openai.ChatCompletionRequest{
		Model:       s.model.ChatModel,
		Stream:      true,
		Temperature: ai.GenerateTemperature,
		MaxTokens:   ai.GenerateMaxTokens,
		Messages: lo.Map(query, func(item types.ConversationTurn, _ int) openai.ChatCompletionMessage {
			return openai.ChatCompletionMessage{
				Role:    string(item.Role),
				Content: item.Content,
			}
		}),
		StreamOptions: &openai.StreamOptions{
			IncludeUsage: true,
		},
	}

	resp, err := s.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Completion error: %w", err)
	}

	slog.Debug("QueryStream", slog.String("driver", NAME), slog.String("model", s.model.ChatModel))

	return resp, nil
}

// MsgIsOverLimit reports whether the prompt blows the token budget. Counting
// failures let the request through; the provider enforces its own limit.
func (s *Driver) MsgIsOverLimit(query []types.ConversationTurn) bool {
	tokenNum, err := ai.NumTokens(query, s.model.ChatModel)
	if err != nil {
		slog.Error("Failed to count prompt tokens", slog.String("driver", NAME), slog.String("model", s.model.ChatModel), slog.Any("error", err))
		return false
	}
	return tokenNum > ai.PromptTokenLimit
}

func (s *Driver) Query(ctx context.Context, query []types.ConversationTurn) (ai.GenerateResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       s.model.ChatModel,
		Temperature: ai.GenerateTemperature,
		MaxTokens:   ai.GenerateMaxTokens,
		Messages: lo.Map(query, func(item types.ConversationTurn, _ int) openai.ChatCompletionMessage {
			return openai.ChatCompletionMessage{
				Role:    string(item.Role),
				Content: item.Content,
			}
		}),
	}

	var result ai.GenerateResponse
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return result, fmt.Errorf("Completion error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("Completion error: empty choices")
	}

	slog.Debug("Query", slog.String("driver", NAME), slog.String("model", s.model.ChatModel))

	result.Message = resp.Choices[0].Message.Content
	result.Model = resp.Model
	result.Usage = &resp.Usage

	return result, nil
}
