package ai

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/taysluxe/tayai/pkg/types"
)

type ModelName struct {
	ChatModel      string
	EmbeddingModel string
}

const (
	GenerateTemperature = 0.7
	GenerateMaxTokens   = 1000
)

type EmbeddingResult struct {
	Model string
	Usage *openai.Usage
	Data  [][]float32
}

// Embedder turns text into fixed-dimension vectors; the returned vectors are
// in input order.
type Embedder interface {
	EmbeddingForQuery(ctx context.Context, content []string) (EmbeddingResult, error)
	EmbeddingForDocument(ctx context.Context, title string, content []string) (EmbeddingResult, error)
}

type GenerateResponse struct {
	Message string
	Model   string
	Usage   *openai.Usage
}

type ChatAI interface {
	Query(ctx context.Context, query []types.ConversationTurn) (GenerateResponse, error)
	QueryStream(ctx context.Context, query []types.ConversationTurn) (*openai.ChatCompletionStream, error)
	MsgIsOverLimit(query []types.ConversationTurn) bool
}

// PromptTokenLimit is the prompt budget; over it, oldest history gets dropped
// before the request goes out.
const PromptTokenLimit = 8000

type Driver interface {
	Embedder
	ChatAI
}

// EstimateStreamTokens approximates usage for streamed completions, where the
// provider reports no per-delta counts. Words times 1.3, rounded up.
func EstimateStreamTokens(text string) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) * 1.3))
}

// NumTokens counts prompt tokens with the model's tokenizer, for budget
// checks before a request goes out.
func NumTokens(turns []types.ConversationTurn, model string) (int, error) {
	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return 0, fmt.Errorf("failed to get tiktoken encoding for %s: %w", model, err)
	}

	// per-message framing overhead per the OpenAI token counting guide
	const tokensPerMessage = 3
	num := 3 // reply priming
	for _, turn := range turns {
		num += tokensPerMessage
		num += len(tkm.Encode(string(turn.Role), nil, nil))
		num += len(tkm.Encode(turn.Content, nil, nil))
	}
	return num, nil
}

// Micro-dollar prices per token. A price of $0.15 per million tokens is
// exactly 0.15 micro-dollars per token, so these stay readable.
const (
	promptTokenMicroPrice     = 0.15
	completionTokenMicroPrice = 0.60
)

// CostMicrodollars estimates the spend of one exchange in integer
// micro-dollars. When only a total is known, it's priced at the prompt rate.
func CostMicrodollars(usage *openai.Usage) int64 {
	if usage == nil {
		return 0
	}
	if usage.PromptTokens == 0 && usage.CompletionTokens == 0 {
		return int64(math.Ceil(float64(usage.TotalTokens) * promptTokenMicroPrice))
	}
	cost := float64(usage.PromptTokens)*promptTokenMicroPrice + float64(usage.CompletionTokens)*completionTokenMicroPrice
	return int64(math.Ceil(cost))
}
