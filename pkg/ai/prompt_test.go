package ai

import (
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taysluxe/tayai/pkg/types"
)

func TestSystemPromptLayers(t *testing.T) {
	prompt := SystemPrompt(types.CONTEXT_TYPE_BUSINESS_MENTORSHIP, types.USER_TIER_VIP)
	assert.Contains(t, prompt, "Hair Business Mentor")
	assert.Contains(t, prompt, "Business Mentorship Mode")
	assert.Contains(t, prompt, "Elite Member")
	assert.Contains(t, prompt, "Using Knowledge Base Context")

	general := SystemPrompt(types.CONTEXT_TYPE_GENERAL, types.USER_TIER_BASIC)
	assert.NotContains(t, general, "Mode\n")
	assert.Contains(t, general, "Trial Access")
}

func TestBuildMessagesOrder(t *testing.T) {
	history := []types.ConversationTurn{
		{Role: types.MESSAGE_ROLE_USER, Content: "hi"},
		{Role: types.MESSAGE_ROLE_ASSISTANT, Content: "hey!"},
		{Role: "bogus", Content: "dropped"},
		{Role: types.MESSAGE_ROLE_USER, Content: ""},
	}

	msgs := BuildMessages("How do I price?", "**Pricing** (business)\ncontext", history, types.CONTEXT_TYPE_BUSINESS_MENTORSHIP, types.USER_TIER_BASIC)
	require.Len(t, msgs, 5)
	assert.Equal(t, types.MESSAGE_ROLE_SYSTEM, msgs[0].Role)
	assert.Equal(t, types.MESSAGE_ROLE_SYSTEM, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "Relevant Information")
	assert.Equal(t, "hi", msgs[2].Content)
	assert.Equal(t, "hey!", msgs[3].Content)
	assert.Equal(t, "How do I price?", msgs[4].Content)
}

func TestBuildMessagesNoContextSkipsInjection(t *testing.T) {
	msgs := BuildMessages("hello", "", nil, types.CONTEXT_TYPE_GENERAL, types.USER_TIER_BASIC)
	require.Len(t, msgs, 2)
	assert.Equal(t, types.MESSAGE_ROLE_SYSTEM, msgs[0].Role)
	assert.Equal(t, types.MESSAGE_ROLE_USER, msgs[1].Role)
}

func TestBuildMessagesHistoryWindow(t *testing.T) {
	var history []types.ConversationTurn
	for i := 0; i < 30; i++ {
		role := types.MESSAGE_ROLE_USER
		if i%2 == 1 {
			role = types.MESSAGE_ROLE_ASSISTANT
		}
		history = append(history, types.ConversationTurn{Role: role, Content: strings.Repeat("x", i+1)})
	}

	msgs := BuildMessages("next", "", history, types.CONTEXT_TYPE_GENERAL, types.USER_TIER_VIP)
	// system + 10 most recent turns + user
	require.Len(t, msgs, 12)
	assert.Equal(t, strings.Repeat("x", 21), msgs[1].Content)
}

func TestBuildMessagesWithinLimitDropsOldestPairs(t *testing.T) {
	history := []types.ConversationTurn{
		{Role: types.MESSAGE_ROLE_USER, Content: "q1"},
		{Role: types.MESSAGE_ROLE_ASSISTANT, Content: "a1"},
		{Role: types.MESSAGE_ROLE_USER, Content: "q2"},
		{Role: types.MESSAGE_ROLE_ASSISTANT, Content: "a2"},
		{Role: types.MESSAGE_ROLE_USER, Content: "q3"},
		{Role: types.MESSAGE_ROLE_ASSISTANT, Content: "a3"},
	}

	msgs := BuildMessagesWithinLimit("next", "", history, types.CONTEXT_TYPE_GENERAL, types.USER_TIER_BASIC, func(m []types.ConversationTurn) bool {
		return len(m) > 4
	})

	// system + newest pair + user
	require.Len(t, msgs, 4)
	assert.Equal(t, "q3", msgs[1].Content)
	assert.Equal(t, "a3", msgs[2].Content)
	assert.Equal(t, "next", msgs[3].Content)
}

func TestBuildMessagesWithinLimitNoHistoryLeft(t *testing.T) {
	history := []types.ConversationTurn{
		{Role: types.MESSAGE_ROLE_USER, Content: "q1"},
		{Role: types.MESSAGE_ROLE_ASSISTANT, Content: "a1"},
	}

	// still over once history is gone; the prompt goes out anyway
	msgs := BuildMessagesWithinLimit("next", "", history, types.CONTEXT_TYPE_GENERAL, types.USER_TIER_BASIC, func([]types.ConversationTurn) bool {
		return true
	})
	require.Len(t, msgs, 2)
	assert.Equal(t, types.MESSAGE_ROLE_SYSTEM, msgs[0].Role)
	assert.Equal(t, "next", msgs[1].Content)
}

func TestEstimateStreamTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateStreamTokens(""))
	assert.Equal(t, 3, EstimateStreamTokens("Hello world"))
	assert.Equal(t, 7, EstimateStreamTokens("one two three four five"))
}

func TestCostMicrodollars(t *testing.T) {
	assert.Equal(t, int64(0), CostMicrodollars(nil))

	// 100 prompt * 0.15 + 200 completion * 0.60 = 135 micro-dollars
	assert.Equal(t, int64(135), CostMicrodollars(&openai.Usage{PromptTokens: 100, CompletionTokens: 200, TotalTokens: 300}))

	// total-only usage is priced at the prompt rate, rounded up
	assert.Equal(t, int64(2), CostMicrodollars(&openai.Usage{TotalTokens: 10}))
}
