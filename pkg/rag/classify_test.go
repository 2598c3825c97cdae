package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taysluxe/tayai/pkg/types"
)

func TestDetectConversationContext(t *testing.T) {
	tests := []struct {
		question string
		want     types.ContextType
	}{
		{"How do I price a silk press?", types.CONTEXT_TYPE_BUSINESS_MENTORSHIP},
		{"What's good for low porosity hair?", types.CONTEXT_TYPE_HAIR_EDUCATION},
		{"Which brand do you recommend for edge control?", types.CONTEXT_TYPE_PRODUCT_RECOMMENDATION},
		{"Why is my hair breaking at the crown?", types.CONTEXT_TYPE_TROUBLESHOOTING},
		{"Tell me about yourself", types.CONTEXT_TYPE_GENERAL},
		{"How do I get more clients booked?", types.CONTEXT_TYPE_BUSINESS_MENTORSHIP},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectConversationContext(tt.question), tt.question)
	}
}

func TestNormalizeQuestion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"How do I price a wig??", "price a wig"},
		{"What is low porosity hair?", "low porosity hair"},
		{"  How   can I   find vendors?! ", "find vendors"},
		{"Where can I buy bundles", "buy bundles"},
		{"Random statement.", "random statement"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeQuestion(tt.in), tt.in)
	}
}

func TestSuggestNamespace(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"What's the best way to price wig installs?", "business"},
		{"How do I find a good vendor with low MOQ?", "vendor"},
		{"How do I melt my lace?", "techniques"},
		{"Give me a hook for my next reel", "content"},
		{"I'm dealing with imposter syndrome", "mindset"},
		{"What should I post this week?", "content"},
		{"Do you have a masterclass?", "offers"},
		{"Hello there", "faqs"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SuggestNamespace(tt.question), tt.question)
	}
}

func TestDetermineCategory(t *testing.T) {
	assert.Equal(t, "business", DetermineCategory("How do I price a bob install?", types.CONTEXT_TYPE_BUSINESS_MENTORSHIP))
	assert.Equal(t, "techniques", DetermineCategory("Why is my leave-in flaking?", types.CONTEXT_TYPE_TROUBLESHOOTING))
	assert.Equal(t, "vendor", DetermineCategory("Is this supplier legit?", types.CONTEXT_TYPE_GENERAL))
	assert.Equal(t, "content", DetermineCategory("What should my next reel be?", types.CONTEXT_TYPE_GENERAL))
	assert.Equal(t, "", DetermineCategory("Tell me a joke", types.CONTEXT_TYPE_GENERAL))
}
