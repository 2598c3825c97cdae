package rag

import (
	"regexp"
	"strings"

	"github.com/taysluxe/tayai/pkg/types"
)

// Keyword tables for conversation classification. Order matters: money talk
// outranks technique talk so "how do I price a silk press" lands in
// mentorship, not hair education.
var contextKeywords = []struct {
	contextType types.ContextType
	keywords    []string
}{
	{types.CONTEXT_TYPE_TROUBLESHOOTING, []string{
		"fix", "problem", "wrong", "breakage", "breaking", "damaged", "falling out",
		"not working", "won't", "help my", "why is my", "itchy", "shedding", "frizz",
	}},
	{types.CONTEXT_TYPE_PRODUCT_RECOMMENDATION, []string{
		"recommend", "product", "which brand", "what brand", "best shampoo",
		"best conditioner", "best oil", "what should i use", "what should i buy",
	}},
	{types.CONTEXT_TYPE_BUSINESS_MENTORSHIP, []string{
		"price", "pricing", "profit", "client", "business", "charge", "money",
		"market", "sell", "booked", "clientele", "brand", "shopify", "taxes",
		"salon", "booth rent",
	}},
	{types.CONTEXT_TYPE_HAIR_EDUCATION, []string{
		"porosity", "curl", "hair type", "moisture", "protein", "scalp", "detangle",
		"wash day", "silk press", "wig", "lace", "install", "braids", "twist",
		"protective style", "hair",
	}},
}

// DetectConversationContext picks the prompt mode for a question.
func DetectConversationContext(question string) types.ContextType {
	q := strings.ToLower(question)
	for _, entry := range contextKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(q, keyword) {
				return entry.contextType
			}
		}
	}
	return types.CONTEXT_TYPE_GENERAL
}

// Ordered namespace suggestion table; first hit wins, "faqs" is the catch-all.
var namespaceKeywords = []struct {
	namespace string
	keywords  []string
}{
	{"business", []string{"price", "pricing", "profit", "margin", "shopify", "brand", "niche", "packaging", "refund"}},
	{"vendor", []string{"vendor", "supplier", "quality", "sample", "moq", "shipping", "bundle"}},
	{"techniques", []string{"install", "lace", "melting", "plucking", "tinting", "bleaching", "wig construction", "bald cap"}},
	// mindset before content: "imposter" contains the substring "post"
	{"mindset", []string{"confidence", "imposter", "perfection", "block", "motivation", "fear", "consistency"}},
	{"content", []string{"hook", "reel", "script", "story", "content", "caption", "post", "social media"}},
	{"offers", []string{"tutorial", "mentorship", "course", "community", "masterclass", "trip", "offer"}},
}

// SuggestNamespace guesses which knowledge-base namespace would have covered
// a question.
func SuggestNamespace(question string) string {
	q := strings.ToLower(question)
	for _, entry := range namespaceKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(q, keyword) {
				return entry.namespace
			}
		}
	}
	return "faqs"
}

var (
	whitespaceRE = regexp.MustCompile(`\s+`)

	questionPrefixes = []string{
		"how do i", "how can i", "what is", "what are", "when should", "where can i",
	}
)

// NormalizeQuestion flattens a question for grouping near-duplicates in
// analytics. Never used for retrieval.
func NormalizeQuestion(question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	normalized = whitespaceRE.ReplaceAllString(normalized, " ")

	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			normalized = strings.TrimSpace(normalized[len(prefix):])
			break
		}
	}

	return strings.TrimRight(normalized, "?.,! ")
}

// DetermineCategory maps a question to an analytics category, with keyword
// overrides on top of the context-type default.
func DetermineCategory(question string, contextType types.ContextType) string {
	category := ""
	switch contextType {
	case types.CONTEXT_TYPE_HAIR_EDUCATION, types.CONTEXT_TYPE_TROUBLESHOOTING:
		category = "techniques"
	case types.CONTEXT_TYPE_BUSINESS_MENTORSHIP:
		category = "business"
	case types.CONTEXT_TYPE_PRODUCT_RECOMMENDATION:
		category = "vendor"
	}

	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "vendor") || strings.Contains(q, "supplier"):
		category = "vendor"
	case strings.Contains(q, "price") || strings.Contains(q, "cost"):
		category = "business"
	case strings.Contains(q, "content") || strings.Contains(q, "reel"):
		category = "content"
	}

	return category
}
