package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taysluxe/tayai/pkg/types"
)

func goodBundle() types.ContextBundle {
	return types.ContextBundle{
		ContextText: "**Pricing Formula** (business)\nTime + Products + Overhead + Profit.",
		Sources: []types.Source{
			{Title: "Pricing Formula", Category: "business", Score: 0.91, ChunkID: "kb_1_chunk_0"},
			{Title: "Pricing Formula", Category: "business", Score: 0.84, ChunkID: "kb_1_chunk_1"},
		},
		MatchCount:   2,
		AverageScore: 0.875,
	}
}

func TestDetectGapCleanTurn(t *testing.T) {
	report := DetectGap(
		"How do I price a silk press?",
		"Here's the formula: time plus products plus overhead plus profit.",
		goodBundle(),
	)
	assert.Nil(t, report)
}

func TestDetectGapPhraseIndicator(t *testing.T) {
	report := DetectGap(
		"How do I price a wig install?",
		"That specific pricing isn't in my brain yet. I can share general guidance though.",
		goodBundle(),
	)
	require.NotNil(t, report)
	assert.Equal(t, "business", report.SuggestedNamespace)
	require.NotNil(t, report.RagScore)
	assert.InDelta(t, 0.84, *report.RagScore, 0.001)
}

func TestDetectGapEmptyRetrieval(t *testing.T) {
	report := DetectGap(
		"What's the best way to price wig installs?",
		"Great question! Here's how I'd think about pricing.",
		types.ContextBundle{},
	)
	require.NotNil(t, report)
	assert.Equal(t, "What's the best way to price wig installs?", report.MissingDetail)
	assert.Equal(t, "business", report.SuggestedNamespace)
	assert.Nil(t, report.RagScore)
}

func TestDetectGapLowScore(t *testing.T) {
	bundle := goodBundle()
	bundle.Sources[1].Score = 0.42

	report := DetectGap("How do I tint lace?", "Some loosely related advice.", bundle)
	require.NotNil(t, report)
	assert.Equal(t, "techniques", report.SuggestedNamespace)
	require.NotNil(t, report.RagScore)
	assert.InDelta(t, 0.42, *report.RagScore, 0.001)
}

func TestDetectGapDetailExtraction(t *testing.T) {
	report := DetectGap(
		"Do you have the vendor list?",
		"I don't have the vendor pricing sheet for that region, sorry.",
		types.ContextBundle{},
	)
	require.NotNil(t, report)
	assert.Equal(t, "Do you have the vendor list? - Specifically: vendor pricing sheet for that region, sorry", report.MissingDetail)
	assert.Equal(t, "vendor", report.SuggestedNamespace)
}
