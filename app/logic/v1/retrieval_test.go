package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taysluxe/tayai/pkg/types"
)

func TestBuildContextBundleEmpty(t *testing.T) {
	bundle := BuildContextBundle(nil)
	assert.True(t, bundle.IsEmpty())
	assert.Empty(t, bundle.Sources)
}

func TestBuildContextBundleFormatting(t *testing.T) {
	bundle := BuildContextBundle([]types.RetrievalMatch{
		{
			ID:         "kb1_chunk_0",
			Content:    "Wash with sulfate-free shampoo.",
			Similarity: 0.9237,
			Metadata:   types.ChunkMeta{Title: "Wash Day Routine", Category: "techniques"},
		},
		{
			ID:         "kb2",
			Content:    "Price per install, not per hour.",
			Similarity: 0.8114,
			Metadata:   types.ChunkMeta{Title: "Pricing Guide", Category: "business"},
		},
	})

	expected := "**Wash Day Routine** (techniques)\nWash with sulfate-free shampoo." +
		"\n\n---\n\n" +
		"**Pricing Guide** (business)\nPrice per install, not per hour."
	assert.Equal(t, expected, bundle.ContextText)

	assert.Equal(t, 2, bundle.MatchCount)
	assert.Equal(t, 0.924, bundle.Sources[0].Score)
	assert.Equal(t, 0.811, bundle.Sources[1].Score)
	assert.Equal(t, 0.868, bundle.AverageScore)
	assert.Equal(t, "kb1_chunk_0", bundle.Sources[0].ChunkID)

	min, ok := bundle.MinScore()
	assert.True(t, ok)
	assert.Equal(t, 0.811, min)
}
