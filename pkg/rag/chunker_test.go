package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkContentSmallContent(t *testing.T) {
	cfg := DefaultChunkConfig()

	chunks := ChunkContent("Low porosity hair resists moisture.", "Porosity Guide", cfg)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Low porosity hair resists moisture.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[0].TotalChunks)
	// title is not prepended when content fits in one chunk
	assert.NotContains(t, chunks[0].Text, "Porosity Guide")
}

func TestChunkContentEmpty(t *testing.T) {
	cfg := DefaultChunkConfig()

	assert.Nil(t, ChunkContent("", "", cfg))
	assert.Nil(t, ChunkContent("   \n\n  ", "title", cfg))
}

func TestChunkContentParagraphAccumulation(t *testing.T) {
	cfg := DefaultChunkConfig()

	para := strings.Repeat("a", 200)
	content := strings.Join([]string{para, para, para, para}, "\n\n")

	chunks := ChunkContent(content, "", cfg)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), cfg.ChunkSize)
		assert.Equal(t, len(chunks), c.TotalChunks)
	}
}

func TestChunkContentTitleOnFirstChunkOnly(t *testing.T) {
	cfg := DefaultChunkConfig()

	para := strings.Repeat("b", 300)
	content := para + "\n\n" + para + "\n\n" + para

	chunks := ChunkContent(content, "Wig Install 101", cfg)
	require.Greater(t, len(chunks), 1)
	assert.True(t, strings.HasPrefix(chunks[0].Text, "Wig Install 101\n\n"))
	for _, c := range chunks[1:] {
		assert.NotContains(t, c.Text, "Wig Install 101")
	}
}

func TestChunkContentOversizedParagraphSplitsOnSentences(t *testing.T) {
	cfg := DefaultChunkConfig()

	sentence := "This sentence talks about lace melting for a while to take up space. "
	para := strings.TrimSpace(strings.Repeat(sentence, 12)) // ~840 chars, one paragraph

	chunks := ChunkContent(para, "", cfg)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), cfg.ChunkSize)
	}
}

func TestChunkContentUnsplittableSentenceMayOverflow(t *testing.T) {
	cfg := DefaultChunkConfig()

	long := strings.Repeat("x", 700) + "."
	chunks := ChunkContent(long+" Short tail sentence.", "", cfg)
	require.NotEmpty(t, chunks)
	assert.Greater(t, len(chunks[0].Text), cfg.ChunkSize)
}

func TestChunkContentRoundTrip(t *testing.T) {
	cfg := DefaultChunkConfig()

	paras := []string{
		"Pricing starts with knowing your numbers.",
		strings.Repeat("Time plus product plus overhead plus profit. ", 15),
		"Separate business and personal money from day one.",
		strings.Repeat("Raise prices when you are booked four weeks out. ", 10),
	}
	content := strings.TrimSpace(strings.Join(paras, "\n\n"))

	chunks := ChunkContent(content, "", cfg)
	require.NotEmpty(t, chunks)

	var rebuilt strings.Builder
	for _, c := range chunks {
		rebuilt.WriteString(c.Text)
		rebuilt.WriteString(" ")
	}

	// every word of the input survives, in order
	wantWords := strings.Fields(content)
	gotWords := strings.Fields(rebuilt.String())
	assert.Equal(t, wantWords, gotWords)
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First one. Second one! Third one? Tail without punctuation")
	assert.Equal(t, []string{"First one.", "Second one!", "Third one?", "Tail without punctuation"}, got)
}

func TestSplitSentencesDecimalNotSplit(t *testing.T) {
	got := splitSentences("Charge 150.50 for the install. Then tip yourself.")
	assert.Equal(t, []string{"Charge 150.50 for the install.", "Then tip yourself."}, got)
}
