package rag

import (
	"regexp"
	"strings"
	"unicode"
)

type ChunkConfig struct {
	ChunkSize    int
	ChunkOverlap int
	MinChunkSize int
}

func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize:    500,
		ChunkOverlap: 50,
		MinChunkSize: 100,
	}
}

type Chunk struct {
	Text        string
	Index       int
	TotalChunks int
}

var paragraphSplitter = regexp.MustCompile(`\n\n+`)

// ChunkContent splits a document into embeddable segments. Content that fits
// the size limit stays whole and untouched; larger content is accumulated
// paragraph by paragraph, falling back to sentence boundaries for paragraphs
// that are themselves oversized. The title is prepended to the first chunk
// only when the content actually got split.
func ChunkContent(content, title string, cfg ChunkConfig) []Chunk {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	if len(content) <= cfg.ChunkSize {
		return []Chunk{{Text: content, Index: 0, TotalChunks: 1}}
	}

	raw := splitByParagraphs(content, cfg.ChunkSize)

	chunks := make([]Chunk, 0, len(raw))
	for i, text := range raw {
		text = strings.TrimSpace(text)
		if i == 0 && title != "" {
			text = title + "\n\n" + text
		}
		chunks = append(chunks, Chunk{
			Text:        text,
			Index:       i,
			TotalChunks: len(raw),
		})
	}
	return chunks
}

func splitByParagraphs(content string, chunkSize int) []string {
	var (
		chunks  []string
		current string
	)

	for _, para := range paragraphSplitter.Split(content, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(para) > chunkSize {
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}

			for _, sentence := range splitSentences(para) {
				if len(current)+len(sentence) <= chunkSize {
					if current != "" {
						current += " "
					}
					current += sentence
				} else {
					if current != "" {
						chunks = append(chunks, current)
					}
					// an unsplittable sentence may exceed the limit
					current = sentence
				}
			}
			continue
		}

		if len(current)+len(para)+2 <= chunkSize {
			if current != "" {
				current += "\n\n"
			}
			current += para
		} else {
			if current != "" {
				chunks = append(chunks, current)
			}
			current = para
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

// splitSentences breaks text after '.', '!' or '?' followed by whitespace.
func splitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		sentences = append(sentences, strings.TrimSpace(string(runes[start:i+1])))
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
		}
		start = i + 1
	}

	if start < len(runes) {
		tail := strings.TrimSpace(string(runes[start:]))
		if tail != "" {
			sentences = append(sentences, tail)
		}
	}

	return sentences
}
