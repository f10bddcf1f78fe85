package engine

import (
	"unicode/utf8"
)

// Chunk is a slice of the document carrying its byte offset so matches can
// be translated back into document-global coordinates.
type Chunk struct {
	Text   string
	Offset int
}

// splitChunks splits text into chunks of at most chunkSize bytes, preferring
// to break at a sentence end or whitespace near the limit so entity spans
// are not bisected. Boundary-spanning entities remain possible for
// pathological inputs; the engine re-resolves across chunks to mitigate.
func splitChunks(text string, chunkSize int) []Chunk {
	if len(text) <= chunkSize {
		return []Chunk{{Text: text, Offset: 0}}
	}

	var chunks []Chunk
	offset := 0
	for offset < len(text) {
		remaining := len(text) - offset
		if remaining <= chunkSize {
			chunks = append(chunks, Chunk{Text: text[offset:], Offset: offset})
			break
		}

		end := offset + chunkSize
		cut := boundaryBefore(text, offset, end)
		chunks = append(chunks, Chunk{Text: text[offset:cut], Offset: offset})
		offset = cut
	}
	return chunks
}

// boundaryBefore finds the best split position at or before limit. Sentence
// ends win over plain whitespace; both are only considered within the last
// quarter of the chunk so chunks stay near their nominal size. Falls back to
// a rune-aligned hard cut.
func boundaryBefore(text string, start, limit int) int {
	window := start + (limit-start)*3/4

	sentence, space := -1, -1
	for i := limit - 1; i >= window; i-- {
		c := text[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			if space < 0 {
				space = i + 1
			}
			if i > 0 && (text[i-1] == '.' || text[i-1] == '!' || text[i-1] == '?') {
				sentence = i + 1
				break
			}
		}
	}

	if sentence > start {
		return sentence
	}
	if space > start {
		return space
	}

	// No boundary nearby: hard cut, stepping back off any continuation byte
	cut := limit
	for cut > start && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == start {
		return limit
	}
	return cut
}
