package engine

import (
	"strings"
	"testing"
)

// TestSplitChunks tests boundary-aware chunking
func TestSplitChunks(t *testing.T) {
	t.Run("ShortTextSingleChunk", func(t *testing.T) {
		chunks := splitChunks("short text", 100)
		if len(chunks) != 1 {
			t.Fatalf("Expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0].Text != "short text" || chunks[0].Offset != 0 {
			t.Errorf("Unexpected chunk: %+v", chunks[0])
		}
	})

	t.Run("ChunksReassembleExactly", func(t *testing.T) {
		text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50)
		chunks := splitChunks(text, 200)
		if len(chunks) < 2 {
			t.Fatalf("Expected multiple chunks, got %d", len(chunks))
		}

		var rebuilt strings.Builder
		for _, c := range chunks {
			if c.Offset != rebuilt.Len() {
				t.Errorf("Chunk offset %d does not match position %d", c.Offset, rebuilt.Len())
			}
			rebuilt.WriteString(c.Text)
		}
		if rebuilt.String() != text {
			t.Error("Reassembled chunks differ from the original text")
		}
	})

	t.Run("ChunksRespectSizeLimit", func(t *testing.T) {
		text := strings.Repeat("word ", 500)
		for _, c := range splitChunks(text, 150) {
			if len(c.Text) > 150 {
				t.Errorf("Chunk exceeds limit: %d bytes", len(c.Text))
			}
		}
	})

	t.Run("PrefersSentenceBoundary", func(t *testing.T) {
		sentence := "This sentence ends here. "
		text := strings.Repeat(sentence, 20)
		chunks := splitChunks(text, 120)
		for _, c := range chunks[:len(chunks)-1] {
			if !strings.HasSuffix(c.Text, ". ") {
				t.Errorf("Expected sentence-end break, chunk ends with %q", c.Text[len(c.Text)-5:])
			}
		}
	})

	t.Run("FallsBackToWhitespace", func(t *testing.T) {
		text := strings.Repeat("nodotwords andmore here ", 30)
		chunks := splitChunks(text, 120)
		for _, c := range chunks[:len(chunks)-1] {
			if !strings.HasSuffix(c.Text, " ") {
				t.Errorf("Expected whitespace break, chunk ends with %q", c.Text[len(c.Text)-5:])
			}
		}
	})

	t.Run("HardCutDoesNotSplitRunes", func(t *testing.T) {
		text := strings.Repeat("ää", 200) // no whitespace anywhere
		chunks := splitChunks(text, 101)
		var rebuilt strings.Builder
		for _, c := range chunks {
			if !strings.HasPrefix(c.Text, "ä") && c.Offset > 0 {
				t.Errorf("Chunk at offset %d starts mid-rune", c.Offset)
			}
			rebuilt.WriteString(c.Text)
		}
		if rebuilt.String() != text {
			t.Error("Reassembled chunks differ from the original text")
		}
	})
}
