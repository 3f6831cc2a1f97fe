package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Empty(t *testing.T) {
	c := New(DefaultConfig())

	assert.Empty(t, c.Split(""))
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	c := New(DefaultConfig())

	chunks := c.Split("a short document")

	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0])
}

func TestSplit_ExactWindowPositions(t *testing.T) {
	// 1500 runes without whitespace force hard cuts: two chunks at
	// positions 0-1000 and 800-1500 with 200 runes of overlap.
	text := strings.Repeat("abcde", 300)
	c := New(DefaultConfig())

	chunks := c.Split(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, text[0:1000], chunks[0])
	assert.Equal(t, text[800:1500], chunks[1])
	assert.Equal(t, chunks[0][800:], chunks[1][:200])
}

func TestSplit_BoundsAndOverlap(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200)

	chunks := c.Split(text)

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), cfg.Size, "chunk %d exceeds max size", i)
	}
}

func TestSplit_ReconstructsInput(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)
	text := strings.Repeat("lorem ipsum dolor sit amet consectetur adipiscing elit ", 100)

	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)

	// Concatenating each chunk's non-overlapping suffix after the first
	// chunk rebuilds the document exactly.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		runes := []rune(chunks[i])
		rebuilt.WriteString(string(runes[cfg.Overlap:]))
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplit_PrefersWordBoundaries(t *testing.T) {
	c := New(DefaultConfig())
	text := strings.Repeat("word ", 500)

	chunks := c.Split(text)

	require.Greater(t, len(chunks), 1)
	for i := 0; i < len(chunks)-1; i++ {
		assert.True(t, strings.HasSuffix(chunks[i], " "), "chunk %d should end at a word boundary", i)
	}
}

func TestSplit_MultiByteRunes(t *testing.T) {
	cfg := Config{Size: 10, Overlap: 2}
	c := New(cfg)
	text := strings.Repeat("日本語テキスト", 10)

	chunks := c.Split(text)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), cfg.Size)
		assert.True(t, strings.HasPrefix(text, chunks[0]))
	}
}

func TestNew_ClampsBadConfig(t *testing.T) {
	c := New(Config{Size: 0, Overlap: -5})

	assert.Equal(t, DefaultConfig().Size, c.cfg.Size)
	assert.GreaterOrEqual(t, c.cfg.Overlap, 0)

	c = New(Config{Size: 10, Overlap: 50})
	assert.Less(t, c.cfg.Overlap, c.cfg.Size)
}
