package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextKeepsSmallTextWhole(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph."

	chunks := ChunkText(text, 2000)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestChunkTextSplitsAtParagraphBoundaries(t *testing.T) {
	a := strings.Repeat("a", 60)
	b := strings.Repeat("b", 60)
	c := strings.Repeat("c", 60)

	chunks := ChunkText(a+"\n\n"+b+"\n\n"+c, 100)
	require.Len(t, chunks, 3)
	assert.Equal(t, a, chunks[0])
	assert.Equal(t, b, chunks[1])
	assert.Equal(t, c, chunks[2])
}

func TestChunkTextPacksParagraphsUpToLimit(t *testing.T) {
	a := strings.Repeat("a", 40)
	b := strings.Repeat("b", 40)
	c := strings.Repeat("c", 40)

	// a+b fit within 100 (40+40+2 joined), c does not fit on top.
	chunks := ChunkText(a+"\n\n"+b+"\n\n"+c, 100)
	require.Len(t, chunks, 2)
	assert.Equal(t, a+"\n\n"+b, chunks[0])
	assert.Equal(t, c, chunks[1])
}

func TestChunkTextOversizedParagraphBecomesOwnChunk(t *testing.T) {
	small := strings.Repeat("s", 30)
	huge := strings.Repeat("h", 250)

	chunks := ChunkText(small+"\n\n"+huge+"\n\n"+small, 100)
	require.Len(t, chunks, 3)
	assert.Equal(t, small, chunks[0])
	assert.Equal(t, huge, chunks[1])
	assert.Greater(t, len(chunks[1]), 100)
	assert.Equal(t, small, chunks[2])
}

func TestChunkTextEmptyInput(t *testing.T) {
	assert.Empty(t, ChunkText("", 2000))
}

// No chunk exceeds the limit unless it is a single indivisible paragraph.
func TestChunkTextSizeBound(t *testing.T) {
	var paras []string
	for i := 0; i < 20; i++ {
		paras = append(paras, strings.Repeat("x", 10+i*7))
	}
	text := strings.Join(paras, "\n\n")

	for _, chunk := range ChunkText(text, 120) {
		if strings.Contains(chunk, "\n\n") {
			assert.LessOrEqual(t, len(chunk), 120)
		}
	}
}
