package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChapterTitleKnownChapters(t *testing.T) {
	assert.Equal(t, "ROS 2", ChapterTitle("chapter-02-ros2"))
	assert.Equal(t, "Introduction", ChapterTitle("intro"))
}

func TestChapterTitleFallsBackToTitleCase(t *testing.T) {
	assert.Equal(t, "Chapter 99 Quantum", ChapterTitle("chapter-99-quantum"))
}

func TestSuggestedChaptersNonEmptyAndCopied(t *testing.T) {
	first := SuggestedChapters()
	assert.NotEmpty(t, first)

	first[0] = "mutated"
	assert.NotEqual(t, first[0], SuggestedChapters()[0])
}
