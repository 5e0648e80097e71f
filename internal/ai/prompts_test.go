package ai

import (
	"strings"
	"testing"

	"textbook-rag-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptSetsCoverEveryLanguage(t *testing.T) {
	for _, lang := range models.Languages {
		ps, ok := prompts[lang]
		require.True(t, ok, "missing prompt set for %s", lang)
		assert.NotEmpty(t, ps.System)
		assert.NotEmpty(t, ps.FallbackMsg)
		assert.NotEmpty(t, ps.ProviderError)
		assert.NotEmpty(t, ps.Overloaded)
		require.NotNil(t, ps.userTemplate)

		prompt := ps.userTemplate("CTX", "Q?")
		assert.Contains(t, prompt, "CTX")
		assert.Contains(t, prompt, "Q?")
	}
}

func TestPromptsForFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, prompts[models.LanguageEnglish].System, promptsFor(models.Language("fr")).System)
}

func TestBuildContextNumbersAndDelimitsSections(t *testing.T) {
	chunks := []models.RetrievedChunk{
		{SectionTitle: "Getting Started", Content: "First content."},
		{SectionTitle: "Installation", Content: "Second content."},
	}

	ctx := BuildContext(chunks)

	assert.True(t, strings.HasPrefix(ctx, "[Section 1: Getting Started]\nFirst content."))
	assert.Contains(t, ctx, "\n\n---\n\n[Section 2: Installation]\nSecond content.")
}

func TestBuildContextUnknownSectionTitle(t *testing.T) {
	ctx := BuildContext([]models.RetrievedChunk{{Content: "orphan text"}})
	assert.Equal(t, "[Section 1: Unknown Section]\norphan text", ctx)
}

func TestBuildContextEmpty(t *testing.T) {
	assert.Empty(t, BuildContext(nil))
}

func TestBuildUserPromptEmbedsContextAndQuestion(t *testing.T) {
	chunks := []models.RetrievedChunk{{SectionTitle: "Sensors", Content: "Lidar basics."}}

	prompt := buildUserPrompt(models.LanguageEnglish, "What is lidar?", chunks)
	assert.Contains(t, prompt, "[Section 1: Sensors]\nLidar basics.")
	assert.Contains(t, prompt, "What is lidar?")
	assert.Contains(t, prompt, "**Textbook Content:**")
}
