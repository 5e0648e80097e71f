package ai

import (
	"context"
	"os"
	"testing"

	"textbook-rag-platform/internal/config"
	"textbook-rag-platform/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseTextConcatenatesParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("world.")}}},
		},
	}
	assert.Equal(t, "Hello, world.", responseText(resp))
}

func TestResponseTextHandlesEmptyResponse(t *testing.T) {
	assert.Empty(t, responseText(nil))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: nil}},
	}))
}

// Live round trip against the real provider; skipped without credentials.
func TestGenerationAnswerLive(t *testing.T) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Skipf("config load failed: %v", err)
	}

	gc, err := NewGenerationClient(context.Background(), cfg)
	require.NoError(t, err)
	defer gc.Close()

	chunks := []models.RetrievedChunk{{SectionTitle: "Greetings", Content: "The word hello is a greeting."}}
	answer, err := gc.Answer(context.Background(), "What is hello?", chunks, models.LanguageEnglish)
	require.NoError(t, err)
	assert.NotEmpty(t, answer)
}
