package ai

import (
	"context"
	"fmt"
	"time"

	"textbook-rag-platform/internal/config"
	"textbook-rag-platform/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// EmbeddingService converts text into fixed-dimension vectors using Google
// Generative AI (text-embedding-004 by default). Queries and documents use
// different task types because the provider encodes them asymmetrically.
//
// Bulk document embedding is submitted in provider-sized batches with a
// fixed pause between batches to stay under the requests-per-minute
// ceiling; no pause follows the final batch.
type EmbeddingService struct {
	model      string
	dimension  int
	batchSize  int
	batchDelay time.Duration

	client *genai.Client

	// Indirections for tests; production wiring is set by the constructor.
	embed func(ctx context.Context, texts []string, task genai.TaskType) ([][]float32, error)
	sleep func(d time.Duration)
}

// NewEmbeddingService creates the embedding gateway. A missing API key is a
// configuration error: the pipeline cannot run without a real provider.
func NewEmbeddingService(ctx context.Context, cfg *config.Config) (*EmbeddingService, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY for embeddings")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	s := &EmbeddingService{
		model:      cfg.GoogleEmbeddingsModel,
		dimension:  cfg.VectorDimensions,
		batchSize:  cfg.EmbedBatchSize,
		batchDelay: cfg.EmbedBatchDelay,
		client:     client,
		sleep:      time.Sleep,
	}
	s.embed = s.embedBatch
	return s, nil
}

// EmbedQuery embeds a single question with query intent. Errors propagate:
// a zero vector would silently corrupt similarity ranking.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embed(ctx, []string{text}, genai.TaskTypeRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return vectors[0], nil
}

// EmbedDocuments embeds chunk texts with document intent, batching and
// pacing the provider calls. Any batch failure aborts the whole call so an
// indexing run never continues with partial vectors.
func (s *EmbeddingService) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := s.embed(ctx, texts[start:end], genai.TaskTypeRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", start/s.batchSize+1, err)
		}
		vectors = append(vectors, batch...)

		if end < len(texts) {
			s.sleep(s.batchDelay)
		}
	}

	return vectors, nil
}

// Dimension returns the fixed output dimensionality of the configured model.
func (s *EmbeddingService) Dimension() int {
	return s.dimension
}

// HealthCheck probes the provider with a throwaway query embedding. Probe
// failures are reported as false, never as an error.
func (s *EmbeddingService) HealthCheck(ctx context.Context) bool {
	vectors, err := s.embed(ctx, []string{"ping"}, genai.TaskTypeRetrievalQuery)
	if err != nil {
		logger.Warn("embedding health check failed", "error", err)
		return false
	}
	return len(vectors) == 1 && len(vectors[0]) > 0
}

// Close releases the underlying provider connection.
func (s *EmbeddingService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *EmbeddingService) embedBatch(ctx context.Context, texts []string, task genai.TaskType) ([][]float32, error) {
	em := s.client.EmbeddingModel(s.model)
	em.TaskType = task

	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("no embedding returned for text %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}
