package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"textbook-rag-platform/internal/ai"
	"textbook-rag-platform/internal/config"
	"textbook-rag-platform/internal/logger"
	"textbook-rag-platform/internal/telemetry"
	"textbook-rag-platform/models"
)

// QueryEmbedder embeds a single question with query intent.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Searcher runs top-k similarity search against a named collection.
// Failures degrade to an empty result inside the implementation.
type Searcher interface {
	Search(ctx context.Context, collection string, vector []float32, limit int, scoreThreshold float32) []models.RetrievedChunk
}

// Generator synthesizes answers grounded in retrieved chunks.
type Generator interface {
	Answer(ctx context.Context, question string, chunks []models.RetrievedChunk, language models.Language) (string, error)
	AnswerStream(ctx context.Context, question string, chunks []models.RetrievedChunk, language models.Language) <-chan string
}

// ChatServiceDeps carries the collaborators for NewChatService. Cache,
// History, and Metrics are optional.
type ChatServiceDeps struct {
	Embedder  QueryEmbedder
	Searcher  Searcher
	Generator Generator
	Cache     *AnswerCache
	History   *HistoryStore
	Metrics   *telemetry.Metrics
}

// ChatService is the retrieval orchestrator: per question it decides
// between caller-supplied context and vector search, applies the
// out-of-scope policy, and drives answer synthesis. It holds no per-request
// state and is safe for concurrent use.
type ChatService struct {
	cfg       *config.Config
	embedder  QueryEmbedder
	searcher  Searcher
	generator Generator
	cache     *AnswerCache
	history   *HistoryStore
	metrics   *telemetry.Metrics
}

func NewChatService(cfg *config.Config, deps ChatServiceDeps) *ChatService {
	return &ChatService{
		cfg:       cfg,
		embedder:  deps.Embedder,
		searcher:  deps.Searcher,
		generator: deps.Generator,
		cache:     deps.Cache,
		history:   deps.History,
		metrics:   deps.Metrics,
	}
}

// Ask answers one question synchronously. Out-of-scope and generation
// failures produce well-formed responses; only embedding failures (which
// would corrupt ranking if papered over) surface as errors.
func (s *ChatService) Ask(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	language, question, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && req.SelectedText == "" {
		if resp, ok := s.cache.Get(ctx, language, question); ok {
			return resp, nil
		}
	}

	chunks, outOfScope, err := s.retrieveContext(ctx, question, req.SelectedText, language)
	if err != nil {
		return nil, err
	}
	if outOfScope != nil {
		s.record(ctx, question, outOfScope)
		return outOfScope, nil
	}

	start := time.Now()
	answer, genErr := s.generator.Answer(ctx, question, chunks, language)
	if s.metrics != nil {
		s.metrics.GenerationDuration.Record(ctx, time.Since(start).Seconds())
	}
	if genErr != nil {
		// Degrade to an inline message; the retrieval result is still
		// worth returning as citations.
		logger.Error("answer generation failed", "language", language, "error", genErr)
		answer = ai.ProviderErrorMessage(language)
	}

	resp := &models.ChatResponse{
		Answer:   answer,
		Sources:  s.buildSources(chunks, language),
		Language: language.String(),
	}

	s.record(ctx, question, resp)
	if s.cache != nil && req.SelectedText == "" && genErr == nil {
		s.cache.Set(ctx, language, question, resp)
	}
	return resp, nil
}

// AskStream prepares a streaming answer. When retrieval is out-of-scope it
// returns a nil stream plus the fallback response so the handler can emit
// it as a single event. The stream honors ctx cancellation.
func (s *ChatService) AskStream(ctx context.Context, req models.ChatRequest) (<-chan string, *models.ChatResponse, error) {
	language, question, err := s.validate(req)
	if err != nil {
		return nil, nil, err
	}

	chunks, outOfScope, err := s.retrieveContext(ctx, question, req.SelectedText, language)
	if err != nil {
		return nil, nil, err
	}
	if outOfScope != nil {
		s.record(ctx, question, outOfScope)
		return nil, outOfScope, nil
	}

	return s.generator.AnswerStream(ctx, question, chunks, language), nil, nil
}

func (s *ChatService) validate(req models.ChatRequest) (models.Language, string, error) {
	language, err := models.ParseLanguage(req.Language)
	if err != nil {
		return "", "", err
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return "", "", fmt.Errorf("question cannot be empty")
	}
	return language, question, nil
}

// retrieveContext picks direct-context or search-context. A non-nil second
// return value is the complete out-of-scope response.
func (s *ChatService) retrieveContext(ctx context.Context, question, selectedText string, language models.Language) ([]models.RetrievedChunk, *models.ChatResponse, error) {
	if selectedText != "" {
		// Direct context: no embedding, no search.
		return []models.RetrievedChunk{{
			Content:      selectedText,
			SectionTitle: "Selected Text",
			ChapterID:    "unknown",
			SectionID:    "selected",
			Language:     language.String(),
		}}, nil, nil
	}

	vector, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, nil, fmt.Errorf("embed question: %w", err)
	}

	chunks := s.searcher.Search(ctx, s.cfg.CollectionFor(language), vector,
		s.cfg.MaxContextChunks, float32(s.cfg.MinSimilarityScore))
	if s.metrics != nil {
		s.metrics.RetrievedChunks.Add(ctx, int64(len(chunks)))
	}

	if len(chunks) == 0 {
		return nil, &models.ChatResponse{
			Answer:            ai.FallbackMessage(language),
			Sources:           []models.SourceReference{},
			Language:          language.String(),
			OutOfScope:        true,
			SuggestedChapters: SuggestedChapters(),
		}, nil
	}
	return chunks, nil, nil
}

func (s *ChatService) buildSources(chunks []models.RetrievedChunk, language models.Language) []models.SourceReference {
	sources := make([]models.SourceReference, len(chunks))
	for i, chunk := range chunks {
		sources[i] = models.SourceReference{
			ChapterID:    chunk.ChapterID,
			ChapterTitle: ChapterTitle(chunk.ChapterID),
			SectionID:    chunk.SectionID,
			SectionTitle: chunk.SectionTitle,
			URL:          fmt.Sprintf("/%s/docs/%s#%s", language, chunk.ChapterID, chunk.SectionID),
		}
	}
	return sources
}

func (s *ChatService) record(ctx context.Context, question string, resp *models.ChatResponse) {
	if s.metrics != nil {
		s.metrics.RecordQuestion(ctx, resp.Language, resp.OutOfScope)
	}
	if s.history == nil {
		return
	}

	exchange := models.Exchange{
		Question:   question,
		Answer:     resp.Answer,
		Language:   resp.Language,
		Sources:    resp.Sources,
		OutOfScope: resp.OutOfScope,
		Timestamp:  time.Now().UTC(),
	}
	// Detached from the request: history writes must not delay or fail it.
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.history.Record(writeCtx, exchange); err != nil {
			logger.Error("failed to record exchange", "error", err)
		}
	}()
}
