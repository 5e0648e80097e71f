package ai

import (
	"context"
	"errors"
	"fmt"

	"textbook-rag-platform/internal/config"
	"textbook-rag-platform/internal/logger"
	"textbook-rag-platform/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Temperature is fixed low to bias toward extractive answers grounded in
// the supplied context rather than creative completions.
const answerTemperature = 0.3

// GenerationClient wraps the Gemini generation model with a rate limiter
// and a circuit breaker. A single client is safe for concurrent use and is
// shared across requests.
type GenerationClient struct {
	client    *genai.Client
	model     string
	maxTokens int32

	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewGenerationClient builds the answer-synthesis client from config.
func NewGenerationClient(ctx context.Context, cfg *config.Config) (*GenerationClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY for generation")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiGeneration",
		MaxRequests: 5,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// 90% of the provider RPM ceiling, with a small burst allowance.
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.GenerationRPM)*0.9/60.0), 2)

	return &GenerationClient{
		client:    client,
		model:     cfg.GenerationModel,
		maxTokens: int32(cfg.MaxAnswerTokens),
		breaker:   breaker,
		limiter:   limiter,
	}, nil
}

// Answer generates one complete response grounded in the retrieved chunks.
// When the breaker is open a polite overload message is returned in place
// of an answer; other provider failures surface as errors for the caller
// to degrade.
func (gc *GenerationClient) Answer(ctx context.Context, question string, chunks []models.RetrievedChunk, language models.Language) (string, error) {
	tracer := otel.Tracer("generation-client")
	ctx, span := tracer.Start(ctx, "gemini.answer")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", gc.model),
		attribute.String("chat.language", language.String()),
		attribute.Int("chat.context_chunks", len(chunks)),
	)

	if err := gc.limiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.generativeModel(language)
		resp, err := model.GenerateContent(ctx, genai.Text(buildUserPrompt(language, question, chunks)))
		if err != nil {
			return nil, err
		}
		return responseText(resp), nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			span.SetAttributes(attribute.Bool("gemini.circuit_breaker_open", true))
			return promptsFor(language).Overloaded, nil
		}
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return "", err
	}

	return result.(string), nil
}

// AnswerStream generates the response as a lazy sequence of text
// increments. The returned channel is closed when the provider stream
// ends; a provider failure mid-stream becomes one terminal "Error: ..."
// fragment instead of an error value. Cancelling ctx stops the pull and
// releases the provider stream.
func (gc *GenerationClient) AnswerStream(ctx context.Context, question string, chunks []models.RetrievedChunk, language models.Language) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		if err := gc.limiter.Wait(ctx); err != nil {
			return
		}

		model := gc.generativeModel(language)
		iter := model.GenerateContentStream(ctx, genai.Text(buildUserPrompt(language, question, chunks)))

		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error("generation stream failed", "error", err)
				select {
				case out <- fmt.Sprintf("Error: %v", err):
				case <-ctx.Done():
				}
				return
			}

			text := responseText(resp)
			if text == "" {
				continue
			}
			select {
			case out <- text:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// HealthCheck verifies the generation provider answers a trivial prompt.
func (gc *GenerationClient) HealthCheck(ctx context.Context) bool {
	model := gc.client.GenerativeModel(gc.model)
	model.SetMaxOutputTokens(5)
	_, err := model.GenerateContent(ctx, genai.Text("Hello"))
	if err != nil {
		logger.Warn("generation health check failed", "error", err)
		return false
	}
	return true
}

// Close releases the underlying provider connection.
func (gc *GenerationClient) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}

func (gc *GenerationClient) generativeModel(language models.Language) *genai.GenerativeModel {
	model := gc.client.GenerativeModel(gc.model)
	model.SetTemperature(answerTemperature)
	model.SetMaxOutputTokens(gc.maxTokens)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(promptsFor(language).System)},
	}
	return model
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text string
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text += string(t)
			}
		}
	}
	return text
}
