package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the application's counters and histograms.
type Metrics struct {
	QuestionsTotal     metric.Int64Counter
	OutOfScopeTotal    metric.Int64Counter
	RetrievedChunks    metric.Int64Counter
	GenerationDuration metric.Float64Histogram
}

// InitMetrics registers all application metrics on the global meter.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("textbook-rag-platform")

	questionsTotal, err := meter.Int64Counter(
		"chat.questions.total",
		metric.WithDescription("Total questions received"),
	)
	if err != nil {
		return nil, err
	}

	outOfScopeTotal, err := meter.Int64Counter(
		"chat.out_of_scope.total",
		metric.WithDescription("Questions with no retrieved context above threshold"),
	)
	if err != nil {
		return nil, err
	}

	retrievedChunks, err := meter.Int64Counter(
		"retrieval.chunks.total",
		metric.WithDescription("Chunks returned by vector search"),
	)
	if err != nil {
		return nil, err
	}

	generationDuration, err := meter.Float64Histogram(
		"generation.duration",
		metric.WithDescription("Answer generation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		QuestionsTotal:     questionsTotal,
		OutOfScopeTotal:    outOfScopeTotal,
		RetrievedChunks:    retrievedChunks,
		GenerationDuration: generationDuration,
	}, nil
}

// RecordQuestion counts one question with its language and scope outcome.
func (m *Metrics) RecordQuestion(ctx context.Context, language string, outOfScope bool) {
	attrs := metric.WithAttributes(attribute.String("language", language))
	m.QuestionsTotal.Add(ctx, 1, attrs)
	if outOfScope {
		m.OutOfScopeTotal.Add(ctx, 1, attrs)
	}
}
