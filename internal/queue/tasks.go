package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"textbook-rag-platform/internal/config"
	"textbook-rag-platform/internal/indexer"
	"textbook-rag-platform/internal/logger"
	"textbook-rag-platform/models"
)

const TaskIndexContent = "index:content"

// IndexContentPayload describes one indexing run handed to the worker.
type IndexContentPayload struct {
	ContentDir string `json:"content_dir"`
	Collection string `json:"collection"`
	Language   string `json:"language"`
}

// NewIndexContentTask creates an asynq task for a full (re)index of one
// language's content tree.
func NewIndexContentTask(contentDir, collection, language string) (*asynq.Task, error) {
	payload, err := json.Marshal(IndexContentPayload{
		ContentDir: contentDir,
		Collection: collection,
		Language:   language,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskIndexContent,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Minute),
		asynq.Queue("default"),
	), nil
}

// TaskProcessor runs indexing tasks against the shared provider clients.
type TaskProcessor struct {
	cfg      *config.Config
	embedder indexer.DocumentEmbedder
	store    indexer.PointStore
}

func NewTaskProcessor(cfg *config.Config, embedder indexer.DocumentEmbedder, store indexer.PointStore) *TaskProcessor {
	return &TaskProcessor{cfg: cfg, embedder: embedder, store: store}
}

// HandleIndexContent executes one indexing run. Malformed payloads are not
// retried; provider failures are, since the pipeline aborts before any
// partial upload.
func (p *TaskProcessor) HandleIndexContent(ctx context.Context, t *asynq.Task) error {
	var payload IndexContentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	language, err := models.ParseLanguage(payload.Language)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	logger.Info("indexing task started",
		"content_dir", payload.ContentDir, "collection", payload.Collection, "language", language)

	pipeline := indexer.New(p.embedder, p.store, indexer.Options{
		Collection:      payload.Collection,
		Language:        language,
		Dimension:       p.cfg.VectorDimensions,
		MaxChunkSize:    p.cfg.MaxChunkSize,
		MinChunkSize:    p.cfg.MinChunkSize,
		UploadBatchSize: p.cfg.UploadBatchSize,
	})

	stats, err := pipeline.Run(ctx, payload.ContentDir)
	if err != nil {
		return err
	}

	logger.Info("indexing task complete",
		"files", stats.Files, "chunks", stats.Chunks, "points", stats.Points)
	return nil
}
