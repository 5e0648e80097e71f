package queue

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"textbook-rag-platform/internal/config"
	"textbook-rag-platform/internal/vectorstore"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1, 2}
	}
	return vectors, nil
}

type stubStore struct {
	upserted int
}

func (s *stubStore) EnsureCollection(ctx context.Context, name string, dimension int) error {
	return nil
}

func (s *stubStore) Upsert(ctx context.Context, collection string, points []vectorstore.Point) error {
	s.upserted += len(points)
	return nil
}

func taskConfig() *config.Config {
	return &config.Config{
		VectorDimensions: 2,
		MaxChunkSize:     2000,
		MinChunkSize:     50,
		UploadBatchSize:  100,
	}
}

func TestNewIndexContentTaskPayload(t *testing.T) {
	task, err := NewIndexContentTask("./content/en", "textbook_en", "en")
	require.NoError(t, err)
	assert.Equal(t, TaskIndexContent, task.Type())

	var payload IndexContentPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "./content/en", payload.ContentDir)
	assert.Equal(t, "textbook_en", payload.Collection)
	assert.Equal(t, "en", payload.Language)
}

func TestHandleIndexContentRunsPipeline(t *testing.T) {
	dir := t.TempDir()
	body := strings.Repeat("physical ai ", 20)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chapter-01-foundations.md"), []byte("# Basics\n"+body), 0o644))

	store := &stubStore{}
	processor := NewTaskProcessor(taskConfig(), stubEmbedder{}, store)

	task, err := NewIndexContentTask(dir, "textbook_en", "en")
	require.NoError(t, err)

	require.NoError(t, processor.HandleIndexContent(context.Background(), task))
	assert.Equal(t, 1, store.upserted)
}

func TestHandleIndexContentSkipsRetryOnBadPayload(t *testing.T) {
	processor := NewTaskProcessor(taskConfig(), stubEmbedder{}, &stubStore{})

	err := processor.HandleIndexContent(context.Background(), asynq.NewTask(TaskIndexContent, []byte("not json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleIndexContentSkipsRetryOnBadLanguage(t *testing.T) {
	processor := NewTaskProcessor(taskConfig(), stubEmbedder{}, &stubStore{})

	task, err := NewIndexContentTask("./content", "textbook_en", "zz")
	require.NoError(t, err)

	err = processor.HandleIndexContent(context.Background(), task)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
